package ledger

import (
	"fmt"
	"strings"
	"time"

	"ExchangeLedger/internal/model"
)

// nextTxID builds <prefix><yyyyMMddHHmmss> from the creation time. When a
// second record lands within the same clock second it gets a sequence
// suffix (-2, -3, ...) so ids stay unique within the group's day.
func nextTxID(prefix string, existing []model.Transaction, ts time.Time) string {
	base := prefix + ts.Format("20060102150405")
	n := 0
	for i := len(existing) - 1; i >= 0; i-- {
		if !strings.HasPrefix(existing[i].ID, base) {
			break
		}
		n++
	}
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n+1)
}
