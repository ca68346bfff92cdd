package bot

import (
	"fmt"
	"strings"

	"ExchangeLedger/internal/model"
)

// FormatSummary renders the post-mutation snapshot in the bot's reply
// style. The rate-unset warning is deliberate: the figures degenerate to a
// 1:1 conversion until /set is used.
func FormatSummary(sum model.Summary, fiat, crypto string) string {
	var b strings.Builder

	if sum.Last != nil {
		b.WriteString(fmt.Sprintf("🧾 %s | %s\n", sum.Last.ID, sum.Last.Time.Format("2006-01-02 15:04")))
	}
	b.WriteString(fmt.Sprintf("%s Paid: %s\n", fiat, sum.TotalFiat.StringFixed(2)))
	b.WriteString(fmt.Sprintf("%s Used: %s\n", fiat, sum.UsedFiat.StringFixed(2)))
	if sum.RateSet {
		b.WriteString(fmt.Sprintf("Rate: %s\n", sum.Rate.String()))
	} else {
		b.WriteString("Rate: ⚠️ not set, figures assume 1.0 (use /set)\n")
	}
	b.WriteString(fmt.Sprintf("%s To Pay: %s\n", crypto, sum.RequiredCrypto.StringFixed(2)))
	b.WriteString(fmt.Sprintf("%s Sent: %s\n", crypto, sum.SentCrypto.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Remaining: %s\n", sum.Remaining.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Transactions today: %d", sum.Count))

	return b.String()
}
