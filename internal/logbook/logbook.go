package logbook

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var header = []string{"id", "time", "fiat", "rate", "crypto"}

// Record is one durable log line, mirroring a ledger Transaction.
type Record struct {
	ID     string
	Time   time.Time
	Fiat   decimal.Decimal
	Rate   decimal.Decimal
	Crypto decimal.Decimal
}

// Book appends transaction records to one CSV file per (group, calendar
// day). Files are append-only and never read back by the bot; they exist
// as the audit trail and for /export. Writes lock per group, so appends
// for different groups never wait on each other's fsync.
type Book struct {
	dir   string
	mapMu sync.Mutex // protects locks
	locks map[int64]*sync.Mutex
}

// New creates the log directory if needed.
func New(dir string) (*Book, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &Book{dir: dir, locks: make(map[int64]*sync.Mutex)}, nil
}

func (b *Book) lockFor(groupID int64) *sync.Mutex {
	b.mapMu.Lock()
	defer b.mapMu.Unlock()
	if _, ok := b.locks[groupID]; !ok {
		b.locks[groupID] = &sync.Mutex{}
	}
	return b.locks[groupID]
}

// Path derives the log file for a group and calendar day. Deterministic, so
// export lookups are a pure function of the two inputs.
func (b *Book) Path(groupID int64, day time.Time) string {
	return filepath.Join(b.dir, fmt.Sprintf("ledger_%d_%s.csv", groupID, day.Format("2006-01-02")))
}

// Append writes one record to the group's log for the record's calendar
// day, creating the file with a header row on first write. The write is
// synced before returning; a nil return means the record is durable.
func (b *Book) Append(groupID int64, rec Record) error {
	lock := b.lockFor(groupID)
	lock.Lock()
	defer lock.Unlock()

	path := b.Path(groupID, rec.Time)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat log %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write log header: %w", err)
		}
	}
	row := []string{
		rec.ID,
		rec.Time.Format("2006-01-02 15:04"),
		rec.Fiat.StringFixed(2),
		rec.Rate.String(),
		rec.Crypto.StringFixed(2),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush log: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}
	return nil
}

// Exists reports whether a log file exists for the given key, returning its
// path when it does.
func (b *Book) Exists(groupID int64, day time.Time) (string, bool) {
	path := b.Path(groupID, day)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
