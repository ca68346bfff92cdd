package ledger

import (
	"fmt"
	"log"
	"strings"
	"time"

	"ExchangeLedger/internal/calc"
	"ExchangeLedger/internal/logbook"
	"ExchangeLedger/internal/model"
	"ExchangeLedger/internal/store"

	"github.com/shopspring/decimal"
)

// Service implements the group ledger operations. Callers are assumed to be
// already authorized; the service never re-checks identity.
type Service struct {
	store    *store.Store
	book     *logbook.Book
	idPrefix string
	now      func() time.Time
}

// NewService wires the store and the durable log writer together.
func NewService(st *store.Store, book *logbook.Book, idPrefix string) *Service {
	return &Service{store: st, book: book, idPrefix: idPrefix, now: time.Now}
}

// WithClock overrides the wall clock, used for timezone pinning and tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SetRate parses and stores a new exchange rate for the group. The rate
// must be a finite number > 0. Accumulators and transactions are untouched.
func (s *Service) SetRate(groupID int64, rateText string) (decimal.Decimal, error) {
	text := strings.TrimSpace(rateText)
	if text == "" {
		return decimal.Zero, ErrMissingArgument
	}
	rate, err := decimal.NewFromString(text)
	if err != nil || !rate.IsPositive() {
		return decimal.Zero, ErrInvalidRateFormat
	}
	err = s.store.Update(groupID, func(led *model.GroupLedger) error {
		led.Rate = rate
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}

// ApplyFiatDelta applies a signed fiat adjustment ("+9000", "-500"). The
// total accumulator follows the sign; the used accumulator only grows.
func (s *Service) ApplyFiatDelta(groupID int64, deltaText string) (model.Summary, error) {
	text := strings.TrimSpace(deltaText)
	if text == "" {
		return model.Summary{}, ErrMissingArgument
	}
	if text[0] != '+' && text[0] != '-' {
		return model.Summary{}, ErrInvalidAmountFormat
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return model.Summary{}, ErrInvalidAmountFormat
	}

	var sum model.Summary
	err = s.store.Update(groupID, func(led *model.GroupLedger) error {
		led.TotalFiat = led.TotalFiat.Add(amount)
		if amount.IsPositive() {
			led.UsedFiat = led.UsedFiat.Add(amount)
		}
		rate := calc.EffectiveRate(led.Rate)
		if err := s.record(groupID, led, amount, amount.Div(rate), rate); err != nil {
			return err
		}
		sum = calc.Summarize(led)
		return nil
	})
	if err != nil {
		return model.Summary{}, err
	}
	return sum, nil
}

// ApplyCryptoSent marks an amount of crypto as sent. A trailing unit suffix
// ("1000u") is tolerated. The amount is recorded raw, not derived from the
// rate.
func (s *Service) ApplyCryptoSent(groupID int64, amountText string) (model.Summary, error) {
	text := strings.TrimSpace(amountText)
	if text == "" {
		return model.Summary{}, ErrMissingArgument
	}
	text = strings.TrimRight(text, "uU")
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return model.Summary{}, ErrInvalidAmountFormat
	}

	var sum model.Summary
	err = s.store.Update(groupID, func(led *model.GroupLedger) error {
		led.SentCrypto = led.SentCrypto.Add(amount)
		if err := s.record(groupID, led, decimal.Zero, amount, calc.EffectiveRate(led.Rate)); err != nil {
			return err
		}
		sum = calc.Summarize(led)
		return nil
	})
	if err != nil {
		return model.Summary{}, err
	}
	return sum, nil
}

// Reset replaces the group's ledger with a fresh one, preserving the rate.
// No transaction is recorded. Always succeeds for a live store.
func (s *Service) Reset(groupID int64) error {
	return s.store.Update(groupID, func(led *model.GroupLedger) error {
		rate := led.Rate
		*led = *model.NewGroupLedger()
		led.Rate = rate
		return nil
	})
}

// ResetAll applies the daily reset to every known group. A failure on one
// group is logged and never stops the sweep. Returns the number of groups
// reset.
func (s *Service) ResetAll() int {
	reset := 0
	for _, id := range s.store.Groups() {
		if err := s.Reset(id); err != nil {
			log.Printf("[ERROR] daily reset group %d: %v", id, err)
			continue
		}
		reset++
	}
	return reset
}

// Summary returns the current snapshot for the group, creating an empty
// ledger if the group is new.
func (s *Service) Summary(groupID int64) model.Summary {
	var sum model.Summary
	s.store.View(groupID, func(led *model.GroupLedger) {
		sum = calc.Summarize(led)
	})
	return sum
}

// ExportPath returns the durable log file for (group, day), or ErrNotFound
// when no transaction was logged for that day.
func (s *Service) ExportPath(groupID int64, day time.Time) (string, error) {
	path, ok := s.book.Exists(groupID, day)
	if !ok {
		return "", ErrNotFound
	}
	return path, nil
}

// Now returns the service's current wall-clock time.
func (s *Service) Now() time.Time {
	return s.now()
}

// record allocates a transaction id, appends the record to the ledger and
// to the durable log. Runs inside store.Update with the group lock held;
// a log append failure propagates out and rolls the whole mutation back.
func (s *Service) record(groupID int64, led *model.GroupLedger, fiat, crypto, rate decimal.Decimal) error {
	ts := s.now()
	tx := model.Transaction{
		ID:           nextTxID(s.idPrefix, led.Transactions, ts),
		Time:         ts,
		FiatAmount:   fiat,
		RateAtTime:   rate,
		CryptoAmount: crypto,
	}
	led.Transactions = append(led.Transactions, tx)
	err := s.book.Append(groupID, logbook.Record{
		ID:     tx.ID,
		Time:   tx.Time,
		Fiat:   tx.FiatAmount,
		Rate:   tx.RateAtTime,
		Crypto: tx.CryptoAmount,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
