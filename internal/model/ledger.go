package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single immutable ledger record. FiatAmount is zero when
// the record tracks crypto actually sent rather than fiat received.
type Transaction struct {
	ID           string          `json:"id"`
	Time         time.Time       `json:"time"`
	FiatAmount   decimal.Decimal `json:"fiat_amount"`
	RateAtTime   decimal.Decimal `json:"rate_at_time"`
	CryptoAmount decimal.Decimal `json:"crypto_amount"`
}

// GroupLedger tracks one group's running exchange state for the current day.
// A zero Rate means the group has not configured one yet.
type GroupLedger struct {
	Rate         decimal.Decimal `json:"rate"`
	TotalFiat    decimal.Decimal `json:"total_fiat"`
	UsedFiat     decimal.Decimal `json:"used_fiat"`
	SentCrypto   decimal.Decimal `json:"sent_crypto"`
	Transactions []Transaction   `json:"transactions"`
}

// NewGroupLedger returns a fresh ledger with zero accumulators and no rate.
func NewGroupLedger() *GroupLedger {
	return &GroupLedger{}
}

// HasRate reports whether an exchange rate has been configured.
func (g *GroupLedger) HasRate() bool {
	return g.Rate.IsPositive()
}

// Clone returns a deep copy. Mutations run against a clone so a failed
// operation never leaks partial state into the store.
func (g *GroupLedger) Clone() *GroupLedger {
	c := *g
	c.Transactions = make([]Transaction, len(g.Transactions))
	copy(c.Transactions, g.Transactions)
	return &c
}
