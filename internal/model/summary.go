package model

import "github.com/shopspring/decimal"

// Summary is the human-facing snapshot returned after every accepted
// mutation. RequiredCrypto and Remaining are recomputed on every read,
// never cached. RateSet is false while the group runs in the degenerate
// rate-of-1 mode.
type Summary struct {
	Last           *Transaction
	Count          int
	Rate           decimal.Decimal
	RateSet        bool
	TotalFiat      decimal.Decimal
	UsedFiat       decimal.Decimal
	RequiredCrypto decimal.Decimal
	SentCrypto     decimal.Decimal
	Remaining      decimal.Decimal
}
