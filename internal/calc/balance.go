package calc

import (
	"ExchangeLedger/internal/model"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// EffectiveRate returns the configured rate, or 1 while no rate is set.
// The rate-of-1 fallback keeps the arithmetic defined; callers surface the
// unset state to users instead of hiding it.
func EffectiveRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsPositive() {
		return rate
	}
	return one
}

// RequiredCrypto converts the accumulated fiat into crypto terms.
func RequiredCrypto(totalFiat, rate decimal.Decimal) decimal.Decimal {
	return totalFiat.Div(EffectiveRate(rate))
}

// Remaining is the outstanding crypto obligation.
func Remaining(required, sent decimal.Decimal) decimal.Decimal {
	return required.Sub(sent)
}

// Summarize projects a ledger into the reply snapshot. Safe on a ledger
// with no transactions yet.
func Summarize(led *model.GroupLedger) model.Summary {
	required := RequiredCrypto(led.TotalFiat, led.Rate)
	sum := model.Summary{
		Count:          len(led.Transactions),
		Rate:           led.Rate,
		RateSet:        led.HasRate(),
		TotalFiat:      led.TotalFiat,
		UsedFiat:       led.UsedFiat,
		RequiredCrypto: required,
		SentCrypto:     led.SentCrypto,
		Remaining:      Remaining(required, led.SentCrypto),
	}
	if n := len(led.Transactions); n > 0 {
		last := led.Transactions[n-1]
		sum.Last = &last
	}
	return sum
}
