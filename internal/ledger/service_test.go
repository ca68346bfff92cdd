package ledger_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"ExchangeLedger/internal/ledger"
	"ExchangeLedger/internal/logbook"
	"ExchangeLedger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 8, 28, 15, 30, 15, 0, time.UTC)

func newTestService(t *testing.T) (*ledger.Service, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	logDir := filepath.Join(dir, "logs")
	book, err := logbook.New(logDir)
	require.NoError(t, err)
	svc := ledger.NewService(st, book, "TXN").
		WithClock(func() time.Time { return fixedTime })
	return svc, logDir
}

func logLines(t *testing.T, logDir string, groupID string) []string {
	t.Helper()
	path := filepath.Join(logDir, "ledger_"+groupID+"_2026-08-28.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestSetRate(t *testing.T) {
	svc, _ := newTestService(t)

	rate, err := svc.SetRate(1, "91.5")
	require.NoError(t, err)
	assert.Equal(t, "91.5", rate.String())

	_, err = svc.SetRate(1, "abc")
	assert.ErrorIs(t, err, ledger.ErrInvalidRateFormat)
	_, err = svc.SetRate(1, "0")
	assert.ErrorIs(t, err, ledger.ErrInvalidRateFormat)
	_, err = svc.SetRate(1, "-90")
	assert.ErrorIs(t, err, ledger.ErrInvalidRateFormat)
	_, err = svc.SetRate(1, "")
	assert.ErrorIs(t, err, ledger.ErrMissingArgument)

	// Failed attempts must not clobber the stored rate.
	sum := svc.Summary(1)
	assert.True(t, sum.RateSet)
	assert.Equal(t, "91.5", sum.Rate.String())
	assert.Zero(t, sum.Count, "rate changes never record a transaction")
}

func TestExchangeScenario(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetRate(1, "90")
	require.NoError(t, err)

	sum, err := svc.ApplyFiatDelta(1, "+9000")
	require.NoError(t, err)
	assert.Equal(t, "100.00", sum.RequiredCrypto.StringFixed(2))
	assert.Equal(t, "100.00", sum.Remaining.StringFixed(2))
	assert.Equal(t, "9000.00", sum.TotalFiat.StringFixed(2))
	assert.Equal(t, "9000.00", sum.UsedFiat.StringFixed(2))
	assert.Equal(t, 1, sum.Count)
	require.NotNil(t, sum.Last)
	assert.Equal(t, "TXN20260828153015", sum.Last.ID)

	sum, err = svc.ApplyCryptoSent(1, "40u")
	require.NoError(t, err)
	assert.Equal(t, "40.00", sum.SentCrypto.StringFixed(2))
	assert.Equal(t, "60.00", sum.Remaining.StringFixed(2))
	assert.Equal(t, 2, sum.Count)
	require.NotNil(t, sum.Last)
	assert.True(t, sum.Last.FiatAmount.IsZero(), "crypto-sent records carry no fiat amount")
	assert.Equal(t, "40", sum.Last.CryptoAmount.String())
}

func TestFiatDelta_DegenerateRate(t *testing.T) {
	svc, _ := newTestService(t)

	sum, err := svc.ApplyFiatDelta(1, "+1000")
	require.NoError(t, err)
	assert.False(t, sum.RateSet, "summary must flag the unset rate")
	assert.Equal(t, "1000.00", sum.RequiredCrypto.StringFixed(2))
	require.NotNil(t, sum.Last)
	assert.Equal(t, "1", sum.Last.RateAtTime.String())
}

func TestFiatDelta_NegativeCorrection(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SetRate(1, "90")
	require.NoError(t, err)

	_, err = svc.ApplyFiatDelta(1, "+9000")
	require.NoError(t, err)
	sum, err := svc.ApplyFiatDelta(1, "-500")
	require.NoError(t, err)

	assert.Equal(t, "8500.00", sum.TotalFiat.StringFixed(2))
	assert.Equal(t, "9000.00", sum.UsedFiat.StringFixed(2), "negative deltas must not reduce used fiat")
	assert.Equal(t, 2, sum.Count)
}

func TestFiatDelta_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ApplyFiatDelta(1, "abc")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmountFormat)
	_, err = svc.ApplyFiatDelta(1, "9000") // missing sign prefix
	assert.ErrorIs(t, err, ledger.ErrInvalidAmountFormat)
	_, err = svc.ApplyFiatDelta(1, "+12x")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmountFormat)
	_, err = svc.ApplyFiatDelta(1, "")
	assert.ErrorIs(t, err, ledger.ErrMissingArgument)

	sum := svc.Summary(1)
	assert.Zero(t, sum.Count, "rejected input must not record a transaction")
	assert.True(t, sum.TotalFiat.IsZero())
}

func TestCryptoSent_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ApplyCryptoSent(1, "")
	assert.ErrorIs(t, err, ledger.ErrMissingArgument)
	_, err = svc.ApplyCryptoSent(1, "abc")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmountFormat)
}

func TestReset_PreservesRate(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SetRate(1, "90")
	require.NoError(t, err)
	_, err = svc.ApplyFiatDelta(1, "+9000")
	require.NoError(t, err)
	_, err = svc.ApplyCryptoSent(1, "40")
	require.NoError(t, err)

	require.NoError(t, svc.Reset(1))

	sum := svc.Summary(1)
	assert.True(t, sum.RateSet)
	assert.Equal(t, "90", sum.Rate.String())
	assert.True(t, sum.TotalFiat.IsZero())
	assert.True(t, sum.UsedFiat.IsZero())
	assert.True(t, sum.SentCrypto.IsZero())
	assert.Zero(t, sum.Count)
	assert.Nil(t, sum.Last)
}

func TestResetAll_SweepsEveryGroup(t *testing.T) {
	svc, _ := newTestService(t)
	for _, id := range []int64{1, 2, 3} {
		_, err := svc.SetRate(id, "90")
		require.NoError(t, err)
		_, err = svc.ApplyFiatDelta(id, "+100")
		require.NoError(t, err)
	}

	assert.Equal(t, 3, svc.ResetAll())
	for _, id := range []int64{1, 2, 3} {
		sum := svc.Summary(id)
		assert.True(t, sum.TotalFiat.IsZero(), "group %d not reset", id)
		assert.Equal(t, "90", sum.Rate.String(), "group %d lost its rate", id)
	}
}

func TestDurableLog_OneLinePerMutation(t *testing.T) {
	svc, logDir := newTestService(t)
	_, err := svc.SetRate(1, "90")
	require.NoError(t, err)
	_, err = svc.ApplyFiatDelta(1, "+9000")
	require.NoError(t, err)
	_, err = svc.ApplyCryptoSent(1, "40")
	require.NoError(t, err)

	lines := logLines(t, logDir, "1")
	require.Len(t, lines, 3, "header plus one line per mutation")
	assert.Equal(t, "id,time,fiat,rate,crypto", lines[0])
	assert.Contains(t, lines[1], "TXN20260828153015,2026-08-28 15:30,9000.00,90,100.00")
	assert.Contains(t, lines[2], "TXN20260828153015-2,2026-08-28 15:30,0.00,90,40.00")
}

func TestTxID_SameSecondGetsSuffix(t *testing.T) {
	svc, _ := newTestService(t)
	sum1, err := svc.ApplyFiatDelta(1, "+1")
	require.NoError(t, err)
	sum2, err := svc.ApplyFiatDelta(1, "+1")
	require.NoError(t, err)

	assert.Equal(t, "TXN20260828153015", sum1.Last.ID)
	assert.Equal(t, "TXN20260828153015-2", sum2.Last.ID)
}

func TestPersistenceFailure_RollsBack(t *testing.T) {
	svc, logDir := newTestService(t)

	// Occupy today's log path with a directory so the append cannot open it.
	blocked := filepath.Join(logDir, "ledger_1_2026-08-28.csv")
	require.NoError(t, os.Mkdir(blocked, 0o755))

	_, err := svc.ApplyFiatDelta(1, "+9000")
	require.ErrorIs(t, err, ledger.ErrPersistence)

	sum := svc.Summary(1)
	assert.True(t, sum.TotalFiat.IsZero(), "in-memory change must roll back when the log append fails")
	assert.True(t, sum.UsedFiat.IsZero())
	assert.Zero(t, sum.Count)
}

func TestExportPath(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ExportPath(1, fixedTime)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = svc.ApplyFiatDelta(1, "+100")
	require.NoError(t, err)

	path, err := svc.ExportPath(1, fixedTime)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestConcurrentMutations_SameGroup(t *testing.T) {
	svc, logDir := newTestService(t)
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyFiatDelta(1, "+1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sum := svc.Summary(1)
	assert.True(t, sum.TotalFiat.Equal(decimal.NewFromInt(n)), "lost update: total is %s", sum.TotalFiat)
	assert.Equal(t, n, sum.Count)
	assert.Len(t, logLines(t, logDir, "1"), n+1, "every mutation must leave exactly one log line")
}
