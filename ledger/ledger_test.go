package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenClose(t *testing.T) {
	t.Parallel()

	l := New(10000)
	entry := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)

	id, err := l.Open(Trade{
		Symbol:     "EURUSDm",
		Side:       Long,
		EntryTime:  entry,
		EntryPrice: 1.1000,
		Lots:       1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, id)
	assert.True(t, l.HasOpen())

	open, ok := l.OpenTrade()
	require.True(t, ok)
	assert.True(t, open.Open)
	assert.InDelta(t, 10000.0, open.BalanceBefore, 1e-9)

	// Balance only changes on close.
	assert.InDelta(t, 10000.0, l.Balance(), 1e-9)

	closed, err := l.Close(entry.Add(2*time.Hour), 1.1050, "Hit take profit", 500)
	require.NoError(t, err)
	assert.False(t, closed.Open)
	assert.InDelta(t, 10500.0, closed.BalanceAfter, 1e-9)
	assert.InDelta(t, 10500.0, l.Balance(), 1e-9)
	assert.False(t, l.HasOpen())
}

func TestSingleOpenInvariant(t *testing.T) {
	t.Parallel()

	l := New(10000)
	_, err := l.Open(Trade{Side: Long})
	require.NoError(t, err)

	_, err = l.Open(Trade{Side: Short})
	assert.ErrorIs(t, err, ErrTradeOpen)
}

func TestCloseWithoutOpen(t *testing.T) {
	t.Parallel()

	l := New(10000)
	_, err := l.Close(time.Now(), 1.1, "x", 0)
	assert.ErrorIs(t, err, ErrNoOpenTrade)
}

func TestBalanceChain(t *testing.T) {
	t.Parallel()

	l := New(10000)
	now := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)

	outcomes := []float64{500, -200, -800, 300}
	for i, out := range outcomes {
		_, err := l.Open(Trade{Side: Long, EntryTime: now.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
		_, err = l.Close(now.Add(time.Duration(i)*time.Hour+30*time.Minute), 1.1, "exit", out)
		require.NoError(t, err)
	}

	// Each trade's BalanceBefore equals the previous BalanceAfter.
	trades := l.Closed()
	require.Len(t, trades, 4)
	for i := 1; i < len(trades); i++ {
		assert.InDelta(t, trades[i-1].BalanceAfter, trades[i].BalanceBefore, 1e-9)
	}

	assert.InDelta(t, 9800.0, l.Balance(), 1e-9)
	assert.InDelta(t, 10500.0, l.PeakBalance(), 1e-9)
	// Peak 10500 down to 9500 after the third trade.
	assert.InDelta(t, 1000.0, l.MaxDrawdown(), 1e-9)

	assert.Equal(t, []float64{500, 300, -500, -200}, l.CumulativePL())
}

func TestSideString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "buy", Long.String())
	assert.Equal(t, "sell", Short.String())
}
