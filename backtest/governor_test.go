package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-03-04 is a Monday, ISO week 10.
var monday = time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)

func TestSizingMultiplier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		day    time.Time
		trades int
		want   float64
	}{
		{"monday no trades", monday, 0, 1.0},
		{"wednesday no trades", monday.AddDate(0, 0, 2), 0, 1.0},
		{"thursday no trades", monday.AddDate(0, 0, 3), 0, 1.3},
		{"thursday two trades", monday.AddDate(0, 0, 3), 2, 1.3},
		{"thursday at min", monday.AddDate(0, 0, 3), 3, 1.0},
		{"sunday behind", monday.AddDate(0, 0, 6), 1, 1.3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := NewGovernor(DefaultGovernorConfig(), nil)
			g.Observe(monday, 10000)
			for i := 0; i < tt.trades; i++ {
				g.RecordTrade()
			}
			assert.InDelta(t, tt.want, g.SizingMultiplier(tt.day), 1e-9)
		})
	}
}

func TestAllowEntryCapsWeek(t *testing.T) {
	t.Parallel()

	g := NewGovernor(GovernorConfig{MinTradesPerWeek: 1, MaxTradesPerWeek: 2}, nil)
	g.Observe(monday, 10000)

	assert.True(t, g.AllowEntry())
	g.RecordTrade()
	assert.True(t, g.AllowEntry())
	g.RecordTrade()
	assert.False(t, g.AllowEntry())

	// A new ISO week resets the counter.
	g.Observe(monday.AddDate(0, 0, 7), 10000)
	assert.True(t, g.AllowEntry())
}

func TestWeekRollover(t *testing.T) {
	t.Parallel()

	g := NewGovernor(DefaultGovernorConfig(), nil)

	_, ok := g.Observe(monday, 10000)
	assert.False(t, ok)

	for i := 0; i < 4; i++ {
		g.RecordTrade()
	}

	// Same week, no summary.
	_, ok = g.Observe(monday.AddDate(0, 0, 4), 10100)
	assert.False(t, ok)

	// Next Monday closes week 10.
	sum, ok := g.Observe(monday.AddDate(0, 0, 7), 10250)
	require.True(t, ok)
	assert.Equal(t, 2024, sum.Year)
	assert.Equal(t, 10, sum.Week)
	assert.Equal(t, 4, sum.Trades)
	assert.True(t, sum.WithinTarget)
	assert.InDelta(t, 10250.0, sum.Balance, 1e-9)

	assert.Equal(t, 0, g.TradesThisWeek())
}

func TestWeekRolloverBelowTarget(t *testing.T) {
	t.Parallel()

	g := NewGovernor(DefaultGovernorConfig(), nil)
	g.Observe(monday, 10000)
	g.RecordTrade()

	sum, ok := g.Observe(monday.AddDate(0, 0, 7), 9900)
	require.True(t, ok)
	assert.Equal(t, 1, sum.Trades)
	assert.False(t, sum.WithinTarget)
}

func TestFlush(t *testing.T) {
	t.Parallel()

	g := NewGovernor(DefaultGovernorConfig(), nil)

	// Nothing observed yet: nothing to flush.
	_, ok := g.Flush(10000)
	assert.False(t, ok)

	g.Observe(monday, 10000)
	g.RecordTrade()

	sum, ok := g.Flush(10050)
	require.True(t, ok)
	assert.Equal(t, 10, sum.Week)
	assert.Equal(t, 1, sum.Trades)
	assert.InDelta(t, 10050.0, sum.Balance, 1e-9)
}

func TestNewGovernorDefaults(t *testing.T) {
	t.Parallel()

	g := NewGovernor(GovernorConfig{}, nil)
	assert.Equal(t, 3, g.cfg.MinTradesPerWeek)
	assert.Equal(t, 10, g.cfg.MaxTradesPerWeek)
	assert.InDelta(t, 1.3, g.cfg.AggressionMultiplier, 1e-9)
	assert.Equal(t, 3, g.cfg.AggressionDay)
}
