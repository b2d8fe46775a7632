package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLotSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		entry, stop  float64
		symbol       string
		balance      float64
		riskFraction float64
		want         float64
	}{
		// 10 pip stop, $10/pip per lot: (10000*0.01)/(10*10) = 1.00.
		{"standard ten pip stop", 1.1000, 1.0990, "EURUSDm", 10000, 0.01, 1.00},
		// 100 pip stop scales the size down tenfold.
		{"hundred pip stop", 1.1000, 1.0900, "EURUSDm", 10000, 0.01, 0.10},
		// Tiny risk budget clamps to the broker minimum.
		{"clamped to min lot", 1.1000, 1.0000, "EURUSD", 100, 0.001, MinLot},
		// JPY pair uses its own pip conventions.
		{"jpy pair", 150.00, 149.50, "USDJPY", 10000, 0.01, MinLot},
		{"zero entry", 0, 1.0990, "EURUSD", 10000, 0.01, 0},
		{"zero stop", 1.1000, 0, "EURUSD", 10000, 0.01, 0},
		{"no stop distance", 1.1000, 1.1000, "EURUSD", 10000, 0.01, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := LotSize(tt.entry, tt.stop, tt.symbol, tt.balance, tt.riskFraction)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLotSizeUnknownSymbolFallsBack(t *testing.T) {
	t.Parallel()

	// Unknown names use the default FX conventions, so a suffixed major
	// sizes identically to its listed form.
	suffixed := LotSize(1.1000, 1.0990, "EURUSDm", 10000, 0.01)
	listed := LotSize(1.1000, 1.0990, "EURUSD", 10000, 0.01)
	assert.InDelta(t, listed, suffixed, 1e-9)
}

func TestRealizedPL(t *testing.T) {
	t.Parallel()

	// Long 1 lot EURUSD, +50 pips: 50 * $10 = $500.
	got := RealizedPL(1.1000, 1.1050, 1.0, "EURUSD")
	assert.InDelta(t, 500.0, got, 1e-6)

	// Losing long.
	got = RealizedPL(1.1000, 1.0970, 1.0, "EURUSD")
	assert.InDelta(t, -300.0, got, 1e-6)

	// Shorts pass swapped prices so profit stays positive.
	got = RealizedPL(1.0950, 1.1000, 0.5, "EURUSD")
	assert.InDelta(t, 250.0, got, 1e-6)
}

func TestStopAndTargetPlacement(t *testing.T) {
	t.Parallel()

	// Long: stop below, target above.
	assert.InDelta(t, 1.0950, StopLossPrice(1.1000, +1, 50, "EURUSD"), 1e-9)
	assert.InDelta(t, 1.1100, TakeProfitPrice(1.1000, +1, 100, "EURUSD"), 1e-9)

	// Short: mirrored.
	assert.InDelta(t, 1.1050, StopLossPrice(1.1000, -1, 50, "EURUSD"), 1e-9)
	assert.InDelta(t, 1.0900, TakeProfitPrice(1.1000, -1, 100, "EURUSD"), 1e-9)
}
