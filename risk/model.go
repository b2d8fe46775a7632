// Package risk converts a risk budget into broker lot sizes and turns
// closed positions into account-currency P&L, using per-symbol pip and
// contract conventions from the market package.
package risk

import (
	"math"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/market"
)

// MinLot is the broker minimum position size.
const MinLot = 0.01

// LotSize computes the lot size that risks balance*riskFraction if the
// stop is hit.
//
//	riskAmount = balance * riskFraction
//	stopPips   = |entry - stop| * pipMultiplier
//	pipValue   = contractSize / pipMultiplier
//	lot        = riskAmount / (stopPips * pipValue)
//
// The result is clamped to MinLot and rounded to 2 decimals. A zero
// stop distance or a malformed signal (missing entry or stop) yields 0,
// which callers treat as "no trade", not an error.
func LotSize(entryPrice, stopLoss float64, symbol string, balance, riskFraction float64) float64 {
	if entryPrice == 0 || stopLoss == 0 {
		return 0
	}

	spec := market.Spec(symbol)
	stopPips := math.Abs(entryPrice-stopLoss) * spec.PipMultiplier
	if stopPips == 0 {
		return 0
	}

	riskAmount := balance * riskFraction
	lot := riskAmount / (stopPips * spec.PipValue())
	if lot < MinLot {
		lot = MinLot
	}
	return math.Round(lot*100) / 100
}

// RealizedPL converts a closed position into account-currency P&L.
// The caller normalizes direction: pass (exit - entry) ordering such
// that a profitable trade yields a positive diff (for shorts, swap the
// arguments).
func RealizedPL(entryPrice, exitPrice, lots float64, symbol string) float64 {
	spec := market.Spec(symbol)
	diff := exitPrice - entryPrice
	return diff * spec.PipMultiplier * spec.PipValue() * lots
}

// StopLossPrice places a stop pips away from entry, against the trade.
// side is +1 for long, -1 for short.
func StopLossPrice(entry float64, side int, pips float64, symbol string) float64 {
	pip := 1 / market.Spec(symbol).PipMultiplier
	return entry - float64(side)*pips*pip
}

// TakeProfitPrice places a target pips away from entry, with the trade.
func TakeProfitPrice(entry float64, side int, pips float64, symbol string) float64 {
	pip := 1 / market.Spec(symbol).PipMultiplier
	return entry + float64(side)*pips*pip
}
