package backtest

import (
	"fmt"
	"math"
)

// Metric names accepted by Score.
const (
	MetricSharpe       = "sharpe"
	MetricTotalReturn  = "total_return"
	MetricWinRate      = "win_rate"
	MetricProfitFactor = "profit_factor"
)

// annualization factor for the sharpe-like ratio (trading days).
const annualization = 252

// Score reduces a completed run to the named scalar metric. An unknown
// metric name is a hard error rather than a silent zero. Scoring has
// no hidden state: the same report always yields the same value.
func Score(r *Report, metric string) (float64, error) {
	switch metric {
	case MetricSharpe:
		return Sharpe(r.CumulativePL), nil
	case MetricTotalReturn:
		return TotalReturn(r), nil
	case MetricWinRate:
		return WinRate(r), nil
	case MetricProfitFactor:
		return ProfitFactor(r), nil
	default:
		return 0, fmt.Errorf("unknown scoring metric %q", metric)
	}
}

// TotalReturn is final balance minus starting balance.
func TotalReturn(r *Report) float64 {
	return r.FinalBalance - r.StartingBalance
}

// WinRate is winning trades over closed trades, 0 when no trades.
func WinRate(r *Report) float64 {
	if r.TotalTrades == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.TotalTrades)
}

// ProfitFactor is gross profit over gross loss. With wins and zero
// losses it is +Inf; with no trades it is 0.
func ProfitFactor(r *Report) float64 {
	var grossWin, grossLoss float64
	n := 0
	for _, t := range r.Trades {
		if t.Open {
			continue
		}
		n++
		if t.Outcome > 0 {
			grossWin += t.Outcome
		} else if t.Outcome < 0 {
			grossLoss += -t.Outcome
		}
	}
	if n == 0 {
		return 0
	}
	if grossLoss == 0 {
		if grossWin > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossWin / grossLoss
}

// Sharpe is the annualized mean over standard deviation of the
// period-over-period changes in cumulative P&L. The first change is
// taken as zero; the standard deviation is the sample deviation. Zero
// or undefined deviation yields 0.
func Sharpe(cumulativePL []float64) float64 {
	n := len(cumulativePL)
	if n < 2 {
		return 0
	}

	diffs := make([]float64, n)
	diffs[0] = 0
	for i := 1; i < n; i++ {
		diffs[i] = cumulativePL[i] - cumulativePL[i-1]
	}

	mean := 0.0
	for _, d := range diffs {
		mean += d
	}
	mean /= float64(n)

	variance := 0.0
	for _, d := range diffs {
		variance += (d - mean) * (d - mean)
	}
	variance /= float64(n - 1)

	std := math.Sqrt(variance)
	if std == 0 || math.IsNaN(std) {
		return 0
	}
	return mean / std * math.Sqrt(annualization)
}
