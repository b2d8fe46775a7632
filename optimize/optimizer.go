package optimize

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/backtest"
)

// Runner builds a fresh engine for one parameter combination and runs
// a full simulation over the shared, read-only historical data. No
// state may be shared between invocations.
type Runner func(p Params) (*backtest.Report, error)

// Result pairs a combination with its score and report.
type Result struct {
	Params Params
	Score  float64
	Report *backtest.Report
}

// Optimizer performs an exhaustive grid search.
type Optimizer struct {
	metric string
	run    Runner
	log    logrus.FieldLogger
}

func New(metric string, run Runner, log logrus.FieldLogger) (*Optimizer, error) {
	if run == nil {
		return nil, fmt.Errorf("optimize: nil runner")
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Optimizer{metric: metric, run: run, log: log}, nil
}

// Optimize evaluates every combination and returns the best one.
// Strictly greater scores replace the incumbent; equal scores keep the
// earliest-found combination. ctx bounds the whole sweep: cancellation
// is honored between runs, never mid-run.
//
// When no combination ever trades, every score ties and the first
// combination is returned; callers should check the report's trade
// count before trusting the result.
func (o *Optimizer) Optimize(ctx context.Context, grid *Grid) (Result, error) {
	combos := grid.Combinations()
	if len(combos) == 0 {
		return Result{}, fmt.Errorf("optimize: empty parameter grid")
	}

	var best Result
	for i, p := range combos {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("optimize: sweep aborted after %d/%d runs: %w", i, len(combos), err)
		}

		rep, err := o.run(p)
		if err != nil {
			return Result{}, fmt.Errorf("optimize: run %d (%v): %w", i, p, err)
		}
		score, err := backtest.Score(rep, o.metric)
		if err != nil {
			return Result{}, err
		}

		o.log.WithFields(logrus.Fields{
			"combination": i,
			"params":      fmt.Sprintf("%v", p),
			"score":       score,
			"trades":      rep.TotalTrades,
		}).Info("grid point evaluated")

		if i == 0 || score > best.Score {
			best = Result{Params: p, Score: score, Report: rep}
		}
	}
	return best, nil
}
