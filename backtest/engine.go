// Package backtest drives the time-stepped simulation: for each bar it
// consults the signal source, the weekly governor and the risk model,
// updates the trade ledger, and produces a report.
package backtest

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/ledger"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/market"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/risk"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/strategy"
)

// Config holds the engine-level simulation parameters.
type Config struct {
	Symbol         string
	InitialBalance float64
	RiskFraction   float64

	// PatternBars is the trailing window length handed to the pattern
	// classifier each bar.
	PatternBars int
}

func DefaultConfig(symbol string) Config {
	return Config{
		Symbol:         symbol,
		InitialBalance: 10000,
		RiskFraction:   0.01,
		PatternBars:    6,
	}
}

// Engine is the FLAT/OPEN state machine over one bar series. It is not
// safe for concurrent reuse; the optimizer builds a fresh engine per
// parameter combination.
type Engine struct {
	cfg    Config
	series *market.BarSeries
	sig    *strategy.ORB
	gov    *Governor
	ldg    *ledger.Ledger
	log    logrus.FieldLogger

	equity   []float64
	weekly   []WeekSummary
	depleted bool
	done     bool
}

// NewEngine wires the collaborators for one run. series must be
// non-empty (a precondition, enforced by market.NewBarSeries).
func NewEngine(cfg Config, series *market.BarSeries, sig *strategy.ORB, gov *Governor, log logrus.FieldLogger) (*Engine, error) {
	if series == nil || series.Len() == 0 {
		return nil, market.ErrNoData
	}
	if sig == nil {
		return nil, fmt.Errorf("backtest: nil signal source")
	}
	if gov == nil {
		gov = NewGovernor(DefaultGovernorConfig(), log)
	}
	if cfg.InitialBalance <= 0 {
		return nil, fmt.Errorf("backtest: initial balance must be positive, got %v", cfg.InitialBalance)
	}
	if cfg.RiskFraction <= 0 || cfg.RiskFraction >= 1 {
		return nil, fmt.Errorf("backtest: risk fraction must be in (0,1), got %v", cfg.RiskFraction)
	}
	if cfg.PatternBars <= 0 {
		cfg.PatternBars = 6
	}
	if log == nil {
		log = discardLogger()
	}

	return &Engine{
		cfg:    cfg,
		series: series,
		sig:    sig,
		gov:    gov,
		ldg:    ledger.New(cfg.InitialBalance),
		log:    log,
		equity: make([]float64, 0, series.Len()),
	}, nil
}

// Ledger exposes the run's trade ledger (read-only use expected).
func (e *Engine) Ledger() *ledger.Ledger { return e.ldg }

// Run executes the simulation over the full series. One bar is fully
// processed before the next is read; the run ends at end-of-data or
// when the balance depletes. A depleted run is not an error: the
// report is valid over the trades executed so far.
func (e *Engine) Run() (*Report, error) {
	if e.done {
		return nil, fmt.Errorf("backtest: engine already ran; build a fresh engine per run")
	}
	e.done = true

	for i := 0; i < e.series.Len(); i++ {
		bar := e.series.At(i)

		if sum, ok := e.gov.Observe(bar.Time, e.ldg.Balance()); ok {
			e.weekly = append(e.weekly, sum)
		}

		if e.ldg.Balance() <= 0 {
			e.depleted = true
			e.log.WithField("balance", e.ldg.Balance()).Warn("balance depleted, terminating run")
			break
		}

		win := e.series.Trailing(i, e.cfg.PatternBars)

		if open, inTrade := e.ldg.OpenTrade(); inTrade {
			e.checkExit(bar, win, open)
		} else if e.gov.AllowEntry() {
			e.checkEntry(bar, win)
		} else {
			// Entry suppressed this week. The bar still feeds the
			// rolling S/R window so the next allowed setup is judged
			// against contiguous data.
			e.sig.Observe(bar, win)
		}

		e.equity = append(e.equity, e.ldg.Balance())
	}

	if sum, ok := e.gov.Flush(e.ldg.Balance()); ok {
		e.weekly = append(e.weekly, sum)
	}

	return e.report(), nil
}

// checkEntry opens a trade when the signal source validates a setup
// and the risk model yields a positive size. A zero size is a
// recoverable "no trade", never an error.
func (e *Engine) checkEntry(bar market.Bar, win market.Window) {
	sig := e.sig.ShouldEnter(bar, win)
	if sig == nil {
		return
	}

	lots := risk.LotSize(sig.Price, sig.StopLoss, e.cfg.Symbol, e.ldg.Balance(), e.cfg.RiskFraction)
	if lots <= 0 {
		return
	}
	lots *= e.gov.SizingMultiplier(bar.Time)

	year, week := bar.Time.ISOWeek()
	id, err := e.ldg.Open(ledger.Trade{
		Symbol:               e.cfg.Symbol,
		Side:                 sideOf(sig.Direction),
		EntryTime:            bar.Time,
		EntryPrice:           sig.Price,
		Lots:                 lots,
		StopLoss:             sig.StopLoss,
		TakeProfit:           sig.TakeProfit,
		ISOYear:              year,
		ISOWeek:              week,
		TradesThisWeekBefore: e.gov.TradesThisWeek(),
	})
	if err != nil {
		// Unreachable while in_trade gates entries; log and move on.
		e.log.WithError(err).Error("open trade rejected")
		return
	}

	e.sig.NotifyEntry()
	e.gov.RecordTrade()

	e.log.WithFields(logrus.Fields{
		"trade":       id,
		"direction":   sig.Direction.String(),
		"price":       sig.Price,
		"lots":        lots,
		"stop_loss":   sig.StopLoss,
		"take_profit": sig.TakeProfit,
		"week_trades": e.gov.TradesThisWeek(),
	}).Info("trade opened")
}

// checkExit realizes the open trade when an exit signal fires, with
// P&L normalized for direction before the risk model is invoked.
func (e *Engine) checkExit(bar market.Bar, win market.Window, open ledger.Trade) {
	ex := e.sig.ShouldExit(bar, win, open)
	if ex == nil {
		return
	}

	var pnl float64
	if open.Side == ledger.Long {
		pnl = risk.RealizedPL(open.EntryPrice, ex.Price, open.Lots, e.cfg.Symbol)
	} else {
		pnl = risk.RealizedPL(ex.Price, open.EntryPrice, open.Lots, e.cfg.Symbol)
	}

	t, err := e.ldg.Close(ex.Time, ex.Price, ex.Reason, pnl)
	if err != nil {
		e.log.WithError(err).Error("close trade rejected")
		return
	}
	e.sig.NotifyExit()

	e.log.WithFields(logrus.Fields{
		"trade":   t.ID,
		"reason":  ex.Reason,
		"price":   ex.Price,
		"outcome": pnl,
		"balance": t.BalanceAfter,
	}).Info("trade closed")
}

func (e *Engine) report() *Report {
	r := &Report{
		Symbol:          e.cfg.Symbol,
		StartingBalance: e.ldg.InitialBalance(),
		FinalBalance:    e.ldg.Balance(),
		MaxDrawdown:     e.ldg.MaxDrawdown(),
		Depleted:        e.depleted,
		Trades:          e.ldg.Trades(),
		EquityCurve:     e.equity,
		Weekly:          e.weekly,
	}
	r.TotalReturn = r.FinalBalance - r.StartingBalance

	for _, t := range e.ldg.Closed() {
		r.TotalTrades++
		switch {
		case t.Outcome > 0:
			r.Wins++
		case t.Outcome < 0:
			r.Losses++
		}
	}
	if e.series.Len() > 0 {
		r.Start = e.series.At(0).Time
		r.End = e.series.At(e.series.Len() - 1).Time
	}
	r.CumulativePL = e.ldg.CumulativePL()
	return r
}

func sideOf(d strategy.Direction) ledger.Side {
	if d == strategy.Sell {
		return ledger.Short
	}
	return ledger.Long
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
