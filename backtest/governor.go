package backtest

import (
	"time"

	"github.com/sirupsen/logrus"
)

// GovernorConfig bounds weekly trade frequency. The multipliers and
// day threshold are tuning constants, configurable rather than fixed.
type GovernorConfig struct {
	MinTradesPerWeek int
	MaxTradesPerWeek int

	// AggressionMultiplier scales position size once AggressionDay
	// days of the week have elapsed with fewer than MinTradesPerWeek
	// trades. Backtests use 1.3; live runs 1.5.
	AggressionMultiplier float64
	AggressionDay        int
}

func DefaultGovernorConfig() GovernorConfig {
	return GovernorConfig{
		MinTradesPerWeek:     3,
		MaxTradesPerWeek:     10,
		AggressionMultiplier: 1.3,
		AggressionDay:        3,
	}
}

// WeekSummary is emitted once per ISO-week rollover and once for the
// final partial week.
type WeekSummary struct {
	Year         int
	Week         int
	Trades       int
	WithinTarget bool
	Balance      float64
}

// Governor tracks the trade count within the current ISO calendar week
// and adjusts aggression or suppresses entries to keep trade frequency
// within the configured band.
type Governor struct {
	cfg GovernorConfig
	log logrus.FieldLogger

	haveWeek bool
	year     int
	week     int
	trades   int
}

func NewGovernor(cfg GovernorConfig, log logrus.FieldLogger) *Governor {
	if cfg.MinTradesPerWeek <= 0 {
		cfg.MinTradesPerWeek = 3
	}
	if cfg.MaxTradesPerWeek <= 0 {
		cfg.MaxTradesPerWeek = 10
	}
	if cfg.AggressionMultiplier <= 0 {
		cfg.AggressionMultiplier = 1.3
	}
	if cfg.AggressionDay <= 0 {
		cfg.AggressionDay = 3
	}
	if log == nil {
		log = discardLogger()
	}
	return &Governor{cfg: cfg, log: log}
}

// Observe updates week bookkeeping for the bar time. On an ISO-week
// rollover it returns the closed week's summary (stamped with balance)
// and resets the counter.
func (g *Governor) Observe(t time.Time, balance float64) (WeekSummary, bool) {
	year, week := t.ISOWeek()

	if !g.haveWeek {
		g.haveWeek = true
		g.year, g.week = year, week
		g.trades = 0
		return WeekSummary{}, false
	}
	if year == g.year && week == g.week {
		return WeekSummary{}, false
	}

	sum := g.summary(balance)
	g.log.WithFields(logrus.Fields{
		"week":          sum.Week,
		"trades":        sum.Trades,
		"within_target": sum.WithinTarget,
		"balance":       sum.Balance,
	}).Info("weekly summary")

	g.year, g.week = year, week
	g.trades = 0
	return sum, true
}

// AllowEntry reports whether new entries are still permitted this week.
func (g *Governor) AllowEntry() bool {
	return g.trades < g.cfg.MaxTradesPerWeek
}

// SizingMultiplier scales the risk model's position size when the week
// is running behind its minimum trade count. It never replaces the
// computed size.
func (g *Governor) SizingMultiplier(t time.Time) float64 {
	if daysIntoWeek(t) >= g.cfg.AggressionDay && g.trades < g.cfg.MinTradesPerWeek {
		return g.cfg.AggressionMultiplier
	}
	return 1.0
}

// RecordTrade counts one executed entry against the current week.
func (g *Governor) RecordTrade() { g.trades++ }

// TradesThisWeek returns the running counter.
func (g *Governor) TradesThisWeek() int { return g.trades }

// Flush returns the summary for the final (possibly partial) week.
func (g *Governor) Flush(balance float64) (WeekSummary, bool) {
	if !g.haveWeek {
		return WeekSummary{}, false
	}
	return g.summary(balance), true
}

func (g *Governor) summary(balance float64) WeekSummary {
	return WeekSummary{
		Year:         g.year,
		Week:         g.week,
		Trades:       g.trades,
		WithinTarget: g.trades >= g.cfg.MinTradesPerWeek && g.trades <= g.cfg.MaxTradesPerWeek,
		Balance:      balance,
	}
}

// daysIntoWeek counts whole days elapsed since the week start
// (Monday, midnight).
func daysIntoWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
