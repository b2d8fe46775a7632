// Package journal persists completed backtest runs: one row per closed
// trade plus a run summary. Writers are invoked after a run finishes,
// never from inside the per-bar loop.
package journal

import "time"

// TradeRecord is one closed trade as persisted.
type TradeRecord struct {
	RunID        string
	TradeID      int
	Symbol       string
	Direction    string
	Lots         float64
	EntryPrice   float64
	ExitPrice    float64
	EntryTime    time.Time
	ExitTime     time.Time
	Outcome      float64
	BalanceAfter float64
	Reason       string
	ISOWeek      int
}

// RunSummary is the per-run roll-up.
type RunSummary struct {
	RunID   string
	Created time.Time
	Symbol  string
	Start   time.Time
	End     time.Time

	StartingBalance float64
	FinalBalance    float64
	TotalReturn     float64
	MaxDrawdown     float64
	TotalTrades     int
	Depleted        bool
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordRun(RunSummary) error
	Close() error
}
