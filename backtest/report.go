package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/internal/id"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/journal"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/ledger"
)

// Report is the read-only view over the ledger and engine state at the
// end of a run. It is never mutated after generation.
type Report struct {
	RunID  string
	Symbol string

	Start time.Time
	End   time.Time

	StartingBalance float64
	FinalBalance    float64
	TotalReturn     float64
	MaxDrawdown     float64

	TotalTrades int // closed trades
	Wins        int
	Losses      int
	Depleted    bool

	Trades       []ledger.Trade
	EquityCurve  []float64 // one point per bar processed
	CumulativePL []float64 // one point per closed trade
	Weekly       []WeekSummary
}

// WriteJournal persists the run: one row per closed trade plus the run
// summary. Journaling happens after the run completes; no I/O occurs
// inside the per-bar loop.
func (r *Report) WriteJournal(j journal.Journal) error {
	runID := r.RunID
	if runID == "" {
		runID = id.New()
	}

	for _, t := range r.Trades {
		if t.Open {
			continue
		}
		rec := journal.TradeRecord{
			RunID:        runID,
			TradeID:      t.ID,
			Symbol:       t.Symbol,
			Direction:    t.Side.String(),
			Lots:         t.Lots,
			EntryPrice:   t.EntryPrice,
			ExitPrice:    t.ExitPrice,
			EntryTime:    t.EntryTime,
			ExitTime:     t.ExitTime,
			Outcome:      t.Outcome,
			BalanceAfter: t.BalanceAfter,
			Reason:       t.ExitReason,
			ISOWeek:      t.ISOWeek,
		}
		if err := j.RecordTrade(rec); err != nil {
			return fmt.Errorf("record trade %d: %w", t.ID, err)
		}
	}

	return j.RecordRun(journal.RunSummary{
		RunID:           runID,
		Created:         time.Now().UTC(),
		Symbol:          r.Symbol,
		Start:           r.Start,
		End:             r.End,
		StartingBalance: r.StartingBalance,
		FinalBalance:    r.FinalBalance,
		TotalReturn:     r.TotalReturn,
		MaxDrawdown:     r.MaxDrawdown,
		TotalTrades:     r.TotalTrades,
		Depleted:        r.Depleted,
	})
}

// Print writes a human-readable report.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Symbol:         %s\n", r.Symbol)
	fmt.Fprintf(w, "Start:          %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:            %s\n", r.End.Format(time.RFC3339))
	if r.Depleted {
		fmt.Fprintln(w, "Status:         DEPLETED (run halted early)")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:         %d\n", r.TotalTrades)
	fmt.Fprintf(w, "Wins:           %d\n", r.Wins)
	fmt.Fprintf(w, "Losses:         %d\n", r.Losses)
	if r.TotalTrades > 0 {
		fmt.Fprintf(w, "Win Rate:       %.2f%%\n", 100*float64(r.Wins)/float64(r.TotalTrades))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance:  %.2f\n", r.StartingBalance)
	fmt.Fprintf(w, "Final Balance:  %.2f\n", r.FinalBalance)
	fmt.Fprintf(w, "Total Return:   %.2f\n", r.TotalReturn)
	fmt.Fprintf(w, "Max Drawdown:   %.2f\n", r.MaxDrawdown)

	if len(r.Weekly) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Weekly Trade Governance")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, ws := range r.Weekly {
			status := "outside target"
			if ws.WithinTarget {
				status = "within target"
			}
			fmt.Fprintf(w, "W%02d/%d: %d trades (%s), balance %.2f\n",
				ws.Week, ws.Year, ws.Trades, status, ws.Balance)
		}
	}
	fmt.Fprintln(w)
}
