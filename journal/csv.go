package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	trades *csv.Writer
	runs   *csv.Writer
	tf, rf *os.File
}

func NewCSV(tradesPath, runsPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	rf, err := os.Create(runsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	rw := csv.NewWriter(rf)

	if err := tw.Write([]string{"run_id", "trade_id", "symbol", "direction",
		"lots", "entry_price", "exit_price", "entry_time", "exit_time",
		"outcome", "balance_after", "reason", "iso_week"}); err != nil {
		return nil, err
	}
	if err := rw.Write([]string{"run_id", "created", "symbol", "start", "end",
		"starting_balance", "final_balance", "total_return", "max_drawdown",
		"total_trades", "depleted"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{trades: tw, runs: rw, tf: tf, rf: rf}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.RunID,
		strconv.Itoa(t.TradeID),
		t.Symbol,
		t.Direction,
		f(t.Lots),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.EntryTime.Format(time.RFC3339),
		t.ExitTime.Format(time.RFC3339),
		f(t.Outcome),
		f(t.BalanceAfter),
		t.Reason,
		strconv.Itoa(t.ISOWeek),
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordRun(r RunSummary) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Symbol,
		r.Start.Format(time.RFC3339),
		r.End.Format(time.RFC3339),
		f(r.StartingBalance),
		f(r.FinalBalance),
		f(r.TotalReturn),
		f(r.MaxDrawdown),
		strconv.Itoa(r.TotalTrades),
		strconv.FormatBool(r.Depleted),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.rf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
