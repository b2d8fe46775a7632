package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, trade_id, symbol, direction, lots, entry_price, exit_price,
		 entry_time, exit_time, outcome, balance_after, reason, iso_week)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.TradeID, t.Symbol, t.Direction, t.Lots, t.EntryPrice,
		t.ExitPrice, t.EntryTime, t.ExitTime, t.Outcome, t.BalanceAfter,
		t.Reason, t.ISOWeek,
	)
	return err
}

func (j *SQLiteJournal) RecordRun(r RunSummary) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, symbol, start_time, end_time, starting_balance, final_balance,
		 total_return, max_drawdown, total_trades, depleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Symbol, r.Start, r.End, r.StartingBalance,
		r.FinalBalance, r.TotalReturn, r.MaxDrawdown, r.TotalTrades, r.Depleted,
	)
	return err
}

// ListTradesByRun loads the persisted trades for one run, in trade order.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, trade_id, symbol, direction, lots, entry_price, exit_price,
		       entry_time, exit_time, outcome, balance_after, reason, iso_week
		FROM trades WHERE run_id = ? ORDER BY trade_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.RunID, &t.TradeID, &t.Symbol, &t.Direction,
			&t.Lots, &t.EntryPrice, &t.ExitPrice, &t.EntryTime, &t.ExitTime,
			&t.Outcome, &t.BalanceAfter, &t.Reason, &t.ISOWeek); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
