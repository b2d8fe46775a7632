// Package ledger keeps the append-only record of executed trades and
// the running balance accounting for one simulation run.
package ledger

import (
	"errors"
	"time"
)

// Side: +1 long, -1 short.
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "sell"
	}
	return "buy"
}

// Trade is one executed trade. It is created OPEN on entry and never
// mutated again after it closes. The slice index is the trade id.
type Trade struct {
	ID     int
	Symbol string
	Side   Side

	EntryTime  time.Time
	EntryPrice float64
	Lots       float64
	StopLoss   float64
	TakeProfit float64

	ExitTime   time.Time
	ExitPrice  float64
	ExitReason string
	Outcome    float64

	BalanceBefore float64
	BalanceAfter  float64

	ISOYear              int
	ISOWeek              int
	TradesThisWeekBefore int

	Open bool
}

var (
	ErrTradeOpen   = errors.New("ledger: a trade is already open")
	ErrNoOpenTrade = errors.New("ledger: no open trade")
)

// Ledger owns the trade list and the balance/peak/drawdown state.
// At most one trade is open at any time.
type Ledger struct {
	initial float64
	balance float64
	peak    float64
	maxDD   float64

	trades  []Trade
	openIdx int
}

func New(initialBalance float64) *Ledger {
	return &Ledger{
		initial: initialBalance,
		balance: initialBalance,
		peak:    initialBalance,
		openIdx: -1,
	}
}

func (l *Ledger) InitialBalance() float64 { return l.initial }
func (l *Ledger) Balance() float64        { return l.balance }
func (l *Ledger) PeakBalance() float64    { return l.peak }
func (l *Ledger) MaxDrawdown() float64    { return l.maxDD }
func (l *Ledger) HasOpen() bool           { return l.openIdx >= 0 }

// Trades returns the full trade list, open trade included.
func (l *Ledger) Trades() []Trade { return l.trades }

// OpenTrade returns the currently open trade, if any.
func (l *Ledger) OpenTrade() (Trade, bool) {
	if l.openIdx < 0 {
		return Trade{}, false
	}
	return l.trades[l.openIdx], true
}

// Open appends a new OPEN trade and returns its id. The trade's
// BalanceBefore is stamped from the current balance.
func (l *Ledger) Open(t Trade) (int, error) {
	if l.openIdx >= 0 {
		return 0, ErrTradeOpen
	}
	t.ID = len(l.trades)
	t.BalanceBefore = l.balance
	t.Open = true
	l.trades = append(l.trades, t)
	l.openIdx = t.ID
	return t.ID, nil
}

// Close realizes the open trade: records exit fields and the outcome,
// applies it to the balance, and updates peak/drawdown so that
// peak = max(peak, balance) and maxDD = max(maxDD, peak - balance).
func (l *Ledger) Close(exitTime time.Time, exitPrice float64, reason string, outcome float64) (Trade, error) {
	if l.openIdx < 0 {
		return Trade{}, ErrNoOpenTrade
	}

	t := &l.trades[l.openIdx]
	t.ExitTime = exitTime
	t.ExitPrice = exitPrice
	t.ExitReason = reason
	t.Outcome = outcome
	t.BalanceAfter = t.BalanceBefore + outcome
	t.Open = false

	l.balance = t.BalanceAfter
	if l.balance > l.peak {
		l.peak = l.balance
	}
	if dd := l.peak - l.balance; dd > l.maxDD {
		l.maxDD = dd
	}

	l.openIdx = -1
	return *t, nil
}

// Closed returns only the closed trades, in execution order.
func (l *Ledger) Closed() []Trade {
	out := make([]Trade, 0, len(l.trades))
	for _, t := range l.trades {
		if !t.Open {
			out = append(out, t)
		}
	}
	return out
}

// CumulativePL returns the running sum of closed-trade outcomes,
// one point per closed trade.
func (l *Ledger) CumulativePL() []float64 {
	var out []float64
	sum := 0.0
	for _, t := range l.trades {
		if t.Open {
			continue
		}
		sum += t.Outcome
		out = append(out, sum)
	}
	return out
}
