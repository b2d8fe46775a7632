// Package strategy implements the opening-range-breakout signal source:
// a per-symbol state machine that turns bars, support/resistance levels
// and detected patterns into entry and exit signals.
package strategy

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/ledger"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/market"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/patterns"
	"github.com/ZE-BOSS/mt5-rl-trading-bot/policy"
)

// Direction of an entry signal.
type Direction int8

const (
	Buy  Direction = +1
	Sell Direction = -1
)

func (d Direction) String() string {
	if d == Sell {
		return "sell"
	}
	return "buy"
}

// EntrySignal is produced when a setup validates. It is consumed
// immediately by the engine and not retained across bars.
type EntrySignal struct {
	Symbol     string
	Direction  Direction
	Price      float64
	StopLoss   float64
	TakeProfit float64
}

// ExitSignal closes the open position at Price for Reason.
type ExitSignal struct {
	Time   time.Time
	Price  float64
	Reason string
}

// State of the per-symbol machine.
type State int

const (
	WaitingForWindow State = iota
	Armed
	InPosition
)

// Config holds the tunable strategy parameters.
type Config struct {
	Symbol string

	// Opening-range entry window, "HH:MM" inclusive bounds.
	WindowStart string
	WindowEnd   string

	// S/R proximity threshold as a fraction of price.
	Proximity float64

	SRWindow       int
	PatternWindow  int
	TakeProfitPips float64
	MaxHold        time.Duration

	Mode policy.Mode
}

// Defaults mirrors the live bot's tuning.
func Defaults(symbol string) Config {
	return Config{
		Symbol:         symbol,
		WindowStart:    "07:00",
		WindowEnd:      "07:30",
		Proximity:      0.001,
		SRWindow:       market.DefaultSRWindow,
		PatternWindow:  6,
		TakeProfitPips: 100,
		MaxHold:        24 * time.Hour,
		Mode:           policy.RuleOnly,
	}
}

// RequiredPatterns is the set any one of which validates an entry setup.
var RequiredPatterns = map[patterns.Tag]bool{
	patterns.BullishEngulfing:   true,
	patterns.BearishEngulfing:   true,
	patterns.MorningStar:        true,
	patterns.EveningStar:        true,
	patterns.Hammer:             true,
	patterns.HangingMan:         true,
	patterns.Doji:               true,
	patterns.InvertedHammer:     true,
	patterns.ShootingStar:       true,
	patterns.PiercingLine:       true,
	patterns.DarkCloudCover:     true,
	patterns.ThreeWhiteSoldiers: true,
	patterns.ThreeBlackCrows:    true,
	patterns.Harami:             true,
	patterns.Marubozu:           true,
}

// ReversalPatterns close a position against its direction.
var ReversalPatterns = map[ledger.Side]map[patterns.Tag]bool{
	ledger.Long: {
		patterns.ShootingStar:     true,
		patterns.BearishEngulfing: true,
		patterns.EveningStar:      true,
		patterns.HangingMan:       true,
		patterns.DarkCloudCover:   true,
	},
	ledger.Short: {
		patterns.Hammer:           true,
		patterns.BullishEngulfing: true,
		patterns.MorningStar:      true,
		patterns.InvertedHammer:   true,
		patterns.PiercingLine:     true,
	},
}

// ORB is the signal source. Not safe for concurrent use; the optimizer
// constructs a fresh instance per run.
type ORB struct {
	cfg Config

	winStart int // minute of day
	winEnd   int

	sr         *market.SRTracker
	classifier patterns.Classifier
	pol        policy.Policy
	log        logrus.FieldLogger

	state  State
	orHigh float64
	orLow  float64
	orDay  string // YYYY-MM-DD of the captured range

	// Per-bar rolling context, refreshed by observe().
	levels market.SRLevels
	tags   []patterns.Tag
}

// New builds an ORB signal source. classifier must not be nil; pol may
// be nil only when cfg.Mode is RuleOnly.
func New(cfg Config, classifier patterns.Classifier, pol policy.Policy, log logrus.FieldLogger) (*ORB, error) {
	start, err := parseClock(cfg.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("strategy: window start: %w", err)
	}
	end, err := parseClock(cfg.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("strategy: window end: %w", err)
	}
	if end < start {
		return nil, fmt.Errorf("strategy: window end %s before start %s", cfg.WindowEnd, cfg.WindowStart)
	}
	if classifier == nil {
		return nil, fmt.Errorf("strategy: nil pattern classifier")
	}
	if cfg.Mode != policy.RuleOnly && pol == nil {
		return nil, fmt.Errorf("strategy: mode %s requires a policy", cfg.Mode)
	}
	if cfg.Proximity <= 0 {
		cfg.Proximity = 0.001
	}
	if cfg.TakeProfitPips <= 0 {
		cfg.TakeProfitPips = 100
	}
	if cfg.MaxHold <= 0 {
		cfg.MaxHold = 24 * time.Hour
	}
	if cfg.PatternWindow <= 0 {
		cfg.PatternWindow = 6
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &ORB{
		cfg:        cfg,
		winStart:   start,
		winEnd:     end,
		sr:         market.NewSRTracker(cfg.SRWindow),
		classifier: classifier,
		pol:        pol,
		log:        log,
		state:      WaitingForWindow,
	}, nil
}

func (s *ORB) State() State { return s.state }

// OpeningRange returns the captured bounds (zero until armed).
func (s *ORB) OpeningRange() (high, low float64) { return s.orHigh, s.orLow }

// Levels returns the rolling support/resistance as of the last
// observed bar.
func (s *ORB) Levels() market.SRLevels { return s.levels }

// Reset returns the machine to its initial state for a fresh run.
func (s *ORB) Reset() {
	s.sr.Reset()
	s.state = WaitingForWindow
	s.orHigh, s.orLow = 0, 0
	s.orDay = ""
	s.levels = market.SRLevels{}
	s.tags = nil
}

// Observe refreshes the per-bar rolling context: the S/R window is
// mutated exactly once per bar, before any rule consults it.
// ShouldEnter and ShouldExit call it themselves; the engine calls it
// directly for bars where neither rule runs, so the trailing window
// stays contiguous across entry-gated stretches.
func (s *ORB) Observe(bar market.Bar, win market.Window) {
	s.levels = s.sr.Update(bar)
	s.tags = s.classifier.Analyze(win)
}

// ShouldEnter evaluates the entry rules for one bar. win is the
// trailing pattern window ending at this bar. Returns nil when no
// valid setup exists; never an error (recoverable conditions resolve
// to "no trade").
func (s *ORB) ShouldEnter(bar market.Bar, win market.Window) *EntrySignal {
	s.Observe(bar, win)

	if !s.inWindow(bar.Time) {
		return nil
	}

	day := bar.Time.Format("2006-01-02")
	if s.state == WaitingForWindow || (s.state == Armed && day != s.orDay) {
		// First bar inside the window captures the opening range.
		s.orHigh = bar.High
		s.orLow = bar.Low
		s.orDay = day
		s.state = Armed
		s.log.WithFields(logrus.Fields{
			"or_high": s.orHigh,
			"or_low":  s.orLow,
		}).Debug("opening range captured")
		return nil
	}
	if s.state != Armed {
		return nil
	}

	if s.cfg.Mode == policy.PolicyOnly {
		return s.policyEntry(bar)
	}

	price := bar.Close
	if !s.nearLevel(price) {
		return nil
	}
	if !patterns.Contains(s.tags, RequiredPatterns) {
		return nil
	}

	var dir Direction
	switch {
	case price > s.orHigh:
		dir = Buy
	case price < s.orLow:
		dir = Sell
	default:
		return nil
	}

	if s.cfg.Mode == policy.PolicyGated {
		act := s.pol.SelectAction(s.observation(bar, 0))
		if !actionAgrees(act, dir) {
			s.log.WithField("action", act.String()).Debug("policy vetoed entry")
			return nil
		}
	}

	return s.signal(dir, price)
}

// policyEntry defers the entry decision to the policy; the opening
// range still frames the stop.
func (s *ORB) policyEntry(bar market.Bar) *EntrySignal {
	act := s.pol.SelectAction(s.observation(bar, 0))
	switch act {
	case policy.EnterLong:
		return s.signal(Buy, bar.Close)
	case policy.EnterShort:
		return s.signal(Sell, bar.Close)
	default:
		return nil
	}
}

func (s *ORB) signal(dir Direction, price float64) *EntrySignal {
	pip := 1 / market.Spec(s.cfg.Symbol).PipMultiplier

	stop := s.orLow
	tp := price + s.cfg.TakeProfitPips*pip
	if dir == Sell {
		stop = s.orHigh
		tp = price - s.cfg.TakeProfitPips*pip
	}

	return &EntrySignal{
		Symbol:     s.cfg.Symbol,
		Direction:  dir,
		Price:      price,
		StopLoss:   stop,
		TakeProfit: tp,
	}
}

// NotifyEntry moves the machine to InPosition after the engine accepts
// a signal and opens a trade.
func (s *ORB) NotifyEntry() { s.state = InPosition }

// NotifyExit returns the machine to WaitingForWindow after a close.
func (s *ORB) NotifyExit() { s.state = WaitingForWindow }

// ShouldExit evaluates exit rules for the open trade, in fixed order:
// opposite S/R level, reversal pattern, adverse opening-range breach,
// maximum holding time, stop loss, take profit, then policy exit.
// First match wins; exactly one reason is attached.
func (s *ORB) ShouldExit(bar market.Bar, win market.Window, open ledger.Trade) *ExitSignal {
	s.Observe(bar, win)

	px := bar.Close
	exit := func(reason string) *ExitSignal {
		return &ExitSignal{Time: bar.Time, Price: px, Reason: reason}
	}

	// 1. Opposite S/R level.
	if open.Side == ledger.Long && px >= s.levels.Resistance {
		return exit("Price reached resistance")
	}
	if open.Side == ledger.Short && px <= s.levels.Support {
		return exit("Price reached support")
	}

	// 2. Reversal patterns, candlestick then chart.
	if patterns.Contains(s.tags, ReversalPatterns[open.Side]) {
		return exit("Reversal candlestick pattern")
	}
	if open.Side == ledger.Long && hasTag(s.tags, patterns.DoubleTop) {
		return exit("Double Top reversal")
	}
	if open.Side == ledger.Short && hasTag(s.tags, patterns.DoubleBottom) {
		return exit("Double Bottom reversal")
	}

	// 3. Adverse opening-range breach.
	if s.orLow != 0 && open.Side == ledger.Long && px < s.orLow {
		return exit("Opening range breached against long")
	}
	if s.orHigh != 0 && open.Side == ledger.Short && px > s.orHigh {
		return exit("Opening range breached against short")
	}

	// 4. Maximum holding time.
	if bar.Time.Sub(open.EntryTime) > s.cfg.MaxHold {
		return exit("Max holding time elapsed")
	}

	// 5. Stop loss / take profit.
	if open.StopLoss != 0 {
		if open.Side == ledger.Long && px <= open.StopLoss {
			return exit("Hit stop loss")
		}
		if open.Side == ledger.Short && px >= open.StopLoss {
			return exit("Hit stop loss")
		}
	}
	if open.TakeProfit != 0 {
		if open.Side == ledger.Long && px >= open.TakeProfit {
			return exit("Hit take profit")
		}
		if open.Side == ledger.Short && px <= open.TakeProfit {
			return exit("Hit take profit")
		}
	}

	// 6. Policy exit.
	if s.cfg.Mode != policy.RuleOnly && s.pol != nil {
		if s.pol.SelectAction(s.observation(bar, int(open.Side))) == policy.Exit {
			return exit("Policy exit")
		}
	}

	return nil
}

func (s *ORB) nearLevel(price float64) bool {
	threshold := s.cfg.Proximity * price
	return abs(price-s.levels.Support) < threshold ||
		abs(price-s.levels.Resistance) < threshold
}

func (s *ORB) observation(bar market.Bar, side int) policy.Observation {
	return policy.Observation{
		Bar:        bar,
		Levels:     s.levels,
		ORHigh:     s.orHigh,
		ORLow:      s.orLow,
		InPosition: side != 0,
		Side:       side,
	}
}

func (s *ORB) inWindow(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= s.winStart && m <= s.winEnd
}

func actionAgrees(a policy.Action, dir Direction) bool {
	return (dir == Buy && a == policy.EnterLong) ||
		(dir == Sell && a == policy.EnterShort)
}

func hasTag(tags []patterns.Tag, want patterns.Tag) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
