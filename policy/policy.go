// Package policy defines the boundary to an external decision policy
// (e.g. a trained agent). The core only requires SelectAction to be
// callable synchronously; training internals live elsewhere.
package policy

import "github.com/ZE-BOSS/mt5-rl-trading-bot/market"

// Action is a policy decision for the current bar.
type Action int

const (
	Hold Action = iota
	EnterLong
	EnterShort
	Exit
)

func (a Action) String() string {
	switch a {
	case EnterLong:
		return "enter-long"
	case EnterShort:
		return "enter-short"
	case Exit:
		return "exit"
	default:
		return "hold"
	}
}

// Observation is the state handed to the policy each bar.
type Observation struct {
	Bar    market.Bar
	Levels market.SRLevels

	ORHigh float64
	ORLow  float64

	InPosition bool
	Side       int // +1 long, -1 short, 0 flat
}

// Policy selects an action from an observation.
type Policy interface {
	SelectAction(obs Observation) Action
}

// Mode selects how the rule layer and the policy combine.
type Mode int

const (
	// RuleOnly ignores any configured policy.
	RuleOnly Mode = iota
	// PolicyGated requires the rule layer and the policy to agree
	// (logical AND) before a signal is emitted.
	PolicyGated
	// PolicyOnly defers entry/exit decisions to the policy alone.
	PolicyOnly
)

func (m Mode) String() string {
	switch m {
	case PolicyGated:
		return "policy-gated"
	case PolicyOnly:
		return "policy-only"
	default:
		return "rule-only"
	}
}

// ParseMode maps a config string onto a Mode. Unknown values fall back
// to RuleOnly.
func ParseMode(s string) Mode {
	switch s {
	case "policy-gated", "gated", "hybrid":
		return PolicyGated
	case "policy-only", "policy":
		return PolicyOnly
	default:
		return RuleOnly
	}
}
