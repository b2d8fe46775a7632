// Package patterns classifies candlestick and chart patterns over a
// window of bars. Detection is a pure function of the window; callers
// keep no state beyond the window itself.
package patterns

import (
	"math"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/market"
)

// Tag names one detected pattern.
type Tag string

const (
	BullishEngulfing   Tag = "Bullish Engulfing"
	BearishEngulfing   Tag = "Bearish Engulfing"
	Hammer             Tag = "Hammer"
	HangingMan         Tag = "Hanging Man"
	InvertedHammer     Tag = "Inverted Hammer"
	ShootingStar       Tag = "Shooting Star"
	Doji               Tag = "Doji"
	Marubozu           Tag = "Marubozu"
	MorningStar        Tag = "Morning Star"
	EveningStar        Tag = "Evening Star"
	PiercingLine       Tag = "Piercing Line"
	DarkCloudCover     Tag = "Dark Cloud Cover"
	Harami             Tag = "Harami"
	ThreeWhiteSoldiers Tag = "Three White Soldiers"
	ThreeBlackCrows    Tag = "Three Black Crows"
	DoubleTop          Tag = "Double Top"
	DoubleBottom       Tag = "Double Bottom"
	BullFlag           Tag = "Bull Flag"
	BearFlag           Tag = "Bear Flag"
)

// Classifier is the boundary the signal layer consumes. Analyze is
// called once per bar with the trailing window ending at that bar.
type Classifier interface {
	Analyze(w market.Window) []Tag
}

// Detector is the built-in Classifier.
type Detector struct{}

func NewDetector() Detector { return Detector{} }

// Analyze returns every pattern matched by the window. The last bar of
// the window is the bar under evaluation.
func (Detector) Analyze(w market.Window) []Tag {
	var tags []Tag
	tags = append(tags, candlestick(w)...)
	tags = append(tags, chart(w)...)
	return tags
}

func body(b market.Bar) float64 { return math.Abs(b.Close - b.Open) }
func rng(b market.Bar) float64  { return b.High - b.Low }
func isBull(b market.Bar) bool  { return b.Close > b.Open }
func isBear(b market.Bar) bool  { return b.Close < b.Open }

func candlestick(w market.Window) []Tag {
	n := w.Len()
	if n == 0 {
		return nil
	}

	var tags []Tag
	cur := w.At(n - 1)

	// Single-bar shapes.
	if r := rng(cur); r > 0 {
		lower := math.Min(cur.Open, cur.Close) - cur.Low
		upper := cur.High - math.Max(cur.Open, cur.Close)

		if body(cur) <= 0.1*r {
			tags = append(tags, Doji)
		}
		if body(cur) >= 0.95*r {
			tags = append(tags, Marubozu)
		}
		if r > 3*body(cur) && lower/(0.001+r) > 0.6 {
			if isBull(cur) {
				tags = append(tags, Hammer)
			} else {
				tags = append(tags, HangingMan)
			}
		}
		if r > 3*body(cur) && upper/(0.001+r) > 0.6 {
			if isBull(cur) {
				tags = append(tags, InvertedHammer)
			} else {
				tags = append(tags, ShootingStar)
			}
		}
	}

	if n < 2 {
		return tags
	}
	prev := w.At(n - 2)

	if isBear(prev) && isBull(cur) && cur.Close > prev.Open && cur.Open < prev.Close {
		tags = append(tags, BullishEngulfing)
	}
	if isBull(prev) && isBear(cur) && cur.Close < prev.Open && cur.Open > prev.Close {
		tags = append(tags, BearishEngulfing)
	}
	if isBear(prev) && isBull(cur) && cur.Open < prev.Close && cur.Close > (prev.Open+prev.Close)/2 {
		tags = append(tags, PiercingLine)
	}
	if isBull(prev) && isBear(cur) && cur.Open > prev.Close && cur.Close < (prev.Open+prev.Close)/2 {
		tags = append(tags, DarkCloudCover)
	}
	if body(prev) > 0 &&
		math.Max(cur.Open, cur.Close) < math.Max(prev.Open, prev.Close) &&
		math.Min(cur.Open, cur.Close) > math.Min(prev.Open, prev.Close) {
		tags = append(tags, Harami)
	}

	if n < 3 {
		return tags
	}
	first := w.At(n - 3)

	if isBear(first) && body(prev) < 0.3*rng(prev) && isBull(cur) &&
		cur.Close > (first.Open+first.Close)/2 {
		tags = append(tags, MorningStar)
	}
	if isBull(first) && body(prev) < 0.3*rng(prev) && isBear(cur) &&
		cur.Close < (first.Open+first.Close)/2 {
		tags = append(tags, EveningStar)
	}
	if isBull(first) && isBull(prev) && isBull(cur) &&
		prev.Close > first.Close && cur.Close > prev.Close {
		tags = append(tags, ThreeWhiteSoldiers)
	}
	if isBear(first) && isBear(prev) && isBear(cur) &&
		prev.Close < first.Close && cur.Close < prev.Close {
		tags = append(tags, ThreeBlackCrows)
	}

	return tags
}

func chart(w market.Window) []Tag {
	n := w.Len()
	var tags []Tag

	if n >= 5 {
		// Double top/bottom: the two highest highs (lowest lows) in the
		// window sit within 0.2% of each other.
		hi1, hi2 := topTwoHighs(w)
		if hi1 > 0 && math.Abs(hi1-hi2) < 0.002*hi1 {
			tags = append(tags, DoubleTop)
		}
		lo1, lo2 := bottomTwoLows(w)
		if lo1 > 0 && math.Abs(lo1-lo2) < 0.002*lo1 {
			tags = append(tags, DoubleBottom)
		}
	}

	if n >= 6 {
		c := func(i int) float64 { return w.At(n + i).Close } // i negative
		if c(-6) < c(-5) && c(-5) < c(-4) && c(-3) > c(-4) && c(-2) > c(-3) {
			tags = append(tags, BullFlag)
		}
		if c(-6) > c(-5) && c(-5) > c(-4) && c(-3) < c(-4) && c(-2) < c(-3) {
			tags = append(tags, BearFlag)
		}
	}

	return tags
}

func topTwoHighs(w market.Window) (first, second float64) {
	idx := -1
	for i := 0; i < w.Len(); i++ {
		if h := w.At(i).High; h > first {
			first = h
			idx = i
		}
	}
	for i := 0; i < w.Len(); i++ {
		if i == idx {
			continue
		}
		if h := w.At(i).High; h > second {
			second = h
		}
	}
	return first, second
}

func bottomTwoLows(w market.Window) (first, second float64) {
	idx := -1
	first = math.Inf(1)
	second = math.Inf(1)
	for i := 0; i < w.Len(); i++ {
		if l := w.At(i).Low; l < first {
			first = l
			idx = i
		}
	}
	for i := 0; i < w.Len(); i++ {
		if i == idx {
			continue
		}
		if l := w.At(i).Low; l < second {
			second = l
		}
	}
	return first, second
}

// Contains reports whether tags includes any member of set.
func Contains(tags []Tag, set map[Tag]bool) bool {
	for _, t := range tags {
		if set[t] {
			return true
		}
	}
	return false
}
