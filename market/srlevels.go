package market

// SRLevels is a support/resistance pair derived from a trailing window.
type SRLevels struct {
	Support    float64
	Resistance float64
}

// SRTracker maintains a bounded trailing window of bars and derives
// support (lowest low) and resistance (highest high) from it. The
// oldest bar is evicted once the window exceeds its configured size.
type SRTracker struct {
	window int
	bars   []Bar
}

const DefaultSRWindow = 20

func NewSRTracker(window int) *SRTracker {
	if window <= 0 {
		window = DefaultSRWindow
	}
	return &SRTracker{window: window}
}

// Update pushes one bar into the window and returns the current levels.
// Called once per bar, before the levels are consulted.
func (t *SRTracker) Update(b Bar) SRLevels {
	t.bars = append(t.bars, b)
	if len(t.bars) > t.window {
		t.bars = t.bars[1:]
	}

	lv := SRLevels{Support: t.bars[0].Low, Resistance: t.bars[0].High}
	for _, bar := range t.bars[1:] {
		if bar.Low < lv.Support {
			lv.Support = bar.Low
		}
		if bar.High > lv.Resistance {
			lv.Resistance = bar.High
		}
	}
	return lv
}

// Levels returns the levels for the current window without mutating it.
func (t *SRTracker) Levels() SRLevels {
	if len(t.bars) == 0 {
		return SRLevels{}
	}
	lv := SRLevels{Support: t.bars[0].Low, Resistance: t.bars[0].High}
	for _, bar := range t.bars[1:] {
		if bar.Low < lv.Support {
			lv.Support = bar.Low
		}
		if bar.High > lv.Resistance {
			lv.Resistance = bar.High
		}
	}
	return lv
}

// Reset clears the trailing window.
func (t *SRTracker) Reset() {
	t.bars = t.bars[:0]
}
