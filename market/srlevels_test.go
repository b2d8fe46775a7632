package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSRTrackerLevels(t *testing.T) {
	t.Parallel()

	tr := NewSRTracker(3)
	base := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)

	bar := func(i int, high, low float64) Bar {
		return Bar{Time: base.Add(time.Duration(i) * time.Hour), High: high, Low: low}
	}

	lv := tr.Update(bar(0, 1.20, 1.10))
	assert.Equal(t, SRLevels{Support: 1.10, Resistance: 1.20}, lv)

	lv = tr.Update(bar(1, 1.25, 1.12))
	assert.Equal(t, SRLevels{Support: 1.10, Resistance: 1.25}, lv)

	lv = tr.Update(bar(2, 1.22, 1.08))
	assert.Equal(t, SRLevels{Support: 1.08, Resistance: 1.25}, lv)

	// Fourth bar evicts the first; its 1.20 high and 1.10 low leave the
	// window.
	lv = tr.Update(bar(3, 1.18, 1.15))
	assert.Equal(t, SRLevels{Support: 1.08, Resistance: 1.25}, lv)

	// Fifth bar evicts the 1.25 resistance.
	lv = tr.Update(bar(4, 1.19, 1.16))
	assert.Equal(t, SRLevels{Support: 1.08, Resistance: 1.22}, lv)
}

func TestSRTrackerLevelsDoesNotMutate(t *testing.T) {
	t.Parallel()

	tr := NewSRTracker(5)
	tr.Update(Bar{High: 1.2, Low: 1.1})

	before := tr.Levels()
	after := tr.Levels()
	assert.Equal(t, before, after)
}

func TestSRTrackerReset(t *testing.T) {
	t.Parallel()

	tr := NewSRTracker(5)
	tr.Update(Bar{High: 1.2, Low: 1.1})
	tr.Reset()
	assert.Equal(t, SRLevels{}, tr.Levels())
}

func TestSRTrackerDefaultWindow(t *testing.T) {
	t.Parallel()

	tr := NewSRTracker(0)
	assert.Equal(t, DefaultSRWindow, tr.window)
}
