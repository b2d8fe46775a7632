package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsAt(start time.Time, step time.Duration, n int) []Bar {
	out := make([]Bar, n)
	for i := range out {
		out[i] = Bar{
			Time: start.Add(time.Duration(i) * step),
			Open: 1.1, High: 1.2, Low: 1.0, Close: 1.15,
		}
	}
	return out
}

func TestNewBarSeriesEmpty(t *testing.T) {
	t.Parallel()

	_, err := NewBarSeries("EURUSD", nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestNewBarSeriesOrdering(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		times   []time.Time
		wantErr bool
	}{
		{"increasing", []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}, false},
		{"duplicate", []time.Time{base, base}, true},
		{"backwards", []time.Time{base.Add(time.Hour), base}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bars := make([]Bar, len(tt.times))
			for i, ts := range tt.times {
				bars[i] = Bar{Time: ts, Open: 1, High: 1, Low: 1, Close: 1}
			}

			s, err := NewBarSeries("EURUSD", bars)
			if tt.wantErr {
				var oe *OrderError
				assert.ErrorAs(t, err, &oe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(bars), s.Len())
		})
	}
}

func TestWindowClamping(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)
	s, err := NewBarSeries("EURUSD", barsAt(base, time.Hour, 5))
	require.NoError(t, err)

	w := s.Window(-3, 99)
	assert.Equal(t, 5, w.Len())
	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 5, w.End)

	w = s.Window(4, 2)
	assert.Equal(t, 0, w.Len())
}

func TestTrailingWindow(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)
	s, err := NewBarSeries("EURUSD", barsAt(base, time.Hour, 10))
	require.NoError(t, err)

	// Full window once enough history exists.
	w := s.Trailing(9, 6)
	assert.Equal(t, 6, w.Len())
	assert.Equal(t, s.At(9).Time, w.At(w.Len()-1).Time)

	// Early bars yield a shorter window, never an error.
	w = s.Trailing(1, 6)
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, s.At(0).Time, w.At(0).Time)

	w = s.Trailing(0, 6)
	assert.Equal(t, 1, w.Len())
}
