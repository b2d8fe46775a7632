package market

import "time"

// Bar represents one OHLCV candle. Bars are immutable once ingested;
// the engine owns the sequence for the duration of a run.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// BarSeries is an arena of bars addressed by integer index. Timestamps
// are strictly increasing (enforced at ingestion, see NewBarSeries).
type BarSeries struct {
	Symbol string
	bars   []Bar
}

// NewBarSeries validates and takes ownership of bars. It fails on an
// empty slice or on non-increasing timestamps.
func NewBarSeries(symbol string, bars []Bar) (*BarSeries, error) {
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return nil, &OrderError{Index: i, Prev: bars[i-1].Time, Cur: bars[i].Time}
		}
	}
	return &BarSeries{Symbol: symbol, bars: bars}, nil
}

func (s *BarSeries) Len() int     { return len(s.bars) }
func (s *BarSeries) At(i int) Bar { return s.bars[i] }
func (s *BarSeries) Bars() []Bar  { return s.bars }

// Window returns a bounded view [start, end) over the series without
// copying. Bounds are clamped to the series.
func (s *BarSeries) Window(start, end int) Window {
	if start < 0 {
		start = 0
	}
	if end > len(s.bars) {
		end = len(s.bars)
	}
	if start > end {
		start = end
	}
	return Window{bars: s.bars[start:end], Start: start, End: end}
}

// Trailing returns the window of up to n bars ending at index i (inclusive).
func (s *BarSeries) Trailing(i, n int) Window {
	end := i + 1
	return s.Window(end-n, end)
}

// Window is a read-only slice view into a BarSeries.
type Window struct {
	bars  []Bar
	Start int
	End   int
}

func (w Window) Len() int     { return len(w.bars) }
func (w Window) At(i int) Bar { return w.bars[i] }
func (w Window) Bars() []Bar  { return w.bars }
