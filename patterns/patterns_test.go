package patterns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/market"
)

// winOf stamps increasing timestamps onto the bars and returns a
// window over all of them.
func winOf(t *testing.T, bars ...market.Bar) market.Window {
	t.Helper()

	base := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i].Time = base.Add(time.Duration(i) * time.Hour)
	}
	s, err := market.NewBarSeries("EURUSD", bars)
	require.NoError(t, err)
	return s.Window(0, s.Len())
}

func TestCandlestickShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bars []market.Bar
		want Tag
	}{
		{
			"doji",
			[]market.Bar{{Open: 1.1000, High: 1.1050, Low: 1.0950, Close: 1.1001}},
			Doji,
		},
		{
			"marubozu",
			[]market.Bar{{Open: 1.1000, High: 1.1201, Low: 1.0999, Close: 1.1200}},
			Marubozu,
		},
		{
			"hammer",
			[]market.Bar{{Open: 1.0950, High: 1.1010, Low: 1.0700, Close: 1.1000}},
			Hammer,
		},
		{
			"hanging man",
			[]market.Bar{{Open: 1.1000, High: 1.1010, Low: 1.0700, Close: 1.0950}},
			HangingMan,
		},
		{
			"shooting star",
			[]market.Bar{{Open: 1.1000, High: 1.1300, Low: 1.0995, Close: 1.0950}},
			ShootingStar,
		},
		{
			"inverted hammer",
			[]market.Bar{{Open: 1.0950, High: 1.1300, Low: 1.0945, Close: 1.1000}},
			InvertedHammer,
		},
		{
			"bullish engulfing",
			[]market.Bar{
				{Open: 1.1000, High: 1.1010, Low: 1.0890, Close: 1.0900},
				{Open: 1.0850, High: 1.1060, Low: 1.0840, Close: 1.1050},
			},
			BullishEngulfing,
		},
		{
			"bearish engulfing",
			[]market.Bar{
				{Open: 1.0900, High: 1.1010, Low: 1.0890, Close: 1.1000},
				{Open: 1.1050, High: 1.1060, Low: 1.0840, Close: 1.0850},
			},
			BearishEngulfing,
		},
		{
			"harami",
			[]market.Bar{
				{Open: 1.1000, High: 1.1010, Low: 1.0790, Close: 1.0800},
				{Open: 1.0900, High: 1.0960, Low: 1.0890, Close: 1.0950},
			},
			Harami,
		},
		{
			"three white soldiers",
			[]market.Bar{
				{Open: 1.1000, High: 1.1060, Low: 1.0990, Close: 1.1050},
				{Open: 1.1040, High: 1.1110, Low: 1.1030, Close: 1.1100},
				{Open: 1.1090, High: 1.1160, Low: 1.1080, Close: 1.1150},
			},
			ThreeWhiteSoldiers,
		},
		{
			"three black crows",
			[]market.Bar{
				{Open: 1.1150, High: 1.1160, Low: 1.1090, Close: 1.1100},
				{Open: 1.1110, High: 1.1120, Low: 1.1040, Close: 1.1050},
				{Open: 1.1060, High: 1.1070, Low: 1.0990, Close: 1.1000},
			},
			ThreeBlackCrows,
		},
	}

	d := NewDetector()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tags := d.Analyze(winOf(t, tt.bars...))
			assert.Contains(t, tags, tt.want)
		})
	}
}

func TestDoubleTop(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		{Open: 1.19, High: 1.2000, Low: 1.17, Close: 1.18},
		{Open: 1.18, High: 1.1900, Low: 1.15, Close: 1.16},
		{Open: 1.16, High: 1.1998, Low: 1.169, Close: 1.17},
		{Open: 1.17, High: 1.1850, Low: 1.14, Close: 1.15},
		{Open: 1.15, High: 1.1800, Low: 1.13, Close: 1.14},
	}

	tags := NewDetector().Analyze(winOf(t, bars...))
	assert.Contains(t, tags, DoubleTop)
	assert.NotContains(t, tags, DoubleBottom)
}

func TestDoubleBottom(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		{Open: 1.12, High: 1.1400, Low: 1.1000, Close: 1.13},
		{Open: 1.13, High: 1.1600, Low: 1.1200, Close: 1.15},
		{Open: 1.15, High: 1.1700, Low: 1.1001, Close: 1.12},
		{Open: 1.12, High: 1.1500, Low: 1.1150, Close: 1.14},
		{Open: 1.14, High: 1.1900, Low: 1.1250, Close: 1.16},
	}

	tags := NewDetector().Analyze(winOf(t, bars...))
	assert.Contains(t, tags, DoubleBottom)
	assert.NotContains(t, tags, DoubleTop)
}

func TestNoPatternsOnQuietBar(t *testing.T) {
	t.Parallel()

	// Moderate body, moderate shadows: matches nothing.
	tags := NewDetector().Analyze(winOf(t,
		market.Bar{Open: 1.1000, High: 1.1060, Low: 1.0970, Close: 1.1040}))
	assert.Empty(t, tags)
}

func TestContains(t *testing.T) {
	t.Parallel()

	set := map[Tag]bool{Hammer: true, Doji: true}
	assert.True(t, Contains([]Tag{BullFlag, Doji}, set))
	assert.False(t, Contains([]Tag{BullFlag, DoubleTop}, set))
	assert.False(t, Contains(nil, set))
}
