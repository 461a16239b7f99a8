package chart

import (
	"math"
)

// Horizontal bar chart geometry.
const (
	HorizontalBarWidth = 400
	hbarMarginTop      = 10
	hbarMarginRight    = 30
	hbarMarginBottom   = 100
	hbarMarginLeft     = 10
	hbarPadding        = 1
	hbarTicks          = 4
)

// Bar is one laid out horizontal bar.
type Bar[T any] struct {
	Datum   T       `json:"datum"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// HorizontalBars is a laid out bar chart with one bar per datum.
type HorizontalBars[T any] struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	X      LinearScale `json:"-"`
	XTicks []float64   `json:"xTicks"`
	Bars   []Bar[T]    `json:"bars"`
}

// LayoutHorizontalBars draws data in input order, one fixed-height bar per
// datum, against a shared zero-based axis. Negative values are drawn as
// empty bars.
func LayoutHorizontalBars[T any](data []T, acc Accessors[T], highlight string) HorizontalBars[T] {
	inner := float64(HorizontalBarWidth - hbarMarginLeft - hbarMarginRight)
	maxValue := 0.0
	for _, d := range data {
		maxValue = math.Max(maxValue, acc.Value(d))
	}
	out := HorizontalBars[T]{
		Width:  HorizontalBarWidth,
		Height: float64(len(data))*(BarHeight+hbarPadding) + hbarMarginTop + hbarMarginBottom,
		X:      NewLinearScale(Extent{0, maxValue}, Extent{0, inner}),
		Bars:   make([]Bar[T], 0, len(data)),
	}
	out.XTicks = out.X.Ticks(hbarTicks)

	for i, d := range data {
		v := acc.Value(d)
		w := 0.0
		if maxValue > 0 && v > 0 {
			w = out.X.Apply(v)
		}
		color := ColorOtherParty
		if acc.Color != nil {
			color = acc.Color(d)
		}
		label := acc.Label(d)
		opacity := OpacityHighlight
		if highlight != "" && label != highlight {
			opacity = OpacityDimmed
		}
		out.Bars = append(out.Bars, Bar[T]{
			Datum:   d,
			Label:   label,
			Value:   v,
			X:       hbarMarginLeft,
			Y:       hbarMarginTop + float64(i)*(BarHeight+hbarPadding),
			Width:   w,
			Height:  BarHeight,
			Color:   color,
			Opacity: opacity,
		})
	}
	return out
}
