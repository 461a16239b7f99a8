package chart

import (
	"math"

	"github.com/vanshika/vizdash/internal/domain"
)

// Stacked bar geometry.
const (
	BarHeight          = 15
	stackedPadTop      = 20
	stackedPadBottom   = 5
	stackedPadLeft     = 5
	stackedPadRight    = 10
	stackedBandPadding = 0.1
	labelColumnShare   = 0.3
	labelGap           = 10
)

// Rect is one laid out bar segment.
type Rect struct {
	Key     string  `json:"key"`
	Row     string  `json:"row"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Value   float64 `json:"value"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// RowLabel is a possibly truncated row label with its full text.
type RowLabel struct {
	Row  string  `json:"row"`
	Text string  `json:"text"`
	Y    float64 `json:"y"`
}

// StackedBars is a laid out horizontal stacked bar chart.
type StackedBars struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	LabelWidth float64     `json:"labelWidth"`
	Keys       []string    `json:"keys"`
	X          LinearScale `json:"-"`
	XTicks     []float64   `json:"xTicks"`
	Labels     []RowLabel  `json:"labels"`
	Rects      []Rect      `json:"rects"`
}

// LayoutCrossTab stacks the received and donated totals of each
// counterpart into one bar per row, keeping the row order of rows. The flow
// with the larger overall sum sits at the bottom of every stack. Rows with
// a zero total keep their slot and get empty segments.
func LayoutCrossTab(rows []domain.CounterpartTotal, width float64) StackedBars {
	n := len(rows)
	innerHeight := math.Max(BarHeight, float64(n*BarHeight))
	labelWidth := math.Floor(labelColumnShare * width)
	barWidth := width - labelWidth - stackedPadLeft - stackedPadRight

	var sumReceived, sumDonated, maxStack float64
	names := make([]string, n)
	for i, r := range rows {
		names[i] = r.Entity
		sumReceived += r.Received
		sumDonated += r.Donated
		maxStack = math.Max(maxStack, r.Total())
	}
	keys := []string{FlowReceived, FlowDonated}
	if sumDonated > sumReceived {
		keys = []string{FlowDonated, FlowReceived}
	}

	out := StackedBars{
		Width:      width,
		Height:     innerHeight + stackedPadTop + stackedPadBottom,
		LabelWidth: labelWidth,
		Keys:       keys,
		X:          NewLinearScale(Extent{0, maxStack}, Extent{0, math.Max(0, barWidth)}),
		Labels:     make([]RowLabel, 0, n),
		Rects:      make([]Rect, 0, 2*n),
	}
	out.XTicks = out.X.Ticks(int(width / 80))
	if n == 0 {
		return out
	}

	y := NewBandScale(names, Extent{stackedPadTop, stackedPadTop + innerHeight}, stackedBandPadding)
	texts := TruncateLabels(names, labelWidth-labelGap)
	for i, r := range rows {
		top, _ := y.Position(r.Entity)
		out.Labels = append(out.Labels, RowLabel{Row: r.Entity, Text: texts[i], Y: top + y.Bandwidth()/2})

		lower := 0.0
		for _, key := range keys {
			v := r.Received
			if key == FlowDonated {
				v = r.Donated
			}
			x0 := out.x(lower, maxStack)
			x1 := out.x(lower+v, maxStack)
			out.Rects = append(out.Rects, Rect{
				Key:     key,
				Row:     r.Entity,
				X:       labelWidth + stackedPadLeft + x0,
				Y:       top,
				Width:   x1 - x0,
				Height:  y.Bandwidth(),
				Value:   v,
				Color:   FlowColor(key),
				Opacity: 1,
			})
			lower += v
		}
	}
	return out
}

// x maps a stack offset to pixels. With nothing to stack every offset sits
// at the axis origin.
func (s StackedBars) x(v, maxStack float64) float64 {
	if maxStack == 0 {
		return 0
	}
	return s.X.Apply(v)
}
