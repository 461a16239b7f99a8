package chart

import (
	"github.com/vanshika/vizdash/internal/domain"
)

// Timeline geometry of the total transactions chart.
const (
	TimelineTotalHeight = 100
	TimelinePadding     = 20
	lineStroke          = "#bbb"
)

// Line is one projected series.
type Line struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// LineChart is a laid out time series chart with a brushable x axis.
type LineChart struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	X      LinearScale `json:"-"`
	Y      LogScale    `json:"-"`
	XTicks []float64   `json:"xTicks"`
	Lines  []Line      `json:"lines"`
}

// LayoutTimeline plots per-year totals with a linear year axis and a log
// amount axis. Years with non-positive totals cannot be placed on the log
// axis and are skipped.
func LayoutTimeline(periods []domain.PeriodAggregate, width float64) LineChart {
	height := float64(TimelineTotalHeight - TimelinePadding)
	years := make([]float64, 0, len(periods))
	amounts := make([]float64, 0, len(periods))
	for _, p := range periods {
		years = append(years, float64(p.Year))
		amounts = append(amounts, p.Amount)
	}
	xDomain, _ := extentOf(years)
	yDomain, _ := extentOf(positive(amounts))

	chart := LineChart{
		Width:  width,
		Height: height,
		X:      NewLinearScale(xDomain, Extent{0, width}),
		Y:      NewLogScale(yDomain, Extent{height, 0}),
		Lines:  []Line{},
	}
	chart.XTicks = chart.X.Ticks(tickCount(width))
	if len(periods) == 0 {
		return chart
	}
	chart.Lines = append(chart.Lines, Line{Name: "total", Color: lineStroke, Points: chart.plot(periods)})
	return chart
}

// Multi-line chart padding.
const (
	multiLinePadTop    = 5
	multiLinePadBottom = 20
)

// LayoutSeries plots an entity's donated and received totals against a
// shared year span, so it lines up with other charts over the same span.
// A nil series lays out empty axes.
func LayoutSeries(series *domain.EntitySeries, span domain.PeriodRange, width, totalHeight float64) LineChart {
	height := totalHeight - multiLinePadTop - multiLinePadBottom
	chart := LineChart{
		Width:  width,
		Height: height,
		X:      NewLinearScale(Extent{float64(span.Start), float64(span.End)}, Extent{0, width}),
		Lines:  []Line{},
	}
	chart.XTicks = chart.X.Ticks(tickCount(width))

	var amounts []float64
	if series != nil {
		for _, p := range series.Donated {
			amounts = append(amounts, p.Amount)
		}
		for _, p := range series.Received {
			amounts = append(amounts, p.Amount)
		}
	}
	yDomain, _ := extentOf(positive(amounts))
	chart.Y = NewLogScale(yDomain, Extent{height, multiLinePadTop})
	if series == nil {
		return chart
	}
	chart.Lines = append(chart.Lines,
		Line{Name: FlowDonated, Color: ColorDonated, Points: chart.plot(series.Donated)},
		Line{Name: FlowReceived, Color: ColorReceived, Points: chart.plot(series.Received)},
	)
	return chart
}

func (c LineChart) plot(periods []domain.PeriodAggregate) []Point {
	pts := make([]Point, 0, len(periods))
	for _, p := range periods {
		y, ok := c.Y.Apply(p.Amount)
		if !ok {
			continue
		}
		pts = append(pts, Point{X: c.X.Apply(float64(p.Year)), Y: y})
	}
	return pts
}

// tickCount picks one axis tick per 80 pixels.
func tickCount(width float64) int {
	n := int(width / 80)
	if n < 2 {
		return 2
	}
	return n
}

func positive(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}
