package chart

import (
	"math"
	"sort"
)

// Accessors tell a generic chart how to read its datum type.
type Accessors[T any] struct {
	Value func(T) float64
	Label func(T) string
	Color func(T) string
}

// Donut geometry in pixels.
const (
	DonutSize      = 100
	donutThickness = 20
	donutStroke    = "white"
)

// Arc is a laid out donut sector.
type Arc[T any] struct {
	Datum      T       `json:"datum"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	Color      string  `json:"color"`
	Opacity    float64 `json:"opacity"`
}

// Donut is a laid out ring chart.
type Donut[T any] struct {
	Size        float64  `json:"size"`
	InnerRadius float64  `json:"innerRadius"`
	OuterRadius float64  `json:"outerRadius"`
	Stroke      string   `json:"stroke"`
	Arcs        []Arc[T] `json:"arcs"`
}

// LayoutDonut lays data out over a full turn, largest value first. Ties
// keep input order. Non-positive and non-finite values get no sector. When
// highlight is not empty, the sector with that label is drawn opaque and
// every other sector dimmed.
func LayoutDonut[T any](data []T, acc Accessors[T], highlight string) Donut[T] {
	donut := Donut[T]{
		Size:        DonutSize,
		InnerRadius: DonutSize/2 - donutThickness,
		OuterRadius: DonutSize / 2,
		Stroke:      donutStroke,
		Arcs:        []Arc[T]{},
	}

	arcs := make([]Arc[T], 0, len(data))
	var total float64
	for _, d := range data {
		v := acc.Value(d)
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total += v
		color := ""
		if acc.Color != nil {
			color = acc.Color(d)
		}
		arcs = append(arcs, Arc[T]{Datum: d, Label: acc.Label(d), Value: v, Color: color, Opacity: 1})
	}
	if total == 0 {
		return donut
	}
	sort.SliceStable(arcs, func(i, j int) bool { return arcs[i].Value > arcs[j].Value })

	angle := 0.0
	for i := range arcs {
		arcs[i].StartAngle = angle
		angle += arcs[i].Value / total * 2 * math.Pi
		arcs[i].EndAngle = angle
		if highlight != "" && arcs[i].Label != highlight {
			arcs[i].Opacity = OpacityDimmed
		}
	}
	donut.Arcs = arcs
	return donut
}

// HitArc returns the arc under a pointer at (x, y) relative to the donut's
// centre, or nil.
func (d Donut[T]) HitArc(x, y float64) *Arc[T] {
	r := math.Hypot(x, y)
	if r < d.InnerRadius || r > d.OuterRadius {
		return nil
	}
	// Angles run clockwise from twelve o'clock.
	angle := math.Atan2(x, -y)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	for i := range d.Arcs {
		if angle >= d.Arcs[i].StartAngle && angle < d.Arcs[i].EndAngle {
			return &d.Arcs[i]
		}
	}
	return nil
}
