package chart

import (
	"math"

	"github.com/vanshika/vizdash/internal/domain"
)

// Symbol radius bounds in pixels.
const (
	MinSymbolRadius = 3
	MaxSymbolRadius = 14
)

// minVisiblePercent is the smallest share a non-zero flow is drawn with.
const minVisiblePercent = 1

// Sector is one wedge of a radial split.
type Sector struct {
	Kind       string  `json:"kind"`
	Percent    float64 `json:"percent"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	Color      string  `json:"color"`
}

// SplitPercent divides an entity's volume into received and donated
// percentages summing to 100. A non-zero side is raised to at least one
// percent so it stays visible; a zero side is always zero.
func SplitPercent(agg domain.EntityAggregate) (received, donated float64) {
	total := agg.Total()
	if total <= 0 {
		return 0, 0
	}
	if agg.TotalReceived != 0 {
		received = math.Max(minVisiblePercent, agg.TotalReceived/total*100)
	}
	if agg.TotalDonated != 0 {
		received = math.Min(received, 100-minVisiblePercent)
	}
	return received, 100 - received
}

// SymbolSectors lays out the donated then received wedges of agg over a
// full turn. Zero-valued wedges are omitted.
func SymbolSectors(agg domain.EntityAggregate) []Sector {
	received, donated := SplitPercent(agg)
	parts := []Sector{
		{Kind: FlowDonated, Percent: donated, Color: ColorDonated},
		{Kind: FlowReceived, Percent: received, Color: ColorReceived},
	}
	out := make([]Sector, 0, 2)
	angle := 0.0
	for _, s := range parts {
		if s.Percent == 0 {
			continue
		}
		s.StartAngle = angle
		angle += s.Percent / 100 * 2 * math.Pi
		s.EndAngle = angle
		out = append(out, s)
	}
	return out
}

// RadiusScale maps entity volume linearly onto symbol radii. With a single
// distinct volume every symbol gets the middle radius.
func RadiusScale(aggs map[string]*domain.EntityAggregate) LinearScale {
	totals := make([]float64, 0, len(aggs))
	for _, agg := range aggs {
		totals = append(totals, agg.Total())
	}
	domainExtent, _ := extentOf(totals)
	return NewLinearScale(domainExtent, Extent{MinSymbolRadius, MaxSymbolRadius})
}

// Symbol is an entity marker.
type Symbol struct {
	Name         string   `json:"name"`
	Center       Point    `json:"center"`
	Radius       float64  `json:"radius"`
	Sectors      []Sector `json:"sectors"`
	Opacity      float64  `json:"opacity"`
	Organization bool     `json:"organization"`
	Selected     bool     `json:"selected"`
}

func newSymbol(agg *domain.EntityAggregate, center Point, radius LinearScale, hovered, selected string) Symbol {
	opacity := OpacityDefault
	if agg.Name == hovered {
		opacity = OpacityHovered
	}
	return Symbol{
		Name:     agg.Name,
		Center:   center,
		Radius:   radius.Apply(agg.Total()),
		Sectors:  SymbolSectors(*agg),
		Opacity:  opacity,
		Selected: agg.Name == selected,
	}
}
