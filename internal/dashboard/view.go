// Package dashboard composes a store with the chart adapters of one page
// and exposes the result as JSON-ready view models. A page also owns the
// presentation state the store does not track: chart sizes, brush scales and
// the map zoom.
package dashboard

import (
	"strconv"

	"github.com/vanshika/vizdash/internal/format"
)

// TooltipLine is one label/value row of a tooltip.
type TooltipLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Tooltip is the formatted content shown for a hovered mark.
type Tooltip struct {
	Title string        `json:"title"`
	Lines []TooltipLine `json:"lines"`
}

func yearTicks(ticks []float64) []string {
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = strconv.Itoa(int(t))
	}
	return out
}

func siTicks(ticks []float64, digits int) []string {
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = format.SI(t, digits)
	}
	return out
}
