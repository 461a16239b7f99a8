package chart

// Default tooltip box used before the tooltip has been measured.
const (
	defaultTooltipWidth  = 10
	defaultTooltipHeight = 20
)

// TooltipPlacement positions a tooltip next to the pointer and flips it to
// the other side when the pointer is in the right or bottom half of the
// viewport.
type TooltipPlacement struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// PlaceTooltip computes the tooltip corner for a pointer at (x, y) within a
// viewport. A zero width or height falls back to the default box. Without a
// pointer the tooltip is parked at the origin.
func PlaceTooltip(pointer *Point, width, height, viewportWidth, viewportHeight float64) TooltipPlacement {
	if pointer == nil {
		return TooltipPlacement{}
	}
	if width <= 0 {
		width = defaultTooltipWidth
	}
	if height <= 0 {
		height = defaultTooltipHeight
	}
	p := TooltipPlacement{Left: pointer.X + 14, Top: pointer.Y - 8}
	if pointer.X > viewportWidth/2 {
		p.Left = pointer.X - width - 24
	}
	if pointer.Y > viewportHeight/2 {
		p.Top = pointer.Y - height - 24
	}
	return p
}
