package chart

import (
	"math"
)

// Zoom limits of the constituency map.
const (
	MinZoom = 1
	MaxZoom = 10
)

// Transform is a uniform scale followed by a translation.
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the untransformed view.
var Identity = Transform{K: 1}

// Apply maps a point from layout space to view space.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a view space point back to layout space.
func (t Transform) Invert(p Point) Point {
	return Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Zoom tracks pan and zoom over a fixed viewport. The scale stays within
// [MinZoom, MaxZoom] and the translation never reveals space outside the
// viewport.
type Zoom struct {
	width, height float64
	t             Transform
}

// NewZoom starts at the identity transform.
func NewZoom(width, height float64) *Zoom {
	return &Zoom{width: width, height: height, t: Identity}
}

// Transform returns the current transform.
func (z *Zoom) Transform() Transform {
	return z.t
}

// Resize changes the viewport and re-applies the constraints.
func (z *Zoom) Resize(width, height float64) {
	z.width, z.height = width, height
	z.t = z.constrain(z.t)
}

// Reset returns to the identity transform.
func (z *Zoom) Reset() {
	z.t = Identity
}

// ScaleBy multiplies the scale by factor, keeping the view point at center
// fixed.
func (z *Zoom) ScaleBy(factor float64, center Point) Transform {
	k := math.Max(MinZoom, math.Min(MaxZoom, z.t.K*factor))
	anchor := z.t.Invert(center)
	next := Transform{K: k, X: center.X - anchor.X*k, Y: center.Y - anchor.Y*k}
	z.t = z.constrain(next)
	return z.t
}

// Pan shifts the view by (dx, dy) view pixels.
func (z *Zoom) Pan(dx, dy float64) Transform {
	z.t = z.constrain(Transform{K: z.t.K, X: z.t.X + dx, Y: z.t.Y + dy})
	return z.t
}

// Set replaces the transform, applying the constraints.
func (z *Zoom) Set(t Transform) Transform {
	t.K = math.Max(MinZoom, math.Min(MaxZoom, t.K))
	z.t = z.constrain(t)
	return z.t
}

func (z *Zoom) constrain(t Transform) Transform {
	x0 := (0-t.X)/t.K - 0
	x1 := (z.width-t.X)/t.K - z.width
	y0 := (0-t.Y)/t.K - 0
	y1 := (z.height-t.Y)/t.K - z.height
	t.X += t.K * shift(x0, x1)
	t.Y += t.K * shift(y0, y1)
	return t
}

// shift returns the layout-space correction for one axis given how far the
// viewport's low and high edges overshoot the extent.
func shift(low, high float64) float64 {
	if high > low {
		return (low + high) / 2
	}
	if low < 0 {
		return low
	}
	if high > 0 {
		return high
	}
	return 0
}
