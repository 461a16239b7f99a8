package chart

import (
	"math"

	"github.com/vanshika/vizdash/internal/domain"
)

// BrushTarget receives a brush gesture together with the year range it
// selects. Both values are nil when the gesture is cleared.
type BrushTarget interface {
	ApplyBrush(span *domain.PixelSpan, r *domain.PeriodRange)
}

// SpanToRange maps a pixel span to the whole years it covers. The start is
// rounded up and the end down, so only years whose tick lies inside the span
// are selected. A span narrower than one year yields Start > End, which
// selects nothing.
func SpanToRange(scale LinearScale, span domain.PixelSpan) domain.PeriodRange {
	span = span.Normalized()
	a, b := scale.Invert(span.Start), scale.Invert(span.End)
	if a > b {
		a, b = b, a
	}
	return domain.PeriodRange{
		Start: int(math.Ceil(a - 1e-9)),
		End:   int(math.Floor(b + 1e-9)),
	}
}

// RangeToSpan maps a year range to pixels through scale.
func RangeToSpan(scale LinearScale, r domain.PeriodRange) domain.PixelSpan {
	return domain.PixelSpan{
		Start: scale.Apply(float64(r.Start)),
		End:   scale.Apply(float64(r.End)),
	}.Normalized()
}

// Brush converts gestures on one chart's time axis into filter updates and
// positions that chart's brush handles from the shared year range.
type Brush struct {
	target BrushTarget
	scale  LinearScale
}

// NewBrush binds a brush to target using the chart's current x scale.
func NewBrush(target BrushTarget, scale LinearScale) *Brush {
	return &Brush{target: target, scale: scale}
}

// Rescale replaces the x scale, e.g. after the chart is resized.
func (b *Brush) Rescale(scale LinearScale) {
	b.scale = scale
}

// Scale returns the current x scale.
func (b *Brush) Scale() LinearScale {
	return b.scale
}

// Move handles a drag gesture. A nil selection clears both the span and the
// year range.
func (b *Brush) Move(selection *domain.PixelSpan) {
	if selection == nil {
		b.target.ApplyBrush(nil, nil)
		return
	}
	span := selection.Normalized()
	r := SpanToRange(b.scale, span)
	b.target.ApplyBrush(&span, &r)
}

// Handles returns where this chart should draw its brush handles for the
// shared range r, clamped to the chart's pixel extent. It is recomputed from
// the domain range on every call so differently sized charts stay aligned.
func (b *Brush) Handles(r *domain.PeriodRange) *domain.PixelSpan {
	if r == nil {
		return nil
	}
	span := RangeToSpan(b.scale, *r)
	lo, hi := b.scale.Range[0], b.scale.Range[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	span.Start = clamp(span.Start, lo, hi)
	span.End = clamp(span.End, lo, hi)
	return &span
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
