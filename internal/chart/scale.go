// Package chart maps derived aggregates to screen-space marks and maps user
// gestures on those marks back to domain-space filter changes.
//
// Adapters here produce plain geometry (positions, radii, angles, colours)
// for a renderer to draw. They never fail: missing input yields an empty
// layout.
package chart

import (
	"math"
)

// Extent is a closed numeric interval. Start may be larger than End.
type Extent [2]float64

// LinearScale maps a continuous domain onto a pixel range.
type LinearScale struct {
	Domain Extent
	Range  Extent
}

// NewLinearScale constructs a linear scale.
func NewLinearScale(domain, rng Extent) LinearScale {
	return LinearScale{Domain: domain, Range: rng}
}

// Apply maps a domain value to pixels. A degenerate domain maps every value
// to the middle of the range.
func (s LinearScale) Apply(v float64) float64 {
	return interpolate(s.Range, normalize(s.Domain, v))
}

// Invert maps a pixel position back to the domain.
func (s LinearScale) Invert(px float64) float64 {
	return interpolate(s.Domain, normalize(s.Range, px))
}

// WithRange returns a copy of s over a new pixel range.
func (s LinearScale) WithRange(rng Extent) LinearScale {
	s.Range = rng
	return s
}

// Ticks returns roughly count evenly spaced round values inside the domain.
func (s LinearScale) Ticks(count int) []float64 {
	start, stop := s.Domain[0], s.Domain[1]
	if start == stop || count <= 0 {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	step, div := tickStep(start, stop, count)
	var ticks []float64
	if div {
		for i := math.Ceil(start * step); i <= math.Floor(stop*step); i++ {
			ticks = append(ticks, i/step)
		}
	} else {
		for i := math.Ceil(start / step); i <= math.Floor(stop/step); i++ {
			ticks = append(ticks, i*step)
		}
	}
	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickStep returns a 1, 2 or 5 times power-of-ten step. When div is true the
// step is returned as its reciprocal to keep fractional ticks exact.
func tickStep(start, stop float64, count int) (step float64, div bool) {
	raw := (stop - start) / float64(count)
	power := math.Floor(math.Log10(raw))
	err := raw / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power), false
	}
	return math.Pow(10, -power) / factor, true
}

// LogScale maps a strictly positive domain logarithmically onto pixels.
type LogScale struct {
	Domain Extent
	Range  Extent
}

// NewLogScale constructs a log scale.
func NewLogScale(domain, rng Extent) LogScale {
	return LogScale{Domain: domain, Range: rng}
}

// Apply maps v to pixels. ok is false for values the scale cannot place:
// non-positive values or a non-positive domain.
func (s LogScale) Apply(v float64) (px float64, ok bool) {
	if v <= 0 || s.Domain[0] <= 0 || s.Domain[1] <= 0 {
		return 0, false
	}
	logDomain := Extent{math.Log(s.Domain[0]), math.Log(s.Domain[1])}
	return interpolate(s.Range, normalize(logDomain, math.Log(v))), true
}

// BandScale splits a pixel range into equal bands, one per label.
type BandScale struct {
	labels       []string
	index        map[string]int
	Range        Extent
	PaddingInner float64
	PaddingOuter float64
	Align        float64
	start        float64
	step         float64
}

// NewBandScale builds a band scale with equal inner and outer padding and
// centred alignment.
func NewBandScale(labels []string, rng Extent, padding float64) BandScale {
	b := BandScale{
		labels:       labels,
		index:        make(map[string]int, len(labels)),
		Range:        rng,
		PaddingInner: padding,
		PaddingOuter: padding,
		Align:        0.5,
	}
	for i, l := range labels {
		if _, dup := b.index[l]; !dup {
			b.index[l] = i
		}
	}
	b.rescale()
	return b
}

func (b *BandScale) rescale() {
	n := float64(len(b.labels))
	start, stop := b.Range[0], b.Range[1]
	if stop < start {
		start, stop = stop, start
	}
	b.step = (stop - start) / math.Max(1, n-b.PaddingInner+b.PaddingOuter*2)
	b.start = start + (stop-start-b.step*(n-b.PaddingInner))*b.Align
}

// Position returns the start of label's band.
func (b BandScale) Position(label string) (float64, bool) {
	i, ok := b.index[label]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth is the size of one band.
func (b BandScale) Bandwidth() float64 {
	return b.step * (1 - b.PaddingInner)
}

// Step is the distance between the starts of adjacent bands.
func (b BandScale) Step() float64 {
	return b.step
}

func normalize(e Extent, v float64) float64 {
	span := e[1] - e[0]
	if span == 0 {
		return 0.5
	}
	return (v - e[0]) / span
}

func interpolate(e Extent, t float64) float64 {
	return e[0] + (e[1]-e[0])*t
}

func extentOf(values []float64) (Extent, bool) {
	if len(values) == 0 {
		return Extent{}, false
	}
	e := Extent{values[0], values[0]}
	for _, v := range values[1:] {
		e[0] = math.Min(e[0], v)
		e[1] = math.Max(e[1], v)
	}
	return e, true
}
