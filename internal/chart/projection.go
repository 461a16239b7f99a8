package chart

import (
	"math"

	"github.com/vanshika/vizdash/internal/domain"
)

// Point is a screen-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projection maps longitude/latitude to screen space.
type Projection struct {
	raw   func(lon, lat float64) (float64, float64)
	scale float64
	tx    float64
	ty    float64
}

// Project maps a position to pixels.
func (p Projection) Project(pos domain.Position) Point {
	x, y := p.raw(pos[0], pos[1])
	return Point{X: p.tx + p.scale*x, Y: p.ty - p.scale*y}
}

func equirectangular(lon, lat float64) (float64, float64) {
	return lon * math.Pi / 180, lat * math.Pi / 180
}

// Latitudes beyond this are clamped before the Mercator transform.
const mercatorMaxLat = 85.05112878

func mercator(lon, lat float64) (float64, float64) {
	lat = math.Max(-mercatorMaxLat, math.Min(mercatorMaxLat, lat))
	phi := lat * math.Pi / 180
	return lon * math.Pi / 180, math.Log(math.Tan(math.Pi/4 + phi/2))
}

// bounds returns the raw projected bounding box of every position in fc.
func bounds(fc *domain.FeatureCollection, raw func(lon, lat float64) (float64, float64)) (lo, hi Point, ok bool) {
	if fc == nil {
		return lo, hi, false
	}
	for _, f := range fc.Features {
		for _, poly := range f.Geometry.Polygons {
			for _, ring := range poly {
				for _, pos := range ring {
					x, y := raw(pos[0], pos[1])
					y = -y
					if !ok {
						lo, hi, ok = Point{x, y}, Point{x, y}, true
						continue
					}
					lo.X, lo.Y = math.Min(lo.X, x), math.Min(lo.Y, y)
					hi.X, hi.Y = math.Max(hi.X, x), math.Max(hi.Y, y)
				}
			}
		}
	}
	return lo, hi, ok
}

// FitEquirectangularWidth scales an equirectangular projection so fc spans
// width pixels, with its northern edge at y = 0. It also returns the height
// fc then occupies.
func FitEquirectangularWidth(fc *domain.FeatureCollection, width float64) (Projection, float64) {
	p := Projection{raw: equirectangular, scale: 1}
	lo, hi, ok := bounds(fc, equirectangular)
	if !ok || hi.X == lo.X {
		return p, 0
	}
	p.scale = width / (hi.X - lo.X)
	p.tx = -p.scale * lo.X
	p.ty = -p.scale * lo.Y
	return p, p.scale * (hi.Y - lo.Y)
}

// FitMercatorSize scales a Mercator projection so fc fits inside a
// width by height box, centred.
func FitMercatorSize(fc *domain.FeatureCollection, width, height float64) Projection {
	p := Projection{raw: mercator, scale: 1}
	lo, hi, ok := bounds(fc, mercator)
	if !ok {
		return p
	}
	dx, dy := hi.X-lo.X, hi.Y-lo.Y
	switch {
	case dx > 0 && dy > 0:
		p.scale = math.Min(width/dx, height/dy)
	case dx > 0:
		p.scale = width / dx
	case dy > 0:
		p.scale = height / dy
	}
	p.tx = (width - p.scale*(hi.X+lo.X)) / 2
	p.ty = (height - p.scale*(hi.Y+lo.Y)) / 2
	return p
}

// ProjectFeature returns the projected rings of every polygon of f.
func ProjectFeature(p Projection, f domain.Feature) [][]Point {
	var rings [][]Point
	for _, poly := range f.Geometry.Polygons {
		for _, ring := range poly {
			pts := make([]Point, 0, len(ring))
			for _, pos := range ring {
				pts = append(pts, p.Project(pos))
			}
			rings = append(rings, pts)
		}
	}
	return rings
}

// Centroid returns the area-weighted planar centroid of f's projected
// polygons. Holes subtract from the area. Features without area fall back
// to the mean of their vertices; ok is false when f has no vertices.
func Centroid(p Projection, f domain.Feature) (Point, bool) {
	var area, cx, cy float64
	var sx, sy float64
	var n int
	for _, ring := range ProjectFeature(p, f) {
		for i := range ring {
			a, b := ring[i], ring[(i+1)%len(ring)]
			cross := a.X*b.Y - b.X*a.Y
			area += cross
			cx += (a.X + b.X) * cross
			cy += (a.Y + b.Y) * cross
			sx += a.X
			sy += a.Y
			n++
		}
	}
	if n == 0 {
		return Point{}, false
	}
	if math.Abs(area) < 1e-12 {
		return Point{X: sx / float64(n), Y: sy / float64(n)}, true
	}
	return Point{X: cx / (3 * area), Y: cy / (3 * area)}, true
}
