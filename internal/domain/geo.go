package domain

import (
	"strconv"
)

// UnknownFeatureName is used for features without a "name" property.
const UnknownFeatureName = "unknown"

// Position is a longitude/latitude pair.
type Position [2]float64

// Ring is a closed sequence of positions.
type Ring []Position

// Polygon is an outer ring followed by optional holes.
type Polygon []Ring

// Geometry is a feature boundary normalised to a list of polygons.
// Polygon and MultiPolygon geometries are supported; other kinds keep their
// type and carry no polygons.
type Geometry struct {
	Type     string    `json:"type"`
	Polygons []Polygon `json:"-"`
}

// Feature is a boundary with free-form properties.
type Feature struct {
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// FeatureCollection is a set of boundaries loaded once per page.
type FeatureCollection struct {
	Features []Feature `json:"features"`
}

// Property returns a property rendered as a string. Numeric values are
// printed without trailing zeros so codes like 7 and "7" compare equal.
func (f Feature) Property(key string) (string, bool) {
	raw, ok := f.Properties[key]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// Name returns the "name" property or UnknownFeatureName.
func (f Feature) Name() string {
	if name, ok := f.Property("name"); ok {
		return name
	}
	return UnknownFeatureName
}

// ConstituencyKey joins the state code and constituency number, matching the
// id column of the constituency table (e.g. "S0101").
func (f Feature) ConstituencyKey() string {
	st, _ := f.Property("ST_CODE")
	pc, _ := f.Property("PC_No")
	return st + pc
}
