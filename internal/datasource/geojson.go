package datasource

import (
	"encoding/json"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/vanshika/vizdash/internal/domain"
)

const (
	geometryPolygon      = "Polygon"
	geometryMultiPolygon = "MultiPolygon"
)

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type rawFeature struct {
	Properties map[string]any `json:"properties"`
	Geometry   *rawGeometry   `json:"geometry"`
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

// ParseFeatureCollection decodes a GeoJSON feature collection. Polygon and
// MultiPolygon geometries are normalised to a polygon list; other geometry
// kinds keep their type with no polygons.
func ParseFeatureCollection(data []byte) (*domain.FeatureCollection, error) {
	var raw rawCollection
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode geojson")
	}
	if raw.Type != "" && raw.Type != "FeatureCollection" {
		return nil, errors.Newf("geojson: unexpected type %q", raw.Type)
	}

	fc := &domain.FeatureCollection{Features: make([]domain.Feature, 0, len(raw.Features))}
	for i, rf := range raw.Features {
		feature := domain.Feature{Properties: rf.Properties}
		if feature.Properties == nil {
			feature.Properties = map[string]any{}
		}
		if rf.Geometry != nil {
			geom, err := decodeGeometry(rf.Geometry)
			if err != nil {
				return nil, errors.Wrapf(err, "feature %d", i)
			}
			feature.Geometry = geom
		}
		fc.Features = append(fc.Features, feature)
	}
	return fc, nil
}

func decodeGeometry(rg *rawGeometry) (domain.Geometry, error) {
	geom := domain.Geometry{Type: rg.Type}
	switch rg.Type {
	case geometryPolygon:
		var coords [][][]float64
		if err := sonic.Unmarshal(rg.Coordinates, &coords); err != nil {
			return geom, errors.Wrap(err, "polygon coordinates")
		}
		geom.Polygons = []domain.Polygon{toPolygon(coords)}
	case geometryMultiPolygon:
		var coords [][][][]float64
		if err := sonic.Unmarshal(rg.Coordinates, &coords); err != nil {
			return geom, errors.Wrap(err, "multipolygon coordinates")
		}
		geom.Polygons = make([]domain.Polygon, 0, len(coords))
		for _, p := range coords {
			geom.Polygons = append(geom.Polygons, toPolygon(p))
		}
	}
	return geom, nil
}

func toPolygon(rings [][][]float64) domain.Polygon {
	poly := make(domain.Polygon, 0, len(rings))
	for _, r := range rings {
		ring := make(domain.Ring, 0, len(r))
		for _, pos := range r {
			if len(pos) < 2 {
				continue
			}
			ring = append(ring, domain.Position{pos[0], pos[1]})
		}
		poly = append(poly, ring)
	}
	return poly
}
