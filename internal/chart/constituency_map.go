package chart

import (
	"github.com/vanshika/vizdash/internal/domain"
)

const (
	constituencyStroke = "#eee"
	hoverStroke        = "black"
)

// islandStates are drawn with their fill colour as stroke so that small
// islands stay visible.
var islandStates = map[string]struct{}{"U06": {}, "U01": {}}

// ConstituencyMapInput is everything the constituency map layout depends on.
type ConstituencyMapInput struct {
	Geo            *domain.FeatureCollection
	ByID           map[string]domain.Constituency
	Winners        map[string]domain.ConstituencyResult
	Highlighted    map[string]struct{}
	HoveredState   string
	HoveredFeature string
	Width          float64
}

// ConstituencyShape is a projected constituency boundary.
type ConstituencyShape struct {
	Shape
	ConstituencyID string `json:"constituencyId"`
	StateOrUT      string `json:"stateOrUT"`
	Party          string `json:"party"`
	Hovered        bool   `json:"hovered"`
}

// ConstituencyMap is a laid out square constituency map.
type ConstituencyMap struct {
	Width  float64             `json:"width"`
	Height float64             `json:"height"`
	Shapes []ConstituencyShape `json:"shapes"`
}

// LayoutConstituencyMap fits the boundaries into a square of the given
// width, filling each with the colour of the winning party. A hovered state
// takes precedence over a party highlight: its constituencies stay opaque
// and everything else is dimmed. The hovered feature is moved to the end so
// that it is drawn on top.
func LayoutConstituencyMap(in ConstituencyMapInput) ConstituencyMap {
	out := ConstituencyMap{Width: in.Width, Height: in.Width, Shapes: []ConstituencyShape{}}
	if in.Geo == nil || in.Width <= 0 {
		return out
	}
	proj := FitMercatorSize(in.Geo, in.Width, in.Width)

	var hovered *ConstituencyShape
	for _, f := range in.Geo.Features {
		key := f.ConstituencyKey()
		c, known := in.ByID[key]
		winner := in.Winners[key]
		fill := PartyColor(winner.PartyName)

		stroke := constituencyStroke
		if _, island := islandStates[c.StateOrUT]; island {
			stroke = fill
		}
		shape := ConstituencyShape{
			Shape: Shape{
				Key:     key,
				Rings:   ProjectFeature(proj, f),
				Fill:    fill,
				Stroke:  stroke,
				Opacity: constituencyOpacity(in, c, known),
			},
			StateOrUT: c.StateOrUT,
			Party:     winner.PartyName,
		}
		if known {
			shape.ConstituencyID = c.ID
		}
		if in.HoveredFeature != "" && key == in.HoveredFeature && hovered == nil {
			shape.Hovered = true
			shape.Stroke = hoverStroke
			hovered = &shape
			continue
		}
		out.Shapes = append(out.Shapes, shape)
	}
	if hovered != nil {
		out.Shapes = append(out.Shapes, *hovered)
	}
	return out
}

func constituencyOpacity(in ConstituencyMapInput, c domain.Constituency, known bool) float64 {
	if in.HoveredState != "" {
		if known && c.StateOrUT == in.HoveredState {
			return OpacityHighlight
		}
		return OpacityMapDimmed
	}
	if in.Highlighted == nil {
		return OpacityHighlight
	}
	if _, ok := in.Highlighted[c.ID]; ok && known {
		return OpacityHighlight
	}
	return OpacityMapDimmed
}
