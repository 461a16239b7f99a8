package chart

import (
	"math"

	"github.com/vanshika/vizdash/internal/domain"
)

const (
	// symbolBox is the grid cell occupied by one organisation symbol.
	symbolBox = MaxSymbolRadius*2 + 2
	// mapBottomPadding is added below the organisation grid.
	mapBottomPadding = 36
	outlineStroke    = "#bbb"
)

// Shape is a projected map feature.
type Shape struct {
	Key     string    `json:"key"`
	Rings   [][]Point `json:"rings"`
	Fill    string    `json:"fill"`
	Stroke  string    `json:"stroke"`
	Opacity float64   `json:"opacity"`
}

// TransactionLine connects the selected entity with one counterpart.
type TransactionLine struct {
	Kind  string `json:"kind"`
	From  string `json:"from"`
	To    string `json:"to"`
	Start Point  `json:"start"`
	End   Point  `json:"end"`
	Color string `json:"color"`
}

// AidMapInput is everything the aid map layout depends on.
type AidMapInput struct {
	Geo           *domain.FeatureCollection
	Aggregates    map[string]*domain.EntityAggregate
	Organizations []string
	Selected      string
	Hovered       string
	Width         float64
}

// AidMap is the laid out country map with entity symbols.
type AidMap struct {
	Width              float64           `json:"width"`
	Height             float64           `json:"height"`
	MapHeight          float64           `json:"mapHeight"`
	OrganizationOffset float64           `json:"organizationOffset"`
	Outlines           []Shape           `json:"outlines"`
	Symbols            []Symbol          `json:"symbols"`
	Lines              []TransactionLine `json:"lines"`
}

// LayoutAidMap places country symbols at their feature centroids and
// organisation symbols in a grid below the map, then draws lines from the
// selected symbol to each counterpart that has a symbol. Nothing is laid out
// until the map has loaded.
func LayoutAidMap(in AidMapInput) AidMap {
	out := AidMap{Width: in.Width, Outlines: []Shape{}, Symbols: []Symbol{}, Lines: []TransactionLine{}}
	if in.Geo == nil || in.Width <= 0 {
		return out
	}

	proj, mapHeight := FitEquirectangularWidth(in.Geo, in.Width)
	out.MapHeight = mapHeight
	radius := RadiusScale(in.Aggregates)
	placed := make(map[string]int)

	for _, f := range in.Geo.Features {
		name := f.Name()
		out.Outlines = append(out.Outlines, Shape{
			Key:     name,
			Rings:   ProjectFeature(proj, f),
			Fill:    "none",
			Stroke:  outlineStroke,
			Opacity: 1,
		})
		agg, ok := in.Aggregates[name]
		if !ok {
			continue
		}
		if _, dup := placed[name]; dup {
			continue
		}
		center, ok := Centroid(proj, f)
		if !ok {
			continue
		}
		placed[name] = len(out.Symbols)
		out.Symbols = append(out.Symbols, newSymbol(agg, center, radius, in.Hovered, in.Selected))
	}

	out.OrganizationOffset = mapHeight + MaxSymbolRadius*2
	perRow := int(math.Max(1, math.Floor(in.Width/symbolBox)))
	i := 0
	for _, org := range in.Organizations {
		agg, ok := in.Aggregates[org]
		if !ok {
			continue
		}
		if _, dup := placed[org]; dup {
			continue
		}
		center := Point{
			X: float64(i%perRow)*symbolBox + symbolBox/2,
			Y: out.OrganizationOffset + float64(i/perRow)*symbolBox,
		}
		sym := newSymbol(agg, center, radius, in.Hovered, in.Selected)
		sym.Organization = true
		placed[org] = len(out.Symbols)
		out.Symbols = append(out.Symbols, sym)
		i++
	}
	rows := math.Ceil(float64(i) / float64(perRow))
	out.Height = mapHeight + rows*symbolBox + mapBottomPadding

	out.Lines = transactionLines(in, out.Symbols, placed)
	return out
}

func transactionLines(in AidMapInput, symbols []Symbol, placed map[string]int) []TransactionLine {
	lines := []TransactionLine{}
	focalIdx, ok := placed[in.Selected]
	if in.Selected == "" || !ok {
		return lines
	}
	focal := symbols[focalIdx]
	agg := in.Aggregates[in.Selected]

	seenDonated := make(map[string]struct{})
	seenReceived := make(map[string]struct{})
	for _, tx := range agg.Transactions {
		if tx.Donor == focal.Name {
			if _, seen := seenDonated[tx.Recipient]; !seen {
				seenDonated[tx.Recipient] = struct{}{}
				if idx, ok := placed[tx.Recipient]; ok {
					lines = append(lines, TransactionLine{
						Kind: FlowDonated, From: focal.Name, To: tx.Recipient,
						Start: focal.Center, End: symbols[idx].Center, Color: ColorDonated,
					})
				}
			}
		}
		if tx.Recipient == focal.Name {
			if _, seen := seenReceived[tx.Donor]; !seen {
				seenReceived[tx.Donor] = struct{}{}
				if idx, ok := placed[tx.Donor]; ok {
					lines = append(lines, TransactionLine{
						Kind: FlowReceived, From: tx.Donor, To: focal.Name,
						Start: symbols[idx].Center, End: focal.Center, Color: ColorReceived,
					})
				}
			}
		}
	}
	return lines
}
