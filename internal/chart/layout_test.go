package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/vizdash/internal/aggregate"
	"github.com/vanshika/vizdash/internal/domain"
)

func square(props map[string]any, lon, lat, size float64) domain.Feature {
	return domain.Feature{
		Properties: props,
		Geometry: domain.Geometry{
			Type: "Polygon",
			Polygons: []domain.Polygon{{domain.Ring{
				{lon, lat}, {lon + size, lat}, {lon + size, lat + size}, {lon, lat + size}, {lon, lat},
			}}},
		},
	}
}

func twoCountries() *domain.FeatureCollection {
	return &domain.FeatureCollection{Features: []domain.Feature{
		square(map[string]any{"name": "India"}, 0, 0, 10),
		square(map[string]any{"name": "Japan"}, 20, 0, 10),
	}}
}

func assertPoint(t *testing.T, want, got Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6)
	assert.InDelta(t, want.Y, got.Y, 1e-6)
}

func TestFitEquirectangularWidth(t *testing.T) {
	proj, height := FitEquirectangularWidth(twoCountries(), 300)

	assert.InDelta(t, 100, height, 1e-6)
	assertPoint(t, Point{0, 0}, proj.Project(domain.Position{0, 10}))
	assertPoint(t, Point{300, 100}, proj.Project(domain.Position{30, 0}))

	c, ok := Centroid(proj, twoCountries().Features[1])
	require.True(t, ok)
	assertPoint(t, Point{250, 50}, c)

	_, ok = Centroid(proj, domain.Feature{})
	assert.False(t, ok)
}

func TestFitMercatorSize_CentresInBox(t *testing.T) {
	fc := &domain.FeatureCollection{Features: []domain.Feature{square(nil, 0, 0, 10)}}
	proj := FitMercatorSize(fc, 200, 100)

	lo := proj.Project(domain.Position{0, 10})
	hi := proj.Project(domain.Position{10, 0})
	assert.InDelta(t, 0, lo.Y, 1e-6)
	assert.InDelta(t, 100, hi.Y, 1e-6)
	assert.InDelta(t, 200-hi.X, lo.X, 1e-6)
}

func aidFixture() map[string]*domain.EntityAggregate {
	return aggregate.GroupByEntity([]domain.AidTransaction{
		{Donor: "Japan", Recipient: "India", Year: 1995, Amount: 100},
		{Donor: "India", Recipient: "World Bank", Year: 1996, Amount: 20},
		{Donor: "World Bank", Recipient: "India", Year: 1997, Amount: 50},
		{Donor: "India", Recipient: "Nepal", Year: 1998, Amount: 5},
		{Donor: "Japan", Recipient: "India", Year: 1999, Amount: 10},
	})
}

func TestLayoutAidMap(t *testing.T) {
	m := LayoutAidMap(AidMapInput{
		Geo:           twoCountries(),
		Aggregates:    aidFixture(),
		Organizations: []string{"World Bank"},
		Selected:      "India",
		Hovered:       "Japan",
		Width:         300,
	})

	assert.InDelta(t, 100, m.MapHeight, 1e-6)
	assert.InDelta(t, 128, m.OrganizationOffset, 1e-6)
	assert.InDelta(t, 166, m.Height, 1e-6)
	require.Len(t, m.Outlines, 2)
	require.Len(t, m.Symbols, 3)

	india, japan, bank := m.Symbols[0], m.Symbols[1], m.Symbols[2]
	assert.Equal(t, "India", india.Name)
	assertPoint(t, Point{50, 50}, india.Center)
	assert.True(t, india.Selected)
	assert.Equal(t, OpacityDefault, india.Opacity)
	assert.InDelta(t, MaxSymbolRadius, india.Radius, 1e-9)

	assert.Equal(t, OpacityHovered, japan.Opacity)
	assertPoint(t, Point{250, 50}, japan.Center)

	assert.Equal(t, "World Bank", bank.Name)
	assert.True(t, bank.Organization)
	assertPoint(t, Point{15, 128}, bank.Center)

	require.Len(t, m.Lines, 3, "Nepal has no symbol and the repeated Japan flow draws once")
	assert.Equal(t, TransactionLine{Kind: FlowReceived, From: "Japan", To: "India", Start: japan.Center, End: india.Center, Color: ColorReceived}, m.Lines[0])
	assert.Equal(t, FlowDonated, m.Lines[1].Kind)
	assert.Equal(t, "World Bank", m.Lines[1].To)
	assert.Equal(t, FlowReceived, m.Lines[2].Kind)
	assert.Equal(t, "World Bank", m.Lines[2].From)
}

func TestLayoutAidMap_OrganizationGridWraps(t *testing.T) {
	aggs := aggregate.GroupByEntity([]domain.AidTransaction{
		{Donor: "A", Recipient: "B", Year: 2000, Amount: 1},
		{Donor: "C", Recipient: "D", Year: 2000, Amount: 1},
	})
	m := LayoutAidMap(AidMapInput{
		Geo:           twoCountries(),
		Aggregates:    aggs,
		Organizations: []string{"A", "B", "C", "D"},
		Width:         70,
	})

	require.Len(t, m.Symbols, 4)
	assertPoint(t, Point{45, m.OrganizationOffset}, m.Symbols[1].Center)
	assertPoint(t, Point{15, m.OrganizationOffset + 30}, m.Symbols[2].Center)
	assert.InDelta(t, m.MapHeight+60+36, m.Height, 1e-6)
	assert.Empty(t, m.Lines)
}

func TestLayoutAidMap_WithoutGeo(t *testing.T) {
	m := LayoutAidMap(AidMapInput{Aggregates: aidFixture(), Width: 300})
	assert.Empty(t, m.Symbols)
	assert.NotNil(t, m.Lines)
}

func TestLayoutTimeline_SkipsNonPositive(t *testing.T) {
	c := LayoutTimeline([]domain.PeriodAggregate{
		{Year: 1990, Amount: 10},
		{Year: 1991, Amount: 0},
		{Year: 2000, Amount: 1000},
	}, 100)

	assert.Equal(t, 80.0, c.Height)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, lineStroke, c.Lines[0].Color)
	require.Len(t, c.Lines[0].Points, 2)
	assertPoint(t, Point{0, 80}, c.Lines[0].Points[0])
	assertPoint(t, Point{100, 0}, c.Lines[0].Points[1])

	assert.Empty(t, LayoutTimeline(nil, 100).Lines)
}

func TestLayoutSeries_SharesSpan(t *testing.T) {
	series := &domain.EntitySeries{
		Entity:   "India",
		Donated:  []domain.PeriodAggregate{{Year: 1995, Amount: 10}},
		Received: []domain.PeriodAggregate{{Year: 1995, Amount: 100}},
	}
	c := LayoutSeries(series, domain.PeriodRange{Start: 1990, End: 2000}, 200, 125)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, FlowDonated, c.Lines[0].Name)
	assertPoint(t, Point{100, 100}, c.Lines[0].Points[0])
	assertPoint(t, Point{100, 5}, c.Lines[1].Points[0])

	assert.Empty(t, LayoutSeries(nil, domain.PeriodRange{Start: 1990, End: 2000}, 200, 125).Lines)
}

var seatAccessors = Accessors[domain.PartySeats]{
	Value: func(s domain.PartySeats) float64 { return float64(s.Seats) },
	Label: func(s domain.PartySeats) string { return s.Party },
	Color: func(s domain.PartySeats) string { return PartyColor(s.Party) },
}

func TestLayoutDonut(t *testing.T) {
	d := LayoutDonut([]domain.PartySeats{
		{Party: "A", Seats: 1}, {Party: "B", Seats: 3}, {Party: "C", Seats: 0}, {Party: "D", Seats: 3},
	}, seatAccessors, "D")

	assert.Equal(t, 30.0, d.InnerRadius)
	assert.Equal(t, 50.0, d.OuterRadius)
	require.Len(t, d.Arcs, 3)
	assert.Equal(t, []string{"B", "D", "A"}, []string{d.Arcs[0].Label, d.Arcs[1].Label, d.Arcs[2].Label})
	assert.InDelta(t, 2*math.Pi, d.Arcs[2].EndAngle, 1e-9)
	assert.Equal(t, OpacityDimmed, d.Arcs[0].Opacity)
	assert.Equal(t, 1.0, d.Arcs[1].Opacity)

	top := d.HitArc(0, -45)
	require.NotNil(t, top)
	assert.Equal(t, "B", top.Label)
	bottom := d.HitArc(0, 45)
	require.NotNil(t, bottom)
	assert.Equal(t, "D", bottom.Label)
	assert.Nil(t, d.HitArc(0, 0))
}

func TestLayoutDonut_AllZero(t *testing.T) {
	d := LayoutDonut([]domain.PartySeats{{Party: "A"}}, seatAccessors, "")
	assert.Empty(t, d.Arcs)
}

func TestLayoutCrossTab(t *testing.T) {
	c := LayoutCrossTab([]domain.CounterpartTotal{
		{Entity: "A", Received: 10, Donated: 30},
		{Entity: "B", Received: 5},
	}, 200)

	assert.Equal(t, []string{FlowDonated, FlowReceived}, c.Keys)
	assert.Equal(t, 60.0, c.LabelWidth)
	assert.Equal(t, 55.0, c.Height)
	require.Len(t, c.Rects, 4)

	donated, received := c.Rects[0], c.Rects[1]
	assert.Equal(t, FlowDonated, donated.Key)
	assert.InDelta(t, 65, donated.X, 1e-9)
	assert.InDelta(t, 93.75, donated.Width, 1e-9)
	assert.InDelta(t, 158.75, received.X, 1e-9)
	assert.InDelta(t, 31.25, received.Width, 1e-9)
	assert.Equal(t, ColorReceived, received.Color)

	assert.Equal(t, 0.0, c.Rects[2].Width)
	require.Len(t, c.Labels, 2)
	assert.Equal(t, "A", c.Labels[0].Text)
	assert.InDelta(t, donated.Y+donated.Height/2, c.Labels[0].Y, 1e-9)
	assert.Less(t, c.Labels[0].Y, c.Labels[1].Y)
}

func TestLayoutCrossTab_Empty(t *testing.T) {
	c := LayoutCrossTab(nil, 200)
	assert.Equal(t, 40.0, c.Height)
	assert.Empty(t, c.Rects)
}

func TestLayoutHorizontalBars(t *testing.T) {
	acc := Accessors[domain.PartyVotes]{
		Value: func(v domain.PartyVotes) float64 { return v.Votes },
		Label: func(v domain.PartyVotes) string { return v.Party },
	}
	c := LayoutHorizontalBars([]domain.PartyVotes{{Party: "Alpha", Votes: 300}, {Party: "Beta", Votes: 100}}, acc, "")

	assert.Equal(t, 142.0, c.Height)
	assert.Equal(t, []float64{0, 100, 200, 300}, c.XTicks)
	require.Len(t, c.Bars, 2)
	assert.InDelta(t, 360, c.Bars[0].Width, 1e-9)
	assert.InDelta(t, 120, c.Bars[1].Width, 1e-9)
	assert.Equal(t, 26.0, c.Bars[1].Y)
	assert.Equal(t, ColorOtherParty, c.Bars[0].Color)
}

func electionMapInput() ConstituencyMapInput {
	return ConstituencyMapInput{
		Geo: &domain.FeatureCollection{Features: []domain.Feature{
			square(map[string]any{"ST_CODE": "S01", "PC_No": "01"}, 70, 10, 1),
			square(map[string]any{"ST_CODE": "S01", "PC_No": "02"}, 71, 10, 1),
			square(map[string]any{"ST_CODE": "U06", "PC_No": "01"}, 72, 10, 1),
		}},
		ByID: map[string]domain.Constituency{
			"S0101": {ID: "S0101", StateOrUT: "S01"},
			"S0102": {ID: "S0102", StateOrUT: "S01"},
			"U0601": {ID: "U0601", StateOrUT: "U06"},
		},
		Winners: map[string]domain.ConstituencyResult{
			"S0101": {PartyName: "Bharatiya Janata Party"},
			"U0601": {PartyName: "Indian National Congress"},
		},
		Width: 300,
	}
}

func opacities(m ConstituencyMap) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range m.Shapes {
		out[s.Key] = s.Opacity
	}
	return out
}

func TestLayoutConstituencyMap_Fills(t *testing.T) {
	m := LayoutConstituencyMap(electionMapInput())

	assert.Equal(t, 300.0, m.Height)
	require.Len(t, m.Shapes, 3)
	assert.Equal(t, "#fdb462", m.Shapes[0].Fill)
	assert.Equal(t, constituencyStroke, m.Shapes[0].Stroke)
	assert.Equal(t, ColorOtherParty, m.Shapes[1].Fill)
	assert.Equal(t, "#80b1d3", m.Shapes[2].Stroke, "island UTs are stroked in their fill")
	assert.Equal(t, map[string]float64{"S0101": 1, "S0102": 1, "U0601": 1}, opacities(m))
}

func TestLayoutConstituencyMap_Emphasis(t *testing.T) {
	in := electionMapInput()
	in.Highlighted = map[string]struct{}{"S0101": {}}
	assert.Equal(t, map[string]float64{"S0101": 1, "S0102": 0.2, "U0601": 0.2}, opacities(LayoutConstituencyMap(in)))

	in.Highlighted = map[string]struct{}{}
	assert.Equal(t, map[string]float64{"S0101": 0.2, "S0102": 0.2, "U0601": 0.2}, opacities(LayoutConstituencyMap(in)))

	in.HoveredState = "S01"
	in.HoveredFeature = "S0102"
	m := LayoutConstituencyMap(in)
	assert.Equal(t, map[string]float64{"S0101": 1, "S0102": 1, "U0601": 0.2}, opacities(m))
	last := m.Shapes[len(m.Shapes)-1]
	assert.Equal(t, "S0102", last.Key)
	assert.True(t, last.Hovered)
	assert.Equal(t, hoverStroke, last.Stroke)
}
