package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vanshika/vizdash/internal/chart"
	"github.com/vanshika/vizdash/internal/domain"
	"github.com/vanshika/vizdash/internal/store"
)

func square(props map[string]any, lon, lat float64) domain.Feature {
	return domain.Feature{
		Properties: props,
		Geometry: domain.Geometry{
			Type: "Polygon",
			Polygons: []domain.Polygon{{domain.Ring{
				{lon, lat}, {lon + 10, lat}, {lon + 10, lat + 10}, {lon, lat + 10}, {lon, lat},
			}}},
		},
	}
}

type aidSource struct{}

func (aidSource) FetchGeo(context.Context) (*domain.FeatureCollection, error) {
	return &domain.FeatureCollection{Features: []domain.Feature{
		square(map[string]any{"name": "India"}, 0, 0),
		square(map[string]any{"name": "Japan"}, 20, 0),
	}}, nil
}

func (aidSource) FetchTransactions(context.Context) ([]domain.AidTransaction, error) {
	return []domain.AidTransaction{
		{Donor: "Japan", Recipient: "India", Year: 1990, Amount: 10},
		{Donor: "World Bank", Recipient: "India", Year: 1995, Amount: 50},
		{Donor: "India", Recipient: "Japan", Year: 2000, Amount: 1000},
	}, nil
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("load did not settle")
	}
}

func newAidPage(t *testing.T) *AidPage {
	t.Helper()
	s := store.NewAidStore(aidSource{}, zaptest.NewLogger(t))
	wait(t, s.Load(context.Background()))
	return NewAidPage(s, AidLayout{MapWidth: 300, TimelineWidth: 100, DetailWidth: 200, SeriesHeight: 125})
}

func TestAidPage_ViewAfterLoad(t *testing.T) {
	p := newAidPage(t)
	v := p.View()

	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
	assert.Equal(t, "$1,060", v.TotalInRange)
	assert.Len(t, v.Map.Symbols, 3)
	assert.Equal(t, []string{"1990", "1995", "2000"}, v.Timeline.Ticks)
	assert.Nil(t, v.Timeline.Handles)
	assert.Nil(t, v.Selected)
	assert.Nil(t, v.Hovered)
}

func TestAidPage_BrushDrivesEveryChart(t *testing.T) {
	p := newAidPage(t)
	p.Select("India")

	require.NoError(t, p.Brush(ChartTimeline, &domain.PixelSpan{Start: 60, End: 20}))
	v := p.View()

	assert.Equal(t, &domain.PeriodRange{Start: 1992, End: 1996}, v.Filter.PeriodRange)
	assert.Equal(t, &domain.PixelSpan{Start: 20, End: 60}, v.Filter.BrushSpan)
	assert.Equal(t, "$50", v.TotalInRange)
	assert.Equal(t, &domain.PixelSpan{Start: 20, End: 60}, v.Timeline.Handles)

	require.NotNil(t, v.Selected)
	assert.Equal(t, "$50", v.Selected.TotalReceived)
	assert.Equal(t, "$0", v.Selected.TotalDonated)
	s := v.Selected.Series.Handles
	require.NotNil(t, s)
	assert.InDelta(t, 40, s.Start, 1e-9)
	assert.InDelta(t, 120, s.End, 1e-9)
	require.Len(t, v.Selected.CrossTab.Labels, 1)
	assert.Equal(t, "World Bank", v.Selected.CrossTab.Labels[0].Row)
}

func TestAidPage_BrushOnSeriesAndClear(t *testing.T) {
	p := newAidPage(t)

	require.NoError(t, p.Brush(ChartSeries, &domain.PixelSpan{Start: 100, End: 200}))
	assert.Equal(t, &domain.PeriodRange{Start: 1995, End: 2000}, p.Store().Filter().PeriodRange)

	require.NoError(t, p.Brush(ChartTimeline, nil))
	assert.Nil(t, p.Store().Filter().PeriodRange)
	assert.Nil(t, p.Store().Filter().BrushSpan)

	assert.ErrorIs(t, p.Brush("pie", nil), ErrUnknownChart)
}

func TestAidPage_BrushBeforeLoadLeavesFilterUnset(t *testing.T) {
	s := store.NewAidStore(aidSource{}, zaptest.NewLogger(t))
	p := NewAidPage(s, AidLayout{MapWidth: 300, TimelineWidth: 100, DetailWidth: 200, SeriesHeight: 125})

	require.NoError(t, p.Brush(ChartTimeline, &domain.PixelSpan{Start: 10, End: 50}))
	require.NoError(t, p.Brush(ChartSeries, &domain.PixelSpan{Start: 10, End: 50}))
	assert.Nil(t, s.Filter().PeriodRange)
	assert.Nil(t, s.Filter().BrushSpan)

	wait(t, s.Load(context.Background()))
	assert.Nil(t, s.Filter().PeriodRange)
	assert.Equal(t, "$1,060", p.View().TotalInRange)
}

func TestAidPage_HoverTooltip(t *testing.T) {
	p := newAidPage(t)
	p.Hover("Japan")

	v := p.View()
	require.NotNil(t, v.Hovered)
	assert.Equal(t, Tooltip{Title: "Japan", Lines: []TooltipLine{
		{Label: chart.FlowDonated, Value: "$10"},
		{Label: chart.FlowReceived, Value: "$1,000"},
	}}, *v.Hovered)
}

type electionSource struct{}

func (electionSource) FetchGeo(context.Context) (*domain.FeatureCollection, error) {
	return &domain.FeatureCollection{Features: []domain.Feature{
		square(map[string]any{"ST_CODE": "S01", "PC_No": "01"}, 70, 10),
		square(map[string]any{"ST_CODE": "S02", "PC_No": "01"}, 80, 10),
	}}, nil
}

func (electionSource) FetchConstituencies(context.Context) ([]domain.Constituency, error) {
	return []domain.Constituency{
		{ID: "S0101", Name: "North", StateOrUT: "S01"},
		{ID: "S0201", Name: "East", StateOrUT: "S02"},
	}, nil
}

func (electionSource) FetchResults(context.Context) ([]domain.ConstituencyResult, error) {
	return []domain.ConstituencyResult{
		{ConstituencyID: "S0101", CandidateName: "A", PartyName: "Alpha", TotalVotes: 600},
		{ConstituencyID: "S0101", CandidateName: "B", PartyName: "Beta", TotalVotes: 400},
		{ConstituencyID: "S0201", CandidateName: "C", PartyName: "Beta", TotalVotes: 900},
	}, nil
}

func newElectionPage(t *testing.T) *ElectionPage {
	t.Helper()
	s := store.NewElectionStore(electionSource{}, zaptest.NewLogger(t))
	wait(t, s.Load(context.Background()))
	return NewElectionPage(s, ElectionLayout{MapWidth: 200})
}

func TestElectionPage_View(t *testing.T) {
	v := newElectionPage(t).View()

	assert.False(t, v.Loading)
	assert.Equal(t, 200.0, v.Map.Height)
	assert.Len(t, v.Map.Shapes, 2)
	assert.Equal(t, chart.Identity, v.Transform)
	require.Len(t, v.Seats.Arcs, 2)
	assert.Empty(t, v.Unmatched)
	assert.Nil(t, v.Selected)
}

func TestElectionPage_HoverPartyDimsDonutsAndMap(t *testing.T) {
	p := newElectionPage(t)
	p.HoverParties([]string{"Beta"})

	v := p.View()
	for _, arc := range v.VoteShares.Arcs {
		if arc.Label == "Beta" {
			assert.Equal(t, chart.OpacityHighlight, arc.Opacity)
		} else {
			assert.Equal(t, chart.OpacityDimmed, arc.Opacity)
		}
	}
	opacity := map[string]float64{}
	for _, s := range v.Map.Shapes {
		opacity[s.Key] = s.Opacity
	}
	assert.Equal(t, map[string]float64{"S0101": chart.OpacityMapDimmed, "S0201": chart.OpacityHighlight}, opacity)
}

func TestElectionPage_HoverFeatureEmphasisesState(t *testing.T) {
	p := newElectionPage(t)
	p.HoverFeature("S0101")

	assert.Equal(t, "S01", p.Store().HoveredState())
	v := p.View()
	require.NotNil(t, v.Hovered)
	assert.Equal(t, "North", v.Hovered.Title)
	last := v.Map.Shapes[len(v.Map.Shapes)-1]
	assert.Equal(t, "S0101", last.Key)
	assert.True(t, last.Hovered)

	p.HoverFeature("")
	assert.Empty(t, p.Store().HoveredState())
	assert.Nil(t, p.View().Hovered)
}

func TestElectionPage_HoverFeaturePublishesEachMove(t *testing.T) {
	p := newElectionPage(t)

	calls := 0
	defer p.Store().Subscribe(func(store.Topic) { calls++ })()

	p.HoverFeature("S0101")
	p.HoverFeature("S0201")
	p.HoverFeature("S0201")
	assert.Equal(t, 2, calls)

	v := p.View()
	require.NotNil(t, v.Hovered)
	assert.Equal(t, "East", v.Hovered.Title)
	assert.Equal(t, "S0201", p.Store().HoveredFeature())
}

func TestElectionPage_EmptyPartyHoverKeepsMapLit(t *testing.T) {
	p := newElectionPage(t)
	p.HoverParties([]string{})

	assert.Nil(t, p.Store().HighlightedConstituencies())
	for _, s := range p.View().Map.Shapes {
		assert.Equal(t, chart.OpacityHighlight, s.Opacity, s.Key)
	}
}

func TestElectionPage_SelectedDetail(t *testing.T) {
	p := newElectionPage(t)
	p.Select("S0101")

	d := p.View().Selected
	require.NotNil(t, d)
	assert.Equal(t, "North", d.Name)
	assert.Equal(t, "1,000", d.TotalVotes)
	require.Len(t, d.Candidates.Bars, 2)
	assert.Equal(t, "A", d.Candidates.Bars[0].Label)
	require.Len(t, d.Tooltips, 2)
	assert.Equal(t, TooltipLine{Label: "share", Value: "60.00%"}, d.Tooltips[0].Lines[2])

	p.Select("S0101")
	assert.Nil(t, p.View().Selected)
}

func TestElectionPage_ZoomIsConstrained(t *testing.T) {
	p := newElectionPage(t)

	assert.Equal(t, chart.Transform{K: 2, X: -100, Y: -100}, p.Zoom(2, chart.Point{X: 100, Y: 100}))
	assert.Equal(t, chart.Transform{K: 2, X: 0, Y: -100}, p.Pan(500, 0))
	assert.Equal(t, chart.Identity, p.ResetZoom())
}
