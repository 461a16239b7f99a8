package dashboard

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/vanshika/vizdash/internal/chart"
	"github.com/vanshika/vizdash/internal/domain"
	"github.com/vanshika/vizdash/internal/format"
	"github.com/vanshika/vizdash/internal/store"
)

// Brushable charts of the aid page.
const (
	ChartTimeline = "timeline"
	ChartSeries   = "series"
)

// ErrUnknownChart is returned for interactions naming a chart the page does
// not have.
var ErrUnknownChart = errors.New("unknown chart")

// AidLayout holds the pixel widths the renderer gives each aid chart.
type AidLayout struct {
	MapWidth      float64 `json:"mapWidth" validate:"gte=0"`
	TimelineWidth float64 `json:"timelineWidth" validate:"gte=0"`
	DetailWidth   float64 `json:"detailWidth" validate:"gte=0"`
	SeriesHeight  float64 `json:"seriesHeight" validate:"gte=0"`
}

// DefaultAidLayout is used until the renderer reports its size.
var DefaultAidLayout = AidLayout{MapWidth: 960, TimelineWidth: 960, DetailWidth: 400, SeriesHeight: 150}

// AidPage binds an AidStore to the aid page charts. Both brushable charts
// write the same year range; each positions its handles from that range.
type AidPage struct {
	store *store.AidStore

	mu       sync.Mutex
	layout   AidLayout
	timeline *chart.Brush
	series   *chart.Brush
}

// NewAidPage builds a page over s.
func NewAidPage(s *store.AidStore, layout AidLayout) *AidPage {
	p := &AidPage{store: s, layout: layout}
	p.timeline = chart.NewBrush(s, chart.LinearScale{})
	p.series = chart.NewBrush(s, chart.LinearScale{})
	return p
}

// Store returns the page's store.
func (p *AidPage) Store() *store.AidStore {
	return p.store
}

// Resize replaces the chart widths.
func (p *AidPage) Resize(layout AidLayout) {
	p.mu.Lock()
	p.layout = layout
	p.mu.Unlock()
}

// Layout returns the current chart widths.
func (p *AidPage) Layout() AidLayout {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.layout
}

// Brush applies a brush gesture made on the named chart. A nil span clears
// the filter. A span drawn before the chart has any years is ignored.
func (p *AidPage) Brush(chartName string, span *domain.PixelSpan) error {
	snap := p.store.Snapshot()
	p.mu.Lock()
	b, err := p.brush(chartName, snap)
	var scale chart.LinearScale
	if err == nil {
		scale = b.Scale()
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}
	if span != nil && !hasYears(chartName, snap) {
		return nil
	}
	// Subscribers may read the page, so the store is updated unlocked.
	chart.NewBrush(p.store, scale).Move(span)
	return nil
}

func (p *AidPage) brush(chartName string, snap store.AidSnapshot) (*chart.Brush, error) {
	switch chartName {
	case ChartTimeline:
		p.timeline.Rescale(chart.LayoutTimeline(snap.Periods, p.layout.TimelineWidth).X)
		return p.timeline, nil
	case ChartSeries:
		p.series.Rescale(chart.LayoutSeries(nil, snap.Bounds, p.layout.DetailWidth, p.layout.SeriesHeight).X)
		return p.series, nil
	}
	return nil, errors.Wrapf(ErrUnknownChart, "%q", chartName)
}

func hasYears(chartName string, snap store.AidSnapshot) bool {
	if chartName == ChartSeries {
		return snap.Bounds != (domain.PeriodRange{})
	}
	return len(snap.Periods) > 0
}

// Select toggles the selected entity.
func (p *AidPage) Select(entity string) {
	p.store.SetSelectedEntity(entity)
}

// Hover marks the entity under the pointer. Empty clears it.
func (p *AidPage) Hover(entity string) {
	p.store.SetHoveredEntity(entity)
}

// TimelineView is the brushable chart of yearly totals.
type TimelineView struct {
	chart.LineChart
	Handles *domain.PixelSpan `json:"handles"`
	Ticks   []string          `json:"ticks"`
}

// EntityView details the selected entity.
type EntityView struct {
	Name          string            `json:"name"`
	TotalDonated  string            `json:"totalDonated"`
	TotalReceived string            `json:"totalReceived"`
	Symbol        []chart.Sector    `json:"symbol"`
	CrossTab      chart.StackedBars `json:"crossTab"`
	CrossTabTicks []string          `json:"crossTabTicks"`
	Tooltips      []Tooltip         `json:"tooltips"`
	Series        TimelineView      `json:"series"`
}

// AidView is everything the aid page renders.
type AidView struct {
	Status       store.AidStatus    `json:"status"`
	Loading      bool               `json:"loading"`
	Error        string             `json:"error,omitempty"`
	Filter       domain.FilterState `json:"filter"`
	TotalInRange string             `json:"totalInRange"`
	Map          chart.AidMap       `json:"map"`
	Timeline     TimelineView       `json:"timeline"`
	Hovered      *Tooltip           `json:"hovered,omitempty"`
	Selected     *EntityView        `json:"selected,omitempty"`
}

// View lays out every aid chart from one store snapshot.
func (p *AidPage) View() AidView {
	snap := p.store.Snapshot()
	p.mu.Lock()
	defer p.mu.Unlock()

	v := AidView{
		Status:       snap.Status,
		Loading:      snap.Status.Map.Loading || snap.Status.Transactions.Loading,
		Error:        firstError(snap.Status.Map, snap.Status.Transactions),
		Filter:       snap.Filter,
		TotalInRange: format.Currency(snap.TotalInRange),
		Map: chart.LayoutAidMap(chart.AidMapInput{
			Geo:           snap.Geo,
			Aggregates:    snap.Aggregates,
			Organizations: snap.Organizations,
			Selected:      snap.Filter.SelectedEntity,
			Hovered:       snap.Hovered,
			Width:         p.layout.MapWidth,
		}),
	}

	timeline := chart.LayoutTimeline(snap.Periods, p.layout.TimelineWidth)
	p.timeline.Rescale(timeline.X)
	v.Timeline = TimelineView{
		LineChart: timeline,
		Handles:   p.timeline.Handles(snap.Filter.PeriodRange),
		Ticks:     yearTicks(timeline.XTicks),
	}

	if agg, ok := snap.Aggregates[snap.Hovered]; ok {
		t := entityTooltip(agg)
		v.Hovered = &t
	}
	if snap.Selected != nil {
		v.Selected = p.entityView(snap)
	}
	return v
}

func (p *AidPage) entityView(snap store.AidSnapshot) *EntityView {
	agg := snap.Selected
	crossTab := chart.LayoutCrossTab(snap.CrossTab, p.layout.DetailWidth)
	series := chart.LayoutSeries(snap.Series, snap.Bounds, p.layout.DetailWidth, p.layout.SeriesHeight)
	p.series.Rescale(series.X)

	tooltips := make([]Tooltip, 0, len(crossTab.Rects))
	for _, r := range crossTab.Rects {
		tooltips = append(tooltips, Tooltip{
			Title: r.Row,
			Lines: []TooltipLine{{Label: r.Key, Value: format.Currency(r.Value)}},
		})
	}
	return &EntityView{
		Name:          agg.Name,
		TotalDonated:  format.Currency(agg.TotalDonated),
		TotalReceived: format.Currency(agg.TotalReceived),
		Symbol:        chart.SymbolSectors(*agg),
		CrossTab:      crossTab,
		CrossTabTicks: siTicks(crossTab.XTicks, 1),
		Tooltips:      tooltips,
		Series: TimelineView{
			LineChart: series,
			Handles:   p.series.Handles(snap.Filter.PeriodRange),
			Ticks:     yearTicks(series.XTicks),
		},
	}
}

func entityTooltip(agg *domain.EntityAggregate) Tooltip {
	return Tooltip{
		Title: agg.Name,
		Lines: []TooltipLine{
			{Label: chart.FlowDonated, Value: format.Currency(agg.TotalDonated)},
			{Label: chart.FlowReceived, Value: format.Currency(agg.TotalReceived)},
		},
	}
}

func firstError(statuses ...store.SourceStatus) string {
	for _, st := range statuses {
		if st.Error != "" {
			return st.Error
		}
	}
	return ""
}
