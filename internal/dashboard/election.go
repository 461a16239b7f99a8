package dashboard

import (
	"sync"

	"github.com/vanshika/vizdash/internal/chart"
	"github.com/vanshika/vizdash/internal/domain"
	"github.com/vanshika/vizdash/internal/format"
	"github.com/vanshika/vizdash/internal/store"
)

// ElectionLayout holds the pixel size the renderer gives the map.
type ElectionLayout struct {
	MapWidth float64 `json:"mapWidth" validate:"gte=0"`
}

// DefaultElectionLayout is used until the renderer reports its size.
var DefaultElectionLayout = ElectionLayout{MapWidth: 600}

var (
	seatAccessors = chart.Accessors[domain.PartySeats]{
		Value: func(s domain.PartySeats) float64 { return float64(s.Seats) },
		Label: func(s domain.PartySeats) string { return s.Party },
		Color: func(s domain.PartySeats) string { return chart.PartyColor(s.Party) },
	}
	shareAccessors = chart.Accessors[domain.PartyShare]{
		Value: func(s domain.PartyShare) float64 { return s.Percent },
		Label: func(s domain.PartyShare) string { return s.Party },
		Color: func(s domain.PartyShare) string { return chart.PartyColor(s.Party) },
	}
	candidateAccessors = chart.Accessors[domain.CandidateShare]{
		Value: func(c domain.CandidateShare) float64 { return c.Share },
		Label: func(c domain.CandidateShare) string { return c.Result.PartyName },
		Color: func(c domain.CandidateShare) string { return chart.PartyColor(c.Result.PartyName) },
	}
	candidateVoteAccessors = chart.Accessors[domain.CandidateShare]{
		Value: func(c domain.CandidateShare) float64 { return c.Result.TotalVotes },
		Label: func(c domain.CandidateShare) string { return c.Result.CandidateName },
		Color: func(c domain.CandidateShare) string { return chart.PartyColor(c.Result.PartyName) },
	}
)

// ElectionPage binds an ElectionStore to the election page charts.
type ElectionPage struct {
	store *store.ElectionStore

	mu     sync.Mutex
	layout ElectionLayout
	zoom   *chart.Zoom
}

// NewElectionPage builds a page over s.
func NewElectionPage(s *store.ElectionStore, layout ElectionLayout) *ElectionPage {
	return &ElectionPage{
		store:  s,
		layout: layout,
		zoom:   chart.NewZoom(layout.MapWidth, layout.MapWidth),
	}
}

// Store returns the page's store.
func (p *ElectionPage) Store() *store.ElectionStore {
	return p.store
}

// Resize changes the map size. The map stays square.
func (p *ElectionPage) Resize(layout ElectionLayout) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.layout = layout
	p.zoom.Resize(layout.MapWidth, layout.MapWidth)
}

// Layout returns the current map size.
func (p *ElectionPage) Layout() ElectionLayout {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.layout
}

// Select toggles the selected constituency.
func (p *ElectionPage) Select(id string) {
	p.store.SetSelectedConstituency(id)
}

// HoverParties highlights the constituencies won by parties. Nil clears
// the highlight.
func (p *ElectionPage) HoverParties(parties []string) {
	p.store.SetHoveredParties(parties)
}

// HoverFeature marks the map feature under the pointer and emphasises its
// state. An empty key clears both.
func (p *ElectionPage) HoverFeature(key string) {
	p.store.SetHoveredFeature(key)
}

// Zoom scales the map by factor around a view point.
func (p *ElectionPage) Zoom(factor float64, center chart.Point) chart.Transform {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.zoom.ScaleBy(factor, center)
}

// Pan shifts the map by view pixels.
func (p *ElectionPage) Pan(dx, dy float64) chart.Transform {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.zoom.Pan(dx, dy)
}

// ResetZoom returns the map to its initial view.
func (p *ElectionPage) ResetZoom() chart.Transform {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zoom.Reset()
	return p.zoom.Transform()
}

// DetailView describes the selected constituency.
type DetailView struct {
	ID         string                                      `json:"id"`
	Name       string                                      `json:"name"`
	StateOrUT  string                                      `json:"stateOrUT"`
	TotalVotes string                                      `json:"totalVotes"`
	Shares     chart.Donut[domain.CandidateShare]          `json:"shares"`
	Candidates chart.HorizontalBars[domain.CandidateShare] `json:"candidates"`
	Ticks      []string                                    `json:"ticks"`
	Tooltips   []Tooltip                                   `json:"tooltips"`
}

// ElectionView is everything the election page renders.
type ElectionView struct {
	Status     store.ElectionStatus           `json:"status"`
	Loading    bool                           `json:"loading"`
	Error      string                         `json:"error,omitempty"`
	Map        chart.ConstituencyMap          `json:"map"`
	Transform  chart.Transform                `json:"transform"`
	Seats      chart.Donut[domain.PartySeats] `json:"seats"`
	VoteShares chart.Donut[domain.PartyShare] `json:"voteShares"`
	Selected   *DetailView                    `json:"selected,omitempty"`
	Hovered    *Tooltip                       `json:"hovered,omitempty"`
	Unmatched  []string                       `json:"unmatched"`
}

// View lays out every election chart from one store snapshot.
func (p *ElectionPage) View() ElectionView {
	snap := p.store.Snapshot()
	p.mu.Lock()
	defer p.mu.Unlock()

	highlight := ""
	if len(snap.HoveredParties) == 1 {
		highlight = snap.HoveredParties[0]
	}
	v := ElectionView{
		Status:  snap.Status,
		Loading: snap.Status.Map.Loading || snap.Status.Tables.Loading,
		Error:   firstError(snap.Status.Map, snap.Status.Tables),
		Map: chart.LayoutConstituencyMap(chart.ConstituencyMapInput{
			Geo:            snap.Geo,
			ByID:           snap.ByID,
			Winners:        snap.Winners,
			Highlighted:    snap.Highlighted,
			HoveredState:   snap.HoveredState,
			HoveredFeature: snap.HoveredFeature,
			Width:          p.layout.MapWidth,
		}),
		Transform:  p.zoom.Transform(),
		Seats:      chart.LayoutDonut(snap.SeatsByParty, seatAccessors, highlight),
		VoteShares: chart.LayoutDonut(snap.VoteShares, shareAccessors, highlight),
		Unmatched:  snap.Unmatched,
	}
	if c, ok := snap.ByID[snap.HoveredFeature]; ok {
		t := constituencyTooltip(c, snap.Winners[c.ID])
		v.Hovered = &t
	}
	if snap.Detail != nil {
		v.Selected = detailView(snap.Detail)
	}
	return v
}

func detailView(d *domain.ConstituencyDetail) *DetailView {
	bars := chart.LayoutHorizontalBars(d.Results, candidateVoteAccessors, "")
	tooltips := make([]Tooltip, 0, len(d.Results))
	for _, r := range d.Results {
		tooltips = append(tooltips, Tooltip{
			Title: r.Result.CandidateName,
			Lines: []TooltipLine{
				{Label: "party", Value: r.Result.PartyName},
				{Label: "votes", Value: format.Count(r.Result.TotalVotes)},
				{Label: "share", Value: format.Percent(r.Share*100, 2)},
			},
		})
	}
	return &DetailView{
		ID:         d.Constituency.ID,
		Name:       d.Constituency.Name,
		StateOrUT:  d.Constituency.StateOrUT,
		TotalVotes: format.Count(d.TotalVotes),
		Shares:     chart.LayoutDonut(d.Results, candidateAccessors, ""),
		Candidates: bars,
		Ticks:      siTicks(bars.XTicks, 2),
		Tooltips:   tooltips,
	}
}

func constituencyTooltip(c domain.Constituency, winner domain.ConstituencyResult) Tooltip {
	t := Tooltip{Title: c.Name, Lines: []TooltipLine{{Label: "state", Value: c.StateOrUT}}}
	if winner.CandidateName != "" {
		t.Lines = append(t.Lines,
			TooltipLine{Label: "winner", Value: winner.CandidateName},
			TooltipLine{Label: "party", Value: winner.PartyName},
		)
	}
	return t
}
