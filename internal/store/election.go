package store

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vanshika/vizdash/internal/aggregate"
	"github.com/vanshika/vizdash/internal/datasource"
	"github.com/vanshika/vizdash/internal/domain"
	"github.com/vanshika/vizdash/internal/reactive"
)

// MsgDataLoadFailed is surfaced when the constituency tables fail to load.
const MsgDataLoadFailed = "Failed to load data"

// Source name of the joined constituency and result tables.
const sourceTables = "tables"

// ElectionStatus reports the load state of the election sources.
type ElectionStatus struct {
	Map    SourceStatus `json:"map"`
	Tables SourceStatus `json:"tables"`
}

type tables struct {
	constituencies []domain.Constituency
	results        []domain.ConstituencyResult
}

// ElectionStore is the state of the election results page.
type ElectionStore struct {
	core
	src datasource.ElectionSource

	geoSource   *source
	tableSource *source

	geo            *reactive.Signal[*domain.FeatureCollection]
	constituencies *reactive.Signal[[]domain.Constituency]
	results        *reactive.Signal[[]domain.ConstituencyResult]
	selected       *reactive.Signal[string]
	hoveredParties *reactive.Signal[[]string]
	hoveredState   *reactive.Signal[string]
	hoveredFeature *reactive.Signal[string]

	byID         *reactive.Computed[map[string]domain.Constituency]
	byState      *reactive.Computed[map[string][]string]
	grouped      *reactive.Computed[map[string][]domain.ConstituencyResult]
	winners      *reactive.Computed[map[string]domain.ConstituencyResult]
	votesByParty *reactive.Computed[[]domain.PartyVotes]
	seatsByParty *reactive.Computed[[]domain.PartySeats]
	voteShares   *reactive.Computed[[]domain.PartyShare]
	unmatched    *reactive.Computed[[]string]
	highlighted  *reactive.Computed[map[string]struct{}]
	detail       *reactive.Computed[*domain.ConstituencyDetail]
	totalVotes   *reactive.Computed[float64]
}

// NewElectionStore builds an empty store over src.
func NewElectionStore(src datasource.ElectionSource, logger *zap.Logger) *ElectionStore {
	s := &ElectionStore{
		core:        newCore(logger, "store.election"),
		src:         src,
		geoSource:   newSource(datasource.SourceConstituencyGeo, MsgMapLoadFailed),
		tableSource: newSource(sourceTables, MsgDataLoadFailed),

		geo:            reactive.NewSignal[*domain.FeatureCollection](nil, nil),
		constituencies: reactive.NewSignal[[]domain.Constituency](nil, nil),
		results:        reactive.NewSignal[[]domain.ConstituencyResult](nil, nil),
		selected:       reactive.NewSignal("", equalString),
		hoveredParties: reactive.NewSignal[[]string](nil, equalParties),
		hoveredState:   reactive.NewSignal("", equalString),
		hoveredFeature: reactive.NewSignal("", equalString),
	}

	s.byID = reactive.NewComputed(func() map[string]domain.Constituency {
		return aggregate.ConstituenciesByID(s.constituencies.Get())
	}, s.constituencies)

	s.byState = reactive.NewComputed(func() map[string][]string {
		return aggregate.ConstituenciesByState(s.constituencies.Get())
	}, s.constituencies)

	s.grouped = reactive.NewComputed(func() map[string][]domain.ConstituencyResult {
		return aggregate.ResultsByConstituency(s.results.Get())
	}, s.results)

	s.winners = reactive.NewComputed(func() map[string]domain.ConstituencyResult {
		return aggregate.Winners(s.grouped.Get())
	}, s.grouped)

	s.votesByParty = reactive.NewComputed(func() []domain.PartyVotes {
		return aggregate.TotalVotesByParty(s.results.Get())
	}, s.results)

	s.seatsByParty = reactive.NewComputed(func() []domain.PartySeats {
		return aggregate.SeatsByParty(s.winners.Get())
	}, s.winners)

	s.voteShares = reactive.NewComputed(func() []domain.PartyShare {
		return aggregate.VoteShares(s.votesByParty.Get())
	}, s.votesByParty)

	s.unmatched = reactive.NewComputed(func() []string {
		return aggregate.UnmatchedFeatureKeys(s.geo.Get(), s.byID.Get())
	}, s.geo, s.byID)

	s.highlighted = reactive.NewComputed(func() map[string]struct{} {
		parties := s.hoveredParties.Get()
		if len(parties) == 0 {
			return nil
		}
		return aggregate.ConstituenciesWonBy(s.winners.Get(), parties)
	}, s.hoveredParties, s.winners)

	s.detail = reactive.NewComputed(func() *domain.ConstituencyDetail {
		id := s.selected.Get()
		if id == "" {
			return nil
		}
		c, ok := s.byID.Get()[id]
		if !ok {
			return nil
		}
		shares, total := aggregate.CandidateShares(s.grouped.Get()[id])
		return &domain.ConstituencyDetail{Constituency: c, Results: shares, TotalVotes: total}
	}, s.selected, s.byID, s.grouped)

	s.totalVotes = reactive.NewComputed(func() float64 {
		var total float64
		for _, v := range s.votesByParty.Get() {
			total += v.Votes
		}
		return total
	}, s.votesByParty)

	return s
}

// Load fetches the constituency map and, concurrently, both constituency
// tables. The tables are applied together or not at all.
func (s *ElectionStore) Load(ctx context.Context) <-chan struct{} {
	var wg sync.WaitGroup
	load(&s.core, s.geoSource, ctx, &wg, s.src.FetchGeo, func(fc *domain.FeatureCollection) Topic {
		s.geo.Set(fc)
		return TopicGeo
	})
	load(&s.core, s.tableSource, ctx, &wg, s.fetchTables, func(t tables) Topic {
		s.constituencies.Set(t.constituencies)
		s.results.Set(t.results)
		return TopicData
	})
	return waitAll(&wg)
}

func (s *ElectionStore) fetchTables(ctx context.Context) (tables, error) {
	var t tables
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t.constituencies, err = s.src.FetchConstituencies(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		t.results, err = s.src.FetchResults(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return tables{}, err
	}
	return t, nil
}

// ElectionTx stages interaction changes applied together by Update.
type ElectionTx struct {
	s       *ElectionStore
	changed Topic
}

// SetSelectedConstituency selects id, or clears the selection when id is
// already selected.
func (tx *ElectionTx) SetSelectedConstituency(id string) {
	if id == tx.s.selected.Get() {
		id = ""
	}
	if tx.s.selected.Set(id) {
		tx.changed |= TopicSelection
	}
}

// SetHoveredParties marks the parties under the pointer. Nil or empty
// clears the hover.
func (tx *ElectionTx) SetHoveredParties(parties []string) {
	if len(parties) == 0 {
		parties = nil
	} else {
		parties = slices.Clone(parties)
	}
	if tx.s.hoveredParties.Set(parties) {
		tx.changed |= TopicSelection
	}
}

// SetHoveredState marks the state or UT under the pointer. Empty clears it.
func (tx *ElectionTx) SetHoveredState(code string) {
	if tx.s.hoveredState.Set(code) {
		tx.changed |= TopicSelection
	}
}

// SetHoveredFeature marks the map feature under the pointer and emphasises
// the state it belongs to. Empty clears both.
func (tx *ElectionTx) SetHoveredFeature(key string) {
	if tx.s.hoveredFeature.Set(key) {
		tx.changed |= TopicSelection
	}
	state := ""
	if c, ok := tx.s.byID.Get()[key]; ok {
		state = c.StateOrUT
	}
	tx.SetHoveredState(state)
}

// Update applies fn atomically and notifies subscribers once.
func (s *ElectionStore) Update(fn func(tx *ElectionTx)) {
	s.mutate(func() Topic {
		tx := &ElectionTx{s: s}
		fn(tx)
		return tx.changed
	})
}

// SetSelectedConstituency toggles the selected constituency.
func (s *ElectionStore) SetSelectedConstituency(id string) {
	s.Update(func(tx *ElectionTx) { tx.SetSelectedConstituency(id) })
}

// SetHoveredParties marks the hovered parties.
func (s *ElectionStore) SetHoveredParties(parties []string) {
	s.Update(func(tx *ElectionTx) { tx.SetHoveredParties(parties) })
}

// SetHoveredState marks the hovered state or UT.
func (s *ElectionStore) SetHoveredState(code string) {
	s.Update(func(tx *ElectionTx) { tx.SetHoveredState(code) })
}

// SetHoveredFeature marks the hovered map feature and its state.
func (s *ElectionStore) SetHoveredFeature(key string) {
	s.Update(func(tx *ElectionTx) { tx.SetHoveredFeature(key) })
}

// Status reports the load state of each source.
func (s *ElectionStore) Status() ElectionStatus {
	return read(&s.core, func() ElectionStatus {
		return ElectionStatus{Map: s.geoSource.status.Get(), Tables: s.tableSource.status.Get()}
	})
}

// Loading reports whether any source is loading.
func (s *ElectionStore) Loading() bool {
	st := s.Status()
	return st.Map.Loading || st.Tables.Loading
}

// Error returns the first source error message, or "".
func (s *ElectionStore) Error() string {
	st := s.Status()
	if st.Map.Error != "" {
		return st.Map.Error
	}
	return st.Tables.Error
}

// SelectedConstituency returns the selected constituency id, or "".
func (s *ElectionStore) SelectedConstituency() string {
	return read(&s.core, s.selected.Get)
}

// HoveredParties returns a copy of the hovered parties.
func (s *ElectionStore) HoveredParties() []string {
	return read(&s.core, func() []string { return slices.Clone(s.hoveredParties.Get()) })
}

// HoveredState returns the hovered state or UT code.
func (s *ElectionStore) HoveredState() string {
	return read(&s.core, s.hoveredState.Get)
}

// HoveredFeature returns the key of the hovered map feature.
func (s *ElectionStore) HoveredFeature() string {
	return read(&s.core, s.hoveredFeature.Get)
}

// Geo returns the constituency map.
func (s *ElectionStore) Geo() *domain.FeatureCollection {
	return read(&s.core, s.geo.Get)
}

// Constituencies returns the constituency rows.
func (s *ElectionStore) Constituencies() []domain.Constituency {
	return read(&s.core, s.constituencies.Get)
}

// Results returns the candidate result rows.
func (s *ElectionStore) Results() []domain.ConstituencyResult {
	return read(&s.core, s.results.Get)
}

// ConstituenciesByID indexes constituencies by id.
func (s *ElectionStore) ConstituenciesByID() map[string]domain.Constituency {
	return read(&s.core, s.byID.Get)
}

// ConstituenciesByState lists constituency ids per state or UT.
func (s *ElectionStore) ConstituenciesByState() map[string][]string {
	return read(&s.core, s.byState.Get)
}

// ResultsByConstituency groups results per constituency, best first.
func (s *ElectionStore) ResultsByConstituency() map[string][]domain.ConstituencyResult {
	return read(&s.core, s.grouped.Get)
}

// Winners maps each constituency to its leading candidate.
func (s *ElectionStore) Winners() map[string]domain.ConstituencyResult {
	return read(&s.core, s.winners.Get)
}

// TotalVotesByParty sums votes per party, largest first.
func (s *ElectionStore) TotalVotesByParty() []domain.PartyVotes {
	return read(&s.core, s.votesByParty.Get)
}

// SeatsByParty counts seats won per party.
func (s *ElectionStore) SeatsByParty() []domain.PartySeats {
	return read(&s.core, s.seatsByParty.Get)
}

// VoteShares is each party's percentage of all votes.
func (s *ElectionStore) VoteShares() []domain.PartyShare {
	return read(&s.core, s.voteShares.Get)
}

// TotalVotes sums every candidate's votes.
func (s *ElectionStore) TotalVotes() float64 {
	return read(&s.core, s.totalVotes.Get)
}

// UnmatchedFeatureKeys lists map features with no constituency row.
func (s *ElectionStore) UnmatchedFeatureKeys() []string {
	return read(&s.core, s.unmatched.Get)
}

// HighlightedConstituencies returns the constituencies won by a hovered
// party, or nil when no party is hovered.
func (s *ElectionStore) HighlightedConstituencies() map[string]struct{} {
	return read(&s.core, s.highlighted.Get)
}

// SelectedDetail returns the selected constituency with its candidate
// shares, or nil.
func (s *ElectionStore) SelectedDetail() *domain.ConstituencyDetail {
	return read(&s.core, s.detail.Get)
}

func equalParties(a, b []string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return slices.Equal(a, b)
}

// ElectionSnapshot is every view of an ElectionStore taken under one lock.
type ElectionSnapshot struct {
	Status         ElectionStatus
	Selected       string
	HoveredParties []string
	HoveredState   string
	HoveredFeature string
	Geo            *domain.FeatureCollection
	ByID           map[string]domain.Constituency
	Winners        map[string]domain.ConstituencyResult
	VotesByParty   []domain.PartyVotes
	SeatsByParty   []domain.PartySeats
	VoteShares     []domain.PartyShare
	TotalVotes     float64
	Unmatched      []string
	Highlighted    map[string]struct{}
	Detail         *domain.ConstituencyDetail
}

// Snapshot returns a consistent view of the store.
func (s *ElectionStore) Snapshot() ElectionSnapshot {
	return read(&s.core, func() ElectionSnapshot {
		return ElectionSnapshot{
			Status:         ElectionStatus{Map: s.geoSource.status.Get(), Tables: s.tableSource.status.Get()},
			Selected:       s.selected.Get(),
			HoveredParties: slices.Clone(s.hoveredParties.Get()),
			HoveredState:   s.hoveredState.Get(),
			HoveredFeature: s.hoveredFeature.Get(),
			Geo:            s.geo.Get(),
			ByID:           s.byID.Get(),
			Winners:        s.winners.Get(),
			VotesByParty:   s.votesByParty.Get(),
			SeatsByParty:   s.seatsByParty.Get(),
			VoteShares:     s.voteShares.Get(),
			TotalVotes:     s.totalVotes.Get(),
			Unmatched:      s.unmatched.Get(),
			Highlighted:    s.highlighted.Get(),
			Detail:         s.detail.Get(),
		}
	})
}
