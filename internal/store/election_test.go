package store

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vanshika/vizdash/internal/domain"
)

type stubElectionSource struct {
	geo            *domain.FeatureCollection
	constituencies []domain.Constituency
	results        []domain.ConstituencyResult
	geoErr         error
	resultsErr     error
}

func (s *stubElectionSource) FetchGeo(context.Context) (*domain.FeatureCollection, error) {
	return s.geo, s.geoErr
}

func (s *stubElectionSource) FetchConstituencies(context.Context) ([]domain.Constituency, error) {
	return s.constituencies, nil
}

func (s *stubElectionSource) FetchResults(context.Context) ([]domain.ConstituencyResult, error) {
	return s.results, s.resultsErr
}

func electionFixture() *stubElectionSource {
	return &stubElectionSource{
		geo: &domain.FeatureCollection{Features: []domain.Feature{
			{Properties: map[string]any{"ST_CODE": "S01", "PC_No": float64(1)}},
			{Properties: map[string]any{"ST_CODE": "S01", "PC_No": float64(2)}},
			{Properties: map[string]any{"ST_CODE": "U06", "PC_No": float64(1)}},
		}},
		constituencies: []domain.Constituency{
			{ID: "S011", Name: "North", StateOrUT: "S01"},
			{ID: "S012", Name: "South", StateOrUT: "S01"},
		},
		results: []domain.ConstituencyResult{
			{ConstituencyID: "S011", CandidateName: "A", PartyName: "Alpha", TotalVotes: 60},
			{ConstituencyID: "S011", CandidateName: "B", PartyName: "Beta", TotalVotes: 40},
			{ConstituencyID: "S012", CandidateName: "C", PartyName: "Beta", TotalVotes: 0},
		},
	}
}

func loadedElectionStore(t *testing.T, src *stubElectionSource) *ElectionStore {
	t.Helper()
	s := NewElectionStore(src, zaptest.NewLogger(t))
	waitDone(t, s.Load(context.Background()))
	return s
}

func TestElectionStore_Derived(t *testing.T) {
	s := loadedElectionStore(t, electionFixture())

	assert.Len(t, s.ConstituenciesByID(), 2)
	assert.Equal(t, []string{"S011", "S012"}, s.ConstituenciesByState()["S01"])
	assert.Equal(t, "A", s.Winners()["S011"].CandidateName)
	assert.Equal(t, []domain.PartySeats{{Party: "Alpha", Seats: 1}, {Party: "Beta", Seats: 1}}, s.SeatsByParty())
	assert.Equal(t, []domain.PartyVotes{{Party: "Alpha", Votes: 60}, {Party: "Beta", Votes: 40}}, s.TotalVotesByParty())
	assert.InDelta(t, 60, s.VoteShares()[0].Percent, 1e-9)
	assert.Equal(t, 100.0, s.TotalVotes())
	assert.Equal(t, []string{"U061"}, s.UnmatchedFeatureKeys())
	assert.Equal(t, ElectionStatus{}, s.Status())
}

func TestElectionStore_SelectedDetail(t *testing.T) {
	s := loadedElectionStore(t, electionFixture())
	assert.Nil(t, s.SelectedDetail())

	s.SetSelectedConstituency("S011")
	detail := s.SelectedDetail()
	require.NotNil(t, detail)
	assert.Equal(t, "North", detail.Constituency.Name)
	assert.Equal(t, 100.0, detail.TotalVotes)
	require.Len(t, detail.Results, 2)
	assert.InDelta(t, 0.6, detail.Results[0].Share, 1e-9)

	s.SetSelectedConstituency("S012")
	detail = s.SelectedDetail()
	require.NotNil(t, detail)
	assert.Equal(t, 0.0, detail.Results[0].Share, "zero total falls back to a denominator of one")

	s.SetSelectedConstituency("S012")
	assert.Empty(t, s.SelectedConstituency())
	assert.Nil(t, s.SelectedDetail())
}

func TestElectionStore_HoveredParties(t *testing.T) {
	s := loadedElectionStore(t, electionFixture())
	assert.Nil(t, s.HighlightedConstituencies())

	calls := 0
	defer s.Subscribe(func(Topic) { calls++ })()

	s.SetHoveredParties([]string{"Beta"})
	assert.Equal(t, map[string]struct{}{"S012": {}}, s.HighlightedConstituencies())
	s.SetHoveredParties([]string{"Beta"})
	assert.Equal(t, 1, calls)

	s.SetHoveredParties([]string{})
	assert.Nil(t, s.HighlightedConstituencies(), "an empty hover highlights nothing")
	assert.Nil(t, s.HoveredParties())
	assert.Equal(t, 2, calls)

	s.SetHoveredParties(nil)
	assert.Nil(t, s.HighlightedConstituencies())
	assert.Equal(t, 2, calls, "nil and empty are the same hover")
}

func TestElectionStore_HoveredFeatureNotifies(t *testing.T) {
	s := loadedElectionStore(t, electionFixture())

	var topics []Topic
	defer s.Subscribe(func(tp Topic) { topics = append(topics, tp) })()

	s.SetHoveredFeature("S011")
	assert.Equal(t, "S011", s.HoveredFeature())
	assert.Equal(t, "S01", s.HoveredState())

	s.SetHoveredFeature("S012")
	assert.Equal(t, "S012", s.HoveredFeature())
	assert.Equal(t, "S01", s.HoveredState())
	assert.Equal(t, []Topic{TopicSelection, TopicSelection}, topics, "moving within a state still notifies")

	s.SetHoveredFeature("S012")
	assert.Len(t, topics, 2)

	s.SetHoveredFeature("")
	assert.Empty(t, s.HoveredFeature())
	assert.Empty(t, s.HoveredState())
	assert.Len(t, topics, 3)
}

func TestElectionStore_HoveredState(t *testing.T) {
	s := NewElectionStore(electionFixture(), nil)
	s.SetHoveredState("S01")
	assert.Equal(t, "S01", s.HoveredState())
	s.SetHoveredState("")
	assert.Empty(t, s.HoveredState())
}

func TestElectionStore_TablesAreAllOrNothing(t *testing.T) {
	src := electionFixture()
	src.resultsErr = errors.New("timeout")
	s := loadedElectionStore(t, src)

	assert.Empty(t, s.Constituencies(), "constituencies are not applied without results")
	assert.Empty(t, s.Results())
	assert.NotNil(t, s.Geo())
	assert.Equal(t, MsgDataLoadFailed, s.Error())
	assert.False(t, s.Loading())
}

func TestElectionStore_MapFailureKeepsTables(t *testing.T) {
	src := electionFixture()
	src.geoErr = errors.New("bad json")
	s := loadedElectionStore(t, src)

	assert.Nil(t, s.Geo())
	assert.Len(t, s.Constituencies(), 2)
	assert.Equal(t, MsgMapLoadFailed, s.Status().Map.Error)
	assert.Empty(t, s.Status().Tables.Error)
	assert.Equal(t, []string{}, s.UnmatchedFeatureKeys())
}
