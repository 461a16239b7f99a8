package aggregate

import (
	"sort"

	"github.com/vanshika/vizdash/internal/domain"
)

// SafeShare divides part by total, substituting 1 for a zero total so the
// result is always finite.
func SafeShare(part, total float64) float64 {
	if total == 0 {
		total = 1
	}
	return part / total
}

// ConstituenciesByID indexes constituencies by id. Later rows win on duplicate ids.
func ConstituenciesByID(constituencies []domain.Constituency) map[string]domain.Constituency {
	byID := make(map[string]domain.Constituency, len(constituencies))
	for _, c := range constituencies {
		byID[c.ID] = c
	}
	return byID
}

// ConstituenciesByState groups constituency ids by state or UT code,
// preserving input order inside each state.
func ConstituenciesByState(constituencies []domain.Constituency) map[string][]string {
	byState := make(map[string][]string)
	for _, c := range constituencies {
		byState[c.StateOrUT] = append(byState[c.StateOrUT], c.ID)
	}
	return byState
}

// ResultsByConstituency groups results per constituency, each group sorted by
// total votes descending. Ties keep source order.
func ResultsByConstituency(results []domain.ConstituencyResult) map[string][]domain.ConstituencyResult {
	grouped := make(map[string][]domain.ConstituencyResult)
	for _, r := range results {
		grouped[r.ConstituencyID] = append(grouped[r.ConstituencyID], r)
	}
	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].TotalVotes > group[j].TotalVotes
		})
	}
	return grouped
}

// Winners picks the first result of every sorted constituency group.
func Winners(grouped map[string][]domain.ConstituencyResult) map[string]domain.ConstituencyResult {
	winners := make(map[string]domain.ConstituencyResult, len(grouped))
	for id, group := range grouped {
		if len(group) == 0 {
			continue
		}
		winners[id] = group[0]
	}
	return winners
}

// TotalVotesByParty sums total votes per party, ordered by votes descending
// then party name.
func TotalVotesByParty(results []domain.ConstituencyResult) []domain.PartyVotes {
	perParty := make(map[string]float64)
	for _, r := range results {
		perParty[r.PartyName] += r.TotalVotes
	}
	out := make([]domain.PartyVotes, 0, len(perParty))
	for party, votes := range perParty {
		out = append(out, domain.PartyVotes{Party: party, Votes: votes})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Votes != out[j].Votes {
			return out[i].Votes > out[j].Votes
		}
		return out[i].Party < out[j].Party
	})
	return out
}

// SeatsByParty counts constituencies won per party, ordered by seats
// descending then party name.
func SeatsByParty(winners map[string]domain.ConstituencyResult) []domain.PartySeats {
	perParty := make(map[string]int)
	for _, w := range winners {
		perParty[w.PartyName]++
	}
	out := make([]domain.PartySeats, 0, len(perParty))
	for party, seats := range perParty {
		out = append(out, domain.PartySeats{Party: party, Seats: seats})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seats != out[j].Seats {
			return out[i].Seats > out[j].Seats
		}
		return out[i].Party < out[j].Party
	})
	return out
}

// VoteShares converts party vote totals into percentages of all votes.
func VoteShares(votes []domain.PartyVotes) []domain.PartyShare {
	var total float64
	for _, v := range votes {
		total += v.Votes
	}
	out := make([]domain.PartyShare, 0, len(votes))
	for _, v := range votes {
		out = append(out, domain.PartyShare{Party: v.Party, Percent: SafeShare(v.Votes, total) * 100})
	}
	return out
}

// CandidateShares computes each result's fraction of the constituency's votes.
func CandidateShares(results []domain.ConstituencyResult) ([]domain.CandidateShare, float64) {
	var total float64
	for _, r := range results {
		total += r.TotalVotes
	}
	out := make([]domain.CandidateShare, 0, len(results))
	for _, r := range results {
		out = append(out, domain.CandidateShare{Result: r, Share: SafeShare(r.TotalVotes, total)})
	}
	return out, total
}

// ConstituenciesWonBy returns the ids of constituencies whose winner belongs
// to one of parties.
func ConstituenciesWonBy(winners map[string]domain.ConstituencyResult, parties []string) map[string]struct{} {
	wanted := make(map[string]struct{}, len(parties))
	for _, p := range parties {
		wanted[p] = struct{}{}
	}
	ids := make(map[string]struct{})
	for id, w := range winners {
		if _, ok := wanted[w.PartyName]; ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// UnmatchedFeatureKeys lists constituency keys of map features that have no
// constituency row, in feature order.
func UnmatchedFeatureKeys(fc *domain.FeatureCollection, byID map[string]domain.Constituency) []string {
	out := make([]string, 0)
	if fc == nil {
		return out
	}
	for _, f := range fc.Features {
		key := f.ConstituencyKey()
		if _, ok := byID[key]; !ok {
			out = append(out, key)
		}
	}
	return out
}
