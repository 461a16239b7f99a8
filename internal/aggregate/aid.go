// Package aggregate derives grouped and filtered views from raw records.
// Every function is pure: inputs are never modified and results are freshly
// allocated on each call.
package aggregate

import (
	"sort"

	"github.com/vanshika/vizdash/internal/domain"
)

// GroupByEntity builds one aggregate per entity appearing as donor or
// recipient. A record is appended to both its donor's and its recipient's
// transaction list but only adds to TotalDonated on the donor side and to
// TotalReceived on the recipient side.
func GroupByEntity(records []domain.AidTransaction) map[string]*domain.EntityAggregate {
	byName := make(map[string]*domain.EntityAggregate)
	entry := func(name string) *domain.EntityAggregate {
		agg, ok := byName[name]
		if !ok {
			agg = &domain.EntityAggregate{Name: name}
			byName[name] = agg
		}
		return agg
	}

	for _, tx := range records {
		donor := entry(tx.Donor)
		donor.TotalDonated += tx.Amount
		donor.Transactions = append(donor.Transactions, tx)

		recipient := entry(tx.Recipient)
		recipient.TotalReceived += tx.Amount
		recipient.Transactions = append(recipient.Transactions, tx)
	}
	return byName
}

// AggregateByPeriod sums amounts per year, drops the sentinel year and
// returns the totals in ascending year order.
func AggregateByPeriod(records []domain.AidTransaction) []domain.PeriodAggregate {
	perYear := make(map[int]float64)
	for _, tx := range records {
		if !tx.ValidPeriod() {
			continue
		}
		perYear[tx.Year] += tx.Amount
	}
	return sortedPeriods(perYear)
}

// FilterByPeriodRange keeps records whose year lies in r, bounds included.
// A nil range returns records unchanged.
func FilterByPeriodRange(records []domain.AidTransaction, r *domain.PeriodRange) []domain.AidTransaction {
	if r == nil {
		return records
	}
	filtered := make([]domain.AidTransaction, 0, len(records))
	for _, tx := range records {
		if r.Contains(tx.Year) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// CrossTabulateForEntity buckets the focal entity's records by the other
// party. Records the focal entity received count as Received, records it
// donated count as Donated. The result is ordered by total volume descending,
// then by counterpart name.
func CrossTabulateForEntity(records []domain.AidTransaction, focal string) []domain.CounterpartTotal {
	byCounterpart := make(map[string]*domain.CounterpartTotal)
	bucket := func(name string) *domain.CounterpartTotal {
		ct, ok := byCounterpart[name]
		if !ok {
			ct = &domain.CounterpartTotal{Entity: name}
			byCounterpart[name] = ct
		}
		return ct
	}

	for _, tx := range records {
		switch focal {
		case tx.Donor:
			bucket(tx.Recipient).Donated += tx.Amount
		case tx.Recipient:
			bucket(tx.Donor).Received += tx.Amount
		}
	}

	out := make([]domain.CounterpartTotal, 0, len(byCounterpart))
	for _, ct := range byCounterpart {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Total(), out[j].Total()
		if ti != tj {
			return ti > tj
		}
		return out[i].Entity < out[j].Entity
	})
	return out
}

// EntityKeys lists every donor and recipient once, in order of first appearance.
func EntityKeys(records []domain.AidTransaction) []string {
	seen := make(map[string]struct{})
	var keys []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		keys = append(keys, name)
	}
	for _, tx := range records {
		add(tx.Donor)
		add(tx.Recipient)
	}
	return keys
}

// GeoKeys collects the names of all features in fc.
func GeoKeys(fc *domain.FeatureCollection) map[string]struct{} {
	keys := make(map[string]struct{})
	if fc == nil {
		return keys
	}
	for _, f := range fc.Features {
		keys[f.Name()] = struct{}{}
	}
	return keys
}

// DeriveEntityClassification returns the entity keys absent from geoKeys,
// i.e. organisations rather than countries. Input order is preserved.
func DeriveEntityClassification(entityKeys []string, geoKeys map[string]struct{}) []string {
	out := make([]string, 0)
	for _, key := range entityKeys {
		if _, ok := geoKeys[key]; !ok {
			out = append(out, key)
		}
	}
	return out
}

// PeriodBounds returns the smallest and largest valid year in records.
// ok is false when no record has a valid year.
func PeriodBounds(records []domain.AidTransaction) (bounds domain.PeriodRange, ok bool) {
	for _, tx := range records {
		if !tx.ValidPeriod() {
			continue
		}
		if !ok {
			bounds = domain.PeriodRange{Start: tx.Year, End: tx.Year}
			ok = true
			continue
		}
		bounds.Start = min(bounds.Start, tx.Year)
		bounds.End = max(bounds.End, tx.Year)
	}
	return bounds, ok
}

// SeriesForEntity splits the focal entity's records into per-year donated
// and received totals. Sentinel years are dropped.
func SeriesForEntity(records []domain.AidTransaction, focal string) domain.EntitySeries {
	donated := make(map[int]float64)
	received := make(map[int]float64)
	for _, tx := range records {
		if !tx.ValidPeriod() {
			continue
		}
		if tx.Donor == focal {
			donated[tx.Year] += tx.Amount
		}
		if tx.Recipient == focal {
			received[tx.Year] += tx.Amount
		}
	}
	return domain.EntitySeries{
		Entity:   focal,
		Donated:  sortedPeriods(donated),
		Received: sortedPeriods(received),
	}
}

// TotalAmount sums the amounts of records.
func TotalAmount(records []domain.AidTransaction) float64 {
	var total float64
	for _, tx := range records {
		total += tx.Amount
	}
	return total
}

func sortedPeriods(perYear map[int]float64) []domain.PeriodAggregate {
	out := make([]domain.PeriodAggregate, 0, len(perYear))
	for year, amount := range perYear {
		out = append(out, domain.PeriodAggregate{Year: year, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
