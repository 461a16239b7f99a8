package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vanshika/vizdash/internal/aggregate"
	"github.com/vanshika/vizdash/internal/datasource"
	"github.com/vanshika/vizdash/internal/domain"
	"github.com/vanshika/vizdash/internal/reactive"
)

// Messages surfaced when a source fails to load.
const (
	MsgMapLoadFailed         = "Failed to load map data."
	MsgTransactionLoadFailed = "Failed to load transaction data"
)

// AidStatus reports the load state of both aid sources.
type AidStatus struct {
	Map          SourceStatus `json:"map"`
	Transactions SourceStatus `json:"transactions"`
}

// AidStore is the state of the aid transactions page.
type AidStore struct {
	core
	src datasource.AidSource

	geoSource *source
	txSource  *source

	transactions *reactive.Signal[[]domain.AidTransaction]
	geo          *reactive.Signal[*domain.FeatureCollection]
	periodRange  *reactive.Signal[*domain.PeriodRange]
	brushSpan    *reactive.Signal[*domain.PixelSpan]
	selected     *reactive.Signal[string]
	hovered      *reactive.Signal[string]

	inRange       *reactive.Computed[[]domain.AidTransaction]
	byEntity      *reactive.Computed[map[string]*domain.EntityAggregate]
	perPeriod     *reactive.Computed[[]domain.PeriodAggregate]
	geoKeys       *reactive.Computed[map[string]struct{}]
	organizations *reactive.Computed[[]string]
	bounds        *reactive.Computed[domain.PeriodRange]
	totalInRange  *reactive.Computed[float64]
	selectedAgg   *reactive.Computed[*domain.EntityAggregate]
	crossTab      *reactive.Computed[[]domain.CounterpartTotal]
	series        *reactive.Computed[*domain.EntitySeries]
}

// NewAidStore builds an empty store over src.
func NewAidStore(src datasource.AidSource, logger *zap.Logger) *AidStore {
	s := &AidStore{
		core:      newCore(logger, "store.aid"),
		src:       src,
		geoSource: newSource(datasource.SourceCountriesGeo, MsgMapLoadFailed),
		txSource:  newSource(datasource.SourceTransactions, MsgTransactionLoadFailed),

		transactions: reactive.NewSignal[[]domain.AidTransaction](nil, nil),
		geo:          reactive.NewSignal[*domain.FeatureCollection](nil, nil),
		periodRange:  reactive.NewSignal[*domain.PeriodRange](nil, domain.EqualPeriodRange),
		brushSpan:    reactive.NewSignal[*domain.PixelSpan](nil, domain.EqualPixelSpan),
		selected:     reactive.NewSignal("", equalString),
		hovered:      reactive.NewSignal("", equalString),
	}

	s.inRange = reactive.NewComputed(func() []domain.AidTransaction {
		return aggregate.FilterByPeriodRange(s.transactions.Get(), s.periodRange.Get())
	}, s.transactions, s.periodRange)

	s.byEntity = reactive.NewComputed(func() map[string]*domain.EntityAggregate {
		return aggregate.GroupByEntity(s.inRange.Get())
	}, s.inRange)

	s.perPeriod = reactive.NewComputed(func() []domain.PeriodAggregate {
		return aggregate.AggregateByPeriod(s.transactions.Get())
	}, s.transactions)

	s.geoKeys = reactive.NewComputed(func() map[string]struct{} {
		return aggregate.GeoKeys(s.geo.Get())
	}, s.geo)

	s.organizations = reactive.NewComputed(func() []string {
		return aggregate.DeriveEntityClassification(aggregate.EntityKeys(s.transactions.Get()), s.geoKeys.Get())
	}, s.transactions, s.geoKeys)

	s.bounds = reactive.NewComputed(func() domain.PeriodRange {
		bounds, _ := aggregate.PeriodBounds(s.transactions.Get())
		return bounds
	}, s.transactions)

	s.totalInRange = reactive.NewComputed(func() float64 {
		return aggregate.TotalAmount(s.inRange.Get())
	}, s.inRange)

	s.selectedAgg = reactive.NewComputed(func() *domain.EntityAggregate {
		name := s.selected.Get()
		if name == "" {
			return nil
		}
		return s.byEntity.Get()[name]
	}, s.selected, s.byEntity)

	s.crossTab = reactive.NewComputed(func() []domain.CounterpartTotal {
		agg := s.selectedAgg.Get()
		if agg == nil {
			return []domain.CounterpartTotal{}
		}
		return aggregate.CrossTabulateForEntity(agg.Transactions, agg.Name)
	}, s.selectedAgg)

	s.series = reactive.NewComputed(func() *domain.EntitySeries {
		agg := s.selectedAgg.Get()
		if agg == nil {
			return nil
		}
		series := aggregate.SeriesForEntity(agg.Transactions, agg.Name)
		return &series
	}, s.selectedAgg)

	return s
}

// Load fetches the map and the transactions concurrently. The returned
// channel closes when both requests have settled. A later Load supersedes
// the results of any request still in flight.
func (s *AidStore) Load(ctx context.Context) <-chan struct{} {
	var wg sync.WaitGroup
	load(&s.core, s.geoSource, ctx, &wg, s.src.FetchGeo, func(fc *domain.FeatureCollection) Topic {
		s.geo.Set(fc)
		return TopicGeo
	})
	load(&s.core, s.txSource, ctx, &wg, s.src.FetchTransactions, func(txs []domain.AidTransaction) Topic {
		s.transactions.Set(txs)
		return TopicData
	})
	return waitAll(&wg)
}

// AidTx stages filter and selection changes applied together by Update.
type AidTx struct {
	s       *AidStore
	changed Topic
}

// SetPeriodRange replaces the active year range. Nil clears it.
func (tx *AidTx) SetPeriodRange(r *domain.PeriodRange) {
	if tx.s.periodRange.Set(clonePtr(r)) {
		tx.changed |= TopicFilter
	}
}

// SetBrushSpan replaces the brushed pixel span. Equal spans are ignored.
func (tx *AidTx) SetBrushSpan(span *domain.PixelSpan) {
	if tx.s.brushSpan.Set(clonePtr(span)) {
		tx.changed |= TopicFilter
	}
}

// SetSelectedEntity selects name, or clears the selection when name is
// already selected. An empty name clears it.
func (tx *AidTx) SetSelectedEntity(name string) {
	if name == tx.s.selected.Get() {
		name = ""
	}
	if tx.s.selected.Set(name) {
		tx.changed |= TopicSelection
	}
}

// SetHoveredEntity marks the entity under the pointer. Empty clears it.
func (tx *AidTx) SetHoveredEntity(name string) {
	if tx.s.hovered.Set(name) {
		tx.changed |= TopicSelection
	}
}

// Update applies fn atomically and notifies subscribers once.
func (s *AidStore) Update(fn func(tx *AidTx)) {
	s.mutate(func() Topic {
		tx := &AidTx{s: s}
		fn(tx)
		return tx.changed
	})
}

// SetPeriodRange replaces the active year range.
func (s *AidStore) SetPeriodRange(r *domain.PeriodRange) {
	s.Update(func(tx *AidTx) { tx.SetPeriodRange(r) })
}

// SetBrushSpan replaces the brushed pixel span.
func (s *AidStore) SetBrushSpan(span *domain.PixelSpan) {
	s.Update(func(tx *AidTx) { tx.SetBrushSpan(span) })
}

// SetSelectedEntity toggles the selected entity.
func (s *AidStore) SetSelectedEntity(name string) {
	s.Update(func(tx *AidTx) { tx.SetSelectedEntity(name) })
}

// SetHoveredEntity marks the entity under the pointer.
func (s *AidStore) SetHoveredEntity(name string) {
	s.Update(func(tx *AidTx) { tx.SetHoveredEntity(name) })
}

// ApplyBrush stores a brush gesture and the year range it maps to in one
// update.
func (s *AidStore) ApplyBrush(span *domain.PixelSpan, r *domain.PeriodRange) {
	s.Update(func(tx *AidTx) {
		tx.SetBrushSpan(span)
		tx.SetPeriodRange(r)
	})
}

// Filter returns a copy of the current filter state.
func (s *AidStore) Filter() domain.FilterState {
	return read(&s.core, func() domain.FilterState {
		return domain.FilterState{
			PeriodRange:    clonePtr(s.periodRange.Get()),
			BrushSpan:      clonePtr(s.brushSpan.Get()),
			SelectedEntity: s.selected.Get(),
		}
	})
}

// HoveredEntity returns the entity under the pointer, or "".
func (s *AidStore) HoveredEntity() string {
	return read(&s.core, s.hovered.Get)
}

// Status reports the load state of each source.
func (s *AidStore) Status() AidStatus {
	return read(&s.core, func() AidStatus {
		return AidStatus{Map: s.geoSource.status.Get(), Transactions: s.txSource.status.Get()}
	})
}

// Loading reports whether any source is loading.
func (s *AidStore) Loading() bool {
	st := s.Status()
	return st.Map.Loading || st.Transactions.Loading
}

// Error returns the first source error message, or "".
func (s *AidStore) Error() string {
	st := s.Status()
	if st.Map.Error != "" {
		return st.Map.Error
	}
	return st.Transactions.Error
}

// Transactions returns every loaded record.
func (s *AidStore) Transactions() []domain.AidTransaction {
	return read(&s.core, s.transactions.Get)
}

// Geo returns the country boundaries, or nil before they load.
func (s *AidStore) Geo() *domain.FeatureCollection {
	return read(&s.core, s.geo.Get)
}

// TransactionsInRange returns the records inside the active year range.
func (s *AidStore) TransactionsInRange() []domain.AidTransaction {
	return read(&s.core, s.inRange.Get)
}

// EntityAggregates groups the in-range records by entity.
func (s *AidStore) EntityAggregates() map[string]*domain.EntityAggregate {
	return read(&s.core, s.byEntity.Get)
}

// PeriodAggregates sums all records per year, ignoring the active range.
func (s *AidStore) PeriodAggregates() []domain.PeriodAggregate {
	return read(&s.core, s.perPeriod.Get)
}

// MapCountries returns the names of the loaded map features.
func (s *AidStore) MapCountries() map[string]struct{} {
	return read(&s.core, s.geoKeys.Get)
}

// Organizations lists entities that have no map feature.
func (s *AidStore) Organizations() []string {
	return read(&s.core, s.organizations.Get)
}

// PeriodBounds spans every valid year in the data. It is the zero range when
// nothing has loaded.
func (s *AidStore) PeriodBounds() domain.PeriodRange {
	return read(&s.core, s.bounds.Get)
}

// TotalInRange sums the amounts of the in-range records.
func (s *AidStore) TotalInRange() float64 {
	return read(&s.core, s.totalInRange.Get)
}

// SelectedAggregate returns the selected entity's aggregate, or nil.
func (s *AidStore) SelectedAggregate() *domain.EntityAggregate {
	return read(&s.core, s.selectedAgg.Get)
}

// SelectedCrossTab buckets the selected entity's records by counterpart.
func (s *AidStore) SelectedCrossTab() []domain.CounterpartTotal {
	return read(&s.core, s.crossTab.Get)
}

// SelectedSeries returns the selected entity's per-year totals, or nil.
func (s *AidStore) SelectedSeries() *domain.EntitySeries {
	return read(&s.core, s.series.Get)
}

// EntityRuns reports how often the entity grouping has been recomputed.
func (s *AidStore) EntityRuns() int {
	return read(&s.core, s.byEntity.Runs)
}

func equalString(a, b string) bool { return a == b }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// AidSnapshot is every view of an AidStore taken under one lock.
type AidSnapshot struct {
	Status        AidStatus
	Filter        domain.FilterState
	Hovered       string
	Geo           *domain.FeatureCollection
	Aggregates    map[string]*domain.EntityAggregate
	Periods       []domain.PeriodAggregate
	Organizations []string
	Bounds        domain.PeriodRange
	TotalInRange  float64
	Selected      *domain.EntityAggregate
	CrossTab      []domain.CounterpartTotal
	Series        *domain.EntitySeries
}

// Snapshot returns a consistent view of the store.
func (s *AidStore) Snapshot() AidSnapshot {
	return read(&s.core, func() AidSnapshot {
		return AidSnapshot{
			Status: AidStatus{Map: s.geoSource.status.Get(), Transactions: s.txSource.status.Get()},
			Filter: domain.FilterState{
				PeriodRange:    clonePtr(s.periodRange.Get()),
				BrushSpan:      clonePtr(s.brushSpan.Get()),
				SelectedEntity: s.selected.Get(),
			},
			Hovered:       s.hovered.Get(),
			Geo:           s.geo.Get(),
			Aggregates:    s.byEntity.Get(),
			Periods:       s.perPeriod.Get(),
			Organizations: s.organizations.Get(),
			Bounds:        s.bounds.Get(),
			TotalInRange:  s.totalInRange.Get(),
			Selected:      s.selectedAgg.Get(),
			CrossTab:      s.crossTab.Get(),
			Series:        s.series.Get(),
		}
	})
}
