package datasource

import (
	"context"

	"github.com/vanshika/vizdash/internal/domain"
)

// TransactionLister is satisfied by the graph repository.
type TransactionLister interface {
	ListAidTransactions(ctx context.Context) ([]domain.AidTransaction, error)
}

// GraphAidSource serves transactions from the graph store and boundaries
// from the wrapped file source.
type GraphAidSource struct {
	geo    AidSource
	lister TransactionLister
}

// NewGraphAidSource combines a file source for geo data with a graph lister.
func NewGraphAidSource(geo AidSource, lister TransactionLister) *GraphAidSource {
	return &GraphAidSource{geo: geo, lister: lister}
}

func (s *GraphAidSource) FetchGeo(ctx context.Context) (*domain.FeatureCollection, error) {
	return s.geo.FetchGeo(ctx)
}

func (s *GraphAidSource) FetchTransactions(ctx context.Context) ([]domain.AidTransaction, error) {
	txs, err := s.lister.ListAidTransactions(ctx)
	if err != nil {
		return nil, loadError(SourceTransactions, err)
	}
	return txs, nil
}
