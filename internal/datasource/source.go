// Package datasource fetches the dashboard data files and parses them into
// typed records.
package datasource

import (
	"context"

	"github.com/vanshika/vizdash/internal/domain"
)

// Data file locations relative to the data root.
const (
	PathCountriesGeo       = "aid-data/countries.fixed.geo.json"
	PathAidTransactions    = "aid-data/aid-data.csv"
	PathConstituenciesGeo  = "india-parliamentary-constituencies-2024.geo.json"
	PathConstituencies     = "constituencies.csv"
	PathConstituencyResult = "constituency-results.csv"
)

// Source names used in LoadError and store status.
const (
	SourceCountriesGeo    = "countries-geo"
	SourceTransactions    = "transactions"
	SourceConstituencyGeo = "constituencies-geo"
	SourceConstituencies  = "constituencies"
	SourceResults         = "results"
)

// AidSource provides the aid dashboard datasets.
type AidSource interface {
	FetchGeo(ctx context.Context) (*domain.FeatureCollection, error)
	FetchTransactions(ctx context.Context) ([]domain.AidTransaction, error)
}

// ElectionSource provides the election dashboard datasets.
type ElectionSource interface {
	FetchGeo(ctx context.Context) (*domain.FeatureCollection, error)
	FetchConstituencies(ctx context.Context) ([]domain.Constituency, error)
	FetchResults(ctx context.Context) ([]domain.ConstituencyResult, error)
}

// FileAidSource reads the aid files through a Fetcher.
type FileAidSource struct {
	fetcher Fetcher
}

// NewFileAidSource wraps fetcher.
func NewFileAidSource(fetcher Fetcher) *FileAidSource {
	return &FileAidSource{fetcher: fetcher}
}

func (s *FileAidSource) FetchGeo(ctx context.Context) (*domain.FeatureCollection, error) {
	return fetchParsed(ctx, s.fetcher, SourceCountriesGeo, PathCountriesGeo, ParseFeatureCollection)
}

func (s *FileAidSource) FetchTransactions(ctx context.Context) ([]domain.AidTransaction, error) {
	return fetchParsed(ctx, s.fetcher, SourceTransactions, PathAidTransactions, ParseAidTransactions)
}

// FileElectionSource reads the election files through a Fetcher.
type FileElectionSource struct {
	fetcher Fetcher
}

// NewFileElectionSource wraps fetcher.
func NewFileElectionSource(fetcher Fetcher) *FileElectionSource {
	return &FileElectionSource{fetcher: fetcher}
}

func (s *FileElectionSource) FetchGeo(ctx context.Context) (*domain.FeatureCollection, error) {
	return fetchParsed(ctx, s.fetcher, SourceConstituencyGeo, PathConstituenciesGeo, ParseFeatureCollection)
}

func (s *FileElectionSource) FetchConstituencies(ctx context.Context) ([]domain.Constituency, error) {
	return fetchParsed(ctx, s.fetcher, SourceConstituencies, PathConstituencies, ParseConstituencies)
}

func (s *FileElectionSource) FetchResults(ctx context.Context) ([]domain.ConstituencyResult, error) {
	return fetchParsed(ctx, s.fetcher, SourceResults, PathConstituencyResult, ParseConstituencyResults)
}

func fetchParsed[T any](ctx context.Context, f Fetcher, source, path string, parse func([]byte) (T, error)) (T, error) {
	var zero T
	data, err := f.Fetch(ctx, path)
	if err != nil {
		return zero, loadError(source, err)
	}
	parsed, err := parse(data)
	if err != nil {
		return zero, loadError(source, err)
	}
	return parsed, nil
}
