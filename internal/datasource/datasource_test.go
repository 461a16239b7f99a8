package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/vizdash/internal/domain"
)

const aidCSV = "donor,recipient,year,commitment_amount_usd_constant_sum\n" +
	"Japan,India,1995,120.5\n" +
	"World Bank,Nepal,9999,7\n" +
	"Japan,Nepal,2001,\n"

const constituenciesCSV = "id,name,stateOrUT,latitude,longitude\n" +
	"S0101,Araku,S01,18.3,82.8\n"

const resultsCSV = "constituencyId;candidateName;partyName;evmVotes;postalVotes;totalVotes;percentageOfVotes\n" +
	"S0101;A, B;Alpha;100;5;105;52.5\n" +
	"S0101;C;Beta;90;5;95;47.5\n"

const geoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "India"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10,5],[0,10],[0,0]]]}},
    {"type": "Feature", "properties": {"ST_CODE": "S01", "PC_No": 1},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[0,0],[1,0],[1,1],[0,0]]],[[[2,2],[3,2],[3,3],[2,2]]]]}},
    {"type": "Feature", "properties": null, "geometry": {"type": "Point", "coordinates": [1,2]}}
  ]
}`

func TestParseAidTransactions(t *testing.T) {
	got, err := ParseAidTransactions([]byte(aidCSV))
	require.NoError(t, err)

	assert.Equal(t, []domain.AidTransaction{
		{Donor: "Japan", Recipient: "India", Year: 1995, Amount: 120.5},
		{Donor: "World Bank", Recipient: "Nepal", Year: domain.SentinelPeriod, Amount: 7},
		{Donor: "Japan", Recipient: "Nepal", Year: 2001, Amount: 0},
	}, got)
}

func TestParseAidTransactions_Errors(t *testing.T) {
	_, err := ParseAidTransactions([]byte("donor,recipient,year\nA,B,2000\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = ParseAidTransactions(nil)
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = ParseAidTransactions([]byte("donor,recipient,year,commitment_amount_usd_constant_sum\nA,B,soon,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseConstituencies(t *testing.T) {
	got, err := ParseConstituencies([]byte("\xef\xbb\xbf" + constituenciesCSV))
	require.NoError(t, err)
	assert.Equal(t, []domain.Constituency{
		{ID: "S0101", Name: "Araku", StateOrUT: "S01", Latitude: 18.3, Longitude: 82.8},
	}, got)
}

func TestParseConstituencyResults_SemicolonDelimited(t *testing.T) {
	got, err := ParseConstituencyResults([]byte(resultsCSV))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A, B", got[0].CandidateName)
	assert.Equal(t, 105.0, got[0].TotalVotes)
	assert.Equal(t, 47.5, got[1].PercentageOfVotes)

	_, err = ParseConstituencyResults([]byte("constituencyId,candidateName\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestParseFeatureCollection(t *testing.T) {
	fc, err := ParseFeatureCollection([]byte(geoJSON))
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)

	india := fc.Features[0]
	assert.Equal(t, "India", india.Name())
	require.Len(t, india.Geometry.Polygons, 1)
	assert.Equal(t, domain.Position{10, 10}, india.Geometry.Polygons[0][0][2])

	pc := fc.Features[1]
	assert.Equal(t, "S011", pc.ConstituencyKey())
	assert.Len(t, pc.Geometry.Polygons, 2)

	point := fc.Features[2]
	assert.Equal(t, "Point", point.Geometry.Type)
	assert.Empty(t, point.Geometry.Polygons)
	assert.Equal(t, domain.UnknownFeatureName, point.Name())

	_, err = ParseFeatureCollection([]byte(`{"type":"Feature"}`))
	assert.Error(t, err)
	_, err = ParseFeatureCollection([]byte(`not json`))
	assert.Error(t, err)
}

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		PathAidTransactions:    aidCSV,
		PathCountriesGeo:       geoJSON,
		PathConstituencies:     constituenciesCSV,
		PathConstituencyResult: resultsCSV,
		PathConstituenciesGeo:  geoJSON,
	}
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func TestFileSources_FromDirectory(t *testing.T) {
	dir := writeDataDir(t)
	ctx := context.Background()

	aid := NewFileAidSource(DirFetcher{Root: dir})
	txs, err := aid.FetchTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 3)
	fc, err := aid.FetchGeo(ctx)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 3)

	election := NewFileElectionSource(DirFetcher{Root: dir})
	cs, err := election.FetchConstituencies(ctx)
	require.NoError(t, err)
	assert.Len(t, cs, 1)
	rs, err := election.FetchResults(ctx)
	require.NoError(t, err)
	assert.Len(t, rs, 2)
}

func TestFileSources_MissingFileIsLoadError(t *testing.T) {
	aid := NewFileAidSource(DirFetcher{Root: t.TempDir()})
	_, err := aid.FetchTransactions(context.Background())

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, SourceTransactions, loadErr.Source)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHTTPFetcher_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "/data/aid-data/aid-data.csv", r.URL.Path)
		_, _ = w.Write([]byte(aidCSV))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/data/", 5, time.Second)
	f.Interval = time.Millisecond
	txs, err := NewFileAidSource(f).FetchTransactions(context.Background())
	require.NoError(t, err)
	assert.Len(t, txs, 3)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPFetcher_NotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, 5, time.Second)
	f.Interval = time.Millisecond
	_, err := f.Fetch(context.Background(), PathCountriesGeo)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

type listerFunc func(ctx context.Context) ([]domain.AidTransaction, error)

func (f listerFunc) ListAidTransactions(ctx context.Context) ([]domain.AidTransaction, error) {
	return f(ctx)
}

func TestGraphAidSource(t *testing.T) {
	dir := writeDataDir(t)
	boom := errors.New("graph down")
	src := NewGraphAidSource(NewFileAidSource(DirFetcher{Root: dir}), listerFunc(func(context.Context) ([]domain.AidTransaction, error) {
		return nil, boom
	}))

	fc, err := src.FetchGeo(context.Background())
	require.NoError(t, err)
	assert.Len(t, fc.Features, 3)

	_, err = src.FetchTransactions(context.Background())
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, SourceTransactions, loadErr.Source)
	assert.True(t, errors.Is(err, boom))
}

func TestNewFetcher(t *testing.T) {
	assert.IsType(t, &HTTPFetcher{}, NewFetcher("http://localhost", "data", 1, time.Second))
	assert.IsType(t, DirFetcher{}, NewFetcher("", "data", 1, time.Second))
}
