package generator

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/vanshika/vizdash/internal/datasource"
)

// WriteDataset writes the dataset under dir using the paths and column
// layout the file sources read.
func WriteDataset(ds Dataset, dir string) error {
	aidRows := make([][]string, len(ds.Transactions))
	for i, tx := range ds.Transactions {
		aidRows[i] = []string{tx.Donor, tx.Recipient, strconv.Itoa(tx.Year), number(tx.Amount)}
	}

	seatRows := make([][]string, len(ds.Constituencies))
	for i, c := range ds.Constituencies {
		seatRows[i] = []string{c.ID, c.Name, c.StateOrUT, number(c.Latitude), number(c.Longitude)}
	}

	resultRows := make([][]string, len(ds.Results))
	for i, r := range ds.Results {
		resultRows[i] = []string{
			r.ConstituencyID, r.CandidateName, r.PartyName,
			number(r.EVMVotes), number(r.PostalVotes), number(r.TotalVotes), number(r.PercentageOfVotes),
		}
	}

	files := []struct {
		path   string
		encode func() ([]byte, error)
	}{
		{datasource.PathAidTransactions, func() ([]byte, error) {
			return encodeCSV(',', datasource.AidColumns, aidRows)
		}},
		{datasource.PathConstituencies, func() ([]byte, error) {
			return encodeCSV(',', datasource.ConstituencyColumns, seatRows)
		}},
		{datasource.PathConstituencyResult, func() ([]byte, error) {
			return encodeCSV(datasource.ResultsDelimiter, datasource.ResultColumns, resultRows)
		}},
		{datasource.PathCountriesGeo, func() ([]byte, error) { return encodeGeo(ds.Countries) }},
		{datasource.PathConstituenciesGeo, func() ([]byte, error) { return encodeGeo(ds.ConstituencyGeo) }},
	}

	for _, f := range files {
		data, err := f.encode()
		if err != nil {
			return errors.Wrapf(err, "encode %s", f.path)
		}
		path := filepath.Join(dir, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrap(err, "create output dir")
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
	}
	return nil
}

func encodeCSV(delimiter rune, header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delimiter
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type geoGeometry struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

type geoFeature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   geoGeometry    `json:"geometry"`
}

type geoCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

func encodeGeo(regions []Region) ([]byte, error) {
	fc := geoCollection{Type: "FeatureCollection", Features: make([]geoFeature, len(regions))}
	for i, r := range regions {
		fc.Features[i] = geoFeature{
			Type:       "Feature",
			Properties: r.Properties,
			Geometry:   geoGeometry{Type: "Polygon", Coordinates: [][][]float64{r.Ring()}},
		}
	}
	return sonic.Marshal(fc)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
