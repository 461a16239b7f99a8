package datasource

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vanshika/vizdash/internal/domain"
)

// Column names of the data files. They are part of the file contract.
const (
	ColDonor     = "donor"
	ColRecipient = "recipient"
	ColYear      = "year"
	ColAmount    = "commitment_amount_usd_constant_sum"

	ColID        = "id"
	ColName      = "name"
	ColStateOrUT = "stateOrUT"
	ColLatitude  = "latitude"
	ColLongitude = "longitude"

	ColConstituencyID    = "constituencyId"
	ColCandidateName     = "candidateName"
	ColPartyName         = "partyName"
	ColEVMVotes          = "evmVotes"
	ColPostalVotes       = "postalVotes"
	ColTotalVotes        = "totalVotes"
	ColPercentageOfVotes = "percentageOfVotes"
)

// ResultsDelimiter separates fields in the constituency results file.
const ResultsDelimiter = ';'

var (
	AidColumns          = []string{ColDonor, ColRecipient, ColYear, ColAmount}
	ConstituencyColumns = []string{ColID, ColName, ColStateOrUT, ColLatitude, ColLongitude}
	ResultColumns       = []string{
		ColConstituencyID, ColCandidateName, ColPartyName,
		ColEVMVotes, ColPostalVotes, ColTotalVotes, ColPercentageOfVotes,
	}
)

// table is a header-indexed view over a delimited file.
type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(data []byte, delimiter rune, required []string) (*table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(ErrMissingColumn, "empty file, want %s", strings.Join(required, ","))
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}

	t := &table{index: make(map[string]int, len(headers))}
	for i, h := range headers {
		t.index[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "%q", col)
		}
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv row")
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func (t *table) field(row []string, col string) string {
	i := t.index[col]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number parses a numeric field. An empty field reads as zero.
func (t *table) number(row []string, line int, col string) (float64, error) {
	raw := t.field(row, col)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "line %d: column %q", line, col)
	}
	return v, nil
}

// ParseAidTransactions decodes the comma separated aid transaction file.
func ParseAidTransactions(data []byte) ([]domain.AidTransaction, error) {
	t, err := readTable(data, ',', AidColumns)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AidTransaction, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		year, err := t.number(row, line, ColYear)
		if err != nil {
			return nil, err
		}
		amount, err := t.number(row, line, ColAmount)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.AidTransaction{
			Donor:     t.field(row, ColDonor),
			Recipient: t.field(row, ColRecipient),
			Year:      int(year),
			Amount:    amount,
		})
	}
	return out, nil
}

// ParseConstituencies decodes the comma separated constituency file.
func ParseConstituencies(data []byte) ([]domain.Constituency, error) {
	t, err := readTable(data, ',', ConstituencyColumns)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Constituency, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		lat, err := t.number(row, line, ColLatitude)
		if err != nil {
			return nil, err
		}
		lon, err := t.number(row, line, ColLongitude)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Constituency{
			ID:        t.field(row, ColID),
			Name:      t.field(row, ColName),
			StateOrUT: t.field(row, ColStateOrUT),
			Latitude:  lat,
			Longitude: lon,
		})
	}
	return out, nil
}

// ParseConstituencyResults decodes the semicolon separated results file.
func ParseConstituencyResults(data []byte) ([]domain.ConstituencyResult, error) {
	t, err := readTable(data, ResultsDelimiter, ResultColumns)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ConstituencyResult, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		var nums [4]float64
		for j, col := range []string{ColEVMVotes, ColPostalVotes, ColTotalVotes, ColPercentageOfVotes} {
			if nums[j], err = t.number(row, line, col); err != nil {
				return nil, err
			}
		}
		out = append(out, domain.ConstituencyResult{
			ConstituencyID:    t.field(row, ColConstituencyID),
			CandidateName:     t.field(row, ColCandidateName),
			PartyName:         t.field(row, ColPartyName),
			EVMVotes:          nums[0],
			PostalVotes:       nums[1],
			TotalVotes:        nums[2],
			PercentageOfVotes: nums[3],
		})
	}
	return out, nil
}
