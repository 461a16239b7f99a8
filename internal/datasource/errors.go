package datasource

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrMissingColumn is returned when a delimited file lacks a required header.
	ErrMissingColumn = errors.New("missing column")
	// ErrNotFound is returned when a data file does not exist at its location.
	ErrNotFound = errors.New("data file not found")
)

// LoadError marks a failure to fetch or parse one named data source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return "load " + e.Source + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadError(source string, err error) error {
	if err == nil {
		return nil
	}
	return &LoadError{Source: source, Err: err}
}
