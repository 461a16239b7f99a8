// Package graph wraps the Neo4j driver behind a small query interface so the
// repository can be tested against an in-memory double.
package graph

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/vanshika/vizdash/internal/config"
)

// Query is a cypher statement with its parameters.
type Query struct {
	Cypher string
	Params map[string]any
}

// Client defines the contract the repository needs from the graph database.
type Client interface {
	// Read runs q in a read transaction.
	Read(ctx context.Context, q Query) (Result, error)
	// WriteBatch runs every query in one write transaction. Either all of
	// them commit or none do.
	WriteBatch(ctx context.Context, qs []Query) error
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is the materialised rows of a query response.
type Result struct {
	Records []Record
}

// Record maps column names to values of one row.
type Record map[string]any

// String returns the string column key.
func (r Record) String(key string) (string, error) {
	switch v := r[key].(type) {
	case string:
		return v, nil
	case nil:
		return "", errors.Wrapf(ErrMissingColumn, "%q", key)
	default:
		return fmt.Sprint(v), nil
	}
}

// Float returns the numeric column key as a float64.
func (r Record) Float(key string) (float64, error) {
	switch v := r[key].(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case nil:
		return 0, errors.Wrapf(ErrMissingColumn, "%q", key)
	default:
		return 0, errors.Newf("column %q holds %T, not a number", key, v)
	}
}

// Int returns the integer column key.
func (r Record) Int(key string) (int, error) {
	switch v := r[key].(type) {
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case nil:
		return 0, errors.Wrapf(ErrMissingColumn, "%q", key)
	default:
		return 0, errors.Newf("column %q holds %T, not an integer", key, v)
	}
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// OptionsFromConfig copies the graph section of the application config.
func OptionsFromConfig(cfg config.GraphConfig) Options {
	return Options{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
	}
}

var (
	// ErrMissingURI indicates the graph URI is not provided.
	ErrMissingURI = errors.New("graph URI is required")
	// ErrMissingColumn is returned when a record lacks a requested column.
	ErrMissingColumn = errors.New("missing column")
)
