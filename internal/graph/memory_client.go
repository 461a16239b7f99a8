package graph

import (
	"context"
	"maps"
	"strings"
	"sync"
)

// Responder produces the result of a read query.
type Responder func(q Query) (Result, error)

// MemoryClient is a Client double for repository tests. Reads are answered
// by the first responder whose fragment occurs in the cypher text; unmatched
// reads return no rows. Every query is recorded.
type MemoryClient struct {
	mu         sync.Mutex
	responders []responder
	reads      []Query
	writes     [][]Query
	writeErr   error
	pingErr    error
}

type responder struct {
	fragment string
	fn       Responder
}

// NewMemoryClient returns an empty client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// On answers reads containing fragment with fn.
func (m *MemoryClient) On(fragment string, fn Responder) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responders = append(m.responders, responder{fragment: fragment, fn: fn})
	return m
}

// Rows answers reads containing fragment with fixed records.
func (m *MemoryClient) Rows(fragment string, records ...Record) *MemoryClient {
	return m.On(fragment, func(Query) (Result, error) {
		return Result{Records: records}, nil
	})
}

// FailWrites makes every later WriteBatch fail with err.
func (m *MemoryClient) FailWrites(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
	return m
}

// FailPing makes VerifyConnectivity return err.
func (m *MemoryClient) FailPing(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
	return m
}

func (m *MemoryClient) Read(_ context.Context, q Query) (Result, error) {
	m.mu.Lock()
	m.reads = append(m.reads, clone(q))
	var fn Responder
	for _, r := range m.responders {
		if strings.Contains(q.Cypher, r.fragment) {
			fn = r.fn
			break
		}
	}
	m.mu.Unlock()

	if fn == nil {
		return Result{}, nil
	}
	return fn(q)
}

func (m *MemoryClient) WriteBatch(_ context.Context, qs []Query) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	batch := make([]Query, len(qs))
	for i, q := range qs {
		batch[i] = clone(q)
	}
	m.writes = append(m.writes, batch)
	return nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingErr
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// Reads returns the read queries seen so far.
func (m *MemoryClient) Reads() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Query(nil), m.reads...)
}

// Batches returns the committed write batches in commit order.
func (m *MemoryClient) Batches() [][]Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]Query(nil), m.writes...)
}

// Writes flattens every committed batch.
func (m *MemoryClient) Writes() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Query
	for _, b := range m.writes {
		out = append(out, b...)
	}
	return out
}

func clone(q Query) Query {
	return Query{Cypher: q.Cypher, Params: maps.Clone(q.Params)}
}
