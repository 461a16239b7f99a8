package service

import (
	"context"
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vanshika/vizdash/internal/domain"
)

func TestNormalizeEntity(t *testing.T) {
	assert.Equal(t, "World Bank", NormalizeEntity("  World \t\n Bank "))
	assert.Equal(t, "", NormalizeEntity(" \t "))
}

func TestNormalize(t *testing.T) {
	got := Normalize([]domain.AidTransaction{
		{Donor: "Japan", Recipient: "India", Year: 1990, Amount: 0.1},
		{Donor: "", Recipient: "India", Year: 1990, Amount: 1},
		{Donor: " Japan", Recipient: "India ", Year: 1990, Amount: 0.2},
		{Donor: "Japan", Recipient: "India", Year: 9999, Amount: 4},
		{Donor: "Japan", Recipient: "India", Year: 1991, Amount: math.NaN()},
	})

	assert.Equal(t, 2, got.Dropped)
	assert.Equal(t, 1, got.Merged)
	assert.Equal(t, []domain.AidTransaction{
		{Donor: "Japan", Recipient: "India", Year: 1990, Amount: 0.3},
		{Donor: "Japan", Recipient: "India", Year: 9999, Amount: 4},
	}, got.Transactions)
}

type recordingWriter struct {
	mu    sync.Mutex
	calls [][]domain.AidTransaction
	fail  map[string]error
}

func (w *recordingWriter) UpsertAidTransactions(_ context.Context, txs []domain.AidTransaction) error {
	if err, ok := w.fail[txs[0].Donor]; ok {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, txs)
	return nil
}

func donors(n int) []domain.AidTransaction {
	out := make([]domain.AidTransaction, n)
	for i := range out {
		out[i] = domain.AidTransaction{Donor: string(rune('A' + i)), Recipient: "India", Year: 2000, Amount: 1}
	}
	return out
}

func TestBulkIngestor_Ingest(t *testing.T) {
	w := &recordingWriter{}
	bi := NewBulkIngestor(w, 3, zaptest.NewLogger(t)).WithChunkSize(2)

	report, err := bi.Ingest(context.Background(), donors(5))
	require.NoError(t, err)
	assert.Equal(t, Report{Read: 5, Written: 5, Chunks: 3}, report)

	var first []string
	for _, c := range w.calls {
		first = append(first, c[0].Donor)
	}
	sort.Strings(first)
	assert.Equal(t, []string{"A", "C", "E"}, first)
}

func TestBulkIngestor_CollectsChunkFailures(t *testing.T) {
	boom := errors.New("write failed")
	w := &recordingWriter{fail: map[string]error{"C": boom}}
	bi := NewBulkIngestor(w, 2, zaptest.NewLogger(t)).WithChunkSize(2)

	report, err := bi.Ingest(context.Background(), donors(5))
	require.Error(t, err)

	var taskErr *TaskError
	require.True(t, errors.As(err, &taskErr))
	require.Len(t, taskErr.Errors, 1)
	assert.ErrorIs(t, taskErr.Errors[0], boom)
	assert.Equal(t, 3, report.Written)
	assert.Equal(t, 1, report.Failed)
}

func TestBulkIngestor_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &recordingWriter{}
	_, err := NewBulkIngestor(w, 1, nil).Ingest(ctx, donors(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBulkIngestor_Empty(t *testing.T) {
	report, err := NewBulkIngestor(&recordingWriter{}, 0, nil).Ingest(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Report{}, report)
}
