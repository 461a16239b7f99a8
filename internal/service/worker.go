package service

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vanshika/vizdash/internal/domain"
)

const (
	defaultWorkers   = 4
	defaultChunkSize = 1000
)

// TaskError accumulates the chunk failures of one bulk run.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

// Writer persists a batch of transactions. repository.Repository satisfies it.
type Writer interface {
	UpsertAidTransactions(ctx context.Context, txs []domain.AidTransaction) error
}

// Report summarises one ingest run.
type Report struct {
	Read    int `json:"read"`
	Dropped int `json:"dropped"`
	Merged  int `json:"merged"`
	Written int `json:"written"`
	Chunks  int `json:"chunks"`
	Failed  int `json:"failed"`
}

// BulkIngestor writes large transaction sets through a bounded worker pool.
type BulkIngestor struct {
	writer    Writer
	workers   int
	chunkSize int
	log       *zap.Logger
}

// NewBulkIngestor creates a BulkIngestor with the provided concurrency.
func NewBulkIngestor(writer Writer, workers int, log *zap.Logger) *BulkIngestor {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BulkIngestor{writer: writer, workers: workers, chunkSize: defaultChunkSize, log: log}
}

// WithChunkSize sets the number of rows each worker writes per call.
func (bi *BulkIngestor) WithChunkSize(n int) *BulkIngestor {
	if n > 0 {
		bi.chunkSize = n
	}
	return bi
}

// Ingest normalizes txs and writes them chunk by chunk. Failed chunks do not
// stop the run; their errors come back together as a *TaskError. Context
// cancellation aborts the run and is returned as is.
func (bi *BulkIngestor) Ingest(ctx context.Context, txs []domain.AidTransaction) (Report, error) {
	norm := Normalize(txs)
	report := Report{Read: len(txs), Dropped: norm.Dropped, Merged: norm.Merged}

	chunks := chunk(norm.Transactions, bi.chunkSize)
	report.Chunks = len(chunks)

	var (
		mu      sync.Mutex
		taskErr TaskError
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bi.workers)

	for i, c := range chunks {
		if gctx.Err() != nil {
			break
		}
		i, c := i, c
		g.Go(func() error {
			err := bi.writer.UpsertAidTransactions(gctx, c)
			if err == nil {
				mu.Lock()
				report.Written += len(c)
				mu.Unlock()
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			bi.log.Warn("chunk failed", zap.Int("chunk", i), zap.Int("rows", len(c)), zap.Error(err))
			mu.Lock()
			taskErr.Errors = append(taskErr.Errors, errors.Wrapf(err, "chunk %d", i))
			report.Failed++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	if len(taskErr.Errors) > 0 {
		return report, &taskErr
	}
	return report, nil
}

func chunk(txs []domain.AidTransaction, size int) [][]domain.AidTransaction {
	var out [][]domain.AidTransaction
	for start := 0; start < len(txs); start += size {
		out = append(out, txs[start:min(start+size, len(txs))])
	}
	return out
}
