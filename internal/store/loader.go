package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vanshika/vizdash/internal/reactive"
)

// source tracks the in-flight request of one data source. Only the most
// recently started request may write its result; older ones are cancelled
// and their responses dropped.
type source struct {
	name    string
	failMsg string
	status  *reactive.Signal[SourceStatus]
	gen     uint64
	cancel  context.CancelFunc
}

func newSource(name, failMsg string) *source {
	return &source{
		name:    name,
		failMsg: failMsg,
		status:  reactive.NewSignal(SourceStatus{}, func(a, b SourceStatus) bool { return a == b }),
	}
}

// load starts fetch in the background and clears the source's previous
// error. apply runs under the store lock with
// the fetched value when the request is still the latest one and returns the
// topics it changed.
func load[T any](
	c *core,
	src *source,
	parent context.Context,
	wg *sync.WaitGroup,
	fetch func(context.Context) (T, error),
	apply func(T) Topic,
) {
	c.mu.Lock()
	if src.cancel != nil {
		src.cancel()
	}
	src.gen++
	gen := src.gen
	ctx, cancel := context.WithCancel(parent)
	src.cancel = cancel
	changed := Topic(0)
	if src.status.Set(SourceStatus{Loading: true}) {
		changed = TopicStatus
	}
	c.mu.Unlock()
	c.publish(changed)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		value, err := fetch(ctx)

		c.mutate(func() Topic {
			if gen != src.gen {
				c.log.Debug("dropping superseded response", zap.String("source", src.name), zap.Uint64("generation", gen))
				return 0
			}
			src.cancel = nil

			if err != nil {
				c.log.Error("load failed", zap.String("source", src.name), zap.Error(err))
				src.status.Set(SourceStatus{Loading: false, Error: src.failMsg})
				return TopicStatus
			}
			changed := apply(value)
			src.status.Set(SourceStatus{})
			return changed | TopicStatus
		})
	}()
}

// waitAll closes the returned channel once wg drains.
func waitAll(wg *sync.WaitGroup) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}
