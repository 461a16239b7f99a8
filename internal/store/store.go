// Package store holds the per-page state of a dashboard: raw datasets, the
// user's filter and selection, and memoized views derived from both.
//
// A store is safe for concurrent use. Every mutation runs under one lock, so
// derived reads always observe a single consistent snapshot. Subscribers are
// notified after the lock is released.
package store

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Topic is a bit set describing which part of a store changed.
type Topic uint8

const (
	TopicData Topic = 1 << iota
	TopicGeo
	TopicFilter
	TopicSelection
	TopicStatus
)

// Names lists the topics set in t.
func (t Topic) Names() []string {
	names := make([]string, 0, 5)
	for bit, name := range topicNames {
		if t&bit != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

var topicNames = map[Topic]string{
	TopicData:      "data",
	TopicGeo:       "geo",
	TopicFilter:    "filter",
	TopicSelection: "selection",
	TopicStatus:    "status",
}

// Listener receives the topics changed by one update.
type Listener func(Topic)

// SourceStatus is the load state of one data source.
type SourceStatus struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

type hub struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
}

// Subscribe registers fn and returns a function that removes it.
func (h *hub) Subscribe(fn Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listeners == nil {
		h.listeners = make(map[int]Listener)
	}
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.listeners, id)
		})
	}
}

func (h *hub) publish(t Topic) {
	if t == 0 {
		return
	}
	h.mu.Lock()
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(t)
	}
}

type core struct {
	hub
	mu  sync.Mutex
	log *zap.Logger
}

func newCore(logger *zap.Logger, name string) core {
	if logger == nil {
		logger = zap.NewNop()
	}
	return core{log: logger.Named(name)}
}

// mutate runs fn under the store lock and publishes the topics it returns.
func (c *core) mutate(fn func() Topic) {
	c.mu.Lock()
	changed := fn()
	c.mu.Unlock()
	c.publish(changed)
}

func read[T any](c *core, fn func() T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn()
}
