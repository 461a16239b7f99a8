// Package reactive provides versioned signals and lazily memoized computed
// values with explicitly declared dependencies.
//
// Nothing here is safe for concurrent use; owners serialise access.
package reactive

// Versioned is anything whose value changes are observable through a
// monotonically increasing version number.
type Versioned interface {
	Version() uint64
}

// Signal holds a writable value. Writes that are equal to the current value
// under the signal's equality function are ignored.
type Signal[T any] struct {
	value   T
	version uint64
	equal   func(a, b T) bool
}

// NewSignal creates a signal. A nil equal treats every write as a change.
func NewSignal[T any](initial T, equal func(a, b T) bool) *Signal[T] {
	return &Signal[T]{value: initial, equal: equal}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	return s.value
}

// Set stores v and reports whether the value changed.
func (s *Signal[T]) Set(v T) bool {
	if s.equal != nil && s.equal(s.value, v) {
		return false
	}
	s.value = v
	s.version++
	return true
}

// Version implements Versioned.
func (s *Signal[T]) Version() uint64 {
	return s.version
}

// Computed caches the result of fn until one of its dependencies changes
// version. Between changes Get returns the identical cached value.
type Computed[T any] struct {
	fn      func() T
	deps    []Versioned
	seen    []uint64
	value   T
	valid   bool
	version uint64
	runs    int
}

// NewComputed creates a computed value over deps. fn runs on first read, not
// on construction.
func NewComputed[T any](fn func() T, deps ...Versioned) *Computed[T] {
	return &Computed[T]{
		fn:   fn,
		deps: deps,
		seen: make([]uint64, len(deps)),
	}
}

// Get returns the cached value, recomputing it if any dependency moved.
func (c *Computed[T]) Get() T {
	c.refresh()
	return c.value
}

// Version implements Versioned so computed values can depend on each other.
func (c *Computed[T]) Version() uint64 {
	c.refresh()
	return c.version
}

// Runs reports how many times fn has been evaluated.
func (c *Computed[T]) Runs() int {
	return c.runs
}

func (c *Computed[T]) refresh() {
	stale := !c.valid
	for i, dep := range c.deps {
		v := dep.Version()
		if v != c.seen[i] {
			c.seen[i] = v
			stale = true
		}
	}
	if !stale {
		return
	}
	c.value = c.fn()
	c.valid = true
	c.version++
	c.runs++
}
