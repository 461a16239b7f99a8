package server

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vanshika/vizdash/internal/dashboard"
	"github.com/vanshika/vizdash/internal/datasource"
	"github.com/vanshika/vizdash/internal/store"
)

// Kind names a dashboard page.
type Kind string

const (
	KindAid      Kind = "aid"
	KindElection Kind = "election"
)

var (
	ErrUnknownKind     = errors.New("unknown page kind")
	ErrSessionNotFound = errors.New("session not found")
	ErrWrongKind       = errors.New("interaction not supported by this page")
	ErrTooManySessions = errors.New("too many open sessions")
)

// Sources are the data sources new pages load from.
type Sources struct {
	Aid      datasource.AidSource
	Election datasource.ElectionSource
}

// Session is one browser page backed by its own store.
type Session struct {
	ID      uuid.UUID
	Kind    Kind
	Created time.Time

	Aid      *dashboard.AidPage
	Election *dashboard.ElectionPage

	loaded <-chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// Done is closed when the session is deleted.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Subscribe forwards store change notifications to fn.
func (s *Session) Subscribe(fn store.Listener) func() {
	if s.Aid != nil {
		return s.Aid.Store().Subscribe(fn)
	}
	return s.Election.Store().Subscribe(fn)
}

// Reload starts a fresh load of every source. Older loads still in flight
// are superseded.
func (s *Session) Reload(ctx context.Context) <-chan struct{} {
	if s.Aid != nil {
		return s.Aid.Store().Load(ctx)
	}
	return s.Election.Store().Load(ctx)
}

// Wait blocks until the initial load finished or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// View returns the page's current view model.
func (s *Session) View() any {
	if s.Aid != nil {
		return s.Aid.View()
	}
	return s.Election.View()
}

// State is the summary returned by the session endpoints.
type State struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"`
	Created time.Time `json:"created"`
	Loading bool      `json:"loading"`
	Status  any       `json:"status"`
}

// State summarises the session.
func (s *Session) State() State {
	st := State{ID: s.ID, Kind: s.Kind, Created: s.Created}
	if s.Aid != nil {
		st.Loading = s.Aid.Store().Loading()
		st.Status = s.Aid.Store().Status()
	} else {
		st.Loading = s.Election.Store().Loading()
		st.Status = s.Election.Store().Status()
	}
	return st
}

// Sessions is the registry of open pages.
type Sessions struct {
	sources Sources
	log     *zap.Logger
	limit   int

	mu    sync.RWMutex
	items map[uuid.UUID]*Session
}

// DefaultSessionLimit caps the number of concurrently open pages.
const DefaultSessionLimit = 256

// NewSessions returns an empty registry.
func NewSessions(sources Sources, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sessions{
		sources: sources,
		log:     log.Named("sessions"),
		limit:   DefaultSessionLimit,
		items:   make(map[uuid.UUID]*Session),
	}
}

// Create opens a page of kind and starts loading its data. The load is
// bound to the session, not to the calling request.
func (r *Sessions) Create(kind Kind) (*Session, error) {
	sess := &Session{ID: uuid.New(), Kind: kind, Created: time.Now().UTC()}
	storeLog := r.log.With(zap.String("session", sess.ID.String()))

	switch kind {
	case KindAid:
		if r.sources.Aid == nil {
			return nil, errors.Wrapf(ErrUnknownKind, "%q is not configured", kind)
		}
		sess.Aid = dashboard.NewAidPage(store.NewAidStore(r.sources.Aid, storeLog), dashboard.DefaultAidLayout)
	case KindElection:
		if r.sources.Election == nil {
			return nil, errors.Wrapf(ErrUnknownKind, "%q is not configured", kind)
		}
		sess.Election = dashboard.NewElectionPage(store.NewElectionStore(r.sources.Election, storeLog), dashboard.DefaultElectionLayout)
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) >= r.limit {
		return nil, ErrTooManySessions
	}
	sess.ctx, sess.cancel = context.WithCancel(context.Background())
	sess.loaded = sess.Reload(sess.ctx)
	r.items[sess.ID] = sess

	r.log.Info("session opened", zap.String("session", sess.ID.String()), zap.String("kind", string(kind)))
	return sess, nil
}

// Get returns the session with the given id.
func (r *Sessions) Get(id string) (*Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.Wrapf(ErrSessionNotFound, "%q", id)
	}
	r.mu.RLock()
	sess, ok := r.items[uid]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "%q", id)
	}
	return sess, nil
}

// Delete closes the session and cancels its loads.
func (r *Sessions) Delete(id string) error {
	sess, err := r.Get(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.items, sess.ID)
	r.mu.Unlock()
	sess.cancel()
	r.log.Info("session closed", zap.String("session", sess.ID.String()))
	return nil
}

// Len reports the number of open sessions.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Close cancels every session.
func (r *Sessions) Close() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[uuid.UUID]*Session)
	r.mu.Unlock()
	for _, sess := range items {
		sess.cancel()
	}
}
