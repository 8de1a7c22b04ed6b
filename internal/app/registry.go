package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flashdeck/internal/models"
	"flashdeck/internal/repository"
)

// Publisher receives a session's screen after every change.
type Publisher interface {
	Publish(ctx context.Context, sessionID string, screen models.Screen)
}

// DefaultIdleTTL is how long an unused session stays in memory.
const DefaultIdleTTL = 30 * time.Minute

type session struct {
	mu       sync.Mutex
	state    *State
	lastUsed time.Time
	// evicted is set under mu once the session left the registry map;
	// holders of a stale pointer must look the id up again.
	evicted bool
}

// Registry maps session ids to their state. Work on one session is
// serialized by that session's lock; different sessions run in parallel.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*session
	store     *repository.DeckStore
	opts      Options
	logger    *zap.Logger
	publisher Publisher
	now       func() time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewRegistry(store *repository.DeckStore, opts Options, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*session),
		store:    store,
		opts:     opts.withDefaults(),
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// StartEviction drops idle sessions every interval until Stop is called.
// Evicted sessions are restored from the deck store on their next request.
func (r *Registry) StartEviction(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.EvictIdle(); n > 0 {
					r.logger.Debug("evicted idle sessions", zap.Int("count", n))
				}
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop ends the eviction goroutine.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// EvictIdle removes sessions unused for longer than the idle TTL and
// reports how many were removed. Sessions busy in Do or with an import in
// flight are skipped.
func (r *Registry) EvictIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	evicted := 0
	for id, s := range r.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if now.Sub(s.lastUsed) > r.opts.IdleTTL && !s.state.ImportPending {
			s.evicted = true
			delete(r.sessions, id)
			evicted++
		}
		s.mu.Unlock()
	}
	return evicted
}

func (r *Registry) SetPublisher(p Publisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publisher = p
}

// Create starts a new empty session and returns its id.
func (r *Registry) Create(ctx context.Context) string {
	id := uuid.NewString()
	r.session(ctx, id)
	r.logger.Info("session created", zap.String("session_id", id))
	return id
}

// session returns the live session for id, restoring it from the store
// when this process has not seen it yet.
func (r *Registry) session(ctx context.Context, id string) *session {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s
	}

	state := NewState(id, r.store.Load(ctx, id), r.store.LoadPrefs(ctx, id), r.opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s = &session{state: state, lastUsed: r.now()}
	r.sessions[id] = s
	return s
}

// Do runs fn with exclusive access to the session. If fn rendered a new
// screen, it is published once the lock is released.
func (r *Registry) Do(ctx context.Context, id string, fn func(c *Controller) error) error {
	var (
		changed bool
		screen  models.Screen
	)
	err := func() error {
		s := r.lock(ctx, id)
		defer s.mu.Unlock()
		before := s.state.version
		err := fn(newController(ctx, s.state, r.store, r.opts, r.logger))
		changed = s.state.version != before
		screen = s.state.screen
		return err
	}()

	if changed {
		r.mu.RLock()
		p := r.publisher
		r.mu.RUnlock()
		if p != nil {
			p.Publish(ctx, id, screen)
		}
	}
	return err
}

// lock returns the live session for id with its mutex held.
func (r *Registry) lock(ctx context.Context, id string) *session {
	for {
		s := r.session(ctx, id)
		s.mu.Lock()
		if !s.evicted {
			s.lastUsed = r.now()
			return s
		}
		s.mu.Unlock()
	}
}

// Screen returns the session's current screen.
func (r *Registry) Screen(ctx context.Context, id string) models.Screen {
	var screen models.Screen
	r.Do(ctx, id, func(c *Controller) error {
		screen = c.Screen()
		return nil
	})
	return screen
}

// Import decodes a deck outside the session lock and commits it under the
// lock. A second import for the same session fails with IMPORT_PENDING
// while the first one is still decoding.
func (r *Registry) Import(ctx context.Context, id, name string, decode func(ctx context.Context) (models.Deck, error)) (models.Screen, error) {
	if err := r.Do(ctx, id, func(c *Controller) error { return c.beginImport() }); err != nil {
		return models.Screen{}, err
	}

	committed := false
	defer func() {
		if !committed {
			r.Do(context.WithoutCancel(ctx), id, func(c *Controller) error {
				c.endImport()
				return nil
			})
		}
	}()

	deck, decodeErr := decode(ctx)

	var screen models.Screen
	err := r.Do(ctx, id, func(c *Controller) error {
		c.endImport()
		committed = true
		if decodeErr != nil {
			return decodeErr
		}
		var err error
		screen, err = c.AddDeck(name, deck)
		return err
	})
	return screen, err
}

// Len reports how many sessions are live in this process.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
