package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Registry implements the interface.
var _ driving.SessionRegistry = (*Registry)(nil)

// StoreFactory creates a fresh session-scoped document store.
type StoreFactory func() driven.DocumentStore

// IndexFactory creates a fresh session-scoped vector index with the
// given dimensionality.
type IndexFactory func(dimensions int) (driven.VectorIndex, error)

// sessionState bundles everything the registry holds for one session.
// The store and index are created per session, so no two sessions can
// ever see each other's documents or vectors.
type sessionState struct {
	session  *domain.Session
	docs     driven.DocumentStore
	index    driven.VectorIndex
	inFlight int
}

// Registry manages session lifecycle. Each session owns its own
// document store and vector index, created through the injected
// factories.
type Registry struct {
	newStore StoreFactory
	newIndex IndexFactory

	mu       sync.Mutex
	sessions map[string]*sessionState

	now func() time.Time
}

// NewRegistry creates a session registry backed by the given factories.
func NewRegistry(newStore StoreFactory, newIndex IndexFactory) *Registry {
	return &Registry{
		newStore: newStore,
		newIndex: newIndex,
		sessions: make(map[string]*sessionState),
		now:      time.Now,
	}
}

// Create mints a fresh session with a cryptographically random identifier.
func (r *Registry) Create(_ context.Context) (*domain.Session, error) {
	id, err := domain.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	state := &sessionState{
		session: &domain.Session{
			ID:         id,
			CreatedAt:  now,
			LastAccess: now,
		},
		docs: r.newStore(),
	}
	r.sessions[id] = state

	logger.Debug("Session created: %s", id)

	snapshot := *state.session
	return &snapshot, nil
}

// Get returns a copy of the session metadata.
func (r *Registry) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	snapshot := *state.session
	return &snapshot, nil
}

// Touch updates the session's last-access time.
func (r *Registry) Touch(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}

	state.session.LastAccess = r.now()
	return nil
}

// ExpireIdle tears down sessions idle longer than maxIdle and returns
// their identifiers. Sessions with in-flight operations are skipped so
// an upload or question never races its own teardown; a later sweep
// picks them up.
func (r *Registry) ExpireIdle(_ context.Context, maxIdle time.Duration) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var expired []string

	for id, state := range r.sessions {
		if state.inFlight > 0 {
			continue
		}
		if state.session.IdleSince(now) < maxIdle {
			continue
		}

		if state.index != nil {
			if err := state.index.Close(); err != nil {
				logger.Warn("Session %s: index close failed: %v", id, err)
			}
		}
		delete(r.sessions, id)
		expired = append(expired, id)
	}

	sort.Strings(expired)
	return expired, nil
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// acquire marks an operation in flight against an existing session and
// refreshes its last-access time. Every acquire must be paired with a
// release.
func (r *Registry) acquire(sessionID string) (*sessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	state.inFlight++
	state.session.LastAccess = r.now()
	return state, nil
}

// ensure is acquire for sessions that may not exist yet: uploading to
// an unknown session identifier creates it.
func (r *Registry) ensure(sessionID string) (*sessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session ID", domain.ErrInvalidInput)
	}

	state, ok := r.sessions[sessionID]
	if !ok {
		now := r.now()
		state = &sessionState{
			session: &domain.Session{
				ID:         sessionID,
				CreatedAt:  now,
				LastAccess: now,
			},
			docs: r.newStore(),
		}
		r.sessions[sessionID] = state
		logger.Debug("Session created on first upload: %s", sessionID)
	}

	state.inFlight++
	state.session.LastAccess = r.now()
	return state, nil
}

// release ends an in-flight operation started by acquire or ensure.
func (r *Registry) release(state *sessionState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state.inFlight > 0 {
		state.inFlight--
	}
}

// ensureIndex returns the session's vector index, creating it on first
// use with the observed embedding dimensionality. A later call with a
// different dimensionality fails rather than silently mixing vector
// spaces.
func (r *Registry) ensureIndex(state *sessionState, dimensions int) (driven.VectorIndex, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state.index == nil {
		index, err := r.newIndex(dimensions)
		if err != nil {
			return nil, fmt.Errorf("create vector index: %w", err)
		}
		state.index = index
		return index, nil
	}

	if state.index.Dimensions() != dimensions {
		return nil, fmt.Errorf("%w: index has %d dimensions, embedding has %d",
			domain.ErrDimensionMismatch, state.index.Dimensions(), dimensions)
	}
	return state.index, nil
}

// indexOf returns the session's vector index, or nil when no document
// has been indexed yet.
func (r *Registry) indexOf(state *sessionState) driven.VectorIndex {
	r.mu.Lock()
	defer r.mu.Unlock()
	return state.index
}
