package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// recordingRegistry counts ExpireIdle calls.
type recordingRegistry struct {
	mu      sync.Mutex
	calls   int
	maxIdle time.Duration
	expired []string
}

func (r *recordingRegistry) Create(_ context.Context) (*domain.Session, error) { return nil, nil }
func (r *recordingRegistry) Get(_ context.Context, _ string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}
func (r *recordingRegistry) Touch(_ context.Context, _ string) error { return nil }
func (r *recordingRegistry) Count() int                              { return 0 }

func (r *recordingRegistry) ExpireIdle(_ context.Context, maxIdle time.Duration) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.maxIdle = maxIdle
	return r.expired, nil
}

func (r *recordingRegistry) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestSweeper_StartStop(t *testing.T) {
	registry := &recordingRegistry{}
	sweeper := NewSweeper(registry, domain.SessionSettings{
		IdleTimeout:   time.Minute,
		SweepInterval: 10 * time.Millisecond,
	})

	done := make(chan error, 1)
	go func() { done <- sweeper.Start(context.Background()) }()

	// Wait for at least one sweep.
	deadline := time.After(2 * time.Second)
	for registry.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("sweeper never swept")
		case <-time.After(5 * time.Millisecond):
		}
	}

	require.NoError(t, sweeper.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}

	registry.mu.Lock()
	assert.Equal(t, time.Minute, registry.maxIdle)
	registry.mu.Unlock()
}

func TestSweeper_ContextCancellation(t *testing.T) {
	registry := &recordingRegistry{}
	sweeper := NewSweeper(registry, domain.SessionSettings{
		IdleTimeout:   time.Minute,
		SweepInterval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	sweeper := NewSweeper(&recordingRegistry{}, domain.SessionSettings{})
	assert.NoError(t, sweeper.Stop())
}

func TestSweeper_ExpiresIdleSessions(t *testing.T) {
	registry := newTestRegistry()
	ctx := context.Background()

	session, err := registry.Create(ctx)
	require.NoError(t, err)

	registry.now = func() time.Time { return session.CreatedAt.Add(time.Hour) }

	sweeper := NewSweeper(registry, domain.SessionSettings{
		IdleTimeout:   30 * time.Minute,
		SweepInterval: 10 * time.Millisecond,
	})

	done := make(chan error, 1)
	go func() { done <- sweeper.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for registry.Count() > 0 {
		select {
		case <-deadline:
			t.Fatal("idle session was never expired")
		case <-time.After(5 * time.Millisecond):
		}
	}

	require.NoError(t, sweeper.Stop())
	<-done
}
