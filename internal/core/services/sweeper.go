package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Sweeper periodically expires idle sessions so abandoned uploads do
// not accumulate in memory. The one-shot CLI has no use for it since
// its session dies with the process; long-lived transports (an HTTP
// server driving the same ports) are expected to run one alongside
// the registry.
type Sweeper struct {
	registry driving.SessionRegistry
	settings domain.SessionSettings

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewSweeper creates a sweeper over the given registry.
func NewSweeper(registry driving.SessionRegistry, settings domain.SessionSettings) *Sweeper {
	return &Sweeper{
		registry: registry,
		settings: settings.Normalised(),
	}
}

// Start begins the sweep loop. This method blocks until Stop is called
// or the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	defer s.wg.Done()

	ticker := time.NewTicker(s.settings.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop gracefully shuts down the sweeper.
func (s *Sweeper) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// sweep runs one expiry pass.
func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.registry.ExpireIdle(ctx, s.settings.IdleTimeout)
	if err != nil {
		logger.Warn("Session sweep failed: %v", err)
		return
	}
	if len(expired) > 0 {
		logger.Info("Expired %d idle session(s)", len(expired))
	}
}
