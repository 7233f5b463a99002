package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// SessionRegistry manages session lifecycle for external actors.
type SessionRegistry interface {
	// Create mints a fresh session with an unguessable identifier.
	Create(ctx context.Context) (*domain.Session, error)

	// Get returns session metadata, or domain.ErrSessionNotFound.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Touch updates the session's last-access time.
	Touch(ctx context.Context, sessionID string) error

	// ExpireIdle tears down sessions idle longer than maxIdle and
	// returns their identifiers. Sessions with in-flight operations
	// are skipped and picked up by a later sweep.
	ExpireIdle(ctx context.Context, maxIdle time.Duration) ([]string, error)

	// Count returns the number of live sessions.
	Count() int
}
