package domain

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// Session ID length in random bytes before encoding.
const sessionIDLength = 32

// Session is an isolated per-user scope. Each session owns its
// documents and its vector index; nothing is shared between
// sessions.
type Session struct {
	// ID is the opaque, cryptographically unguessable identifier.
	ID string

	// CreatedAt is when the session was first seen.
	CreatedAt time.Time

	// LastAccess is when the session last served a request.
	// Used by the idle-expiry sweep.
	LastAccess time.Time
}

// IdleSince returns how long the session has been idle at the given time.
func (s *Session) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.LastAccess)
}

// NewSessionID creates a cryptographically random session identifier.
func NewSessionID() (string, error) {
	bytes := make([]byte, sessionIDLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	// Use base64url encoding without padding
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
