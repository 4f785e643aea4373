package driven

import (
	"context"
	"time"
)

// TokenProvider provides the bearer token supplied by the host.
// Implementations never refresh tokens; renewal is the host's job.
type TokenProvider interface {
	// GetToken returns the current access token.
	// Returns domain.ErrAuthRequired when no token is available.
	GetToken(ctx context.Context) (string, error)

	// ExpiresAt returns when the current token expires.
	ExpiresAt() time.Time

	// IsTokenValid returns true while a token is present and unexpired.
	IsTokenValid() bool

	// Headers returns the authorisation headers for a Graph call.
	Headers() map[string]string
}
