package auth

import (
	"time"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
)

// Ensure StaticProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticProvider)(nil)

// StaticProvider holds a token handed over once at startup, typically from
// the ACCESS_TOKEN environment variable.
type StaticProvider struct {
	tokenState
}

// NewStaticProvider creates a provider whose token expires expiresIn after
// creation. An empty token makes GetToken return domain.ErrAuthRequired.
func NewStaticProvider(token string, expiresIn time.Duration) *StaticProvider {
	p := &StaticProvider{}
	var expiresAt time.Time
	if token != "" {
		expiresAt = p.clock().Add(expiresIn)
	}
	p.set(token, expiresAt)
	return p
}
