package auth

import (
	"time"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
)

// Ensure SandboxProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*SandboxProvider)(nil)

// SandboxToken is the token handed out by SandboxProvider.
const SandboxToken = "sandbox"

// SandboxProvider is used with the in-memory tenant, which needs no
// authentication. Its token never expires.
type SandboxProvider struct {
	tokenState
}

// NewSandboxProvider creates a provider for sandbox mode.
func NewSandboxProvider() *SandboxProvider {
	p := &SandboxProvider{}
	p.set(SandboxToken, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))
	return p
}
