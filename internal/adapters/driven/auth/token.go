package auth

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// tokenState is the mutable token shared by the providers.
type tokenState struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	// now is replaced in tests.
	now func() time.Time
}

func (s *tokenState) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *tokenState) set(token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiresAt = expiresAt
}

// GetToken returns the current access token.
func (s *tokenState) GetToken(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", domain.ErrAuthRequired
	}
	return s.token, nil
}

// ExpiresAt returns when the current token expires.
func (s *tokenState) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// IsTokenValid returns true while a token is present and unexpired.
// A token without an expiry is never valid.
func (s *tokenState) IsTokenValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.expiresAt.IsZero() {
		return false
	}
	return s.clock().Before(s.expiresAt)
}

// Headers returns the headers for a Graph call.
func (s *tokenState) Headers() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]string{
		"Authorization": "Bearer " + s.token,
		"Content-Type":  "application/json",
		"Accept":        "application/json",
	}
}
