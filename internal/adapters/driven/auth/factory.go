package auth

import (
	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
)

// EnvAccessToken names the variable the host puts the token in.
const EnvAccessToken = "ACCESS_TOKEN"

// NewProvider picks the provider for the resolved auth settings.
// A configured token file wins over accessToken.
func NewProvider(settings domain.AuthSettings, accessToken string) (driven.TokenProvider, error) {
	expiresIn := settings.TokenExpiresIn
	if expiresIn <= 0 {
		expiresIn = domain.DefaultTokenExpiresIn
	}

	if settings.TokenFile != "" {
		return NewFileProvider(settings.TokenFile, expiresIn)
	}
	return NewStaticProvider(accessToken, expiresIn), nil
}
