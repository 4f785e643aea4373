package driving

import "github.com/custodia-labs/sharepoint-mcp/internal/core/domain"

// SettingsService resolves application settings.
type SettingsService interface {
	// Get returns settings with defaults, file values and environment
	// overrides applied, in that order.
	Get() (*domain.AppSettings, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks resolved settings for values the server cannot run with.
	Validate(settings *domain.AppSettings) error

	// ConfigPath returns the configuration file in use.
	ConfigPath() string
}
