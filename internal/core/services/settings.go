package services

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDebug = "debug"

	keyMaxTextPreview = "document_processing.max_text_preview_length"
	keyMaxRowsPreview = "document_processing.max_rows_preview"
	keyMaxPDFPages    = "document_processing.max_pdf_pages"
	keyExtensions     = "document_processing.supported_extensions"
	keyExtensionKinds = "document_processing.extension_kinds"

	keyDefaultAudience = "content_generation.default_audience"
	keyDefaultPurpose  = "content_generation.default_purpose"
	keyRichLayout      = "content_generation.enable_rich_layout"

	keyGraphBaseURL      = "graph.base_url"
	keyGraphTimeout      = "graph.timeout_seconds"
	keyGraphRPS          = "graph.requests_per_second"
	keyGraphBurst        = "graph.burst"
	keyMaxDownloadBytes  = "graph.max_download_bytes"
	keySimpleUploadLimit = "graph.simple_upload_limit"

	keyTokenExpiresIn = "auth.token_expires_in"
	keyTokenFile      = "auth.token_file"
)

// Environment overrides.
const (
	EnvDebug          = "DEBUG"
	EnvGraphBaseURL   = "GRAPH_BASE_URL"
	EnvTokenExpiresIn = "TOKEN_EXPIRES_IN"
	EnvTokenFile      = "ACCESS_TOKEN_FILE"
)

// SettingsService resolves application settings from the config store and
// the environment.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Debug: s.getBool(keyDebug, defaults.Debug),
		Processing: domain.ProcessingSettings{
			MaxTextPreviewLength: s.getInt(keyMaxTextPreview, defaults.Processing.MaxTextPreviewLength),
			MaxRowsPreview:       s.getInt(keyMaxRowsPreview, defaults.Processing.MaxRowsPreview),
			MaxPDFPages:          s.getInt(keyMaxPDFPages, defaults.Processing.MaxPDFPages),
			SupportedExtensions:  s.getExtensions(defaults.Processing.SupportedExtensions),
			ExtensionKinds:       s.getExtensionKinds(),
		},
		Generation: domain.GenerationSettings{
			DefaultAudience:  s.getString(keyDefaultAudience, defaults.Generation.DefaultAudience),
			DefaultPurpose:   s.getString(keyDefaultPurpose, defaults.Generation.DefaultPurpose),
			EnableRichLayout: s.getBool(keyRichLayout, defaults.Generation.EnableRichLayout),
		},
		Graph: domain.GraphSettings{
			BaseURL:           s.getString(keyGraphBaseURL, defaults.Graph.BaseURL),
			Timeout:           s.getSeconds(keyGraphTimeout, defaults.Graph.Timeout),
			RequestsPerSecond: s.getFloat(keyGraphRPS, defaults.Graph.RequestsPerSecond),
			Burst:             s.getInt(keyGraphBurst, defaults.Graph.Burst),
			MaxDownloadBytes:  int64(s.getInt(keyMaxDownloadBytes, int(defaults.Graph.MaxDownloadBytes))),
			SimpleUploadLimit: int64(s.getInt(keySimpleUploadLimit, int(defaults.Graph.SimpleUploadLimit))),
		},
		Auth: domain.AuthSettings{
			TokenFile:      s.configStore.GetString(keyTokenFile),
			TokenExpiresIn: s.getSeconds(keyTokenExpiresIn, defaults.Auth.TokenExpiresIn),
		},
	}

	if err := applyEnv(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// applyEnv overrides settings from the environment.
func applyEnv(settings *domain.AppSettings) error {
	if v := strings.TrimSpace(os.Getenv(EnvDebug)); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", domain.ErrInvalidInput, EnvDebug, v)
		}
		settings.Debug = debug
	}
	if v := strings.TrimSpace(os.Getenv(EnvGraphBaseURL)); v != "" {
		settings.Graph.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTokenExpiresIn)); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number of seconds", domain.ErrInvalidInput, EnvTokenExpiresIn, v)
		}
		settings.Auth.TokenExpiresIn = time.Duration(secs) * time.Second
	}
	if v := strings.TrimSpace(os.Getenv(EnvTokenFile)); v != "" {
		settings.Auth.TokenFile = v
	}
	return nil
}

// Validate checks resolved settings for values the server cannot run with.
func (s *SettingsService) Validate(settings *domain.AppSettings) error {
	p := settings.Processing
	if p.MaxTextPreviewLength <= 0 || p.MaxRowsPreview <= 0 || p.MaxPDFPages <= 0 {
		return fmt.Errorf("%w: document processing limits must be positive", domain.ErrInvalidInput)
	}
	for ext, name := range p.ExtensionKinds {
		if _, ok := domain.ParseDocumentKind(name); !ok {
			return fmt.Errorf("%w: extension %q maps to unknown kind %q", domain.ErrInvalidInput, ext, name)
		}
	}

	g := settings.Graph
	u, err := url.Parse(g.BaseURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("%w: graph base url %q", domain.ErrInvalidInput, g.BaseURL)
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("%w: graph timeout must be positive", domain.ErrInvalidInput)
	}
	if g.RequestsPerSecond < 0 || g.Burst < 0 {
		return fmt.Errorf("%w: graph rate limit must not be negative", domain.ErrInvalidInput)
	}
	if g.MaxDownloadBytes <= 0 || g.SimpleUploadLimit <= 0 {
		return fmt.Errorf("%w: graph transfer limits must be positive", domain.ErrInvalidInput)
	}

	if settings.Auth.TokenExpiresIn <= 0 {
		return fmt.Errorf("%w: token expiry must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath returns the configuration file in use.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Second
}

// getExtensions normalises configured extensions to lowercase without dots.
func (s *SettingsService) getExtensions(defaultVal []string) []string {
	if _, exists := s.configStore.Get(keyExtensions); !exists {
		return defaultVal
	}
	var exts []string
	for _, ext := range s.configStore.GetStringSlice(keyExtensions) {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	if exts == nil {
		exts = []string{}
	}
	return exts
}

func (s *SettingsService) getExtensionKinds() map[string]string {
	raw := s.configStore.GetStringMap(keyExtensionKinds)
	if len(raw) == 0 {
		return nil
	}
	kinds := make(map[string]string, len(raw))
	for ext, kind := range raw {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		kinds[ext] = strings.ToLower(strings.TrimSpace(kind))
	}
	return kinds
}
