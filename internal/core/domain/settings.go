package domain

import "time"

// Default values for application settings.
const (
	DefaultMaxTextPreviewLength = 5000
	DefaultMaxRowsPreview       = 50
	DefaultMaxPDFPages          = 25

	DefaultGraphBaseURL      = "https://graph.microsoft.com/v1.0"
	DefaultGraphTimeout      = 30 * time.Second
	DefaultRequestsPerSecond = 8.0
	DefaultBurst             = 10
	DefaultMaxDownloadBytes  = 50 << 20
	DefaultSimpleUploadLimit = 4 << 20

	DefaultTokenExpiresIn = time.Hour

	DefaultAudience = "general"
	DefaultPurpose  = "general"
)

// DefaultSupportedExtensions returns the extensions the Document Processor
// recognises out of the box.
func DefaultSupportedExtensions() []string {
	return []string{"csv", "xlsx", "xls", "docx", "pdf", "txt", "md", "html", "htm"}
}

// ProcessingSettings bounds the Document Processor.
type ProcessingSettings struct {
	// MaxTextPreviewLength caps text/markdown/html/docx/pdf previews, in characters.
	MaxTextPreviewLength int

	// MaxRowsPreview caps CSV/Excel data rows returned.
	MaxRowsPreview int

	// MaxPDFPages caps how many PDF pages are scanned.
	MaxPDFPages int

	// SupportedExtensions is the dispatch table's recognised keys.
	SupportedExtensions []string

	// ExtensionKinds maps extra extensions to a built-in handler kind name
	// ("text", "csv", "excel", "word", "pdf", "html").
	ExtensionKinds map[string]string
}

// GenerationSettings holds content generator defaults.
type GenerationSettings struct {
	DefaultAudience  string
	DefaultPurpose   string
	EnableRichLayout bool
}

// GraphSettings configures the Microsoft Graph client.
type GraphSettings struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int

	// MaxDownloadBytes bounds a single document download.
	MaxDownloadBytes int64

	// SimpleUploadLimit is the largest payload sent with a single PUT;
	// anything larger goes through an upload session.
	SimpleUploadLimit int64
}

// AuthSettings configures where the host-supplied token comes from.
type AuthSettings struct {
	// TokenFile, when set, is re-read whenever the host rewrites it.
	TokenFile string

	// TokenExpiresIn is the assumed lifetime of a token that carries no expiry.
	TokenExpiresIn time.Duration
}

// AppSettings is the full resolved configuration.
type AppSettings struct {
	Debug      bool
	Processing ProcessingSettings
	Generation GenerationSettings
	Graph      GraphSettings
	Auth       AuthSettings
}

// DefaultAppSettings returns settings with all defaults applied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Processing: DefaultProcessingSettings(),
		Generation: GenerationSettings{
			DefaultAudience:  DefaultAudience,
			DefaultPurpose:   DefaultPurpose,
			EnableRichLayout: true,
		},
		Graph: GraphSettings{
			BaseURL:           DefaultGraphBaseURL,
			Timeout:           DefaultGraphTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
			MaxDownloadBytes:  DefaultMaxDownloadBytes,
			SimpleUploadLimit: DefaultSimpleUploadLimit,
		},
		Auth: AuthSettings{
			TokenExpiresIn: DefaultTokenExpiresIn,
		},
	}
}

// DefaultProcessingSettings returns the Document Processor defaults.
func DefaultProcessingSettings() ProcessingSettings {
	return ProcessingSettings{
		MaxTextPreviewLength: DefaultMaxTextPreviewLength,
		MaxRowsPreview:       DefaultMaxRowsPreview,
		MaxPDFPages:          DefaultMaxPDFPages,
		SupportedExtensions:  DefaultSupportedExtensions(),
	}
}

// Normalised returns a copy with non-positive bounds replaced by defaults.
func (s ProcessingSettings) Normalised() ProcessingSettings {
	if s.MaxTextPreviewLength <= 0 {
		s.MaxTextPreviewLength = DefaultMaxTextPreviewLength
	}
	if s.MaxRowsPreview <= 0 {
		s.MaxRowsPreview = DefaultMaxRowsPreview
	}
	if s.MaxPDFPages <= 0 {
		s.MaxPDFPages = DefaultMaxPDFPages
	}
	if s.SupportedExtensions == nil {
		s.SupportedExtensions = DefaultSupportedExtensions()
	}
	return s
}
