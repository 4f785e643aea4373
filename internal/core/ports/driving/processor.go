package driving

import "github.com/custodia-labs/sharepoint-mcp/internal/core/domain"

// DocumentProcessor turns raw document bytes into a bounded preview.
type DocumentProcessor interface {
	// Process never fails: unsupported formats and parse faults are
	// reported through the returned content's type.
	Process(raw *domain.RawDocument) *domain.ProcessedContent

	// Settings returns the effective processing limits.
	Settings() domain.ProcessingSettings

	// Supports reports whether the extension dispatches to a handler.
	Supports(ext string) bool

	// Extensions returns the recognised extensions grouped by kind name.
	Extensions() map[string][]string
}

// ContentGenerator produces list columns, library columns and page layouts
// from purpose and audience templates.
type ContentGenerator interface {
	// ListColumns returns the columns of an intelligent list for purpose.
	ListColumns(purpose domain.Purpose) []domain.ColumnDefinition

	// LibraryColumns returns the metadata columns of a document library.
	LibraryColumns(docType string) []domain.ColumnDefinition

	// PageTitle returns a title for a page that was created without one.
	PageTitle(purpose domain.Purpose, name string) string

	// PageLayout returns the sections of a new page.
	PageLayout(purpose domain.Purpose, audience, title string) domain.PageLayout

	// NewsLayout wraps rendered news content under a heading.
	NewsLayout(title, description, bodyHTML string) domain.PageLayout

	// ResolvePurpose parses purpose, applying the configured default when empty.
	ResolvePurpose(purpose string) domain.Purpose

	// ResolveAudience applies the configured default audience when empty.
	ResolveAudience(audience string) string
}
