package driven

import (
	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// Normaliser converts one kind of document into a bounded preview.
// Normalisers may return an error for structural parse faults; the
// Document Processor converts those into the error variant.
type Normaliser interface {
	// Kind returns the document kind this normaliser handles.
	Kind() domain.DocumentKind

	// Normalise builds the preview for raw. raw.Content is never empty.
	Normalise(raw *domain.RawDocument) (*domain.ProcessedContent, error)
}
