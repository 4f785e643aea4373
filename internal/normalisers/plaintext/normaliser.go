package plaintext

import (
	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text and markdown documents.
type Normaliser struct {
	maxLength int
}

// New creates a new plain text normaliser that keeps at most maxLength characters.
func New(maxLength int) *Normaliser {
	return &Normaliser{maxLength: maxLength}
}

// Kind returns the document kind this normaliser handles.
func (n *Normaliser) Kind() domain.DocumentKind {
	return domain.KindText
}

// Normalise decodes the content and bounds it to the configured length.
// Decoding never fails: invalid bytes are replaced.
func (n *Normaliser) Normalise(raw *domain.RawDocument) (*domain.ProcessedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := normalisers.DecodeText(raw.Content)

	content := normalisers.TextContent(domain.ContentText, text, n.maxLength)
	content.Metadata["length"] = normalisers.RuneLen(text)
	content.Metadata["line_count"] = normalisers.LineCount(text)
	content.Metadata["format"] = formatOf(raw.Extension())
	return content, nil
}

// formatOf names the flavour of text for metadata.
func formatOf(ext string) string {
	switch ext {
	case "md", "markdown":
		return "markdown"
	default:
		return "plain"
	}
}
