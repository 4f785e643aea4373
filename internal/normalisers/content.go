package normalisers

import (
	"errors"
	"strings"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

// MaxDiagnosticLength bounds the error text of the error variant.
const MaxDiagnosticLength = 200

// TextContent builds a text-like result, truncating text to limit characters.
func TextContent(t domain.ContentType, text string, limit int) *domain.ProcessedContent {
	preview, truncated := Truncate(text, limit)
	return &domain.ProcessedContent{
		Type:      t,
		Preview:   preview,
		Truncated: truncated,
		Metadata:  make(map[string]any),
	}
}

// TableContent builds a tabular result from records. The first record is the
// header row; at most maxRows data rows are kept.
func TableContent(t domain.ContentType, records [][]string, maxRows int) *domain.ProcessedContent {
	content := &domain.ProcessedContent{
		Type:     t,
		Headers:  []string{},
		Rows:     [][]string{},
		Metadata: make(map[string]any),
	}
	if len(records) == 0 {
		content.Metadata["total_rows"] = 0
		content.Metadata["column_count"] = 0
		return content
	}

	content.Headers = records[0]
	data := records[1:]
	if maxRows > 0 && len(data) > maxRows {
		content.Rows = data[:maxRows]
		content.Truncated = true
	} else {
		content.Rows = data
	}
	content.Metadata["total_rows"] = len(data)
	content.Metadata["column_count"] = len(content.Headers)
	return content
}

// Failure builds the error variant for a parse fault in a document with
// extension ext. The diagnostic leads with the fault name.
func Failure(ext, fault string, err error) *domain.ProcessedContent {
	msg := "unknown parse failure"
	if err != nil {
		msg = err.Error()
	}
	return &domain.ProcessedContent{
		Type:      domain.ContentError,
		Extension: ext,
		Error:     boundLine(fault + ": " + msg),
		Metadata: map[string]any{
			domain.MetaErrorType:  domain.ErrorTypeParseFailure,
			domain.MetaErrorClass: fault,
		},
	}
}

// boundLine flattens s onto one line and bounds it to MaxDiagnosticLength.
func boundLine(s string) string {
	msg := strings.Join(strings.Fields(s), " ")
	if msg == "" {
		msg = "parse failure"
	}
	if RuneLen(msg) > MaxDiagnosticLength {
		cut, _ := Truncate(msg, MaxDiagnosticLength-3)
		msg = cut + "..."
	}
	return msg
}

// ErrNoContent is returned by normalisers when a container format holds no
// readable body, such as a DOCX archive without word/document.xml.
var ErrNoContent = errors.New("document body not found")

// Empty builds the result for zero-length input of kind.
func Empty(kind domain.DocumentKind) *domain.ProcessedContent {
	t := kind.ContentType()
	var content *domain.ProcessedContent
	if t.IsTabular() {
		content = TableContent(t, nil, 0)
	} else {
		content = TextContent(t, "", 0)
	}
	content.Metadata[domain.MetaEmpty] = true
	return content
}

// Unsupported builds the result for an extension with no handler.
func Unsupported(ext string) *domain.ProcessedContent {
	shown := ext
	if shown == "" {
		shown = "(none)"
	} else {
		shown = "." + shown
	}
	return &domain.ProcessedContent{
		Type:      domain.ContentUnsupported,
		Extension: ext,
		Error:     "Unsupported file type: " + shown,
	}
}
