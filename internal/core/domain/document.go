package domain

import (
	"encoding/json"
	"sort"
)

// ContentType is the "type" tag of a ProcessedContent.
type ContentType string

// Content types produced by the Document Processor.
const (
	ContentText        ContentType = "text"
	ContentCSV         ContentType = "csv"
	ContentExcel       ContentType = "excel"
	ContentWord        ContentType = "word"
	ContentPDF         ContentType = "pdf"
	ContentHTML        ContentType = "html"
	ContentUnsupported ContentType = "unsupported"
	ContentError       ContentType = "error"
)

// String returns the string representation.
func (t ContentType) String() string {
	return string(t)
}

// IsTabular returns true for content types that carry rows instead of a text preview.
func (t ContentType) IsTabular() bool {
	return t == ContentCSV || t == ContentExcel
}

// IsTextLike returns true for content types whose preview is bounded text.
func (t ContentType) IsTextLike() bool {
	switch t {
	case ContentText, ContentWord, ContentPDF, ContentHTML:
		return true
	default:
		return false
	}
}

// DocumentKind is the closed set of handlers the Document Processor dispatches to.
// Adding a kind means adding a case to the processor's switch; the processor
// tests walk AllDocumentKinds to catch a missing arm.
type DocumentKind int

// Document kinds.
const (
	KindText DocumentKind = iota
	KindCSV
	KindExcel
	KindWord
	KindPDF
	KindHTML
)

// AllDocumentKinds returns every document kind in declaration order.
func AllDocumentKinds() []DocumentKind {
	return []DocumentKind{KindText, KindCSV, KindExcel, KindWord, KindPDF, KindHTML}
}

// ContentType returns the result tag produced by this kind.
func (k DocumentKind) ContentType() ContentType {
	switch k {
	case KindText:
		return ContentText
	case KindCSV:
		return ContentCSV
	case KindExcel:
		return ContentExcel
	case KindWord:
		return ContentWord
	case KindPDF:
		return ContentPDF
	case KindHTML:
		return ContentHTML
	default:
		return ContentUnsupported
	}
}

// String returns the configuration name of the kind.
func (k DocumentKind) String() string {
	return string(k.ContentType())
}

// FaultName names the parse fault of this kind's handler. It leads the
// diagnostic of the error variant.
func (k DocumentKind) FaultName() string {
	switch k {
	case KindText:
		return "TextDecodeError"
	case KindCSV:
		return "CSVParseError"
	case KindExcel:
		return "ExcelParseError"
	case KindWord:
		return "WordParseError"
	case KindPDF:
		return "PDFParseError"
	case KindHTML:
		return "HTMLParseError"
	default:
		return "ParseError"
	}
}

// ParseDocumentKind resolves a configuration name ("text", "csv", "excel",
// "word", "pdf", "html") to a kind.
func ParseDocumentKind(name string) (DocumentKind, bool) {
	for _, k := range AllDocumentKinds() {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// builtinExtensionKinds maps the default supported extensions to their handlers.
var builtinExtensionKinds = map[string]DocumentKind{
	"txt":  KindText,
	"md":   KindText,
	"csv":  KindCSV,
	"xlsx": KindExcel,
	"xls":  KindExcel,
	"docx": KindWord,
	"pdf":  KindPDF,
	"html": KindHTML,
	"htm":  KindHTML,
}

// BuiltinKindForExtension returns the handler for one of the built-in extensions.
func BuiltinKindForExtension(ext string) (DocumentKind, bool) {
	k, ok := builtinExtensionKinds[ext]
	return k, ok
}

// Metadata keys shared across document kinds.
const (
	MetaErrorType  = "error_type"
	MetaErrorClass = "error_class"
	MetaEmpty      = "empty"
)

// Error type values recorded under MetaErrorType.
const (
	ErrorTypeParseFailure = "ParseFailure"
)

// FaultInvalidInput is the fault name for a request with no document.
const FaultInvalidInput = "InvalidInput"

// ProcessedContent is the bounded, agent-facing result of processing one document.
// It is built once per request and serialised immediately.
type ProcessedContent struct {
	// Type tags the variant.
	Type ContentType

	// Extension is the lowercased source extension. Reported for the
	// unsupported and error variants.
	Extension string

	// Preview is the bounded text for text-like kinds.
	Preview string

	// Headers is the first row of a tabular document.
	Headers []string

	// Rows are the bounded data rows of a tabular document.
	Rows [][]string

	// Truncated is true when the preview is shorter than the full content.
	Truncated bool

	// Metadata holds format-specific facts.
	Metadata map[string]any

	// Error is the short diagnostic of the error variant.
	Error string
}

// Fields returns the JSON object for this content. The key set depends on the variant:
// text-like kinds carry preview, tabular kinds carry headers and rows,
// unsupported carries extension and message, error carries error.
func (c *ProcessedContent) Fields() map[string]any {
	out := map[string]any{"type": c.Type.String()}

	switch {
	case c.Type == ContentUnsupported:
		out["extension"] = c.Extension
		out["message"] = c.Error
	case c.Type == ContentError:
		out["error"] = c.Error
		if c.Extension != "" {
			out["extension"] = c.Extension
		}
	case c.Type.IsTabular():
		headers := c.Headers
		if headers == nil {
			headers = []string{}
		}
		rows := c.Rows
		if rows == nil {
			rows = [][]string{}
		}
		out["headers"] = headers
		out["rows"] = rows
		out["truncated"] = c.Truncated
	default:
		out["preview"] = c.Preview
		out["truncated"] = c.Truncated
	}

	if len(c.Metadata) > 0 {
		out["metadata"] = c.Metadata
	}
	return out
}

// MarshalJSON implements json.Marshaler using Fields.
func (c ProcessedContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Fields())
}

// MetadataKeys returns the metadata keys in sorted order.
func (c *ProcessedContent) MetadataKeys() []string {
	keys := make([]string, 0, len(c.Metadata))
	for k := range c.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
