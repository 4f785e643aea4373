package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/sharepoint-mcp/internal/logger"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers/csv"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers/docx"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers/excel"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers/html"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers/pdf"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers/plaintext"
)

// Ensure DocumentProcessor implements the interface.
var _ driving.DocumentProcessor = (*DocumentProcessor)(nil)

// DocumentProcessor dispatches raw documents to the normaliser for their
// extension. It holds no state between calls and is safe for concurrent use.
type DocumentProcessor struct {
	settings domain.ProcessingSettings
	kinds    map[string]domain.DocumentKind

	text  driven.Normaliser
	csv   driven.Normaliser
	excel driven.Normaliser
	word  driven.Normaliser
	pdf   driven.Normaliser
	html  driven.Normaliser
}

// NewDocumentProcessor builds a processor from settings. Non-positive bounds
// fall back to defaults. Entries in settings.ExtensionKinds that name an
// unknown kind are ignored with a warning.
func NewDocumentProcessor(settings domain.ProcessingSettings) *DocumentProcessor {
	s := settings.Normalised()

	return &DocumentProcessor{
		settings: s,
		kinds:    resolveExtensionKinds(s),
		text:     plaintext.New(s.MaxTextPreviewLength),
		csv:      csv.New(s.MaxRowsPreview),
		excel:    excel.New(s.MaxRowsPreview),
		word:     docx.New(s.MaxTextPreviewLength),
		pdf:      pdf.New(s.MaxTextPreviewLength, s.MaxPDFPages),
		html:     html.New(s.MaxTextPreviewLength),
	}
}

// resolveExtensionKinds builds the dispatch table: supported extensions with
// a built-in handler, plus configured aliases.
func resolveExtensionKinds(s domain.ProcessingSettings) map[string]domain.DocumentKind {
	kinds := make(map[string]domain.DocumentKind)

	for _, ext := range s.SupportedExtensions {
		ext = normaliseExtension(ext)
		if kind, ok := domain.BuiltinKindForExtension(ext); ok {
			kinds[ext] = kind
		} else if _, aliased := s.ExtensionKinds[ext]; !aliased {
			logger.Warn("supported extension %q has no handler; add it to extension_kinds", ext)
		}
	}

	for ext, name := range s.ExtensionKinds {
		kind, ok := domain.ParseDocumentKind(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			logger.Warn("extension_kinds: %q maps to unknown kind %q", ext, name)
			continue
		}
		kinds[normaliseExtension(ext)] = kind
	}

	return kinds
}

func normaliseExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// Settings returns the effective processing limits.
func (p *DocumentProcessor) Settings() domain.ProcessingSettings {
	return p.settings
}

// Supports reports whether the extension dispatches to a handler.
func (p *DocumentProcessor) Supports(ext string) bool {
	_, ok := p.kinds[normaliseExtension(ext)]
	return ok
}

// Extensions returns the recognised extensions grouped by kind.
func (p *DocumentProcessor) Extensions() map[string][]string {
	out := make(map[string][]string)
	for _, kind := range domain.AllDocumentKinds() {
		out[kind.String()] = []string{}
	}
	for ext, kind := range p.kinds {
		out[kind.String()] = append(out[kind.String()], ext)
	}
	for k := range out {
		sort.Strings(out[k])
	}
	return out
}

// Process turns raw into a bounded preview. It never panics and never
// returns nil: unsupported extensions and parse faults are reported through
// the content type.
func (p *DocumentProcessor) Process(raw *domain.RawDocument) (content *domain.ProcessedContent) {
	if raw == nil {
		return normalisers.Failure("", domain.FaultInvalidInput, domain.ErrInvalidInput)
	}

	ext := raw.Extension()
	kind, ok := p.kinds[ext]
	if !ok {
		logger.Debug("processor: %s: unsupported extension %q", raw.Filename, ext)
		return normalisers.Unsupported(ext)
	}

	handler := p.handler(kind)
	if handler == nil {
		return normalisers.Unsupported(ext)
	}

	if len(raw.Content) == 0 {
		return normalisers.Empty(kind)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("processor: %s: %s handler panicked: %v", raw.Filename, kind, r)
			content = normalisers.Failure(ext, kind.FaultName(), fmt.Errorf("%s parser panic: %v", kind, r))
		}
		logger.Debug("processor: %s (%d bytes) as %s -> %s in %s",
			raw.Filename, len(raw.Content), kind, content.Type, time.Since(start))
	}()

	result, err := handler.Normalise(raw)
	if err != nil {
		logger.Debug("processor: %s: %v", raw.Filename, err)
		return normalisers.Failure(ext, kind.FaultName(), err)
	}
	if result == nil {
		return normalisers.Empty(kind)
	}
	return result
}

// handler is the closed dispatch from kind to normaliser. A kind without an
// arm falls through to unsupported.
func (p *DocumentProcessor) handler(kind domain.DocumentKind) driven.Normaliser {
	switch kind {
	case domain.KindText:
		return p.text
	case domain.KindCSV:
		return p.csv
	case domain.KindExcel:
		return p.excel
	case domain.KindWord:
		return p.word
	case domain.KindPDF:
		return p.pdf
	case domain.KindHTML:
		return p.html
	default:
		return nil
	}
}
