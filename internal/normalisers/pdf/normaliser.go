// Package pdf extracts page text from PDF documents.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ErrNoReadablePages is returned when every scanned page failed to extract.
var ErrNoReadablePages = errors.New("no readable pages")

// Normaliser handles PDF documents.
type Normaliser struct {
	maxLength int
	maxPages  int
}

// New creates a PDF normaliser that scans at most maxPages pages and keeps
// at most maxLength characters of text.
func New(maxLength, maxPages int) *Normaliser {
	return &Normaliser{maxLength: maxLength, maxPages: maxPages}
}

// Kind returns the document kind this normaliser handles.
func (n *Normaliser) Kind() domain.DocumentKind {
	return domain.KindPDF
}

// Normalise extracts text page by page. A page that fails to extract
// contributes nothing; if all scanned pages fail the document is reported
// as unreadable.
func (n *Normaliser) Normalise(raw *domain.RawDocument) (*domain.ProcessedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total, err := pageCount(reader)
	if err != nil {
		return nil, err
	}

	scan := total
	if n.maxPages > 0 && scan > n.maxPages {
		scan = n.maxPages
	}

	pages := make([]string, 0, scan)
	failed := 0
	var firstErr error
	for i := 1; i <= scan; i++ {
		text, err := pageText(reader, i)
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if text != "" {
			pages = append(pages, text)
		}
	}

	if scan > 0 && failed == scan {
		return nil, fmt.Errorf("%w: %v", ErrNoReadablePages, firstErr)
	}

	content := normalisers.TextContent(domain.ContentPDF, strings.Join(pages, "\n"), n.maxLength)
	if scan < total {
		content.Truncated = true
	}
	content.Metadata["page_count"] = total
	content.Metadata["pages_scanned"] = scan
	content.Metadata["pages_failed"] = failed
	return content, nil
}

// pageCount reads the page tree. The reader panics on malformed trees.
func pageCount(r *pdf.Reader) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("read page tree: %v", rec)
		}
	}()
	return r.NumPage(), nil
}

// pageText extracts the plain text of page num (1-based).
func pageText(r *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", num, rec)
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: not found", num)
	}
	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", num, err)
	}
	return strings.TrimSpace(text), nil
}
