package html

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct {
	maxLength int
}

// New creates a new HTML normaliser that keeps at most maxLength characters.
func New(maxLength int) *Normaliser {
	return &Normaliser{maxLength: maxLength}
}

// Kind returns the document kind this normaliser handles.
func (n *Normaliser) Kind() domain.DocumentKind {
	return domain.KindHTML
}

// Normalise converts an HTML document to plain text.
func (n *Normaliser) Normalise(raw *domain.RawDocument) (*domain.ProcessedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, title, err := extractText(normalisers.DecodeText(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("tokenize html: %w", err)
	}

	content := normalisers.TextContent(domain.ContentHTML, text, n.maxLength)
	content.Metadata["length"] = normalisers.RuneLen(text)
	if title != "" {
		content.Metadata["title"] = title
	}
	return content, nil
}

// skippedElements have content that is never readable text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

// blockElements start and end on their own line.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "caption": true, "dd": true, "details": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "summary": true, "table": true,
	"tr": true, "ul": true,
}

// extractText walks the token stream and returns the visible text and the
// document title.
func extractText(doc string) (string, string, error) {
	z := html.NewTokenizer(strings.NewReader(doc))

	var (
		out     strings.Builder
		title   strings.Builder
		skip    int
		inHead  bool
		inTitle bool
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return "", "", err
			}
			return cleanText(out.String()), collapseSpaces(title.String()), nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "head" && tt == html.StartTagToken:
				inHead = true
			case tag == "body":
				inHead = false
			case tag == "title" && tt == html.StartTagToken && skip == 0:
				inTitle = true
			case skippedElements[tag] && tt == html.StartTagToken:
				skip++
			case blockElements[tag]:
				out.WriteByte('\n')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "head":
				inHead = false
			case tag == "title":
				inTitle = false
			case skippedElements[tag]:
				if skip > 0 {
					skip--
				}
			case blockElements[tag]:
				out.WriteByte('\n')
			case tag == "td" || tag == "th":
				out.WriteByte(' ')
			}

		case html.TextToken:
			switch {
			case inTitle:
				title.Write(z.Text())
			case skip > 0 || inHead:
				// dropped
			default:
				out.Write(z.Text())
			}
		}
	}
}

// cleanText collapses whitespace inside lines and drops blank lines.
func cleanText(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = collapseSpaces(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
