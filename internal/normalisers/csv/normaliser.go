// Package csv parses comma-separated documents into a bounded table.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles CSV documents.
type Normaliser struct {
	maxRows int
}

// New creates a CSV normaliser that keeps at most maxRows data rows.
func New(maxRows int) *Normaliser {
	return &Normaliser{maxRows: maxRows}
}

// Kind returns the document kind this normaliser handles.
func (n *Normaliser) Kind() domain.DocumentKind {
	return domain.KindCSV
}

// Normalise reads every record so total_rows is exact, but keeps only the
// header and the first maxRows data rows. Records the reader rejects are
// skipped and counted.
func (n *Normaliser) Normalise(raw *domain.RawDocument) (*domain.ProcessedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader := csv.NewReader(strings.NewReader(normalisers.DecodeText(raw.Content)))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var kept [][]string
	total := 0
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}

		total++
		// Header plus one extra row so TableContent can report truncation.
		if n.maxRows <= 0 || len(kept) <= n.maxRows+1 {
			kept = append(kept, record)
		}
	}

	content := normalisers.TableContent(domain.ContentCSV, kept, n.maxRows)
	if total > 0 {
		content.Metadata["total_rows"] = total - 1
	}
	content.Metadata["skipped_rows"] = skipped
	return content, nil
}
