// Package excel reads the first worksheet of an OOXML (.xlsx) or legacy
// BIFF8 (.xls) workbook into a bounded table.
package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Excel workbooks.
type Normaliser struct {
	maxRows int
}

// New creates an Excel normaliser that keeps at most maxRows data rows.
func New(maxRows int) *Normaliser {
	return &Normaliser{maxRows: maxRows}
}

// Kind returns the document kind this normaliser handles.
func (n *Normaliser) Kind() domain.DocumentKind {
	return domain.KindExcel
}

// Normalise reads the first worksheet. Blank rows are ignored; the first
// non-blank row is the header. Legacy BIFF8 workbooks are recognised by their
// compound file signature whatever the extension.
func (n *Normaliser) Normalise(raw *domain.RawDocument) (*domain.ProcessedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	if isCompoundFile(raw.Content) {
		stream, err := workbookStream(raw.Content)
		if err != nil {
			return nil, err
		}
		if stream != nil {
			return n.normaliseLegacy(stream)
		}
	}
	return n.normaliseWorkbook(raw.Content)
}

func (n *Normaliser) normaliseWorkbook(data []byte) (*domain.ProcessedContent, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return emptyWorkbook(sheets), nil
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	t := &table{maxRows: n.maxRows}
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		t.add(cols)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return t.content(sheet, sheets), nil
}

func (n *Normaliser) normaliseLegacy(stream []byte) (*domain.ProcessedContent, error) {
	wb, err := parseLegacyWorkbook(stream)
	if err != nil {
		return nil, fmt.Errorf("open legacy workbook: %w", err)
	}

	names := make([]string, len(wb.sheets))
	first := -1
	for i, s := range wb.sheets {
		names[i] = s.name
		if first < 0 && s.kind == sheetWorksheet {
			first = i
		}
	}
	if first < 0 {
		return emptyWorkbook(names), nil
	}

	sheet := wb.sheets[first]
	records, err := wb.readSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet.name, err)
	}

	t := &table{maxRows: n.maxRows}
	for _, cols := range records {
		t.add(cols)
	}
	return t.content(sheet.name, names), nil
}

// table accumulates the non-blank rows of a sheet, keeping one row past the
// bound so truncation is detected.
type table struct {
	maxRows int
	kept    [][]string
	total   int
}

func (t *table) add(cols []string) {
	if isBlank(cols) {
		return
	}
	t.total++
	if t.maxRows <= 0 || len(t.kept) <= t.maxRows+1 {
		t.kept = append(t.kept, cols)
	}
}

func (t *table) content(sheet string, sheets []string) *domain.ProcessedContent {
	content := normalisers.TableContent(domain.ContentExcel, t.kept, t.maxRows)
	if t.total > 0 {
		content.Metadata["total_rows"] = t.total - 1
	}
	content.Metadata["sheet_name"] = sheet
	content.Metadata["sheet_count"] = len(sheets)
	content.Metadata["sheet_names"] = sheets
	return content
}

// emptyWorkbook is the result for a workbook without a worksheet.
func emptyWorkbook(sheets []string) *domain.ProcessedContent {
	content := normalisers.TableContent(domain.ContentExcel, nil, 0)
	if sheets == nil {
		sheets = []string{}
	}
	content.Metadata["sheet_count"] = len(sheets)
	content.Metadata["sheet_names"] = sheets
	return content
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
