package excel

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
)

func u16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
func u32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }
func f64(v float64) []byte {
	return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v))
}

func biffRecord(id uint16, parts ...[]byte) []byte {
	body := bytes.Join(parts, nil)
	return append(append(u16(id), u16(uint16(len(body)))...), body...)
}

// compressed encodes an ASCII string as XLUnicodeString with 8-bit characters.
func compressed(s string) []byte {
	return append(append(u16(uint16(len(s))), 0x00), s...)
}

func cell(row, col uint16) []byte {
	return append(append(u16(row), u16(col)...), u16(0)...)
}

func formulaResult(kind, value byte) []byte {
	return []byte{kind, 0, value, 0, 0, 0, 0xFF, 0xFF}
}

func formula(row, col uint16, result []byte) []byte {
	return biffRecord(recFormula, cell(row, col), result, u16(0), u32(0), u16(0))
}

// buildLegacyStream lays out a BIFF8 workbook stream with one worksheet
// holding the given cell records.
func buildLegacyStream(sheet string, sst []byte, cells ...[]byte) []byte {
	globals := func(offset uint32) []byte {
		var b bytes.Buffer
		b.Write(biffRecord(recBOF, u16(biff8Version), u16(0x0005), make([]byte, 12)))
		b.Write(biffRecord(recBoundSheet, u32(offset), []byte{0x00, sheetWorksheet, byte(len(sheet)), 0x00}, []byte(sheet)))
		b.Write(sst)
		b.Write(biffRecord(recEOF))
		return b.Bytes()
	}

	head := globals(0)
	head = globals(uint32(len(head)))

	var b bytes.Buffer
	b.Write(head)
	b.Write(biffRecord(recBOF, u16(biff8Version), u16(0x0010), make([]byte, 12)))
	for _, c := range cells {
		b.Write(c)
	}
	b.Write(biffRecord(recEOF))
	return b.Bytes()
}

func sstRecord(strs ...string) []byte {
	parts := [][]byte{u32(uint32(len(strs))), u32(uint32(len(strs)))}
	for _, s := range strs {
		parts = append(parts, compressed(s))
	}
	return biffRecord(recSST, parts...)
}

func TestNormalise_LegacyWorkbookFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "legacy.xls"))
	require.NoError(t, err)

	result, err := New(50).Normalise(&domain.RawDocument{Filename: "legacy.xls", Content: data})
	require.NoError(t, err)

	assert.Equal(t, domain.ContentExcel, result.Type)
	assert.Equal(t, []string{"Test1", "Lorem", "Ipsum"}, result.Headers)
	assert.Equal(t, [][]string{
		{"Avocado", "1", "2"},
		{"", "3", "5"},
		{"", "4", "7"},
	}, result.Rows)
	assert.False(t, result.Truncated)
	assert.Equal(t, "Test sheet 1", result.Metadata["sheet_name"])
	assert.Equal(t, 3, result.Metadata["sheet_count"])
	assert.Equal(t, []string{"Test sheet 1", "Test sheet 2", "Sheet3"}, result.Metadata["sheet_names"])
	assert.Equal(t, 3, result.Metadata["total_rows"])
}

func TestNormaliseLegacy_CellTypes(t *testing.T) {
	stream := buildLegacyStream("Data", sstRecord("name", "value"),
		biffRecord(recLabelSST, cell(0, 0), u32(0)),
		biffRecord(recLabelSST, cell(0, 1), u32(1)),
		biffRecord(recLabel, cell(1, 0), compressed("sum")),
		formula(1, 1, f64(12.5)),
		biffRecord(recLabel, cell(2, 0), compressed("greeting")),
		formula(2, 1, formulaResult(0x00, 0)),
		biffRecord(recString, compressed("hello")),
		biffRecord(recLabel, cell(3, 0), compressed("flag")),
		formula(3, 1, formulaResult(0x01, 1)),
		biffRecord(recLabel, cell(4, 0), compressed("bad")),
		formula(4, 1, formulaResult(0x02, 0x07)),
		biffRecord(recLabel, cell(5, 0), compressed("raw")),
		biffRecord(recBoolErr, cell(5, 1), []byte{0, 0}),
		biffRecord(recRK, cell(6, 1), u32(250<<2|0x03)),
		biffRecord(recNumber, cell(7, 0), f64(-3)),
	)

	result, err := New(50).normaliseLegacy(stream)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "value"}, result.Headers)
	assert.Equal(t, [][]string{
		{"sum", "12.5"},
		{"greeting", "hello"},
		{"flag", "TRUE"},
		{"bad", "#DIV/0!"},
		{"raw", "FALSE"},
		{"", "2.5"},
		{"-3"},
	}, result.Rows)
	assert.Equal(t, "Data", result.Metadata["sheet_name"])
	assert.Equal(t, 1, result.Metadata["sheet_count"])
}

func TestNormaliseLegacy_MulRK(t *testing.T) {
	stream := buildLegacyStream("Sheet1", sstRecord("a", "b", "c"),
		biffRecord(recLabelSST, cell(0, 0), u32(0)),
		biffRecord(recLabelSST, cell(0, 1), u32(1)),
		biffRecord(recLabelSST, cell(0, 2), u32(2)),
		biffRecord(recMulRK, u16(1), u16(0),
			u16(0), u32(1<<2|0x02),
			u16(0), u32(2<<2|0x02),
			u16(0), u32(3<<2|0x02),
			u16(2)),
	)

	result, err := New(50).normaliseLegacy(stream)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, result.Headers)
	assert.Equal(t, [][]string{{"1", "2", "3"}}, result.Rows)
}

func TestNormaliseLegacy_RowBound(t *testing.T) {
	cells := [][]byte{biffRecord(recLabelSST, cell(0, 0), u32(0))}
	for i := 1; i <= 80; i++ {
		cells = append(cells, biffRecord(recNumber, cell(uint16(i), 0), f64(float64(i))))
	}
	stream := buildLegacyStream("Sheet1", sstRecord("id"), cells...)

	result, err := New(50).normaliseLegacy(stream)
	require.NoError(t, err)

	assert.Len(t, result.Rows, 50)
	assert.True(t, result.Truncated)
	assert.Equal(t, 80, result.Metadata["total_rows"])
	assert.Equal(t, []string{"1"}, result.Rows[0])
}

func TestParseSST_ContinuedString(t *testing.T) {
	// "Straße" starts with 8-bit characters and continues as UTF-16 in a
	// CONTINUE record that opens with its own option byte.
	tail := utf16.Encode([]rune("aße"))
	cont := []byte{0x01}
	for _, u := range tail {
		cont = append(cont, u16(u)...)
	}
	stream := bytes.Join([][]byte{
		biffRecord(recSST, u32(2), u32(2), compressed("first"), u16(6), []byte{0x00}, []byte("Str")),
		biffRecord(recContinue, cont),
	}, nil)

	rec, err := (&recordReader{stream: stream}).next()
	require.NoError(t, err)
	require.Len(t, rec.conts, 1)

	strs, err := parseSST(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "Straße"}, strs)
}

func TestParseSST_Truncated(t *testing.T) {
	rec := record{id: recSST, data: bytes.Join([][]byte{u32(1), u32(1), u16(10), {0x00}, []byte("abc")}, nil)}

	_, err := parseSST(rec)
	assert.ErrorIs(t, err, errMalformed)
}

func TestParseLegacyWorkbook_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		stream []byte
		want   string
	}{
		{
			name:   "biff5",
			stream: biffRecord(recBOF, u16(0x0500), u16(0x0005)),
			want:   "unsupported BIFF version",
		},
		{
			name: "encrypted",
			stream: bytes.Join([][]byte{
				biffRecord(recBOF, u16(biff8Version), u16(0x0005)),
				biffRecord(recFilePass, u16(1)),
			}, nil),
			want: "password protected",
		},
		{
			name:   "no bof",
			stream: biffRecord(recEOF),
			want:   "missing BOF",
		},
		{
			name:   "overrun",
			stream: append(biffRecord(recBOF, u16(biff8Version), u16(0x0005)), 0x85, 0x00, 0xFF, 0x00, 0x01),
			want:   "overruns stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLegacyWorkbook(tt.stream)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadSheet_BadOffset(t *testing.T) {
	wb := &legacyWorkbook{stream: biffRecord(recEOF)}

	_, err := wb.readSheet(legacySheet{name: "Sheet1", offset: 4096})
	assert.ErrorIs(t, err, errMalformed)
}

func TestReadSheet_SharedStringOutOfRange(t *testing.T) {
	stream := buildLegacyStream("Sheet1", sstRecord("only"),
		biffRecord(recLabelSST, cell(0, 0), u32(5)),
	)

	_, err := New(50).normaliseLegacy(stream)
	assert.ErrorIs(t, err, errMalformed)
}

func TestNormalise_BrokenCompoundFile(t *testing.T) {
	content := append(append([]byte{}, cfbSignature...), "not really a compound file"...)

	result, err := New(50).Normalise(&domain.RawDocument{Filename: "broken.xls", Content: content})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "open compound file")
}

func TestRKValue(t *testing.T) {
	tests := []struct {
		rk   uint32
		want float64
	}{
		{rk: 1<<2 | 0x02, want: 1},
		{rk: 250<<2 | 0x03, want: 2.5},
		{rk: uint32(0xFFFFFFFC) | 0x02, want: -1},
		{rk: uint32(math.Float64bits(1.5) >> 32), want: 1.5},
		{rk: uint32(math.Float64bits(1234) >> 32) | 0x01, want: 12.34},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, rkValue(tt.rk), 1e-9, "rk %#x", tt.rk)
	}
}

func TestBoolErrValue(t *testing.T) {
	assert.Equal(t, "TRUE", boolErrValue(1, false))
	assert.Equal(t, "FALSE", boolErrValue(0, false))
	assert.Equal(t, "#N/A", boolErrValue(0x2A, true))
	assert.Equal(t, "#ERR", boolErrValue(0x99, true))
}
