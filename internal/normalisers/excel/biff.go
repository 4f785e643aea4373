package excel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
)

// Legacy .xls workbooks are BIFF8 record streams inside a compound file.

var cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// BIFF8 record identifiers.
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recFilePass   = 0x002F
	recContinue   = 0x003C
	recBoundSheet = 0x0085
	recMulRK      = 0x00BD
	recSST        = 0x00FC
	recLabelSST   = 0x00FD
	recNumber     = 0x0203
	recLabel      = 0x0204
	recBoolErr    = 0x0205
	recString     = 0x0207
	recRK         = 0x027E
	recBOF        = 0x0809
)

const (
	biff8Version   = 0x0600
	sheetWorksheet = 0x00

	// maxLegacyColumns is the BIFF8 column limit (A..IV).
	maxLegacyColumns = 256
)

var errMalformed = errors.New("malformed legacy workbook")

var le = binary.LittleEndian

// cellErrors maps BIFF error codes to their displayed value.
var cellErrors = map[byte]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0F: "#VALUE!",
	0x17: "#REF!",
	0x1D: "#NAME?",
	0x24: "#NUM!",
	0x2A: "#N/A",
}

func isCompoundFile(b []byte) bool {
	return bytes.HasPrefix(b, cfbSignature)
}

// workbookStream returns the BIFF stream of a compound file, or nil when it
// holds no workbook (password protected OOXML packages are wrapped this way).
func workbookStream(content []byte) ([]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open compound file: %w", err)
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "Workbook" && entry.Name != "Book" {
			continue
		}
		if entry.Size <= 0 || entry.Size > int64(len(content)) {
			return nil, fmt.Errorf("%w: workbook stream size %d", errMalformed, entry.Size)
		}
		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, buf); err != nil {
			return nil, fmt.Errorf("read workbook stream: %w", err)
		}
		return buf, nil
	}
	return nil, nil
}

type record struct {
	id    uint16
	data  []byte
	conts [][]byte
}

// recordReader walks records from pos, folding CONTINUE records into the
// record they extend.
type recordReader struct {
	stream []byte
	pos    int
}

func (r *recordReader) next() (record, error) {
	id, data, err := r.raw()
	if err != nil {
		return record{}, err
	}
	rec := record{id: id, data: data}
	for r.pos+4 <= len(r.stream) && le.Uint16(r.stream[r.pos:]) == recContinue {
		_, cont, err := r.raw()
		if err != nil {
			return record{}, err
		}
		rec.conts = append(rec.conts, cont)
	}
	return rec, nil
}

func (r *recordReader) raw() (uint16, []byte, error) {
	if r.pos+4 > len(r.stream) {
		return 0, nil, io.EOF
	}
	id := le.Uint16(r.stream[r.pos:])
	n := int(le.Uint16(r.stream[r.pos+2:]))
	start := r.pos + 4
	if start+n > len(r.stream) {
		return 0, nil, fmt.Errorf("%w: record %#04x overruns stream", errMalformed, id)
	}
	r.pos = start + n
	return id, r.stream[start : start+n], nil
}

// segmentReader reads a record body that spills into CONTINUE records.
type segmentReader struct {
	segs [][]byte
	seg  int
	off  int
}

func newSegmentReader(data []byte, conts [][]byte) *segmentReader {
	return &segmentReader{segs: append([][]byte{data}, conts...)}
}

func (r *segmentReader) skip(n int) error {
	for n > 0 {
		for r.seg < len(r.segs) && r.off >= len(r.segs[r.seg]) {
			r.seg++
			r.off = 0
		}
		if r.seg >= len(r.segs) {
			return fmt.Errorf("%w: truncated record", errMalformed)
		}
		take := min(n, len(r.segs[r.seg])-r.off)
		r.off += take
		n -= take
	}
	return nil
}

func (r *segmentReader) read(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		for r.seg < len(r.segs) && r.off >= len(r.segs[r.seg]) {
			r.seg++
			r.off = 0
		}
		if r.seg >= len(r.segs) {
			return nil, fmt.Errorf("%w: truncated record", errMalformed)
		}
		take := min(n-len(out), len(r.segs[r.seg])-r.off)
		out = append(out, r.segs[r.seg][r.off:r.off+take]...)
		r.off += take
	}
	return out, nil
}

// chars reads cch characters. When the characters run past a record
// boundary the next segment opens with a fresh option byte.
func (r *segmentReader) chars(cch int, high bool) (string, error) {
	units := make([]uint16, 0, min(cch, 1<<12))
	for {
		var seg []byte
		if r.seg < len(r.segs) {
			seg = r.segs[r.seg][r.off:]
		}
		width := 1
		if high {
			width = 2
		}
		avail := min(len(seg)/width, cch-len(units))
		for i := 0; i < avail; i++ {
			if high {
				units = append(units, le.Uint16(seg[2*i:]))
			} else {
				units = append(units, uint16(seg[i]))
			}
		}
		r.off += avail * width
		if len(units) == cch {
			return string(utf16.Decode(units)), nil
		}

		r.seg++
		r.off = 0
		if r.seg >= len(r.segs) || len(r.segs[r.seg]) == 0 {
			return "", fmt.Errorf("%w: truncated string", errMalformed)
		}
		high = r.segs[r.seg][0]&0x01 != 0
		r.off = 1
	}
}

// unicodeString reads an XLUnicodeRichExtendedString, dropping rich text
// runs and phonetic data.
func (r *segmentReader) unicodeString() (string, error) {
	head, err := r.read(3)
	if err != nil {
		return "", err
	}
	cch := int(le.Uint16(head))
	flags := head[2]

	extra := 0
	if flags&0x08 != 0 {
		runs, err := r.read(2)
		if err != nil {
			return "", err
		}
		extra += 4 * int(le.Uint16(runs))
	}
	if flags&0x04 != 0 {
		ext, err := r.read(4)
		if err != nil {
			return "", err
		}
		extra += int(le.Uint32(ext))
	}

	s, err := r.chars(cch, flags&0x01 != 0)
	if err != nil {
		return "", err
	}
	if err := r.skip(extra); err != nil {
		return "", err
	}
	return s, nil
}

type legacySheet struct {
	name   string
	offset int
	kind   byte
}

type legacyWorkbook struct {
	stream []byte
	sheets []legacySheet
	sst    []string
}

// parseLegacyWorkbook reads the globals substream: sheet directory and
// shared strings.
func parseLegacyWorkbook(stream []byte) (*legacyWorkbook, error) {
	r := &recordReader{stream: stream}
	bof, err := r.next()
	if err != nil || bof.id != recBOF || len(bof.data) < 4 {
		return nil, fmt.Errorf("%w: missing BOF record", errMalformed)
	}
	if v := le.Uint16(bof.data); v != biff8Version {
		return nil, fmt.Errorf("unsupported BIFF version %#04x", v)
	}

	wb := &legacyWorkbook{stream: stream}
	for {
		rec, err := r.next()
		if errors.Is(err, io.EOF) {
			return wb, nil
		}
		if err != nil {
			return nil, err
		}

		switch rec.id {
		case recEOF:
			return wb, nil
		case recFilePass:
			return nil, errors.New("workbook is password protected")
		case recBoundSheet:
			sheet, err := parseBoundSheet(rec.data)
			if err != nil {
				return nil, err
			}
			wb.sheets = append(wb.sheets, sheet)
		case recSST:
			sst, err := parseSST(rec)
			if err != nil {
				return nil, err
			}
			wb.sst = sst
		}
	}
}

func parseBoundSheet(data []byte) (legacySheet, error) {
	if len(data) < 8 {
		return legacySheet{}, fmt.Errorf("%w: short sheet record", errMalformed)
	}
	name, err := newSegmentReader(data[8:], nil).chars(int(data[6]), data[7]&0x01 != 0)
	if err != nil {
		return legacySheet{}, err
	}
	return legacySheet{
		name:   name,
		offset: int(le.Uint32(data)),
		kind:   data[5],
	}, nil
}

func parseSST(rec record) ([]string, error) {
	r := newSegmentReader(rec.data, rec.conts)
	head, err := r.read(8)
	if err != nil {
		return nil, err
	}
	unique := le.Uint32(head[4:])

	strs := make([]string, 0, min(int(unique), 1<<12))
	for i := uint32(0); i < unique; i++ {
		s, err := r.unicodeString()
		if err != nil {
			return nil, fmt.Errorf("shared string %d: %w", i, err)
		}
		strs = append(strs, s)
	}
	return strs, nil
}

// readSheet returns the non-empty cell values of a worksheet as rows in
// sheet order. Cell formats are not applied; numbers keep their raw value.
func (wb *legacyWorkbook) readSheet(s legacySheet) ([][]string, error) {
	if s.offset < 0 || s.offset >= len(wb.stream) {
		return nil, fmt.Errorf("%w: sheet offset out of range", errMalformed)
	}
	r := &recordReader{stream: wb.stream, pos: s.offset}
	if bof, err := r.next(); err != nil || bof.id != recBOF {
		return nil, fmt.Errorf("%w: sheet has no BOF record", errMalformed)
	}

	cells := make(map[int][]string)
	set := func(row, col int, v string) {
		if v == "" || col >= maxLegacyColumns {
			return
		}
		cols := cells[row]
		for len(cols) <= col {
			cols = append(cols, "")
		}
		cols[col] = v
		cells[row] = cols
	}

	// A formula with a string result is followed by a STRING record.
	pendingRow, pendingCol := -1, -1

loop:
	for {
		rec, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		d := rec.data
		if rec.id != recEOF && rec.id != recString && len(d) < 6 {
			continue
		}
		switch rec.id {
		case recEOF:
			break loop
		case recLabelSST:
			if len(d) < 10 {
				return nil, fmt.Errorf("%w: short LABELSST record", errMalformed)
			}
			idx := int(le.Uint32(d[6:]))
			if idx >= len(wb.sst) {
				return nil, fmt.Errorf("%w: shared string %d out of range", errMalformed, idx)
			}
			row, col := cellRef(d)
			set(row, col, wb.sst[idx])
		case recLabel:
			v, err := newSegmentReader(d[6:], rec.conts).unicodeString()
			if err != nil {
				return nil, err
			}
			row, col := cellRef(d)
			set(row, col, v)
		case recNumber:
			if len(d) < 14 {
				return nil, fmt.Errorf("%w: short NUMBER record", errMalformed)
			}
			row, col := cellRef(d)
			set(row, col, formatNumber(math.Float64frombits(le.Uint64(d[6:]))))
		case recRK:
			if len(d) < 10 {
				return nil, fmt.Errorf("%w: short RK record", errMalformed)
			}
			row, col := cellRef(d)
			set(row, col, formatNumber(rkValue(le.Uint32(d[6:]))))
		case recMulRK:
			row, first := int(le.Uint16(d)), int(le.Uint16(d[2:]))
			for i := 0; 4+6*i+6 <= len(d)-2; i++ {
				set(row, first+i, formatNumber(rkValue(le.Uint32(d[4+6*i+2:]))))
			}
		case recBoolErr:
			if len(d) < 8 {
				return nil, fmt.Errorf("%w: short BOOLERR record", errMalformed)
			}
			row, col := cellRef(d)
			set(row, col, boolErrValue(d[6], d[7] != 0))
		case recFormula:
			if len(d) < 14 {
				return nil, fmt.Errorf("%w: short FORMULA record", errMalformed)
			}
			row, col := cellRef(d)
			result := d[6:14]
			if le.Uint16(result[6:]) != 0xFFFF {
				set(row, col, formatNumber(math.Float64frombits(le.Uint64(result))))
				break
			}
			switch result[0] {
			case 0x00:
				pendingRow, pendingCol = row, col
			case 0x01:
				set(row, col, boolErrValue(result[2], false))
			case 0x02:
				set(row, col, boolErrValue(result[2], true))
			}
		case recString:
			if pendingRow < 0 {
				break
			}
			v, err := newSegmentReader(d, rec.conts).unicodeString()
			if err != nil {
				return nil, err
			}
			set(pendingRow, pendingCol, v)
			pendingRow, pendingCol = -1, -1
		}
	}

	rows := make([]int, 0, len(cells))
	for row := range cells {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = cells[row]
	}
	return out, nil
}

func cellRef(d []byte) (row, col int) {
	return int(le.Uint16(d)), int(le.Uint16(d[2:]))
}

// rkValue decodes the compressed RK number encoding.
func rkValue(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func boolErrValue(v byte, isError bool) string {
	if isError {
		if s, ok := cellErrors[v]; ok {
			return s
		}
		return "#ERR"
	}
	if v != 0 {
		return "TRUE"
	}
	return "FALSE"
}
