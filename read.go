package calllog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
)

// headerScanRows is how many leading rows are searched for a header.
const headerScanRows = 20

// A RowMatcher decides whether a raw row is a header row.
type RowMatcher func(row []string) bool

// CallLogHeader matches header rows of phone-system exports.
func CallLogHeader(row []string) bool {
	for _, cell := range row {
		if strings.Contains(cell, "着信者") || strings.Contains(cell, "時刻") {
			return true
		}
	}
	return false
}

// RosterHeader matches header rows of reduced-hours roster sheets.
func RosterHeader(row []string) bool {
	var name, hours bool
	for _, cell := range row {
		switch strings.TrimSpace(cell) {
		case "氏名", "名前":
			name = true
		case "勤務時間":
			hours = true
		}
	}
	return name && hours
}

// DetectHeaderRow returns the index of the first of the leading limit rows
// that match, or 0 if none does. Upstream exports sometimes put banner rows
// above the real header.
func DetectHeaderRow(rows [][]string, match RowMatcher, limit int) int {
	for i, row := range rows {
		if i >= limit {
			break
		}
		if match(row) {
			return i
		}
	}
	return 0
}

// ReadSheet reads one sheet into a table using headerRow (0-based) as the
// column names. Cells keep their stored type: text stays text even when it
// looks numeric, and date-formatted numbers become time.Time.
func ReadSheet(f *excelize.File, sheet string, headerRow int) (*Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	return tableFromRows(sheet, rows, headerRow, newCellTyper(f, sheet).value)
}

// ReadSheetDetect reads one sheet, locating the header row with match.
func ReadSheetDetect(f *excelize.File, sheet string, match RowMatcher) (*Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	return tableFromRows(sheet, rows, DetectHeaderRow(rows, match, headerScanRows), newCellTyper(f, sheet).value)
}

// ReadWorkbook reads every sheet of the workbook at path, in sheet order,
// using the first row of each sheet as its header.
func ReadWorkbook(path string) ([]*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tables []*Table
	for _, sheet := range f.GetSheetList() {
		t, err := ReadSheet(f, sheet, 0)
		if err != nil {
			return nil, &SheetError{File: filepath.Base(path), Sheet: sheet, Err: err}
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// A cellValue types the raw text of the cell at (row, col), both 0-based.
type cellValue func(row, col int, raw string) (any, error)

func guessValue(_, _ int, raw string) (any, error) {
	return ParseValue(raw), nil
}

func tableFromRows(name string, rows [][]string, headerRow int, value cellValue) (*Table, error) {
	if headerRow >= len(rows) {
		return NewTable(name), nil
	}
	width := 0
	for _, row := range rows[headerRow:] {
		width = max(width, len(row))
	}
	t := NewTable(name, headerNames(rows[headerRow], width)...)
	for r := headerRow + 1; r < len(rows); r++ {
		row := rows[r]
		if blank(row) {
			continue
		}
		vals := make([]any, len(row))
		for i, cell := range row {
			v, err := value(r, i, cell)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		t.AppendRow(vals...)
	}
	return t, nil
}

// cellTyper recovers cell types from a worksheet. Only cells whose raw text
// is numeric need a lookup; anything else can only be text.
type cellTyper struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	dates    map[int]bool
}

func newCellTyper(f *excelize.File, sheet string) *cellTyper {
	c := &cellTyper{f: f, sheet: sheet, dates: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		c.date1904 = *props.Date1904
	}
	return c
}

func (c *cellTyper) value(row, col int, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, err
	}
	typ, err := c.f.GetCellType(c.sheet, ref)
	if err != nil {
		return nil, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return raw, nil
	}
	style, err := c.f.GetCellStyle(c.sheet, ref)
	if err != nil {
		return nil, err
	}
	if c.isDate(style) {
		if t, ok := excelTime(num, c.date1904); ok {
			return t, nil
		}
	}
	return ParseValue(raw), nil
}

func (c *cellTyper) isDate(style int) bool {
	if date, ok := c.dates[style]; ok {
		return date
	}
	date := false
	if st, err := c.f.GetStyle(style); err == nil {
		if st.CustomNumFmt != nil {
			date = dateFormat(*st.CustomNumFmt)
		} else {
			date = builtinDateFormat(st.NumFmt)
		}
	}
	c.dates[style] = date
	return date
}

// builtinDateFormat reports whether a built-in number format id renders a
// date or time, including the CJK and Thai ids.
func builtinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47,
		id >= 50 && id <= 58, id >= 71 && id <= 81:
		return true
	}
	return false
}

// dateFormat reports whether a custom number format code renders a date or
// time. Quoted literals, escapes and bracketed sections such as colours and
// locales are ignored.
func dateFormat(code string) bool {
	var quoted, bracket, escaped bool
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case quoted:
			quoted = r != '"'
		case bracket:
			if r == ']' {
				bracket = false
			}
		case r == '"':
			quoted = true
		case r == '\\':
			escaped = true
		case r == '[':
			bracket = true
		case r == ';':
			// only the first (positive) section decides
			return false
		case strings.ContainsRune("yYmMdDhHsS", r):
			return true
		}
	}
	return false
}

// headerNames builds unique column names. Empty cells become "Unnamed: i"
// and repeated names get ".1", ".2", ... suffixes.
func headerNames(row []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int)
	for i := range names {
		name := ""
		if i < len(row) {
			name = strings.TrimSpace(row[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for seen[name] > 0 || slices.Contains(names[:i], name) {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[base] = max(seen[base], 1)
		names[i] = name
	}
	return names
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ReadCSV reads a CSV file with a header row. Files that are not valid UTF-8
// are decoded as Shift_JIS, which is what Japanese Excel writes.
func ReadCSV(path string) (*Table, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bs = bytes.TrimPrefix(bs, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(bs) {
		bs, err = japanese.ShiftJIS.NewDecoder().Bytes(bs)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
	}

	r := csv.NewReader(bytes.NewReader(bs))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return tableFromRows(filepath.Base(path), rows, 0, guessValue)
}
