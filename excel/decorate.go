package excel

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"kastelo.dev/calllog"
)

// Notes inserted above the business-hours sheets, explaining which site a
// call is credited to.
const (
	noteBusinessFinal  = "※集計基準：『誰が取ったか（Final Base）』でカウント（例：東京の人が流山宛ての外線を取ったら『東京』の実績になります）"
	noteBusinessTarget = "※集計基準：『どこ宛てか（Target Base）』でカウント（例：東京の人が流山宛ての外線を取っても、流山に着信したので『流山』のカウントになります）"
)

// Header cells that anchor the region-group blocks.
const (
	groupTitle24h   = "追加集計(24H)"
	groupTitleHours = "追加集計(時間内)"
)

// Decorate styles the report workbook at path in place: font, borders,
// fills, merged two-level headers, number formats, column widths and the
// explanatory notes. Cell values are not changed. On error the file is left
// as it was.
func Decorate(path, font string) error {
	xlsx, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer xlsx.Close()

	d := &decorator{f: xlsx, styles: newStyleCache(xlsx, font)}
	for _, sheet := range xlsx.GetSheetList() {
		if err := d.decorate(sheet); err != nil {
			return &calllog.SheetError{File: path, Sheet: sheet, Err: err}
		}
	}
	return save(xlsx, path)
}

type decorator struct {
	f      *excelize.File
	styles *styleCache
}

// region is a rectangular block of a sheet, 1-based and inclusive.
type region struct {
	headerRow, headerRows int
	firstCol, lastCol     int
	lastRow               int
	headerKind            cellKind
	// totalLast marks the final data row as the total row; otherwise rows
	// labelled 合計 in firstCol are.
	totalLast bool
}

func (d *decorator) decorate(sheet string) error {
	hide := false
	if err := d.f.SetSheetView(sheet, 0, &excelize.ViewOptions{ShowGridLines: &hide}); err != nil {
		return err
	}
	if err := autoFit(d.f, sheet); err != nil {
		return err
	}

	switch sheet {
	case calllog.SheetBusinessFinal:
		if err := d.insertNote(sheet, noteBusinessFinal); err != nil {
			return err
		}
	case calllog.SheetBusinessTarget:
		if err := d.insertNote(sheet, noteBusinessTarget); err != nil {
			return err
		}
	}

	rows, err := d.f.GetRows(sheet)
	if err != nil {
		return err
	}
	if err := d.plain(sheet, rows); err != nil {
		return err
	}

	switch sheet {
	case calllog.SheetCounts:
		return d.counts(sheet, rows)
	case calllog.SheetBusinessFinal:
		return d.table(sheet, rows, region{headerRow: 2, headerRows: 1, firstCol: 1, lastCol: rowWidth(rows, 2), lastRow: len(rows), headerKind: kindHeader})
	case calllog.SheetBusinessTarget:
		return d.businessTarget(sheet, rows)
	default:
		return d.table(sheet, rows, region{headerRow: 1, headerRows: 1, firstCol: 1, lastCol: rowWidth(rows, 1), lastRow: len(rows), headerKind: kindHeader})
	}
}

func (d *decorator) insertNote(sheet, note string) error {
	if err := d.f.InsertRows(sheet, 1, 1); err != nil {
		return err
	}
	return d.f.SetCellValue(sheet, "A1", note)
}

// plain applies the report font to the used range.
func (d *decorator) plain(sheet string, rows [][]string) error {
	maxCol := 0
	for _, r := range rows {
		maxCol = max(maxCol, len(r))
	}
	if maxCol == 0 {
		return nil
	}
	id, err := d.styles.id(kindPlain, "")
	if err != nil {
		return err
	}
	if err := d.f.SetCellStyle(sheet, "A1", cell(maxCol, len(rows)), id); err != nil {
		return err
	}
	if note := value(rows, 1, 1); strings.HasPrefix(note, "※") {
		id, err := d.styles.noteStyle()
		if err != nil {
			return err
		}
		return d.f.SetCellStyle(sheet, "A1", "A1", id)
	}
	return nil
}

func (d *decorator) counts(sheet string, rows [][]string) error {
	main := region{headerRow: 1, headerRows: 2, firstCol: 1, lastCol: 7, headerKind: kindHeader}
	main.lastRow = blockEnd(rows, 3, 1, 2)
	if err := d.table(sheet, rows, main); err != nil {
		return err
	}
	if err := d.merge(sheet, "A1:A2", "B1:C1", "D1:E1", "F1:F2", "G1:G2"); err != nil {
		return err
	}

	for col, w := range map[string]float64{"H": 2, "I": 2, "J": 18, "K": 14, "L": 10, "M": 10} {
		if err := d.f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return d.groupBlock(sheet, rows, groupTitle24h, 10)
}

func (d *decorator) businessTarget(sheet string, rows [][]string) error {
	main := region{headerRow: 5, headerRows: 2, firstCol: 1, lastCol: 7, headerKind: kindHeader}
	main.lastRow = blockEnd(rows, 7, 1, 1)
	if err := d.table(sheet, rows, main); err != nil {
		return err
	}
	if err := d.merge(sheet, "A5:A6", "B5:D5", "E5:G5"); err != nil {
		return err
	}

	summary := region{headerRow: 2, headerRows: 1, firstCol: 13, lastCol: 17, lastRow: 3, headerKind: kindSubHeader}
	if err := d.table(sheet, rows, summary); err != nil {
		return err
	}
	for c := 13; c <= 17; c++ {
		if err := d.style(sheet, c, 3, kindTotalBold, value(rows, 2, c), false); err != nil {
			return err
		}
	}
	return d.groupBlock(sheet, rows, groupTitleHours, 13)
}

// groupBlock styles the four-column region-group block whose header cell
// holding title is found in column col.
func (d *decorator) groupBlock(sheet string, rows [][]string, title string, col int) error {
	for r := 1; r <= len(rows); r++ {
		if value(rows, r, col) != title {
			continue
		}
		return d.table(sheet, rows, region{
			headerRow:  r,
			headerRows: 1,
			firstCol:   col,
			lastCol:    col + 3,
			lastRow:    blockEnd(rows, r+1, col, col),
			headerKind: kindSubHeader,
			totalLast:  true,
		})
	}
	return nil
}

func (d *decorator) merge(sheet string, ranges ...string) error {
	for _, rng := range ranges {
		from, to, _ := strings.Cut(rng, ":")
		if err := d.f.MergeCell(sheet, from, to); err != nil {
			return err
		}
	}
	return nil
}

// table styles the header rows and data rows of reg. Columns whose header
// is empty are left alone.
func (d *decorator) table(sheet string, rows [][]string, reg region) error {
	headers := make(map[int]string)
	for c := reg.firstCol; c <= reg.lastCol; c++ {
		for r := reg.headerRow; r < reg.headerRow+reg.headerRows; r++ {
			if v := value(rows, r, c); v != "" {
				headers[c] = v
			}
		}
	}

	for c := reg.firstCol; c <= reg.lastCol; c++ {
		if reg.headerRows == 1 && headers[c] == "" {
			continue
		}
		for r := reg.headerRow; r < reg.headerRow+reg.headerRows; r++ {
			id, err := d.styles.id(reg.headerKind, "")
			if err != nil {
				return err
			}
			if err := d.f.SetCellStyle(sheet, cell(c, r), cell(c, r), id); err != nil {
				return err
			}
		}
	}

	first := reg.headerRow + reg.headerRows
	// A column is formatted as a whole: one fractional value makes every
	// number in it decimal.
	decimal := make(map[int]bool)
	for c := reg.firstCol; c <= reg.lastCol; c++ {
		decimal[c] = decimalHeader(headers[c])
		for r := first; r <= reg.lastRow && !decimal[c]; r++ {
			decimal[c] = fractional(value(rows, r, c))
		}
	}

	for r := first; r <= reg.lastRow; r++ {
		kind := kindData
		if (reg.totalLast && r == reg.lastRow) || (!reg.totalLast && value(rows, r, reg.firstCol) == calllog.TotalLabel) {
			kind = kindTotal
		}
		for c := reg.firstCol; c <= reg.lastCol; c++ {
			if reg.headerRows == 1 && headers[c] == "" {
				continue
			}
			if err := d.style(sheet, c, r, kind, headers[c], decimal[c]); err != nil {
				return err
			}
		}
	}
	return nil
}

// style applies kind to one cell together with the number format its
// value and column call for.
func (d *decorator) style(sheet string, col, row int, kind cellKind, header string, decimal bool) error {
	ref := cell(col, row)
	format, err := d.numberFormat(sheet, ref, header, decimal)
	if err != nil {
		return err
	}
	id, err := d.styles.id(kind, format)
	if err != nil {
		return err
	}
	return d.f.SetCellStyle(sheet, ref, ref, id)
}

func (d *decorator) numberFormat(sheet, ref, header string, decimal bool) (string, error) {
	typ, err := d.f.GetCellType(sheet, ref)
	if err != nil {
		return "", err
	}
	if typ != excelize.CellTypeUnset && typ != excelize.CellTypeNumber {
		return "", nil
	}
	raw, err := d.f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return "", err
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return "", nil
	}
	switch {
	case percentHeader(header):
		return fmtPercent, nil
	case header == "係数":
		return "0.00", nil
	case decimal:
		return fmtDecimal, nil
	default:
		return fmtInteger, nil
	}
}

// fractional reports whether s is a number written with a fraction.
func fractional(s string) bool {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return false
	}
	return strings.Contains(s, ".")
}

// value returns the text at the 1-based (row, col), or "".
func value(rows [][]string, row, col int) string {
	if row < 1 || row > len(rows) || col < 1 || col > len(rows[row-1]) {
		return ""
	}
	return rows[row-1][col-1]
}

// rowWidth is the number of cells in the given 1-based row.
func rowWidth(rows [][]string, row int) int {
	if row < 1 || row > len(rows) {
		return 0
	}
	return len(rows[row-1])
}

// blockEnd returns the last row, starting at from, before the first row
// where both columns a and b are empty.
func blockEnd(rows [][]string, from, a, b int) int {
	r := from
	for r <= len(rows) && (value(rows, r, a) != "" || value(rows, r, b) != "") {
		r++
	}
	return r - 1
}
