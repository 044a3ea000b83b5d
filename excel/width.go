package excel

import (
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"
)

const maxColWidth = 50

// textWidth is the display width of s in half-width cells. Wide and
// full-width runes count double.
func textWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// fitWidth converts the longest text in a column to a column width.
func fitWidth(longest int) float64 {
	return min(float64(longest+2)*1.1, maxColWidth)
}

// autoFit sizes every used column of sheet to its widest value.
func autoFit(f *excelize.File, sheet string) error {
	cols, err := f.GetCols(sheet)
	if err != nil {
		return err
	}
	for i, col := range cols {
		longest := 0
		for _, v := range col {
			longest = max(longest, textWidth(v))
		}
		name := colName(i + 1)
		if err := f.SetColWidth(sheet, name, name, fitWidth(longest)); err != nil {
			return err
		}
	}
	return nil
}
