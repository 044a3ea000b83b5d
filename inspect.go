package calllog

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"
)

// inspectRows is how many leading data rows Inspect prints per sheet.
const inspectRows = 3

// Inspect writes a summary of the workbook at path to w: the sheet names,
// then for each sheet its columns, row count and first few rows.
func Inspect(w io.Writer, path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	fmt.Fprintf(w, "シート名: %s\n\n", strings.Join(sheets, ", "))

	for _, sheet := range sheets {
		t, err := ReadSheet(f, sheet, 0)
		if err != nil {
			return &SheetError{File: path, Sheet: sheet, Err: err}
		}
		inspectTable(w, t)
	}
	return nil
}

func inspectTable(w io.Writer, t *Table) {
	fmt.Fprintf(w, "=== %s ===\n", t.Name)
	fmt.Fprintf(w, "列名: %s\n", strings.Join(t.Columns(), ", "))
	fmt.Fprintf(w, "行数: %d\n", t.Len())
	fmt.Fprintln(w, "最初の3行:")

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\t"+strings.Join(t.Columns(), "\t"))
	for i := 0; i < min(inspectRows, t.Len()); i++ {
		cells := make([]string, 0, len(t.Columns())+1)
		cells = append(cells, fmt.Sprint(i))
		for _, v := range t.Row(i) {
			cells = append(cells, CellString(v))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}
