package excel

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/xuri/excelize/v2"
	"kastelo.dev/calllog"
)

// WriteReport writes every sheet of rep, in order, to a new workbook at
// path. Nothing is styled; see Decorate.
func WriteReport(path string, rep *calllog.Report) error {
	if rep == nil || len(rep.Sheets) == 0 {
		return calllog.ErrNoData
	}

	xlsx := excelize.NewFile()
	defer xlsx.Close()

	_ = xlsx.SetAppProps(&excelize.AppProperties{
		Application: "kastelo.dev/calllog",
	})

	first := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	for i, sh := range rep.Sheets {
		if i == 0 {
			if err := xlsx.SetSheetName(first, sh.Name); err != nil {
				return err
			}
		} else if _, err := xlsx.NewSheet(sh.Name); err != nil {
			return err
		}
		for _, b := range sh.Blocks {
			if err := writeBlock(xlsx, sh.Name, b); err != nil {
				return &calllog.SheetError{File: path, Sheet: sh.Name, Err: err}
			}
		}
	}
	xlsx.SetActiveSheet(0)

	// Increase size of window
	for i := range xlsx.WorkBook.BookViews.WorkBookView {
		xlsx.WorkBook.BookViews.WorkBookView[i].WindowWidth = 25000
		xlsx.WorkBook.BookViews.WorkBookView[i].WindowHeight = 25000 / 3 * 2
	}

	return save(xlsx, path)
}

// WriteTables writes each table to its own sheet, header in row 1.
func WriteTables(path string, tables []*calllog.Table) error {
	rep := &calllog.Report{}
	for _, t := range tables {
		rep.Sheets = append(rep.Sheets, calllog.SimpleSheet(t))
	}
	return WriteReport(path, rep)
}

func save(xlsx *excelize.File, path string) error {
	err := xlsx.SaveAs(path)
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%s: %w", path, calllog.ErrOutputLocked)
	}
	return err
}

func writeBlock(xlsx *excelize.File, sheet string, b calllog.Block) error {
	t := b.Table
	row, col := max(b.Row, 1), max(b.Col, 1)
	labels := t.Labels()
	dataCol := col
	if labels != nil {
		dataCol++
	}

	if !b.NoHeader {
		twoRows := hasGroups(b.Groups)
		if labels != nil {
			if err := xlsx.SetCellValue(sheet, cell(col, row), b.LabelHeader); err != nil {
				return err
			}
		}
		for j, c := range t.Columns() {
			top, sub := headerParts(c, groupOf(b.Groups, j))
			if err := xlsx.SetCellValue(sheet, cell(dataCol+j, row), top); err != nil {
				return err
			}
			if twoRows && sub != "" {
				if err := xlsx.SetCellValue(sheet, cell(dataCol+j, row+1), sub); err != nil {
					return err
				}
			}
		}
		row++
		if twoRows {
			row++
		}
	}

	for i := 0; i < t.Len(); i++ {
		if labels != nil {
			if err := xlsx.SetCellValue(sheet, cell(col, row+i), labels[i]); err != nil {
				return err
			}
		}
		for j, v := range t.Row(i) {
			if v == nil {
				continue
			}
			if err := xlsx.SetCellValue(sheet, cell(dataCol+j, row+i), v); err != nil {
				return err
			}
		}
	}
	return nil
}

// headerParts splits a grouped column name into its two header rows.
func headerParts(column, group string) (top, sub string) {
	if group == "" {
		return column, ""
	}
	return group, strings.TrimPrefix(column, group+"_")
}

func groupOf(groups []string, i int) string {
	if i < len(groups) {
		return groups[i]
	}
	return ""
}

func hasGroups(groups []string) bool {
	for _, g := range groups {
		if g != "" {
			return true
		}
	}
	return false
}
