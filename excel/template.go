package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
	"kastelo.dev/calllog"
)

// TemplateFile is the name of the formula-linked template workbook.
const TemplateFile = "集計用テンプレート_v1.xlsx"

const (
	templateRows     = 50
	templateColWidth = 15
	black            = "#000000"
)

type templateSheet struct {
	source string
	base   string
	title  string
}

var templateSheets = []templateSheet{
	{calllog.SheetCounts, "着信", "1. 拠点別 着信件数"},
	{calllog.SheetStaff, "従業員", "2. 従業員別 実績"},
	{calllog.SheetSites, "関数拠点", "3. 拠点別 関数集計"},
	{calllog.SheetReducedHours, "時短", "4. 時短勤務者"},
	{calllog.SheetBusinessFinal, "営業集計", "5. 営業時間内(Final) 集計"},
	{calllog.SheetBusinessTarget, "時間内", "6. 営業時間内(Target) 集計"},
}

var (
	countsColumns = []string{"拠点", "内線_入電", "内線_着電", "外線_入電", "外線_着電", "他拠点へ転送", "他拠点から転送"}
	targetColumns = []string{"拠点", "内線_入電", "内線_着電", "内線_応答率", "外線_入電", "外線_着電", "外線_応答率"}
	finalColumns  = []string{"拠点名", "営業時間内_外線のみ", "人員", "1人当たり／月", "全体からの比率"}
)

// LatestReport returns the most recently modified report workbook in dir.
func LatestReport(dir string) (string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "集計結果_*.xlsx"))
	if err != nil {
		return "", err
	}
	files = slices.DeleteFunc(files, func(f string) bool {
		return strings.HasPrefix(filepath.Base(f), "~$")
	})
	if len(files) == 0 {
		return "", calllog.ErrNoInput
	}

	latest := ""
	var latestMod int64
	for _, f := range files {
		fi, err := os.Stat(f)
		if err != nil {
			continue
		}
		if mod := fi.ModTime().UnixNano(); latest == "" || mod > latestMod {
			latest, latestMod = f, mod
		}
	}
	if latest == "" {
		return "", calllog.ErrNoInput
	}
	return latest, nil
}

// ReadReport reads back the report sheets present in the workbook at path,
// decorated or not. Each table is named after its source sheet.
func ReadReport(path string) ([]*calllog.Table, error) {
	xlsx, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer xlsx.Close()

	present := xlsx.GetSheetList()

	var tables []*calllog.Table
	for _, ts := range templateSheets {
		if !slices.Contains(present, ts.source) {
			continue
		}

		var t *calllog.Table
		switch ts.source {
		case calllog.SheetCounts, calllog.SheetBusinessTarget:
			cols := countsColumns
			if ts.source == calllog.SheetBusinessTarget {
				cols = targetColumns
			}
			t, err = readLabelled(xlsx, ts.source, cols)
			if err == nil && t != nil && ts.source == calllog.SheetCounts {
				for _, c := range cols[1:5] {
					coerceInt(t, c)
				}
			}

		case calllog.SheetBusinessFinal:
			t, err = calllog.ReadSheetDetect(xlsx, ts.source, cellEquals("拠点名"))
			if err == nil {
				t = t.Select(finalColumns...)
			}

		default:
			t, err = calllog.ReadSheet(xlsx, ts.source, 0)
			if err == nil {
				t = leadingBlock(t)
			}
		}
		if err != nil {
			return nil, &calllog.SheetError{File: filepath.Base(path), Sheet: ts.source, Err: err}
		}
		if t != nil {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// readLabelled reads a table whose row labels sit in column A under a
// 拠点 header, keeping the first len(cols) columns under the given names.
// A nil table means the header was not found.
func readLabelled(xlsx *excelize.File, sheet string, cols []string) (*calllog.Table, error) {
	t, err := calllog.ReadSheetDetect(xlsx, sheet, func(row []string) bool {
		return len(row) > 0 && row[0] == "拠点"
	})
	if err != nil {
		return nil, err
	}
	have := t.Columns()
	if len(have) < len(cols) || have[0] != "拠点" {
		return nil, nil
	}
	t = t.Select(have[:len(cols)]...)
	if err := t.RenameColumns(cols); err != nil {
		return nil, err
	}
	return t.Filter(func(i int) bool {
		return calllog.CellString(t.Get(i, "拠点")) != ""
	}), nil
}

// leadingBlock keeps the columns up to the first unnamed one, dropping any
// side blocks, and the rows that have data in them.
func leadingBlock(t *calllog.Table) *calllog.Table {
	cols := t.Columns()
	n := slices.IndexFunc(cols, func(c string) bool {
		return strings.HasPrefix(c, "Unnamed: ")
	})
	if n >= 0 {
		t = t.Select(cols[:n]...)
	}
	return t.Filter(func(i int) bool {
		return slices.ContainsFunc(t.Row(i), func(v any) bool { return v != nil })
	})
}

func cellEquals(s string) calllog.RowMatcher {
	return func(row []string) bool {
		return slices.Contains(row, s)
	}
}

func coerceInt(t *calllog.Table, col string) {
	for i := 0; i < t.Len(); i++ {
		switch v := t.Get(i, col).(type) {
		case int64:
		case float64:
			t.Set(i, col, int64(v))
		default:
			t.Set(i, col, int64(0))
		}
	}
}

// WriteTemplate writes the template workbook: for each table a RawData
// sheet holding its values and a Report sheet whose cells are formulas
// reading the RawData sheet.
func WriteTemplate(path string, tables []*calllog.Table) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()
	initial := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())

	titleStyle, err := xlsx.NewStyle(mergeStyles(fontBold(), fontSize(14)))
	if err != nil {
		return err
	}
	headerStyle, err := xlsx.NewStyle(mergeStyles(fontBold(), fontColor(white), fill(templateHdr),
		textAlignment("center"), border(black, 1, "bottom")))
	if err != nil {
		return err
	}
	linkStyle, err := xlsx.NewStyle(mergeStyles(border(black, 1, "left", "right"), border(black, 4, "bottom")))
	if err != nil {
		return err
	}

	written := 0
	for _, ts := range templateSheets {
		idx := slices.IndexFunc(tables, func(t *calllog.Table) bool { return t.Name == ts.source })
		if idx < 0 {
			continue
		}
		t := tables[idx]
		report := "Report_" + ts.base
		raw := "RawData_" + ts.base
		for _, name := range []string{report, raw} {
			if _, err := xlsx.NewSheet(name); err != nil {
				return err
			}
		}

		cols := t.Columns()
		header := make([]any, len(cols))
		for i, c := range cols {
			header[i] = c
		}
		if err := xlsx.SetSheetRow(raw, "A1", &header); err != nil {
			return err
		}
		for i := 0; i < t.Len(); i++ {
			row := t.Row(i)
			if err := xlsx.SetSheetRow(raw, cell(1, i+2), &row); err != nil {
				return err
			}
		}

		if err := xlsx.SetCellValue(report, "A1", ts.title); err != nil {
			return err
		}
		if err := xlsx.SetCellStyle(report, "A1", "A1", titleStyle); err != nil {
			return err
		}
		if len(cols) == 0 {
			written++
			continue
		}
		if err := xlsx.SetSheetRow(report, "A3", &header); err != nil {
			return err
		}
		last := colName(len(cols))
		if err := xlsx.SetCellStyle(report, "A3", last+"3", headerStyle); err != nil {
			return err
		}
		if err := xlsx.SetColWidth(report, "A", last, templateColWidth); err != nil {
			return err
		}

		for r := 4; r < 4+templateRows; r++ {
			for c := 1; c <= len(cols); c++ {
				ref := fmt.Sprintf("'%s'!%s", raw, cell(c, r-2))
				formula := fmt.Sprintf(`IF(%s="","",%s)`, ref, ref)
				if err := xlsx.SetCellFormula(report, cell(c, r), formula); err != nil {
					return err
				}
			}
		}
		if err := xlsx.SetCellStyle(report, "A4", cell(len(cols), 3+templateRows), linkStyle); err != nil {
			return err
		}
		written++
	}

	if written == 0 {
		return calllog.ErrNoData
	}
	if err := xlsx.DeleteSheet(initial); err != nil {
		return err
	}
	xlsx.SetActiveSheet(0)
	return save(xlsx, path)
}
