package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
	"kastelo.dev/calllog"
)

// testReport analyzes a small fixed call log.
func testReport(t *testing.T) *calllog.Report {
	t.Helper()
	cols := []string{calllog.ColTime, calllog.ColCallee, calllog.ColFinal, calllog.ColDuration}
	internal := calllog.NewTable("内線通話", cols...)
	internal.AppendRow("2025-12-01 09:30:00", "[横浜]内線", "[東京]田中", int64(10))
	external := calllog.NewTable("外線着信", cols...)
	external.AppendRow("2025-12-01 09:00:00", "[東京]代表", "[東京]田中", int64(60))
	external.AppendRow("2025-12-01 20:00:00", "[東京]代表", "[横浜]奥秋素子", int64(120))
	external.AppendRow("2025-12-02 10:00:00", "[大阪]代表", "不在", nil)
	external.AppendRow("2025-12-02 11:00:00", "[東京]代表", "[東京]田中", int64(30))

	a := &calllog.Analyzer{Log: zaptest.NewLogger(t)}
	rep, err := a.Analyze(internal, external)
	require.NoError(t, err)
	return rep
}

func writeTestReport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "集計結果_2025-12-16.xlsx")
	require.NoError(t, WriteReport(path, testReport(t)))
	return path
}

func cellValue(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func TestWriteReport(t *testing.T) {
	path := writeTestReport(t)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		calllog.SheetCounts, calllog.SheetStaff, calllog.SheetSites,
		calllog.SheetReducedHours, calllog.SheetBusinessFinal, calllog.SheetBusinessTarget,
	}, f.GetSheetList())

	// two-row grouped header with the row labels in column A
	counts := calllog.SheetCounts
	assert.Equal(t, "拠点", cellValue(t, f, counts, "A1"))
	assert.Equal(t, "内線", cellValue(t, f, counts, "B1"))
	assert.Equal(t, "入電", cellValue(t, f, counts, "B2"))
	assert.Equal(t, "着電", cellValue(t, f, counts, "E2"))
	assert.Equal(t, "他拠点へ転送", cellValue(t, f, counts, "F1"))
	assert.Equal(t, "", cellValue(t, f, counts, "F2"))
	assert.Equal(t, "東京", cellValue(t, f, counts, "A3"))
	assert.Equal(t, "3", cellValue(t, f, counts, "D3"))
	assert.Equal(t, "流山", cellValue(t, f, counts, "G3"))
	assert.Equal(t, calllog.TotalLabel, cellValue(t, f, counts, "A14"))
	assert.Equal(t, "4", cellValue(t, f, counts, "D14"))
	assert.Equal(t, "追加集計(24H)", cellValue(t, f, counts, "J22"))
	assert.Equal(t, "東京+流山", cellValue(t, f, counts, "J23"))

	sites := calllog.SheetSites
	assert.Equal(t, "拠点名", cellValue(t, f, sites, "A1"))
	assert.Equal(t, "拠点名", cellValue(t, f, sites, "I1"))
	assert.Equal(t, "横浜", cellValue(t, f, sites, "I2"))

	target := calllog.SheetBusinessTarget
	assert.Equal(t, "表計(入電)", cellValue(t, f, target, "M1"))
	assert.Equal(t, "3", cellValue(t, f, target, "M2"))
	assert.Equal(t, "拠点", cellValue(t, f, target, "A4"))
	assert.Equal(t, "応答率", cellValue(t, f, target, "D5"))
	assert.Equal(t, "追加集計(時間内)", cellValue(t, f, target, "M5"))
}

func TestWriteReportSkipsMissingValues(t *testing.T) {
	tbl := calllog.NewTable("データ", "a", "b")
	tbl.AppendRow(int64(1), nil)
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteTables(path, []*calllog.Table{tbl}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"データ"}, f.GetSheetList())
	typ, err := f.GetCellType("データ", "B2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeUnset, typ)
	assert.Equal(t, "1", cellValue(t, f, "データ", "A2"))
}

func TestWriteReportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	assert.ErrorIs(t, WriteReport(path, &calllog.Report{}), calllog.ErrNoData)
	assert.ErrorIs(t, WriteTables(path, nil), calllog.ErrNoData)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestHeaderParts(t *testing.T) {
	cases := []struct {
		column, group string
		top, sub      string
	}{
		{"内線_入電", "内線", "内線", "入電"},
		{"外線_応答率", "外線", "外線", "応答率"},
		{"他拠点へ転送", "", "他拠点へ転送", ""},
		{"着電", "内線", "内線", "着電"},
	}
	for _, tc := range cases {
		top, sub := headerParts(tc.column, tc.group)
		assert.Equal(t, tc.top, top)
		assert.Equal(t, tc.sub, sub)
	}
}
