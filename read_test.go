package calllog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
)

func TestDetectHeaderRow(t *testing.T) {
	rows := [][]string{
		{"発着信履歴 2025年12月"},
		{},
		{"時刻", "着信者", "最終着信者"},
		{"2025-12-01 09:00:00", "[東京]代表", "[東京]田中"},
	}
	assert.Equal(t, 2, DetectHeaderRow(rows, CallLogHeader, 20))
	assert.Equal(t, 0, DetectHeaderRow(rows, CallLogHeader, 2))
	assert.Equal(t, 0, DetectHeaderRow(rows, RosterHeader, 20))
}

func TestRosterHeader(t *testing.T) {
	assert.True(t, RosterHeader([]string{"氏名", "部署", "勤務時間"}))
	assert.True(t, RosterHeader([]string{" 名前 ", "勤務時間"}))
	assert.False(t, RosterHeader([]string{"氏名", "部署"}))
}

func TestHeaderNames(t *testing.T) {
	cases := []struct {
		row   []string
		width int
		want  []string
	}{
		{[]string{"a", "b"}, 2, []string{"a", "b"}},
		{[]string{"a", "", "b"}, 4, []string{"a", "Unnamed: 1", "b", "Unnamed: 3"}},
		{[]string{"a", "a", " a ", "b"}, 4, []string{"a", "a.1", "a.2", "b"}},
		{[]string{"a.1", "a", "a"}, 3, []string{"a.1", "a", "a.2"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, headerNames(tc.row, tc.width), "%q", tc.row)
	}
}

func TestReadSheetDetect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.xlsx")
	writeWorkbook(t, path, fixtureSheet{"外線着信", [][]any{
		{"発着信履歴"},
		{ColTime, ColCallee, ColFinal, ColDuration},
		{"2025-12-01 09:00:00", "[東京]代表", "[東京]田中", 60},
		{},
		{"2025-12-01 10:00:00", "[横浜]代表", "不在", 0},
	}})

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	tbl, err := ReadSheetDetect(f, "外線着信", CallLogHeader)
	require.NoError(t, err)
	assert.Equal(t, "外線着信", tbl.Name)
	assert.Equal(t, []string{ColTime, ColCallee, ColFinal, ColDuration}, tbl.Columns())
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, int64(60), tbl.Get(0, ColDuration))
	assert.Equal(t, "不在", tbl.Get(1, ColFinal))

	_, err = ReadSheetDetect(f, "missing", CallLogHeader)
	assert.Error(t, err)
}

func TestReadSheetCellTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.xlsx")
	f := excelize.NewFile()
	sheet := "Sheet1"
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{ColTime, "発信番号", "日付", "率", ColDuration}))

	at := time.Date(2025, 12, 1, 17, 45, 30, 0, time.Local)
	require.NoError(t, f.SetCellValue(sheet, "A2", at))
	require.NoError(t, f.SetCellStr(sheet, "B2", "0312345678"))
	custom := "yyyy/m/d"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &custom})
	require.NoError(t, err)
	require.NoError(t, f.SetCellFloat(sheet, "C2", 45992, -1, 64))
	require.NoError(t, f.SetCellStyle(sheet, "C2", "C2", dateStyle))
	pct, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	require.NoError(t, err)
	require.NoError(t, f.SetCellFloat(sheet, "D2", 0.75, -1, 64))
	require.NoError(t, f.SetCellStyle(sheet, "D2", "D2", pct))
	require.NoError(t, f.SetCellInt(sheet, "E2", 95))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	f, err = excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	tbl, err := ReadSheet(f, sheet, 0)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	ts, ok := tbl.Get(0, ColTime).(time.Time)
	require.True(t, ok, "%T", tbl.Get(0, ColTime))
	assert.True(t, at.Equal(ts), ts.String())
	assert.Equal(t, "0312345678", tbl.Get(0, "発信番号"))
	day, ok := tbl.Get(0, "日付").(time.Time)
	require.True(t, ok, "%T", tbl.Get(0, "日付"))
	assert.Equal(t, "2025-12-01", day.Format(time.DateOnly))
	assert.Equal(t, 0.75, tbl.Get(0, "率"))
	assert.Equal(t, int64(95), tbl.Get(0, ColDuration))
}

func TestDateFormat(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"yyyy/m/d h:mm", true},
		{"[h]:mm:ss", true},
		{"[$-411]ggge\"年\"m\"月\"d\"日\"", true},
		{"#,##0", false},
		{"#,##0.0", false},
		{"0.0%", false},
		{"General", false},
		{"[Red]#,##0", false},
		{"\"hours\" 0", false},
		{"0;\"d\"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, dateFormat(tc.code), tc.code)
	}
	assert.True(t, builtinDateFormat(22))
	assert.True(t, builtinDateFormat(14))
	assert.False(t, builtinDateFormat(3))
	assert.False(t, builtinDateFormat(10))
}

func TestReadCSV(t *testing.T) {
	const data = "時刻,着信者,最終着信者\n2025-12-01 09:00:00,【東京】代表,【東京】田中\n,,\n"

	sjis, err := japanese.ShiftJIS.NewEncoder().String(data)
	require.NoError(t, err)

	cases := map[string]string{
		"utf8":      data,
		"utf8 bom":  "\xef\xbb\xbf" + data,
		"shift_jis": sjis,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "外線着信.csv")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			tbl, err := ReadCSV(path)
			require.NoError(t, err)
			assert.Equal(t, "外線着信.csv", tbl.Name)
			assert.Equal(t, []string{ColTime, ColCallee, ColFinal}, tbl.Columns())
			require.Equal(t, 1, tbl.Len())
			assert.Equal(t, "【東京】田中", tbl.Get(0, ColFinal))
		})
	}
}

func TestReadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeWorkbook(t, path,
		fixtureSheet{"内線通話", [][]any{{"a", "b"}, {1, "x"}}},
		fixtureSheet{"電話端末", [][]any{{"端末"}, {"A-1"}, {"A-2"}}},
	)

	tables, err := ReadWorkbook(path)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "内線通話", tables[0].Name)
	assert.Equal(t, 1, tables[0].Len())
	assert.Equal(t, "電話端末", tables[1].Name)
	assert.Equal(t, 2, tables[1].Len())

	_, err = ReadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
