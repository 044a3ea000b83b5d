package calllog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterFromTable(t *testing.T) {
	tbl := NewTable("時短", "名前", "部署", "勤務時間")
	tbl.AppendRow("玉腰　千恵", "名古屋営業所(業務)", 5.75)
	tbl.AppendRow(nil, "埼玉支店(業務)", int64(6))
	tbl.AppendRow(" 石川　恵理 ", nil, "六")

	staff, err := RosterFromTable(tbl)
	require.NoError(t, err)
	assert.Equal(t, []Staff{
		{Name: "玉腰　千恵", Department: "名古屋営業所(業務)", Hours: 5.75},
		{Name: "石川　恵理", Department: "", Hours: 0},
	}, staff)

	_, err = RosterFromTable(NewTable("x", "氏名", "部署"))
	assert.Error(t, err)
}

func TestFindRoster(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "名簿.xlsx"),
		fixtureSheet{"全員", [][]any{{"氏名"}, {"誰か"}}},
		fixtureSheet{"時短勤務者", [][]any{
			{"時短勤務者一覧"},
			{"氏名", "部署", "勤務時間"},
			{"河原　由布子", "岡山営業所(業務)", 6},
		}},
	)

	staff, src, err := FindRoster(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "時短勤務者", src.Sheet)
	assert.Equal(t, []Staff{{Name: "河原　由布子", Department: "岡山営業所(業務)", Hours: 6}}, staff)
}

func TestFindRosterMissing(t *testing.T) {
	staff, _, err := FindRoster(t.TempDir(), "")
	require.NoError(t, err)
	assert.Nil(t, staff)
}

func TestFindRosterBadColumns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "時短.csv"), []byte("名前,部署\nA,B\n"), 0o644))

	_, _, err := FindRoster(dir, "")
	var se *SheetError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "時短.csv", se.File)
	assert.ErrorIs(t, err, errNoRosterColumns)
}
