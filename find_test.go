package calllog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinderPrefersMerged(t *testing.T) {
	dir := t.TempDir()
	header := []any{ColTime, ColCallee, ColFinal}
	writeWorkbook(t, filepath.Join(dir, "a.xlsx"),
		fixtureSheet{"外線発信", [][]any{header, {"2025-12-01 09:00:00", "x", "y"}}},
		fixtureSheet{"外線着信", [][]any{header, {"2025-12-01 09:00:00", "[東京]代表", "[東京]A"}}},
	)
	writeWorkbook(t, filepath.Join(dir, MergedFile),
		fixtureSheet{"外線着信", [][]any{header, {"2025-12-01 09:00:00", "[東京]代表", "[東京]B"}}},
	)
	writeWorkbook(t, filepath.Join(dir, ReportName(testDay)),
		fixtureSheet{"外線着信", [][]any{header, {"2025-12-01 09:00:00", "[東京]代表", "[東京]C"}}},
	)

	fd := &Finder{Dir: dir}
	tbl, src, err := fd.Find([]string{"外線着信", "外線"}, []string{"発信"})
	require.NoError(t, err)
	require.NotNil(t, tbl)
	assert.Equal(t, MergedFile, filepath.Base(src.File))
	assert.Equal(t, "外線着信", src.Sheet)
	assert.Equal(t, "[東京]B", tbl.Get(0, ColFinal))
	assert.Equal(t, MergedFile+" [外線着信]", src.String())
}

func TestFinderCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "内線通話_202512.csv")
	require.NoError(t, os.WriteFile(path, []byte("時刻,着信者\n2025-12-01 09:00:00,[東京]代表\n"), 0o644))

	fd := &Finder{Dir: dir}
	tbl, src, err := fd.Find([]string{"内線"}, nil)
	require.NoError(t, err)
	require.NotNil(t, tbl)
	assert.Equal(t, "", src.Sheet)
	assert.Equal(t, "内線通話_202512.csv (CSV)", src.String())
	assert.Equal(t, 1, tbl.Len())

	tbl, src, err = fd.Find([]string{"外線"}, nil)
	require.NoError(t, err)
	assert.Nil(t, tbl)
	assert.Equal(t, Source{}, src)
}

func TestFinderInput(t *testing.T) {
	dir := t.TempDir()
	header := []any{ColTime, ColCallee}
	writeWorkbook(t, filepath.Join(dir, MergedFile),
		fixtureSheet{"外線着信", [][]any{header, {"2025-12-01 09:00:00", "[東京]代表"}}},
	)
	other := filepath.Join(dir, "other.xlsx")
	writeWorkbook(t, other,
		fixtureSheet{"外線着信", [][]any{header, {"2025-12-01 09:00:00", "[横浜]代表"}, {"2025-12-01 10:00:00", "[横浜]代表"}}},
	)

	fd := &Finder{Dir: dir, Input: other}
	tbl, src, err := fd.Find([]string{"外線"}, nil)
	require.NoError(t, err)
	assert.Equal(t, other, src.File)
	assert.Equal(t, 2, tbl.Len())
}
