package calllog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixtureSheet struct {
	name string
	rows [][]any
}

// writeWorkbook saves an xlsx file with the given sheets, in order.
func writeWorkbook(t *testing.T, path string, sheets ...fixtureSheet) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(s.name, cell, &row))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func callTable(rows ...[]any) *Table {
	t := NewTable("calls", ColTime, ColCallee, ColFinal, ColDuration)
	for _, r := range rows {
		t.AppendRow(r...)
	}
	return t
}
