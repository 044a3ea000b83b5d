package calllog

import (
	"errors"
	"path/filepath"
	"strings"
)

var errNoRosterColumns = errors.New("roster has no name and hours columns")

// rosterKeyword marks sheets and files holding the reduced-hours roster.
const rosterKeyword = "時短"

// RosterFromTable converts a roster table with 氏名 (or 名前), 部署 and
// 勤務時間 columns. Rows without a name are skipped and unparsable hours
// count as zero.
func RosterFromTable(t *Table) ([]Staff, error) {
	nameCol := ""
	for _, c := range []string{"氏名", "名前"} {
		if t.Has(c) {
			nameCol = c
			break
		}
	}
	if nameCol == "" || !t.Has("勤務時間") {
		return nil, errNoRosterColumns
	}

	var staff []Staff
	for i := 0; i < t.Len(); i++ {
		name := strings.TrimSpace(CellString(t.Get(i, nameCol)))
		if name == "" {
			continue
		}
		hours, _ := toFloat(t.Get(i, "勤務時間"))
		staff = append(staff, Staff{
			Name:       name,
			Department: strings.TrimSpace(CellString(t.Get(i, "部署"))),
			Hours:      hours,
		})
	}
	return staff, nil
}

// FindRoster looks for a reduced-hours roster sheet or CSV file. A nil
// roster with a nil error means none was found.
func FindRoster(dir, input string) ([]Staff, Source, error) {
	fd := &Finder{Dir: dir, Input: input, Header: RosterHeader}
	t, src, err := fd.Find([]string{rosterKeyword}, nil)
	if err != nil || t == nil {
		return nil, src, err
	}
	staff, err := RosterFromTable(t)
	if err != nil {
		return nil, src, &SheetError{File: filepath.Base(src.File), Sheet: src.Sheet, Err: err}
	}
	return staff, src, nil
}
