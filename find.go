package calllog

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Generated reports carry this marker in their file name and are never
// used as input.
const reportMarker = "集計結果"

// Files carrying this marker are preferred over other candidates.
const mergedMarker = "統合版"

// Source identifies where a table was read from. Sheet is empty for CSV.
type Source struct {
	File  string
	Sheet string
}

func (s Source) String() string {
	if s.Sheet == "" {
		return filepath.Base(s.File) + " (CSV)"
	}
	return filepath.Base(s.File) + " [" + s.Sheet + "]"
}

// Finder locates the best candidate table for a set of keywords.
type Finder struct {
	// Dir is searched for *.xlsx and *.csv files.
	Dir string
	// Input, when set, is the only file considered.
	Input string
	// Header locates the header row of xlsx candidates.
	Header RowMatcher
}

// Find returns the table for the first candidate whose sheet name (xlsx) or
// file name (csv) contains one of include and none of exclude. Files whose
// name marks them as merged are preferred. A nil table and zero Source mean
// nothing matched.
func (fd *Finder) Find(include, exclude []string) (*Table, Source, error) {
	cands, err := fd.candidates(include, exclude)
	if err != nil {
		return nil, Source{}, err
	}
	if len(cands) == 0 {
		return nil, Source{}, nil
	}

	src := cands[0]
	if src.Sheet == "" {
		t, err := ReadCSV(src.File)
		return t, src, err
	}

	f, err := excelize.OpenFile(src.File)
	if err != nil {
		return nil, src, &SheetError{File: filepath.Base(src.File), Sheet: src.Sheet, Err: err}
	}
	defer f.Close()

	match := fd.Header
	if match == nil {
		match = CallLogHeader
	}
	t, err := ReadSheetDetect(f, src.Sheet, match)
	if err != nil {
		return nil, src, &SheetError{File: filepath.Base(src.File), Sheet: src.Sheet, Err: err}
	}
	return t, src, nil
}

func (fd *Finder) candidates(include, exclude []string) ([]Source, error) {
	xlsx, csvs, err := fd.files()
	if err != nil {
		return nil, err
	}

	var cands []Source
	for _, file := range xlsx {
		f, err := excelize.OpenFile(file)
		if err != nil {
			// unreadable files are not candidates
			continue
		}
		for _, sheet := range f.GetSheetList() {
			if containsAny(sheet, include) && !containsAny(sheet, exclude) {
				cands = append(cands, Source{File: file, Sheet: sheet})
			}
		}
		_ = f.Close()
	}
	for _, file := range csvs {
		name := filepath.Base(file)
		if containsAny(name, include) && !containsAny(name, exclude) {
			cands = append(cands, Source{File: file})
		}
	}

	sort.SliceStable(cands, func(a, b int) bool {
		return preferred(cands[a].File) && !preferred(cands[b].File)
	})
	return cands, nil
}

func (fd *Finder) files() (xlsx, csvs []string, err error) {
	if fd.Input != "" {
		if strings.EqualFold(filepath.Ext(fd.Input), ".csv") {
			return nil, []string{fd.Input}, nil
		}
		return []string{fd.Input}, nil, nil
	}

	dir := fd.Dir
	if dir == "" {
		dir = "."
	}
	xlsx, err = filepath.Glob(filepath.Join(dir, "*.xlsx"))
	if err != nil {
		return nil, nil, err
	}
	csvs, err = filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, nil, err
	}
	isReport := func(s string) bool { return strings.Contains(filepath.Base(s), reportMarker) }
	xlsx = slices.DeleteFunc(xlsx, isReport)
	csvs = slices.DeleteFunc(csvs, isReport)
	return xlsx, csvs, nil
}

func preferred(file string) bool {
	return strings.Contains(filepath.Base(file), mergedMarker)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
