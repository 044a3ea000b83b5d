package calllog

import (
	"path/filepath"
	"slices"
	"strings"

	diffpatch "github.com/sourcegraph/go-diff-patch"
	"go.uber.org/zap"
)

// MergedFile is the name of the consolidated workbook.
const MergedFile = "発着信履歴_統合版.xlsx"

// Files with this marker in their name are samples, not data.
const sampleMarker = "見本"

// Merger consolidates the per-period phone exports found in a directory.
type Merger struct {
	Dir    string
	Output string
	Config *Config
	Log    *zap.Logger
}

// Inputs lists the workbooks to merge, sorted by file name. The output file
// and sample files are excluded.
func (m *Merger) Inputs() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(m.dir(), "*.xlsx"))
	if err != nil {
		return nil, err
	}
	out := filepath.Base(m.output())
	files = slices.DeleteFunc(files, func(f string) bool {
		base := filepath.Base(f)
		return strings.Contains(base, out) || strings.Contains(base, sampleMarker) || strings.HasPrefix(base, "~$")
	})
	slices.Sort(files)
	return files, nil
}

// Merge reads every input workbook and returns the consolidated sheets:
// append sheets concatenated across files in file-name order, followed by
// replace sheets taken from the last file that has them. Sheets without
// data are left out. Files that cannot be read are logged and skipped.
func (m *Merger) Merge() ([]*Table, error) {
	log := m.log()
	cfg := m.config()

	files, err := m.Inputs()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoInput
	}
	log.Info("Merging workbooks", zap.Int("files", len(files)))

	appended := make(map[string][]*Table)
	replaced := make(map[string]*Table)

	for _, file := range files {
		log.Info("Reading", zap.String("file", filepath.Base(file)))
		tables, err := ReadWorkbook(file)
		if err != nil {
			log.Warn("Skipping unreadable file", zap.String("file", filepath.Base(file)), zap.Error(err))
			continue
		}
		for _, t := range tables {
			switch {
			case slices.Contains(cfg.AppendSheets, t.Name):
				if t.Name == cfg.InternalSheet && len(cfg.InternalHeaders) > 0 {
					if !m.fixHeader(file, t) {
						continue
					}
				}
				appended[t.Name] = append(appended[t.Name], t)

			case slices.Contains(cfg.ReplaceSheets, t.Name):
				replaced[t.Name] = t
			}
		}
	}

	var out []*Table
	for _, name := range cfg.AppendSheets {
		parts := appended[name]
		if len(parts) == 0 {
			log.Info("No data", zap.String("sheet", name))
			continue
		}
		merged := Concat(name, parts...)
		log.Info("Merged", zap.String("sheet", name), zap.Int("rows", merged.Len()))
		out = append(out, merged)
	}
	for _, name := range cfg.ReplaceSheets {
		t, ok := replaced[name]
		if !ok {
			log.Info("No data", zap.String("sheet", name))
			continue
		}
		log.Info("Kept latest", zap.String("sheet", name), zap.Int("rows", t.Len()))
		out = append(out, t)
	}
	return out, nil
}

// fixHeader overwrites the broken header of the internal-call sheet. It
// reports false, after logging how the header differs, when the column
// count does not allow a positional overwrite.
func (m *Merger) fixHeader(file string, t *Table) bool {
	want := m.config().InternalHeaders
	have := t.Columns()
	if len(have) == len(want) {
		if err := t.RenameColumns(want); err == nil {
			return true
		}
	}
	patch := diffpatch.GeneratePatch(t.Name, strings.Join(want, "\n")+"\n", strings.Join(have, "\n")+"\n")
	m.log().Warn("Column count mismatch, sheet skipped",
		zap.String("file", filepath.Base(file)),
		zap.String("sheet", t.Name),
		zap.Int("want", len(want)),
		zap.Int("have", len(have)),
		zap.String("diff", patch))
	return false
}

func (m *Merger) dir() string {
	if m.Dir == "" {
		return "."
	}
	return m.Dir
}

func (m *Merger) output() string {
	if m.Output == "" {
		return MergedFile
	}
	return m.Output
}

func (m *Merger) config() *Config {
	if m.Config == nil {
		m.Config = DefaultConfig()
	}
	return m.Config
}

func (m *Merger) log() *zap.Logger {
	if m.Log == nil {
		m.Log = zap.NewNop()
	}
	return m.Log
}
