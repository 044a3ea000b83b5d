package calllog

// Block is a table placed at a fixed anchor of a sheet.
type Block struct {
	Table *Table
	// Row and Col are the 1-based coordinates of the top-left cell.
	Row, Col int
	// NoHeader suppresses the column-name row.
	NoHeader bool
	// LabelHeader, when the table has row labels, is written above them in
	// a leading column.
	LabelHeader string
	// Groups holds a top-level header per column. When any entry is set the
	// header spans two rows: the group above, the column name with its
	// "group_" prefix removed below.
	Groups []string
}

// Sheet is one named sheet made of one or more blocks.
type Sheet struct {
	Name   string
	Blocks []Block
}

// Report is an ordered set of sheets ready to be written.
type Report struct {
	Sheets []Sheet
}

// Sheet returns the sheet with the given name, or nil.
func (r *Report) Sheet(name string) *Sheet {
	for i := range r.Sheets {
		if r.Sheets[i].Name == name {
			return &r.Sheets[i]
		}
	}
	return nil
}

// SimpleSheet wraps a single table anchored at A1.
func SimpleSheet(t *Table) Sheet {
	return Sheet{Name: t.Name, Blocks: []Block{{Table: t, Row: 1, Col: 1}}}
}
