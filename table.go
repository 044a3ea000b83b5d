package calllog

import (
	"fmt"
	"slices"
)

// Table is a named, column-oriented sheet. All columns share the same row
// count; row labels are optional and, when set, have one entry per row.
type Table struct {
	Name string

	cols   []string
	data   map[string][]any
	labels []string
	rows   int
}

func NewTable(name string, columns ...string) *Table {
	t := &Table{
		Name: name,
		data: make(map[string][]any),
	}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

func (t *Table) addColumn(name string) {
	if _, ok := t.data[name]; ok {
		return
	}
	t.cols = append(t.cols, name)
	t.data[name] = make([]any, t.rows)
}

func (t *Table) Columns() []string {
	return slices.Clone(t.cols)
}

func (t *Table) Len() int {
	return t.rows
}

func (t *Table) Has(col string) bool {
	_, ok := t.data[col]
	return ok
}

// Column returns the values of col, or nil when the column does not exist.
// The returned slice is shared with the table.
func (t *Table) Column(col string) []any {
	return t.data[col]
}

func (t *Table) Get(row int, col string) any {
	vals, ok := t.data[col]
	if !ok || row < 0 || row >= len(vals) {
		return nil
	}
	return vals[row]
}

// Set stores v at (row, col), adding the column if needed.
func (t *Table) Set(row int, col string, v any) {
	if row < 0 || row >= t.rows {
		return
	}
	t.addColumn(col)
	t.data[col][row] = v
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.cols))
	for j, c := range t.cols {
		row[j] = t.data[c][i]
	}
	return row
}

func (t *Table) Rows() [][]any {
	rows := make([][]any, t.rows)
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// AppendRow appends one row given positionally in column order. Missing
// trailing values are nil; extra values are dropped.
func (t *Table) AppendRow(vals ...any) {
	for j, c := range t.cols {
		var v any
		if j < len(vals) {
			v = vals[j]
		}
		t.data[c] = append(t.data[c], v)
	}
	t.rows++
}

// AppendRecord appends one row given by column name. Columns not yet in the
// table are added, with nil for all earlier rows.
func (t *Table) AppendRecord(rec map[string]any, order ...string) {
	for _, c := range order {
		t.addColumn(c)
	}
	for c := range rec {
		if !t.Has(c) {
			t.addColumn(c)
		}
	}
	for _, c := range t.cols {
		t.data[c] = append(t.data[c], rec[c])
	}
	t.rows++
}

// AddColumn adds or replaces a full column.
func (t *Table) AddColumn(col string, vals []any) error {
	if len(vals) != t.rows {
		return fmt.Errorf("column %q has %d values, table has %d rows", col, len(vals), t.rows)
	}
	t.addColumn(col)
	t.data[col] = vals
	return nil
}

// RenameColumns replaces all column names positionally.
func (t *Table) RenameColumns(names []string) error {
	if len(names) != len(t.cols) {
		return fmt.Errorf("rename: %d names for %d columns", len(names), len(t.cols))
	}
	data := make(map[string][]any, len(names))
	for i, n := range names {
		if _, dup := data[n]; dup {
			return fmt.Errorf("rename: duplicate column %q", n)
		}
		data[n] = t.data[t.cols[i]]
	}
	t.cols = slices.Clone(names)
	t.data = data
	return nil
}

func (t *Table) Labels() []string {
	return t.labels
}

func (t *Table) SetLabels(labels []string) error {
	if labels != nil && len(labels) != t.rows {
		return fmt.Errorf("%d labels for %d rows", len(labels), t.rows)
	}
	t.labels = labels
	return nil
}

// Select returns a new table holding only the named columns that exist, in
// the given order.
func (t *Table) Select(cols ...string) *Table {
	out := NewTable(t.Name)
	for _, c := range cols {
		vals, ok := t.data[c]
		if !ok {
			continue
		}
		out.cols = append(out.cols, c)
		out.data[c] = slices.Clone(vals)
	}
	out.rows = t.rows
	out.labels = slices.Clone(t.labels)
	return out
}

// Filter returns a new table with the rows for which keep is true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := NewTable(t.Name, t.cols...)
	var labels []string
	for i := 0; i < t.rows; i++ {
		if !keep(i) {
			continue
		}
		out.AppendRow(t.Row(i)...)
		if t.labels != nil {
			labels = append(labels, t.labels[i])
		}
	}
	out.labels = labels
	return out
}

// Concat stacks tables vertically. The result has the union of all columns
// in first-seen order; cells missing from a source table are nil.
func Concat(name string, tables ...*Table) *Table {
	out := NewTable(name)
	for _, src := range tables {
		for _, c := range src.cols {
			out.addColumn(c)
		}
	}
	for _, src := range tables {
		for _, c := range out.cols {
			vals, ok := src.data[c]
			if !ok {
				vals = make([]any, src.rows)
			}
			out.data[c] = append(out.data[c], vals...)
		}
		out.rows += src.rows
	}
	return out
}
