package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
)

// Table holds one dataset in columnar form on top of an Arrow record.
// Column names are trimmed and administrative columns are already gone.
// A Table is immutable; a nil *Table behaves as an empty table.
type Table struct {
	rec   arrow.Record
	names []string
	index map[string]int // trimmed name -> first column with that name

	// Typed views per column, exactly one of the two is non-nil
	floats []*array.Float64
	texts  []*array.String
}

func newTable(rec arrow.Record) *Table {
	n := int(rec.NumCols())
	t := &Table{
		rec:    rec,
		names:  make([]string, n),
		index:  make(map[string]int, n),
		floats: make([]*array.Float64, n),
		texts:  make([]*array.String, n),
	}
	for i := 0; i < n; i++ {
		name := strings.TrimSpace(rec.ColumnName(i))
		t.names[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
		switch col := rec.Column(i).(type) {
		case *array.Float64:
			t.floats[i] = col
		case *array.String:
			t.texts[i] = col
		}
	}
	return t
}

func (t *Table) NumRows() int {
	if t == nil || t.rec == nil {
		return 0
	}
	return int(t.rec.NumRows())
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *Table) Has(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Lookup finds a column by name; surrounding whitespace is ignored.
func (t *Table) Lookup(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[strings.TrimSpace(name)]
	return i, ok
}

// Float returns the numeric value of a cell. Text cells holding a number
// are parsed; NaN counts as null.
func (t *Table) Float(row, col int) (float64, bool) {
	if !t.inBounds(row, col) {
		return 0, false
	}
	if f := t.floats[col]; f != nil {
		if f.IsNull(row) {
			return 0, false
		}
		v := f.Value(row)
		if math.IsNaN(v) {
			return 0, false
		}
		return v, true
	}
	if s := t.texts[col]; s != nil && !s.IsNull(row) {
		v, err := strconv.ParseFloat(strings.TrimSpace(s.Value(row)), 64)
		if err == nil && !math.IsNaN(v) {
			return v, true
		}
	}
	return 0, false
}

// Text returns the textual value of a cell. Numeric cells are formatted.
func (t *Table) Text(row, col int) (string, bool) {
	if !t.inBounds(row, col) {
		return "", false
	}
	if s := t.texts[col]; s != nil {
		if s.IsNull(row) {
			return "", false
		}
		return s.Value(row), true
	}
	if v, ok := t.Float(row, col); ok {
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

// Release drops the underlying Arrow buffers.
func (t *Table) Release() {
	if t == nil || t.rec == nil {
		return
	}
	t.rec.Release()
	t.rec = nil
}

func (t *Table) inBounds(row, col int) bool {
	return t != nil && t.rec != nil &&
		row >= 0 && row < int(t.rec.NumRows()) &&
		col >= 0 && col < len(t.names)
}
