package rowtable

import "reflect"

// RowContext is the binding context of a rendered row view.
//
// For data rows Index is the index of the record in the data,
// RenderIndex the position among all rendered data rows
// and Count the number of rendered data rows.
// First, Last, Even and Odd are derived from RenderIndex.
// Rows of other kinds are indexed within their own segment.
// Key is the identity of the rendered row.
type RowContext[R any] struct {
	Key         RowKey
	Kind        RowKind
	Record      R
	Index       int
	RenderIndex int
	Count       int
	First       bool
	Last        bool
	Even        bool
	Odd         bool
	Columns     []*ColumnDef[R]
}

func newRowContext[R any](kind RowKind, record R, index, renderIndex, count int, columns []*ColumnDef[R]) *RowContext[R] {
	return &RowContext[R]{
		Kind:        kind,
		Record:      record,
		Index:       index,
		RenderIndex: renderIndex,
		Count:       count,
		First:       renderIndex == 0,
		Last:        renderIndex == count-1,
		Even:        renderIndex%2 == 0,
		Odd:         renderIndex%2 != 0,
		Columns:     columns,
	}
}

// ColumnNames returns the names of the projected columns.
func (c *RowContext[R]) ColumnNames() []string {
	names := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		names[i] = col.Name
	}
	return names
}

// Equal returns if both contexts bind the same values.
// Records are compared with == when comparable
// and with reflect.DeepEqual otherwise.
func (c *RowContext[R]) Equal(other *RowContext[R]) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Kind != other.Kind ||
		c.Index != other.Index ||
		c.RenderIndex != other.RenderIndex ||
		c.Count != other.Count ||
		len(c.Columns) != len(other.Columns) {
		return false
	}
	for i := range c.Columns {
		if c.Columns[i] != other.Columns[i] {
			return false
		}
	}
	return sameRecord(c.Record, other.Record)
}

func sameRecord(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.IsValid() && vb.IsValid() && va.Type() == vb.Type() && va.Comparable() && vb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
