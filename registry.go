package rowtable

import (
	"slices"
	"sync"
)

// Registry holds the column definitions and the ordered
// row definitions of a table.
//
// The Registry does not validate declarations:
// duplicate header or footer rows and overlapping data row
// predicates are accepted and rendered as declared.
// Adding a column with the name of a registered column
// replaces the registered column.
//
// Every mutation notifies the listeners registered with OnChange.
// A Registry is safe for concurrent use.
type Registry[R any] struct {
	mtx            sync.RWMutex
	columns        []*ColumnDef[R]
	rows           []*RowDef[R]
	defaultColumns []string
	listeners      map[int]func()
	nextListener   int
}

// NewRegistry returns an empty Registry
// using defaultColumns as projection for
// row definitions without explicit columns.
func NewRegistry[R any](defaultColumns ...string) *Registry[R] {
	return &Registry[R]{
		defaultColumns: defaultColumns,
		listeners:      make(map[int]func()),
	}
}

// AddColumn registers a column definition.
func (r *Registry[R]) AddColumn(col *ColumnDef[R]) {
	r.mtx.Lock()
	i := slices.IndexFunc(r.columns, func(c *ColumnDef[R]) bool { return c.Name == col.Name })
	if i >= 0 {
		r.columns[i] = col
	} else {
		r.columns = append(r.columns, col)
	}
	r.mtx.Unlock()

	r.changed()
}

// RemoveColumn unregisters the column with the passed name
// and returns if there was such a column.
func (r *Registry[R]) RemoveColumn(name string) bool {
	r.mtx.Lock()
	n := len(r.columns)
	r.columns = slices.DeleteFunc(r.columns, func(c *ColumnDef[R]) bool { return c.Name == name })
	removed := len(r.columns) != n
	r.mtx.Unlock()

	if removed {
		r.changed()
	}
	return removed
}

// AddRow appends a row definition.
// The order of data row definitions is the order
// in which they are evaluated for every record.
func (r *Registry[R]) AddRow(def *RowDef[R]) {
	r.mtx.Lock()
	r.rows = append(r.rows, def)
	r.mtx.Unlock()

	r.changed()
}

// RemoveRow unregisters a row definition
// and returns if it was registered.
func (r *Registry[R]) RemoveRow(def *RowDef[R]) bool {
	r.mtx.Lock()
	i := slices.Index(r.rows, def)
	if i >= 0 {
		r.rows = slices.Delete(r.rows, i, i+1)
	}
	r.mtx.Unlock()

	if i >= 0 {
		r.changed()
	}
	return i >= 0
}

// SetDefaultColumns sets the projection used by row definitions
// without explicit Columns. If no default columns are set,
// all columns are projected in registration order.
func (r *Registry[R]) SetDefaultColumns(names ...string) {
	r.mtx.Lock()
	r.defaultColumns = slices.Clone(names)
	r.mtx.Unlock()

	r.changed()
}

// DefaultColumns returns the names set with SetDefaultColumns.
func (r *Registry[R]) DefaultColumns() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return slices.Clone(r.defaultColumns)
}

// Column returns the column definition with the passed name.
func (r *Registry[R]) Column(name string) (*ColumnDef[R], bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.column(name)
}

func (r *Registry[R]) column(name string) (*ColumnDef[R], bool) {
	for _, c := range r.columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Columns returns all column definitions in registration order.
func (r *Registry[R]) Columns() []*ColumnDef[R] {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return slices.Clone(r.columns)
}

// Rows returns the row definitions of a kind in declaration order.
func (r *Registry[R]) Rows(kind RowKind) []*RowDef[R] {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	var rows []*RowDef[R]
	for _, def := range r.rows {
		if def.Kind == kind {
			rows = append(rows, def)
		}
	}
	return rows
}

func (r *Registry[R]) HeaderRows() []*RowDef[R] { return r.Rows(HeaderRow) }
func (r *Registry[R]) DataRows() []*RowDef[R]   { return r.Rows(DataRow) }
func (r *Registry[R]) FooterRows() []*RowDef[R] { return r.Rows(FooterRow) }

// NoDataRow returns the first registered no-data row definition
// or nil if there is none.
func (r *Registry[R]) NoDataRow() *RowDef[R] {
	rows := r.Rows(NoDataRow)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// ResolveColumns returns the column definitions projected by def.
// An error wrapping ErrUnknownColumn is returned
// for projected names that are not registered.
func (r *Registry[R]) ResolveColumns(def *RowDef[R]) ([]*ColumnDef[R], error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	names := def.Columns
	if names == nil {
		names = r.defaultColumns
	}
	if names == nil {
		return slices.Clone(r.columns), nil
	}
	columns := make([]*ColumnDef[R], len(names))
	for i, name := range names {
		col, ok := r.column(name)
		if !ok {
			return nil, unknownColumnError(name)
		}
		columns[i] = col
	}
	return columns, nil
}

// OnChange registers a listener that is called after every mutation.
// The returned function unregisters the listener.
func (r *Registry[R]) OnChange(listener func()) (unsubscribe func()) {
	r.mtx.Lock()
	if r.listeners == nil {
		r.listeners = make(map[int]func())
	}
	id := r.nextListener
	r.nextListener++
	r.listeners[id] = listener
	r.mtx.Unlock()

	return func() {
		r.mtx.Lock()
		delete(r.listeners, id)
		r.mtx.Unlock()
	}
}

func (r *Registry[R]) changed() {
	r.mtx.RLock()
	ids := make([]int, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	listeners := make([]func(), len(ids))
	for i, id := range ids {
		listeners[i] = r.listeners[id]
	}
	r.mtx.RUnlock()

	for _, listener := range listeners {
		listener()
	}
}
