package htmltable

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strings"
	"sync"

	rowtable "github.com/domonda/go-rowtable"
)

var (
	_ rowtable.DetachingEngine[any] = new(Surface[any])
	_ rowtable.Batcher              = new(Surface[any])
	_ rowtable.Measurer             = new(Surface[any])
	_ rowtable.StickyApplier        = new(Surface[any])
)

// Row is the view of a rendered table row.
type Row struct {
	// Name of the row definition.
	Name   string
	Kind   rowtable.RowKind
	Index  int
	First  bool
	Last   bool
	Even   bool
	Odd    bool
	Cells  []Cell
	Sticky rowtable.StickyOffset
	// Height is used for sticky row offsets if greater zero.
	Height float64

	noData template.HTML
}

// Cell is a formatted cell of a Row.
type Cell struct {
	Column  string
	HTML    template.HTML
	Colspan int
	Sticky  rowtable.StickyOffset
}

// Surface is an in-memory render surface of HTML table rows
// implementing rowtable.ViewEngine.
//
// Views are *Row values. Batches are transactional:
// if a batch fails, all rows are restored to their
// state before the batch.
//
// A Surface is safe for concurrent use, the rows
// can be written while a table renders into it.
type Surface[R any] struct {
	writer *Writer[R]

	mtx      sync.Mutex
	rows     []*Row
	widths   map[string]float64
	inBatch  bool
	original map[*Row]Row
}

// NewSurface returns an empty Surface formatting and writing
// rows with the configuration of w.
func (w *Writer[R]) NewSurface() *Surface[R] {
	return &Surface[R]{writer: w}
}

// NewSurface returns an empty Surface with a default Writer.
func NewSurface[R any]() *Surface[R] {
	return NewWriter[R]().NewSurface()
}

// Rows returns copies of the current rows.
func (s *Surface[R]) Rows() []Row {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	rows := make([]Row, len(s.rows))
	for i, row := range s.rows {
		rows[i] = *row
		rows[i].Cells = slices.Clone(row.Cells)
	}
	return rows
}

// NumRows returns the number of current rows.
func (s *Surface[R]) NumRows() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return len(s.rows)
}

// Write writes the current rows as HTML table to dest.
func (s *Surface[R]) Write(ctx context.Context, dest io.Writer, caption string) error {
	return s.writer.WriteRows(ctx, dest, s.Rows(), caption)
}

// String returns the current rows as HTML table.
func (s *Surface[R]) String() string {
	var b strings.Builder
	if err := s.Write(context.Background(), &b, ""); err != nil {
		return err.Error()
	}
	return b.String()
}

// SetColumnWidth sets the measured width of a column
// used for sticky column offsets.
func (s *Surface[R]) SetColumnWidth(column string, width float64) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.widths == nil {
		s.widths = make(map[string]float64)
	}
	s.widths[column] = width
}

// SetRowHeight sets the measured height of a row view
// used for sticky row offsets.
func (s *Surface[R]) SetRowHeight(view rowtable.View, height float64) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if row, ok := view.(*Row); ok {
		row.Height = height
	}
}

func (s *Surface[R]) Instantiate(def *rowtable.RowDef[R], ctx *rowtable.RowContext[R], pos int) (rowtable.View, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if pos < 0 || pos > len(s.rows) {
		return nil, fmt.Errorf("position %d out of range [0, %d]", pos, len(s.rows))
	}
	row := &Row{Name: def.Name}
	if err := s.bind(row, def, ctx); err != nil {
		return nil, err
	}
	s.rows = slices.Insert(s.rows, pos, row)
	return row, nil
}

// Destroy removes an attached or detached row view.
func (s *Surface[R]) Destroy(view rowtable.View) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	row, ok := view.(*Row)
	if !ok {
		return fmt.Errorf("view %T is not a *htmltable.Row", view)
	}
	if i := slices.Index(s.rows, row); i >= 0 {
		s.rows = slices.Delete(s.rows, i, i+1)
	}
	return nil
}

func (s *Surface[R]) Move(view rowtable.View, to int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	from, err := s.index(view)
	if err != nil {
		return err
	}
	if to < 0 || to >= len(s.rows) {
		return fmt.Errorf("position %d out of range [0, %d)", to, len(s.rows))
	}
	row := s.rows[from]
	s.rows = slices.Delete(s.rows, from, from+1)
	s.rows = slices.Insert(s.rows, to, row)
	return nil
}

func (s *Surface[R]) Update(view rowtable.View, ctx *rowtable.RowContext[R]) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	i, err := s.index(view)
	if err != nil {
		return err
	}
	return s.rebind(s.rows[i], ctx)
}

// Detach removes a row view from the surface without
// forgetting its content so it can be reattached.
func (s *Surface[R]) Detach(view rowtable.View) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	i, err := s.index(view)
	if err != nil {
		return err
	}
	s.rows = slices.Delete(s.rows, i, i+1)
	return nil
}

// Reattach inserts a detached row view at pos bound to ctx.
func (s *Surface[R]) Reattach(view rowtable.View, ctx *rowtable.RowContext[R], pos int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	row, ok := view.(*Row)
	if !ok {
		return fmt.Errorf("view %T is not a *htmltable.Row", view)
	}
	if slices.Contains(s.rows, row) {
		return fmt.Errorf("row %q is attached", row.Name)
	}
	if pos < 0 || pos > len(s.rows) {
		return fmt.Errorf("position %d out of range [0, %d]", pos, len(s.rows))
	}
	if err := s.rebind(row, ctx); err != nil {
		return err
	}
	s.rows = slices.Insert(s.rows, pos, row)
	return nil
}

// Batch runs fn and restores all rows
// to their previous state if fn returns an error.
func (s *Surface[R]) Batch(fn func() error) error {
	s.mtx.Lock()
	if s.inBatch {
		s.mtx.Unlock()
		return errors.New("nested batch")
	}
	s.inBatch = true
	s.original = make(map[*Row]Row)
	saved := slices.Clone(s.rows)
	s.mtx.Unlock()

	err := fn()

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err != nil {
		s.rows = saved
		for row, original := range s.original {
			*row = original
		}
	}
	s.inBatch = false
	s.original = nil
	return err
}

func (s *Surface[R]) RowHeight(view rowtable.View) (float64, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	row, ok := view.(*Row)
	if !ok || row.Height <= 0 {
		return 0, false
	}
	return row.Height, true
}

func (s *Surface[R]) ColumnWidth(column string) (float64, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	width, ok := s.widths[column]
	return width, ok
}

// ApplySticky sets the sticky offsets of the rows and their cells.
// The state must be aligned with the current rows.
func (s *Surface[R]) ApplySticky(state *rowtable.StickyState) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(state.Rows) != len(s.rows) {
		return fmt.Errorf("sticky state has %d rows, surface has %d", len(state.Rows), len(s.rows))
	}
	for i, row := range s.rows {
		s.touch(row)
		row.Sticky = state.Rows[i]
		cols := state.Columns[i]
		// A no-data row spans all columns with a single cell
		if len(cols) != len(row.Cells) {
			continue
		}
		for j := range row.Cells {
			row.Cells[j].Sticky = cols[j]
		}
	}
	return nil
}

func (s *Surface[R]) index(view rowtable.View) (int, error) {
	row, ok := view.(*Row)
	if !ok {
		return -1, fmt.Errorf("view %T is not a *htmltable.Row", view)
	}
	i := slices.Index(s.rows, row)
	if i < 0 {
		return -1, fmt.Errorf("row %q is not attached", row.Name)
	}
	return i, nil
}

// touch remembers the state of row before its
// first modification within a batch.
func (s *Surface[R]) touch(row *Row) {
	if !s.inBatch {
		return
	}
	if _, ok := s.original[row]; ok {
		return
	}
	original := *row
	original.Cells = slices.Clone(row.Cells)
	s.original[row] = original
}

func (s *Surface[R]) rebind(row *Row, ctx *rowtable.RowContext[R]) error {
	s.touch(row)
	return s.bind(row, nil, ctx)
}

func (s *Surface[R]) bind(row *Row, def *rowtable.RowDef[R], ctx *rowtable.RowContext[R]) error {
	if def != nil && def.Kind == rowtable.NoDataRow {
		row.noData = s.writer.noDataHTML(def)
	}
	cells, err := s.writer.formatCells(context.Background(), ctx, row.noData)
	if err != nil {
		return err
	}
	row.Kind = ctx.Kind
	row.Index = ctx.RenderIndex
	row.First = ctx.First
	row.Last = ctx.Last
	row.Even = ctx.Even
	row.Odd = ctx.Odd
	row.Cells = cells
	return nil
}
