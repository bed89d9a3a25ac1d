// Package texttable renders table rows as plain text table
// using github.com/olekukonko/tablewriter.
package texttable

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"

	rowtable "github.com/domonda/go-rowtable"
)

var (
	_ rowtable.ViewEngine[any] = new(Surface[any])
	_ rowtable.Measurer        = new(Surface[any])
)

// Row is the view of a rendered text row.
type Row struct {
	Name  string
	Kind  rowtable.RowKind
	Cells []string
	// Columns are the names of the projected columns of Cells,
	// nil for a no-data row.
	Columns []string
}

// Surface is an in-memory render surface of text rows
// implementing rowtable.ViewEngine.
type Surface[R any] struct {
	// NilValue is the text of nil cell values.
	NilValue string
	// Formatters are tried in order for every data cell,
	// values no formatter supports are printed with fmt.Sprint.
	Formatters []rowtable.CellFormatter

	mtx  sync.Mutex
	rows []*Row
}

func NewSurface[R any](formatters ...rowtable.CellFormatter) *Surface[R] {
	return &Surface[R]{Formatters: formatters}
}

func (s *Surface[R]) Instantiate(def *rowtable.RowDef[R], rc *rowtable.RowContext[R], pos int) (rowtable.View, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if pos < 0 || pos > len(s.rows) {
		return nil, fmt.Errorf("position %d out of range [0, %d]", pos, len(s.rows))
	}
	row := &Row{Name: def.Name, Kind: def.Kind}
	if def.Kind == rowtable.NoDataRow {
		row.Cells = []string{""}
		if def.Template != nil {
			row.Cells[0] = fmt.Sprint(def.Template)
		}
	} else {
		cells, err := s.formatCells(rc)
		if err != nil {
			return nil, err
		}
		row.Cells = cells
		row.Columns = rc.ColumnNames()
	}
	s.rows = slices.Insert(s.rows, pos, row)
	return row, nil
}

func (s *Surface[R]) Destroy(view rowtable.View) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	i, err := s.index(view)
	if err != nil {
		return err
	}
	s.rows = slices.Delete(s.rows, i, i+1)
	return nil
}

func (s *Surface[R]) Move(view rowtable.View, to int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	from, err := s.index(view)
	if err != nil {
		return err
	}
	row := s.rows[from]
	s.rows = slices.Insert(slices.Delete(s.rows, from, from+1), to, row)
	return nil
}

func (s *Surface[R]) Update(view rowtable.View, rc *rowtable.RowContext[R]) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	i, err := s.index(view)
	if err != nil {
		return err
	}
	if s.rows[i].Kind == rowtable.NoDataRow {
		return nil
	}
	cells, err := s.formatCells(rc)
	if err != nil {
		return err
	}
	s.rows[i].Cells = cells
	s.rows[i].Columns = rc.ColumnNames()
	return nil
}

func (s *Surface[R]) index(view rowtable.View) (int, error) {
	row, ok := view.(*Row)
	if !ok {
		return -1, fmt.Errorf("view %T is not a *texttable.Row", view)
	}
	i := slices.Index(s.rows, row)
	if i < 0 {
		return -1, fmt.Errorf("row %q is not attached", row.Name)
	}
	return i, nil
}

func (s *Surface[R]) formatCells(rc *rowtable.RowContext[R]) ([]string, error) {
	cells := make([]string, len(rc.Columns))
	for i, col := range rc.Columns {
		switch rc.Kind {
		case rowtable.HeaderRow:
			cells[i] = cmp.Or(col.Header, col.Name)
		case rowtable.FooterRow:
			cells[i] = col.Footer
		default:
			cell := &rowtable.Cell{
				Kind:   rc.Kind,
				Column: col.Name,
				Row:    rc.RenderIndex,
				Record: rc.Record,
				Value:  col.Value(rc.Record),
			}
			str, _, err := rowtable.FormatCell(context.Background(), cell, s.NilValue, s.Formatters...)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col.Name, err)
			}
			cells[i] = str
		}
	}
	return cells, nil
}

// Rows returns the cells of all rows.
func (s *Surface[R]) Rows() [][]string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	rows := make([][]string, len(s.rows))
	for i, row := range s.rows {
		rows[i] = slices.Clone(row.Cells)
	}
	return rows
}

// Write renders the rows as text table to dest.
// The first header row becomes the table header and
// the last footer row the table footer, all other
// rows are written as table body in their order.
func (s *Surface[R]) Write(dest io.Writer) error {
	s.mtx.Lock()
	rows := make([]Row, len(s.rows))
	for i, row := range s.rows {
		rows[i] = *row
	}
	s.mtx.Unlock()

	numCols := 0
	for _, row := range rows {
		numCols = max(numCols, len(row.Cells))
	}
	pad := func(cells []string) []string {
		if len(cells) >= numCols {
			return cells
		}
		return append(slices.Clone(cells), make([]string, numCols-len(cells))...)
	}

	table := tablewriter.NewWriter(dest)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	header := slices.IndexFunc(rows, func(r Row) bool { return r.Kind == rowtable.HeaderRow })
	footer := -1
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Kind == rowtable.FooterRow {
			footer = i
			break
		}
	}
	for i, row := range rows {
		switch i {
		case header:
			table.SetHeader(pad(row.Cells))
		case footer:
			table.SetFooter(pad(row.Cells))
		default:
			table.Append(pad(row.Cells))
		}
	}
	table.Render()
	return nil
}

// RowHeight returns the number of text lines of the row.
func (s *Surface[R]) RowHeight(view rowtable.View) (float64, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	row, ok := view.(*Row)
	if !ok {
		return 0, false
	}
	lines := 1
	for _, cell := range row.Cells {
		lines = max(lines, strings.Count(cell, "\n")+1)
	}
	return float64(lines), true
}

// ColumnWidth returns the width of the widest cell of column
// as count of UTF-8 runes plus the cell padding and border.
func (s *Surface[R]) ColumnWidth(column string) (float64, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	width, found := 0, false
	for _, row := range s.rows {
		for i, name := range row.Columns {
			if name == column && i < len(row.Cells) {
				width = max(width, utf8.RuneCountInString(row.Cells[i]))
				found = true
			}
		}
	}
	if !found {
		return 0, false
	}
	return float64(width + cellPadding), true
}

// cellPadding of tablewriter: a space on each side and one border.
const cellPadding = 3

// String returns the rows rendered as text table.
func (s *Surface[R]) String() string {
	var b strings.Builder
	_ = s.Write(&b)
	return b.String()
}
