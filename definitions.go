package rowtable

import (
	"fmt"
	"strings"
)

// Pin tells to which edge of the scrollable viewport
// a row or column sticks. A definition can only be
// pinned to one edge.
type Pin int

const (
	PinNone Pin = iota
	// PinStart pins to the leading edge (top for rows, left for columns).
	PinStart
	// PinEnd pins to the trailing edge (bottom for rows, right for columns).
	PinEnd
)

func (p Pin) String() string {
	switch p {
	case PinNone:
		return "none"
	case PinStart:
		return "start"
	case PinEnd:
		return "end"
	}
	return fmt.Sprintf("Pin(%d)", int(p))
}

// ParsePin parses the result of Pin.String.
// Empty strings parse as PinNone.
func ParsePin(s string) (Pin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PinNone, nil
	case "start", "sticky":
		return PinStart, nil
	case "end", "stickyend", "sticky-end":
		return PinEnd, nil
	}
	return PinNone, fmt.Errorf("invalid pin %q", s)
}

// RowKind distinguishes the structural segments of a table.
type RowKind int

const (
	HeaderRow RowKind = iota
	DataRow
	FooterRow
	// NoDataRow is rendered in place of the data rows
	// when no data row matched.
	NoDataRow
)

func (k RowKind) String() string {
	switch k {
	case HeaderRow:
		return "header"
	case DataRow:
		return "data"
	case FooterRow:
		return "footer"
	case NoDataRow:
		return "noData"
	}
	return fmt.Sprintf("RowKind(%d)", int(k))
}

// ParseRowKind parses the result of RowKind.String.
func ParseRowKind(s string) (RowKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "header":
		return HeaderRow, nil
	case "data", "":
		return DataRow, nil
	case "footer":
		return FooterRow, nil
	case "nodata", "no-data", "no_data":
		return NoDataRow, nil
	}
	return DataRow, fmt.Errorf("invalid row kind %q", s)
}

// ColumnDef defines a named column of a table.
// The Name is the identity of the column.
type ColumnDef[R any] struct {
	Name string
	// Header is the content of the column's header cell.
	Header string
	// Footer is the content of the column's footer cell.
	Footer string
	// Cell returns the value of a data cell.
	// If nil then ColumnValue is used with the column Name.
	Cell func(record R) any
	Pin  Pin
	// Width is used by surfaces that can't measure columns.
	Width float64
}

// Value returns the data cell value of the column for record.
func (c *ColumnDef[R]) Value(record R) any {
	if c.Cell != nil {
		return c.Cell(record)
	}
	val, _ := ColumnValue(record, c.Name)
	return val
}

func (c *ColumnDef[R]) String() string {
	return fmt.Sprintf("ColumnDef{Name: %q, Pin: %s}", c.Name, c.Pin)
}

// RowDef describes how one kind of row is rendered.
//
// For data rows When selects the records the definition applies to,
// a nil When matches every record. When is ignored for other kinds.
//
// Columns lists the projected column names in display order,
// nil means the default columns of the Registry.
type RowDef[R any] struct {
	Name    string
	Kind    RowKind
	When    func(index int, record R) bool
	Columns []string
	Pin     Pin
	// Template is passed through to the ViewEngine unchanged,
	// for example the message of a no-data row.
	Template any
}

// Matches returns if the definition applies to the record at index.
func (d *RowDef[R]) Matches(index int, record R) bool {
	return d.When == nil || d.When(index, record)
}

func (d *RowDef[R]) String() string {
	if d.Name != "" {
		return fmt.Sprintf("%s row %q", d.Kind, d.Name)
	}
	return d.Kind.String() + " row"
}
