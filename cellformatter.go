package rowtable

import (
	"context"
	"errors"
	"fmt"
)

// Cell is a single rendered table cell passed to a CellFormatter.
type Cell struct {
	Kind   RowKind
	Column string
	// Row is the render index of the row within its segment.
	Row    int
	Record any
	Value  any
}

// CellFormatter is an interface for formatting cell values as strings.
type CellFormatter interface {
	// FormatCell formats a cell as string
	// or returns a wrapped errors.ErrUnsupported error if
	// it doesn't support formatting the value of the cell.
	// The raw result indicates if the returned string
	// is in the raw format of the surface and can be
	// used as is or if it has to be sanitized in some way.
	FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter for a function.
type CellFormatterFunc func(ctx context.Context, cell *Cell) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	return f(ctx, cell)
}

// PrintfCellFormatter implements CellFormatter by calling
// fmt.Sprintf with this type's string value as format.
type PrintfCellFormatter string

func (format PrintfCellFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	return fmt.Sprintf(string(format), cell.Value), false, nil
}

// PrintfRawCellFormatter implements CellFormatter by calling
// fmt.Sprintf with this type's string value as format.
// The result will be indicated to be a raw value.
type PrintfRawCellFormatter string

func (format PrintfRawCellFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	return fmt.Sprintf(string(format), cell.Value), true, nil
}

// RawCellString implements CellFormatter by returning
// the underlying string as raw value.
type RawCellString string

func (rawStr RawCellString) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	return string(rawStr), true, nil
}

// SprintCellFormatter returns a CellFormatter that formats
// non nil values with fmt.Sprint and returns errors.ErrUnsupported
// for nil values.
func SprintCellFormatter(raw bool) CellFormatter {
	return CellFormatterFunc(func(ctx context.Context, cell *Cell) (string, bool, error) {
		if IsNil(cell.Value) {
			return "", false, errors.ErrUnsupported
		}
		return fmt.Sprint(cell.Value), raw, nil
	})
}

// FormatCell formats cell with the first formatter of the cascade
// that supports it. If none does, then nilValue is returned for nil values
// and fmt.Sprint of the value otherwise.
func FormatCell(ctx context.Context, cell *Cell, nilValue string, formatters ...CellFormatter) (str string, raw bool, err error) {
	for _, formatter := range formatters {
		if formatter == nil {
			continue
		}
		str, raw, err = formatter.FormatCell(ctx, cell)
		if err == nil {
			return str, raw, nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", false, err
		}
	}
	if IsNil(cell.Value) {
		return nilValue, false, nil
	}
	return fmt.Sprint(cell.Value), false, nil
}
