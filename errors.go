package rowtable

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when a row definition
	// projects a column name that is not registered.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrTableClosed is returned by operations on a closed Table.
	ErrTableClosed = errors.New("table closed")
)

// ViewBindingError is returned when the ViewEngine fails
// to create, move, update or destroy the view of a row.
// The render pass that caused it was aborted.
type ViewBindingError struct {
	// Op is the engine operation: "instantiate", "destroy", "move" or "update".
	Op string
	// Row is the description of the row definition.
	Row string
	// Position is the index of the view in the rendered list.
	Position int
	Err      error
}

func (e *ViewBindingError) Error() string {
	return fmt.Sprintf("%s %s at position %d: %s", e.Op, e.Row, e.Position, e.Err)
}

func (e *ViewBindingError) Unwrap() error {
	return e.Err
}

func newViewBindingError[R any](op string, def *RowDef[R], pos int, err error) error {
	var bindingErr *ViewBindingError
	if errors.As(err, &bindingErr) {
		return err
	}
	return &ViewBindingError{Op: op, Row: def.String(), Position: pos, Err: err}
}

func unknownColumnError(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownColumn, name)
}
