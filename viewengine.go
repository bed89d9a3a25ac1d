package rowtable

// View is the opaque handle of a view created by a ViewEngine.
type View any

// ViewEngine materializes row views on a render surface.
//
// Positions are indices into the ordered list of all row views
// of a table as it is at the time of the call.
// An error returned from any method aborts the current render pass.
type ViewEngine[R any] interface {
	// Instantiate creates a view for def bound to ctx at position pos.
	Instantiate(def *RowDef[R], ctx *RowContext[R], pos int) (View, error)
	// Destroy removes a view.
	Destroy(view View) error
	// Move moves a view to a new position.
	Move(view View, to int) error
	// Update binds an existing view to a changed context.
	Update(view View, ctx *RowContext[R]) error
}

// Batcher is implemented by view engines that can apply
// all operations of a render pass atomically.
// If fn returns an error, Batch must discard all operations
// that fn issued and return the error.
type Batcher interface {
	Batch(fn func() error) error
}

// Measurer is implemented by view engines that can measure
// rendered rows and columns for sticky positioning.
type Measurer interface {
	RowHeight(view View) (height float64, ok bool)
	ColumnWidth(column string) (width float64, ok bool)
}

// StickyApplier is implemented by view engines
// that render sticky offsets.
type StickyApplier interface {
	ApplySticky(state *StickyState) error
}
