package rowtable

import (
	"errors"
	"fmt"
	"slices"
)

var (
	_ DetachingEngine[any] = new(testEngine[any])
	_ Measurer             = new(testEngine[any])
	_ StickyApplier        = new(testEngine[any])
	_ Batcher              = new(batchingTestEngine[any])
)

type testView[R any] struct {
	id  int
	def *RowDef[R]
	ctx *RowContext[R]
}

func (v *testView[R]) String() string {
	if v.ctx.Kind == DataRow {
		return fmt.Sprintf("%s(%v)", v.def.Name, v.ctx.Record)
	}
	return v.def.Name
}

// testEngine keeps views in a slice and counts all calls.
type testEngine[R any] struct {
	views    []*testView[R]
	detached []*testView[R]
	nextID   int
	calls    map[string]int
	heights  map[string]float64
	widths   map[string]float64
	sticky   *StickyState
	// fail returns an error for an operation on a row definition
	fail func(op string, def *RowDef[R], ctx *RowContext[R]) error
}

func newTestEngine[R any]() *testEngine[R] {
	return &testEngine[R]{calls: make(map[string]int)}
}

func (e *testEngine[R]) check(op string, def *RowDef[R], ctx *RowContext[R]) error {
	e.calls[op]++
	if e.fail != nil {
		return e.fail(op, def, ctx)
	}
	return nil
}

func (e *testEngine[R]) index(view View) (int, error) {
	i := slices.Index(e.views, view.(*testView[R]))
	if i < 0 {
		return -1, errors.New("view not attached")
	}
	return i, nil
}

func (e *testEngine[R]) Instantiate(def *RowDef[R], ctx *RowContext[R], pos int) (View, error) {
	if err := e.check("instantiate", def, ctx); err != nil {
		return nil, err
	}
	if pos < 0 || pos > len(e.views) {
		return nil, fmt.Errorf("position %d out of range", pos)
	}
	e.nextID++
	view := &testView[R]{id: e.nextID, def: def, ctx: ctx}
	e.views = slices.Insert(e.views, pos, view)
	return view, nil
}

func (e *testEngine[R]) Destroy(view View) error {
	v := view.(*testView[R])
	if err := e.check("destroy", v.def, v.ctx); err != nil {
		return err
	}
	if i := slices.Index(e.views, v); i >= 0 {
		e.views = slices.Delete(e.views, i, i+1)
	}
	e.detached = slices.DeleteFunc(e.detached, func(d *testView[R]) bool { return d == v })
	return nil
}

func (e *testEngine[R]) Move(view View, to int) error {
	v := view.(*testView[R])
	if err := e.check("move", v.def, v.ctx); err != nil {
		return err
	}
	from, err := e.index(view)
	if err != nil {
		return err
	}
	e.views = moveElement(e.views, from, to)
	return nil
}

func (e *testEngine[R]) Update(view View, ctx *RowContext[R]) error {
	v := view.(*testView[R])
	if err := e.check("update", v.def, ctx); err != nil {
		return err
	}
	if _, err := e.index(view); err != nil {
		return err
	}
	v.ctx = ctx
	return nil
}

func (e *testEngine[R]) Detach(view View) error {
	e.calls["detach"]++
	i, err := e.index(view)
	if err != nil {
		return err
	}
	e.detached = append(e.detached, e.views[i])
	e.views = slices.Delete(e.views, i, i+1)
	return nil
}

func (e *testEngine[R]) Reattach(view View, ctx *RowContext[R], pos int) error {
	e.calls["reattach"]++
	v := view.(*testView[R])
	i := slices.Index(e.detached, v)
	if i < 0 {
		return errors.New("view not detached")
	}
	e.detached = slices.Delete(e.detached, i, i+1)
	v.ctx = ctx
	e.views = slices.Insert(e.views, pos, v)
	return nil
}

func (e *testEngine[R]) RowHeight(view View) (float64, bool) {
	h, ok := e.heights[view.(*testView[R]).def.Name]
	return h, ok
}

func (e *testEngine[R]) ColumnWidth(column string) (float64, bool) {
	w, ok := e.widths[column]
	return w, ok
}

func (e *testEngine[R]) ApplySticky(state *StickyState) error {
	e.sticky = state
	return nil
}

// labels returns the rendered views in order.
func (e *testEngine[R]) labels() []string {
	labels := make([]string, len(e.views))
	for i, v := range e.views {
		labels[i] = v.String()
	}
	return labels
}

func (e *testEngine[R]) ids() []int {
	ids := make([]int, len(e.views))
	for i, v := range e.views {
		ids[i] = v.id
	}
	return ids
}

func (e *testEngine[R]) resetCalls() {
	clear(e.calls)
}

// batchingTestEngine restores the views of a failed batch.
type batchingTestEngine[R any] struct {
	*testEngine[R]
	batches int
}

func (e *batchingTestEngine[R]) Batch(fn func() error) error {
	e.batches++
	saved := slices.Clone(e.views)
	savedDetached := slices.Clone(e.detached)
	contexts := make(map[*testView[R]]*RowContext[R])
	for _, v := range append(saved, savedDetached...) {
		contexts[v] = v.ctx
	}
	err := fn()
	if err != nil {
		e.views = saved
		e.detached = savedDetached
		for v, ctx := range contexts {
			v.ctx = ctx
		}
	}
	return err
}
