package rowtable

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DetachingEngine is a ViewEngine that can take views
// off the render surface without destroying them
// and put them back later.
type DetachingEngine[R any] interface {
	ViewEngine[R]
	Detach(view View) error
	Reattach(view View, ctx *RowContext[R], pos int) error
}

// RecyclingEngine wraps a DetachingEngine and parks the views
// of destroyed rows in a least recently used cache.
// Creating a row reattaches the parked view with the same RowKey,
// or else the most recently parked view of the same definition,
// instead of instantiating a new one.
// Views evicted from the cache are destroyed.
type RecyclingEngine[R any] struct {
	engine  DetachingEngine[R]
	parked  *lru.Cache[uint64, *recycledView[R]]
	nextID  uint64
	taking  bool
	evicted error
}

type recycledView[R any] struct {
	id   uint64
	def  *RowDef[R]
	key  RowKey
	view View
}

var (
	_ ViewEngine[any] = new(RecyclingEngine[any])
	_ Batcher         = new(RecyclingEngine[any])
	_ Measurer        = new(RecyclingEngine[any])
	_ StickyApplier   = new(RecyclingEngine[any])
)

// NewRecyclingEngine returns a RecyclingEngine parking
// up to size views.
func NewRecyclingEngine[R any](engine DetachingEngine[R], size int) (*RecyclingEngine[R], error) {
	e := &RecyclingEngine[R]{engine: engine}
	parked, err := lru.NewWithEvict(size, e.onEvict)
	if err != nil {
		return nil, err
	}
	e.parked = parked
	return e, nil
}

func (e *RecyclingEngine[R]) onEvict(_ uint64, rv *recycledView[R]) {
	if e.taking {
		return
	}
	if err := e.engine.Destroy(rv.view); err != nil {
		e.evicted = errors.Join(e.evicted, err)
	}
}

// NumParked returns the number of parked views.
func (e *RecyclingEngine[R]) NumParked() int {
	return e.parked.Len()
}

func (e *RecyclingEngine[R]) Instantiate(def *RowDef[R], ctx *RowContext[R], pos int) (View, error) {
	if id, ok := e.findParked(def, ctx.Key); ok {
		rv, _ := e.parked.Peek(id)
		e.taking = true
		e.parked.Remove(id)
		e.taking = false
		if err := e.engine.Reattach(rv.view, ctx, pos); err != nil {
			return nil, err
		}
		rv.key = ctx.Key
		return rv, nil
	}
	view, err := e.engine.Instantiate(def, ctx, pos)
	if err != nil {
		return nil, err
	}
	e.nextID++
	return &recycledView[R]{id: e.nextID, def: def, key: ctx.Key, view: view}, nil
}

// findParked returns the parked view with key,
// or else the most recently parked view of def.
func (e *RecyclingEngine[R]) findParked(def *RowDef[R], key RowKey) (id uint64, ok bool) {
	keys := e.parked.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		rv, found := e.parked.Peek(keys[i])
		if !found || rv.def != def {
			continue
		}
		if rv.key == key {
			return keys[i], true
		}
		if !ok {
			id, ok = keys[i], true
		}
	}
	return id, ok
}

func (e *RecyclingEngine[R]) Destroy(view View) error {
	rv := view.(*recycledView[R])
	if err := e.engine.Detach(rv.view); err != nil {
		return err
	}
	e.parked.Add(rv.id, rv)
	err := e.evicted
	e.evicted = nil
	return err
}

func (e *RecyclingEngine[R]) Move(view View, to int) error {
	return e.engine.Move(view.(*recycledView[R]).view, to)
}

func (e *RecyclingEngine[R]) Update(view View, ctx *RowContext[R]) error {
	return e.engine.Update(view.(*recycledView[R]).view, ctx)
}

// Batch implements Batcher. If the wrapped engine is a Batcher,
// a failed batch also restores the parked views as they were
// before the batch.
func (e *RecyclingEngine[R]) Batch(fn func() error) error {
	batcher, ok := e.engine.(Batcher)
	if !ok {
		return fn()
	}
	type parkedView struct {
		rv  *recycledView[R]
		key RowKey
	}
	var saved []parkedView
	for _, id := range e.parked.Keys() {
		if rv, ok := e.parked.Peek(id); ok {
			saved = append(saved, parkedView{rv, rv.key})
		}
	}
	err := batcher.Batch(fn)
	if err != nil {
		e.taking = true
		e.parked.Purge()
		for _, p := range saved {
			p.rv.key = p.key
			e.parked.Add(p.rv.id, p.rv)
		}
		e.taking = false
		e.evicted = nil
	}
	return err
}

// Unwrap returns the view of the wrapped engine.
func (e *RecyclingEngine[R]) Unwrap(view View) View {
	if rv, ok := view.(*recycledView[R]); ok {
		return rv.view
	}
	return view
}

func (e *RecyclingEngine[R]) RowHeight(view View) (float64, bool) {
	if m, ok := e.engine.(Measurer); ok {
		return m.RowHeight(e.Unwrap(view))
	}
	return 0, false
}

func (e *RecyclingEngine[R]) ColumnWidth(column string) (float64, bool) {
	if m, ok := e.engine.(Measurer); ok {
		return m.ColumnWidth(column)
	}
	return 0, false
}

func (e *RecyclingEngine[R]) ApplySticky(state *StickyState) error {
	if a, ok := e.engine.(StickyApplier); ok {
		return a.ApplySticky(state)
	}
	return nil
}

// Close destroys all parked views.
func (e *RecyclingEngine[R]) Close() error {
	e.parked.Purge()
	err := e.evicted
	e.evicted = nil
	return err
}
