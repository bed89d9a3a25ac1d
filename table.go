package rowtable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Table renders the rows of a data source through a ViewEngine.
//
// Every change of the data, the registered definitions or an
// explicit Render triggers a render pass: the records are matched
// against the row definitions, the no-data row is added if no data
// row matched, the rendered list is diffed against the last fully
// applied list and the edits are applied to the engine.
// Finally the sticky offsets are recomputed.
//
// Passes never overlap. Changes arriving while a pass is running,
// from the engine or another goroutine, are coalesced into
// one more pass over the latest data.
//
// Snapshot, Sticky and UpdateStickyPositions must not be called
// from within ViewEngine methods.
type Table[R any] struct {
	name     string
	registry *Registry[R]
	engine   ViewEngine[R]
	renderer *Renderer[R]
	sentinel NoDataSentinel[R]
	sticky   StickyPositioner[R]

	options   Option
	trackBy   TrackByFunc[R]
	logger    logrus.FieldLogger
	observers []RenderObserver

	mtx                sync.Mutex
	data               []R
	disconnectSource   func()
	unsubscribeChanges func()
	dirty              bool
	rendering          bool
	closed             bool
	lastErr            error

	passMtx     sync.Mutex
	stickyState *StickyState
	noData      atomic.Bool
}

// TableOption configures a Table created by NewTable.
type TableOption func(*tableOptions)

type tableOptions struct {
	options   Option
	trackBy   any
	logger    logrus.FieldLogger
	observers []RenderObserver
	recycling int
}

// WithOptions joins options to the options of the table.
func WithOptions(options ...Option) TableOption {
	return func(o *tableOptions) {
		o.options |= JoinOptions(options...)
	}
}

// WithMultiTemplateDataRows renders a data row for every
// matching data row definition of a record instead of
// only for the first one.
func WithMultiTemplateDataRows() TableOption {
	return WithOptions(OptionMultiTemplateDataRows)
}

// WithTrackBy sets the function returning the identity of records.
// The record type of trackBy must match the record type of the table.
func WithTrackBy[R any](trackBy TrackByFunc[R]) TableOption {
	return func(o *tableOptions) {
		o.trackBy = trackBy
	}
}

// WithLogger sets the logger for render passes.
func WithLogger(logger logrus.FieldLogger) TableOption {
	return func(o *tableOptions) {
		o.logger = logger
	}
}

// WithObserver adds an observer of render passes.
func WithObserver(observer RenderObserver) TableOption {
	return func(o *tableOptions) {
		o.observers = append(o.observers, observer)
	}
}

// WithRecycling wraps the engine of the table with a RecyclingEngine
// parking up to size destroyed views.
// The engine must implement DetachingEngine.
// A size of zero or less uses DefaultRecyclingCacheSize.
func WithRecycling(size int) TableOption {
	return func(o *tableOptions) {
		if size <= 0 {
			size = DefaultRecyclingCacheSize
		}
		o.recycling = size
	}
}

// NewTable returns a Table rendering the definitions of registry
// through engine. The table re-renders on every registry change.
// Without a data source the table renders no data.
func NewTable[R any](name string, registry *Registry[R], engine ViewEngine[R], opts ...TableOption) (*Table[R], error) {
	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}
	t := &Table[R]{
		name:      name,
		registry:  registry,
		options:   o.options,
		trackBy:   TrackByValue[R],
		logger:    DefaultLogger,
		observers: o.observers,
	}
	if o.trackBy != nil {
		trackBy, ok := o.trackBy.(TrackByFunc[R])
		if !ok {
			return nil, fmt.Errorf("table %q: track-by function %T does not match record type", name, o.trackBy)
		}
		t.trackBy = trackBy
	}
	if o.logger != nil {
		t.logger = o.logger
	}
	t.logger = t.logger.WithField("table", name)
	if o.recycling > 0 {
		detaching, ok := engine.(DetachingEngine[R])
		if !ok {
			return nil, fmt.Errorf("table %q: recycling needs a DetachingEngine, got %T", name, engine)
		}
		recycling, err := NewRecyclingEngine(detaching, o.recycling)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", name, err)
		}
		engine = recycling
	}
	t.engine = engine
	t.renderer = NewRenderer(engine)
	if m, ok := engine.(Measurer); ok {
		t.sticky.Measurer = m
	}
	t.unsubscribeChanges = registry.OnChange(func() {
		_ = t.notify(context.Background())
	})
	return t, nil
}

// Name returns the name of the table used for logging and metrics.
func (t *Table[R]) Name() string { return t.name }

// Registry returns the definitions of the table.
func (t *Table[R]) Registry() *Registry[R] { return t.registry }

// Engine returns the engine the table renders through,
// a RecyclingEngine if recycling is enabled.
func (t *Table[R]) Engine() ViewEngine[R] { return t.engine }

// Options returns the options of the table.
func (t *Table[R]) Options() Option { return t.options }

// SetDataSource disconnects the current data source
// and connects source. A nil source renders no data.
func (t *Table[R]) SetDataSource(source DataSource[R]) error {
	t.mtx.Lock()
	if t.closed {
		t.mtx.Unlock()
		return ErrTableClosed
	}
	disconnect := t.disconnectSource
	t.disconnectSource = nil
	t.data = nil
	t.mtx.Unlock()

	if disconnect != nil {
		disconnect()
	}
	if source == nil {
		return t.Render(context.Background())
	}

	var (
		first      sync.Once
		connectErr error
	)
	disconnect = source.Connect(func(data []R) {
		t.mtx.Lock()
		t.data = data
		t.mtx.Unlock()
		err := t.notify(context.Background())
		first.Do(func() { connectErr = err })
	})
	// Deliveries after Connect returned only report through Err
	first.Do(func() {})

	t.mtx.Lock()
	t.disconnectSource = disconnect
	t.mtx.Unlock()
	return connectErr
}

// SetData replaces the data with a static data source.
func (t *Table[R]) SetData(data ...R) error {
	return t.SetDataSource(StaticData(data...))
}

// Render runs a render pass over the latest data.
func (t *Table[R]) Render(ctx context.Context) error {
	return t.notify(ctx)
}

// Notify signals a change of the data or definitions
// that the table can not observe by itself.
// Errors of the resulting pass are logged and returned by Err.
func (t *Table[R]) Notify() {
	_ = t.notify(context.Background())
}

// Err returns the error of the last render pass or nil.
func (t *Table[R]) Err() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	return t.lastErr
}

// NoDataVisible returns if the no-data row is rendered
// as of the last completed pass.
func (t *Table[R]) NoDataVisible() bool {
	return t.noData.Load()
}

// Snapshot returns the rendered list of the last completed pass.
func (t *Table[R]) Snapshot() []RenderedView[R] {
	t.passMtx.Lock()
	defer t.passMtx.Unlock()

	return t.renderer.Snapshot()
}

// Sticky returns the sticky offsets of the last completed pass
// or UpdateStickyPositions call.
func (t *Table[R]) Sticky() *StickyState {
	t.passMtx.Lock()
	defer t.passMtx.Unlock()

	return t.stickyState
}

// UpdateStickyPositions recomputes the sticky offsets of the
// rendered list, for example after rows or columns were resized.
func (t *Table[R]) UpdateStickyPositions() (*StickyState, error) {
	t.passMtx.Lock()
	defer t.passMtx.Unlock()

	return t.updateStickyPositions()
}

func (t *Table[R]) updateStickyPositions() (*StickyState, error) {
	state := t.sticky.Recompute(t.renderer.views)
	t.stickyState = state
	if applier, ok := t.engine.(StickyApplier); ok {
		if err := applier.ApplySticky(state); err != nil {
			return state, err
		}
	}
	return state, nil
}

// Close disconnects the data source and the registry
// and destroys all rendered views.
func (t *Table[R]) Close(ctx context.Context) error {
	t.mtx.Lock()
	if t.closed {
		t.mtx.Unlock()
		return nil
	}
	t.closed = true
	disconnect := t.disconnectSource
	t.disconnectSource = nil
	t.mtx.Unlock()

	if disconnect != nil {
		disconnect()
	}
	t.unsubscribeChanges()

	t.passMtx.Lock()
	defer t.passMtx.Unlock()

	err := t.renderer.Reset(ctx)
	t.noData.Store(false)
	if closer, ok := t.engine.(interface{ Close() error }); ok {
		err = errors.Join(err, closer.Close())
	}
	return err
}

func (t *Table[R]) notify(ctx context.Context) error {
	t.mtx.Lock()
	if t.closed {
		t.mtx.Unlock()
		return ErrTableClosed
	}
	t.dirty = true
	if t.rendering {
		// The running pass renders again with the latest data
		t.mtx.Unlock()
		return nil
	}
	t.rendering = true
	t.mtx.Unlock()

	// A failed pass is followed by another one if changes
	// arrived during it, the error of the last pass is returned
	var err error
	for {
		t.mtx.Lock()
		if !t.dirty || t.closed {
			t.rendering = false
			t.mtx.Unlock()
			return err
		}
		t.dirty = false
		data := t.data
		t.mtx.Unlock()

		err = t.renderPass(ctx, data)

		t.mtx.Lock()
		t.lastErr = err
		t.mtx.Unlock()
	}
}

func (t *Table[R]) renderPass(ctx context.Context, data []R) (err error) {
	t.passMtx.Lock()
	defer t.passMtx.Unlock()

	defer func() {
		if err != nil {
			t.logger.WithError(err).Error("render pass failed")
			for _, observer := range t.observers {
				observer.RenderPassFailed(t.name, err)
			}
		}
	}()

	entries, err := BuildEntries(t.registry, data, t.trackBy, t.options)
	if err != nil {
		return err
	}
	err = t.sentinel.Apply(t.registry, entries, t.registry.NoDataRow())
	if err != nil {
		return err
	}
	stats, err := t.renderer.Render(ctx, entries.All())
	if err != nil {
		return err
	}
	t.noData.Store(t.sentinel.Visible())
	if !t.options.Has(OptionNoStickyPositions) {
		if _, err = t.updateStickyPositions(); err != nil {
			return err
		}
	}

	t.logger.WithFields(logrus.Fields{
		"records":   len(data),
		"rows":      stats.Rows,
		"created":   stats.Created,
		"destroyed": stats.Destroyed,
		"moved":     stats.Moved,
		"updated":   stats.Updated,
		"noData":    t.sentinel.Visible(),
		"duration":  stats.Duration,
	}).Debug("render pass")
	for _, observer := range t.observers {
		observer.RenderPassCompleted(t.name, stats)
	}
	return nil
}
