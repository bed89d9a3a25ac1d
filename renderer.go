package rowtable

import (
	"context"
	"slices"
	"time"
)

// RenderedView is a view of the rendered list
// together with the entry and context it is bound to.
type RenderedView[R any] struct {
	Entry   RowEntry[R]
	View    View
	Context *RowContext[R]
}

// RenderStats summarizes the edits of one render pass.
type RenderStats struct {
	Created   int
	Destroyed int
	Moved     int
	Updated   int
	Rows      int
	Duration  time.Duration
}

// Changed returns if the pass edited any view.
func (s RenderStats) Changed() bool {
	return s.Created+s.Destroyed+s.Moved+s.Updated > 0
}

// Renderer owns the rendered list of a table and keeps it
// in sync with the matched entries by applying identity
// preserving edit scripts to a ViewEngine.
//
// A Renderer is not safe for concurrent use,
// Table serializes access to it.
type Renderer[R any] struct {
	engine ViewEngine[R]
	views  []RenderedView[R]
}

func NewRenderer[R any](engine ViewEngine[R]) *Renderer[R] {
	return &Renderer[R]{engine: engine}
}

// Snapshot returns a copy of the last fully applied rendered list.
func (r *Renderer[R]) Snapshot() []RenderedView[R] {
	return slices.Clone(r.views)
}

// Len returns the number of rendered views.
func (r *Renderer[R]) Len() int {
	return len(r.views)
}

// Render transforms the rendered list into views for next.
//
// Views of entries with keys from the previous pass are kept
// and moved if their relative order changed, other views are
// destroyed or created. Kept views get their context updated
// if it changed. If the engine implements Batcher all edits
// are applied in a single batch.
//
// If an edit fails, the error is returned as *ViewBindingError
// and the rendered list stays as of the last successful pass.
// Engines that don't implement Batcher might be left partially
// edited in that case and should be discarded with Reset.
func (r *Renderer[R]) Render(ctx context.Context, next []RowEntry[R]) (RenderStats, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return RenderStats{}, err
	}

	prevKeys := make([]RowKey, len(r.views))
	for i := range r.views {
		prevKeys[i] = r.views[i].Entry.Key
	}
	nextKeys := make([]RowKey, len(next))
	for i := range next {
		nextKeys[i] = next[i].Key
	}
	var (
		script   = Diff(prevKeys, nextKeys)
		contexts = rowContexts(next)
		stats    RenderStats
		staged   []RenderedView[R]
	)
	apply := func() error {
		stats = RenderStats{}
		views := slices.Clone(r.views)
		for _, op := range script {
			switch op.Kind {
			case OpDestroy:
				rv := views[op.From]
				if err := r.engine.Destroy(rv.View); err != nil {
					return newViewBindingError("destroy", rv.Entry.Def, op.From, err)
				}
				views = slices.Delete(views, op.From, op.From+1)
				stats.Destroyed++

			case OpCreate:
				entry := next[op.Entry]
				view, err := r.engine.Instantiate(entry.Def, contexts[op.Entry], op.To)
				if err != nil {
					return newViewBindingError("instantiate", entry.Def, op.To, err)
				}
				views = slices.Insert(views, op.To, RenderedView[R]{Entry: entry, View: view, Context: contexts[op.Entry]})
				stats.Created++

			case OpMove:
				if err := r.engine.Move(views[op.From].View, op.To); err != nil {
					return newViewBindingError("move", views[op.From].Entry.Def, op.From, err)
				}
				views = moveElement(views, op.From, op.To)
				stats.Moved++
			}
		}
		for i := range views {
			views[i].Entry = next[i]
			if views[i].Context.Equal(contexts[i]) {
				continue
			}
			if err := r.engine.Update(views[i].View, contexts[i]); err != nil {
				return newViewBindingError("update", next[i].Def, i, err)
			}
			views[i].Context = contexts[i]
			stats.Updated++
		}
		staged = views
		return nil
	}

	var err error
	if batcher, ok := r.engine.(Batcher); ok {
		err = batcher.Batch(apply)
	} else {
		err = apply()
	}
	if err != nil {
		return RenderStats{}, err
	}
	r.views = staged
	stats.Rows = len(staged)
	stats.Duration = time.Since(start)
	return stats, nil
}

// Reset destroys all rendered views.
func (r *Renderer[R]) Reset(ctx context.Context) error {
	_, err := r.Render(ctx, nil)
	return err
}

// rowContexts returns the binding contexts for entries.
// Data rows are counted across all data entries,
// other rows within the entries of their kind.
func rowContexts[R any](entries []RowEntry[R]) []*RowContext[R] {
	counts := make(map[RowKind]int)
	for i := range entries {
		counts[entries[i].Def.Kind]++
	}
	var (
		contexts = make([]*RowContext[R], len(entries))
		indices  = make(map[RowKind]int)
	)
	for i := range entries {
		entry := &entries[i]
		kind := entry.Def.Kind
		renderIndex := indices[kind]
		indices[kind]++
		index := renderIndex
		if kind == DataRow {
			index = entry.DataIndex
		}
		contexts[i] = newRowContext(kind, entry.Record, index, renderIndex, counts[kind], entry.Columns)
		contexts[i].Key = entry.Key
	}
	return contexts
}
