package rowtable

// StickySize is the pin and the measured extent
// (height of a row, width of a column) of a table item.
type StickySize struct {
	Pin  Pin
	Size float64
}

// StickyOffset is the distance of a pinned item
// from the edge it is pinned to.
// Offset is zero for items with PinNone.
type StickyOffset struct {
	Pin    Pin
	Offset float64
}

// ComputeStickyOffsets returns the offsets of items in display order.
// The offset of an item pinned to the start is the sum of the sizes
// of all start-pinned items before it, the offset of an item pinned
// to the end is the sum of the sizes of all end-pinned items after it.
// Unpinned items don't contribute to any offset.
func ComputeStickyOffsets(items []StickySize) []StickyOffset {
	offsets := make([]StickyOffset, len(items))
	start := 0.0
	for i, item := range items {
		offsets[i].Pin = item.Pin
		if item.Pin == PinStart {
			offsets[i].Offset = start
			start += item.Size
		}
	}
	end := 0.0
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Pin == PinEnd {
			offsets[i].Offset = end
			end += items[i].Size
		}
	}
	return offsets
}

// StickyState holds the sticky offsets of a rendered list.
// Rows and Columns are aligned with the rendered views,
// Columns[i] with the projected columns of view i.
type StickyState struct {
	Rows    []StickyOffset
	Columns [][]StickyOffset
}

// HasSticky returns if any row or column is pinned.
func (s *StickyState) HasSticky() bool {
	for _, row := range s.Rows {
		if row.Pin != PinNone {
			return true
		}
	}
	for _, cols := range s.Columns {
		for _, col := range cols {
			if col.Pin != PinNone {
				return true
			}
		}
	}
	return false
}

// DefaultRowHeight is used for rows that can't be measured.
const DefaultRowHeight = 1.0

// StickyPositioner computes the sticky offsets of a rendered list.
type StickyPositioner[R any] struct {
	// Measurer measures rendered rows and columns, may be nil.
	Measurer Measurer
}

// Recompute returns the sticky state of views.
// Rows are measured with the Measurer or use DefaultRowHeight,
// columns are measured with the Measurer or use ColumnDef.Width.
func (p *StickyPositioner[R]) Recompute(views []RenderedView[R]) *StickyState {
	state := &StickyState{
		Columns: make([][]StickyOffset, len(views)),
	}
	rows := make([]StickySize, len(views))
	for i := range views {
		rows[i] = StickySize{Pin: views[i].Entry.Def.Pin, Size: p.rowHeight(views[i].View)}

		columns := views[i].Entry.Columns
		sizes := make([]StickySize, len(columns))
		for j, col := range columns {
			sizes[j] = StickySize{Pin: col.Pin, Size: p.columnWidth(col)}
		}
		state.Columns[i] = ComputeStickyOffsets(sizes)
	}
	state.Rows = ComputeStickyOffsets(rows)
	return state
}

func (p *StickyPositioner[R]) rowHeight(view View) float64 {
	if p.Measurer != nil {
		if h, ok := p.Measurer.RowHeight(view); ok {
			return h
		}
	}
	return DefaultRowHeight
}

func (p *StickyPositioner[R]) columnWidth(col *ColumnDef[R]) float64 {
	if p.Measurer != nil {
		if w, ok := p.Measurer.ColumnWidth(col.Name); ok {
			return w
		}
	}
	return col.Width
}
