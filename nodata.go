package rowtable

// NoDataSentinel shows the no-data row of a table
// while no data row is rendered.
//
// The sentinel entry has the same key in every pass,
// so consecutive empty passes keep the same view
// and the first non-empty pass destroys it.
type NoDataSentinel[R any] struct {
	visible bool
}

// Apply adds the entry for def to the data segment of entries
// if the segment is empty. A nil def shows nothing.
func (s *NoDataSentinel[R]) Apply(reg *Registry[R], entries *Entries[R], def *RowDef[R]) error {
	if len(entries.Data) > 0 || def == nil {
		s.visible = false
		return nil
	}
	var noRecord R
	entry := RowEntry[R]{Def: def, Record: noRecord, DataIndex: -1}
	if err := newKeyBuilder(reg).assign(&entry, nil); err != nil {
		return err
	}
	entries.Data = []RowEntry[R]{entry}
	s.visible = true
	return nil
}

// Visible returns if the last Apply added the no-data entry.
func (s *NoDataSentinel[R]) Visible() bool {
	return s.visible
}
