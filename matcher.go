package rowtable

import (
	"fmt"
	"strings"
)

// RowKey is the identity of a rendered row.
// Two entries with equal keys in consecutive render passes
// share the same view.
type RowKey struct {
	def        any
	columns    string
	id         any
	occurrence int
}

func (k RowKey) String() string {
	return fmt.Sprintf("%v/%v#%d", k.def, k.id, k.occurrence)
}

// RowEntry is the result of matching a record
// (or nothing for header and footer rows) against a row definition.
type RowEntry[R any] struct {
	Def    *RowDef[R]
	Record R
	// DataIndex is the index of Record in the data or -1
	// for rows that don't render a record.
	DataIndex int
	Columns   []*ColumnDef[R]
	Key       RowKey
}

// Entries are the structural segments of a table after row matching.
type Entries[R any] struct {
	Headers []RowEntry[R]
	Data    []RowEntry[R]
	Footers []RowEntry[R]
}

// All returns headers, data rows and footers in rendering order.
func (e *Entries[R]) All() []RowEntry[R] {
	all := make([]RowEntry[R], 0, len(e.Headers)+len(e.Data)+len(e.Footers))
	all = append(all, e.Headers...)
	all = append(all, e.Data...)
	return append(all, e.Footers...)
}

// MatchRows matches every record against the data row definitions
// in declared order. Without multiTemplate only the first matching
// definition is used, with multiTemplate every matching definition
// yields an entry. Records without a matching definition are dropped.
// The returned entries have no columns and keys assigned.
func MatchRows[R any](records []R, defs []*RowDef[R], multiTemplate bool) []RowEntry[R] {
	entries := make([]RowEntry[R], 0, len(records))
	for index, record := range records {
		for _, def := range defs {
			if def.Kind != DataRow || !def.Matches(index, record) {
				continue
			}
			entries = append(entries, RowEntry[R]{Def: def, Record: record, DataIndex: index})
			if !multiTemplate {
				break
			}
		}
	}
	return entries
}

// BuildEntries matches records against the row definitions of reg
// and returns the header, data and footer entries with their
// column projections and identity keys.
// A nil trackBy uses TrackByValue.
func BuildEntries[R any](reg *Registry[R], records []R, trackBy TrackByFunc[R], options ...Option) (*Entries[R], error) {
	if trackBy == nil {
		trackBy = TrackByValue[R]
	}
	var (
		keys      = newKeyBuilder[R](reg)
		entries   = new(Entries[R])
		err       error
		noRecord  R
		multi     = HasOption(options, OptionMultiTemplateDataRows)
		buildRows = func(kind RowKind) ([]RowEntry[R], error) {
			defs := reg.Rows(kind)
			rows := make([]RowEntry[R], len(defs))
			for i, def := range defs {
				rows[i] = RowEntry[R]{Def: def, Record: noRecord, DataIndex: -1}
				if err := keys.assign(&rows[i], nil); err != nil {
					return nil, err
				}
			}
			return rows, nil
		}
	)

	entries.Headers, err = buildRows(HeaderRow)
	if err != nil {
		return nil, err
	}
	entries.Data = MatchRows(records, reg.DataRows(), multi)
	for i := range entries.Data {
		entry := &entries.Data[i]
		if err := keys.assign(entry, trackBy(entry.DataIndex, entry.Record)); err != nil {
			return nil, err
		}
	}
	entries.Footers, err = buildRows(FooterRow)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

type keyBuilder[R any] struct {
	reg         *Registry[R]
	columns     map[*RowDef[R]][]*ColumnDef[R]
	occurrences map[RowKey]int
}

func newKeyBuilder[R any](reg *Registry[R]) *keyBuilder[R] {
	return &keyBuilder[R]{
		reg:         reg,
		columns:     make(map[*RowDef[R]][]*ColumnDef[R]),
		occurrences: make(map[RowKey]int),
	}
}

func (b *keyBuilder[R]) assign(entry *RowEntry[R], id any) error {
	columns, ok := b.columns[entry.Def]
	if !ok {
		var err error
		columns, err = b.reg.ResolveColumns(entry.Def)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.Def, err)
		}
		b.columns[entry.Def] = columns
	}
	entry.Columns = columns

	key := RowKey{def: entry.Def, columns: columnsSignature(columns), id: id}
	key.occurrence = b.occurrences[key]
	b.occurrences[key]++
	entry.Key = key
	return nil
}

// columnsSignature changes whenever the projection
// of a row changes so its view is rendered again.
func columnsSignature[R any](columns []*ColumnDef[R]) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteByte(0)
		}
		fmt.Fprintf(&b, "%s@%p", col.Name, col)
	}
	return b.String()
}
