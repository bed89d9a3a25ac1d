// Package datasource provides a rowtable.DataSource
// that filters, sorts and paginates a slice of records.
package datasource

import (
	"slices"
	"sync"

	rowtable "github.com/domonda/go-rowtable"
)

var _ rowtable.DataSource[any] = new(ArrayDataSource[any])

// ArrayDataSource holds a slice of records and delivers the
// records that pass the filter, sorted by the sort column,
// limited to the current page of the paginator.
//
// Every change of the data, filter, sort or page
// is delivered to all connected tables.
type ArrayDataSource[R any] struct {
	mtx                 sync.Mutex
	data                []R
	filter              string
	filterPredicate     func(record R, filter string) bool
	sortColumn          string
	sortDirection       Direction
	sortingDataAccessor func(record R, column string) any
	paginator           *Paginator
	filtered            []R
	rendered            []R

	subject rowtable.Subject[R]
}

// NewArrayDataSource returns an ArrayDataSource for data
// using DefaultFilterPredicate and DefaultSortingDataAccessor.
func NewArrayDataSource[R any](data ...R) *ArrayDataSource[R] {
	s := &ArrayDataSource[R]{data: data}
	s.refresh()
	return s
}

// Connect implements rowtable.DataSource.
func (s *ArrayDataSource[R]) Connect(onChange func(data []R)) (disconnect func()) {
	return s.subject.Connect(onChange)
}

// Data returns all records.
func (s *ArrayDataSource[R]) Data() []R {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.data
}

// SetData replaces all records.
func (s *ArrayDataSource[R]) SetData(data []R) {
	s.modify(func() { s.data = data })
}

// AddData appends records to a copy of the data.
func (s *ArrayDataSource[R]) AddData(records ...R) {
	s.modify(func() { s.data = append(slices.Clone(s.data), records...) })
}

// FilteredData returns the records passing the filter
// in sort order, independent of the paginator.
func (s *ArrayDataSource[R]) FilteredData() []R {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.filtered
}

// RenderedData returns the records delivered to connected tables.
func (s *ArrayDataSource[R]) RenderedData() []R {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.rendered
}

func (s *ArrayDataSource[R]) Filter() string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.filter
}

// SetFilter sets the filter passed to the filter predicate.
// An empty filter passes all records.
func (s *ArrayDataSource[R]) SetFilter(filter string) {
	s.modify(func() { s.filter = filter })
}

// SetFilterPredicate sets the function deciding if a record
// passes a non empty filter. nil resets to DefaultFilterPredicate.
func (s *ArrayDataSource[R]) SetFilterPredicate(predicate func(record R, filter string) bool) {
	s.modify(func() { s.filterPredicate = predicate })
}

// Sort returns the sort column and direction.
func (s *ArrayDataSource[R]) Sort() (column string, direction Direction) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.sortColumn, s.sortDirection
}

// SetSort sorts the records by the values of column.
// The sort is stable, Unsorted keeps the order of the data.
func (s *ArrayDataSource[R]) SetSort(column string, direction Direction) {
	s.modify(func() {
		s.sortColumn = column
		s.sortDirection = direction
	})
}

// ToggleSort sorts ascending by column if it is not the
// current sort column, else it cycles the direction
// from ascending to descending to unsorted.
func (s *ArrayDataSource[R]) ToggleSort(column string) {
	s.modify(func() {
		if column != s.sortColumn {
			s.sortColumn = column
			s.sortDirection = Ascending
			return
		}
		s.sortDirection = s.sortDirection.next()
	})
}

// SetSortingDataAccessor sets the function returning the value
// of a record that is compared with CompareValues for sorting.
// nil resets to DefaultSortingDataAccessor.
func (s *ArrayDataSource[R]) SetSortingDataAccessor(accessor func(record R, column string) any) {
	s.modify(func() { s.sortingDataAccessor = accessor })
}

// Paginator returns the paginator or nil.
func (s *ArrayDataSource[R]) Paginator() *Paginator {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.paginator
}

// SetPaginator sets the paginator selecting the delivered page,
// nil delivers all filtered records.
// Page changes of the paginator are delivered to connected tables.
func (s *ArrayDataSource[R]) SetPaginator(paginator *Paginator) {
	s.modify(func() {
		if s.paginator != nil {
			s.paginator.setOnChange(nil)
		}
		s.paginator = paginator
		if paginator != nil {
			paginator.setOnChange(func() { s.modify(func() {}) })
		}
	})
}

func (s *ArrayDataSource[R]) modify(change func()) {
	s.mtx.Lock()
	change()
	rendered := s.refresh()
	s.mtx.Unlock()

	s.subject.Set(rendered)
}

// refresh must be called with s.mtx locked.
func (s *ArrayDataSource[R]) refresh() []R {
	filtered := s.data
	if s.filter != "" {
		predicate := s.filterPredicate
		if predicate == nil {
			predicate = DefaultFilterPredicate[R]
		}
		filtered = make([]R, 0, len(s.data))
		for _, record := range s.data {
			if predicate(record, s.filter) {
				filtered = append(filtered, record)
			}
		}
	}

	if s.sortColumn != "" && s.sortDirection != Unsorted {
		accessor := s.sortingDataAccessor
		if accessor == nil {
			accessor = DefaultSortingDataAccessor[R]
		}
		type sortable struct {
			record R
			value  any
		}
		sorted := make([]sortable, len(filtered))
		for i, record := range filtered {
			sorted[i] = sortable{record: record, value: accessor(record, s.sortColumn)}
		}
		slices.SortStableFunc(sorted, func(a, b sortable) int {
			c := CompareValues(a.value, b.value)
			if s.sortDirection == Descending {
				return -c
			}
			return c
		})
		filtered = make([]R, len(sorted))
		for i := range sorted {
			filtered[i] = sorted[i].record
		}
	}
	s.filtered = filtered

	s.rendered = filtered
	if s.paginator != nil {
		start, end := s.paginator.paginate(len(filtered))
		s.rendered = filtered[start:end]
	}
	return s.rendered
}
