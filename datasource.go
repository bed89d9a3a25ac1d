package rowtable

import (
	"slices"
	"sync"
)

// DataSource delivers the current data of a table
// on connection and after every change.
type DataSource[R any] interface {
	// Connect calls onChange with the current data and
	// again whenever it changes until disconnect is called.
	Connect(onChange func(data []R)) (disconnect func())
}

// DataSourceFunc implements DataSource with a function.
type DataSourceFunc[R any] func(onChange func(data []R)) (disconnect func())

func (f DataSourceFunc[R]) Connect(onChange func(data []R)) (disconnect func()) {
	return f(onChange)
}

// StaticData returns a DataSource that always delivers data.
func StaticData[R any](data ...R) DataSource[R] {
	return DataSourceFunc[R](func(onChange func([]R)) func() {
		onChange(data)
		return func() {}
	})
}

var _ DataSource[any] = new(Subject[any])

// Subject is a DataSource holding the current data
// that notifies all connected observers on Set.
// The zero value is an empty Subject ready to use.
type Subject[R any] struct {
	mtx       sync.Mutex
	data      []R
	observers map[int]func([]R)
	nextID    int
}

// NewSubject returns a Subject with initial data.
func NewSubject[R any](data ...R) *Subject[R] {
	return &Subject[R]{data: data}
}

// Get returns the current data.
func (s *Subject[R]) Get() []R {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.data
}

// Set replaces the data and notifies all observers.
func (s *Subject[R]) Set(data []R) {
	s.mtx.Lock()
	s.data = data
	observers := s.sortedObservers()
	s.mtx.Unlock()

	for _, observer := range observers {
		observer(data)
	}
}

// Append adds records to a copy of the data and notifies all observers.
func (s *Subject[R]) Append(records ...R) {
	s.mtx.Lock()
	data := append(slices.Clone(s.data), records...)
	s.mtx.Unlock()

	s.Set(data)
}

// Connect implements DataSource.
func (s *Subject[R]) Connect(onChange func(data []R)) (disconnect func()) {
	s.mtx.Lock()
	if s.observers == nil {
		s.observers = make(map[int]func([]R))
	}
	id := s.nextID
	s.nextID++
	s.observers[id] = onChange
	data := s.data
	s.mtx.Unlock()

	onChange(data)

	return func() {
		s.mtx.Lock()
		delete(s.observers, id)
		s.mtx.Unlock()
	}
}

// NumObservers returns the number of connected observers.
func (s *Subject[R]) NumObservers() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return len(s.observers)
}

func (s *Subject[R]) sortedObservers() []func([]R) {
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	observers := make([]func([]R), len(ids))
	for i, id := range ids {
		observers[i] = s.observers[id]
	}
	return observers
}
