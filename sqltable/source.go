package sqltable

import (
	"context"
	"slices"
	"sync"

	rowtable "github.com/domonda/go-rowtable"
)

var _ rowtable.DataSource[Record] = new(QuerySource)

// QuerySource is a rowtable.DataSource of the records
// returned by a query. The query is executed on every Refresh
// and connected tables are notified with the new records.
type QuerySource struct {
	db    Queryer
	query string
	args  []any

	mtx     sync.Mutex
	columns []string
	subject rowtable.Subject[Record]
}

// NewQuerySource returns a QuerySource without records,
// call Refresh to execute the query.
func NewQuerySource(db Queryer, query string, args ...any) *QuerySource {
	return &QuerySource{db: db, query: query, args: args}
}

// Refresh executes the query and publishes its records.
// On error the previous records are kept.
func (s *QuerySource) Refresh(ctx context.Context) error {
	columns, records, err := QueryRecords(ctx, s.db, s.query, s.args...)
	if err != nil {
		return err
	}
	s.mtx.Lock()
	s.columns = columns
	s.mtx.Unlock()

	s.subject.Set(records)
	return nil
}

// Columns returns the result columns of the last Refresh.
func (s *QuerySource) Columns() []string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return slices.Clone(s.columns)
}

// Records returns the records of the last Refresh.
func (s *QuerySource) Records() []Record {
	return s.subject.Get()
}

func (s *QuerySource) Connect(onChange func(data []Record)) (disconnect func()) {
	return s.subject.Connect(onChange)
}
