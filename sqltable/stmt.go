package sqltable

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var _ driver.Stmt = new(stmt)

// stmt is a prepared SELECT query over a RecordSet.
// Columns, offset and limit are resolved at preparation time.
type stmt struct {
	set     *RecordSet
	columns []string
	offset  int
	limit   int
}

// newStmt parses query and resolves it against tables.
//
// Query grammar:
//   - SELECT * FROM tablename
//   - SELECT col1, col2 FROM tablename
//   - optional LIMIT n and OFFSET n
//   - Column and table names can be quoted with double quotes
//   - Trailing semicolons are allowed
func newStmt(tables map[string]*RecordSet, query string) (*stmt, error) {
	queryColumns, table, offset, limit, err := parseQuery(query)
	if err != nil {
		return nil, err
	}
	set := tables[table]
	if set == nil {
		return nil, fmt.Errorf("table %q not found", table)
	}
	if slices.Equal(queryColumns, []string{"*"}) {
		queryColumns = set.Columns
	}
	for _, col := range queryColumns {
		if !slices.Contains(set.Columns, col) {
			return nil, fmt.Errorf("column %q not found in table %q", col, table)
		}
	}
	return &stmt{set: set, columns: queryColumns, offset: offset, limit: limit}, nil
}

func (s *stmt) Close() error {
	return nil
}

// NumInput returns 0 because placeholders are not supported.
func (s *stmt) NumInput() int {
	return 0
}

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errors.New("Exec not supported by read-only records database")
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	records := s.set.Records
	start := min(s.offset, len(records))
	end := len(records)
	if s.limit > 0 {
		end = min(start+s.limit, end)
	}
	return &driverRows{columns: s.columns, records: records[start:end]}, nil
}

var _ driver.Rows = new(driverRows)

type driverRows struct {
	columns  []string
	records  []Record
	rowIndex int
}

func (r *driverRows) Columns() []string {
	return r.columns
}

func (r *driverRows) Close() error {
	r.rowIndex = -1
	return nil
}

func (r *driverRows) Next(dest []driver.Value) (err error) {
	if r.rowIndex < 0 || r.rowIndex >= len(r.records) {
		return io.EOF
	}
	record := r.records[r.rowIndex]
	for i, col := range r.columns {
		dest[i], err = driver.DefaultParameterConverter.ConvertValue(record[col])
		if err != nil {
			return fmt.Errorf("column %q: %w", col, err)
		}
	}
	r.rowIndex++
	return nil
}

// queryRegexp matches:
//
//	SELECT (columns or *) FROM tablename [LIMIT n] [OFFSET n] [;]
var queryRegexp = regexp.MustCompile(`^(?:SELECT|select)\s+(\*|(?:[a-zA-Z]\w*|"[a-zA-Z][\w ]*")(?:\s*,\s*[a-zA-Z]\w*|\s*,\s*"[a-zA-Z][\w ]*")*)\s+(?:FROM|from)\s+([a-zA-Z][\w.]*|"[a-zA-Z][\w.]*")(?:\s+(?:LIMIT|limit)\s+(\d+))?(?:\s+(?:OFFSET|offset)\s+(\d+))?(?:\s*;)*$`)

func parseQuery(query string) (columns []string, table string, offset, limit int, err error) {
	query = strings.TrimSpace(query)
	m := queryRegexp.FindStringSubmatch(query)
	if len(m) != 5 {
		return nil, "", 0, 0, fmt.Errorf("invalid query %q", query)
	}
	columns = strings.Split(m[1], ",")
	for i := range columns {
		columns[i] = unquote(strings.TrimSpace(columns[i]))
	}
	table = unquote(m[2])
	if m[3] != "" {
		limit, err = strconv.Atoi(m[3])
		if err != nil {
			return nil, "", 0, 0, fmt.Errorf("invalid LIMIT in query %q: %w", query, err)
		}
	}
	if m[4] != "" {
		offset, err = strconv.Atoi(m[4])
		if err != nil {
			return nil, "", 0, 0, fmt.Errorf("invalid OFFSET in query %q: %w", query, err)
		}
	}
	return columns, table, offset, limit, nil
}

func unquote(str string) string {
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		return str[1 : len(str)-1]
	}
	return str
}
