// Package sqltable loads table records from SQL queries
// and serves in-memory records as a read-only SQL database.
package sqltable

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
)

// Record is a result row keyed by column name.
type Record map[string]any

// RecordSet is a list of records with ordered column names.
type RecordSet struct {
	Columns []string
	Records []Record
}

// ScanRecords reads all rows as records and closes rows.
// Byte slices are copied, all other values are
// stored as returned by the driver.
func ScanRecords(ctx context.Context, rows Rows) (columns []string, records []Record, err error) {
	defer rows.Close()

	columns, err = rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	scannedValues := make([]any, len(columns))
	valueScanners := make([]any, len(columns))
	for i := range valueScanners {
		valueScanners[i] = valueScanner{&scannedValues[i]}
	}
	for rows.Next() {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		clear(scannedValues)
		err = rows.Scan(valueScanners...)
		if err != nil {
			return columns, records, err
		}
		record := make(Record, len(columns))
		for i, col := range columns {
			record[col] = scannedValues[i]
		}
		records = append(records, record)
	}
	return columns, records, rows.Err()
}

// QueryRecords executes query with args and returns the result as records.
func QueryRecords(ctx context.Context, db Queryer, query string, args ...any) (columns []string, records []Record, err error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query %q: %w", query, err)
	}
	return ScanRecords(ctx, rows)
}

var _ sql.Scanner = new(valueScanner)

type valueScanner struct {
	dest *any
}

// Scan implements the database/sql.Scanner interface.
func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		// Copy bytes because they won't be valid after this method call
		src = slices.Clone(b)
	}
	*s.dest = src
	return nil
}
