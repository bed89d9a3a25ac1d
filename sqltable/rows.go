package sqltable

import (
	"context"
	"database/sql"
)

var _ Rows = new(sql.Rows)

// Rows is the part of *sql.Rows used by ScanRecords.
type Rows interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
	Next() bool
	// Err returns the error that ended the iteration by Next.
	Err() error
	Close() error
}

// Queryer is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
