package sqltable

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
)

// NewRecordsDB returns a read-only database serving the record sets
// as tables for simple SELECT queries, see QueryRecords.
func NewRecordsDB(tables map[string]*RecordSet) *sql.DB {
	return sql.OpenDB(database{tables: tables})
}

// NewRecordSetDB returns a database with a single table.
func NewRecordSetDB(tableName string, set *RecordSet) *sql.DB {
	return NewRecordsDB(map[string]*RecordSet{
		tableName: set,
	})
}

type database struct {
	tables map[string]*RecordSet
}

func (c database) Connect(context.Context) (driver.Conn, error) {
	return c, nil
}

func (c database) Driver() driver.Driver {
	return c
}

func (c database) Open(string) (driver.Conn, error) {
	return c, nil
}

func (c database) OpenConnector(string) (driver.Connector, error) {
	return c, nil
}

func (c database) Prepare(query string) (driver.Stmt, error) {
	return newStmt(c.tables, query)
}

func (database) Close() error {
	return nil
}

func (database) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported by read-only records database")
}
