package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	fs "github.com/ungerik/go-fs"
	_ "modernc.org/sqlite"

	"github.com/domonda/go-rowtable/csvtable"
	"github.com/domonda/go-rowtable/exceltable"
	"github.com/domonda/go-rowtable/sqltable"
)

// record is the record type of all loaded data.
type record = map[string]any

// loadRecords loads the records of a CSV, Excel or SQLite file
// depending on its extension. SQLite files need a query.
func loadRecords(ctx context.Context, file fs.File, sheet, query string) (columns []string, records []record, err error) {
	if !file.Exists() {
		return nil, nil, fmt.Errorf("data file %s does not exist", file)
	}
	switch ext := strings.ToLower(file.Ext()); ext {
	case ".csv", ".tsv", ".txt":
		data, err := file.ReadAll()
		if err != nil {
			return nil, nil, err
		}
		columns, rows, _, err := csvtable.ReadRecords(data, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", file.Name(), err)
		}
		return columns, stringRecords(rows), nil

	case ".xlsx", ".xlsm", ".xltm", ".xltx":
		data, err := file.ReadAll()
		if err != nil {
			return nil, nil, err
		}
		s, err := exceltable.ReadRecords(ctx, bytes.NewReader(data), sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", file.Name(), err)
		}
		return s.Columns, stringRecords(s.Records), nil

	case ".db", ".sqlite", ".sqlite3":
		if query == "" {
			return nil, nil, errors.New("SQLite data needs a --query")
		}
		db, err := sql.Open("sqlite", string(file))
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		columns, rows, err := sqltable.QueryRecords(ctx, db, query)
		if err != nil {
			return nil, nil, err
		}
		records = make([]record, len(rows))
		for i, row := range rows {
			records[i] = row
		}
		return columns, records, nil

	default:
		return nil, nil, fmt.Errorf("unsupported data file extension %q", ext)
	}
}

func stringRecords[M ~map[string]string](rows []M) []record {
	records := make([]record, len(rows))
	for i, row := range rows {
		rec := make(record, len(row))
		for k, v := range row {
			rec[k] = v
		}
		records[i] = rec
	}
	return records
}
