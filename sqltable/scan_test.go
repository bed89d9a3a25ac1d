package sqltable

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	rowtable "github.com/domonda/go-rowtable"
	"github.com/domonda/go-rowtable/texttable"
)

func newTestSet() *RecordSet {
	return &RecordSet{
		Columns: []string{"id", "name", "data"},
		Records: []Record{
			{"id": 1, "name": "Alice", "data": []byte("a")},
			{"id": 2, "name": "Bob", "data": nil},
			{"id": 3, "name": "Carol", "data": []byte("c")},
		},
	}
}

func TestQueryRecords_RecordsDB(t *testing.T) {
	ctx := context.Background()
	db := NewRecordSetDB("people", newTestSet())
	defer db.Close()

	columns, records, err := QueryRecords(ctx, db, `SELECT name, id FROM people LIMIT 2 OFFSET 1`)
	require.NoError(t, err)
	require.Equal(t, []string{"name", "id"}, columns)
	require.Equal(t,
		[]Record{
			{"name": "Bob", "id": int64(2)},
			{"name": "Carol", "id": int64(3)},
		},
		records,
	)

	columns, records, err = QueryRecords(ctx, db, `SELECT * FROM "people"`)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name", "data"}, columns)
	require.Len(t, records, 3)
	require.Equal(t, []byte("a"), records[0]["data"])
	require.Nil(t, records[1]["data"])

	_, _, err = QueryRecords(ctx, db, `SELECT missing FROM people`)
	require.Error(t, err)
	_, _, err = QueryRecords(ctx, db, `SELECT * FROM nobody`)
	require.Error(t, err)
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every connection opens its own in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE item (id INTEGER PRIMARY KEY, title TEXT NOT NULL, price REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO item (id, title, price) VALUES (1, 'Apple', 0.5), (2, 'Pear', NULL)`)
	require.NoError(t, err)
	return db
}

func TestQueryRecords_SQLite(t *testing.T) {
	db := openSQLite(t)

	columns, records, err := QueryRecords(context.Background(), db, `SELECT id, title, price FROM item WHERE id >= ? ORDER BY id`, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "title", "price"}, columns)
	require.Equal(t,
		[]Record{
			{"id": int64(1), "title": "Apple", "price": 0.5},
			{"id": int64(2), "title": "Pear", "price": nil},
		},
		records,
	)
}

func TestQuerySource(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	source := NewQuerySource(db, `SELECT title FROM item ORDER BY id`)
	var deliveries [][]Record
	disconnect := source.Connect(func(data []Record) { deliveries = append(deliveries, data) })
	defer disconnect()
	require.Len(t, deliveries, 1)
	require.Empty(t, deliveries[0])

	require.NoError(t, source.Refresh(ctx))
	require.Equal(t, []string{"title"}, source.Columns())
	require.Len(t, deliveries, 2)
	require.Equal(t, []Record{{"title": "Apple"}, {"title": "Pear"}}, deliveries[1])

	_, err := db.Exec(`INSERT INTO item (id, title) VALUES (3, 'Plum')`)
	require.NoError(t, err)
	require.NoError(t, source.Refresh(ctx))
	require.Len(t, source.Records(), 3)

	_, err = db.Exec(`DROP TABLE item`)
	require.NoError(t, err)
	require.Error(t, source.Refresh(ctx))
	require.Len(t, source.Records(), 3, "previous records kept on error")
}

func TestQuerySource_Table(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	reg := rowtable.NewRegistry[Record]("title")
	reg.AddColumn(&rowtable.ColumnDef[Record]{Name: "title"})
	reg.AddRow(&rowtable.RowDef[Record]{Kind: rowtable.DataRow})
	reg.AddRow(&rowtable.RowDef[Record]{Kind: rowtable.NoDataRow, Template: "empty"})

	surface := texttable.NewSurface[Record]()
	table, err := rowtable.NewTable("items", reg, surface)
	require.NoError(t, err)
	defer table.Close(ctx)

	source := NewQuerySource(db, `SELECT title FROM item ORDER BY id`)
	require.NoError(t, table.SetDataSource(source))
	require.True(t, table.NoDataVisible())
	require.Equal(t, [][]string{{"empty"}}, surface.Rows())

	require.NoError(t, source.Refresh(ctx))
	require.False(t, table.NoDataVisible())
	require.Equal(t, [][]string{{"Apple"}, {"Pear"}}, surface.Rows())
}
