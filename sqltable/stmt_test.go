package sqltable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_parseQuery(t *testing.T) {
	tests := []struct {
		query       string
		wantColumns []string
		wantTable   string
		wantOffset  int
		wantLimit   int
		wantErr     bool
	}{
		{query: `select * from table`, wantColumns: []string{"*"}, wantTable: `table`},
		{query: `select * from my.table`, wantColumns: []string{"*"}, wantTable: `my.table`},
		{query: `select * from "table"`, wantColumns: []string{"*"}, wantTable: `table`},
		{query: `SELECT * FROM "my.table";`, wantColumns: []string{"*"}, wantTable: `my.table`},
		{
			query:       `select a,B , "Col3",column4 from table`,
			wantColumns: []string{"a", "B", "Col3", "column4"},
			wantTable:   `table`,
		},
		{
			query:       `SELECT a,B , "Col 3",column4 FROM "my.table"`,
			wantColumns: []string{"a", "B", "Col 3", "column4"},
			wantTable:   `my.table`,
		},
		{
			query:       `SELECT a FROM t LIMIT 10`,
			wantColumns: []string{"a"},
			wantTable:   `t`,
			wantLimit:   10,
		},
		{
			query:       `select a from t limit 10 offset 5;`,
			wantColumns: []string{"a"},
			wantTable:   `t`,
			wantOffset:  5,
			wantLimit:   10,
		},
		{
			query:       `SELECT * FROM t OFFSET 3`,
			wantColumns: []string{"*"},
			wantTable:   `t`,
			wantOffset:  3,
		},

		// Errors
		{query: "", wantErr: true},
		{query: `SELECT *,b FROM "my.table"`, wantErr: true},
		{query: `SELECT a,* FROM "my.table"`, wantErr: true},
		{query: `SELECT a FROM t LIMIT x`, wantErr: true},
		{query: `SELECT a FROM t OFFSET 1 LIMIT 2`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			gotColumns, gotTable, gotOffset, gotLimit, err := parseQuery(tt.query)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantColumns, gotColumns)
			require.Equal(t, tt.wantTable, gotTable)
			require.Equal(t, tt.wantOffset, gotOffset)
			require.Equal(t, tt.wantLimit, gotLimit)
		})
	}
}
