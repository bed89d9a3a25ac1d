package rowtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructFieldNaming_Columns(t *testing.T) {
	type StructWithFloat struct {
		Float float64 `col:"float"`
	}
	tests := []struct {
		name   string
		naming *StructFieldNaming
		strct  any
		want   []string
	}{
		{
			name:   "empty struct, nil naming",
			naming: nil,
			strct:  struct{}{},
			want:   []string{},
		},
		{
			name:   "exported names, nil naming",
			naming: nil,
			strct: struct {
				Int  int
				Bool bool
			}{},
			want: []string{"Int", "Bool"},
		},
		{
			name:   "exported and private names, nil naming",
			naming: nil,
			strct: struct {
				Int    int
				Bool   bool
				hidden string
			}{},
			want: []string{"Int", "Bool"},
		},
		{
			name:   "mixed, nil naming",
			naming: nil,
			strct: struct {
				Int int
				StructWithFloat
				Struct struct {
					Sub bool
				}
				hidden string
			}{},
			want: []string{"Int", "Float", "Struct"},
		},

		{
			name:   "empty struct, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct:  struct{}{},
			want:   []string{},
		},
		{
			name:   "exported names, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct: struct {
				Int  int
				Bool bool `col:"boolean"`
			}{},
			want: []string{"Int", "boolean"},
		},
		{
			name:   "exported and private names, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct: struct {
				Int        int  `col:"Integer"`
				Bool       bool `col:"-"`
				hidden     string
				HelloWorld string
			}{},
			want: []string{"Integer", "Hello World"},
		},
		{
			name:   "mixed, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct: struct {
				hidden string `col:"-"`
				Int    int
				StructWithFloat
				Struct struct {
					Sub bool
				}
			}{},
			want: []string{"Int", "float", "Struct"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.naming.Columns(tt.strct)
			require.Equal(t, tt.want, got, "StructFieldNaming.Columns()")
		})
	}
}

func TestColumnValue(t *testing.T) {
	type Base struct {
		ID int `col:"id"`
	}
	type record struct {
		Base
		FirstName string
		Amount    float64 `col:"amount"`
		Skipped   bool    `col:"-"`
	}
	rec := record{Base: Base{ID: 7}, FirstName: "Ada", Amount: 1.5}

	tests := []struct {
		name   string
		record any
		column string
		want   any
		wantOK bool
	}{
		{name: "tagged", record: rec, column: "amount", want: 1.5, wantOK: true},
		{name: "embedded tagged", record: rec, column: "id", want: 7, wantOK: true},
		{name: "spaced untagged", record: rec, column: "First Name", want: "Ada", wantOK: true},
		{name: "Go field name", record: rec, column: "FirstName", want: "Ada", wantOK: true},
		{name: "pointer", record: &rec, column: "amount", want: 1.5, wantOK: true},
		{name: "unknown", record: rec, column: "missing", want: nil, wantOK: false},
		{name: "nil pointer", record: (*record)(nil), column: "amount", want: nil, wantOK: false},
		{name: "map", record: map[string]any{"a": 1}, column: "a", want: 1, wantOK: true},
		{name: "map missing", record: map[string]string{"a": "x"}, column: "b", want: nil, wantOK: false},
		{name: "int map", record: map[int]string{1: "x"}, column: "1", want: nil, wantOK: false},
		{name: "scalar", record: 42, column: "a", want: nil, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ColumnValue(tt.record, tt.column)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRecordValues(t *testing.T) {
	type record struct {
		A      string
		B      int
		hidden bool
	}
	require.Equal(t, []any{"x", 1}, RecordValues(record{A: "x", B: 1}))
	require.Equal(t, []any{"x", 1}, RecordValues(&record{A: "x", B: 1}))
	require.Equal(t, []any{1, 2, 3}, RecordValues(map[string]int{"c": 3, "a": 1, "b": 2}))
	require.Equal(t, []any{"a", "b"}, RecordValues([]string{"a", "b"}))
	require.Nil(t, RecordValues((*record)(nil)))
}
