package rowtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowContext(t *testing.T) {
	columns := []*ColumnDef[map[string]any]{{Name: "a"}, {Name: "b"}}
	first := newRowContext(DataRow, map[string]any{"a": 1}, 4, 0, 3, columns)
	require.True(t, first.First)
	require.False(t, first.Last)
	require.True(t, first.Even)
	require.False(t, first.Odd)
	require.Equal(t, []string{"a", "b"}, first.ColumnNames())

	last := newRowContext(DataRow, map[string]any{"a": 1}, 5, 2, 3, columns)
	require.True(t, last.Last)
	require.True(t, last.Even)

	require.True(t, first.Equal(newRowContext(DataRow, map[string]any{"a": 1}, 4, 0, 3, columns)), "deep equal records")
	require.False(t, first.Equal(newRowContext(DataRow, map[string]any{"a": 2}, 4, 0, 3, columns)))
	require.False(t, first.Equal(newRowContext(DataRow, map[string]any{"a": 1}, 4, 1, 3, columns)))
	require.False(t, first.Equal(newRowContext(DataRow, map[string]any{"a": 1}, 4, 0, 3, columns[:1])))
	require.False(t, first.Equal(nil))

	var nilCtx *RowContext[map[string]any]
	require.True(t, nilCtx.Equal(nil))
}
