package rowtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	subject := NewSubject("a")
	var got [][]string
	disconnect := subject.Connect(func(data []string) { got = append(got, data) })
	require.Equal(t, [][]string{{"a"}}, got, "current data on connect")
	require.Equal(t, 1, subject.NumObservers())

	subject.Set([]string{"b", "c"})
	subject.Append("d")
	require.Equal(t, [][]string{{"a"}, {"b", "c"}, {"b", "c", "d"}}, got)
	require.Equal(t, []string{"b", "c", "d"}, subject.Get())

	disconnect()
	subject.Set(nil)
	require.Len(t, got, 3)
	require.Zero(t, subject.NumObservers())

	var zero Subject[int]
	var delivered []int
	zero.Connect(func(data []int) { delivered = data })
	require.Nil(t, delivered)
	zero.Append(1)
	require.Equal(t, []int{1}, delivered)
}

func TestStaticData(t *testing.T) {
	calls := 0
	disconnect := StaticData(1, 2).Connect(func(data []int) {
		calls++
		require.Equal(t, []int{1, 2}, data)
	})
	disconnect()
	require.Equal(t, 1, calls)
}
