package rowtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackByValue(t *testing.T) {
	require.Equal(t, any(fruit{"Kiwi", 3}), TrackByValue(0, fruit{"Kiwi", 3}))
	require.Nil(t, TrackByValue[any](0, nil))

	m1 := map[string]any{"a": 1}
	m2 := map[string]any{"a": 1}
	require.Equal(t, TrackByValue(0, m1), TrackByValue(5, m1), "same map")
	require.NotEqual(t, TrackByValue(0, m1), TrackByValue(0, m2), "equal content, other map")

	s := []int{1, 2, 3}
	require.Equal(t, TrackByValue(0, s), TrackByValue(0, s))
	require.NotEqual(t, TrackByValue(0, s), TrackByValue(0, s[:2]), "other length")

	type withSlice struct {
		Name string
		Tags []string
	}
	require.Equal(t,
		TrackByValue(0, withSlice{"a", []string{"x"}}),
		TrackByValue(1, withSlice{"a", []string{"x"}}),
		"non comparable struct tracked by content",
	)
	require.NotEqual(t,
		TrackByValue(0, withSlice{"a", []string{"x"}}),
		TrackByValue(0, withSlice{"a", []string{"y"}}),
	)
}

func TestTrackByIndexAndContent(t *testing.T) {
	require.Equal(t, 3, TrackByIndex(3, "x"))
	require.Equal(t, TrackByContent(0, []int{1}), TrackByContent(1, []int{1}))
	require.NotEqual(t, TrackByContent(0, []int{1}), TrackByContent(0, []int{2}))
}
