package rowtable

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testKeys(ids ...int) []RowKey {
	keys := make([]RowKey, len(ids))
	occurrences := make(map[int]int)
	for i, id := range ids {
		keys[i] = RowKey{id: id, occurrence: occurrences[id]}
		occurrences[id]++
	}
	return keys
}

func applyKeys(prev, next []RowKey, script EditScript) []RowKey {
	return ApplyEditScript(prev, script, func(entry int) RowKey { return next[entry] })
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name          string
		prev          []int
		next          []int
		wantCreated   int
		wantDestroyed int
		wantMoved     int
	}{
		{name: "empty", prev: nil, next: nil},
		{name: "create all", prev: nil, next: []int{1, 2, 3}, wantCreated: 3},
		{name: "destroy all", prev: []int{1, 2, 3}, next: nil, wantDestroyed: 3},
		{name: "unchanged", prev: []int{1, 2, 3}, next: []int{1, 2, 3}},
		{name: "append", prev: []int{1, 2}, next: []int{1, 2, 3}, wantCreated: 1},
		{name: "prepend", prev: []int{1, 2}, next: []int{0, 1, 2}, wantCreated: 1},
		{name: "insert middle", prev: []int{1, 3}, next: []int{1, 2, 3}, wantCreated: 1},
		{name: "remove middle", prev: []int{1, 2, 3}, next: []int{1, 3}, wantDestroyed: 1},
		{name: "swap neighbors", prev: []int{1, 2, 3}, next: []int{1, 3, 2}, wantMoved: 1},
		{name: "last to front", prev: []int{1, 2, 3, 4}, next: []int{4, 1, 2, 3}, wantMoved: 1},
		{name: "reverse", prev: []int{1, 2, 3, 4}, next: []int{4, 3, 2, 1}, wantMoved: 3},
		{name: "replace all", prev: []int{1, 2}, next: []int{3, 4}, wantCreated: 2, wantDestroyed: 2},
		{name: "mixed", prev: []int{1, 2, 3, 4, 5}, next: []int{5, 2, 6, 4, 1}, wantCreated: 1, wantDestroyed: 1, wantMoved: 2},
		{name: "duplicate removed", prev: []int{1, 1, 2}, next: []int{1, 2}, wantDestroyed: 1},
		{name: "duplicate added", prev: []int{1, 2}, next: []int{1, 2, 1}, wantCreated: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, next := testKeys(tt.prev...), testKeys(tt.next...)
			script := Diff(prev, next)

			got := applyKeys(prev, next, script)
			if diff := cmp.Diff(next, got, cmp.AllowUnexported(RowKey{})); diff != "" {
				t.Fatalf("applied script %s mismatch (-want +got):\n%s", script, diff)
			}
			require.Equal(t, tt.wantCreated, script.Count(OpCreate), "created in %s", script)
			require.Equal(t, tt.wantDestroyed, script.Count(OpDestroy), "destroyed in %s", script)
			require.Equal(t, tt.wantMoved, script.Count(OpMove), "moved in %s", script)
		})
	}
}

func TestDiff_Random(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	for round := 0; round < 200; round++ {
		prevIDs := random.Perm(random.Intn(12))
		var nextIDs []int
		for _, id := range random.Perm(16) {
			if random.Intn(3) > 0 {
				nextIDs = append(nextIDs, id)
			}
		}
		prev, next := testKeys(prevIDs...), testKeys(nextIDs...)
		script := Diff(prev, next)

		got := applyKeys(prev, next, script)
		require.Equal(t, next, got, "round %d: %v -> %v by %s", round, prevIDs, nextIDs, script)

		// Keys in both lists are never destroyed or created
		inNext := make(map[int]int)
		for i, id := range nextIDs {
			inNext[id] = i
		}
		var common []int
		for _, id := range prevIDs {
			if i, ok := inNext[id]; ok {
				common = append(common, i)
			}
		}
		require.Equal(t, len(prevIDs)-len(common), script.Count(OpDestroy), "round %d", round)
		require.Equal(t, len(nextIDs)-len(common), script.Count(OpCreate), "round %d", round)
		require.Equal(t, len(common)-len(longestIncreasingSubsequence(common)), script.Count(OpMove), "round %d", round)
	}
}

func TestLongestIncreasingSubsequence(t *testing.T) {
	tests := []struct {
		seq  []int
		want int
	}{
		{seq: nil, want: 0},
		{seq: []int{5}, want: 1},
		{seq: []int{3, 2, 1}, want: 1},
		{seq: []int{1, 2, 3}, want: 3},
		{seq: []int{0, 8, 4, 12, 2, 10, 6, 14, 1, 9}, want: 4},
	}
	for _, tt := range tests {
		lis := longestIncreasingSubsequence(tt.seq)
		require.Len(t, lis, tt.want, "%v", tt.seq)
		for i := 1; i < len(lis); i++ {
			require.Less(t, lis[i-1], lis[i], "indices increase")
			require.Less(t, tt.seq[lis[i-1]], tt.seq[lis[i]], "values increase")
		}
	}
}

func TestEditScript_String(t *testing.T) {
	script := EditScript{
		{Kind: OpDestroy, From: 2},
		{Kind: OpCreate, To: 0, Entry: 1},
		{Kind: OpMove, From: 3, To: 1},
	}
	require.Equal(t, "[destroy(2) create(1@0) move(3->1)]", script.String())
	require.Equal(t, 1, script.Count(OpMove))
}
