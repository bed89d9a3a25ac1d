package rowtable

import (
	"fmt"
	"slices"
	"strings"
)

// OpKind is the kind of an EditOp.
type OpKind int

const (
	// OpDestroy destroys the view at From.
	OpDestroy OpKind = iota
	// OpCreate creates the view for the next entry with index Entry at To.
	OpCreate
	// OpMove moves the view at From to To.
	OpMove
)

func (k OpKind) String() string {
	switch k {
	case OpDestroy:
		return "destroy"
	case OpCreate:
		return "create"
	case OpMove:
		return "move"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// EditOp is a single structural edit of a rendered list.
// Positions refer to the list as it is after applying
// all previous operations of the script.
type EditOp struct {
	Kind  OpKind
	From  int
	To    int
	Entry int
}

func (op EditOp) String() string {
	switch op.Kind {
	case OpDestroy:
		return fmt.Sprintf("destroy(%d)", op.From)
	case OpCreate:
		return fmt.Sprintf("create(%d@%d)", op.Entry, op.To)
	case OpMove:
		return fmt.Sprintf("move(%d->%d)", op.From, op.To)
	}
	return op.Kind.String()
}

// EditScript is a sequence of edits that transforms
// one rendered list into another.
type EditScript []EditOp

// Count returns the number of operations of a kind.
func (s EditScript) Count(kind OpKind) int {
	n := 0
	for _, op := range s {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (s EditScript) String() string {
	ops := make([]string, len(s))
	for i, op := range s {
		ops[i] = op.String()
	}
	return "[" + strings.Join(ops, " ") + "]"
}

// Diff computes the edit script that transforms the list
// identified by prev into the list identified by next.
//
// Keys present in both lists are never destroyed.
// Of those only the keys outside a longest increasing
// subsequence of their old positions are moved,
// keys only in prev are destroyed and keys only in next are created.
// A key occurring more than once is treated as
// a different key for every further occurrence.
func Diff(prev, next []RowKey) EditScript {
	var (
		script    EditScript
		nextIndex = make(map[RowKey]int, len(next))
		isNew     = make([]bool, len(next))
		kept      = make(map[RowKey]bool, len(prev))
		destroy   = make([]bool, len(prev))
		// work holds the next index of every view
		// in the order of the list being edited
		work = make([]int, 0, len(prev))
	)
	for i, key := range next {
		if _, dup := nextIndex[key]; dup {
			isNew[i] = true
			continue
		}
		nextIndex[key] = i
	}

	for i, key := range prev {
		j, ok := nextIndex[key]
		if !ok || kept[key] {
			destroy[i] = true
			continue
		}
		kept[key] = true
		work = append(work, j)
	}
	// Destroy from the end so positions of
	// not yet destroyed views don't shift
	for i := len(prev) - 1; i >= 0; i-- {
		if destroy[i] {
			script = append(script, EditOp{Kind: OpDestroy, From: i})
		}
	}
	for i, key := range next {
		if !kept[key] {
			isNew[i] = true
		}
	}

	stable := make([]bool, len(next))
	for _, i := range longestIncreasingSubsequence(work) {
		stable[work[i]] = true
	}

	// Walk next backwards and place every entry that is not stable
	// directly in front of its already placed successor
	for i := len(next) - 1; i >= 0; i-- {
		if stable[i] {
			continue
		}
		anchor := len(work)
		if i+1 < len(next) {
			anchor = slices.Index(work, i+1)
		}
		if isNew[i] {
			work = slices.Insert(work, anchor, i)
			script = append(script, EditOp{Kind: OpCreate, To: anchor, Entry: i})
			continue
		}
		from := slices.Index(work, i)
		to := anchor
		if from < anchor {
			to--
		}
		if from == to {
			continue
		}
		work = moveElement(work, from, to)
		script = append(script, EditOp{Kind: OpMove, From: from, To: to})
	}
	return script
}

// ApplyEditScript applies script to list and returns the result.
// create returns the element for the next entry with the passed index.
// The passed list is not modified.
func ApplyEditScript[T any](list []T, script EditScript, create func(entry int) T) []T {
	list = slices.Clone(list)
	for _, op := range script {
		switch op.Kind {
		case OpDestroy:
			list = slices.Delete(list, op.From, op.From+1)
		case OpCreate:
			list = slices.Insert(list, op.To, create(op.Entry))
		case OpMove:
			list = moveElement(list, op.From, op.To)
		}
	}
	return list
}

// moveElement removes the element at from and inserts it
// so that it ends up at index to of the resulting slice.
func moveElement[T any](list []T, from, to int) []T {
	elem := list[from]
	list = slices.Delete(list, from, from+1)
	return slices.Insert(list, to, elem)
}

// longestIncreasingSubsequence returns the indices
// of a longest strictly increasing subsequence of seq.
func longestIncreasingSubsequence(seq []int) []int {
	var (
		// tails[l] is the index into seq of the smallest tail
		// of all increasing subsequences of length l+1
		tails = make([]int, 0, len(seq))
		prev  = make([]int, len(seq))
	)
	for i, v := range seq {
		l, _ := slices.BinarySearchFunc(tails, v, func(t, v int) int { return seq[t] - v })
		if l > 0 {
			prev[i] = tails[l-1]
		} else {
			prev[i] = -1
		}
		if l == len(tails) {
			tails = append(tails, i)
		} else {
			tails[l] = i
		}
	}
	lis := make([]int, len(tails))
	for i, k := len(tails)-1, -1; i >= 0; i-- {
		if k == -1 {
			k = tails[len(tails)-1]
		} else {
			k = prev[k]
		}
		lis[i] = k
	}
	return lis
}
