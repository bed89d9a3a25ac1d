package datasource

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	rowtable "github.com/domonda/go-rowtable"
)

// Direction of a sort.
type Direction int

const (
	// Unsorted keeps the order of the data.
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Unsorted:
		return ""
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection parses "asc", "desc" or an empty string.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Unsorted, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Unsorted, fmt.Errorf("invalid sort direction %q", s)
}

// next returns the direction after toggling a sort header:
// ascending, descending, unsorted.
func (d Direction) next() Direction {
	switch d {
	case Unsorted:
		return Ascending
	case Ascending:
		return Descending
	}
	return Unsorted
}

// MaxSafeInteger is the largest integer that numeric strings
// are converted to for sorting. Larger numbers are sorted as
// strings because they can't be represented exactly as float64.
const MaxSafeInteger = 1<<53 - 1

// DefaultSortingDataAccessor returns the value of column of record
// looked up with rowtable.ColumnValue.
// Strings containing a number with an absolute value
// up to MaxSafeInteger are returned as float64.
func DefaultSortingDataAccessor[R any](record R, column string) any {
	val, _ := rowtable.ColumnValue(record, column)
	if str, ok := val.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil && math.Abs(f) <= MaxSafeInteger {
			return f
		}
	}
	return val
}

// CompareValues compares two sort values.
// Nil values are less than all other values,
// numbers are compared numerically, times chronologically
// and all other values by their printed string.
func CompareValues(a, b any) int {
	aNil, bNil := rowtable.IsNil(a), rowtable.IsNil(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	case bNil:
		return 1
	}
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asFloat(v any) (float64, bool) {
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(val.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(val.Uint()), true
	case reflect.Float32, reflect.Float64:
		return val.Float(), true
	}
	return 0, false
}
