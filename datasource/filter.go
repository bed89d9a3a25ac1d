package datasource

import (
	"fmt"
	"strings"

	rowtable "github.com/domonda/go-rowtable"
)

// FilterSeparator separates the values of a record
// in the string searched by DefaultFilterPredicate,
// so that a filter never matches across two values.
const FilterSeparator = "◬"

// DefaultFilterPredicate returns if the trimmed lower case filter
// is contained in the lower case values of record.
// Nil values are treated as empty strings.
func DefaultFilterPredicate[R any](record R, filter string) bool {
	var b strings.Builder
	for _, val := range rowtable.RecordValues(record) {
		if !rowtable.IsNil(val) {
			fmt.Fprint(&b, val)
		}
		b.WriteString(FilterSeparator)
	}
	return strings.Contains(strings.ToLower(b.String()), strings.ToLower(strings.TrimSpace(filter)))
}
