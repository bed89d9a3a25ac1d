package rowtable

import "strings"

// Option is a bit set of rendering flags
// shared by the Table and the row matcher.
type Option int

const (
	// OptionMultiTemplateDataRows renders every matching data row
	// definition of a record instead of only the first match.
	OptionMultiTemplateDataRows Option = 1 << iota
	// OptionNoStickyPositions disables recomputing sticky offsets
	// after each render pass.
	OptionNoStickyPositions
)

func (o Option) Has(option Option) bool {
	return o&option != 0
}

func (o Option) String() string {
	var b strings.Builder
	if o.Has(OptionMultiTemplateDataRows) {
		b.WriteString("MultiTemplateDataRows")
	}
	if o.Has(OptionNoStickyPositions) {
		if b.Len() > 0 {
			b.WriteString("|")
		}
		b.WriteString("NoStickyPositions")
	}
	if b.Len() == 0 {
		return "no Option"
	}
	return b.String()
}

func HasOption(options []Option, option Option) bool {
	for _, o := range options {
		if o.Has(option) {
			return true
		}
	}
	return false
}

// JoinOptions combines options into a single bit set.
func JoinOptions(options ...Option) Option {
	var joined Option
	for _, o := range options {
		joined |= o
	}
	return joined
}
