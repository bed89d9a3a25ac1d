package tableconfig

import (
	"fmt"
	"strings"

	rowtable "github.com/domonda/go-rowtable"
)

// Predicate selects the records a data row applies to.
type Predicate[R any] func(index int, record R) bool

// NewRegistry returns a new registry with the definitions of config.
func NewRegistry[R any](config *Config, predicates map[string]Predicate[R]) (*rowtable.Registry[R], error) {
	registry := rowtable.NewRegistry[R]()
	if err := Apply(config, registry, predicates); err != nil {
		return nil, err
	}
	return registry, nil
}

// Apply adds the column and row definitions of config to registry
// and sets its default columns if config has any.
// The named predicates are used for the When conditions of rows.
func Apply[R any](config *Config, registry *rowtable.Registry[R], predicates map[string]Predicate[R]) error {
	if err := config.Validate(); err != nil {
		return err
	}
	rows := make([]*rowtable.RowDef[R], len(config.Rows))
	for i, row := range config.Rows {
		def, err := rowDef(row, predicates)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = def
	}

	for _, col := range config.Columns {
		pin, _ := rowtable.ParsePin(col.Pin)
		registry.AddColumn(&rowtable.ColumnDef[R]{
			Name:   col.Name,
			Header: col.Header,
			Footer: col.Footer,
			Pin:    pin,
			Width:  col.Width,
		})
	}
	if len(config.DefaultColumns) > 0 {
		registry.SetDefaultColumns(config.DefaultColumns...)
	}
	for _, def := range rows {
		registry.AddRow(def)
	}
	return nil
}

func rowDef[R any](row Row, predicates map[string]Predicate[R]) (*rowtable.RowDef[R], error) {
	kind, err := rowtable.ParseRowKind(row.Kind)
	if err != nil {
		return nil, err
	}
	pin, err := rowtable.ParsePin(row.Pin)
	if err != nil {
		return nil, err
	}
	def := &rowtable.RowDef[R]{
		Name:    row.Name,
		Kind:    kind,
		Columns: row.Columns,
		Pin:     pin,
	}
	if row.Template != "" {
		def.Template = row.Template
	}
	if row.When != "" {
		when, err := condition(row.When, predicates)
		if err != nil {
			return nil, err
		}
		def.When = when
	}
	return def, nil
}

func condition[R any](when string, predicates map[string]Predicate[R]) (func(int, R) bool, error) {
	if p, ok := predicates[when]; ok {
		return p, nil
	}
	switch when {
	case "even":
		return func(index int, _ R) bool { return index%2 == 0 }, nil
	case "odd":
		return func(index int, _ R) bool { return index%2 == 1 }, nil
	}
	column, value, ok := strings.Cut(when, "=")
	if !ok {
		return nil, fmt.Errorf("unknown predicate %q", when)
	}
	column = strings.TrimSpace(column)
	value = strings.TrimSpace(value)
	return func(_ int, record R) bool {
		v, ok := rowtable.ColumnValue(record, column)
		if !ok || rowtable.IsNil(v) {
			return value == ""
		}
		return fmt.Sprint(v) == value
	}, nil
}
