package rowtable

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// DefaultStructFieldNaming provides the default StructFieldNaming
// using "col" as title tag, ignores "-" titled fields,
// and uses SpacePascalCase for untagged fields.
var DefaultStructFieldNaming = StructFieldNaming{
	Tag:      "col",
	Ignore:   "-",
	Untagged: SpacePascalCase,
}

// StructFieldNaming defines how struct fields
// of records are mapped to column names.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as column name.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as column name.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Ignore is the column name that excludes a field
	Ignore string
	// Untagged will be called with the struct field name to
	// return a column name in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (column string)
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldColumn returns the column name for a struct field.
func (n *StructFieldNaming) StructFieldColumn(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

func (n *StructFieldNaming) isIgnored(column string) bool {
	return n != nil && n.Ignore != "" && column == n.Ignore
}

// Columns returns the column names of all exported
// fields of strct including inlined embedded struct fields.
func (n *StructFieldNaming) Columns(strct any) []string {
	fields := StructFieldTypes(reflect.TypeOf(strct))
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		if column := n.StructFieldColumn(field); !n.isIgnored(column) {
			columns = append(columns, column)
		}
	}
	return columns
}

// ColumnStructFieldValue returns the value of the exported struct field
// with the column name or with the Go field name column.
// An invalid reflect.Value is returned if there is no such field.
func (n *StructFieldNaming) ColumnStructFieldValue(strct reflect.Value, column string) reflect.Value {
	fields := StructFieldTypes(strct.Type())
	values := StructFieldValues(strct)
	for i, field := range fields {
		if name := n.StructFieldColumn(field); name == column && !n.isIgnored(name) {
			return values[i]
		}
	}
	for i, field := range fields {
		if field.Name == column {
			return values[i]
		}
	}
	return reflect.Value{}
}

// ColumnValue returns the value of the named column of a record
// using DefaultStructFieldNaming for structs.
// Maps with string keys are indexed by column,
// pointers and interfaces are dereferenced.
// The result is false if the record has no such column.
func ColumnValue(record any, column string) (any, bool) {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		field := DefaultStructFieldNaming.ColumnStructFieldValue(v, column)
		if !field.IsValid() || !field.CanInterface() {
			return nil, false
		}
		return field.Interface(), true

	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := v.MapIndex(reflect.ValueOf(column).Convert(v.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	}
	return nil, false
}

// RecordValues returns the cell values of a record in a stable order:
// exported struct fields in declaration order or
// map values sorted by key.
func RecordValues(record any) []any {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		fieldValues := StructFieldValues(v)
		values := make([]any, 0, len(fieldValues))
		for _, f := range fieldValues {
			if f.CanInterface() {
				values = append(values, f.Interface())
			}
		}
		return values

	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		values := make([]any, len(keys))
		for i, key := range keys {
			values[i] = v.MapIndex(key).Interface()
		}
		return values

	case reflect.Slice, reflect.Array:
		values := make([]any, v.Len())
		for i := range values {
			values[i] = v.Index(i).Interface()
		}
		return values

	case reflect.Invalid:
		return nil
	}
	return []any{v.Interface()}
}
