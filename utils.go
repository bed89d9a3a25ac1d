package rowtable

import (
	"reflect"
	"strings"
	"unicode"
)

// StructFieldTypes returns the exported fields of a struct type
// including the promoted fields of anonymously embedded structs
// in declaration order.
func StructFieldTypes(structType reflect.Type) []reflect.StructField {
	if structType == nil {
		return nil
	}
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil
	}
	var fields []reflect.StructField
	for _, field := range reflect.VisibleFields(structType) {
		if field.Anonymous && indirectKind(field.Type) == reflect.Struct {
			continue
		}
		if field.IsExported() {
			fields = append(fields, field)
		}
	}
	return fields
}

// StructFieldValues returns the values of the fields
// returned by StructFieldTypes for structValue.
// Fields behind nil embedded struct pointers are zero values.
func StructFieldValues(structValue reflect.Value) []reflect.Value {
	if structValue.Kind() == reflect.Pointer {
		if structValue.IsNil() {
			structValue = reflect.Zero(structValue.Type().Elem())
		} else {
			structValue = structValue.Elem()
		}
	}
	fields := StructFieldTypes(structValue.Type())
	values := make([]reflect.Value, len(fields))
	for i, field := range fields {
		value, err := structValue.FieldByIndexErr(field.Index)
		if err != nil {
			value = reflect.Zero(field.Type)
		}
		values[i] = value
	}
	return values
}

func indirectKind(t reflect.Type) reflect.Kind {
	if t.Kind() == reflect.Pointer {
		return t.Elem().Kind()
	}
	return t.Kind()
}

// SpacePascalCase inserts spaces between the words of
// PascalCase or camelCase names and replaces underscores with spaces.
// Usable for StructFieldNaming.Untagged
func SpacePascalCase(name string) string {
	var (
		b    strings.Builder
		prev = ' '
	)
	b.Grow(len(name) + 4)
	for _, r := range name {
		if r == '_' {
			r = ' '
		}
		switch {
		case r == ' ':
			if prev != ' ' {
				b.WriteByte(' ')
			}
		case unicode.IsUpper(r) && prev != ' ' && !unicode.IsUpper(prev):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return strings.TrimSpace(b.String())
}

// ValueIsNil returns true for invalid values,
// nil values of types that can be nil and values of type struct{}.
func ValueIsNil(val reflect.Value) bool {
	switch val.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return val.IsNil()
	case reflect.Struct:
		// struct{} carries no value
		return val.Type().NumField() == 0 && val.Type().NumMethod() == 0
	}
	return false
}

// IsNil returns if v is nil or a typed nil.
func IsNil(v any) bool {
	return v == nil || ValueIsNil(reflect.ValueOf(v))
}
