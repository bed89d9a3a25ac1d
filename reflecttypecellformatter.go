package rowtable

import (
	"context"
	"errors"
	"maps"
	"reflect"
)

var _ CellFormatter = new(ReflectTypeCellFormatter)

// ReflectTypeCellFormatter selects the CellFormatter for a cell
// by the reflected type of its value.
//
// Formatters are tried in the order:
//  1. exact type (Types)
//  2. implemented interface (InterfaceTypes)
//  3. kind (Kinds)
//  4. steps 1-3 for the dereferenced value of non nil pointers
//  5. Default
//
// A formatter returning errors.ErrUnsupported continues with the next step.
// Without a match errors.ErrUnsupported is returned,
// so the formatter can be used in a cascade with FormatCell.
//
// All With* methods return a modified copy, a nil
// *ReflectTypeCellFormatter is valid and formats nothing.
type ReflectTypeCellFormatter struct {
	Types          map[reflect.Type]CellFormatter
	InterfaceTypes map[reflect.Type]CellFormatter
	Kinds          map[reflect.Kind]CellFormatter
	Default        CellFormatter
}

func NewReflectTypeCellFormatter() *ReflectTypeCellFormatter {
	return new(ReflectTypeCellFormatter)
}

func (f *ReflectTypeCellFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	if f == nil {
		return "", false, errors.ErrUnsupported
	}
	if err = ctx.Err(); err != nil {
		return "", false, err
	}
	val := reflect.ValueOf(cell.Value)
	if val.IsValid() {
		str, raw, err = f.formatType(ctx, cell, val.Type())
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
		if val.Kind() == reflect.Pointer && !val.IsNil() {
			deref := *cell
			deref.Value = val.Elem().Interface()
			str, raw, err = f.formatType(ctx, &deref, val.Type().Elem())
			if !errors.Is(err, errors.ErrUnsupported) {
				return str, raw, err
			}
		}
	}
	if f.Default != nil {
		return f.Default.FormatCell(ctx, cell)
	}
	return "", false, errors.ErrUnsupported
}

func (f *ReflectTypeCellFormatter) formatType(ctx context.Context, cell *Cell, typ reflect.Type) (str string, raw bool, err error) {
	if typeFmt, ok := f.Types[typ]; ok {
		str, raw, err = typeFmt.FormatCell(ctx, cell)
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
	}
	for interfaceType, interfaceFmt := range f.InterfaceTypes {
		if typ.Implements(interfaceType) {
			str, raw, err = interfaceFmt.FormatCell(ctx, cell)
			if !errors.Is(err, errors.ErrUnsupported) {
				return str, raw, err
			}
		}
	}
	if kindFmt, ok := f.Kinds[typ.Kind()]; ok {
		str, raw, err = kindFmt.FormatCell(ctx, cell)
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
	}
	return "", false, errors.ErrUnsupported
}

// WithTypeFormatter returns a copy with fmt used for values of typ.
func (f *ReflectTypeCellFormatter) WithTypeFormatter(typ reflect.Type, fmt CellFormatter) *ReflectTypeCellFormatter {
	mod := f.cloneOrNew()
	if mod.Types == nil {
		mod.Types = make(map[reflect.Type]CellFormatter)
	}
	mod.Types[typ] = fmt
	return mod
}

// WithInterfaceTypeFormatter returns a copy with fmt used for values
// implementing the interface type typ.
// Use reflect.TypeFor[MyInterface]() to get the interface type.
func (f *ReflectTypeCellFormatter) WithInterfaceTypeFormatter(typ reflect.Type, fmt CellFormatter) *ReflectTypeCellFormatter {
	mod := f.cloneOrNew()
	if mod.InterfaceTypes == nil {
		mod.InterfaceTypes = make(map[reflect.Type]CellFormatter)
	}
	mod.InterfaceTypes[typ] = fmt
	return mod
}

// WithKindFormatter returns a copy with fmt used for values of kind.
func (f *ReflectTypeCellFormatter) WithKindFormatter(kind reflect.Kind, fmt CellFormatter) *ReflectTypeCellFormatter {
	mod := f.cloneOrNew()
	if mod.Kinds == nil {
		mod.Kinds = make(map[reflect.Kind]CellFormatter)
	}
	mod.Kinds[kind] = fmt
	return mod
}

// WithDefaultFormatter returns a copy with fmt used
// for all values without another formatter.
func (f *ReflectTypeCellFormatter) WithDefaultFormatter(fmt CellFormatter) *ReflectTypeCellFormatter {
	mod := f.cloneOrNew()
	mod.Default = fmt
	return mod
}

func (f *ReflectTypeCellFormatter) cloneOrNew() *ReflectTypeCellFormatter {
	if f == nil {
		return new(ReflectTypeCellFormatter)
	}
	return &ReflectTypeCellFormatter{
		Types:          maps.Clone(f.Types),
		InterfaceTypes: maps.Clone(f.InterfaceTypes),
		Kinds:          maps.Clone(f.Kinds),
		Default:        f.Default,
	}
}
