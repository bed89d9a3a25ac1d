package rowtable

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// TrackByFunc returns the identity of a record.
// Views are reused across render passes for records
// with the same identity. The returned value must be comparable.
type TrackByFunc[R any] func(index int, record R) any

// TrackByValue uses the record itself as identity
// if it is comparable, else the address of maps, slices,
// functions and channels. Other non comparable records
// fall back to TrackByContent.
func TrackByValue[R any](index int, record R) any {
	v := reflect.ValueOf(record)
	if !v.IsValid() {
		return nil
	}
	if v.Comparable() {
		return record
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return pointerIdentity{typ: v.Type(), ptr: v.Pointer(), len: lenOf(v)}
	}
	return TrackByContent(index, record)
}

// TrackByIndex uses the index of a record in the data as identity,
// so views stay at their position and are updated with new records.
func TrackByIndex[R any](index int, record R) any {
	return index
}

// TrackByContent uses a hash of the printed content of a record as identity.
// Records that print the same are treated as the same record,
// which is useful for non comparable records that are re-created
// with identical content.
func TrackByContent[R any](index int, record R) any {
	return contentIdentity(xxhash.Sum64String(fmt.Sprintf("%#v", record)))
}

type pointerIdentity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

type contentIdentity uint64

func lenOf(v reflect.Value) int {
	if v.Kind() == reflect.Slice {
		return v.Len()
	}
	return 0
}
