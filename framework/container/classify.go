package container

import (
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// scalarTypes are struct/array types that behave like primitives: dates,
// identifiers and arbitrary-precision numbers.
var scalarTypes = map[reflect.Type]bool{
	reflect.TypeOf(time.Time{}):      true,
	reflect.TypeOf(time.Duration(0)): true,
	reflect.TypeOf(time.Month(0)):    true,
	reflect.TypeOf(time.Weekday(0)):  true,
	reflect.TypeOf(uuid.UUID{}):      true,
	reflect.TypeOf(big.Int{}):        true,
	reflect.TypeOf(big.Float{}):      true,
	reflect.TypeOf(big.Rat{}):        true,
}

// IsScalar reports whether t is a type the container never auto-constructs.
//
// Scalars are the primitive kinds (named ones included, which is how Go spells
// enumerations), strings, dates, UUIDs, big numbers, pointers to any of those
// and arrays or slices of them.
func IsScalar(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if scalarTypes[t] {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Pointer, reflect.Array, reflect.Slice:
		return IsScalar(t.Elem())
	}
	return false
}

// IsValueType reports whether t is copied by value and has a usable zero
// value. Strings are excluded on purpose: they resolve like references and
// fail when nothing provides them.
func IsValueType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Array, reflect.Struct:
		return true
	}
	return false
}

// IsAbstract reports whether t cannot be instantiated at all.
func IsAbstract(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

// NullableElem returns X when t is *X and X is a scalar value type.
func NullableElem(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, false
	}
	elem := t.Elem()
	if IsValueType(elem) && IsScalar(elem) {
		return elem, true
	}
	return nil, false
}
