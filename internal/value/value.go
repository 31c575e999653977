// Package value implements the interpreter's runtime value model: shared,
// read-only-on-the-outside handles to an interior-mutable payload.
package value

import (
	"fmt"
	"sync"

	"github.com/glint-lang/glint/internal/types"
)

// Payload is the tagged union of concrete value shapes a Value can hold.
type Payload int

const (
	PayloadNull Payload = iota
	PayloadUnit
	PayloadInt
	PayloadFloat
	PayloadString
	PayloadBool
	PayloadArray
	PayloadTuple
	PayloadStruct
)

// Value is a shared handle to an InnerValue. It is cheap to copy; copies
// alias the same underlying record.
type Value struct {
	inner *InnerValue
}

// InnerValue is the record a Value handle points to. The outer Value never
// changes which InnerValue it points to, but Array/Tuple/Struct payloads
// carry their own mutex so field/element mutation is possible through a
// shared handle (the Dot-then-Assign protocol).
type InnerValue struct {
	Mutable bool
	Type    types.TypeTag
	Payload Payload

	Int    int64
	Float  float64
	Str    string
	Bool   bool

	// Name carries a struct's declared name (e.g. "Point") for display.
	// TypeTag itself is purely structural, so the nominal name a struct
	// literal was built from (`Point @ {...}`) would otherwise be lost.
	Name string

	mu     sync.Mutex
	Array  []Value
	Tuple  []Value
	Struct map[string]Value
}

func wrap(iv *InnerValue) Value { return Value{inner: iv} }

// Identity singletons, allocated once and compared by pointer identity
// exactly as the source language's truthiness and branch tests require.
var (
	TRUE = wrap(&InnerValue{Type: types.NewNamed("bool"), Payload: PayloadBool, Bool: true})
	FALSE = wrap(&InnerValue{Type: types.NewNamed("bool"), Payload: PayloadBool, Bool: false})
	NULL = wrap(&InnerValue{Type: types.NewNamed("null"), Payload: PayloadNull})
	UNIT = wrap(&InnerValue{Type: types.NewNamed("unit"), Payload: PayloadUnit})
)

// IsNil reports whether v is the zero Value (no underlying record).
func (v Value) IsNil() bool { return v.inner == nil }

// Is reports identity (pointer) equality with another Value — the only
// correct way to test against TRUE/FALSE/NULL/UNIT.
func (v Value) Is(other Value) bool { return v.inner == other.inner }

// Mutable reports the value's Mutable flag. Only NewZero sets it (always
// true); it does not reflect whether a binding was declared let or const.
func (v Value) Mutable() bool { return v.inner.Mutable }

// Type returns the value's structural type tag.
func (v Value) Type() types.TypeTag { return v.inner.Type }

// PayloadKind reports which concrete payload variant this value carries.
func (v Value) PayloadKind() Payload { return v.inner.Payload }

// NewInt builds a fresh, immutable i32-tagged integer value.
func NewInt(n int64) Value {
	return wrap(&InnerValue{Type: types.NewNamed("i32"), Payload: PayloadInt, Int: n})
}

// NewFloat builds a fresh, immutable f64-tagged float value.
func NewFloat(f float64) Value {
	return wrap(&InnerValue{Type: types.NewNamed("f64"), Payload: PayloadFloat, Float: f})
}

// NewString builds a fresh, immutable str-tagged string value.
func NewString(s string) Value {
	return wrap(&InnerValue{Type: types.NewNamed("str"), Payload: PayloadString, Str: s})
}

// NewBool returns the TRUE or FALSE singleton for b.
func NewBool(b bool) Value {
	if b {
		return TRUE
	}
	return FALSE
}

// NewZero builds the zero-valued object of type t used by DefVar before an
// initializer assigns a real value — a Null payload regardless of the
// declared type, matching the source semantics.
func NewZero(t types.TypeTag) Value {
	return wrap(&InnerValue{Mutable: true, Type: t, Payload: PayloadNull})
}

// NewArray builds a fresh array value over elems (interior-mutable).
func NewArray(elemType types.TypeTag, elems []Value) Value {
	return wrap(&InnerValue{
		Type: types.NewArray(elemType), Payload: PayloadArray,
		Array: append([]Value(nil), elems...),
	})
}

// NewTuple builds a fresh tuple value over elems (interior-mutable).
func NewTuple(elems []Value) Value {
	elemTypes := make([]types.TypeTag, len(elems))
	for i, e := range elems {
		elemTypes[i] = e.Type()
	}
	return wrap(&InnerValue{
		Type: types.NewTuple(elemTypes), Payload: PayloadTuple,
		Tuple: append([]Value(nil), elems...),
	})
}

// NewStruct builds a fresh struct value named name (its declared struct
// type, e.g. "Point") with fields bound in fieldOrder (interior-mutable).
func NewStruct(name string, fieldOrder []string, fields map[string]Value) Value {
	m := make(map[string]Value, len(fields))
	fieldTypes := make(map[string]types.TypeTag, len(fields))
	for k, v := range fields {
		m[k] = v
		fieldTypes[k] = v.Type()
	}
	return wrap(&InnerValue{
		Type: types.NewStruct(fieldOrder, fieldTypes), Payload: PayloadStruct,
		Name: name, Struct: m,
	})
}

// StructName reports the declared struct name a struct value was built
// from (empty for non-struct values).
func (v Value) StructName() string { return v.inner.Name }

// IsStruct reports whether v carries a Struct payload.
func (v Value) IsStruct() bool { return v.inner.Payload == PayloadStruct }

// IsInt, IsFloat, IsString, IsBool classify the payload.
func (v Value) IsInt() bool    { return v.inner.Payload == PayloadInt }
func (v Value) IsFloat() bool  { return v.inner.Payload == PayloadFloat }
func (v Value) IsString() bool { return v.inner.Payload == PayloadString }
func (v Value) IsBool() bool   { return v.inner.Payload == PayloadBool }

// Int, Float, Str, Bool access the scalar payload fields directly; callers
// must check the corresponding IsX predicate first.
func (v Value) Int() int64     { return v.inner.Int }
func (v Value) Float() float64 { return v.inner.Float }
func (v Value) Str() string    { return v.inner.Str }
func (v Value) Bool() bool     { return v.inner.Bool }

// HasAttr reports whether a struct value carries field key.
func (v Value) HasAttr(key string) bool {
	if v.inner.Payload != PayloadStruct {
		return false
	}
	v.inner.mu.Lock()
	defer v.inner.mu.Unlock()
	_, ok := v.inner.Struct[key]
	return ok
}

// GetAttr reads struct field key, returning ok=false if v is not a struct
// or lacks the field.
func (v Value) GetAttr(key string) (Value, bool) {
	if v.inner.Payload != PayloadStruct {
		return Value{}, false
	}
	v.inner.mu.Lock()
	defer v.inner.mu.Unlock()
	f, ok := v.inner.Struct[key]
	return f, ok
}

// SetAttr mutates struct field key in place through the shared handle. It
// returns false if v is not a struct or lacks the field.
func (v Value) SetAttr(key string, newValue Value) bool {
	if v.inner.Payload != PayloadStruct {
		return false
	}
	v.inner.mu.Lock()
	defer v.inner.mu.Unlock()
	if _, ok := v.inner.Struct[key]; !ok {
		return false
	}
	v.inner.Struct[key] = newValue
	return true
}

// Index accesses array/tuple element i (0-based), returning ok=false if the
// payload is not indexable or the index is out of range.
func (v Value) Index(i int) (Value, bool) {
	v.inner.mu.Lock()
	defer v.inner.mu.Unlock()
	switch v.inner.Payload {
	case PayloadArray:
		if i < 0 || i >= len(v.inner.Array) {
			return Value{}, false
		}
		return v.inner.Array[i], true
	case PayloadTuple:
		if i < 0 || i >= len(v.inner.Tuple) {
			return Value{}, false
		}
		return v.inner.Tuple[i], true
	}
	return Value{}, false
}

// SetIndex mutates array element i in place; tuples are not resettable
// through index (matching the source language's tuple immutability).
func (v Value) SetIndex(i int, newValue Value) bool {
	v.inner.mu.Lock()
	defer v.inner.mu.Unlock()
	if v.inner.Payload != PayloadArray || i < 0 || i >= len(v.inner.Array) {
		return false
	}
	v.inner.Array[i] = newValue
	return true
}

// ToDisplayString renders v for print/println/log and for string
// concatenation coercion in the add builtin.
func (v Value) ToDisplayString() string {
	switch v.inner.Payload {
	case PayloadNull:
		return "null"
	case PayloadUnit:
		return "unit"
	case PayloadInt:
		return fmt.Sprintf("%d", v.inner.Int)
	case PayloadFloat:
		return fmt.Sprintf("%g", v.inner.Float)
	case PayloadString:
		return v.inner.Str
	case PayloadBool:
		if v.inner.Bool {
			return "true"
		}
		return "false"
	case PayloadArray:
		return v.inner.Type.String()
	case PayloadTuple:
		return v.inner.Type.String()
	case PayloadStruct:
		if v.inner.Name != "" {
			return v.inner.Name
		}
		return v.inner.Type.String()
	}
	return "?"
}

// Equal implements structural equality over scalar payloads. Container
// payloads (array/tuple/struct) are never equal; equality over those
// is left undefined and simply returns false.
func Equal(a, b Value) bool {
	if a.inner.Payload != b.inner.Payload {
		return false
	}
	switch a.inner.Payload {
	case PayloadNull, PayloadUnit:
		return true
	case PayloadInt:
		return a.inner.Int == b.inner.Int
	case PayloadFloat:
		return a.inner.Float == b.inner.Float
	case PayloadString:
		return a.inner.Str == b.inner.Str
	case PayloadBool:
		return a.inner.Bool == b.inner.Bool
	default:
		return false
	}
}
