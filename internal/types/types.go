// Package types defines the structural type tags carried (but never
// enforced) by the interpreter. A TypeTag is descriptive metadata used for
// display, literal construction, and function-signature keying.
package types

import "strings"

// Kind distinguishes the structural shape a TypeTag carries.
type Kind int

const (
	Named Kind = iota
	Array
	Tuple
	Struct
	Function
)

// TypeTag is a structural, unchecked type descriptor.
//
//	Named(string)
//	Array(elem TypeTag)
//	Tuple([]TypeTag)
//	Struct(field name -> TypeTag)
//	Function(params []TypeTag, result TypeTag)
type TypeTag struct {
	Kind   Kind
	Name   string
	Elem   *TypeTag
	Elems  []TypeTag
	Fields map[string]TypeTag
	// FieldOrder preserves declaration order for Struct display; Fields
	// alone would make String() output nondeterministic.
	FieldOrder []string
	Params     []TypeTag
	Result     *TypeTag
}

// NewNamed builds a Named type tag, e.g. "i32", "str", "bool".
func NewNamed(name string) TypeTag {
	return TypeTag{Kind: Named, Name: name}
}

// NewArray builds an Array-of-elem type tag.
func NewArray(elem TypeTag) TypeTag {
	return TypeTag{Kind: Array, Elem: &elem}
}

// NewTuple builds a Tuple type tag over elems in order.
func NewTuple(elems []TypeTag) TypeTag {
	return TypeTag{Kind: Tuple, Elems: elems}
}

// NewStruct builds a Struct type tag from an ordered field list.
func NewStruct(order []string, fields map[string]TypeTag) TypeTag {
	return TypeTag{Kind: Struct, FieldOrder: order, Fields: fields}
}

// NewFunction builds a Function type tag.
func NewFunction(params []TypeTag, result TypeTag) TypeTag {
	return TypeTag{Kind: Function, Params: params, Result: &result}
}

// Unit is the conventional empty-tuple-like "no useful type" tag used when a
// declaration omits an explicit type annotation.
var Unit = NewNamed("unit")

func (t TypeTag) String() string {
	switch t.Kind {
	case Named:
		return t.Name
	case Array:
		return "[" + t.Elem.String() + "]"
	case Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	case Struct:
		parts := make([]string, 0, len(t.FieldOrder))
		for _, name := range t.FieldOrder {
			parts = append(parts, name+":"+t.Fields[name].String())
		}
		return "{" + strings.Join(parts, ",") + "}"
	case Function:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "(" + strings.Join(parts, ",") + ")->" + t.Result.String()
	}
	return "?"
}

// Signature renders a parenthesized, comma-joined argument-type list used
// for overload-by-signature dispatch, e.g. "(i32,str)".
func Signature(args []TypeTag) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}
