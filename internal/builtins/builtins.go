// Package builtins implements the closed catalog of host functions the
// runtime falls back to once lexical scope lookup for a callee fails:
// print, println, log, the comparison family, and the arithmetic family.
package builtins

import (
	"fmt"
	"os"

	"github.com/glint-lang/glint/internal/value"
)

// RuntimeErrorf is returned by a builtin on a malformed call; the runtime
// passes it to its caller unchanged.
type RuntimeErrorf struct {
	Message string
}

func (e *RuntimeErrorf) Error() string { return "RuntimeError: " + e.Message }

func errf(format string, args ...any) error {
	return &RuntimeErrorf{Message: fmt.Sprintf(format, args...)}
}

// Func is a host-implemented builtin. It receives the runtime arguments in
// source order.
type Func func(args []value.Value) (value.Value, error)

// Table is the closed, fixed catalog of builtin names resolved only after
// lexical scope lookup fails for a Call's callee.
var Table = map[string]Func{
	"print":   stdPrint,
	"println": stdPrintln,
	"log":     stdLog,
	"equal":   stdEqual,
	"neq":     stdNeq,
	"lt":      stdLt,
	"gt":      stdGt,
	"leq":     stdLeq,
	"geq":     stdGeq,
	"add":     stdAdd,
	"sub":     stdSub,
	"mul":     stdMul,
	"div":     stdDiv,
}

// Lookup resolves name in the closed builtin table.
func Lookup(name string) (Func, bool) {
	f, ok := Table[name]
	return f, ok
}

func stdPrint(args []value.Value) (value.Value, error) {
	for _, a := range args {
		fmt.Fprint(os.Stdout, a.ToDisplayString())
	}
	return value.UNIT, nil
}

func stdPrintln(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.ToDisplayString()
	}
	line := ""
	for i, p := range parts {
		if i > 0 {
			line += " "
		}
		line += p
	}
	fmt.Fprintln(os.Stdout, line)
	return value.UNIT, nil
}

// stdLog writes to stderr rather than a browser console, since wasm
// bindings are out of scope for this interpreter.
func stdLog(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.ToDisplayString()
	}
	line := ""
	for i, p := range parts {
		if i > 0 {
			line += " "
		}
		line += p
	}
	fmt.Fprintln(os.Stderr, line)
	return value.UNIT, nil
}

func requireTwo(name string, args []value.Value) (value.Value, value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, value.Value{}, errf("%s expects 2 arguments, got %d", name, len(args))
	}
	return args[0], args[1], nil
}

func stdEqual(args []value.Value) (value.Value, error) {
	a, b, err := requireTwo("equal", args)
	if err != nil {
		return value.Value{}, err
	}
	return value.NewBool(value.Equal(a, b)), nil
}

func stdNeq(args []value.Value) (value.Value, error) {
	a, b, err := requireTwo("neq", args)
	if err != nil {
		return value.Value{}, err
	}
	return value.NewBool(!value.Equal(a, b)), nil
}

// asFloat promotes a numeric scalar to float64 for comparison/arithmetic
// with integer<->float promotion; ok is false for non-numeric payloads.
func asFloat(v value.Value) (float64, bool) {
	switch {
	case v.IsInt():
		return float64(v.Int()), true
	case v.IsFloat():
		return v.Float(), true
	}
	return 0, false
}

func stdLt(args []value.Value) (value.Value, error) { return compareNumericOrBool(args, "lt") }
func stdGt(args []value.Value) (value.Value, error) { return compareNumericOrBool(args, "gt") }

func stdLeq(args []value.Value) (value.Value, error) {
	v, err := stdGt(args)
	if err != nil {
		return value.Value{}, err
	}
	return value.NewBool(v.Is(value.FALSE)), nil
}

func stdGeq(args []value.Value) (value.Value, error) {
	v, err := stdLt(args)
	if err != nil {
		return value.Value{}, err
	}
	return value.NewBool(v.Is(value.FALSE)), nil
}

func compareNumericOrBool(args []value.Value, op string) (value.Value, error) {
	a, b, err := requireTwo(op, args)
	if err != nil {
		return value.Value{}, err
	}
	if a.IsBool() && b.IsBool() {
		if op == "lt" {
			return value.NewBool(!a.Bool() && b.Bool()), nil
		}
		return value.NewBool(a.Bool() && !b.Bool()), nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return value.Value{}, errf("%s requires numeric or boolean operands", op)
	}
	if op == "lt" {
		return value.NewBool(af < bf), nil
	}
	return value.NewBool(af > bf), nil
}

func stdAdd(args []value.Value) (value.Value, error) {
	a, b, err := requireTwo("add", args)
	if err != nil {
		return value.Value{}, err
	}
	// String concatenation: either side being a string coerces the other
	// side via its display form.
	if a.IsString() || b.IsString() {
		return value.NewString(a.ToDisplayString() + b.ToDisplayString()), nil
	}
	if a.IsInt() && b.IsInt() {
		return value.NewInt(a.Int() + b.Int()), nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return value.Value{}, errf("add requires numeric or string operands")
	}
	return value.NewFloat(af + bf), nil
}

func stdSub(args []value.Value) (value.Value, error) { return arith(args, "sub") }
func stdMul(args []value.Value) (value.Value, error) { return arith(args, "mul") }
func stdDiv(args []value.Value) (value.Value, error) { return arith(args, "div") }

func arith(args []value.Value, op string) (value.Value, error) {
	a, b, err := requireTwo(op, args)
	if err != nil {
		return value.Value{}, err
	}
	if a.IsInt() && b.IsInt() {
		x, y := a.Int(), b.Int()
		switch op {
		case "sub":
			return value.NewInt(x - y), nil
		case "mul":
			return value.NewInt(x * y), nil
		case "div":
			if y == 0 {
				return value.Value{}, errf("division by zero")
			}
			return value.NewInt(x / y), nil
		}
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return value.Value{}, errf("%s requires numeric operands", op)
	}
	switch op {
	case "sub":
		return value.NewFloat(af - bf), nil
	case "mul":
		return value.NewFloat(af * bf), nil
	case "div":
		if bf == 0 {
			return value.Value{}, errf("division by zero")
		}
		return value.NewFloat(af / bf), nil
	}
	return value.Value{}, errf("unknown operator %s", op)
}
