// Package vm interprets the flat instruction vector internal/lower
// produces: a per-call stack-machine Runtime over a lexically-nested
// Scope, dispatching to internal/registry for user-defined functions and
// internal/builtins for the closed standard catalog.
package vm

import (
	"strconv"

	"github.com/glint-lang/glint/internal/builtins"
	"github.com/glint-lang/glint/internal/opcode"
	"github.com/glint-lang/glint/internal/registry"
	"github.com/glint-lang/glint/internal/scope"
	"github.com/glint-lang/glint/internal/token"
	"github.com/glint-lang/glint/internal/types"
	"github.com/glint-lang/glint/internal/value"
)

// Error reports a runtime failure tagged with the taxonomy member it
// belongs to (VariableError, TypeError, AttributeError, RuntimeError).
type Error struct {
	Kind     string
	Message  string
	Position token.Position
}

func (e *Error) Error() string {
	return e.Kind + ": " + e.Message + " at " + e.Position.Short()
}

func errAt(kind, message string, pos token.Position) error {
	return &Error{Kind: kind, Message: message, Position: pos}
}

// entry is a single evaluation-stack slot: either a plain value, or a
// pointer produced by Dot (a struct handle plus a field key), resolved
// lazily the next time something reads or assigns through it.
type entry struct {
	obj       value.Value
	isPointer bool
	key       string
}

// Runtime executes one function activation: its own instruction vector,
// program counter, and evaluation stack, over a scope chained to its
// caller's scope (or, for the top-level program, to whatever parent scope
// New is given: internal/driver passes a fresh global scope).
type Runtime struct {
	stack []entry
	code  []opcode.Instruction
	pc    int
	scope *scope.Scope
	reg   *registry.Registry
}

// New creates the Runtime for a call to the function registered under
// funcID, binding params into a fresh scope chained to parent.
func New(parent *scope.Scope, reg *registry.Registry, funcID int, params []value.Value) (*Runtime, error) {
	fn, ok := reg.Get(funcID)
	if !ok {
		return nil, errAt("RuntimeError", "unknown function id", token.Position{})
	}
	sc := scope.Child(parent)
	for i, p := range fn.Params {
		sc.DefineVariable(p.Name, value.NewZero(p.Type))
		if i < len(params) {
			sc.SetVariable(p.Name, params[i])
		}
	}
	return &Runtime{code: fn.Code, scope: sc, reg: reg}, nil
}

func (r *Runtime) goTo(addr int) { r.pc = addr - 1 }
func (r *Runtime) advance()      { r.pc++ }

func (r *Runtime) fetch() (opcode.Instruction, bool) {
	if r.pc < 0 || r.pc >= len(r.code) {
		return opcode.Instruction{}, false
	}
	return r.code[r.pc], true
}

func (r *Runtime) push(v value.Value)               { r.stack = append(r.stack, entry{obj: v}) }
func (r *Runtime) pushPointer(v value.Value, key string) {
	r.stack = append(r.stack, entry{obj: v, isPointer: true, key: key})
}

func (r *Runtime) pop() (entry, error) {
	if len(r.stack) == 0 {
		return entry{}, errAt("RuntimeError", "stack damage", token.Position{})
	}
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return top, nil
}

func (r *Runtime) peek() (entry, error) {
	if len(r.stack) == 0 {
		return entry{}, errAt("RuntimeError", "invalid stack operation", token.Position{})
	}
	return r.stack[len(r.stack)-1], nil
}

func resolve(e entry) (value.Value, error) {
	if !e.isPointer {
		return e.obj, nil
	}
	v, ok := e.obj.GetAttr(e.key)
	if !ok {
		return value.Value{}, errAt("AttributeError", "struct does not contain "+e.key, token.Position{})
	}
	return v, nil
}

func literal(op opcode.Operand) value.Value {
	switch op.Kind {
	case opcode.OpTrue:
		return value.TRUE
	case opcode.OpFalse:
		return value.FALSE
	case opcode.OpNull:
		return value.NULL
	case opcode.OpUnit:
		return value.UNIT
	case opcode.OpInteger:
		n, _ := strconv.ParseInt(op.Text, 10, 64)
		return value.NewInt(n)
	case opcode.OpFloat:
		f, _ := strconv.ParseFloat(op.Text, 64)
		return value.NewFloat(f)
	case opcode.OpString:
		return value.NewString(op.Text)
	default:
		return value.UNIT
	}
}

// getValue resolves an operand to a value: Stack peeks the top entry
// (without popping — matching the reference runtime's read semantics;
// see DESIGN.md on stack residue), Var reads the scope chain, and
// anything else is a literal.
func (r *Runtime) getValue(op opcode.Operand, pos token.Position) (value.Value, error) {
	switch op.Kind {
	case opcode.OpStack:
		e, err := r.peek()
		if err != nil {
			return value.Value{}, err
		}
		return resolve(e)
	case opcode.OpVar:
		v, ok := r.scope.GetVariable(op.Text)
		if !ok {
			return value.Value{}, errAt("VariableError", op.Text+" is not defined", pos)
		}
		return v, nil
	default:
		return literal(op), nil
	}
}

func funcSignature(args []value.Value) string {
	types_ := make([]types.TypeTag, len(args))
	for i, a := range args {
		types_[i] = a.Type()
	}
	return types.Signature(types_)
}

// Run executes instructions from the current program counter until a
// Return instruction or the end of the code is reached.
func (r *Runtime) Run() (value.Value, error) {
	for {
		ins, ok := r.fetch()
		if !ok {
			return value.UNIT, nil
		}

		switch ins.Op {
		case opcode.DefVar:
			r.scope.DefineVariable(ins.Name, value.NewZero(types.NewNamed(ins.Type)))

		case opcode.DefFunc:
			r.scope.DefineFunc(ins.Name, ins.Sign, ins.FuncID)

		case opcode.Assign, opcode.Move:
			// Move shares Assign's runtime handling; it stays a separate
			// opcode only for forward compatibility (see DESIGN.md decision
			// on Move vs Assign).
			if err := r.execAssign(ins); err != nil {
				return value.Value{}, err
			}

		case opcode.Call:
			if err := r.execCall(ins); err != nil {
				return value.Value{}, err
			}

		case opcode.Dot:
			if err := r.execDot(ins); err != nil {
				return value.Value{}, err
			}

		case opcode.Not:
			v, err := r.getValue(ins.A, ins.Position)
			if err != nil {
				return value.Value{}, err
			}
			if !v.IsBool() {
				return value.Value{}, errAt("TypeError", "expression should be a boolean", ins.Position)
			}
			if v.Is(value.TRUE) {
				r.push(value.FALSE)
			} else {
				r.push(value.TRUE)
			}

		case opcode.Push:
			v, err := r.getValue(ins.A, ins.Position)
			if err != nil {
				return value.Value{}, err
			}
			r.push(v)

		case opcode.If:
			v, err := r.getValue(ins.A, ins.Position)
			if err != nil {
				return value.Value{}, err
			}
			if !v.IsBool() {
				return value.Value{}, errAt("TypeError", "expression should be a boolean", ins.Position)
			}
			if v.Is(value.FALSE) {
				r.goTo(ins.Addr)
			}

		case opcode.IfNot:
			v, err := r.getValue(ins.A, ins.Position)
			if err != nil {
				return value.Value{}, err
			}
			if !v.IsBool() {
				return value.Value{}, errAt("TypeError", "expression should be a boolean", ins.Position)
			}
			if v.Is(value.TRUE) {
				r.goTo(ins.Addr)
			}

		case opcode.Goto:
			r.goTo(ins.Addr)

		case opcode.Return:
			return r.getValue(ins.A, ins.Position)

		case opcode.Repeat:
			if len(r.stack) == 0 {
				return value.Value{}, errAt("RuntimeError", "stack damage", ins.Position)
			}
			r.stack = append(r.stack, r.stack[len(r.stack)-1])

		case opcode.Struct:
			if err := r.execStruct(ins); err != nil {
				return value.Value{}, err
			}

		case opcode.Destroy:
			r.scope.Destroy(ins.Name)

		case opcode.Break, opcode.Continue:
			// internal/lower rewrites a break/continue inside a while body
			// into Goto; one written outside any loop reaches here.
			return value.Value{}, errAt("RuntimeError", "unresolved break/continue", ins.Position)

		default:
			return value.Value{}, errAt("RuntimeError", "unhandled instruction", ins.Position)
		}

		r.advance()
	}
}

func (r *Runtime) execAssign(ins opcode.Instruction) error {
	rhs, err := r.getValue(ins.B, ins.Position)
	if err != nil {
		return err
	}

	switch {
	case ins.A.IsVariable():
		if ok := r.scope.SetVariable(ins.A.Text, rhs); !ok {
			return errAt("VariableError", ins.A.Text+" is not defined", ins.Position)
		}
	case ins.A.IsStack():
		e, err := r.pop()
		if err != nil {
			return err
		}
		if !e.isPointer {
			return errAt("RuntimeError", "left-hand value could not be modified", ins.Position)
		}
		if !e.obj.IsStruct() {
			return errAt("RuntimeError", "operand is not a struct", ins.Position)
		}
		if ok := e.obj.SetAttr(e.key, rhs); !ok {
			return errAt("AttributeError", "struct does not contain "+e.key, ins.Position)
		}
	default:
		return errAt("RuntimeError", "left-hand value could not be modified", ins.Position)
	}
	return nil
}

func (r *Runtime) execCall(ins opcode.Instruction) error {
	if !ins.A.IsStack() && !ins.A.IsVariable() {
		return errAt("RuntimeError", "literal is not callable", ins.Position)
	}

	args := make([]value.Value, ins.Count)
	for i := ins.Count - 1; i >= 0; i-- {
		e, err := r.pop()
		if err != nil {
			return err
		}
		v, err := resolve(e)
		if err != nil {
			return err
		}
		args[i] = v
	}

	name := ins.A.Text
	sign := funcSignature(args)

	if funcID, ok := r.scope.GetFunc(name, sign); ok {
		callee, err := New(r.scope, r.reg, funcID, args)
		if err != nil {
			return err
		}
		result, err := callee.Run()
		if err != nil {
			return err
		}
		r.push(result)
		return nil
	}

	fn, ok := builtins.Lookup(name)
	if !ok {
		return errAt("VariableError", name+" is not defined", ins.Position)
	}
	result, err := fn(args)
	if err != nil {
		// Builtin errors already carry their own "RuntimeError: " prefix
		// (see internal/builtins.RuntimeErrorf); surface them as-is rather
		// than wrapping again.
		return err
	}
	r.push(result)
	return nil
}

func (r *Runtime) execDot(ins opcode.Instruction) error {
	left, err := r.getValue(ins.A, ins.Position)
	if err != nil {
		return err
	}
	if !left.IsStruct() {
		return errAt("RuntimeError", "operand is not a struct", ins.Position)
	}

	var key string
	if ins.B.IsStack() {
		e, err := r.pop()
		if err != nil {
			return err
		}
		v, err := resolve(e)
		if err != nil {
			return err
		}
		if !v.IsInt() && !v.IsFloat() && !v.IsString() {
			return errAt("AttributeError", "invalid attribute", ins.Position)
		}
		key = v.ToDisplayString()
	} else {
		key = ins.B.Text
	}

	r.pushPointer(left, key)
	return nil
}

func (r *Runtime) execStruct(ins opcode.Instruction) error {
	if len(r.stack) < ins.Count {
		return errAt("RuntimeError", "stack damage", ins.Position)
	}
	fields := make(map[string]value.Value, ins.Count)
	for i := ins.Count - 1; i >= 0; i-- {
		e, err := r.pop()
		if err != nil {
			return err
		}
		v, err := resolve(e)
		if err != nil {
			return err
		}
		fields[ins.Fields[i]] = v
	}
	r.push(value.NewStruct(ins.Name, ins.Fields, fields))
	return nil
}
