// Package opcode defines the closed instruction set the lowering stage
// emits and the runtime interprets: Operand references and
// location-tagged Instructions.
package opcode

import (
	"fmt"
	"strings"

	"github.com/glint-lang/glint/internal/token"
)

// OperandKind tags which variant an Operand carries.
type OperandKind int

const (
	OpTrue OperandKind = iota
	OpFalse
	OpNull
	OpUnit
	OpInteger
	OpFloat
	OpString
	OpVar
	OpStack
)

// Operand is a reference used by an instruction: a literal, a variable
// name, or "the current top of the evaluation stack."
//
// Literal operands (Integer/Float/String) carry their source lexeme
// verbatim; numeric conversion happens later, at value construction.
type Operand struct {
	Kind OperandKind
	Text string // lexeme for Integer/Float/String, name for Var
}

func True() Operand          { return Operand{Kind: OpTrue} }
func False() Operand         { return Operand{Kind: OpFalse} }
func Null() Operand          { return Operand{Kind: OpNull} }
func Unit() Operand          { return Operand{Kind: OpUnit} }
func Integer(lex string) Operand { return Operand{Kind: OpInteger, Text: lex} }
func Float(lex string) Operand   { return Operand{Kind: OpFloat, Text: lex} }
func Str(lex string) Operand     { return Operand{Kind: OpString, Text: lex} }
func Var(name string) Operand    { return Operand{Kind: OpVar, Text: name} }
func Stack() Operand             { return Operand{Kind: OpStack} }

// IsStack reports whether o denotes the evaluation stack top.
func (o Operand) IsStack() bool { return o.Kind == OpStack }

// IsVariable reports whether o denotes a named variable.
func (o Operand) IsVariable() bool { return o.Kind == OpVar }

func (o Operand) String() string {
	switch o.Kind {
	case OpTrue:
		return "true"
	case OpFalse:
		return "false"
	case OpNull:
		return "null"
	case OpUnit:
		return "unit"
	case OpInteger:
		return o.Text
	case OpFloat:
		return o.Text
	case OpString:
		return fmt.Sprintf("%q", o.Text)
	case OpVar:
		return o.Text
	case OpStack:
		return "$0"
	}
	return "?"
}

// Mnemonic identifies an instruction kind for display and dispatch.
type Mnemonic int

const (
	Assign Mnemonic = iota
	Move
	Call
	Dot
	Not
	Push
	If
	IfNot
	Goto
	Return
	DefVar
	DefFunc
	Destroy
	Struct
	Repeat
	Break
	Continue
)

var mnemonicNames = map[Mnemonic]string{
	Assign: "Assign", Move: "Move", Call: "Call", Dot: "Dot", Not: "Not",
	Push: "Push", If: "If", IfNot: "IfNot", Goto: "Goto", Return: "Return",
	DefVar: "DefVar", DefFunc: "DefFunc", Destroy: "Destroy", Struct: "Struct",
	Repeat: "Repeat", Break: "Break", Continue: "Continue",
}

func (m Mnemonic) String() string {
	if s, ok := mnemonicNames[m]; ok {
		return s
	}
	return "?"
}

// Instruction wraps a closed-set opcode with the source location it was
// lowered from, for diagnostics.
type Instruction struct {
	Op       Mnemonic
	Position token.Position

	// operand slots — only the ones relevant to Op are populated.
	A       Operand
	B       Operand
	Name    string // DefFunc name, DefVar variable name, Destroy name, Struct name
	Sign    string // DefFunc signature
	FuncID  int    // DefFunc function id
	Addr    int      // If/IfNot/Goto target address
	Count   int      // Call/Struct argument/field count
	Fields  []string // Struct field names, in the order their values were pushed
	Mutable bool     // DefVar
	Type    string   // DefVar declared type display
}

// NewAssign, NewMove, ... construct instructions at a given source
// position. Only constructors for operand shapes that actually occur in
// lowering are provided; the zero Instruction is never emitted directly.

func NewAssign(pos token.Position, lhs, rhs Operand) Instruction {
	return Instruction{Op: Assign, Position: pos, A: lhs, B: rhs}
}

func NewMove(pos token.Position, lhs, rhs Operand) Instruction {
	return Instruction{Op: Move, Position: pos, A: lhs, B: rhs}
}

func NewCall(pos token.Position, callee Operand, argc int) Instruction {
	return Instruction{Op: Call, Position: pos, A: callee, Count: argc}
}

func NewDot(pos token.Position, lhs, rhs Operand) Instruction {
	return Instruction{Op: Dot, Position: pos, A: lhs, B: rhs}
}

func NewNot(pos token.Position, v Operand) Instruction {
	return Instruction{Op: Not, Position: pos, A: v}
}

func NewPush(pos token.Position, v Operand) Instruction {
	return Instruction{Op: Push, Position: pos, A: v}
}

func NewIf(pos token.Position, cond Operand, addr int) Instruction {
	return Instruction{Op: If, Position: pos, A: cond, Addr: addr}
}

func NewIfNot(pos token.Position, cond Operand, addr int) Instruction {
	return Instruction{Op: IfNot, Position: pos, A: cond, Addr: addr}
}

func NewGoto(pos token.Position, addr int) Instruction {
	return Instruction{Op: Goto, Position: pos, Addr: addr}
}

func NewReturn(pos token.Position, v Operand) Instruction {
	return Instruction{Op: Return, Position: pos, A: v}
}

func NewDefVar(pos token.Position, mutable bool, name string, typ string) Instruction {
	return Instruction{Op: DefVar, Position: pos, Mutable: mutable, Name: name, Type: typ}
}

func NewDefFunc(pos token.Position, name, sign string, id int) Instruction {
	return Instruction{Op: DefFunc, Position: pos, Name: name, Sign: sign, FuncID: id}
}

func NewDestroy(pos token.Position, name string) Instruction {
	return Instruction{Op: Destroy, Position: pos, Name: name}
}

// NewStruct builds a Struct instruction. fields names the struct's keys
// in the order their values were pushed (the original reference
// implementation's Struct opcode carries only a type name and count and
// never actually builds an object at runtime; recording field names
// here is the design completion spec.md invites — see DESIGN.md).
func NewStruct(pos token.Position, name string, fields []string) Instruction {
	return Instruction{Op: Struct, Position: pos, Name: name, Count: len(fields), Fields: fields}
}

func NewRepeat(pos token.Position) Instruction {
	return Instruction{Op: Repeat, Position: pos}
}

func NewBreak(pos token.Position) Instruction {
	return Instruction{Op: Break, Position: pos}
}

func NewContinue(pos token.Position) Instruction {
	return Instruction{Op: Continue, Position: pos}
}

// String renders the instruction's operand portion; it does not include the
// index/position columns used by a full listing (see driver.Parse).
func (ins Instruction) String() string {
	mnem := padMnemonic(ins.Op.String())
	switch ins.Op {
	case Assign, Move, Dot:
		return fmt.Sprintf("%s%s, %s", mnem, ins.A, ins.B)
	case Call:
		return fmt.Sprintf("%s%s, %d", mnem, ins.A, ins.Count)
	case Not, Push, Return:
		return fmt.Sprintf("%s%s", mnem, ins.A)
	case If, IfNot:
		return fmt.Sprintf("%s%s, %d", mnem, ins.A, ins.Addr)
	case Goto:
		return fmt.Sprintf("%s%d", mnem, ins.Addr)
	case DefVar:
		mutStr := ""
		if ins.Mutable {
			mutStr = "mut "
		}
		return fmt.Sprintf("%s%s%s: %s", mnem, mutStr, ins.Name, ins.Type)
	case DefFunc:
		return fmt.Sprintf("%s%s%s -> %d", mnem, ins.Name, ins.Sign, ins.FuncID)
	case Destroy:
		return fmt.Sprintf("%s%s", mnem, ins.Name)
	case Struct:
		return fmt.Sprintf("%s%s, %d {%s}", mnem, ins.Name, ins.Count, strings.Join(ins.Fields, ","))
	case Repeat, Break, Continue:
		return strings.TrimRight(mnem, " ")
	}
	return mnem
}

// padMnemonic left-aligns a mnemonic name in a fixed 10-character column,
// appending spaces after it, for aligned instruction-listing output.
func padMnemonic(name string) string {
	if len(name) >= 10 {
		return name + " "
	}
	return name + strings.Repeat(" ", 10-len(name))
}
