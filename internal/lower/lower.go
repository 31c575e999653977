// Package lower converts a parsed statement tree into a flat,
// location-annotated instruction vector: the AST → Instruction Lowering
// subsystem. It computes jump addresses as it emits, registers nested
// function bodies into a registry, and performs the language's one
// compile-time check — rejecting a variable name declared twice in the
// same lexical block.
package lower

import (
	"sort"

	"github.com/glint-lang/glint/internal/ast"
	"github.com/glint-lang/glint/internal/opcode"
	"github.com/glint-lang/glint/internal/registry"
	"github.com/glint-lang/glint/internal/token"
	"github.com/glint-lang/glint/internal/types"
)

// Error is returned for every lowering failure: a duplicate declaration
// (Kind "VariableError"), or an unsupported or malformed statement or
// expression node (Kind "ParseError"). Jump addresses are not checked for
// overflow.
type Error struct {
	Kind     string
	Message  string
	Position token.Position
}

func (e *Error) Error() string {
	return e.Kind + ": " + e.Message + " at " + e.Position.Short()
}

func dup(name string, pos token.Position) error {
	return &Error{Kind: "VariableError", Message: name + " has been defined", Position: pos}
}

func malformed(message string, pos token.Position) error {
	return &Error{Kind: "ParseError", Message: message, Position: pos}
}

// Lowering holds the shared registry nested function declarations are
// registered into during a single top-level lowering pass.
type Lowering struct {
	Registry *registry.Registry
}

// New creates a Lowering bound to reg. Every FuncDef encountered during
// the pass is registered into reg.
func New(reg *registry.Registry) *Lowering {
	return &Lowering{Registry: reg}
}

// Program lowers the top-level statement list (the synthetic __main__
// function body) with base address 0.
func (lw *Lowering) Program(stmts []ast.Statement) ([]opcode.Instruction, error) {
	return lw.lowerStmts(stmts, 0)
}

// lowerStmts lowers a statement list (a function body, an if/while
// branch body) placed at absolute address base, appending one Destroy
// per name VarDef'd directly in this block once the block's own code is
// fully emitted.
func (lw *Lowering) lowerStmts(stmts []ast.Statement, base int) ([]opcode.Instruction, error) {
	var code []opcode.Instruction
	var declaredOrder []string
	declared := map[string]bool{}

	for _, s := range stmts {
		if vd, ok := s.(ast.VarDef); ok {
			if declared[vd.Name] {
				return nil, dup(vd.Name, vd.Pos())
			}
			declared[vd.Name] = true
			declaredOrder = append(declaredOrder, vd.Name)
		}

		addr := base + len(code)
		insns, err := lw.lowerStmt(s, addr)
		if err != nil {
			return nil, err
		}
		code = append(code, insns...)
	}

	for _, name := range declaredOrder {
		code = append(code, opcode.NewDestroy(token.Position{}, name))
	}
	return code, nil
}

func (lw *Lowering) lowerStmt(s ast.Statement, addr int) ([]opcode.Instruction, error) {
	switch v := s.(type) {
	case ast.BreakStmt:
		return []opcode.Instruction{opcode.NewBreak(v.Pos())}, nil
	case ast.ContinueStmt:
		return []opcode.Instruction{opcode.NewContinue(v.Pos())}, nil
	case ast.ReturnStmt:
		return lw.lowerReturn(v, addr)
	case ast.AssignStmt:
		return lw.lowerAssignLike(v.Pos(), v.Left, v.Right, addr, opcode.NewAssign)
	case ast.MoveStmt:
		return lw.lowerAssignLike(v.Pos(), v.Left, v.Right, addr, opcode.NewMove)
	case ast.AugAssignStmt:
		return lw.lowerAugAssign(v, addr)
	case ast.VarDef:
		return lw.lowerVarDef(v, addr)
	case ast.TypeDef:
		return nil, nil
	case ast.FuncDef:
		return lw.lowerFuncDef(v, addr)
	case ast.ExprStmt:
		return lw.lowerExprFull(v.X, addr)
	case ast.IfStmt:
		return lw.lowerIf(v, addr)
	case ast.WhileStmt:
		return lw.lowerWhile(v, addr)
	case ast.ForStmt:
		return nil, nil
	default:
		return nil, malformed("unsupported statement kind", s.Pos())
	}
}

func (lw *Lowering) lowerReturn(v ast.ReturnStmt, addr int) ([]opcode.Instruction, error) {
	if v.Value == nil {
		return []opcode.Instruction{opcode.NewReturn(v.Pos(), opcode.Unit())}, nil
	}
	op, insns, err := lw.conditionalLower(v.Value, addr)
	if err != nil {
		return nil, err
	}
	insns = append(insns, opcode.NewReturn(v.Pos(), op))
	return insns, nil
}

type assignCtor func(pos token.Position, lhs, rhs opcode.Operand) opcode.Instruction

func (lw *Lowering) lowerAssignLike(pos token.Position, left, right ast.Expression, addr int, ctor assignCtor) ([]opcode.Instruction, error) {
	lOp, lInsns, err := lw.conditionalLower(left, addr)
	if err != nil {
		return nil, err
	}
	rOp, rInsns, err := lw.conditionalLower(right, addr+len(lInsns))
	if err != nil {
		return nil, err
	}
	code := append(lInsns, rInsns...)
	code = append(code, ctor(pos, lOp, rOp))
	return code, nil
}

func (lw *Lowering) lowerAugAssign(v ast.AugAssignStmt, addr int) ([]opcode.Instruction, error) {
	leftComplex := !isSimple(v.Left)

	leftInsns, err := lw.lowerExprFull(v.Left, addr)
	if err != nil {
		return nil, err
	}
	code := leftInsns
	leftOperand := toOperand(v.Left)
	if leftComplex {
		code = append(code, opcode.NewRepeat(v.Pos()))
		leftOperand = opcode.Stack()
	}

	rightInsns, err := lw.lowerExprFull(v.Right, addr+len(code))
	if err != nil {
		return nil, err
	}
	code = append(code, rightInsns...)
	code = append(code, opcode.NewCall(v.Pos(), opcode.Var(v.Op), 2))
	code = append(code, opcode.NewAssign(v.Pos(), leftOperand, opcode.Stack()))
	return code, nil
}

func (lw *Lowering) lowerVarDef(v ast.VarDef, addr int) ([]opcode.Instruction, error) {
	typeTag := toTypeTag(v.Type)
	code := []opcode.Instruction{opcode.NewDefVar(v.Pos(), v.Mutable, v.Name, typeTag.String())}
	if v.Init == nil {
		return code, nil
	}
	op, insns, err := lw.conditionalLower(v.Init, addr+1)
	if err != nil {
		return nil, err
	}
	code = append(code, insns...)
	code = append(code, opcode.NewAssign(v.Pos(), opcode.Var(v.Name), op))
	return code, nil
}

func (lw *Lowering) lowerFuncDef(v ast.FuncDef, addr int) ([]opcode.Instruction, error) {
	body, err := lw.lowerStmts(v.Body, 0)
	if err != nil {
		return nil, err
	}

	params := make([]registry.Param, len(v.Params))
	paramTypes := make([]types.TypeTag, len(v.Params))
	for i, p := range v.Params {
		t := toTypeTag(p.Type)
		params[i] = registry.Param{Name: p.Name, Type: t}
		paramTypes[i] = t
	}

	id := lw.Registry.Register(registry.Function{
		Params:     params,
		ReturnType: toTypeTag(v.ReturnType),
		Code:       body,
	})

	sign := types.Signature(paramTypes)
	return []opcode.Instruction{opcode.NewDefFunc(v.Pos(), v.Name, sign, id)}, nil
}

func (lw *Lowering) lowerIf(v ast.IfStmt, addr int) ([]opcode.Instruction, error) {
	testOp, testInsns, err := lw.conditionalLower(v.Test, addr)
	if err != nil {
		return nil, err
	}
	code := testInsns
	ifAddr := addr + len(code)

	thenInsns, err := lw.lowerStmts(v.Then, ifAddr+1)
	if err != nil {
		return nil, err
	}

	if len(v.Else) == 0 {
		target := ifAddr + 1 + len(thenInsns)
		code = append(code, opcode.NewIf(v.Pos(), testOp, target))
		code = append(code, thenInsns...)
		return code, nil
	}

	elseBase := ifAddr + 1 + len(thenInsns) + 1
	elseInsns, err := lw.lowerStmts(v.Else, elseBase)
	if err != nil {
		return nil, err
	}

	code = append(code, opcode.NewIf(v.Pos(), testOp, elseBase))
	code = append(code, thenInsns...)
	code = append(code, opcode.NewGoto(v.Pos(), elseBase+len(elseInsns)))
	code = append(code, elseInsns...)
	return code, nil
}

func (lw *Lowering) lowerWhile(v ast.WhileStmt, addr int) ([]opcode.Instruction, error) {
	h := addr
	testOp, testInsns, err := lw.conditionalLower(v.Test, h)
	if err != nil {
		return nil, err
	}
	code := testInsns
	j := h + len(code)

	thenInsns, err := lw.lowerStmts(v.Then, j+1)
	if err != nil {
		return nil, err
	}
	e := j + 1 + len(thenInsns) + 1

	thenStart := len(code) + 1 // index into code (relative), after the If slot
	code = append(code, opcode.NewIf(v.Pos(), testOp, e))
	code = append(code, thenInsns...)
	code = append(code, opcode.NewGoto(v.Pos(), h))

	for i := thenStart; i < thenStart+len(thenInsns); i++ {
		switch code[i].Op {
		case opcode.Break:
			code[i] = opcode.NewGoto(code[i].Position, e)
		case opcode.Continue:
			code[i] = opcode.NewGoto(code[i].Position, h)
		}
	}

	return code, nil
}

// conditionalLower lowers e only if it is syntactically complex
// (anything other than a bare literal or identifier), returning the
// operand an enclosing instruction should reference and the (possibly
// empty) instructions needed to produce it.
func (lw *Lowering) conditionalLower(e ast.Expression, addr int) (opcode.Operand, []opcode.Instruction, error) {
	if isSimple(e) {
		return toOperand(e), nil, nil
	}
	insns, err := lw.lowerExprFull(e, addr)
	if err != nil {
		return opcode.Operand{}, nil, err
	}
	return opcode.Stack(), insns, nil
}

// lowerExprFull recursively lowers e and always leaves exactly one
// result value on top of the evaluation stack — used wherever a
// genuine stack push is required regardless of e's shape (Call
// arguments, And/Or's right operand, Ternary's branches, struct literal
// field values, and top-level expression statements).
func (lw *Lowering) lowerExprFull(e ast.Expression, addr int) ([]opcode.Instruction, error) {
	switch v := e.(type) {
	case ast.LiteralExpr, ast.IdentExpr:
		return []opcode.Instruction{opcode.NewPush(e.Pos(), toOperand(e))}, nil

	case ast.DotExpr:
		lOp, lInsns, err := lw.conditionalLower(v.Left, addr)
		if err != nil {
			return nil, err
		}
		rOp, rInsns, err := lw.conditionalLower(v.Right, addr+len(lInsns))
		if err != nil {
			return nil, err
		}
		code := append(lInsns, rInsns...)
		code = append(code, opcode.NewDot(v.Pos(), lOp, rOp))
		return code, nil

	case ast.CallExpr:
		calleeOp, calleeInsns, err := lw.conditionalLower(v.Callee, addr)
		if err != nil {
			return nil, err
		}
		code := calleeInsns
		for _, arg := range v.Args {
			argInsns, err := lw.lowerExprFull(arg, addr+len(code))
			if err != nil {
				return nil, err
			}
			code = append(code, argInsns...)
		}
		code = append(code, opcode.NewCall(v.Pos(), calleeOp, len(v.Args)))
		return code, nil

	case ast.AndExpr:
		return lw.lowerShortCircuit(v.Pos(), v.Left, v.Right, addr, true)

	case ast.OrExpr:
		return lw.lowerShortCircuit(v.Pos(), v.Left, v.Right, addr, false)

	case ast.NotExpr:
		xOp, xInsns, err := lw.conditionalLower(v.X, addr)
		if err != nil {
			return nil, err
		}
		code := append(xInsns, opcode.NewNot(v.Pos(), xOp))
		return code, nil

	case ast.TernaryExpr:
		return lw.lowerTernary(v, addr)

	case ast.StructLiteralExpr:
		return lw.lowerStructLiteral(v, addr)

	case ast.BadExpr:
		return nil, malformed(v.Message, v.Pos())

	default:
		return nil, malformed("unsupported expression kind", e.Pos())
	}
}

// lowerShortCircuit implements And (isAnd=true, uses If + Push(False))
// and Or (isAnd=false, uses IfNot + Push(True)).
func (lw *Lowering) lowerShortCircuit(pos token.Position, left, right ast.Expression, addr int, isAnd bool) ([]opcode.Instruction, error) {
	lOp, lInsns, err := lw.conditionalLower(left, addr)
	if err != nil {
		return nil, err
	}
	code := lInsns
	ifAddr := addr + len(code)

	rInsns, err := lw.lowerExprFull(right, ifAddr+1)
	if err != nil {
		return nil, err
	}

	sentinelAddr := ifAddr + 1 + len(rInsns) + 1
	afterAddr := sentinelAddr + 1

	if isAnd {
		code = append(code, opcode.NewIf(pos, lOp, sentinelAddr))
	} else {
		code = append(code, opcode.NewIfNot(pos, lOp, sentinelAddr))
	}
	code = append(code, rInsns...)
	code = append(code, opcode.NewGoto(pos, afterAddr))
	if isAnd {
		code = append(code, opcode.NewPush(pos, opcode.False()))
	} else {
		code = append(code, opcode.NewPush(pos, opcode.True()))
	}
	return code, nil
}

func (lw *Lowering) lowerTernary(v ast.TernaryExpr, addr int) ([]opcode.Instruction, error) {
	testOp, testInsns, err := lw.conditionalLower(v.Test, addr)
	if err != nil {
		return nil, err
	}
	code := testInsns
	ifAddr := addr + len(code)

	thenInsns, err := lw.lowerExprFull(v.Then, ifAddr+1)
	if err != nil {
		return nil, err
	}
	elseAddr := ifAddr + 1 + len(thenInsns) + 1

	elseInsns, err := lw.lowerExprFull(v.Else, elseAddr)
	if err != nil {
		return nil, err
	}

	code = append(code, opcode.NewIf(v.Pos(), testOp, elseAddr))
	code = append(code, thenInsns...)
	code = append(code, opcode.NewGoto(v.Pos(), elseAddr+len(elseInsns)))
	code = append(code, elseInsns...)
	return code, nil
}

// lowerStructLiteral lowers each field value (in lexicographic key
// order, normalizing construction order) with a single push apiece and
// emits Struct(name, fieldCount). This simplifies the original
// implementation's documented double-push-per-field quirk (see
// DESIGN.md) while preserving the field count Struct consumes.
func (lw *Lowering) lowerStructLiteral(v ast.StructLiteralExpr, addr int) ([]opcode.Instruction, error) {
	fields := append([]ast.StructLiteralField(nil), v.Fields...)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	var code []opcode.Instruction
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		insns, err := lw.lowerExprFull(f.Value, addr+len(code))
		if err != nil {
			return nil, err
		}
		code = append(code, insns...)
		names = append(names, f.Name)
	}
	code = append(code, opcode.NewStruct(v.Pos(), v.Name, names))
	return code, nil
}

func isSimple(e ast.Expression) bool {
	switch e.(type) {
	case ast.LiteralExpr, ast.IdentExpr:
		return true
	default:
		return false
	}
}

func toOperand(e ast.Expression) opcode.Operand {
	switch v := e.(type) {
	case ast.LiteralExpr:
		switch v.Kind {
		case ast.LitTrue:
			return opcode.True()
		case ast.LitFalse:
			return opcode.False()
		case ast.LitNull:
			return opcode.Null()
		case ast.LitUnit:
			return opcode.Unit()
		case ast.LitInteger:
			return opcode.Integer(v.Text)
		case ast.LitFloat:
			return opcode.Float(v.Text)
		case ast.LitString:
			return opcode.Str(v.Text)
		}
	case ast.IdentExpr:
		return opcode.Var(v.Name)
	}
	return opcode.Stack()
}

// toTypeTag converts a syntactic type annotation into the structural
// TypeTag carried at runtime. Types are never enforced; generic arguments
// are dropped and only the outer type name is kept.
func toTypeTag(te ast.TypeExpr) types.TypeTag {
	return types.NewNamed(te.Name)
}
