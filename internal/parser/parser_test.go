package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glint-lang/glint/internal/ast"
)

func TestParseVarDefWithInitializer(t *testing.T) {
	stmts, errs, scanErrs := ParseProgram(`let a: i32 = 1;`)
	assert.Empty(t, errs)
	assert.Empty(t, scanErrs)
	assert.Len(t, stmts, 1)

	def, ok := stmts[0].(ast.VarDef)
	assert.True(t, ok)
	assert.True(t, def.Mutable)
	assert.Equal(t, "a", def.Name)
	assert.Equal(t, "i32", def.Type.Name)
}

func TestParseConstIsImmutable(t *testing.T) {
	stmts, errs, _ := ParseProgram(`const a: i32 = 1;`)
	assert.Empty(t, errs)
	def := stmts[0].(ast.VarDef)
	assert.False(t, def.Mutable)
}

func TestBinaryOperatorsDesugarToCall(t *testing.T) {
	stmts, errs, _ := ParseProgram(`println(add(a, b));`)
	assert.Empty(t, errs)
	_ = stmts

	stmts2, errs2, _ := ParseProgram(`let x: i32 = a + b;`)
	assert.Empty(t, errs2)
	def := stmts2[0].(ast.VarDef)
	call, ok := def.Init.(ast.CallExpr)
	assert.True(t, ok)
	callee := call.Callee.(ast.IdentExpr)
	assert.Equal(t, "add", callee.Name)
	assert.Len(t, call.Args, 2)
}

func TestComparisonOperatorsDesugar(t *testing.T) {
	stmts, errs, _ := ParseProgram(`let x: bool = a <= b;`)
	assert.Empty(t, errs)
	def := stmts[0].(ast.VarDef)
	call := def.Init.(ast.CallExpr)
	assert.Equal(t, "leq", call.Callee.(ast.IdentExpr).Name)
}

func TestUnsupportedOperatorStillParses(t *testing.T) {
	stmts, errs, _ := ParseProgram(`let x: i32 = a % b;`)
	assert.Empty(t, errs)
	def := stmts[0].(ast.VarDef)
	call := def.Init.(ast.CallExpr)
	assert.Equal(t, "%", call.Callee.(ast.IdentExpr).Name)
}

func TestLogicalAndOrProduceDedicatedNodes(t *testing.T) {
	stmts, errs, _ := ParseProgram(`let x: bool = a && b || c;`)
	assert.Empty(t, errs)
	def := stmts[0].(ast.VarDef)
	_, ok := def.Init.(ast.OrExpr)
	assert.True(t, ok)
}

func TestUnaryMinusDesugarsToSubFromZero(t *testing.T) {
	stmts, errs, _ := ParseProgram(`let x: i32 = -a;`)
	assert.Empty(t, errs)
	def := stmts[0].(ast.VarDef)
	call := def.Init.(ast.CallExpr)
	assert.Equal(t, "sub", call.Callee.(ast.IdentExpr).Name)
	lit := call.Args[0].(ast.LiteralExpr)
	assert.Equal(t, "0", lit.Text)
}

func TestIfElifElseChain(t *testing.T) {
	stmts, errs, _ := ParseProgram(`if a { println(1); } elif b { println(2); } else { println(3); }`)
	assert.Empty(t, errs)
	top := stmts[0].(ast.IfStmt)
	assert.Len(t, top.Else, 1)
	nested, ok := top.Else[0].(ast.IfStmt)
	assert.True(t, ok)
	assert.Len(t, nested.Else, 1)
}

func TestWhileLoop(t *testing.T) {
	stmts, errs, _ := ParseProgram(`while lt(i, 3) { println(i); i += 1; }`)
	assert.Empty(t, errs)
	w := stmts[0].(ast.WhileStmt)
	assert.Len(t, w.Then, 2)
	aug := w.Then[1].(ast.AugAssignStmt)
	assert.Equal(t, "add", aug.Op)
}

func TestFuncDef(t *testing.T) {
	stmts, errs, _ := ParseProgram(`fn f(x: i32) -> i32 { return add(x, 1); }`)
	assert.Empty(t, errs)
	f := stmts[0].(ast.FuncDef)
	assert.Equal(t, "f", f.Name)
	assert.Len(t, f.Params, 1)
	assert.Equal(t, "i32", f.ReturnType.Name)
}

func TestStructLiteral(t *testing.T) {
	stmts, errs, _ := ParseProgram(`let p: Point = Point @ { x: 1, y: 2 };`)
	assert.Empty(t, errs)
	def := stmts[0].(ast.VarDef)
	lit := def.Init.(ast.StructLiteralExpr)
	assert.Equal(t, "Point", lit.Name)
	assert.Len(t, lit.Fields, 2)
}

func TestTernary(t *testing.T) {
	stmts, errs, _ := ParseProgram(`let x: i32 = a ? 1 : 2;`)
	assert.Empty(t, errs)
	def := stmts[0].(ast.VarDef)
	_, ok := def.Init.(ast.TernaryExpr)
	assert.True(t, ok)
}

func TestSyntaxErrorRecovers(t *testing.T) {
	_, errs, _ := ParseProgram(`let a: i32 = ; let b: i32 = 2;`)
	assert.NotEmpty(t, errs)
}
