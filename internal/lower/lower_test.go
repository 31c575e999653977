package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glint-lang/glint/internal/opcode"
	"github.com/glint-lang/glint/internal/parser"
	"github.com/glint-lang/glint/internal/registry"
)

func mustLower(t *testing.T, source string) []opcode.Instruction {
	t.Helper()
	stmts, errs, scanErrs := parser.ParseProgram(source)
	assert.Empty(t, errs)
	assert.Empty(t, scanErrs)
	lw := New(registry.New())
	code, err := lw.Program(stmts)
	assert.NoError(t, err)
	return code
}

func TestVarDefEmitsDefVarThenAssign(t *testing.T) {
	code := mustLower(t, `let a: i32 = 1;`)
	assert.Equal(t, opcode.DefVar, code[0].Op)
	assert.Equal(t, opcode.Assign, code[1].Op)
	// end of block: Destroy for "a"
	assert.Equal(t, opcode.Destroy, code[len(code)-1].Op)
	assert.Equal(t, "a", code[len(code)-1].Name)
}

func TestDuplicateVariableInSameBlockErrors(t *testing.T) {
	stmts, errs, _ := parser.ParseProgram(`let a: i32 = 1; let a: i32 = 2;`)
	assert.Empty(t, errs)
	lw := New(registry.New())
	_, err := lw.Program(stmts)
	assert.Error(t, err)
}

func TestDuplicateAcrossNestedBlocksIsFine(t *testing.T) {
	stmts, errs, _ := parser.ParseProgram(`let a: i32 = 1; if a { let a: i32 = 2; }`)
	assert.Empty(t, errs)
	lw := New(registry.New())
	_, err := lw.Program(stmts)
	assert.NoError(t, err)
}

func TestSimpleAssignUsesOperandsDirectly(t *testing.T) {
	// "a = b" with both sides simple idents: no Push instructions, just Assign.
	code := mustLower(t, `let a: i32 = 1; let b: i32 = 2; a = b;`)
	var assigns int
	for _, ins := range code {
		if ins.Op == opcode.Assign {
			assigns++
		}
	}
	assert.Equal(t, 3, assigns) // two VarDef initializers + one bare assign
}

func TestComplexAssignPushesValue(t *testing.T) {
	// "a = add(b, c)" right side is complex -> a Call then Assign(var, $0)
	code := mustLower(t, `let a: i32 = 0; let b: i32 = 1; let c: i32 = 2; a = add(b, c);`)
	foundCall := false
	for _, ins := range code {
		if ins.Op == opcode.Call {
			foundCall = true
		}
	}
	assert.True(t, foundCall)
}

func TestAugAssignEmitsCallAndAssign(t *testing.T) {
	code := mustLower(t, `let i: i32 = 0; i += 1;`)
	var sawCall, sawAssignFromStack bool
	for _, ins := range code {
		if ins.Op == opcode.Call {
			sawCall = true
		}
		if ins.Op == opcode.Assign && ins.B.IsStack() {
			sawAssignFromStack = true
		}
	}
	assert.True(t, sawCall)
	assert.True(t, sawAssignFromStack)
}

func TestIfWithoutElseAddressing(t *testing.T) {
	code := mustLower(t, `if true { println(1); }`)
	var ifIns *opcode.Instruction
	for i := range code {
		if code[i].Op == opcode.If {
			ifIns = &code[i]
			break
		}
	}
	assert.NotNil(t, ifIns)
	assert.Equal(t, len(code), ifIns.Addr)
}

func TestIfElseGotoSkipsElseBlock(t *testing.T) {
	code := mustLower(t, `if true { println(1); } else { println(2); }`)
	var gotoIns *opcode.Instruction
	for i := range code {
		if code[i].Op == opcode.Goto {
			gotoIns = &code[i]
			break
		}
	}
	assert.NotNil(t, gotoIns)
	assert.Equal(t, len(code), gotoIns.Addr)
}

func TestWhileBreakContinueResolveToGoto(t *testing.T) {
	code := mustLower(t, `while true { break; continue; }`)
	for _, ins := range code {
		assert.NotEqual(t, opcode.Break, ins.Op)
		assert.NotEqual(t, opcode.Continue, ins.Op)
	}
}

func TestFuncDefRegistersBodyAndEmitsDefFunc(t *testing.T) {
	stmts, errs, _ := parser.ParseProgram(`fn f(x: i32) -> i32 { return x; }`)
	assert.Empty(t, errs)
	reg := registry.New()
	lw := New(reg)
	code, err := lw.Program(stmts)
	assert.NoError(t, err)
	assert.Equal(t, opcode.DefFunc, code[0].Op)
	assert.Equal(t, 1, reg.Len())
	fn, ok := reg.Get(0)
	assert.True(t, ok)
	assert.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
}

func TestStructLiteralSortsFieldsAndCountsThem(t *testing.T) {
	stmts, errs, _ := parser.ParseProgram(`let p: Point = Point @ { y: 2, x: 1 };`)
	assert.Empty(t, errs)
	lw := New(registry.New())
	code, err := lw.Program(stmts)
	assert.NoError(t, err)
	var structIns *opcode.Instruction
	for i := range code {
		if code[i].Op == opcode.Struct {
			structIns = &code[i]
		}
	}
	assert.NotNil(t, structIns)
	assert.Equal(t, 2, structIns.Count)
	assert.Equal(t, "Point", structIns.Name)
	assert.Equal(t, []string{"x", "y"}, structIns.Fields)
}

func TestAndOrShortCircuitAddressing(t *testing.T) {
	code := mustLower(t, `let x: bool = a && b;`)
	var sawIf bool
	for _, ins := range code {
		if ins.Op == opcode.If {
			sawIf = true
		}
	}
	assert.True(t, sawIf)
	// DefVar(0), If a->4 (1), Push b (2), Goto 5 (3), Push false (4), Assign (5)
	assert.Equal(t, 4, code[1].Addr)
	assert.Equal(t, 5, code[3].Addr)
	assert.Equal(t, opcode.OpFalse, code[4].A.Kind)

	// Or mirrors And with IfNot jumping to a Push(true) sentinel.
	code = mustLower(t, `let y: bool = a || b;`)
	assert.Equal(t, opcode.IfNot, code[1].Op)
	assert.Equal(t, 4, code[1].Addr)
	assert.Equal(t, opcode.OpTrue, code[4].A.Kind)
}

func TestTypeDefAndForAreNoOps(t *testing.T) {
	code := mustLower(t, `type Foo = i32; for x in a { println(x); }`)
	assert.Empty(t, code)
}
