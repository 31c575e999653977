package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glint-lang/glint/internal/lower"
	"github.com/glint-lang/glint/internal/parser"
	"github.com/glint-lang/glint/internal/registry"
	"github.com/glint-lang/glint/internal/scope"
	"github.com/glint-lang/glint/internal/types"
	"github.com/glint-lang/glint/internal/value"
)

// run lexes, parses, lowers, and executes source as the top-level
// program (registered as a zero-argument function, mirroring the
// reference implementation's "wrap the top level as __main__" shape).
func run(t *testing.T, source string) (value.Value, error) {
	t.Helper()
	stmts, errs, scanErrs := parser.ParseProgram(source)
	assert.Empty(t, errs)
	assert.Empty(t, scanErrs)

	reg := registry.New()
	lw := lower.New(reg)
	code, err := lw.Program(stmts)
	assert.NoError(t, err)

	mainID := reg.Register(registry.Function{ReturnType: types.Unit, Code: code})
	rt, err := New(nil, reg, mainID, nil)
	assert.NoError(t, err)
	return rt.Run()
}

func TestVarDefAndAssignRoundTrip(t *testing.T) {
	_, err := run(t, `let a: i32 = 1; a = 2;`)
	assert.NoError(t, err)
}

func TestIfBranchesExecuteCorrectSide(t *testing.T) {
	v, err := run(t, `
		let taken: i32 = 0;
		if true { taken = 1; } else { taken = 2; }
		return taken;
	`)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), v.Int())
}

func TestWhileLoopTerminates(t *testing.T) {
	_, err := run(t, `
		let i: i32 = 0;
		while lt(i, 3) { i += 1; }
	`)
	assert.NoError(t, err)
}

func TestFunctionCallReturnsValue(t *testing.T) {
	v, err := run(t, `
		fn double(x: i32) -> i32 { return mul(x, 2); }
		return double(21);
	`)
	assert.NoError(t, err)
	assert.True(t, v.IsInt())
	assert.Equal(t, int64(42), v.Int())
}

func TestStructLiteralAndDotAccess(t *testing.T) {
	v, err := run(t, `
		let p: Point = Point @ { x: 1, y: 2 };
		return p.x;
	`)
	assert.NoError(t, err)
	assert.True(t, v.IsInt())
	assert.Equal(t, int64(1), v.Int())
}

func TestStructFieldAssignmentMutatesInPlace(t *testing.T) {
	v, err := run(t, `
		let p: Point = Point @ { x: 1, y: 2 };
		p.x = 99;
		return p.x;
	`)
	assert.NoError(t, err)
	assert.Equal(t, int64(99), v.Int())
}

func TestCallingUndefinedFunctionIsVariableError(t *testing.T) {
	_, err := run(t, `ghost(1);`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "VariableError")
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `div(1, 0);`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RuntimeError")
}

func TestUndefinedVariableIsVariableError(t *testing.T) {
	_, err := run(t, `ghost = 1;`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "VariableError")
}

func TestNestedScopesDoNotLeakAcrossCalls(t *testing.T) {
	// A fresh Scope per call reads through to its parent, but a variable
	// defined inside one call is not visible from a sibling call.
	root := scope.New()
	root.DefineVariable("g", value.NewInt(7))
	child := scope.Child(root)
	v, ok := child.GetVariable("g")
	assert.True(t, ok)
	assert.Equal(t, int64(7), v.Int())

	child.DefineVariable("local", value.NewInt(1))
	sibling := scope.Child(root)
	_, ok = sibling.GetVariable("local")
	assert.False(t, ok)
}
