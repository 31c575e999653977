package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glint-lang/glint/internal/value"
)

func TestAddIntegerIntegerIsInteger(t *testing.T) {
	v, err := stdAdd([]value.Value{value.NewInt(1), value.NewInt(2)})
	assert.NoError(t, err)
	assert.True(t, v.IsInt())
	assert.Equal(t, int64(3), v.Int())
}

func TestAddIntegerFloatIsFloat(t *testing.T) {
	v, err := stdAdd([]value.Value{value.NewInt(1), value.NewFloat(2.5)})
	assert.NoError(t, err)
	assert.True(t, v.IsFloat())
	assert.Equal(t, 3.5, v.Float())
}

func TestAddStringCoercesOtherSide(t *testing.T) {
	v, err := stdAdd([]value.Value{value.NewString("x"), value.NewInt(7)})
	assert.NoError(t, err)
	assert.Equal(t, "x7", v.Str())
}

func TestDivByZeroErrors(t *testing.T) {
	_, err := stdDiv([]value.Value{value.NewInt(1), value.NewInt(0)})
	assert.Error(t, err)
}

func TestEqualStructural(t *testing.T) {
	v, err := stdEqual([]value.Value{value.NewInt(3), value.NewInt(3)})
	assert.NoError(t, err)
	assert.True(t, v.Is(value.TRUE))
}

func TestLtGtLeqGeq(t *testing.T) {
	lt, _ := stdLt([]value.Value{value.NewInt(1), value.NewInt(2)})
	assert.True(t, lt.Is(value.TRUE))

	gt, _ := stdGt([]value.Value{value.NewInt(1), value.NewInt(2)})
	assert.True(t, gt.Is(value.FALSE))

	leq, _ := stdLeq([]value.Value{value.NewInt(2), value.NewInt(2)})
	assert.True(t, leq.Is(value.TRUE))

	geq, _ := stdGeq([]value.Value{value.NewInt(3), value.NewInt(2)})
	assert.True(t, geq.Is(value.TRUE))
}

func TestLookupClosedCatalog(t *testing.T) {
	_, ok := Lookup("add")
	assert.True(t, ok)
	_, ok = Lookup("frobnicate")
	assert.False(t, ok)
}

func TestArityErrors(t *testing.T) {
	_, err := stdAdd([]value.Value{value.NewInt(1)})
	assert.Error(t, err)
}
