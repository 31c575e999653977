package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glint-lang/glint/internal/token"
)

func TestStackOperandDisplaysAsDollarZero(t *testing.T) {
	assert.Equal(t, "$0", Stack().String())
}

func TestOperandDisplay(t *testing.T) {
	assert.Equal(t, "true", True().String())
	assert.Equal(t, "42", Integer("42").String())
	assert.Equal(t, "x", Var("x").String())
}

func TestInstructionStringPadsMnemonic(t *testing.T) {
	ins := NewPush(token.Position{}, Integer("1"))
	s := ins.String()
	assert.Equal(t, "Push      1", s)
}

func TestGotoDisplay(t *testing.T) {
	ins := NewGoto(token.Position{}, 7)
	assert.Equal(t, "Goto      7", ins.String())
}

func TestCallDisplay(t *testing.T) {
	ins := NewCall(token.Position{}, Var("add"), 2)
	assert.Equal(t, "Call      add, 2", ins.String())
}
