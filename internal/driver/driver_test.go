package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunReturnsComputedValue(t *testing.T) {
	v, err := Run(`
		fn double(x: i32) -> i32 { return mul(x, 2); }
		return double(21);
	`)
	assert.NoError(t, err)
	assert.True(t, v.IsInt())
	assert.Equal(t, int64(42), v.Int())
}

func TestRunSurfacesLoweringErrorAsVariableError(t *testing.T) {
	_, err := Run(`let a: i32 = 1; let a: i32 = 2;`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "VariableError")
}

func TestRunSurfacesParseErrorAsParseError(t *testing.T) {
	_, err := Run(`let = 1;`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ParseError")
}

func TestParseListsOneLinePerInstruction(t *testing.T) {
	listing, err := Parse(`let a: i32 = 1;`)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimRight(listing, "\n"), "\n")
	assert.Len(t, lines, 3) // DefVar, Assign, end-of-block Destroy
	assert.Contains(t, lines[0], "DefVar")
}

func TestParseSurfacesLowerErrorWithoutRunning(t *testing.T) {
	_, err := Parse(`let a: i32 = 1; let a: i32 = 2;`)
	assert.Error(t, err)
}
