package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glint-lang/glint/internal/types"
)

func TestRegisterAssignsMonotonicIDs(t *testing.T) {
	r := New()
	id0 := r.Register(Function{ReturnType: types.Unit})
	id1 := r.Register(Function{ReturnType: types.Unit})
	assert.Equal(t, 0, id0)
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, r.Len())
}

func TestGetUnknownIDFails(t *testing.T) {
	r := New()
	_, ok := r.Get(5)
	assert.False(t, ok)
}

func TestGlobalIsASingleton(t *testing.T) {
	assert.Same(t, Global(), Global())
}
