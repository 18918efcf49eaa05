package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChain() (parent, child *Hyperparameter) {
	parent = NewHyperparameter(nil)
	parent.Set("x", 1)
	parent.Set("y", 2)
	child = NewHyperparameter(parent)
	child.Set("y", 3)
	child.Set("z", 4)
	return parent, child
}

func TestHyperparameter_Get(t *testing.T) {
	parent, child := newTestChain()

	v, err := child.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = child.Get("y")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = child.Get("z")
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	// The parent is not shadowed by child overrides.
	v, err = parent.Get("y")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = parent.Get("z")
	assert.ErrorIs(t, err, ErrNoHyperparameter)
	_, err = child.Get("missing")
	assert.ErrorIs(t, err, ErrNoHyperparameter)
}

func TestHyperparameter_Has(t *testing.T) {
	parent, child := newTestChain()
	assert.True(t, child.Has("x"))
	assert.True(t, child.Has("z"))
	assert.False(t, parent.Has("z"))
	assert.False(t, child.Has("missing"))
}

func TestHyperparameter_GetFloat(t *testing.T) {
	h := NewHyperparameter(nil)
	h.Set("a", 1.5)
	h.Set("b", float32(2.5))
	h.Set("c", 3)
	h.Set("d", "nope")

	for name, want := range map[string]float64{"a": 1.5, "b": 2.5, "c": 3} {
		v, err := h.GetFloat(name)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	_, err := h.GetFloat("d")
	assert.Error(t, err)
	_, err = h.GetFloat("missing")
	assert.ErrorIs(t, err, ErrNoHyperparameter)
}

func TestHyperparameter_GetDict(t *testing.T) {
	parent, child := newTestChain()

	assert.Equal(t, map[string]any{"x": 1, "y": 2}, parent.GetDict())
	assert.Equal(t, map[string]any{"x": 1, "y": 3, "z": 4}, child.GetDict())
}

func TestHyperparameter_String(t *testing.T) {
	parent, child := newTestChain()
	assert.Equal(t, "Hyperparameter(x=1, y=2)", parent.String())
	assert.Equal(t, "Hyperparameter(x=1, y=3, z=4)", child.String())
	assert.Equal(t, []string{"x", "y", "z"}, child.Keys())
}

func TestHyperparameter_SetDoesNotTouchParent(t *testing.T) {
	parent, child := newTestChain()
	child.Set("x", 100)

	v, err := parent.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = child.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 100, v)
}

func TestHyperparameter_DeepCopy(t *testing.T) {
	parent, child := newTestChain()

	cp := child.DeepCopy()
	assert.NotSame(t, child, cp)
	assert.NotSame(t, parent, cp.Parent())
	assert.Equal(t, child.GetDict(), cp.GetDict())

	// Copies are fully detached.
	cp.Set("y", 99)
	v, err := child.Get("y")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestDeepCopyAll_PreservesSharedAncestors(t *testing.T) {
	parent, child := newTestChain()
	sibling := NewHyperparameter(parent)
	sibling.Set("w", 5)

	copies := DeepCopyAll(parent, child, sibling)
	require.Len(t, copies, 3)

	// Both copied children point at the copied parent, not the original.
	assert.Same(t, copies[0], copies[1].Parent())
	assert.Same(t, copies[0], copies[2].Parent())
	assert.NotSame(t, parent, copies[0])

	// Mutating the copied parent is visible through both copied children
	// and invisible to the originals.
	copies[0].Set("x", 42)
	v, err := copies[1].Get("x")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	v, err = child.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
