package foundation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_PushPop(t *testing.T) {
	v, err := NewVector[int](4)
	require.NoError(t, err)

	require.NoError(t, v.Push(1))
	require.NoError(t, v.Push(2))
	require.NoError(t, v.Push(3))
	assert.Equal(t, 3, v.Len())

	got, err := v.Pop()
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = v.Pop()
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, v.Len())
}

func TestVector_RejectsAtCapacity(t *testing.T) {
	v, err := NewVector[int](2)
	require.NoError(t, err)

	require.NoError(t, v.Push(1))
	require.NoError(t, v.Push(2))

	err = v.Push(3)
	assert.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 2, v.Len())
}

func TestVector_OverwriteOldest(t *testing.T) {
	v, err := NewVector[int](3)
	require.NoError(t, err)
	v.SetOverwrite(true)

	for i := 1; i <= 5; i++ {
		require.NoError(t, v.Push(i))
	}

	// Capacity never exceeded; the two oldest entries were recycled.
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, uint64(2), v.Overwritten())

	oldest, ok := v.At(0)
	require.True(t, ok)
	assert.Equal(t, 3, oldest)

	newest, ok := v.At(2)
	require.True(t, ok)
	assert.Equal(t, 5, newest)
}

func TestVector_PopEmpty(t *testing.T) {
	v, err := NewVector[int](2)
	require.NoError(t, err)

	_, err = v.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestVector_ZeroCapacity(t *testing.T) {
	_, err := NewVector[int](0)
	assert.ErrorIs(t, err, ErrZeroCapacity)
}

func TestVector_Clear(t *testing.T) {
	v, err := NewVector[int](2)
	require.NoError(t, err)
	require.NoError(t, v.Push(7))

	v.Clear()
	assert.Equal(t, 0, v.Len())
	require.NoError(t, v.Push(8))
	require.NoError(t, v.Push(9))
}
