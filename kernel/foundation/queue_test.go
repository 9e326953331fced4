package foundation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_FIFOOrder(t *testing.T) {
	r, err := NewRing[string](4)
	require.NoError(t, err)

	require.NoError(t, r.Enqueue("a"))
	require.NoError(t, r.Enqueue("b"))
	require.NoError(t, r.Enqueue("c"))

	got, err := r.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	require.NoError(t, r.Enqueue("d"))
	require.NoError(t, r.Enqueue("e")) // wraps around the buffer

	want := []string{"b", "c", "d", "e"}
	for _, w := range want {
		got, err := r.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}

	_, err = r.Dequeue()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRing_FullDropsAndCounts(t *testing.T) {
	r, err := NewRing[int](2)
	require.NoError(t, err)

	require.NoError(t, r.Enqueue(1))
	require.NoError(t, r.Enqueue(2))
	assert.ErrorIs(t, r.Enqueue(3), ErrFull)

	st := r.GetStats()
	assert.Equal(t, uint64(2), st.Enqueued)
	assert.Equal(t, uint64(1), st.Dropped)
	assert.Equal(t, 2, st.MaxDepth)
}

func TestRing_Clear(t *testing.T) {
	r, err := NewRing[int](3)
	require.NoError(t, err)
	require.NoError(t, r.Enqueue(1))
	require.NoError(t, r.Enqueue(2))

	r.Clear()
	assert.Equal(t, 0, r.Len())
	_, ok := r.Peek()
	assert.False(t, ok)

	// Backing array is reused, capacity unchanged.
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Enqueue(i))
	}
	assert.Equal(t, 3, r.Len())
}
