package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveHanoi_MoveCounts(t *testing.T) {
	// 2^n - 1 moves, always, with the event chain standing in for the call
	// stack.
	for _, disks := range []int{1, 2, 3, 7, 10} {
		res, err := SolveHanoi(disks, nil)
		require.NoError(t, err)
		assert.Equal(t, uint64(1<<disks-1), res.Moves, "disks=%d", disks)
	}
}

func TestSolveHanoi_EventAccounting(t *testing.T) {
	// Tasks form a full binary tree (2^n - 1 nodes) and every move is its
	// own event: 2^(n+1) - 2 dispatches in total.
	res, err := SolveHanoi(8, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<9-2), res.EventsProcessed)
}

func TestSolveHanoi_MemoryFixedAcrossDepth(t *testing.T) {
	// Same pool configuration, wildly different recursion depth: identical
	// footprint.
	shallow, err := SolveHanoi(3, nil)
	require.NoError(t, err)
	deep, err := SolveHanoi(10, nil)
	require.NoError(t, err)
	assert.Equal(t, shallow.MemoryUsed, deep.MemoryUsed)
}

func TestSolveHanoi_InvalidInput(t *testing.T) {
	_, err := SolveHanoi(0, nil)
	assert.Error(t, err)
	_, err = SolveHanoi(21, nil)
	assert.Error(t, err)
}
