package usecase_test

import (
	"testing"

	"karaoke-browser/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialPool(t *testing.T) {
	pool, err := usecase.NewCredentialPool([]string{" K1 ", "", "K2", "  "})
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Size())
	assert.Equal(t, "K1", pool.Key(0))
	assert.Equal(t, "K2", pool.Key(1))

	_, err = usecase.NewCredentialPool([]string{"", " "})
	assert.ErrorIs(t, err, usecase.ErrEmptyCredentialPool)
}

func TestAdvance_StaysInRangeAndCycles(t *testing.T) {
	for n := 1; n <= 5; n++ {
		keys := make([]string, n)
		for i := range keys {
			keys[i] = "K"
		}
		pool, err := usecase.NewCredentialPool(keys)
		require.NoError(t, err)

		for start := 0; start < n; start++ {
			idx := start
			for step := 0; step < n; step++ {
				idx = pool.Advance(idx)
				assert.GreaterOrEqual(t, idx, 0)
				assert.Less(t, idx, n)
			}
			assert.Equal(t, start, idx, "pool size %d start %d", n, start)
		}
	}
}

func TestRotationState_Rotate(t *testing.T) {
	pool, err := usecase.NewCredentialPool([]string{"K1", "K2", "K3"})
	require.NoError(t, err)
	state := usecase.NewRotationState(pool)

	assert.Equal(t, 1, state.Rotate(0))
	status := state.Status()
	assert.Equal(t, 1, status.CurrentIndex)
	assert.Equal(t, 3, status.PoolSize)
	assert.EqualValues(t, 1, status.Rotations)

	// A second chain that also failed on index 0 must not move the index again.
	assert.Equal(t, 1, state.Rotate(0))
	assert.Equal(t, 1, state.Current())
	assert.EqualValues(t, 1, state.Status().Rotations)

	assert.Equal(t, 2, state.Rotate(1))
	assert.Equal(t, 0, state.Rotate(2))
	assert.Equal(t, 0, state.Current())
	assert.EqualValues(t, 3, state.Status().Rotations)
}
