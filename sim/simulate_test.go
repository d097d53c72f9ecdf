package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_Shape(t *testing.T) {
	b, err := NewBandit(10, NewStream(50))
	require.NoError(t, err)

	for _, n := range []int{0, 1, 3, 50} {
		batch, err := Simulate(b, n)
		require.NoError(t, err)
		assert.Equal(t, 10, batch.Arms())
		assert.Equal(t, n, batch.Trials())
		for a := 0; a < batch.Arms(); a++ {
			assert.Len(t, batch.Row(a), n)
		}
		assert.Len(t, batch.Flatten(), 10*n)
	}
}

func TestSimulate_ZeroTrialsHasZeroMeans(t *testing.T) {
	b, err := NewBandit(4, NewStream(3))
	require.NoError(t, err)

	batch, err := Simulate(b, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, batch.Means())
	assert.Zero(t, batch.Sum())
}

func TestSimulate_NegativeTrials(t *testing.T) {
	b, err := NewBandit(4, NewStream(3))
	require.NoError(t, err)

	_, err = Simulate(b, -1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSimulate_RoundOrder(t *testing.T) {
	// Replaying the same stream by hand in trial-major order must
	// reproduce the batch exactly.
	means := []float64{-1, 0, 1}
	b, err := NewBanditWithMeans(means, NewStream(77))
	require.NoError(t, err)
	batch, err := Simulate(b, 4)
	require.NoError(t, err)

	ref, err := NewBanditWithMeans(means, NewStream(77))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		for a := 0; a < 3; a++ {
			r, err := ref.Play(a)
			require.NoError(t, err)
			assert.Equal(t, r, batch.At(a, i), "arm %d trial %d", a, i)
		}
	}
}

func TestSampleBatch_FlattenIsRowMajor(t *testing.T) {
	b, err := NewBanditWithMeans([]float64{0, 5}, NewStream(8))
	require.NoError(t, err)
	batch, err := Simulate(b, 3)
	require.NoError(t, err)

	flat := batch.Flatten()
	assert.Equal(t, batch.Row(0), flat[:3])
	assert.Equal(t, batch.Row(1), flat[3:])

	var sum float64
	for _, r := range flat {
		sum += r
	}
	assert.InDelta(t, sum, batch.Sum(), 1e-9)
}
