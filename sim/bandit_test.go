package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBandit_MeansAreFinite(t *testing.T) {
	for _, k := range []int{1, 2, 10, 100} {
		b, err := NewBandit(k, NewStream(50))
		require.NoError(t, err)
		assert.Equal(t, k, b.Arms())

		means := b.Means()
		require.Len(t, means, k)
		for _, m := range means {
			assert.False(t, math.IsNaN(m) || math.IsInf(m, 0), "mean %v should be finite", m)
		}
	}
}

func TestNewBandit_InvalidParameters(t *testing.T) {
	_, err := NewBandit(0, NewStream(1))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewBandit(-3, NewStream(1))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewBandit(3, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewBanditWithMeans(nil, NewStream(1))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewBanditWithMeans([]float64{0, math.NaN()}, NewStream(1))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewBanditWithMeans([]float64{math.Inf(1)}, NewStream(1))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestBandit_PlayRejectsOutOfRangeArm(t *testing.T) {
	b, err := NewBandit(4, NewStream(7))
	require.NoError(t, err)

	for _, a := range []int{-1, 4, 100} {
		_, err := b.Play(a)
		assert.ErrorIs(t, err, ErrInvalidArmIndex, "arm %d", a)
	}
}

func TestBandit_MeansAreImmutable(t *testing.T) {
	b, err := NewBanditWithMeans([]float64{1, 2, 3}, NewStream(7))
	require.NoError(t, err)

	m := b.Means()
	m[0] = 100
	assert.Equal(t, []float64{1, 2, 3}, b.Means())

	for i := 0; i < 50; i++ {
		_, err := b.Play(i % 3)
		require.NoError(t, err)
	}
	assert.Equal(t, []float64{1, 2, 3}, b.Means(), "playing must not resample means")
}

func TestBandit_EmpiricalMeanConverges(t *testing.T) {
	b, err := NewBandit(5, NewStream(50))
	require.NoError(t, err)

	const n = 200000
	for a, want := range b.Means() {
		var sum float64
		for i := 0; i < n; i++ {
			r, err := b.Play(a)
			require.NoError(t, err)
			sum += r
		}
		// Standard error is 1/sqrt(n) ~ 0.0022; allow a wide margin.
		assert.InDelta(t, want, sum/n, 0.02, "arm %d", a)
	}
}

func TestBandit_BestArmLowestIndexOnTies(t *testing.T) {
	b, err := NewBanditWithMeans([]float64{0.5, 2, -1, 2}, NewStream(1))
	require.NoError(t, err)
	assert.Equal(t, 1, b.BestArm())
	assert.Equal(t, 2.0, b.BestMean())
}

func TestBandit_WithStreamSharesMeans(t *testing.T) {
	b, err := NewBandit(6, NewStream(11))
	require.NoError(t, err)

	view := b.WithStream(NewStream(99))
	assert.Equal(t, b.Means(), view.Means())
	assert.Equal(t, b.Arms(), view.Arms())
}

func TestBandit_SameSeedSameRewards(t *testing.T) {
	play := func() []float64 {
		b, err := NewBandit(3, NewStream(123))
		require.NoError(t, err)
		out := make([]float64, 30)
		for i := range out {
			out[i], err = b.Play(i % 3)
			require.NoError(t, err)
		}
		return out
	}
	assert.Equal(t, play(), play())
}

func TestDeriveSeed(t *testing.T) {
	assert.Equal(t, DeriveSeed(42, 1, 2), DeriveSeed(42, 1, 2))
	assert.NotEqual(t, DeriveSeed(42, 1, 2), DeriveSeed(42, 2, 1))
	assert.NotEqual(t, DeriveSeed(42, 0), DeriveSeed(43, 0))
	assert.NotZero(t, DeriveSeed(0))
}
