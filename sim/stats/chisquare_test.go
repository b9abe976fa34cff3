package stats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChiSquareUniform_PerfectlyUniform(t *testing.T) {
	stat, p, err := ChiSquareUniform([]int{100, 100, 100, 100})
	require.NoError(t, err)
	assert.Equal(t, 0.0, stat)
	assert.InDelta(t, 1.0, p, 1e-12)
}

func TestChiSquareUniform_SkewedRejected(t *testing.T) {
	stat, p, err := ChiSquareUniform([]int{400, 0, 0, 0})
	require.NoError(t, err)
	// expected 100 each: (300²/100) + 3*(100²/100) = 900 + 300
	assert.InDelta(t, 1200.0, stat, 1e-9)
	assert.Less(t, p, 1e-6)
}

func TestChiSquareUniform_KnownValue(t *testing.T) {
	// expected 50 each: (10² + 10²)/50 = 4 with 1 dof → p ≈ 0.0455
	stat, p, err := ChiSquareUniform([]int{60, 40})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stat, 1e-12)
	assert.InDelta(t, 0.0455, p, 1e-3)
}

func TestChiSquareUniform_InsufficientData(t *testing.T) {
	_, _, err := ChiSquareUniform([]int{5})
	assert.True(t, errors.Is(err, ErrInsufficientData))
	_, _, err = ChiSquareUniform([]int{0, 0, 0})
	assert.True(t, errors.Is(err, ErrInsufficientData))
}
