package operator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityPropagator(t *testing.T) {
	p, err := NewIdentityPropagator(3, false)
	require.NoError(t, err)
	require.Equal(t, 6, p.LatentDim())

	z := []float64{1, 2, 3, 4, 5, 6}
	zs, err := p.Advance(z, 4)
	require.NoError(t, err)
	require.Len(t, zs, 4)
	for _, step := range zs {
		require.Equal(t, z, step)
	}
}

func TestDensePropagatorRealOnly(t *testing.T) {
	p, err := NewDensePropagator(3, true)
	require.NoError(t, err)
	require.Equal(t, 3, p.LatentDim())
	for i := 0; i < 3; i++ {
		p.KReal[i*3+i] = 0.5
	}

	zs, err := p.Advance([]float64{2, 4, 8}, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 4}, zs[0])
	require.Equal(t, []float64{0.5, 1, 2}, zs[1])
}

func TestDensePropagatorRotation(t *testing.T) {
	// K = i rotates the single complex coordinate a quarter turn per step.
	p, err := NewDensePropagator(1, false)
	require.NoError(t, err)
	p.KImag[0] = 1

	zs, err := p.Advance([]float64{1, 0}, 4)
	require.NoError(t, err)
	want := [][]float64{{0, 1}, {-1, 0}, {0, -1}, {1, 0}}
	for i := range want {
		for j := range want[i] {
			require.InDelta(t, want[i][j], zs[i][j], 1e-12)
		}
	}
}

func TestDensePropagatorStateless(t *testing.T) {
	p, err := NewDensePropagator(2, false)
	require.NoError(t, err)
	p.KReal[0], p.KReal[3] = 0.9, 0.8
	p.KImag[1] = 0.1

	z := []float64{1, -1, 0.5, 2}
	orig := append([]float64(nil), z...)
	first, err := p.Advance(z, 3)
	require.NoError(t, err)
	second, err := p.Advance(z, 3)
	require.NoError(t, err)

	require.Equal(t, orig, z, "input must not be mutated")
	require.Equal(t, first, second, "repeated calls must agree")
}

func TestDensePropagatorErrors(t *testing.T) {
	p, err := NewDensePropagator(2, false)
	require.NoError(t, err)

	_, err = p.Advance([]float64{1, 2, 3}, 1)
	assert.ErrorIs(t, err, ErrBadLatent)

	_, err = p.Advance([]float64{1, 2, 3, 4}, 0)
	assert.ErrorIs(t, err, ErrBadConfig)

	_, err = NewDensePropagator(0, false)
	assert.ErrorIs(t, err, ErrBadConfig)
}

func TestDiagonalPropagatorEigenvalues(t *testing.T) {
	p, err := NewDiagonalPropagator(2, false)
	require.NoError(t, err)

	// nu = log(log 2) gives modulus 1/2; theta = log(pi/2) a quarter turn.
	p.NuLog[0] = math.Log(math.Log(2))
	p.ThetaLog[0] = math.Log(math.Pi / 2)

	lambda := p.Eigenvalues()
	require.InDelta(t, 0, real(lambda[0]), 1e-12)
	require.InDelta(t, 0.5, imag(lambda[0]), 1e-12)

	// Zero parameters encode exp(-1 + i).
	require.InDelta(t, math.Exp(-1)*math.Cos(1), real(lambda[1]), 1e-12)
	require.InDelta(t, math.Exp(-1)*math.Sin(1), imag(lambda[1]), 1e-12)
}

func TestDiagonalPropagatorAdvance(t *testing.T) {
	p, err := NewDiagonalPropagator(1, false)
	require.NoError(t, err)
	p.NuLog[0] = math.Log(math.Log(2))
	p.ThetaLog[0] = math.Log(math.Pi / 2)

	// lambda = i/2: each step rotates a quarter turn and halves the modulus.
	zs, err := p.Advance([]float64{1, 0}, 2)
	require.NoError(t, err)
	require.InDelta(t, 0, zs[0][0], 1e-12)
	require.InDelta(t, 0.5, zs[0][1], 1e-12)
	require.InDelta(t, -0.25, zs[1][0], 1e-12)
	require.InDelta(t, 0, zs[1][1], 1e-12)
}

func TestDiagonalPropagatorContracts(t *testing.T) {
	// The exponential parameterization keeps every eigenvalue strictly
	// inside the unit circle, so the latent norm cannot grow.
	p, err := NewDiagonalPropagator(4, false)
	require.NoError(t, err)
	for i := range p.NuLog {
		p.NuLog[i] = float64(i-2) * 1.5
		p.ThetaLog[i] = float64(i) * 0.7
	}
	for _, l := range p.Eigenvalues() {
		require.Less(t, math.Hypot(real(l), imag(l)), 1.0)
	}

	z := []float64{1, -2, 3, -4, 5, -6, 7, -8}
	zs, err := p.Advance(z, 5)
	require.NoError(t, err)
	prev := math.Inf(1)
	for _, step := range zs {
		norm := 0.0
		for _, v := range step {
			norm += v * v
		}
		require.Less(t, norm, prev)
		prev = norm
	}
}

func TestDiagonalPropagatorRealOnly(t *testing.T) {
	p, err := NewDiagonalPropagator(3, true)
	require.NoError(t, err)
	require.Equal(t, 3, p.LatentDim())

	zs, err := p.Advance([]float64{1, 1, 1}, 1)
	require.NoError(t, err)
	require.Len(t, zs[0], 3)
	want := math.Exp(-1) * math.Cos(1)
	for _, v := range zs[0] {
		require.InDelta(t, want, v, 1e-12)
	}

	_, err = p.Advance([]float64{1, 1}, 1)
	assert.ErrorIs(t, err, ErrBadLatent)
}
