package operator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomField1D(rnd *rand.Rand, w, c int) Field {
	f := NewField(w, c)
	for i := range f.Data {
		f.Data[i] = rnd.NormFloat64()
	}
	return f
}

func TestSpectralConv1DZeroWeights(t *testing.T) {
	l, err := NewSpectralConv1D(2, 3, 8, 32, false)
	require.NoError(t, err)

	out, err := l.Apply(randomField1D(rand.New(rand.NewSource(1)), 32, 2))
	require.NoError(t, err)
	require.Equal(t, []int{32, 3}, out.Shape)
	for i, v := range out.Data {
		require.Zerof(t, v, "index %d", i)
	}
}

func TestSpectralConv1DDCModeIdentity(t *testing.T) {
	// With circular convolution, an identity weight on the zero-frequency
	// mode and zeros elsewhere passes a constant field through unchanged.
	l, err := NewSpectralConv1D(1, 1, 4, 16, true)
	require.NoError(t, err)
	l.Weight.Set(0, 0, 0, complex(1, 0))

	x := NewField(16, 1)
	for i := range x.Data {
		x.Data[i] = 3.25
	}
	out, err := l.Apply(x)
	require.NoError(t, err)
	for i := range out.Data {
		require.InDelta(t, 3.25, out.Data[i], 1e-10, "position %d", i)
	}
}

func TestSpectralConv1DLinearity(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	x := randomField1D(rnd, 24, 2)

	l1, err := NewSpectralConv1D(2, 2, 10, 24, false)
	require.NoError(t, err)
	l1.Randomize(rnd)
	l2, err := NewSpectralConv1D(2, 2, 10, 24, false)
	require.NoError(t, err)
	l2.Randomize(rnd)

	y1, err := l1.Apply(x)
	require.NoError(t, err)
	y2, err := l2.Apply(x)
	require.NoError(t, err)

	// Scaling the weight scales the output.
	scaled := *l1
	scaled.Weight = l1.Weight.Scaled(2.5)
	ys, err := scaled.Apply(x)
	require.NoError(t, err)
	for i := range ys.Data {
		require.InDelta(t, 2.5*y1.Data[i], ys.Data[i], 1e-10)
	}

	// Summing two weight sets sums the outputs.
	summed := *l1
	w, err := l1.Weight.AddedTo(l2.Weight)
	require.NoError(t, err)
	summed.Weight = w
	ya, err := summed.Apply(x)
	require.NoError(t, err)
	for i := range ya.Data {
		require.InDelta(t, y1.Data[i]+y2.Data[i], ya.Data[i], 1e-10)
	}
}

func TestSpectralConv1DShapeMismatch(t *testing.T) {
	l, err := NewSpectralConv1D(1, 1, 4, 16, false)
	require.NoError(t, err)

	_, err = l.Apply(NewField(15, 1))
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = l.Apply(NewField(16, 2))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSpectralConv1DModeBound(t *testing.T) {
	// Padded width 16 holds 16 bins; 17 modes must be rejected eagerly.
	_, err := NewSpectralConv1D(1, 1, 17, 16, false)
	assert.ErrorIs(t, err, ErrBadModes)

	// Circular width 16 holds only 9 bins.
	_, err = NewSpectralConv1D(1, 1, 10, 16, true)
	assert.ErrorIs(t, err, ErrBadModes)
	_, err = NewSpectralConv1D(1, 1, 9, 16, true)
	assert.NoError(t, err)
}
