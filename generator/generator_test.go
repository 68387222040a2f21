package generator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussianSample(t *testing.T) {
	g := NewGaussian(101)
	require.InDelta(t, 0.01, g.DX, 1e-12)

	y := g.Sample(0.5, 0.05)
	require.Len(t, y, 101)
	require.InDelta(t, 1, y[50], 1e-12)
	// Symmetric around the mean.
	for i := 0; i < 50; i++ {
		require.InDelta(t, y[100-i], y[i], 1e-9)
	}

	// Width narrower than a grid step is clamped, not a spike.
	narrow := g.Sample(0.5, 1e-6)
	require.Greater(t, narrow[49], 1e-10)
}

func TestGaussianDrawRange(t *testing.T) {
	g := NewGaussian(64)
	rnd := rand.New(rand.NewSource(41))
	for trial := 0; trial < 10; trial++ {
		y := g.Draw(rnd)
		require.Len(t, y, 64)
		peak, arg := 0.0, 0
		for i, v := range y {
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
			if v > peak {
				peak, arg = v, i
			}
		}
		// Bump center stays inside the interior band.
		require.Greater(t, g.X[arg], 0.25)
		require.Less(t, g.X[arg], 0.75)
	}
}

func TestNoiseBounds(t *testing.T) {
	n := &Noise{N: 100, Low: -0.5, High: 0.5}
	y := n.Draw(rand.New(rand.NewSource(42)))
	require.Len(t, y, 100)
	for _, v := range y {
		require.GreaterOrEqual(t, v, -0.5)
		require.Less(t, v, 0.5)
	}
}

func TestNoiseBurstLocalized(t *testing.T) {
	b := NewNoiseBurst(128)
	y := b.Draw(rand.New(rand.NewSource(43)))
	require.Len(t, y, 128)
	// The envelope pins the boundary samples to nearly zero.
	require.Less(t, math.Abs(y[0]), 1e-3)
	require.Less(t, math.Abs(y[127]), 1e-3)
}

func TestSineMode(t *testing.T) {
	s, err := NewSineMode(101, 2)
	require.NoError(t, err)
	y := s.Draw(nil)
	require.Len(t, y, 101)
	require.InDelta(t, 0, y[0], 1e-12)
	require.InDelta(t, 0, y[50], 1e-9) // node of the second mode
	require.InDelta(t, 1, y[25], 1e-9)

	_, err = NewSineMode(101, 0)
	assert.Error(t, err)
}

func TestGaussian2D(t *testing.T) {
	g := NewGaussian2D(11, 1.0)
	require.Equal(t, 11, g.NY)

	f := g.Sample(0.5, 0.5, 0.2)
	require.Equal(t, []int{11, 11, 1}, f.Shape)
	require.InDelta(t, 1, f.Data[5*11+5], 1e-12)
	require.Less(t, f.Data[0], f.Data[5*11+5])

	out := g.Draw(rand.New(rand.NewSource(44)))
	require.Equal(t, []int{11, 11, 1}, out.Shape)
}

func TestPluckHammer(t *testing.T) {
	y := []float64{0.1, 0.2, 0.3}

	pos, vel, err := PluckHammer(y, "pluck")
	require.NoError(t, err)
	require.Equal(t, y, pos)
	require.Equal(t, []float64{0, 0, 0}, vel)

	pos, vel, err = PluckHammer(y, "hammer")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0}, pos)
	require.Equal(t, y, vel)

	_, _, err = PluckHammer(y, "strike")
	assert.ErrorIs(t, err, ErrBadICType)
}

func TestRandomInitialCondition(t *testing.T) {
	rnd := rand.New(rand.NewSource(45))
	pos, vel, err := RandomInitialCondition(rnd, NewGaussian(64), ICConfig{
		Type:         "pluck",
		MaxAmplitude: 2,
	})
	require.NoError(t, err)
	peak := 0.0
	for _, v := range pos {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	require.InDelta(t, 2, peak, 1e-12)
	for _, v := range vel {
		require.Zero(t, v)
	}

	_, _, err = RandomInitialCondition(rnd, NewGaussian(64), ICConfig{
		Type:            "pluck",
		MaxAmplitude:    1,
		MinAmplitude:    1,
		RandomAmplitude: true,
	})
	assert.Error(t, err)
}

func TestRaisedCosine(t *testing.T) {
	y := RaisedCosine(0.03, 0.28, 0.1, 1.0, 101)
	require.Len(t, y, 101)
	require.InDelta(t, 0.03, y[28], 1e-9)
	// Support is limited to the excitation width.
	require.Zero(t, y[0])
	require.Zero(t, y[100])
	for _, v := range y {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 0.03+1e-12)
	}
}

func TestBandLimit(t *testing.T) {
	const n = 64
	y := make([]float64, n)
	low := make([]float64, n)
	for i := range y {
		low[i] = math.Sin(2 * math.Pi * 2 * float64(i) / n)
		y[i] = low[i] + math.Sin(2*math.Pi*20*float64(i)/n)
	}
	got := BandLimit(y, 5)
	require.Len(t, got, n)
	for i := range got {
		require.InDelta(t, low[i], got[i], 1e-9)
	}
}
