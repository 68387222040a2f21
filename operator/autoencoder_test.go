package operator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityAutoencoder pairs a full-spectrum encoder/decoder with an identity
// propagator, so Forward reproduces the seed field at every step.
func identityAutoencoder(t *testing.T, nSteps int) *KoopmanAutoencoder {
	t.Helper()
	enc, err := NewFourierEncoder1D(33, 1, 33)
	require.NoError(t, err)
	dec, err := NewFourierDecoder1D(33, 1, 33)
	require.NoError(t, err)
	dyn, err := NewIdentityPropagator(33, false)
	require.NoError(t, err)
	m, err := NewKoopmanAutoencoder(enc, dyn, dec, nSteps)
	require.NoError(t, err)
	return m
}

func TestKoopmanAutoencoderForward(t *testing.T) {
	m := identityAutoencoder(t, 3)
	x := randomField1D(rand.New(rand.NewSource(21)), 33, 1)

	out, err := m.Forward(Trajectory{x})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, f := range out {
		require.Equal(t, x.Shape, f.Shape)
		require.Less(t, MaxAbsDiff(x.Data, f.Data), 1e-9)
	}
}

func TestKoopmanAutoencoderSeedsFromFirstStep(t *testing.T) {
	m := identityAutoencoder(t, 2)
	rnd := rand.New(rand.NewSource(22))
	first := randomField1D(rnd, 33, 1)
	second := randomField1D(rnd, 33, 1)

	out, err := m.Forward(Trajectory{first, second})
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, f := range out {
		require.Less(t, MaxAbsDiff(first.Data, f.Data), 1e-9)
	}

	_, err = m.Forward(Trajectory{})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestKoopmanAutoencoderStageMethods(t *testing.T) {
	m := identityAutoencoder(t, 2)
	x := randomField1D(rand.New(rand.NewSource(23)), 33, 1)

	z, err := m.Encode(x)
	require.NoError(t, err)
	require.Len(t, z, 66)

	zs, err := m.Advance(z)
	require.NoError(t, err)
	require.Len(t, zs, 2)
	require.Equal(t, z, zs[1])

	back, err := m.Decode(zs[1])
	require.NoError(t, err)
	require.Less(t, MaxAbsDiff(x.Data, back.Data), 1e-9)
}

func TestKoopmanAutoencoderLatentMismatch(t *testing.T) {
	enc, err := NewFourierEncoder1D(33, 1, 33)
	require.NoError(t, err)
	dec, err := NewFourierDecoder1D(33, 1, 33)
	require.NoError(t, err)

	small, err := NewIdentityPropagator(10, false)
	require.NoError(t, err)
	_, err = NewKoopmanAutoencoder(enc, small, dec, 2)
	assert.ErrorIs(t, err, ErrBadLatent)

	dyn, err := NewIdentityPropagator(33, false)
	require.NoError(t, err)
	narrow, err := NewFourierDecoder1D(33, 1, 16)
	require.NoError(t, err)
	_, err = NewKoopmanAutoencoder(enc, dyn, narrow, 2)
	assert.ErrorIs(t, err, ErrBadLatent)

	_, err = NewKoopmanAutoencoder(enc, dyn, dec, 0)
	assert.ErrorIs(t, err, ErrBadConfig)
}

func TestKoopmanAutoencoderBatch(t *testing.T) {
	m := identityAutoencoder(t, 2)
	rnd := rand.New(rand.NewSource(24))
	xs := []Trajectory{
		{randomField1D(rnd, 33, 1)},
		{randomField1D(rnd, 33, 1)},
		{randomField1D(rnd, 33, 1)},
	}

	got, err := m.ForwardBatch(xs)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range xs {
		want, err := m.Forward(xs[i])
		require.NoError(t, err)
		for s := range want {
			assert.Equal(t, want[s].Data, got[i][s].Data)
		}
	}

	fields := []Field{xs[0][0], xs[1][0]}
	zs, err := m.EncodeBatch(fields)
	require.NoError(t, err)
	require.Len(t, zs, 2)

	trajs, err := m.AdvanceBatch(zs)
	require.NoError(t, err)
	require.Len(t, trajs, 2)

	back, err := m.DecodeBatch(zs)
	require.NoError(t, err)
	for i := range fields {
		require.Less(t, MaxAbsDiff(fields[i].Data, back[i].Data), 1e-9)
	}
}

func TestKoopmanAutoencoderFourier2D(t *testing.T) {
	// Full-spectrum 2D encoder/decoder with identity dynamics reproduces
	// the seed field at every rollout step.
	enc, err := NewFourierEncoder2D(3, 5, 1, 5)
	require.NoError(t, err)
	dec, err := NewFourierDecoder2D(3, 5, 1, 5)
	require.NoError(t, err)
	dyn, err := NewIdentityPropagator(25, false)
	require.NoError(t, err)
	m, err := NewKoopmanAutoencoder(enc, dyn, dec, 4)
	require.NoError(t, err)

	x := randomField2D(rand.New(rand.NewSource(26)), 3, 5, 1)
	out, err := m.Forward(Trajectory{x})
	require.NoError(t, err)
	require.Len(t, out, 4)
	for _, f := range out {
		require.Equal(t, x.Shape, f.Shape)
		require.Less(t, MaxAbsDiff(x.Data, f.Data), 1e-9)
	}
}

func TestKoopmanAutoencoderDenseHalves(t *testing.T) {
	// The spectral and learned halves are interchangeable behind the same
	// interfaces.
	enc, err := NewDenseEncoder(DenseEncoderConfig{
		FieldShape: []int{12, 1},
		Hidden:     []int{16},
		LatentDim:  8,
		Activation: ActivationGELU,
	})
	require.NoError(t, err)
	dec, err := NewDenseDecoder(DenseEncoderConfig{
		FieldShape: []int{12, 1},
		Hidden:     []int{16},
		LatentDim:  8,
		Activation: ActivationGELU,
	})
	require.NoError(t, err)
	dyn, err := NewDensePropagator(4, false)
	require.NoError(t, err)

	m, err := NewKoopmanAutoencoder(enc, dyn, dec, 3)
	require.NoError(t, err)
	rnd := rand.New(rand.NewSource(25))
	enc.Randomize(rnd)
	dec.Randomize(rnd)
	dyn.Randomize(rnd)

	out, err := m.Forward(Trajectory{randomField1D(rnd, 12, 1)})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, f := range out {
		require.Equal(t, []int{12, 1}, f.Shape)
	}
}
