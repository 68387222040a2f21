package operator

import "fmt"

// KoopmanAutoencoder composes an encoder, a linear latent propagator and a
// decoder into one model: Forward encodes the first timestep, advances the
// latent state NSteps times and decodes the resulting trajectory.
//
// The encoder and decoder strategies are interchangeable (spectral
// coefficients or learned dense networks); their latent widths must agree
// with the propagator at construction.
type KoopmanAutoencoder struct {
	Encoder  Encoder
	Dynamics Propagator
	Decoder  Decoder
	NSteps   int
}

// NewKoopmanAutoencoder validates that all three components agree on the
// latent width. Width mismatches are construction-time errors, never a
// runtime coercion.
func NewKoopmanAutoencoder(enc Encoder, dyn Propagator, dec Decoder, nSteps int) (*KoopmanAutoencoder, error) {
	if nSteps <= 0 {
		return nil, fmt.Errorf("%w: n_steps must be positive, got %d", ErrBadConfig, nSteps)
	}
	if enc.LatentDim() != dyn.LatentDim() {
		return nil, fmt.Errorf("%w: encoder emits %d, propagator expects %d",
			ErrBadLatent, enc.LatentDim(), dyn.LatentDim())
	}
	if dec.LatentDim() != dyn.LatentDim() {
		return nil, fmt.Errorf("%w: decoder expects %d, propagator emits %d",
			ErrBadLatent, dec.LatentDim(), dyn.LatentDim())
	}
	return &KoopmanAutoencoder{Encoder: enc, Dynamics: dyn, Decoder: dec, NSteps: nSteps}, nil
}

// Encode maps a single field to its latent vector.
func (m *KoopmanAutoencoder) Encode(x Field) ([]float64, error) {
	return m.Encoder.Encode(x)
}

// EncodeTrajectory encodes every step of a trajectory independently.
func (m *KoopmanAutoencoder) EncodeTrajectory(xs Trajectory) (LatentTrajectory, error) {
	return EncodeTrajectory(m.Encoder, xs)
}

// Advance rolls the latent state forward NSteps times.
func (m *KoopmanAutoencoder) Advance(z []float64) (LatentTrajectory, error) {
	return m.Dynamics.Advance(z, m.NSteps)
}

// Decode maps a latent vector back to a field.
func (m *KoopmanAutoencoder) Decode(z []float64) (Field, error) {
	return m.Decoder.Decode(z)
}

// DecodeTrajectory decodes every latent vector independently.
func (m *KoopmanAutoencoder) DecodeTrajectory(zs LatentTrajectory) (Trajectory, error) {
	return DecodeTrajectory(m.Decoder, zs)
}

// Forward encodes the first timestep of the input trajectory, advances it
// NSteps times and decodes the result. The input may carry any number of
// timesteps; only the first seeds the rollout.
func (m *KoopmanAutoencoder) Forward(x Trajectory) (Trajectory, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: empty input trajectory", ErrShapeMismatch)
	}
	z, err := m.Encode(x[0])
	if err != nil {
		return nil, err
	}
	zs, err := m.Advance(z)
	if err != nil {
		return nil, err
	}
	return m.DecodeTrajectory(zs)
}

// ForwardBatch applies Forward independently to every batch element with
// shared parameters.
func (m *KoopmanAutoencoder) ForwardBatch(xs []Trajectory) ([]Trajectory, error) {
	return Batched(m.Forward)(xs)
}

// EncodeBatch encodes a batch of fields with shared parameters.
func (m *KoopmanAutoencoder) EncodeBatch(xs []Field) ([][]float64, error) {
	return Batched(m.Encode)(xs)
}

// AdvanceBatch advances a batch of latent states with shared parameters.
func (m *KoopmanAutoencoder) AdvanceBatch(zs [][]float64) ([]LatentTrajectory, error) {
	return Batched(m.Advance)(zs)
}

// DecodeBatch decodes a batch of latent vectors with shared parameters.
func (m *KoopmanAutoencoder) DecodeBatch(zs [][]float64) ([]Field, error) {
	return Batched(m.Decode)(zs)
}
