package operator

import (
	"fmt"
	"math"
	"math/rand"
)

// Propagator advances an encoded latent state through time with a fixed
// linear map. After encoding, the nonlinear system's evolution is modeled as
// this single learned linear operator applied repeatedly, never a nonlinear
// step function. Implementations hold only their parameters; recurrence
// state is local to one Advance call.
type Propagator interface {
	// Advance applies the dynamics operator once per step, returning the
	// trajectory of the resulting latent vectors in time order.
	Advance(z []float64, steps int) (LatentTrajectory, error)
	// LatentDim returns the real latent width the propagator accepts.
	LatentDim() int
}

// splitComplex interprets a real latent vector as complex state: the first
// half is the real part and the second half the imaginary part, or, in the
// real-only variant, the imaginary part is fixed at zero.
func splitComplex(z []float64, realOnly bool) []complex128 {
	if realOnly {
		out := make([]complex128, len(z))
		for i, v := range z {
			out[i] = complex(v, 0)
		}
		return out
	}
	d := len(z) / 2
	out := make([]complex128, d)
	for i := 0; i < d; i++ {
		out[i] = complex(z[i], z[d+i])
	}
	return out
}

// mergeComplex reassembles a complex state into real form: concatenated
// real and imaginary halves, or the real part alone in the real-only variant.
func mergeComplex(z []complex128, realOnly bool) []float64 {
	if realOnly {
		out := make([]float64, len(z))
		for i, v := range z {
			out[i] = real(v)
		}
		return out
	}
	out := make([]float64, 2*len(z))
	for i, v := range z {
		out[i] = real(v)
		out[len(z)+i] = imag(v)
	}
	return out
}

// DensePropagator advances the latent state with a dense complex matrix
// stored as paired real tensors.
type DensePropagator struct {
	Dim      int // complex state dimension
	RealOnly bool

	KReal []float64 // Dim x Dim, row-major
	KImag []float64
}

// NewDensePropagator allocates a zero-valued dense propagator over a
// complex state of the given dimension.
func NewDensePropagator(dim int, realOnly bool) (*DensePropagator, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: propagator dimension must be positive", ErrBadConfig)
	}
	return &DensePropagator{
		Dim:      dim,
		RealOnly: realOnly,
		KReal:    make([]float64, dim*dim),
		KImag:    make([]float64, dim*dim),
	}, nil
}

// NewIdentityPropagator returns a dense propagator whose operator is the
// identity, so every advanced step reproduces the encoded state.
func NewIdentityPropagator(dim int, realOnly bool) (*DensePropagator, error) {
	p, err := NewDensePropagator(dim, realOnly)
	if err != nil {
		return nil, err
	}
	for i := 0; i < dim; i++ {
		p.KReal[i*dim+i] = 1
	}
	return p, nil
}

// Randomize fills the operator with uniform values in [0, 1/dim).
func (p *DensePropagator) Randomize(rnd *rand.Rand) {
	scale := 1.0 / float64(p.Dim)
	for i := range p.KReal {
		p.KReal[i] = rnd.Float64() * scale
		p.KImag[i] = rnd.Float64() * scale
	}
}

// LatentDim returns the accepted real latent width: Dim for the real-only
// variant, 2*Dim otherwise.
func (p *DensePropagator) LatentDim() int {
	if p.RealOnly {
		return p.Dim
	}
	return 2 * p.Dim
}

// Advance applies the matrix once per step for the requested step count.
func (p *DensePropagator) Advance(z []float64, steps int) (LatentTrajectory, error) {
	if len(z) != p.LatentDim() {
		return nil, latentError(p.LatentDim(), len(z))
	}
	if steps <= 0 {
		return nil, fmt.Errorf("%w: step count must be positive, got %d", ErrBadConfig, steps)
	}
	state := splitComplex(z, p.RealOnly)
	next := make([]complex128, p.Dim)
	out := make(LatentTrajectory, steps)
	for t := 0; t < steps; t++ {
		for r := 0; r < p.Dim; r++ {
			var sum complex128
			row := r * p.Dim
			for c := 0; c < p.Dim; c++ {
				sum += complex(p.KReal[row+c], p.KImag[row+c]) * state[c]
			}
			next[r] = sum
		}
		state, next = next, state
		out[t] = mergeComplex(state, p.RealOnly)
	}
	return out, nil
}

// DiagonalPropagator advances the latent state with a diagonal operator in
// the exponential parameterization lambda_k = exp(-exp(nu_k) + i*exp(theta_k)),
// which keeps every eigenvalue inside the unit circle for any real nu.
type DiagonalPropagator struct {
	Dim      int
	RealOnly bool

	NuLog    []float64
	ThetaLog []float64
}

// NewDiagonalPropagator allocates a diagonal propagator with zero-valued
// parameters, i.e. every eigenvalue is exp(-1 + i).
func NewDiagonalPropagator(dim int, realOnly bool) (*DiagonalPropagator, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: propagator dimension must be positive", ErrBadConfig)
	}
	return &DiagonalPropagator{
		Dim:      dim,
		RealOnly: realOnly,
		NuLog:    make([]float64, dim),
		ThetaLog: make([]float64, dim),
	}, nil
}

// Eigenvalues returns the complex eigenvalues the current parameters encode.
func (p *DiagonalPropagator) Eigenvalues() []complex128 {
	out := make([]complex128, p.Dim)
	for k := 0; k < p.Dim; k++ {
		r := math.Exp(-math.Exp(p.NuLog[k]))
		theta := math.Exp(p.ThetaLog[k])
		out[k] = complex(r*math.Cos(theta), r*math.Sin(theta))
	}
	return out
}

// LatentDim returns the accepted real latent width.
func (p *DiagonalPropagator) LatentDim() int {
	if p.RealOnly {
		return p.Dim
	}
	return 2 * p.Dim
}

// Advance applies the diagonal operator once per step.
func (p *DiagonalPropagator) Advance(z []float64, steps int) (LatentTrajectory, error) {
	if len(z) != p.LatentDim() {
		return nil, latentError(p.LatentDim(), len(z))
	}
	if steps <= 0 {
		return nil, fmt.Errorf("%w: step count must be positive, got %d", ErrBadConfig, steps)
	}
	lambda := p.Eigenvalues()
	state := splitComplex(z, p.RealOnly)
	out := make(LatentTrajectory, steps)
	for t := 0; t < steps; t++ {
		for k := range state {
			state[k] *= lambda[k]
		}
		out[t] = mergeComplex(state, p.RealOnly)
	}
	return out, nil
}
