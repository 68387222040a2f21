package operator

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// realTransform wraps a gonum real-input FFT plan of length n with
// energy-preserving ("ortho") normalization: both directions are scaled by
// 1/sqrt(n), so sequence(coefficients(x)) == x.
//
// A realTransform reuses internal scratch and must not be shared between
// goroutines; layers create one per forward call.
type realTransform struct {
	plan  *fourier.FFT
	n     int
	scale float64
	seq   []float64
	bins  []complex128
}

func newRealTransform(n int) *realTransform {
	return &realTransform{
		plan:  fourier.NewFFT(n),
		n:     n,
		scale: 1 / math.Sqrt(float64(n)),
		seq:   make([]float64, n),
		bins:  make([]complex128, n/2+1),
	}
}

// coefficients returns the ortho-normalized half spectrum of seq zero-padded
// to the plan length. The result is freshly allocated.
func (t *realTransform) coefficients(seq []float64) []complex128 {
	copy(t.seq, seq)
	for i := len(seq); i < t.n; i++ {
		t.seq[i] = 0
	}
	out := make([]complex128, t.n/2+1)
	t.plan.Coefficients(out, t.seq)
	for i := range out {
		out[i] *= complex(t.scale, 0)
	}
	return out
}

// sequence inverts a (possibly truncated) half spectrum, zero-filling the
// missing high-frequency bins, and returns the first nout samples.
func (t *realTransform) sequence(coeff []complex128, nout int) []float64 {
	copy(t.bins, coeff)
	for i := len(coeff); i < len(t.bins); i++ {
		t.bins[i] = 0
	}
	full := make([]float64, t.n)
	t.plan.Sequence(full, t.bins)
	out := make([]float64, nout)
	for i := range out {
		out[i] = full[i] * t.scale
	}
	return out
}

// cmplxTransform wraps a gonum complex FFT plan of length n with ortho
// normalization. Frequencies are laid out in the standard order: bin k holds
// wavenumber k for k < n/2 and wavenumber k-n above, so the mirrored negative
// wavenumbers of a real signal sit at the top of the axis.
type cmplxTransform struct {
	plan  *fourier.CmplxFFT
	n     int
	scale complex128
	buf   []complex128
}

func newCmplxTransform(n int) *cmplxTransform {
	return &cmplxTransform{
		plan:  fourier.NewCmplxFFT(n),
		n:     n,
		scale: complex(1/math.Sqrt(float64(n)), 0),
		buf:   make([]complex128, n),
	}
}

// coefficients returns the ortho-normalized spectrum of seq zero-padded to
// the plan length.
func (t *cmplxTransform) coefficients(seq []complex128) []complex128 {
	copy(t.buf, seq)
	for i := len(seq); i < t.n; i++ {
		t.buf[i] = 0
	}
	out := make([]complex128, t.n)
	t.plan.Coefficients(out, t.buf)
	for i := range out {
		out[i] *= t.scale
	}
	return out
}

// sequence inverts a full-length spectrum with ortho normalization.
func (t *cmplxTransform) sequence(coeff []complex128) []complex128 {
	copy(t.buf, coeff)
	out := make([]complex128, t.n)
	t.plan.Sequence(out, t.buf)
	for i := range out {
		out[i] *= t.scale
	}
	return out
}

// realBins returns the number of non-redundant frequency bins of a real
// transform of length n.
func realBins(n int) int { return n/2 + 1 }

// paddedLen returns the transform length that realizes a linear (rather than
// circular) convolution for a spatial extent of size n.
func paddedLen(n int) int { return 2*n - 1 }
