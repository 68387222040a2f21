package operator

import (
	"fmt"
	"math/rand"
)

// ComplexWeight is a learned per-mode linear map between input and output
// channels. It is stored as two real tensors of identical shape because
// gradient-based training owns real-valued parameters; genuine complex
// arithmetic happens only at the point of use.
//
// Layout is (In, Out, Modes1) for 1D layers and (In, Out, Modes1, Modes2)
// for 2D layers, row-major.
type ComplexWeight struct {
	Real []float64
	Imag []float64

	In     int
	Out    int
	Modes1 int
	Modes2 int // 0 for 1D weights
}

// NewComplexWeight1D allocates a zero-valued 1D weight of shape (in, out, modes).
func NewComplexWeight1D(in, out, modes int) ComplexWeight {
	n := in * out * modes
	return ComplexWeight{
		Real: make([]float64, n),
		Imag: make([]float64, n),
		In:   in, Out: out, Modes1: modes,
	}
}

// NewComplexWeight2D allocates a zero-valued 2D weight of shape (in, out, m1, m2).
func NewComplexWeight2D(in, out, m1, m2 int) ComplexWeight {
	n := in * out * m1 * m2
	return ComplexWeight{
		Real: make([]float64, n),
		Imag: make([]float64, n),
		In:   in, Out: out, Modes1: m1, Modes2: m2,
	}
}

// At returns the complex entry for input channel i, output channel o and
// mode k of a 1D weight.
func (w ComplexWeight) At(i, o, k int) complex128 {
	idx := (i*w.Out+o)*w.Modes1 + k
	return complex(w.Real[idx], w.Imag[idx])
}

// At2 returns the complex entry for input channel i, output channel o and
// modes (k1, k2) of a 2D weight.
func (w ComplexWeight) At2(i, o, k1, k2 int) complex128 {
	idx := ((i*w.Out+o)*w.Modes1+k1)*w.Modes2 + k2
	return complex(w.Real[idx], w.Imag[idx])
}

// Set assigns the complex entry for a 1D weight.
func (w ComplexWeight) Set(i, o, k int, v complex128) {
	idx := (i*w.Out+o)*w.Modes1 + k
	w.Real[idx] = real(v)
	w.Imag[idx] = imag(v)
}

// Set2 assigns the complex entry for a 2D weight.
func (w ComplexWeight) Set2(i, o, k1, k2 int, v complex128) {
	idx := ((i*w.Out+o)*w.Modes1+k1)*w.Modes2 + k2
	w.Real[idx] = real(v)
	w.Imag[idx] = imag(v)
}

// Clone returns a deep copy of the weight.
func (w ComplexWeight) Clone() ComplexWeight {
	out := w
	out.Real = append([]float64(nil), w.Real...)
	out.Imag = append([]float64(nil), w.Imag...)
	return out
}

// Scaled returns a copy with both parts multiplied by k.
func (w ComplexWeight) Scaled(k float64) ComplexWeight {
	out := w.Clone()
	for i := range out.Real {
		out.Real[i] *= k
		out.Imag[i] *= k
	}
	return out
}

// AddedTo returns the elementwise sum of two weights of identical shape.
func (w ComplexWeight) AddedTo(other ComplexWeight) (ComplexWeight, error) {
	if w.In != other.In || w.Out != other.Out ||
		w.Modes1 != other.Modes1 || w.Modes2 != other.Modes2 {
		return ComplexWeight{}, fmt.Errorf("%w: mismatched weight shapes", ErrShapeMismatch)
	}
	out := w.Clone()
	for i := range out.Real {
		out.Real[i] += other.Real[i]
		out.Imag[i] += other.Imag[i]
	}
	return out, nil
}

// Randomize fills both parts with uniform values in [0, 1/(in*out)),
// the initialization scale the training side expects.
func (w ComplexWeight) Randomize(rnd *rand.Rand) {
	scale := 1.0 / float64(w.In*w.Out)
	for i := range w.Real {
		w.Real[i] = rnd.Float64() * scale
		w.Imag[i] = rnd.Float64() * scale
	}
}
