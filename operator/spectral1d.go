package operator

import (
	"fmt"
	"math/rand"
)

// SpectralConv1D is a spectral convolution layer for 1D fields: forward
// real transform, truncation to the lowest NModes coefficients, a per-mode
// complex linear map over channels, and the inverse transform.
//
// By default the spatial axis is zero-padded to 2*Width-1 before the
// transform so that the frequency-domain product realizes a linear rather
// than circular convolution; set Circular to skip the padding.
type SpectralConv1D struct {
	InChannels  int
	OutChannels int
	NModes      int
	Width       int
	Circular    bool

	Weight ComplexWeight
}

// NewSpectralConv1D builds a zero-weighted layer for fields of shape
// (width, in). The mode count is validated against the frequency bins
// available after padding; exceeding them is a configuration error.
func NewSpectralConv1D(in, out, nModes, width int, circular bool) (*SpectralConv1D, error) {
	if in <= 0 || out <= 0 || nModes <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: spectral conv dimensions must be positive", ErrBadConfig)
	}
	n := paddedLen(width)
	if circular {
		n = width
	}
	if bins := realBins(n); nModes > bins {
		return nil, fmt.Errorf("%w: n_modes=%d, bins=%d (width=%d, transform length=%d)",
			ErrBadModes, nModes, bins, width, n)
	}
	return &SpectralConv1D{
		InChannels:  in,
		OutChannels: out,
		NModes:      nModes,
		Width:       width,
		Circular:    circular,
		Weight:      NewComplexWeight1D(in, out, nModes),
	}, nil
}

// Randomize fills the weight with the training-side initialization scale.
func (l *SpectralConv1D) Randomize(rnd *rand.Rand) { l.Weight.Randomize(rnd) }

// Apply maps a (Width, InChannels) field to a (Width, OutChannels) field.
func (l *SpectralConv1D) Apply(x Field) (Field, error) {
	if err := checkShape(x, l.Width, l.InChannels); err != nil {
		return Field{}, err
	}

	n := paddedLen(l.Width)
	if l.Circular {
		n = l.Width
	}
	ft := newRealTransform(n)

	// Forward transform each input channel and keep the first NModes bins.
	spec := make([][]complex128, l.InChannels)
	seq := make([]float64, l.Width)
	for i := 0; i < l.InChannels; i++ {
		for w := 0; w < l.Width; w++ {
			seq[w] = x.Data[w*l.InChannels+i]
		}
		spec[i] = ft.coefficients(seq)[:l.NModes]
	}

	// Contract each retained mode over input channels with that mode's
	// complex weight matrix, then invert per output channel.
	out := NewField(l.Width, l.OutChannels)
	coeff := make([]complex128, l.NModes)
	for o := 0; o < l.OutChannels; o++ {
		for k := 0; k < l.NModes; k++ {
			var sum complex128
			for i := 0; i < l.InChannels; i++ {
				sum += spec[i][k] * l.Weight.At(i, o, k)
			}
			coeff[k] = sum
		}
		col := ft.sequence(coeff, l.Width)
		for w := 0; w < l.Width; w++ {
			out.Data[w*l.OutChannels+o] = col[w]
		}
	}
	return out, nil
}
