package operator

import (
	"fmt"
	"math/rand"
)

// SpectralConv2D is the spectral convolution layer for 2D fields. Both
// spatial axes are zero-padded to 2*size-1, transformed with the real axis
// along the width, and truncated to two blocks along the first frequency
// axis: the lowest NModes1 positive wavenumbers and the mirrored NModes1
// negative wavenumbers at the top of the axis. A real 2D field's
// non-redundant half-spectrum spans both signs along that axis, so each
// block carries its own complex weight.
type SpectralConv2D struct {
	InChannels  int
	OutChannels int
	NModes1     int // modes along the height (both signs)
	NModes2     int // modes along the half-spectrum width axis
	Height      int
	Width       int

	WeightUp   ComplexWeight
	WeightDown ComplexWeight
}

// NewSpectralConv2D builds a zero-weighted layer for fields of shape
// (height, width, in). The positive and negative wavenumber blocks must not
// overlap on the padded axis, and NModes2 may not exceed the half-spectrum
// bins; either violation is a configuration error.
func NewSpectralConv2D(in, out, nModes1, nModes2, height, width int) (*SpectralConv2D, error) {
	if in <= 0 || out <= 0 || nModes1 <= 0 || nModes2 <= 0 || height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: spectral conv dimensions must be positive", ErrBadConfig)
	}
	hp := paddedLen(height)
	if 2*nModes1 > hp {
		return nil, fmt.Errorf("%w: n_modes1=%d, padded height bins=%d", ErrBadModes, nModes1, hp)
	}
	if bins := realBins(paddedLen(width)); nModes2 > bins {
		return nil, fmt.Errorf("%w: n_modes2=%d, bins=%d", ErrBadModes, nModes2, bins)
	}
	return &SpectralConv2D{
		InChannels:  in,
		OutChannels: out,
		NModes1:     nModes1,
		NModes2:     nModes2,
		Height:      height,
		Width:       width,
		WeightUp:    NewComplexWeight2D(in, out, nModes1, nModes2),
		WeightDown:  NewComplexWeight2D(in, out, nModes1, nModes2),
	}, nil
}

// Randomize fills both weight blocks with the training-side initialization.
func (l *SpectralConv2D) Randomize(rnd *rand.Rand) {
	l.WeightUp.Randomize(rnd)
	l.WeightDown.Randomize(rnd)
}

// Apply maps a (Height, Width, InChannels) field to (Height, Width, OutChannels).
func (l *SpectralConv2D) Apply(x Field) (Field, error) {
	if err := checkShape(x, l.Height, l.Width, l.InChannels); err != nil {
		return Field{}, err
	}

	hp := paddedLen(l.Height)
	wp := paddedLen(l.Width)
	wf := realBins(wp)
	rowFT := newRealTransform(wp)
	colFT := newCmplxTransform(hp)

	// Forward: real transform along rows, complex transform down the
	// columns we retain. Blocks: up rows [0, n1), down rows [hp-n1, hp),
	// columns [0, n2).
	n1, n2 := l.NModes1, l.NModes2
	up := make([][]complex128, l.InChannels)   // n1*n2 per channel
	down := make([][]complex128, l.InChannels) // n1*n2 per channel

	rowSpec := make([][]complex128, l.Height)
	seq := make([]float64, l.Width)
	col := make([]complex128, hp)
	for i := 0; i < l.InChannels; i++ {
		for h := 0; h < l.Height; h++ {
			for w := 0; w < l.Width; w++ {
				seq[w] = x.Data[(h*l.Width+w)*l.InChannels+i]
			}
			rowSpec[h] = rowFT.coefficients(seq)
		}
		up[i] = make([]complex128, n1*n2)
		down[i] = make([]complex128, n1*n2)
		for k2 := 0; k2 < n2; k2++ {
			for h := 0; h < hp; h++ {
				if h < l.Height {
					col[h] = rowSpec[h][k2]
				} else {
					col[h] = 0
				}
			}
			spec := colFT.coefficients(col)
			for k1 := 0; k1 < n1; k1++ {
				up[i][k1*n2+k2] = spec[k1]
				down[i][k1*n2+k2] = spec[hp-n1+k1]
			}
		}
	}

	// Contract each block with its weight, embed both into a zeroed padded
	// spectrum, and invert: complex transform up the columns, then the real
	// inverse along each row, cropped to the original width.
	out := NewField(l.Height, l.Width, l.OutChannels)
	colSpec := make([][]complex128, n2) // only the retained columns are nonzero
	for k2 := range colSpec {
		colSpec[k2] = make([]complex128, hp)
	}
	for o := 0; o < l.OutChannels; o++ {
		for k2 := 0; k2 < n2; k2++ {
			for h := range colSpec[k2] {
				colSpec[k2][h] = 0
			}
			for k1 := 0; k1 < n1; k1++ {
				var su, sd complex128
				for i := 0; i < l.InChannels; i++ {
					su += up[i][k1*n2+k2] * l.WeightUp.At2(i, o, k1, k2)
					sd += down[i][k1*n2+k2] * l.WeightDown.At2(i, o, k1, k2)
				}
				colSpec[k2][k1] = su
				colSpec[k2][hp-n1+k1] = sd
			}
			colSpec[k2] = colFT.sequence(colSpec[k2])
		}
		rowBins := make([]complex128, wf)
		for h := 0; h < l.Height; h++ {
			for k2 := 0; k2 < wf; k2++ {
				if k2 < n2 {
					rowBins[k2] = colSpec[k2][h]
				} else {
					rowBins[k2] = 0
				}
			}
			row := rowFT.sequence(rowBins, l.Width)
			for w := 0; w < l.Width; w++ {
				out.Data[(h*l.Width+w)*l.OutChannels+o] = row[w]
			}
		}
	}
	return out, nil
}
