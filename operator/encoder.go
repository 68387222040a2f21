package operator

import (
	"fmt"
	"math/rand"
)

// Encoder maps a field to a fixed-width real latent vector. Implementations
// are stateless; the latent width is fixed at construction.
type Encoder interface {
	Encode(x Field) ([]float64, error)
	LatentDim() int
}

// Decoder maps a latent vector of the exact width it was constructed for
// back to a field.
type Decoder interface {
	Decode(z []float64) (Field, error)
	LatentDim() int
}

// EncodeTrajectory encodes every step of a trajectory independently.
func EncodeTrajectory(e Encoder, xs Trajectory) (LatentTrajectory, error) {
	out := make(LatentTrajectory, len(xs))
	for i, x := range xs {
		z, err := e.Encode(x)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		out[i] = z
	}
	return out, nil
}

// DecodeTrajectory decodes every latent vector of a trajectory independently.
func DecodeTrajectory(d Decoder, zs LatentTrajectory) (Trajectory, error) {
	out := make(Trajectory, len(zs))
	for i, z := range zs {
		x, err := d.Decode(z)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		out[i] = x
	}
	return out, nil
}

// FourierEncoder1D encodes a (W, C) field as its truncated half spectrum:
// ortho transform at the padded length, the lowest NModes bins per channel,
// flattened with all real parts first and all imaginary parts second so the
// propagator's half split recovers the complex coefficients exactly.
type FourierEncoder1D struct {
	Width  int
	DVars  int
	NModes int
}

// NewFourierEncoder1D validates the mode count against the padded bins.
func NewFourierEncoder1D(width, dVars, nModes int) (*FourierEncoder1D, error) {
	if width <= 0 || dVars <= 0 || nModes <= 0 {
		return nil, fmt.Errorf("%w: fourier encoder dimensions must be positive", ErrBadConfig)
	}
	if bins := realBins(paddedLen(width)); nModes > bins {
		return nil, fmt.Errorf("%w: n_modes=%d, bins=%d", ErrBadModes, nModes, bins)
	}
	return &FourierEncoder1D{Width: width, DVars: dVars, NModes: nModes}, nil
}

// LatentDim returns 2 * NModes * DVars.
func (e *FourierEncoder1D) LatentDim() int { return 2 * e.NModes * e.DVars }

// Encode transforms, truncates and flattens the field.
func (e *FourierEncoder1D) Encode(x Field) ([]float64, error) {
	if err := checkShape(x, e.Width, e.DVars); err != nil {
		return nil, err
	}
	ft := newRealTransform(paddedLen(e.Width))
	half := e.NModes * e.DVars
	z := make([]float64, 2*half)
	seq := make([]float64, e.Width)
	for c := 0; c < e.DVars; c++ {
		for w := 0; w < e.Width; w++ {
			seq[w] = x.Data[w*e.DVars+c]
		}
		spec := ft.coefficients(seq)
		for k := 0; k < e.NModes; k++ {
			z[k*e.DVars+c] = real(spec[k])
			z[half+k*e.DVars+c] = imag(spec[k])
		}
	}
	return z, nil
}

// FourierDecoder1D is the exact structural inverse of FourierEncoder1D.
type FourierDecoder1D struct {
	Width  int
	DVars  int
	NModes int
}

// NewFourierDecoder1D validates the mode count against the padded bins.
func NewFourierDecoder1D(width, dVars, nModes int) (*FourierDecoder1D, error) {
	if _, err := NewFourierEncoder1D(width, dVars, nModes); err != nil {
		return nil, err
	}
	return &FourierDecoder1D{Width: width, DVars: dVars, NModes: nModes}, nil
}

// LatentDim returns 2 * NModes * DVars.
func (d *FourierDecoder1D) LatentDim() int { return 2 * d.NModes * d.DVars }

// Decode rebuilds the truncated spectrum and inverts it at the padded
// length, cropping to the original width.
func (d *FourierDecoder1D) Decode(z []float64) (Field, error) {
	if len(z) != d.LatentDim() {
		return Field{}, latentError(d.LatentDim(), len(z))
	}
	ft := newRealTransform(paddedLen(d.Width))
	half := d.NModes * d.DVars
	out := NewField(d.Width, d.DVars)
	coeff := make([]complex128, d.NModes)
	for c := 0; c < d.DVars; c++ {
		for k := 0; k < d.NModes; k++ {
			coeff[k] = complex(z[k*d.DVars+c], z[half+k*d.DVars+c])
		}
		col := ft.sequence(coeff, d.Width)
		for w := 0; w < d.Width; w++ {
			out.Data[w*d.DVars+c] = col[w]
		}
	}
	return out, nil
}

// FourierEncoder2D encodes an (H, W, C) field as the NModes x NModes block
// of its padded ortho transform, flattened real-then-imaginary.
type FourierEncoder2D struct {
	Height int
	Width  int
	DVars  int
	NModes int
}

// NewFourierEncoder2D validates the mode count against both frequency axes.
func NewFourierEncoder2D(height, width, dVars, nModes int) (*FourierEncoder2D, error) {
	if height <= 0 || width <= 0 || dVars <= 0 || nModes <= 0 {
		return nil, fmt.Errorf("%w: fourier encoder dimensions must be positive", ErrBadConfig)
	}
	if nModes > paddedLen(height) {
		return nil, fmt.Errorf("%w: n_modes=%d, height bins=%d", ErrBadModes, nModes, paddedLen(height))
	}
	if bins := realBins(paddedLen(width)); nModes > bins {
		return nil, fmt.Errorf("%w: n_modes=%d, width bins=%d", ErrBadModes, nModes, bins)
	}
	return &FourierEncoder2D{Height: height, Width: width, DVars: dVars, NModes: nModes}, nil
}

// LatentDim returns 2 * NModes^2 * DVars.
func (e *FourierEncoder2D) LatentDim() int { return 2 * e.NModes * e.NModes * e.DVars }

// Encode transforms, truncates and flattens the field.
func (e *FourierEncoder2D) Encode(x Field) ([]float64, error) {
	if err := checkShape(x, e.Height, e.Width, e.DVars); err != nil {
		return nil, err
	}
	hp := paddedLen(e.Height)
	rowFT := newRealTransform(paddedLen(e.Width))
	colFT := newCmplxTransform(hp)

	n := e.NModes
	half := n * n * e.DVars
	z := make([]float64, 2*half)
	seq := make([]float64, e.Width)
	col := make([]complex128, hp)
	rowSpec := make([][]complex128, e.Height)
	for c := 0; c < e.DVars; c++ {
		for h := 0; h < e.Height; h++ {
			for w := 0; w < e.Width; w++ {
				seq[w] = x.Data[(h*e.Width+w)*e.DVars+c]
			}
			rowSpec[h] = rowFT.coefficients(seq)
		}
		for k2 := 0; k2 < n; k2++ {
			for h := 0; h < hp; h++ {
				if h < e.Height {
					col[h] = rowSpec[h][k2]
				} else {
					col[h] = 0
				}
			}
			spec := colFT.coefficients(col)
			for k1 := 0; k1 < n; k1++ {
				idx := (k1*n+k2)*e.DVars + c
				z[idx] = real(spec[k1])
				z[half+idx] = imag(spec[k1])
			}
		}
	}
	return z, nil
}

// FourierDecoder2D is the exact structural inverse of FourierEncoder2D.
type FourierDecoder2D struct {
	Height int
	Width  int
	DVars  int
	NModes int
}

// NewFourierDecoder2D validates the mode count against both frequency axes.
func NewFourierDecoder2D(height, width, dVars, nModes int) (*FourierDecoder2D, error) {
	if _, err := NewFourierEncoder2D(height, width, dVars, nModes); err != nil {
		return nil, err
	}
	return &FourierDecoder2D{Height: height, Width: width, DVars: dVars, NModes: nModes}, nil
}

// LatentDim returns 2 * NModes^2 * DVars.
func (d *FourierDecoder2D) LatentDim() int { return 2 * d.NModes * d.NModes * d.DVars }

// Decode embeds the coefficient block into a zeroed padded spectrum and
// inverts both axes, cropping to the original extents.
func (d *FourierDecoder2D) Decode(z []float64) (Field, error) {
	if len(z) != d.LatentDim() {
		return Field{}, latentError(d.LatentDim(), len(z))
	}
	hp := paddedLen(d.Height)
	wf := realBins(paddedLen(d.Width))
	rowFT := newRealTransform(paddedLen(d.Width))
	colFT := newCmplxTransform(hp)

	n := d.NModes
	half := n * n * d.DVars
	out := NewField(d.Height, d.Width, d.DVars)
	colSpec := make([][]complex128, n)
	for k2 := range colSpec {
		colSpec[k2] = make([]complex128, hp)
	}
	rowBins := make([]complex128, wf)
	for c := 0; c < d.DVars; c++ {
		for k2 := 0; k2 < n; k2++ {
			for h := range colSpec[k2] {
				colSpec[k2][h] = 0
			}
			for k1 := 0; k1 < n; k1++ {
				idx := (k1*n+k2)*d.DVars + c
				colSpec[k2][k1] = complex(z[idx], z[half+idx])
			}
			colSpec[k2] = colFT.sequence(colSpec[k2])
		}
		for h := 0; h < d.Height; h++ {
			for k2 := 0; k2 < wf; k2++ {
				if k2 < n {
					rowBins[k2] = colSpec[k2][h]
				} else {
					rowBins[k2] = 0
				}
			}
			row := rowFT.sequence(rowBins, d.Width)
			for w := 0; w < d.Width; w++ {
				out.Data[(h*d.Width+w)*d.DVars+c] = row[w]
			}
		}
	}
	return out, nil
}

// DenseEncoderConfig configures a learned dense encoder or decoder half.
type DenseEncoderConfig struct {
	FieldShape   []int      // (W, C) or (H, W, C)
	Hidden       []int      // hidden widths, may be empty
	LatentDim    int        // encoder output / decoder input width
	Activation   Activation // nonlinearity between layers
	Norm         Norm       // "layer", "batch" or "none"
	UsePositions bool       // encoder only: concatenate the positional grid
}

// DenseEncoder flattens a field (optionally with the positional grid
// prepended to its channels) and maps it through an MLP to the latent width.
type DenseEncoder struct {
	Config DenseEncoderConfig

	Grid   Field
	Layers []Dense
	Norms  []normLayer
}

// NewDenseEncoder eagerly builds all layers and validates the configuration.
func NewDenseEncoder(cfg DenseEncoderConfig) (*DenseEncoder, error) {
	if err := validNorm(cfg.Norm); err != nil {
		return nil, err
	}
	if cfg.LatentDim <= 0 {
		return nil, fmt.Errorf("%w: latent width must be positive", ErrBadConfig)
	}
	inDim, err := flatDim(cfg.FieldShape)
	if err != nil {
		return nil, err
	}
	e := &DenseEncoder{Config: cfg}
	if cfg.UsePositions {
		e.Grid = positionalGridFor(cfg.FieldShape)
		inDim += len(e.Grid.Data)
	}
	widths := append([]int{inDim}, cfg.Hidden...)
	widths = append(widths, cfg.LatentDim)
	for i := 0; i+1 < len(widths); i++ {
		e.Layers = append(e.Layers, NewDense(widths[i], widths[i+1]))
		e.Norms = append(e.Norms, newNormLayer(cfg.Norm, widths[i+1]))
	}
	return e, nil
}

// Randomize randomizes every dense layer.
func (e *DenseEncoder) Randomize(rnd *rand.Rand) {
	for _, l := range e.Layers {
		l.Randomize(rnd)
	}
}

// LatentDim returns the encoder output width.
func (e *DenseEncoder) LatentDim() int { return e.Config.LatentDim }

// Encode flattens and maps the field to a latent vector.
func (e *DenseEncoder) Encode(x Field) ([]float64, error) {
	if err := checkShape(x, e.Config.FieldShape...); err != nil {
		return nil, err
	}
	if e.Config.UsePositions {
		x = concatChannels(x, e.Grid)
	}
	v := append([]float64(nil), x.Data...)
	for i, l := range e.Layers {
		var err error
		v, err = l.ApplyVec(v)
		if err != nil {
			return nil, err
		}
		if i+1 < len(e.Layers) {
			v = e.Norms[i].apply(v)
			activateSlice(v, e.Config.Activation)
		}
	}
	return v, nil
}

// DenseDecoder maps a latent vector through an MLP and reshapes the result
// to the configured field shape.
type DenseDecoder struct {
	Config DenseEncoderConfig

	Layers []Dense
	Norms  []normLayer
}

// NewDenseDecoder eagerly builds all layers; the output width is fixed by
// the field shape and mismatches are construction-time errors.
func NewDenseDecoder(cfg DenseEncoderConfig) (*DenseDecoder, error) {
	if err := validNorm(cfg.Norm); err != nil {
		return nil, err
	}
	if cfg.LatentDim <= 0 {
		return nil, fmt.Errorf("%w: latent width must be positive", ErrBadConfig)
	}
	outDim, err := flatDim(cfg.FieldShape)
	if err != nil {
		return nil, err
	}
	d := &DenseDecoder{Config: cfg}
	widths := append([]int{cfg.LatentDim}, cfg.Hidden...)
	widths = append(widths, outDim)
	for i := 0; i+1 < len(widths); i++ {
		d.Layers = append(d.Layers, NewDense(widths[i], widths[i+1]))
		d.Norms = append(d.Norms, newNormLayer(cfg.Norm, widths[i+1]))
	}
	return d, nil
}

// Randomize randomizes every dense layer.
func (d *DenseDecoder) Randomize(rnd *rand.Rand) {
	for _, l := range d.Layers {
		l.Randomize(rnd)
	}
}

// LatentDim returns the decoder input width.
func (d *DenseDecoder) LatentDim() int { return d.Config.LatentDim }

// Decode maps a latent vector back to a field of the configured shape.
func (d *DenseDecoder) Decode(z []float64) (Field, error) {
	if len(z) != d.Config.LatentDim {
		return Field{}, latentError(d.Config.LatentDim, len(z))
	}
	v := z
	for i, l := range d.Layers {
		var err error
		v, err = l.ApplyVec(v)
		if err != nil {
			return Field{}, err
		}
		if i+1 < len(d.Layers) {
			v = d.Norms[i].apply(v)
			activateSlice(v, d.Config.Activation)
		}
	}
	return FieldFromSlice(v, d.Config.FieldShape...)
}

func flatDim(shape []int) (int, error) {
	if len(shape) != 2 && len(shape) != 3 {
		return 0, fmt.Errorf("%w: field shape must be (W, C) or (H, W, C), got %v",
			ErrBadConfig, shape)
	}
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return 0, fmt.Errorf("%w: field shape must be positive, got %v", ErrBadConfig, shape)
		}
		n *= s
	}
	return n, nil
}

func positionalGridFor(shape []int) Field {
	if len(shape) == 3 {
		return PositionalGrid2D(shape[0], shape[1])
	}
	return PositionalGrid1D(shape[0])
}
