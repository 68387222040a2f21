package operator

import (
	"fmt"
	"math/rand"
)

// projWidth is the hidden width of the projection MLP that maps the final
// hidden state down to d_vars * n_steps output channels.
const projWidth = 128

// FNO1DConfig configures a 1D Fourier neural operator stack.
type FNO1DConfig struct {
	DModel         int        // spatial width W
	DVars          int        // field channels per timestep
	InSteps        int        // input timesteps bundled into channels (default 1)
	HiddenChannels int        // lifted channel width
	NModes         int        // retained frequency modes
	NLayers        int        // spectral layers (default 4)
	NSteps         int        // future timesteps produced in one pass
	Activation     Activation // nonlinearity between layers
	Norm           Norm       // validated; reserved, not applied in the forward pass
	Circular       bool       // skip linear-convolution padding
}

// FNO1D advances a 1D field trajectory in a single pass: lift to hidden
// channels, NLayers of spectral convolution plus a pointwise local map with
// a nonlinearity, and a projection MLP emitting DVars*NSteps channels that
// are reshaped into an explicit time axis (temporal bundling).
type FNO1D struct {
	Config FNO1DConfig

	Lift   Dense
	Convs  []*SpectralConv1D
	Locals []Dense
	Proj   MLP
}

// NewFNO1D eagerly builds the full parameter structure. All shape and mode
// validation happens here, not on the first forward pass.
func NewFNO1D(cfg FNO1DConfig) (*FNO1D, error) {
	if cfg.InSteps == 0 {
		cfg.InSteps = 1
	}
	if cfg.NLayers == 0 {
		cfg.NLayers = 4
	}
	if cfg.DModel <= 0 || cfg.DVars <= 0 || cfg.HiddenChannels <= 0 || cfg.NSteps <= 0 {
		return nil, fmt.Errorf("%w: fno1d dimensions must be positive", ErrBadConfig)
	}
	if err := validNorm(cfg.Norm); err != nil {
		return nil, err
	}

	m := &FNO1D{
		Config: cfg,
		Lift:   NewDense(cfg.InSteps*cfg.DVars, cfg.HiddenChannels),
	}
	for i := 0; i < cfg.NLayers; i++ {
		conv, err := NewSpectralConv1D(cfg.HiddenChannels, cfg.HiddenChannels, cfg.NModes, cfg.DModel, cfg.Circular)
		if err != nil {
			return nil, err
		}
		m.Convs = append(m.Convs, conv)
		m.Locals = append(m.Locals, NewDense(cfg.HiddenChannels, cfg.HiddenChannels))
	}
	proj, err := NewMLP(cfg.Activation, cfg.HiddenChannels, projWidth, cfg.DVars*cfg.NSteps)
	if err != nil {
		return nil, err
	}
	m.Proj = proj
	return m, nil
}

// Randomize randomizes every parameter tensor in the stack.
func (m *FNO1D) Randomize(rnd *rand.Rand) {
	m.Lift.Randomize(rnd)
	for i := range m.Convs {
		m.Convs[i].Randomize(rnd)
		m.Locals[i].Randomize(rnd)
	}
	m.Proj.Randomize(rnd)
}

// Forward maps an input trajectory of InSteps fields of shape (W, DVars) to
// NSteps fields of the same shape.
func (m *FNO1D) Forward(x Trajectory) (Trajectory, error) {
	cfg := m.Config
	if len(x) != cfg.InSteps {
		return nil, fmt.Errorf("%w: expected %d input steps, got %d",
			ErrShapeMismatch, cfg.InSteps, len(x))
	}
	for _, f := range x {
		if err := checkShape(f, cfg.DModel, cfg.DVars); err != nil {
			return nil, err
		}
	}
	h, err := bundleChannels(x)
	if err != nil {
		return nil, err
	}
	y, err := m.apply(h)
	if err != nil {
		return nil, err
	}
	return unbundleChannels(y, cfg.NSteps, cfg.DVars)
}

// ForwardBatch applies Forward independently to every element of a batch
// with shared parameters.
func (m *FNO1D) ForwardBatch(xs []Trajectory) ([]Trajectory, error) {
	return Batched(m.Forward)(xs)
}

func (m *FNO1D) apply(h Field) (Field, error) {
	h, err := m.Lift.Apply(h)
	if err != nil {
		return Field{}, err
	}
	for i := range m.Convs {
		x1, err := m.Convs[i].Apply(h)
		if err != nil {
			return Field{}, err
		}
		x2, err := m.Locals[i].Apply(h)
		if err != nil {
			return Field{}, err
		}
		for j := range x1.Data {
			x1.Data[j] += x2.Data[j]
		}
		activateSlice(x1.Data, m.Config.Activation)
		h = x1
	}
	return m.Proj.Apply(h)
}

// FNO2DConfig configures a 2D Fourier neural operator stack.
type FNO2DConfig struct {
	DModelH        int // spatial height H
	DModelW        int // spatial width W
	DVars          int
	InSteps        int
	HiddenChannels int
	NModes1        int // modes along the height axis (each sign)
	NModes2        int // modes along the width half-spectrum
	NLayers        int
	NSteps         int
	Activation     Activation
	Norm           Norm
	UsePositions   bool // concatenate the positional grid before lifting
}

// FNO2D is the 2D counterpart of FNO1D, with an optional fixed positional
// grid concatenated onto the input channels before the lift.
type FNO2D struct {
	Config FNO2DConfig

	Grid   Field // (H, W, 2), zero-size when UsePositions is false
	Lift   Dense
	Convs  []*SpectralConv2D
	Locals []Dense
	Proj   MLP
}

// NewFNO2D eagerly builds the full parameter structure.
func NewFNO2D(cfg FNO2DConfig) (*FNO2D, error) {
	if cfg.InSteps == 0 {
		cfg.InSteps = 1
	}
	if cfg.NLayers == 0 {
		cfg.NLayers = 4
	}
	if cfg.DModelH <= 0 || cfg.DModelW <= 0 || cfg.DVars <= 0 || cfg.HiddenChannels <= 0 || cfg.NSteps <= 0 {
		return nil, fmt.Errorf("%w: fno2d dimensions must be positive", ErrBadConfig)
	}
	if err := validNorm(cfg.Norm); err != nil {
		return nil, err
	}

	liftIn := cfg.InSteps * cfg.DVars
	m := &FNO2D{Config: cfg}
	if cfg.UsePositions {
		m.Grid = PositionalGrid2D(cfg.DModelH, cfg.DModelW)
		liftIn += 2
	}
	m.Lift = NewDense(liftIn, cfg.HiddenChannels)
	for i := 0; i < cfg.NLayers; i++ {
		conv, err := NewSpectralConv2D(cfg.HiddenChannels, cfg.HiddenChannels,
			cfg.NModes1, cfg.NModes2, cfg.DModelH, cfg.DModelW)
		if err != nil {
			return nil, err
		}
		m.Convs = append(m.Convs, conv)
		m.Locals = append(m.Locals, NewDense(cfg.HiddenChannels, cfg.HiddenChannels))
	}
	proj, err := NewMLP(cfg.Activation, cfg.HiddenChannels, projWidth, cfg.DVars*cfg.NSteps)
	if err != nil {
		return nil, err
	}
	m.Proj = proj
	return m, nil
}

// Randomize randomizes every parameter tensor in the stack.
func (m *FNO2D) Randomize(rnd *rand.Rand) {
	m.Lift.Randomize(rnd)
	for i := range m.Convs {
		m.Convs[i].Randomize(rnd)
		m.Locals[i].Randomize(rnd)
	}
	m.Proj.Randomize(rnd)
}

// Forward maps InSteps fields of shape (H, W, DVars) to NSteps fields of
// the same shape.
func (m *FNO2D) Forward(x Trajectory) (Trajectory, error) {
	cfg := m.Config
	if len(x) != cfg.InSteps {
		return nil, fmt.Errorf("%w: expected %d input steps, got %d",
			ErrShapeMismatch, cfg.InSteps, len(x))
	}
	for _, f := range x {
		if err := checkShape(f, cfg.DModelH, cfg.DModelW, cfg.DVars); err != nil {
			return nil, err
		}
	}
	h, err := bundleChannels(x)
	if err != nil {
		return nil, err
	}
	if cfg.UsePositions {
		h = concatChannels(h, m.Grid)
	}
	h, err = m.Lift.Apply(h)
	if err != nil {
		return nil, err
	}
	for i := range m.Convs {
		x1, err := m.Convs[i].Apply(h)
		if err != nil {
			return nil, err
		}
		x2, err := m.Locals[i].Apply(h)
		if err != nil {
			return nil, err
		}
		for j := range x1.Data {
			x1.Data[j] += x2.Data[j]
		}
		activateSlice(x1.Data, cfg.Activation)
		h = x1
	}
	y, err := m.Proj.Apply(h)
	if err != nil {
		return nil, err
	}
	return unbundleChannels(y, cfg.NSteps, cfg.DVars)
}

// ForwardBatch applies Forward independently to every element of a batch
// with shared parameters.
func (m *FNO2D) ForwardBatch(xs []Trajectory) ([]Trajectory, error) {
	return Batched(m.Forward)(xs)
}
