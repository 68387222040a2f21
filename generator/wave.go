package generator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/openpde/fieldop/modal"
	"github.com/openpde/fieldop/operator"
)

// WaveConfig configures the damped modal solver for an ideal string.
type WaveConfig struct {
	GridPoints int     // spatial samples along the string
	Length     float64 // string length in meters
	WaveSpeed  float64 // transverse wave speed in m/s
	Damping    float64 // uniform exponential decay rate in 1/s
	DT         float64 // output sample interval in seconds
	NModes     int     // modes carried by the solver
	Steps      int     // trajectory length
}

// WaveSolver advances a plucked or struck string analytically in the modal
// domain and samples the displacement field at every output step. It exists
// to supply ground-truth trajectories; the learned operators never see it.
type WaveSolver struct {
	Config WaveConfig

	grid        []float64
	wavenumbers []float64
	shapes      *mat.Dense
}

// NewWaveSolver precomputes the grid, wavenumbers and modal-shape matrix.
func NewWaveSolver(cfg WaveConfig) (*WaveSolver, error) {
	if cfg.GridPoints <= 1 || cfg.NModes <= 0 || cfg.Steps <= 0 {
		return nil, fmt.Errorf("generator: grid points, modes and steps must be positive")
	}
	if cfg.Length <= 0 || cfg.WaveSpeed <= 0 || cfg.DT <= 0 {
		return nil, fmt.Errorf("generator: length, wave speed and dt must be positive")
	}
	grid := make([]float64, cfg.GridPoints)
	floats.Span(grid, 0, cfg.Length)
	k := modal.Wavenumbers(cfg.NModes, cfg.Length)
	return &WaveSolver{
		Config:      cfg,
		grid:        grid,
		wavenumbers: k,
		shapes:      modal.Matrix(grid, k),
	}, nil
}

// Grid returns the spatial sample positions.
func (s *WaveSolver) Grid() []float64 { return s.grid }

// Solve rolls the string forward from an initial displacement and velocity
// profile, returning Steps fields of shape (GridPoints, 1). Each mode
// evolves as a damped oscillator at frequency WaveSpeed * wavenumber.
func (s *WaveSolver) Solve(pos, vel []float64) (operator.Trajectory, error) {
	cfg := s.Config
	if len(pos) != cfg.GridPoints || len(vel) != cfg.GridPoints {
		return nil, fmt.Errorf("generator: initial condition needs %d samples, got %d and %d",
			cfg.GridPoints, len(pos), len(vel))
	}
	a0, err := modal.ToModal(s.shapes, pos, cfg.Length)
	if err != nil {
		return nil, err
	}
	b0, err := modal.ToModal(s.shapes, vel, cfg.Length)
	if err != nil {
		return nil, err
	}

	out := make(operator.Trajectory, cfg.Steps)
	amps := make([]float64, cfg.NModes)
	for t := 0; t < cfg.Steps; t++ {
		tt := float64(t) * cfg.DT
		decay := math.Exp(-cfg.Damping * tt)
		for m := 0; m < cfg.NModes; m++ {
			omega := cfg.WaveSpeed * s.wavenumbers[m]
			amps[m] = decay * (a0[m]*math.Cos(omega*tt) + b0[m]/omega*math.Sin(omega*tt))
		}
		disp, err := modal.ToDisplacement(s.shapes, amps, cfg.Length)
		if err != nil {
			return nil, err
		}
		f, err := operator.FieldFromSlice(disp, cfg.GridPoints, 1)
		if err != nil {
			return nil, err
		}
		out[t] = f
	}
	return out, nil
}
