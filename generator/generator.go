// Package generator produces initial conditions and ground-truth
// trajectories for 1D and 2D wave fields: Gaussian bumps, noise bursts,
// single sine modes, raised-cosine excitations, and a damped modal string
// solver for supervision data.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"

	"github.com/openpde/fieldop/operator"
)

// ErrBadICType reports an unknown initial-condition type string.
var ErrBadICType = errors.New("generator: ic type must be \"pluck\" or \"hammer\"")

// Source draws one initial displacement profile, sampling its own shape
// parameters from rnd.
type Source interface {
	Draw(rnd *rand.Rand) []float64
}

// Gaussian generates a Gaussian bump on a unit-length grid.
type Gaussian struct {
	X  []float64
	DX float64
}

// NewGaussian samples positions on [0, 1] with n points.
func NewGaussian(n int) *Gaussian {
	x := make([]float64, n)
	floats.Span(x, 0, 1)
	return &Gaussian{X: x, DX: x[1] - x[0]}
}

// Sample evaluates the bump at the given mean and width (both fractions of
// the grid). Widths narrower than one grid step are clamped up.
func (g *Gaussian) Sample(mean, std float64) []float64 {
	if std < g.DX {
		std = g.DX
	}
	out := make([]float64, len(g.X))
	for i, x := range g.X {
		d := (x - mean) / std
		out[i] = math.Exp(-d * d)
	}
	return out
}

// Draw samples a bump with mean in [0.3, 0.7) and width in [2*dx, 0.1).
func (g *Gaussian) Draw(rnd *rand.Rand) []float64 {
	mean := 0.3 + 0.4*rnd.Float64()
	std := 2*g.DX + (0.1-2*g.DX)*rnd.Float64()
	return g.Sample(mean, std)
}

// Noise generates uniform noise over the full grid.
type Noise struct {
	N    int
	Low  float64
	High float64
}

// Draw samples uniform values in [Low, High).
func (n *Noise) Draw(rnd *rand.Rand) []float64 {
	out := make([]float64, n.N)
	for i := range out {
		out[i] = n.Low + (n.High-n.Low)*rnd.Float64()
	}
	return out
}

// NoiseBurst generates uniform noise under a Gaussian envelope.
type NoiseBurst struct {
	Envelope *Gaussian
}

// NewNoiseBurst builds a burst source on a unit grid with n points.
func NewNoiseBurst(n int) *NoiseBurst {
	return &NoiseBurst{Envelope: NewGaussian(n)}
}

// Draw samples noise localized around a random burst center.
func (b *NoiseBurst) Draw(rnd *rand.Rand) []float64 {
	mean := 0.3 + 0.4*rnd.Float64()
	std := 2*b.Envelope.DX + (0.1-2*b.Envelope.DX)*rnd.Float64()
	env := b.Envelope.Sample(mean, std)
	out := make([]float64, len(env))
	for i := range out {
		out[i] = rnd.Float64() * env[i]
	}
	return out
}

// SineMode generates a single sine mode sin(k*pi*x).
type SineMode struct {
	X []float64
	K int
}

// NewSineMode builds the k-th mode on a unit grid with n points.
func NewSineMode(n, k int) (*SineMode, error) {
	if k <= 0 {
		return nil, fmt.Errorf("generator: mode number must be positive, got %d", k)
	}
	x := make([]float64, n)
	floats.Span(x, 0, 1)
	return &SineMode{X: x, K: k}, nil
}

// Draw evaluates the mode; it draws nothing from rnd.
func (s *SineMode) Draw(*rand.Rand) []float64 {
	out := make([]float64, len(s.X))
	for i, x := range s.X {
		out[i] = math.Sin(math.Pi * float64(s.K) * x)
	}
	return out
}

// Gaussian2D generates a 2D Gaussian bump as an (nx, ny, 1) field, with the
// second axis scaled by the aspect ratio ly/lx.
type Gaussian2D struct {
	NX, NY      int
	AspectRatio float64
	DX, DY      float64
	gridX       []float64
	gridY       []float64
}

// NewGaussian2D builds the bump generator on an nx-point unit axis and an
// aspect-scaled second axis.
func NewGaussian2D(nx int, aspectRatio float64) *Gaussian2D {
	ny := int(math.Floor(float64(nx-1)*aspectRatio)) + 1
	gx := make([]float64, nx)
	gy := make([]float64, ny)
	floats.Span(gx, 0, 1)
	floats.Span(gy, 0, aspectRatio)
	return &Gaussian2D{
		NX: nx, NY: ny, AspectRatio: aspectRatio,
		DX: gx[1] - gx[0], DY: gy[1] - gy[0],
		gridX: gx, gridY: gy,
	}
}

// Sample evaluates the bump centered at mean (fractions of each axis).
func (g *Gaussian2D) Sample(meanX, meanY, std float64) operator.Field {
	out := operator.NewField(g.NX, g.NY, 1)
	for i, x := range g.gridX {
		for j, y := range g.gridY {
			dx := x - meanX
			dy := y - g.AspectRatio*meanY
			out.Data[i*g.NY+j] = math.Exp(-(dx*dx + dy*dy) / (std * std))
		}
	}
	return out
}

// Draw samples a random bump center in the interior of the plate.
func (g *Gaussian2D) Draw(rnd *rand.Rand) operator.Field {
	std := 2*g.DX + (0.1-2*g.DX)*rnd.Float64()
	if std < g.DY {
		std = g.DY
	}
	return g.Sample(0.3+0.4*rnd.Float64(), 0.3+0.4*rnd.Float64(), std)
}

// PluckHammer splits a displacement profile into the (position, velocity)
// pair of an initial condition: a pluck excites position, a hammer velocity.
func PluckHammer(y []float64, icType string) (pos, vel []float64, err error) {
	zero := make([]float64, len(y))
	switch icType {
	case "pluck":
		return append([]float64(nil), y...), zero, nil
	case "hammer":
		return zero, append([]float64(nil), y...), nil
	default:
		return nil, nil, fmt.Errorf("%w: got %q", ErrBadICType, icType)
	}
}

// ICConfig controls amplitude normalization of a drawn initial condition.
type ICConfig struct {
	Type            string // "pluck" or "hammer"
	MaxAmplitude    float64
	MinAmplitude    float64
	RandomAmplitude bool
}

// RandomInitialCondition draws a profile from the source, normalizes its
// peak amplitude and splits it into position and velocity.
func RandomInitialCondition(rnd *rand.Rand, src Source, cfg ICConfig) (pos, vel []float64, err error) {
	if cfg.RandomAmplitude && cfg.MaxAmplitude <= cfg.MinAmplitude {
		return nil, nil, fmt.Errorf("generator: max amplitude %v must exceed min %v",
			cfg.MaxAmplitude, cfg.MinAmplitude)
	}
	y := src.Draw(rnd)
	amp := cfg.MaxAmplitude
	if cfg.RandomAmplitude {
		amp = cfg.MinAmplitude + (cfg.MaxAmplitude-cfg.MinAmplitude)*rnd.Float64()
	}
	peak := 0.0
	for _, v := range y {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		for i := range y {
			y[i] *= amp / peak
		}
	}
	return PluckHammer(y, cfg.Type)
}

// RaisedCosine evaluates a raised-cosine excitation of the given width
// centered at x0 on a grid of gridPoints samples over the string length.
func RaisedCosine(c0, x0, width, length float64, gridPoints int) []float64 {
	x := make([]float64, gridPoints)
	floats.Span(x, 0, length)
	out := make([]float64, gridPoints)
	for i, xi := range x {
		if math.Abs(xi-x0) <= width {
			out[i] = c0 * 0.5 * (1 + math.Cos(math.Pi*(xi-x0)/width))
		}
	}
	return out
}

// RaisedCosine2D evaluates a radial raised-cosine bump over a 2D grid.
func RaisedCosine2D(grid operator.Field, c0, x0, y0, width float64) operator.Field {
	h, w := grid.H(), grid.W()
	out := operator.NewField(h, w, 1)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			gx := grid.Data[(i*w+j)*2]
			gy := grid.Data[(i*w+j)*2+1]
			dist := math.Hypot(gx-x0, gy-y0)
			if dist <= width {
				out.Data[i*w+j] = c0 * 0.5 * (1 + math.Cos(math.Pi*dist/width))
			}
		}
	}
	return out
}

// BandLimit removes all frequency content above maxBin from a real series,
// keeping the conjugate-symmetric bins so the result stays real.
func BandLimit(y []float64, maxBin int) []float64 {
	n := len(y)
	spec := fft.FFTReal(y)
	for k := maxBin + 1; k < n-maxBin; k++ {
		spec[k] = 0
	}
	inv := fft.IFFT(spec)
	out := make([]float64, n)
	for i, v := range inv {
		out[i] = real(v)
	}
	return out
}
