package operator

import (
	"fmt"
	"math"
	"math/rand"
)

// Dense is a linear map between channel vectors, weight layout [in*out]
// with bias [out]. Applied to a field it acts pointwise on the channel axis
// at every spatial position (a 1x1 convolution).
type Dense struct {
	In     int
	Out    int
	Weight []float64
	Bias   []float64
}

// NewDense allocates a zero-valued dense map.
func NewDense(in, out int) Dense {
	return Dense{
		In: in, Out: out,
		Weight: make([]float64, in*out),
		Bias:   make([]float64, out),
	}
}

// Randomize fills the weights with He-initialized values and zeroes the bias.
func (d Dense) Randomize(rnd *rand.Rand) {
	stddev := math.Sqrt(2.0 / float64(d.In))
	for i := range d.Weight {
		d.Weight[i] = rnd.NormFloat64() * stddev
	}
	for i := range d.Bias {
		d.Bias[i] = 0
	}
}

// ApplyVec maps a single channel vector.
func (d Dense) ApplyVec(v []float64) ([]float64, error) {
	if len(v) != d.In {
		return nil, fmt.Errorf("%w: dense expects %d inputs, got %d",
			ErrShapeMismatch, d.In, len(v))
	}
	out := make([]float64, d.Out)
	copy(out, d.Bias)
	for i, x := range v {
		if x == 0 {
			continue
		}
		row := d.Weight[i*d.Out : (i+1)*d.Out]
		for o, w := range row {
			out[o] += x * w
		}
	}
	return out, nil
}

// Apply maps the channel axis of a field at every spatial position.
func (d Dense) Apply(x Field) (Field, error) {
	c := x.Channels()
	if c != d.In {
		return Field{}, fmt.Errorf("%w: dense expects %d channels, got %d",
			ErrShapeMismatch, d.In, c)
	}
	positions := len(x.Data) / c

	shape := make([]int, len(x.Shape))
	copy(shape, x.Shape)
	shape[len(shape)-1] = d.Out

	out := Field{Data: make([]float64, positions*d.Out), Shape: shape}
	for p := 0; p < positions; p++ {
		in := x.Data[p*c : (p+1)*c]
		dst := out.Data[p*d.Out : (p+1)*d.Out]
		copy(dst, d.Bias)
		for i, v := range in {
			if v == 0 {
				continue
			}
			row := d.Weight[i*d.Out : (i+1)*d.Out]
			for o, w := range row {
				dst[o] += v * w
			}
		}
	}
	return out, nil
}

// MLP is a sequence of dense maps with the activation applied between them
// (not after the final map).
type MLP struct {
	Layers     []Dense
	Activation Activation
}

// NewMLP builds an MLP through the given channel widths, e.g. widths
// (32, 128, 4) gives two dense maps 32->128 and 128->4.
func NewMLP(activation Activation, widths ...int) (MLP, error) {
	if len(widths) < 2 {
		return MLP{}, fmt.Errorf("%w: mlp needs at least two widths", ErrBadConfig)
	}
	layers := make([]Dense, len(widths)-1)
	for i := range layers {
		layers[i] = NewDense(widths[i], widths[i+1])
	}
	return MLP{Layers: layers, Activation: activation}, nil
}

// Randomize randomizes every layer.
func (m MLP) Randomize(rnd *rand.Rand) {
	for _, l := range m.Layers {
		l.Randomize(rnd)
	}
}

// Apply maps the channel axis of a field through the full stack.
func (m MLP) Apply(x Field) (Field, error) {
	var err error
	for i, l := range m.Layers {
		if i > 0 {
			activateSlice(x.Data, m.Activation)
		}
		x, err = l.Apply(x)
		if err != nil {
			return Field{}, err
		}
	}
	return x, nil
}

// ApplyVec maps a single vector through the full stack.
func (m MLP) ApplyVec(v []float64) ([]float64, error) {
	var err error
	for i, l := range m.Layers {
		if i > 0 {
			activateSlice(v, m.Activation)
		}
		v, err = l.ApplyVec(v)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

const normEps = 1e-5

// normLayer normalizes a feature vector with learned scale and shift.
// The layer kind normalizes over the features of one input; the batch kind
// uses stored running statistics, as this core only runs inference.
type normLayer struct {
	kind  Norm
	dim   int
	gamma []float64
	beta  []float64
	mean  []float64 // batch kind only
	vari  []float64 // batch kind only
}

func newNormLayer(kind Norm, dim int) normLayer {
	n := normLayer{kind: kind, dim: dim}
	if kind == NormNone || kind == "" {
		return n
	}
	n.gamma = make([]float64, dim)
	n.beta = make([]float64, dim)
	for i := range n.gamma {
		n.gamma[i] = 1
	}
	if kind == NormBatch {
		n.mean = make([]float64, dim)
		n.vari = make([]float64, dim)
		for i := range n.vari {
			n.vari[i] = 1
		}
	}
	return n
}

func (n normLayer) apply(v []float64) []float64 {
	switch n.kind {
	case NormLayer:
		mean := 0.0
		for _, x := range v {
			mean += x
		}
		mean /= float64(len(v))
		vari := 0.0
		for _, x := range v {
			d := x - mean
			vari += d * d
		}
		vari /= float64(len(v))
		inv := 1 / math.Sqrt(vari+normEps)
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = (x-mean)*inv*n.gamma[i] + n.beta[i]
		}
		return out
	case NormBatch:
		out := make([]float64, len(v))
		for i, x := range v {
			inv := 1 / math.Sqrt(n.vari[i]+normEps)
			out[i] = (x-n.mean[i])*inv*n.gamma[i] + n.beta[i]
		}
		return out
	default:
		return v
	}
}
