package operator

import "fmt"

// Activation selects the nonlinearity applied inside a layer stack.
type Activation int

const (
	ActivationIdentity Activation = 0 // v
	ActivationReLU     Activation = 1 // max(0, v)
	ActivationGELU     Activation = 2 // 0.5 * v * (1 + erf(v/sqrt(2)))
	ActivationTanh     Activation = 3 // tanh(v)
	ActivationSigmoid  Activation = 4 // 1 / (1 + exp(-v))
)

// Norm selects the normalization applied between encoder layers. Anything
// other than "layer", "batch", "none" or empty is a construction-time error.
type Norm string

const (
	NormLayer Norm = "layer"
	NormBatch Norm = "batch"
	NormNone  Norm = "none"
)

func validNorm(n Norm) error {
	switch n {
	case NormLayer, NormBatch, NormNone, "":
		return nil
	}
	return fmt.Errorf("%w: %q (want \"layer\", \"batch\" or \"none\")", ErrBadNorm, n)
}

// Field is a real-valued sample of the physical state on a spatial grid.
// Shape is (W, C) for 1D fields and (H, W, C) for 2D fields, stored row-major
// with the channel axis fastest.
type Field struct {
	Data  []float64
	Shape []int
}

// NewField allocates a zero-valued field with the given shape.
func NewField(shape ...int) Field {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return Field{Data: make([]float64, n), Shape: shape}
}

// FieldFromSlice wraps data with the given shape. The data is not copied.
func FieldFromSlice(data []float64, shape ...int) (Field, error) {
	n := 1
	for _, s := range shape {
		n *= s
	}
	if len(data) != n {
		return Field{}, fmt.Errorf("%w: shape %v needs %d values, got %d",
			ErrShapeMismatch, shape, n, len(data))
	}
	return Field{Data: data, Shape: shape}, nil
}

// Rank returns the number of spatial dimensions (1 or 2).
func (f Field) Rank() int { return len(f.Shape) - 1 }

// Channels returns the size of the channel axis.
func (f Field) Channels() int { return f.Shape[len(f.Shape)-1] }

// W returns the spatial width (the last spatial axis).
func (f Field) W() int { return f.Shape[len(f.Shape)-2] }

// H returns the spatial height of a 2D field.
func (f Field) H() int { return f.Shape[0] }

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	data := make([]float64, len(f.Data))
	copy(data, f.Data)
	shape := make([]int, len(f.Shape))
	copy(shape, f.Shape)
	return Field{Data: data, Shape: shape}
}

// sameShape reports whether two shapes are identical.
func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkShape validates a field against an expected shape.
func checkShape(f Field, want ...int) error {
	if !sameShape(f.Shape, want) {
		return shapeError(want, f.Shape)
	}
	return nil
}

// Trajectory is a time-ordered sequence of fields.
type Trajectory []Field

// LatentTrajectory is a time-ordered sequence of latent vectors.
type LatentTrajectory [][]float64

// bundleChannels folds the time axis of a trajectory into the channel axis,
// mapping (T, ..., C) to (..., T*C) with time-major channel order.
func bundleChannels(xs Trajectory) (Field, error) {
	if len(xs) == 0 {
		return Field{}, fmt.Errorf("%w: empty trajectory", ErrShapeMismatch)
	}
	first := xs[0]
	for _, x := range xs[1:] {
		if !sameShape(x.Shape, first.Shape) {
			return Field{}, shapeError(first.Shape, x.Shape)
		}
	}
	t := len(xs)
	c := first.Channels()
	spatial := len(first.Data) / c

	shape := make([]int, len(first.Shape))
	copy(shape, first.Shape)
	shape[len(shape)-1] = t * c

	out := Field{Data: make([]float64, spatial*t*c), Shape: shape}
	for ti, x := range xs {
		for p := 0; p < spatial; p++ {
			copy(out.Data[p*t*c+ti*c:p*t*c+ti*c+c], x.Data[p*c:p*c+c])
		}
	}
	return out, nil
}

// unbundleChannels is the inverse of bundleChannels: it splits a (..., T*C)
// field into a trajectory of T fields with C channels each.
func unbundleChannels(x Field, t, c int) (Trajectory, error) {
	if x.Channels() != t*c {
		return nil, fmt.Errorf("%w: cannot split %d channels into %d steps of %d",
			ErrShapeMismatch, x.Channels(), t, c)
	}
	spatial := len(x.Data) / (t * c)
	shape := make([]int, len(x.Shape))
	copy(shape, x.Shape)
	shape[len(shape)-1] = c

	out := make(Trajectory, t)
	for ti := 0; ti < t; ti++ {
		f := Field{Data: make([]float64, spatial*c), Shape: append([]int(nil), shape...)}
		for p := 0; p < spatial; p++ {
			copy(f.Data[p*c:p*c+c], x.Data[p*t*c+ti*c:p*t*c+ti*c+c])
		}
		out[ti] = f
	}
	return out, nil
}
