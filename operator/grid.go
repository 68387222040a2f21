package operator

import "gonum.org/v1/gonum/floats"

// PositionalGrid1D returns the fixed (W, 1) coordinate field with positions
// spanning [0, 1]. It is created once at model construction and never
// trained or mutated.
func PositionalGrid1D(w int) Field {
	g := NewField(w, 1)
	floats.Span(g.Data, 0, 1)
	return g
}

// PositionalGrid2D returns the fixed (H, W, 2) coordinate field whose two
// channels hold the normalized x and y positions of each grid point.
func PositionalGrid2D(h, w int) Field {
	xs := make([]float64, w)
	ys := make([]float64, h)
	floats.Span(xs, 0, 1)
	floats.Span(ys, 0, 1)
	g := NewField(h, w, 2)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			g.Data[(i*w+j)*2] = xs[j]
			g.Data[(i*w+j)*2+1] = ys[i]
		}
	}
	return g
}

// concatChannels appends the channels of g to those of x at every spatial
// position. Spatial shapes must already agree.
func concatChannels(x, g Field) Field {
	cx := x.Channels()
	cg := g.Channels()
	positions := len(x.Data) / cx

	shape := make([]int, len(x.Shape))
	copy(shape, x.Shape)
	shape[len(shape)-1] = cx + cg

	out := Field{Data: make([]float64, positions*(cx+cg)), Shape: shape}
	for p := 0; p < positions; p++ {
		copy(out.Data[p*(cx+cg):], x.Data[p*cx:(p+1)*cx])
		copy(out.Data[p*(cx+cg)+cx:], g.Data[p*cg:(p+1)*cg])
	}
	return out
}
