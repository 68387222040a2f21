// Package modal converts between modal and physical coordinates of an
// ideal string: sine mode shapes sampled on a grid, projections between
// modal amplitudes and displacement, and the modal coefficients of a pluck.
package modal

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrBadPluck reports pluck parameters outside the string.
var ErrBadPluck = errors.New("modal: pluck position must lie strictly inside the string")

// Wavenumbers returns the first n wavenumbers k_m = m*pi/length, m = 1..n.
func Wavenumbers(n int, length float64) []float64 {
	out := make([]float64, n)
	for m := 1; m <= n; m++ {
		out[m-1] = float64(m) * math.Pi / length
	}
	return out
}

// Matrix returns the modal-shape matrix with one column per wavenumber:
// M[i][j] = sin(grid[i] * k[j]).
func Matrix(grid, wavenumbers []float64) *mat.Dense {
	m := mat.NewDense(len(grid), len(wavenumbers), nil)
	for i, x := range grid {
		for j, k := range wavenumbers {
			m.Set(i, j, math.Sin(x*k))
		}
	}
	return m
}

// ToDisplacement converts modal amplitudes to physical displacement on the
// grid the shapes were sampled on: (2/length) * shapes * amplitudes.
func ToDisplacement(shapes *mat.Dense, amplitudes []float64, length float64) ([]float64, error) {
	rows, cols := shapes.Dims()
	if cols != len(amplitudes) {
		return nil, fmt.Errorf("modal: %d mode shapes, %d amplitudes", cols, len(amplitudes))
	}
	var out mat.VecDense
	out.MulVec(shapes, mat.NewVecDense(len(amplitudes), amplitudes))
	scale := 2 / length
	res := make([]float64, rows)
	for i := range res {
		res[i] = scale * out.AtVec(i)
	}
	return res, nil
}

// ToModal converts physical displacement back to modal amplitudes:
// (length/gridpoints) * shapes^T * displacement.
func ToModal(shapes *mat.Dense, displacement []float64, length float64) ([]float64, error) {
	rows, cols := shapes.Dims()
	if rows != len(displacement) {
		return nil, fmt.Errorf("modal: %d grid points in shapes, %d displacements", rows, len(displacement))
	}
	var out mat.VecDense
	out.MulVec(shapes.T(), mat.NewVecDense(len(displacement), displacement))
	scale := length / float64(len(displacement))
	res := make([]float64, cols)
	for i := range res {
		res[i] = scale * out.AtVec(i)
	}
	return res, nil
}

// Pluck returns the Fourier-sine coefficients of the initial deflection of
// a string plucked at position xe with deflection hi.
func Pluck(wavenumbers []float64, xe, hi, length float64) ([]float64, error) {
	if xe <= 0 || xe >= length {
		return nil, fmt.Errorf("%w: xe=%v, length=%v", ErrBadPluck, xe, length)
	}
	out := make([]float64, len(wavenumbers))
	scaling := hi * length / (length - xe)
	for i, k := range wavenumbers {
		out[i] = scaling * math.Sin(k*xe) / (k * xe) / k
	}
	return out, nil
}
