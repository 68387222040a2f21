package operator

import (
	"fmt"
	"math"
)

// MSE returns the mean squared error between two equal-length series.
func MSE(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("%w: %d vs %d values", ErrShapeMismatch, len(yTrue), len(yPred))
	}
	sum := 0.0
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return sum / float64(len(yTrue)), nil
}

// MAE returns the mean absolute error between two equal-length series.
func MAE(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("%w: %d vs %d values", ErrShapeMismatch, len(yTrue), len(yPred))
	}
	sum := 0.0
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue)), nil
}

// RelMSE returns the mean squared error normalized by the mean square of
// the reference.
func RelMSE(yTrue, yPred []float64) (float64, error) {
	num, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	den := 0.0
	for _, v := range yTrue {
		den += v * v
	}
	den /= float64(len(yTrue))
	return num / den, nil
}

// RelMAE returns the mean absolute error normalized by the mean absolute
// value of the reference.
func RelMAE(yTrue, yPred []float64) (float64, error) {
	num, err := MAE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	den := 0.0
	for _, v := range yTrue {
		den += math.Abs(v)
	}
	den /= float64(len(yTrue))
	return num / den, nil
}

// MaxAbsDiff returns the maximum absolute difference between two series,
// comparing up to the shorter length.
func MaxAbsDiff(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	m := 0.0
	for i := 0; i < n; i++ {
		d := math.Abs(a[i] - b[i])
		if d > m {
			m = d
		}
	}
	return m
}
