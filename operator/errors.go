package operator

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch reports an input whose shape disagrees with the
	// shape the component was constructed for.
	ErrShapeMismatch = errors.New("operator: shape mismatch")

	// ErrBadModes reports a mode count exceeding the frequency bins
	// available after padding.
	ErrBadModes = errors.New("operator: mode count exceeds available frequency bins")

	// ErrBadNorm reports an unsupported normalization mode string.
	ErrBadNorm = errors.New("operator: unsupported normalization mode")

	// ErrBadLatent reports a latent vector whose width disagrees with the
	// width the component was constructed for.
	ErrBadLatent = errors.New("operator: latent width mismatch")

	// ErrBadConfig reports an invalid construction parameter.
	ErrBadConfig = errors.New("operator: invalid configuration")
)

// shapeError wraps ErrShapeMismatch with the expected and actual shapes.
func shapeError(want, got []int) error {
	return fmt.Errorf("%w: expected %v, got %v", ErrShapeMismatch, want, got)
}

// latentError wraps ErrBadLatent with the expected and actual widths.
func latentError(want, got int) error {
	return fmt.Errorf("%w: expected %d, got %d", ErrBadLatent, want, got)
}
