package operator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchedMatchesSequential(t *testing.T) {
	square := func(x float64) (float64, error) { return x * x, nil }
	xs := []float64{1, -2, 3.5, 0, 7}

	got, err := Batched(square)(xs)
	require.NoError(t, err)
	require.Len(t, got, len(xs))
	for i, x := range xs {
		want, _ := square(x)
		require.Equal(t, want, got[i])
	}
}

func TestBatchedEmpty(t *testing.T) {
	got, err := Batched(func(x int) (int, error) { return x, nil })(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestBatchedReportsElement(t *testing.T) {
	errOdd := errors.New("odd input")
	f := func(x int) (int, error) {
		if x%2 == 1 {
			return 0, fmt.Errorf("%w: %d", errOdd, x)
		}
		return x / 2, nil
	}

	_, err := Batched(f)([]int{0, 2, 5, 8})
	require.Error(t, err)
	assert.ErrorIs(t, err, errOdd)
	assert.Contains(t, err.Error(), "batch element 2")
}
