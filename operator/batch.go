package operator

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Batched lifts a single-element transform into one over a leading batch
// axis. The same parameters back every element; nothing is duplicated or
// split per element, and the output is positionally aligned with the input.
// Elements are processed in parallel, which is value-equivalent to invoking
// f once per element and stacking the results, since f is pure.
func Batched[In, Out any](f func(In) (Out, error)) func([]In) ([]Out, error) {
	return func(xs []In) ([]Out, error) {
		out := make([]Out, len(xs))
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, x := range xs {
			i, x := i, x
			g.Go(func() error {
				y, err := f(x)
				if err != nil {
					return fmt.Errorf("batch element %d: %w", i, err)
				}
				out[i] = y
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	}
}
