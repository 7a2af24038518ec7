package amplifier

import (
	"context"
	"fmt"

	"github.com/jcorbin/intcode"
)

// MaxSignal runs every permutation of phases through run, returning the
// highest signal and the phase order that produced it. Ties keep the first
// permutation found.
func MaxSignal(
	ctx context.Context,
	prog intcode.Program,
	phases []int64,
	run Runner,
	opts ...intcode.Option,
) (best int64, bestPhases []int64, err error) {
	if len(phases) == 0 {
		return 0, nil, ErrNoStages
	}
	err = permute(append([]int64(nil), phases...), func(perm []int64) error {
		signal, err := run(ctx, prog, perm, opts...)
		if err != nil {
			return fmt.Errorf("phases %v: %w", perm, err)
		}
		if bestPhases == nil || signal > best {
			best = signal
			bestPhases = append(bestPhases[:0], perm...)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return best, bestPhases, nil
}

// permute calls each with every permutation of vals, generated in place by
// Heap's algorithm, stopping at the first error.
func permute(vals []int64, each func([]int64) error) error {
	if err := each(vals); err != nil {
		return err
	}
	c := make([]int, len(vals))
	for i := 0; i < len(vals); {
		if c[i] < i {
			if i%2 == 0 {
				vals[0], vals[i] = vals[i], vals[0]
			} else {
				vals[c[i]], vals[i] = vals[i], vals[c[i]]
			}
			if err := each(vals); err != nil {
				return err
			}
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
	return nil
}
