// Package batch folds per-entry calculator results into one batch result.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ChicagoDave/auditcalc/pkg/calc"
)

// Summable is a result that supports field-wise addition. The zero value must
// be the additive identity.
type Summable[R any] interface {
	Add(R) R
}

// Options controls batch evaluation.
type Options struct {
	// Workers bounds concurrent entry evaluation. Values below 2 evaluate
	// entries sequentially.
	Workers int
}

// Run evaluates every entry with fn and sums the results in input order.
// It returns the batch total and the per-entry results. An empty batch is
// rejected. A failing entry is reported as a *calc.IndexError; when several
// entries fail, the lowest index is reported.
func Run[E any, R Summable[R]](ctx context.Context, entries []E, fn func(E) (R, error), opts Options) (R, []R, error) {
	var total R
	if len(entries) == 0 {
		return total, nil, calc.Invalid("entries", 0, "at least one entry")
	}

	results := make([]R, len(entries))
	errs := make([]error, len(entries))

	if opts.Workers < 2 {
		for i, e := range entries {
			if err := ctx.Err(); err != nil {
				return total, nil, err
			}
			results[i], errs[i] = fn(e)
			if errs[i] != nil {
				return total, nil, &calc.IndexError{Index: i, Err: errs[i]}
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i := range entries {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i], errs[i] = fn(entries[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return total, nil, err
		}
		for i, err := range errs {
			if err != nil {
				return total, nil, &calc.IndexError{Index: i, Err: err}
			}
		}
	}

	for _, r := range results {
		total = total.Add(r)
	}
	return total, results, nil
}
