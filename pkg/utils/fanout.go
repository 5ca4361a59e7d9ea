package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FanOut runs fn for every index in [0, n) with at most limit calls in
// flight and returns the per-index errors. A failing call never cancels its
// siblings; ctx cancellation is reported for calls that had not started.
func FanOut(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// CountNil reports how many entries of errs are nil.
func CountNil(errs []error) int {
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		}
	}
	return ok
}
