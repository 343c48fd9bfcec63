// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package cityscapes

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ForEach loads every example of ds with up to parallelism concurrent readers, calling fn for
// each of them. fn is called concurrently, in no particular order.
//
// If parallelism <= 0, runtime.NumCPU() is used. The first error returned by Dataset.Get or fn
// stops the loading of further examples and is returned. Cancelling ctx has the same effect.
func ForEach(ctx context.Context, ds *Dataset, parallelism int, fn func(index int, ex Example) error) error {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for index := range ds.Len() {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			ex, err := ds.Get(index)
			if err != nil {
				return err
			}
			return errors.WithMessagef(fn(index, ex), "processing example %d", index)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
