// Package pool provides the data-parallel worker pool used to parallelize
// batch keygen (ste.BatchGetPK) (spec.md SS5: "may be executed by a
// data-parallel worker pool; the contract is that results are identical
// bit-for-bit to the serial path"). Adapted from the teacher's
// pool.NewPool(0) call convention, built on golang.org/x/sync/errgroup.
package pool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs a fixed-size batch of independent, index-addressed jobs
// concurrently. It has no queue and no persistent goroutines: each Run
// call spins up its own errgroup and tears it down on completion, which is
// what lets callers guarantee bit-identical results regardless of
// scheduling — every job writes to its own output slot and nothing is
// shared between jobs.
type Pool struct {
	workers int
}

// NewPool returns a Pool with the given worker concurrency. A size of 0
// means "use GOMAXPROCS", mirroring the teacher's NewPool(0) convention
// for "use all available cores".
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: size}
}

// Close is a no-op retained for API symmetry with the teacher's pool,
// which tears down persistent worker goroutines; this Pool has none to
// tear down.
func (p *Pool) Close() {}

// Run executes fn(i) for every i in [0, n), across up to p.workers
// goroutines, and returns the first error encountered (if any). Each
// invocation of fn is responsible for writing to its own index of the
// caller's output slice, so results are deterministic and independent of
// execution order.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
