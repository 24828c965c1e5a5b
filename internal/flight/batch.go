package flight

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/soarsim/internal/assembler"
	"github.com/san-kum/soarsim/internal/dynamo"
)

// BuildFunc assembles a fresh, unshared setup for the run with the given
// seed.
type BuildFunc func(seed uint64) (*assembler.Setup, error)

// Batch flies several independent runs concurrently. Components are never
// shared: each run gets its own setup from build.
type Batch struct {
	build     BuildFunc
	runs      int
	seedStart uint64
	metrics   func() []dynamo.Metric
}

func NewBatch(build BuildFunc, runs int, seedStart uint64) *Batch {
	return &Batch{build: build, runs: runs, seedStart: seedStart}
}

// WithMetrics installs a per-run metric constructor.
func (b *Batch) WithMetrics(mk func() []dynamo.Metric) *Batch {
	b.metrics = mk
	return b
}

// Run returns the results in seed order, or the first error. At least one
// run is required.
func (b *Batch) Run(ctx context.Context) ([]*Result, error) {
	if b.runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d: %w", b.runs, dynamo.ErrParameterBounds)
	}
	results := make([]*Result, b.runs)
	errs := make([]error, b.runs)

	var wg sync.WaitGroup
	for i := 0; i < b.runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := b.build(b.seedStart + uint64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			f := New(s)
			if b.metrics != nil {
				for _, m := range b.metrics() {
					f.AddMetric(m)
				}
			}
			results[idx], errs[idx] = f.Run(ctx, s.Time)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
