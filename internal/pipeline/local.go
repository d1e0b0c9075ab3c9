package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Runner is a stage that walks its units until done.
type Runner interface {
	Run(ctx context.Context) error
}

// RunConcurrently runs stages side by side. They coordinate only through the
// filesystem; the first failure cancels the others.
func RunConcurrently(ctx context.Context, stages ...Runner) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, stage := range stages {
		g.Go(func() error {
			return stage.Run(ctx)
		})
	}
	return g.Wait()
}
