package render

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"modforge/pkg/compose"
)

// Composer renders one task to its composite path.
type Composer interface {
	Compose(t *compose.Task) error
}

func NewRunner(c Composer, opts ...Option) *Runner {
	r := &Runner{
		c:       c,
		log:     zap.NewNop(),
		workers: 1,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

type Runner struct {
	c       Composer
	log     *zap.Logger
	workers int
}

// Run composes every task and stops at the first failure.
func (r *Runner) Run(ctx context.Context, tasks []*compose.Task) error {
	start := time.Now()

	var err error
	if r.workers < 2 {
		err = r.serial(ctx, tasks)
	} else {
		err = r.parallel(ctx, tasks)
	}
	if err != nil {
		return err
	}

	r.log.With(
		zap.Int("tasks", len(tasks)),
		zap.Int("workers", r.workers),
		zap.String("cost", time.Since(start).String()),
	).Info("rendered")

	return nil
}

func (r *Runner) serial(ctx context.Context, tasks []*compose.Task) error {
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.compose(t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) parallel(ctx context.Context, tasks []*compose.Task) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return r.compose(t)
		})
	}

	return g.Wait()
}

func (r *Runner) compose(t *compose.Task) error {
	if err := r.c.Compose(t); err != nil {
		r.log.With(zap.String("task", t.String()), zap.Error(err)).Info("compose failed")
		return fmt.Errorf("render %s: %w", t, err)
	}
	return nil
}
