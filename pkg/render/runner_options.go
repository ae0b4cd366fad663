package render

import "go.uber.org/zap"

type Option func(r *Runner)

// WithWorkers bounds how many tasks run at once. Values below 2 run the list
// in order on the calling goroutine.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) {
		r.log = log.With(zap.String("via", "runner"))
	}
}
