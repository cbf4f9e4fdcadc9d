package gradmesh

import "log/slog"

// Option configures a SoftwareRenderer during creation.
//
// Example:
//
//	r, err := gradmesh.NewSoftwareRenderer(cfg,
//	    gradmesh.WithWorkerPoolSize(4),
//	    gradmesh.WithProgress(func(done, total int) { ... }))
type Option func(*options)

// options holds optional configuration for renderer creation.
type options struct {
	logger   *slog.Logger
	progress func(done, total int)
	workers  int
}

// WithLogger sets the logger used by the renderer instead of the package
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithProgress registers a callback invoked after each tile is rasterized,
// with the number of finished tiles and the tile total of the draw.
// The callback is called from worker goroutines and must be safe for
// concurrent use.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithWorkerPoolSize overrides PipelineConfig.Workers.
func WithWorkerPoolSize(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
