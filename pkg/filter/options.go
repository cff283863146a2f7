package filter

import (
	"runtime"

	"github.com/charmbracelet/log"
)

func defaultOptions() *options {
	return &options{
		logger:  log.Default(),
		workers: runtime.NumCPU(),
	}
}

type options struct {
	logger  *log.Logger
	workers int
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}

	return o
}

type Option func(o *options)

func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithWorkers bounds the number of concurrent decisions in DecideAll.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
