package question

import (
	"github.com/charmbracelet/log"
)

func defaultOptions() *options {
	return &options{
		logger: log.Default(),
	}
}

type options struct {
	logger *log.Logger
	seed   map[string]any
}

func (o *options) apply(opts ...EngineOption) *options {
	for _, opt := range opts {
		opt(o)
	}

	return o
}

type EngineOption func(o *options)

func WithLogger(logger *log.Logger) EngineOption {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSeed starts the context from existing values instead of an empty map.
func WithSeed(seed map[string]any) EngineOption {
	return func(o *options) {
		o.seed = seed
	}
}
