package config

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
