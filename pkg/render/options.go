package render

import (
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/olimci/architect/pkg/condition"
)

func defaultOptions() *options {
	return &options{
		logger:  log.Default(),
		workers: runtime.NumCPU(),
		rootDir: ".",
	}
}

type options struct {
	logger    *log.Logger
	evaluator condition.Evaluator
	workers   int
	force     bool
	dryRun    bool
	rootDir   string
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

// WithEvaluator sets the engine for conditional files.
func WithEvaluator(evaluator condition.Evaluator) Option {
	return func(o *options) {
		o.evaluator = evaluator
	}
}

func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithForce allows existing files in the target to be overwritten.
func WithForce(force bool) Option {
	return func(o *options) {
		o.force = force
	}
}

// WithDryRun plans and renders everything but writes nothing.
func WithDryRun(dryRun bool) Option {
	return func(o *options) {
		o.dryRun = dryRun
	}
}

// WithRootDir sets the template directory reported to templates as
// __template__.file.rootDir.
func WithRootDir(dir string) Option {
	return func(o *options) {
		o.rootDir = dir
	}
}
