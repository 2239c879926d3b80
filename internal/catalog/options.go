package catalog

import (
	"runtime"

	"shapekit/internal/factory"
)

type config struct {
	workers  int
	logger   Logger
	registry *factory.FunctionRegistry
}

func defaultConfig() config {
	return config{
		workers: runtime.GOMAXPROCS(0),
		logger:  noopLogger{},
	}
}

// Option configures Build.
type Option func(*config)

// WithWorkers bounds how many derivations Derive runs at once. Values below
// one mean one.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.workers = max(n, 1)
	}
}

// WithLogger attaches a derivation logger.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}

		cfg.logger = logger
	}
}

// WithRegistry exposes registry to factory expressions instead of
// factory.DefaultRegistry.
func WithRegistry(registry *factory.FunctionRegistry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}
