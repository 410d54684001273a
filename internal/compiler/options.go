package compiler

import (
	"runtime"

	"go.uber.org/zap"

	typeres "github.com/hanpama/gqlmodel/internal/typeres"
)

const defaultCacheSize = 512

type options struct {
	logger    *zap.Logger
	scalars   typeres.ScalarMap
	workers   int
	cacheSize int
}

// Option configures a Compiler.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:    zap.NewNop(),
		workers:   runtime.GOMAXPROCS(0),
		cacheSize: defaultCacheSize,
	}
}

// WithLogger sets the logger. Compilation logs one debug line per document
// and one warn line per diagnostic.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithScalars sets the custom scalar mapping.
func WithScalars(m typeres.ScalarMap) Option {
	return func(o *options) { o.scalars = m }
}

// WithWorkers bounds the number of documents compiled at once. Values below
// one fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithCacheSize sets how many compiled documents are kept between Compile
// calls. Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.cacheSize = n
		}
	}
}
