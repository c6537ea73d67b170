package options

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-fieldexpr/execution/data"
)

// Config holds all configuration for evaluating and compiling fields
type Config struct {
	// Logger for the evaluator and compiler
	handler slog.Handler
	// Run the optimization passes when compiling
	optimize bool
	// Block until the plan is published when compiling
	wait bool
	// Number of chunks of one batch evaluated concurrently
	workers int
	// Points per chunk in parallel evaluation
	chunkSize int
	// Upper bound on a blocking compile; zero waits indefinitely
	compileTimeout time.Duration
	// Source of points for provider-based evaluation
	dataProvider data.Provider
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithLogHandler sets the log handler for the evaluator and compiler
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler != nil {
			c.handler = handler
		}
		return nil
	}
}

// WithOptimize enables the optimization passes of the plan compiler
func WithOptimize(optimize bool) Option {
	return func(c *Config) error {
		c.optimize = optimize
		return nil
	}
}

// WithWait makes compilation block until the plan is ready
func WithWait(wait bool) Option {
	return func(c *Config) error {
		c.wait = wait
		return nil
	}
}

// WithWorkers sets the number of batch chunks evaluated concurrently
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		c.workers = n
		return nil
	}
}

// WithChunkSize sets the number of points per chunk in parallel evaluation
func WithChunkSize(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("chunk size must be at least 1, got %d", n)
		}
		c.chunkSize = n
		return nil
	}
}

// WithCompileTimeout bounds how long a blocking compile waits for its plan
func WithCompileTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("compile timeout cannot be negative, got %s", d)
		}
		c.compileTimeout = d
		return nil
	}
}

// WithDataProvider sets the point provider
func WithDataProvider(provider data.Provider) Option {
	return func(c *Config) error {
		if provider != nil {
			c.dataProvider = provider
		}
		return nil
	}
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.handler == nil {
		return fmt.Errorf("no log handler specified")
	}
	if c.workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.chunkSize < 1 {
		return fmt.Errorf("chunk size must be at least 1")
	}
	return nil
}

// GetHandler returns the configured log handler
func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

// SetHandler sets the log handler
func (c *Config) SetHandler(handler slog.Handler) {
	c.handler = handler
}

// GetOptimize reports whether compilation runs the optimization passes
func (c *Config) GetOptimize() bool {
	return c.optimize
}

// GetWait reports whether compilation blocks until the plan is ready
func (c *Config) GetWait() bool {
	return c.wait
}

// GetWorkers returns the number of concurrent chunks
func (c *Config) GetWorkers() int {
	return c.workers
}

// GetChunkSize returns the points per chunk
func (c *Config) GetChunkSize() int {
	return c.chunkSize
}

// GetCompileTimeout returns the blocking compile bound
func (c *Config) GetCompileTimeout() time.Duration {
	return c.compileTimeout
}

// GetDataProvider returns the configured point provider
func (c *Config) GetDataProvider() data.Provider {
	return c.dataProvider
}
