package options

import (
	"log/slog"
	"os"

	"github.com/robbyt/go-fieldexpr/engine"
)

// DefaultConfig initializes a Config with sensible defaults: optimized, blocking
// compilation and single-worker evaluation.
func DefaultConfig() *Config {
	cfg := &Config{
		optimize:  true,
		wait:      true,
		workers:   1,
		chunkSize: engine.DefaultChunkSize,
	}
	cfg.SetHandler(DefaultHandler())
	return cfg
}

// DefaultHandler returns the default logging handler
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stdout, nil)
}

// WithDefaults applies default values to any config properties that are unset
func WithDefaults() Option {
	return func(c *Config) error {
		if c.handler == nil {
			c.handler = DefaultHandler()
		}
		if c.workers == 0 {
			c.workers = 1
		}
		if c.chunkSize == 0 {
			c.chunkSize = engine.DefaultChunkSize
		}
		return nil
	}
}
