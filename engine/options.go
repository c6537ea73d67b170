package engine

import (
	"fmt"
	"log/slog"
	"os"
)

const (
	// DefaultChunkSize is the batch length above which parallel evaluation splits work.
	DefaultChunkSize = 4096
)

// FunctionalOption configures an Interpreter.
type FunctionalOption func(*Interpreter) error

// WithLogHandler sets the log handler for the interpreter.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(i *Interpreter) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		i.logHandler = handler
		i.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the interpreter.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(i *Interpreter) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		i.logger = logger
		i.logHandler = nil
		return nil
	}
}

// WithWorkers sets how many chunks of one batch may be evaluated concurrently.
// One disables chunking.
func WithWorkers(n int) FunctionalOption {
	return func(i *Interpreter) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		i.workers = n
		return nil
	}
}

// WithChunkSize sets the number of points per chunk in parallel evaluation.
func WithChunkSize(n int) FunctionalOption {
	return func(i *Interpreter) error {
		if n < 1 {
			return fmt.Errorf("chunk size must be at least 1, got %d", n)
		}
		i.chunkSize = n
		return nil
	}
}

func (i *Interpreter) applyDefaults() {
	if i.logHandler == nil && i.logger == nil {
		i.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	if i.workers == 0 {
		i.workers = 1
	}
	if i.chunkSize == 0 {
		i.chunkSize = DefaultChunkSize
	}
}

func (i *Interpreter) validate() error {
	if i.logHandler == nil && i.logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}
	return nil
}
