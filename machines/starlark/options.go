package starlark

import (
	"fmt"
	"log/slog"
	"os"
)

// FunctionalOption is a function that configures a Loader instance
type FunctionalOption func(*Loader) error

// WithLogHandler creates an option to set the log handler for the field loader.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(l *Loader) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		l.logHandler = handler
		// Clear logger if handler is explicitly set
		l.logger = nil
		return nil
	}
}

// WithLogger creates an option to set a specific logger for the field loader.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(l *Loader) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		l.logger = logger
		// Clear handler if logger is explicitly set
		l.logHandler = nil
		return nil
	}
}

// validate checks if the loader configuration is valid
func (l *Loader) validate() error {
	if l.logHandler == nil && l.logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}
	return nil
}

// applyDefaults sets the default values for a loader
func (l *Loader) applyDefaults() {
	if l.logHandler == nil && l.logger == nil {
		l.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
}
