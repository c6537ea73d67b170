// Package cli provides the command-line interface for fieldexpr.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-fieldexpr/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

type configKey struct{}

type handlerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "fieldexpr",
		Short: "Evaluate and integrate symbolic field expressions",
		Long: `fieldexpr loads fields defined in Starlark scripts, evaluates them at points of a
structured simplex mesh, integrates them, and shows the plans the compiler builds.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			if cfg.ConfigFile != "" {
				slog.New(handler).Info("using config file", "path", cfg.ConfigFile)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, handlerKey{}, slog.Handler(handler))
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./fieldexpr.yaml)")
	flags.Int("dim", config.DefaultDim, "Mesh dimension (2 or 3)")
	flags.Int("n", config.DefaultN, "Cells per axis of the unit square or cube")
	flags.Int("order", config.DefaultOrder, "Quadrature order")
	flags.Bool("optimize", true, "Run the optimizing compiler passes")
	flags.Bool("compile", false, "Compile fields before evaluating them")
	flags.Int("workers", 1, "Batch chunks evaluated concurrently")
	flags.Int("chunk-size", config.DefaultChunkSize, "Points per chunk in parallel evaluation")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewFieldsCommand())
	rootCmd.AddCommand(NewEvalCommand())
	rootCmd.AddCommand(NewIntegrateCommand())
	rootCmd.AddCommand(NewPlanCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	c := &config.Config{Optimize: true}
	c.ApplyDefaults()
	return c
}

// GetHandler retrieves the log handler from the command context.
func GetHandler(ctx context.Context) slog.Handler {
	if h, ok := ctx.Value(handlerKey{}).(slog.Handler); ok {
		return h
	}
	return slog.DiscardHandler
}
