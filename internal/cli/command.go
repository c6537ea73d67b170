package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/robbyt/go-fieldexpr"
	"github.com/robbyt/go-fieldexpr/execution/script/loader"
	"github.com/robbyt/go-fieldexpr/expr"
	"github.com/robbyt/go-fieldexpr/internal/config"
	"github.com/robbyt/go-fieldexpr/machines/starlark"
	"github.com/robbyt/go-fieldexpr/options"
)

// loadModule fetches a field script from a path or URL and executes it.
func loadModule(ctx context.Context, location string) (*starlark.Module, error) {
	l, err := loader.Infer(location)
	if err != nil {
		return nil, err
	}
	src, err := loader.ReadAll(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return starlark.Load(ctx, loader.Name(l), src, starlark.WithLogHandler(GetHandler(ctx)))
}

// loadField loads a script and returns one of its fields.
func loadField(ctx context.Context, path, name string) (expr.Node, error) {
	m, err := loadModule(ctx, path)
	if err != nil {
		return nil, err
	}
	return m.Field(name)
}

// newEvaluator builds an evaluator from the CLI configuration.
func newEvaluator(ctx context.Context, cfg *config.Config) (*fieldexpr.Evaluator, error) {
	return fieldexpr.NewEvaluator(
		options.WithLogHandler(GetHandler(ctx)),
		options.WithOptimize(cfg.Optimize),
		options.WithWait(true),
		options.WithWorkers(cfg.Workers),
		options.WithChunkSize(cfg.ChunkSize),
	)
}

// prepare applies the compile setting to a loaded field.
func prepare(ctx context.Context, ev *fieldexpr.Evaluator, cfg *config.Config, n expr.Node) (expr.Node, error) {
	if !cfg.Compile {
		return n, nil
	}
	return ev.Compile(ctx, n)
}

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

// formatComplex drops a zero imaginary part.
func formatComplex(v complex128) string {
	if imag(v) == 0 {
		return formatFloat(real(v))
	}
	return strconv.FormatComplex(v, 'g', 12, 128)
}
