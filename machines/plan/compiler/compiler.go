package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/robbyt/go-fieldexpr/expr"
	"github.com/robbyt/go-fieldexpr/internal/helpers"
	"github.com/robbyt/go-fieldexpr/machines/plan"
	"github.com/robbyt/go-fieldexpr/machines/plan/compiler/internal/lower"
)

const tracerName = "github.com/robbyt/go-fieldexpr/machines/plan/compiler"

// Compiler turns expression nodes into register programs.
type Compiler struct {
	optimize   bool
	logHandler slog.Handler
	logger     *slog.Logger
}

// NewCompiler creates a plan Compiler with the provided options.
func NewCompiler(opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler configuration: %w", err)
	}

	if c.logger != nil {
		c.logHandler = c.logger.Handler()
	} else {
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "plan", "Compiler")
	}
	return c, nil
}

func (c *Compiler) String() string {
	return fmt.Sprintf("plan.Compiler{optimize: %t}", c.optimize)
}

// Optimize reports whether optimization passes are enabled.
func (c *Compiler) Optimize() bool { return c.optimize }

// Compile lowers n into a program.
func (c *Compiler) Compile(ctx context.Context, n expr.Node) (*plan.Program, error) {
	if n == nil {
		return nil, ErrNodeNil
	}
	logger := c.logger.WithGroup("compile")
	opt := strconv.FormatBool(c.optimize)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "plan.Compiler.Compile",
		trace.WithAttributes(
			attribute.Bool("optimize", c.optimize),
			attribute.String("node_kind", string(n.Kind())),
		),
	)
	defer span.End()

	logger.Debug("starting plan build", "optimize", c.optimize, "kind", n.Kind())
	start := time.Now()
	p, stats, err := lower.Lower(ctx, n, c.optimize)
	compileDuration.WithLabelValues(opt).Observe(time.Since(start).Seconds())
	if err != nil {
		compileTotal.WithLabelValues(opt, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "lowering failed")
		logger.Debug("plan build failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLoweringFailed, err)
	}

	compileTotal.WithLabelValues(opt, "ok").Inc()
	planInstructions.Observe(float64(stats.Instructions))
	passEffects.WithLabelValues("cse").Add(float64(stats.Shared))
	passEffects.WithLabelValues("fold").Add(float64(stats.Folded))
	passEffects.WithLabelValues("fuse").Add(float64(stats.Fused))

	span.SetAttributes(
		attribute.String("plan_id", p.ID()),
		attribute.Int("nodes", stats.Nodes),
		attribute.Int("instructions", stats.Instructions),
		attribute.Int("shared", stats.Shared),
		attribute.Int("folded", stats.Folded),
		attribute.Int("fused", stats.Fused),
	)
	span.SetStatus(codes.Ok, "plan built")
	logger.Debug("plan build completed",
		"id", p.ID(),
		"nodes", stats.Nodes,
		"instructions", stats.Instructions,
		"elapsed", time.Since(start),
	)
	return p, nil
}

// Build is an expr.PlanBuilder backed by this compiler.
func (c *Compiler) Build(ctx context.Context, n expr.Node) (expr.Plan, error) {
	p, err := c.Compile(ctx, n)
	if err != nil {
		return nil, err
	}
	return p, nil
}
