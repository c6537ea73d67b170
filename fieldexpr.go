// Package fieldexpr builds, compiles and evaluates symbolic field expressions over
// points of a mesh.
//
// Fields are trees of expr nodes. The engine interprets them column-wise over a batch of
// mapped points, and Compile turns them into flat plans built on a background goroutine
// that evaluations switch to once ready.
package fieldexpr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-fieldexpr/engine"
	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
	"github.com/robbyt/go-fieldexpr/internal/helpers"
	"github.com/robbyt/go-fieldexpr/machines/plan/compiler"
	"github.com/robbyt/go-fieldexpr/options"
)

// Evaluator pairs an interpreter with the compile settings it was configured with.
type Evaluator struct {
	cfg      *options.Config
	interp   *engine.Interpreter
	compiler *compiler.Compiler
	logger   *slog.Logger
}

var _ engine.Evaluator = (*Evaluator)(nil)

// NewEvaluator creates an evaluator from options
func NewEvaluator(opts ...options.Option) (*Evaluator, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return createEvaluator(cfg)
}

func newConfig(opts []options.Option) (*options.Config, error) {
	cfg := options.DefaultConfig()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}

	// fill in anything an option cleared
	if err := options.WithDefaults()(cfg); err != nil {
		return nil, fmt.Errorf("error applying defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func createEvaluator(cfg *options.Config) (*Evaluator, error) {
	handler := cfg.GetHandler()
	interp, err := engine.New(
		engine.WithLogHandler(handler),
		engine.WithWorkers(cfg.GetWorkers()),
		engine.WithChunkSize(cfg.GetChunkSize()),
	)
	if err != nil {
		return nil, err
	}

	c, err := compiler.NewCompiler(
		compiler.WithOptimize(cfg.GetOptimize()),
		compiler.WithLogHandler(handler),
	)
	if err != nil {
		return nil, err
	}

	_, logger := helpers.SetupLogger(handler, "fieldexpr", "Evaluator")
	return &Evaluator{
		cfg:      cfg,
		interp:   interp,
		compiler: c,
		logger:   logger,
	}, nil
}

func (e *Evaluator) String() string {
	return fmt.Sprintf("fieldexpr.Evaluator{interp: %s, compiler: %s}", e.interp, e.compiler)
}

// Eval evaluates n at every point of b.
func (e *Evaluator) Eval(ctx context.Context, n expr.Node, b *data.Batch) (*data.Values, error) {
	return e.interp.Eval(ctx, n, b)
}

// EvalPoint evaluates n at a single point.
func (e *Evaluator) EvalPoint(ctx context.Context, n expr.Node, p data.Point) (*data.Values, error) {
	return e.interp.EvalPoint(ctx, n, p)
}

// EvalProvider evaluates n over the batch supplied by the configured data provider.
func (e *Evaluator) EvalProvider(ctx context.Context, n expr.Node) (engine.EvaluatorResponse, error) {
	provider := e.cfg.GetDataProvider()
	if provider == nil {
		return nil, fmt.Errorf("%w: no data provider configured", data.ErrNoBatch)
	}
	return e.interp.EvalProvider(ctx, n, provider)
}

// Compile wraps n with the evaluator's compile settings. With wait set, it blocks until
// the plan is built, bounded by the compile timeout. A failed build is not an error:
// the returned node keeps evaluating through the interpreter.
func (e *Evaluator) Compile(ctx context.Context, n expr.Node) (*expr.Compiled, error) {
	c, err := expr.Compile(ctx, n, e.compiler.Build, e.logger)
	if err != nil {
		return nil, err
	}
	if !e.cfg.GetWait() {
		return c, nil
	}

	if timeout := e.cfg.GetCompileTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := c.Wait(ctx); err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("waiting for plan: %w", err)
	}
	e.logger.Debug("compiled", "ready", c.Ready(), "optimize", e.cfg.GetOptimize())
	return c, nil
}

// Compile wraps node for plan-based evaluation. optimize selects the optimizing compiler
// and wait blocks until the plan is ready.
func Compile(node expr.Node, optimize, wait bool) (*expr.Compiled, error) {
	return CompileContext(context.Background(), node, options.WithOptimize(optimize), options.WithWait(wait))
}

// CompileContext is Compile with a context bounding a blocking wait and the full option set.
func CompileContext(ctx context.Context, node expr.Node, opts ...options.Option) (*expr.Compiled, error) {
	e, err := NewEvaluator(opts...)
	if err != nil {
		return nil, err
	}
	return e.Compile(ctx, node)
}

// Evaluate evaluates node over b with a default evaluator.
func Evaluate(ctx context.Context, node expr.Node, b *data.Batch, opts ...options.Option) (*data.Values, error) {
	e, err := NewEvaluator(opts...)
	if err != nil {
		return nil, err
	}
	return e.Eval(ctx, node, b)
}

// EvaluateAt evaluates node at one point with a default evaluator.
func EvaluateAt(ctx context.Context, node expr.Node, p data.Point, opts ...options.Option) (*data.Values, error) {
	e, err := NewEvaluator(opts...)
	if err != nil {
		return nil, err
	}
	return e.EvalPoint(ctx, node, p)
}
