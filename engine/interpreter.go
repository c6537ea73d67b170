package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
	"github.com/robbyt/go-fieldexpr/internal/helpers"
	"github.com/robbyt/go-fieldexpr/internal/kernels"
)

// Interpreter evaluates expression nodes directly, one operator at a time over the whole
// batch. Compiled nodes are evaluated through their published plan when one exists.
// An Interpreter is safe for concurrent use.
type Interpreter struct {
	workers    int
	chunkSize  int
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an Interpreter with the provided options.
func New(opts ...FunctionalOption) (*Interpreter, error) {
	i := &Interpreter{}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("error applying interpreter option: %w", err)
		}
	}
	i.applyDefaults()
	if err := i.validate(); err != nil {
		return nil, fmt.Errorf("invalid interpreter configuration: %w", err)
	}

	if i.logger != nil {
		i.logHandler = i.logger.Handler()
	} else {
		i.logHandler, i.logger = helpers.SetupLogger(i.logHandler, "engine", "Interpreter")
	}
	return i, nil
}

func (i *Interpreter) String() string {
	return fmt.Sprintf("engine.Interpreter{workers: %d, chunkSize: %d}", i.workers, i.chunkSize)
}

// Eval evaluates n at every point of b.
func (i *Interpreter) Eval(ctx context.Context, n expr.Node, b *data.Batch) (*data.Values, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	if b.Len() == 0 {
		s := n.Shape()
		return data.New(0, s.Width(), s.IsVector(), s.Complex), nil
	}
	if i.workers > 1 && b.Len() > i.chunkSize {
		return i.evalChunked(ctx, n, b)
	}
	return evalBatch(ctx, n, b)
}

// EvalPoint evaluates n at a single point.
func (i *Interpreter) EvalPoint(ctx context.Context, n expr.Node, p data.Point) (*data.Values, error) {
	return i.Eval(ctx, n, data.NewBatch(p))
}

// EvalProvider fetches a batch from the provider and evaluates n over it.
func (i *Interpreter) EvalProvider(ctx context.Context, n expr.Node, provider data.Provider) (EvaluatorResponse, error) {
	logger := i.logger.WithGroup("EvalProvider")
	b, err := provider.GetBatch(ctx)
	if err != nil {
		logger.Error("failed to get batch", "error", err)
		return nil, fmt.Errorf("%w: %w", data.ErrNoBatch, err)
	}
	start := time.Now()
	v, err := i.Eval(ctx, n, b)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	logger.Debug("evaluation complete", "points", b.Len(), "elapsed", elapsed)
	return newResponse(v, elapsed), nil
}

func (i *Interpreter) evalChunked(ctx context.Context, n expr.Node, b *data.Batch) (*data.Values, error) {
	chunks := (b.Len() + i.chunkSize - 1) / i.chunkSize
	i.logger.Debug("evaluating in chunks", "points", b.Len(), "chunks", chunks, "workers", i.workers)

	parts := make([]*data.Values, chunks)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for c := range chunks {
		lo := c * i.chunkSize
		hi := min(lo+i.chunkSize, b.Len())
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := evalBatch(gctx, n, b.Slice(lo, hi))
			if err != nil {
				return err
			}
			parts[c] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data.Concat(parts...)
}

// evalState memoizes node results for one batch so shared sub-nodes are computed once.
type evalState struct {
	batch *data.Batch
	memo  map[expr.Node]*data.Values
}

func evalBatch(ctx context.Context, n expr.Node, b *data.Batch) (*data.Values, error) {
	s := &evalState{batch: b, memo: make(map[expr.Node]*data.Values)}
	return s.eval(ctx, n)
}

func (s *evalState) eval(ctx context.Context, n expr.Node) (*data.Values, error) {
	if v, ok := s.memo[n]; ok {
		return v, nil
	}
	v, err := s.apply(ctx, n)
	if err != nil {
		return nil, err
	}
	s.memo[n] = v
	return v, nil
}

func (s *evalState) children(ctx context.Context, n expr.Node) ([]*data.Values, error) {
	kids := n.Children()
	out := make([]*data.Values, len(kids))
	for k, c := range kids {
		v, err := s.eval(ctx, c)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (s *evalState) apply(ctx context.Context, n expr.Node) (*data.Values, error) {
	b := s.batch
	switch t := n.(type) {
	case *expr.Constant:
		return kernels.Broadcast(t, b.Len()), nil
	case *expr.Coordinate:
		return kernels.Coordinates(b, t.Axis()), nil
	case *expr.Parameter:
		return kernels.Fill(t.Value(), b.Len()), nil
	case *expr.ElementSize:
		return kernels.MeshSize(b)
	case *expr.FacetNormal:
		return kernels.Normal(b, t.Dim())
	case *expr.Compiled:
		if p := t.Plan(); p != nil {
			return p.Evaluate(ctx, b)
		}
		return s.eval(ctx, t.Original())
	case *expr.DomainSwitch:
		return s.domainSelect(ctx, t)
	}

	args, err := s.children(ctx, n)
	if err != nil {
		return nil, err
	}
	switch t := n.(type) {
	case *expr.Binary:
		return kernels.Binary(t.Op(), args[0], args[1])
	case *expr.Power:
		switch t.ExponentKind() {
		case expr.ExpInt:
			return kernels.PowIntValues(args[0], t.IntExponent()), nil
		case expr.ExpFloat:
			return kernels.PowFloatValues(args[0], t.FloatExponent()), nil
		default:
			return kernels.PowValues(args[0], args[1])
		}
	case *expr.Projection:
		if t.Kind() == expr.KindReal {
			return kernels.Real(args[0]), nil
		}
		return kernels.Imag(args[0]), nil
	case *expr.Component:
		return kernels.Component(args[0], t.Index()), nil
	case *expr.Vector:
		return kernels.Stack(args, t.Shape().Complex)
	case *expr.Unary:
		return kernels.Unary(t.Func(), args[0]), nil
	case *expr.Conditional:
		return kernels.IfPos(args[0], args[1], args[2])
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedNode, n)
}

// domainSelect evaluates each branch only on the samples tagged with its domain.
func (s *evalState) domainSelect(ctx context.Context, d *expr.DomainSwitch) (*data.Values, error) {
	groups, err := kernels.Partition(s.batch, d.Domains())
	if err != nil {
		return nil, err
	}
	shape := d.Shape()
	out := data.New(s.batch.Len(), shape.Width(), shape.IsVector(), shape.Complex)
	for tag, branch := range d.Children() {
		idx := groups[tag]
		if len(idx) == 0 {
			continue
		}
		v, err := evalBatch(ctx, branch, s.batch.Subset(idx))
		if err != nil {
			return nil, err
		}
		kernels.Scatter(out, v, idx)
	}
	return out, nil
}
