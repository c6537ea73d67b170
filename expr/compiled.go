package expr

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robbyt/go-fieldexpr/execution/data"
)

// Plan is an evaluation strategy for a node, observationally equivalent to interpreting it.
type Plan interface {
	// Evaluate computes the node over every point of the batch.
	Evaluate(ctx context.Context, b *data.Batch) (*data.Values, error)

	// String renders the plan for diagnostics.
	String() string
}

// PlanBuilder turns a node into a plan. It runs on a background goroutine.
type PlanBuilder func(ctx context.Context, n Node) (Plan, error)

const (
	statePending int32 = iota
	stateReady
	stateFailed
)

type planHolder struct {
	plan Plan
}

// Compiled wraps a node with a plan that is built asynchronously. Until the plan is
// published, or forever when building failed, evaluators interpret the original node.
type Compiled struct {
	original Node
	plan     atomic.Pointer[planHolder]
	state    atomic.Int32
	err      error
	done     chan struct{}
	logger   *slog.Logger
}

// Compile wraps n and starts building its plan in the background. Compiling a node that
// is already compiled wraps its original. The build is detached from ctx cancellation but
// keeps its values. A nil logger uses slog.Default.
func Compile(ctx context.Context, n Node, build PlanBuilder, logger *slog.Logger) (*Compiled, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", ErrOperand)
	}
	if build == nil {
		return nil, fmt.Errorf("%w: nil plan builder", ErrPlanBuild)
	}
	if c, ok := n.(*Compiled); ok {
		n = c.original
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Compiled{
		original: n,
		done:     make(chan struct{}),
		logger:   logger.WithGroup("compiled"),
	}
	go c.run(context.WithoutCancel(ctx), build)
	return c, nil
}

func (c *Compiled) run(ctx context.Context, build PlanBuilder) {
	defer close(c.done)
	defer func() {
		if r := recover(); r != nil {
			c.fail(fmt.Errorf("%w: panic: %v", ErrPlanBuild, r))
		}
	}()

	p, err := build(ctx, c.original)
	switch {
	case err != nil:
		c.fail(fmt.Errorf("%w: %w", ErrPlanBuild, err))
	case p == nil:
		c.fail(ErrPlanNil)
	default:
		c.plan.Store(&planHolder{plan: p})
		c.state.Store(stateReady)
	}
}

// fail records the error before the done channel closes; readers of err synchronize on done.
func (c *Compiled) fail(err error) {
	c.err = err
	c.state.Store(stateFailed)
	c.logger.Warn("plan build failed, using interpreted evaluation", "error", err, "node", c.original.Kind())
}

func (c *Compiled) Kind() Kind       { return KindCompiled }
func (c *Compiled) Shape() Shape     { return c.original.Shape() }
func (c *Compiled) Children() []Node { return []Node{c.original} }
func (c *Compiled) String() string   { return "compiled(" + c.original.String() + ")" }

// Original returns the wrapped node.
func (c *Compiled) Original() Node { return c.original }

// Plan returns the published plan, or nil while pending or after a failure.
func (c *Compiled) Plan() Plan {
	if h := c.plan.Load(); h != nil {
		return h.plan
	}
	return nil
}

// Ready reports whether the plan has been published.
func (c *Compiled) Ready() bool { return c.state.Load() == stateReady }

// Failed reports whether building the plan failed.
func (c *Compiled) Failed() bool { return c.state.Load() == stateFailed }

// Done is closed when the build has finished, successfully or not.
func (c *Compiled) Done() <-chan struct{} { return c.done }

// Wait blocks until the build finishes or ctx is done. It returns the build error, if any.
// A failed build does not make the node unusable.
func (c *Compiled) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the build error once the build has finished, and nil before that.
func (c *Compiled) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}
