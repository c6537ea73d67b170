package engine

import (
	"context"

	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
)

// Evaluator computes field values over batches of mapped points.
type Evaluator interface {
	// Eval evaluates n at every point of b. The result has one sample per point, in order.
	Eval(ctx context.Context, n expr.Node, b *data.Batch) (*data.Values, error)
}
