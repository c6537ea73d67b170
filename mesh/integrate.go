package mesh

import (
	"context"
	"fmt"

	"github.com/robbyt/go-fieldexpr/engine"
	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
)

// Integrate integrates n over the mesh with a rule of the given order and returns one
// sum per component.
func Integrate(ctx context.Context, ev engine.Evaluator, n expr.Node, m *Mesh, order int) ([]complex128, error) {
	b, err := m.IntegrationPoints(order)
	if err != nil {
		return nil, err
	}
	return Sum(ctx, ev, n, b)
}

// IntegrateReal integrates a real scalar field over the mesh.
func IntegrateReal(ctx context.Context, ev engine.Evaluator, n expr.Node, m *Mesh, order int) (float64, error) {
	if s := n.Shape(); !s.IsScalar() || s.Complex {
		return 0, fmt.Errorf("%w: %s", ErrNotRealScalar, s)
	}
	sums, err := Integrate(ctx, ev, n, m, order)
	if err != nil {
		return 0, err
	}
	return real(sums[0]), nil
}

// Sum returns the weighted sum of n over b, one per component, using the point weights.
// Use it with BoundaryPoints or ElementBoundaryPoints for facet integrals.
func Sum(ctx context.Context, ev engine.Evaluator, n expr.Node, b *data.Batch) ([]complex128, error) {
	v, err := ev.Eval(ctx, n, b)
	if err != nil {
		return nil, err
	}
	sums := make([]complex128, v.Width())
	for i := range v.Len() {
		w := complex(b.At(i).Weight, 0)
		for c := range v.Width() {
			sums[c] += w * v.Complex(i, c)
		}
	}
	return sums, nil
}
