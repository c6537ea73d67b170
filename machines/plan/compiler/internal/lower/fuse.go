package lower

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robbyt/go-fieldexpr/expr"
	"github.com/robbyt/go-fieldexpr/internal/kernels"
	"github.com/robbyt/go-fieldexpr/machines/plan"
)

// fusible reports whether n is a real scalar element-wise operation on real scalars.
func (l *lowerer) fusible(n expr.Node) bool {
	switch n.(type) {
	case *expr.Binary, *expr.Power, *expr.Unary:
	default:
		return false
	}
	if n.Shape() != expr.Scalar {
		return false
	}
	for _, c := range n.Children() {
		if c.Shape() != expr.Scalar {
			return false
		}
	}
	return true
}

// inlinable reports whether child c can be folded into its parent's kernel. Shared nodes
// stay materialized so they are computed once.
func (l *lowerer) inlinable(c expr.Node) bool {
	return l.uses[c] == 1 && l.fusible(c)
}

// chainOps counts the operations a kernel rooted at n would contain.
func (l *lowerer) chainOps(n expr.Node) int {
	ops := 1
	for _, c := range n.Children() {
		if l.inlinable(c) {
			ops += l.chainOps(c)
		}
	}
	return ops
}

type fuser struct {
	l      *lowerer
	ctx    context.Context
	root   expr.Node
	inputs []int
	index  map[int]int
	ops    int
}

func (l *lowerer) emitFused(ctx context.Context, n expr.Node) (int, error) {
	f := &fuser{l: l, ctx: ctx, root: n, index: make(map[int]int)}
	k, desc, err := f.build(n)
	if err != nil {
		return 0, err
	}
	l.stats.Fused++
	return l.push(plan.Instruction{
		Op:    plan.OpFused,
		Args:  f.inputs,
		Shape: n.Shape(),
		Fused: &plan.Fused{Kernel: k, Expr: desc, Ops: f.ops},
	}), nil
}

func (f *fuser) input(n expr.Node) (plan.Kernel, string, error) {
	r, err := f.l.emit(f.ctx, n)
	if err != nil {
		return nil, "", err
	}
	k, ok := f.index[r]
	if !ok {
		k = len(f.inputs)
		f.index[r] = k
		f.inputs = append(f.inputs, r)
	}
	return func(in [][]float64, i int) float64 { return in[k][i] }, "in" + strconv.Itoa(k), nil
}

func (f *fuser) build(n expr.Node) (plan.Kernel, string, error) {
	if c, ok := n.(*expr.Constant); ok && c.Shape() == expr.Scalar {
		v := c.RealData()[0]
		return func([][]float64, int) float64 { return v }, c.String(), nil
	}
	if n != f.root && !f.l.inlinable(n) {
		return f.input(n)
	}

	f.ops++
	switch t := n.(type) {
	case *expr.Binary:
		a, as, err := f.build(t.Left())
		if err != nil {
			return nil, "", err
		}
		b, bs, err := f.build(t.Right())
		if err != nil {
			return nil, "", err
		}
		op := t.Op()
		return func(in [][]float64, i int) float64 {
			return kernels.Arith(op, a(in, i), b(in, i))
		}, fmt.Sprintf("(%s %s %s)", as, op, bs), nil

	case *expr.Power:
		a, as, err := f.build(t.Base())
		if err != nil {
			return nil, "", err
		}
		switch t.ExponentKind() {
		case expr.ExpInt:
			p := t.IntExponent()
			return func(in [][]float64, i int) float64 {
				return kernels.PowInt(a(in, i), p)
			}, fmt.Sprintf("(%s ** %d)", as, p), nil
		case expr.ExpFloat:
			e := t.FloatExponent()
			return func(in [][]float64, i int) float64 {
				return kernels.PowFloat(a(in, i), e)
			}, fmt.Sprintf("(%s ** float(%s))", as, strconv.FormatFloat(e, 'g', -1, 64)), nil
		default:
			b, bs, err := f.build(t.ExponentNode())
			if err != nil {
				return nil, "", err
			}
			return func(in [][]float64, i int) float64 {
				return kernels.PowFloat(a(in, i), b(in, i))
			}, fmt.Sprintf("(%s ** %s)", as, bs), nil
		}

	case *expr.Unary:
		a, as, err := f.build(t.Source())
		if err != nil {
			return nil, "", err
		}
		fn := t.Func()
		return func(in [][]float64, i int) float64 {
			return kernels.UnaryFloat(fn, a(in, i))
		}, fmt.Sprintf("%s(%s)", fn, as), nil
	}
	return nil, "", fmt.Errorf("%w: %T in fused chain", ErrUnsupportedNode, n)
}
