// Package lower translates expression DAGs into register programs.
//
// Without optimization a node reached twice through the same pointer is computed once and
// everything else is translated one node per instruction. With optimization three passes
// run first: structural common sub-expression elimination (hash-consing the DAG),
// constant folding of sub-trees whose leaves are all constants, and fusion of real scalar
// element-wise chains into single-pass kernels. All passes reuse the numeric kernels of
// the interpreter, so results are bit-identical.
package lower

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
	"github.com/robbyt/go-fieldexpr/machines/plan"
)

var ErrUnsupportedNode = errors.New("node cannot be lowered")

// Stats describes what the passes did.
type Stats struct {
	Nodes        int
	Shared       int
	Folded       int
	Fused        int
	Instructions int
}

func (s *Stats) add(o Stats) {
	s.Shared += o.Shared
	s.Folded += o.Folded
	s.Fused += o.Fused
}

// Lower compiles n into a program.
func Lower(ctx context.Context, n expr.Node, optimize bool) (*plan.Program, Stats, error) {
	if n == nil {
		return nil, Stats{}, fmt.Errorf("%w: nil node", ErrUnsupportedNode)
	}
	l := newLowerer(optimize)
	p, err := l.lower(ctx, n)
	if err != nil {
		return nil, l.stats, err
	}
	l.stats.Nodes = expr.Count(n)
	l.stats.Instructions = p.Len()
	return p, l.stats, nil
}

type lowerer struct {
	optimize bool

	keys  map[string]expr.Node
	canon map[expr.Node]expr.Node
	ids   map[expr.Node]int

	uses   map[expr.Node]int
	regs   map[expr.Node]int
	instrs []plan.Instruction

	stats Stats
}

func newLowerer(optimize bool) *lowerer {
	return &lowerer{
		optimize: optimize,
		keys:     make(map[string]expr.Node),
		canon:    make(map[expr.Node]expr.Node),
		ids:      make(map[expr.Node]int),
		regs:     make(map[expr.Node]int),
	}
}

func (l *lowerer) lower(ctx context.Context, n expr.Node) (*plan.Program, error) {
	source := n.String()
	if c, ok := n.(*expr.Compiled); ok {
		n = c.Original()
		source = n.String()
	}

	root := n
	if l.optimize {
		var err error
		if root, err = l.canonical(root); err != nil {
			return nil, err
		}
		l.uses = expr.Uses(root)
	}

	result, err := l.emit(ctx, root)
	if err != nil {
		return nil, err
	}
	return plan.NewProgram(source, l.instrs, result, n.Shape())
}

// canonical returns the representative of n's structural equivalence class, rebuilding
// operator nodes over canonical children and folding constant sub-trees.
func (l *lowerer) canonical(n expr.Node) (expr.Node, error) {
	if c, ok := l.canon[n]; ok {
		return c, nil
	}

	var out expr.Node
	switch t := n.(type) {
	case *expr.Compiled:
		c, err := l.canonical(t.Original())
		if err != nil {
			return nil, err
		}
		out = c
	case *expr.DomainSwitch:
		// branches are lowered into their own programs
		out = l.intern(n)
	default:
		kids := n.Children()
		canonKids := make([]expr.Node, len(kids))
		for i, k := range kids {
			c, err := l.canonical(k)
			if err != nil {
				return nil, err
			}
			canonKids[i] = c
		}
		rebuilt, err := rebuild(n, canonKids)
		if err != nil {
			return nil, err
		}
		if foldable(rebuilt) {
			if folded, ok := l.fold(rebuilt); ok {
				rebuilt = folded
				l.stats.Folded++
			}
		}
		out = l.intern(rebuilt)
	}
	l.canon[n] = out
	return out, nil
}

func (l *lowerer) intern(n expr.Node) expr.Node {
	key := l.key(n)
	if existing, ok := l.keys[key]; ok {
		if existing != n {
			l.stats.Shared++
		}
		return existing
	}
	l.keys[key] = n
	l.ids[n] = len(l.ids)
	return n
}

// key renders the structural identity of n. Children are referred to by canonical id.
func (l *lowerer) key(n expr.Node) string {
	switch t := n.(type) {
	case *expr.Constant:
		return "const:" + t.String()
	case *expr.Coordinate:
		return "coord:" + strconv.Itoa(t.Axis())
	case *expr.Parameter, *expr.DomainSwitch:
		return fmt.Sprintf("%s:%p", n.Kind(), n)
	case *expr.ElementSize:
		return "mesh_size"
	case *expr.FacetNormal:
		return "normal:" + strconv.Itoa(t.Dim())
	}

	var sb strings.Builder
	sb.WriteString(string(n.Kind()))
	switch t := n.(type) {
	case *expr.Binary:
		sb.WriteString(":" + string(t.Op()))
	case *expr.Power:
		switch t.ExponentKind() {
		case expr.ExpInt:
			sb.WriteString(":i" + strconv.Itoa(t.IntExponent()))
		case expr.ExpFloat:
			sb.WriteString(":f" + strconv.FormatUint(math.Float64bits(t.FloatExponent()), 16))
		default:
			sb.WriteString(":n")
		}
	case *expr.Component:
		sb.WriteString(":" + strconv.Itoa(t.Index()))
	case *expr.Unary:
		sb.WriteString(":" + string(t.Func()))
	}
	for _, c := range n.Children() {
		sb.WriteString("," + strconv.Itoa(l.ids[c]))
	}
	return sb.String()
}

func rebuild(n expr.Node, kids []expr.Node) (expr.Node, error) {
	same := true
	for i, c := range n.Children() {
		if c != kids[i] {
			same = false
			break
		}
	}
	if same {
		return n, nil
	}

	switch t := n.(type) {
	case *expr.Binary:
		return expr.NewBinary(t.Op(), kids[0], kids[1])
	case *expr.Power:
		switch t.ExponentKind() {
		case expr.ExpInt:
			return expr.Pow(kids[0], t.IntExponent())
		case expr.ExpFloat:
			return expr.Pow(kids[0], t.FloatExponent())
		default:
			return expr.Pow(kids[0], kids[1])
		}
	case *expr.Projection:
		if t.Kind() == expr.KindReal {
			return expr.Real(kids[0])
		}
		return expr.Imag(kids[0])
	case *expr.Component:
		return expr.Index(kids[0], t.Index())
	case *expr.Vector:
		parts := make([]any, len(kids))
		for i, k := range kids {
			parts[i] = k
		}
		return expr.NewVector(parts...)
	case *expr.Unary:
		return expr.Apply(t.Func(), kids[0])
	case *expr.Conditional:
		return expr.IfPos(kids[0], kids[1], kids[2])
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedNode, n)
}

// foldable reports whether n is an operator whose operands are all constants.
func foldable(n expr.Node) bool {
	switch n.(type) {
	case *expr.Binary, *expr.Power, *expr.Projection, *expr.Component,
		*expr.Vector, *expr.Unary, *expr.Conditional:
	default:
		return false
	}
	for _, c := range n.Children() {
		if _, ok := c.(*expr.Constant); !ok {
			return false
		}
	}
	return true
}

// fold evaluates n once, on a single placeholder point, with the same kernels used at run time.
func (l *lowerer) fold(n expr.Node) (*expr.Constant, bool) {
	sub := newLowerer(false)
	p, err := sub.lower(context.Background(), n)
	if err != nil {
		return nil, false
	}
	v, err := p.Evaluate(context.Background(), data.NewBatch(data.At(0)))
	if err != nil || v.Len() != 1 {
		return nil, false
	}
	s := n.Shape()
	switch {
	case s.Complex && s.IsScalar():
		return expr.ComplexConst(v.Complex(0, 0)), true
	case s.Complex:
		return expr.ComplexVectorConst(v.Row(0)...), true
	case s.IsScalar():
		return expr.Const(v.Float(0, 0)), true
	default:
		return expr.VectorConst(v.FloatRow(0)...), true
	}
}

func (l *lowerer) push(in plan.Instruction) int {
	in.Dst = len(l.instrs)
	l.instrs = append(l.instrs, in)
	return in.Dst
}

func (l *lowerer) emitArgs(ctx context.Context, n expr.Node) ([]int, error) {
	kids := n.Children()
	args := make([]int, len(kids))
	for i, k := range kids {
		r, err := l.emit(ctx, k)
		if err != nil {
			return nil, err
		}
		args[i] = r
	}
	return args, nil
}

func (l *lowerer) emit(ctx context.Context, n expr.Node) (int, error) {
	if r, ok := l.regs[n]; ok {
		return r, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r, err := l.emitNode(ctx, n)
	if err != nil {
		return 0, err
	}
	l.regs[n] = r
	return r, nil
}

func (l *lowerer) emitNode(ctx context.Context, n expr.Node) (int, error) {
	shape := n.Shape()
	switch t := n.(type) {
	case *expr.Compiled:
		return l.emit(ctx, t.Original())
	case *expr.Constant:
		return l.push(plan.Instruction{Op: plan.OpConst, Const: t, Shape: shape}), nil
	case *expr.Coordinate:
		return l.push(plan.Instruction{Op: plan.OpCoord, Int: t.Axis(), Shape: shape}), nil
	case *expr.Parameter:
		return l.push(plan.Instruction{Op: plan.OpParam, Param: t, Shape: shape}), nil
	case *expr.ElementSize:
		return l.push(plan.Instruction{Op: plan.OpMeshSize, Shape: shape}), nil
	case *expr.FacetNormal:
		return l.push(plan.Instruction{Op: plan.OpNormal, Int: t.Dim(), Shape: shape}), nil
	case *expr.DomainSwitch:
		return l.emitDomain(ctx, t)
	}

	if l.optimize && l.fusible(n) && l.chainOps(n) >= 2 {
		return l.emitFused(ctx, n)
	}

	args, err := l.emitArgs(ctx, n)
	if err != nil {
		return 0, err
	}
	in := plan.Instruction{Args: args, Shape: shape}
	switch t := n.(type) {
	case *expr.Binary:
		in.Op, in.BinOp = plan.OpBinary, t.Op()
	case *expr.Power:
		switch t.ExponentKind() {
		case expr.ExpInt:
			in.Op, in.Int = plan.OpPowInt, t.IntExponent()
		case expr.ExpFloat:
			in.Op, in.Float = plan.OpPowFloat, t.FloatExponent()
		default:
			in.Op = plan.OpPow
		}
	case *expr.Projection:
		in.Op = plan.OpImag
		if t.Kind() == expr.KindReal {
			in.Op = plan.OpReal
		}
	case *expr.Component:
		in.Op, in.Int = plan.OpComponent, t.Index()
	case *expr.Vector:
		in.Op = plan.OpStack
	case *expr.Unary:
		in.Op, in.Fn = plan.OpUnary, t.Func()
	case *expr.Conditional:
		in.Op = plan.OpIfPos
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedNode, n)
	}
	return l.push(in), nil
}

func (l *lowerer) emitDomain(ctx context.Context, d *expr.DomainSwitch) (int, error) {
	branches := make([]*plan.Program, d.Domains())
	for tag, b := range d.Children() {
		sub := newLowerer(l.optimize)
		p, err := sub.lower(ctx, b)
		if err != nil {
			return 0, fmt.Errorf("domain %d: %w", tag, err)
		}
		l.stats.add(sub.stats)
		branches[tag] = p
	}
	return l.push(plan.Instruction{Op: plan.OpDomain, Branches: branches, Shape: d.Shape()}), nil
}
