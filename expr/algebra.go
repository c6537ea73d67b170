package expr

import "fmt"

// Binary is an arithmetic combination of two nodes.
type Binary struct {
	op    Op
	lhs   Node
	rhs   Node
	shape Shape
}

func (b *Binary) Kind() Kind       { return KindBinary }
func (b *Binary) Shape() Shape     { return b.shape }
func (b *Binary) Children() []Node { return []Node{b.lhs, b.rhs} }
func (b *Binary) Op() Op           { return b.op }
func (b *Binary) Left() Node       { return b.lhs }
func (b *Binary) Right() Node      { return b.rhs }

// IsInner reports whether the node is a vector*vector inner product.
func (b *Binary) IsInner() bool {
	return b.op == OpMul && b.lhs.Shape().IsVector() && b.rhs.Shape().IsVector()
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.lhs, b.op, b.rhs)
}

// Add returns a + b.
func Add(a, b any) (Node, error) { return binary(OpAdd, a, b) }

// Sub returns a - b.
func Sub(a, b any) (Node, error) { return binary(OpSub, a, b) }

// Mul returns a * b. Two vectors of equal width produce their inner product.
func Mul(a, b any) (Node, error) { return binary(OpMul, a, b) }

// Div returns a / b. The divisor must be scalar.
func Div(a, b any) (Node, error) { return binary(OpDiv, a, b) }

// NewBinary dispatches to the constructor for op.
func NewBinary(op Op, a, b any) (Node, error) {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return binary(op, a, b)
	default:
		return nil, fmt.Errorf("%w: operator %q", ErrOperand, op)
	}
}

func binary(op Op, a, b any) (Node, error) {
	lhs, err := Lift(a)
	if err != nil {
		return nil, err
	}
	rhs, err := Lift(b)
	if err != nil {
		return nil, err
	}
	shape, err := binaryShape(op, lhs.Shape(), rhs.Shape())
	if err != nil {
		return nil, err
	}
	return &Binary{op: op, lhs: lhs, rhs: rhs, shape: shape}, nil
}

func binaryShape(op Op, l, r Shape) (Shape, error) {
	cx := l.Complex || r.Complex
	switch {
	case l.IsScalar() && r.IsScalar():
		return Shape{Complex: cx}, nil
	case l.IsScalar() && r.IsVector() && op == OpMul:
		return Shape{Dim: r.Dim, Complex: cx}, nil
	case l.IsVector() && r.IsScalar() && (op == OpMul || op == OpDiv):
		return Shape{Dim: l.Dim, Complex: cx}, nil
	case l.IsVector() && r.IsVector() && l.Dim == r.Dim:
		switch op {
		case OpAdd, OpSub:
			return Shape{Dim: l.Dim, Complex: cx}, nil
		case OpMul:
			return Shape{Complex: cx}, nil
		}
	}
	return Shape{}, fmt.Errorf("%w: %s %s %s", ErrShape, l, op, r)
}
