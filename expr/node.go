// Package expr defines the immutable expression DAG for fields over a computational domain.
//
// Nodes are built with the constructors in this package (Add, Mul, Pow, Real, Index,
// DomainSelect, ...). Construction only records structure and checks shapes; nothing is
// evaluated until a node is handed to an evaluator. Numeric literals passed as operands
// are promoted to constants.
package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is an element of the expression DAG. Implementations are immutable pointer types.
type Node interface {
	// Kind returns the variant of the node.
	Kind() Kind

	// Shape returns the value descriptor of the node, fixed at construction.
	Shape() Shape

	// Children returns the operand nodes, in evaluation order.
	Children() []Node

	// String renders the node as an expression.
	String() string
}

// Constant is a literal real or complex scalar or vector.
type Constant struct {
	shape Shape
	re    []float64
	cx    []complex128
}

// Const returns a real scalar constant.
func Const(v float64) *Constant {
	return &Constant{shape: Scalar, re: []float64{v}}
}

// ComplexConst returns a complex scalar constant.
func ComplexConst(v complex128) *Constant {
	return &Constant{shape: Shape{Complex: true}, cx: []complex128{v}}
}

// VectorConst returns a real vector constant.
func VectorConst(vs ...float64) *Constant {
	return &Constant{shape: Shape{Dim: len(vs)}, re: append([]float64(nil), vs...)}
}

// ComplexVectorConst returns a complex vector constant.
func ComplexVectorConst(vs ...complex128) *Constant {
	return &Constant{shape: Shape{Dim: len(vs), Complex: true}, cx: append([]complex128(nil), vs...)}
}

func (c *Constant) Kind() Kind       { return KindConstant }
func (c *Constant) Shape() Shape     { return c.shape }
func (c *Constant) Children() []Node { return nil }

// RealData returns the components of a real constant. The slice must not be modified.
func (c *Constant) RealData() []float64 { return c.re }

// ComplexData returns the components of a complex constant. The slice must not be modified.
func (c *Constant) ComplexData() []complex128 { return c.cx }

// IsZero reports whether every component is zero.
func (c *Constant) IsZero() bool {
	for _, v := range c.re {
		if v != 0 {
			return false
		}
	}
	for _, v := range c.cx {
		if v != 0 {
			return false
		}
	}
	return true
}

func (c *Constant) String() string {
	parts := make([]string, 0, c.shape.Width())
	for _, v := range c.re {
		parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
	}
	for _, v := range c.cx {
		parts = append(parts, strconv.FormatComplex(v, 'g', -1, 128))
	}
	if c.shape.IsScalar() {
		return parts[0]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Coordinate is the spatial coordinate along one axis.
type Coordinate struct {
	axis int
}

var axisNames = [...]string{"x", "y", "z"}

// Coord returns the coordinate leaf for axis 0, 1 or 2.
func Coord(axis int) (*Coordinate, error) {
	if axis < 0 || axis >= len(axisNames) {
		return nil, fmt.Errorf("%w: coordinate axis %d", ErrShape, axis)
	}
	return &Coordinate{axis: axis}, nil
}

// X returns the x coordinate leaf.
func X() *Coordinate { return &Coordinate{axis: 0} }

// Y returns the y coordinate leaf.
func Y() *Coordinate { return &Coordinate{axis: 1} }

// Z returns the z coordinate leaf.
func Z() *Coordinate { return &Coordinate{axis: 2} }

func (c *Coordinate) Kind() Kind       { return KindCoordinate }
func (c *Coordinate) Shape() Shape     { return Scalar }
func (c *Coordinate) Children() []Node { return nil }
func (c *Coordinate) Axis() int        { return c.axis }
func (c *Coordinate) String() string   { return axisNames[c.axis] }

// Lift promotes a numeric literal to a constant node; nodes are returned unchanged.
// Accepted literals are integers, floats, complex numbers and slices of float64 or complex128.
func Lift(v any) (Node, error) {
	switch t := v.(type) {
	case Node:
		if t == nil {
			return nil, fmt.Errorf("%w: nil node", ErrOperand)
		}
		return t, nil
	case int:
		return Const(float64(t)), nil
	case int64:
		return Const(float64(t)), nil
	case float32:
		return Const(float64(t)), nil
	case float64:
		return Const(t), nil
	case complex64:
		return ComplexConst(complex128(t)), nil
	case complex128:
		return ComplexConst(t), nil
	case []float64:
		if len(t) == 0 {
			return nil, fmt.Errorf("%w: empty vector literal", ErrOperand)
		}
		return VectorConst(t...), nil
	case []complex128:
		if len(t) == 0 {
			return nil, fmt.Errorf("%w: empty vector literal", ErrOperand)
		}
		return ComplexVectorConst(t...), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrOperand, v)
	}
}

// Must panics if err is non-nil and otherwise returns n. It simplifies building
// expressions from literals that are known to be well-shaped.
func Must(n Node, err error) Node {
	if err != nil {
		panic(fmt.Sprintf("expr: %v", err))
	}
	return n
}
