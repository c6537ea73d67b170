package expr

import "fmt"

// Conditional selects between two nodes per sample on the sign of a real scalar.
type Conditional struct {
	cond  Node
	pos   Node
	other Node
	shape Shape
}

// IfPos returns pos where cond > 0 and other elsewhere. cond must be a real scalar and
// both branches must share a width.
func IfPos(cond, pos, other any) (Node, error) {
	c, err := Lift(cond)
	if err != nil {
		return nil, err
	}
	if c.Shape() != Scalar {
		return nil, fmt.Errorf("%w: condition must be real scalar, got %s", ErrShape, c.Shape())
	}
	p, err := Lift(pos)
	if err != nil {
		return nil, err
	}
	o, err := Lift(other)
	if err != nil {
		return nil, err
	}
	if p.Shape().Dim != o.Shape().Dim {
		return nil, fmt.Errorf("%w: ifpos branches %s and %s", ErrShape, p.Shape(), o.Shape())
	}
	shape := Shape{Dim: p.Shape().Dim, Complex: p.Shape().Complex || o.Shape().Complex}
	return &Conditional{cond: c, pos: p, other: o, shape: shape}, nil
}

func (c *Conditional) Kind() Kind       { return KindIfPos }
func (c *Conditional) Shape() Shape     { return c.shape }
func (c *Conditional) Children() []Node { return []Node{c.cond, c.pos, c.other} }

func (c *Conditional) String() string {
	return fmt.Sprintf("ifpos(%s, %s, %s)", c.cond, c.pos, c.other)
}
