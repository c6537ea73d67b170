package expr

import (
	"fmt"
	"strconv"
)

// Power raises a scalar base to an integer, float or node exponent.
type Power struct {
	base     Node
	expKind  ExponentKind
	intExp   int
	floatExp float64
	expNode  Node
	shape    Shape
}

// Pow returns base ** exp. An int exponent selects repeated multiplication; a float64
// exponent or a node exponent selects the general power function.
func Pow(base any, exp any) (Node, error) {
	b, err := Lift(base)
	if err != nil {
		return nil, err
	}
	if !b.Shape().IsScalar() {
		return nil, fmt.Errorf("%w: power of %s", ErrShape, b.Shape())
	}

	p := &Power{base: b, shape: b.Shape()}
	switch e := exp.(type) {
	case int:
		p.expKind, p.intExp = ExpInt, e
	case int64:
		p.expKind, p.intExp = ExpInt, int(e)
	case float64:
		p.expKind, p.floatExp = ExpFloat, e
	case float32:
		p.expKind, p.floatExp = ExpFloat, float64(e)
	default:
		n, err := Lift(exp)
		if err != nil {
			return nil, err
		}
		if !n.Shape().IsScalar() {
			return nil, fmt.Errorf("%w: exponent %s", ErrShape, n.Shape())
		}
		p.expKind, p.expNode = ExpNode, n
		p.shape = p.shape.WithComplex(b.Shape().Complex || n.Shape().Complex)
	}
	return p, nil
}

func (p *Power) Kind() Kind   { return KindPower }
func (p *Power) Shape() Shape { return p.shape }

func (p *Power) Children() []Node {
	if p.expKind == ExpNode {
		return []Node{p.base, p.expNode}
	}
	return []Node{p.base}
}

func (p *Power) Base() Node                 { return p.base }
func (p *Power) ExponentKind() ExponentKind { return p.expKind }
func (p *Power) IntExponent() int           { return p.intExp }
func (p *Power) FloatExponent() float64     { return p.floatExp }
func (p *Power) ExponentNode() Node         { return p.expNode }

func (p *Power) String() string {
	switch p.expKind {
	case ExpInt:
		return fmt.Sprintf("(%s ** %d)", p.base, p.intExp)
	case ExpFloat:
		return fmt.Sprintf("(%s ** float(%s))", p.base, strconv.FormatFloat(p.floatExp, 'g', -1, 64))
	default:
		return fmt.Sprintf("(%s ** %s)", p.base, p.expNode)
	}
}
