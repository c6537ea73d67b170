package expr

import (
	"fmt"
	"strings"
)

// Vector stacks scalar nodes into a vector node.
type Vector struct {
	parts []Node
	shape Shape
}

// NewVector returns the vector (c0, c1, ...). Every component must be scalar.
func NewVector(components ...any) (Node, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrShape)
	}
	v := &Vector{parts: make([]Node, len(components)), shape: Shape{Dim: len(components)}}
	for i, c := range components {
		n, err := Lift(c)
		if err != nil {
			return nil, err
		}
		if !n.Shape().IsScalar() {
			return nil, fmt.Errorf("%w: vector component %d is %s", ErrShape, i, n.Shape())
		}
		v.parts[i] = n
		v.shape.Complex = v.shape.Complex || n.Shape().Complex
	}
	return v, nil
}

func (v *Vector) Kind() Kind       { return KindVector }
func (v *Vector) Shape() Shape     { return v.shape }
func (v *Vector) Children() []Node { return v.parts }

func (v *Vector) String() string {
	parts := make([]string, len(v.parts))
	for i, p := range v.parts {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Component extracts one component of a vector node.
type Component struct {
	src   Node
	index int
}

// Index returns component i of the vector node a.
func Index(a any, i int) (Node, error) {
	src, err := Lift(a)
	if err != nil {
		return nil, err
	}
	s := src.Shape()
	if !s.IsVector() {
		return nil, fmt.Errorf("%w: index into %s", ErrShape, s)
	}
	if i < 0 || i >= s.Dim {
		return nil, fmt.Errorf("%w: index %d out of range for %s", ErrShape, i, s)
	}
	return &Component{src: src, index: i}, nil
}

func (c *Component) Kind() Kind       { return KindIndex }
func (c *Component) Shape() Shape     { return Shape{Complex: c.src.Shape().Complex} }
func (c *Component) Children() []Node { return []Node{c.src} }
func (c *Component) Source() Node     { return c.src }
func (c *Component) Index() int       { return c.index }
func (c *Component) String() string   { return fmt.Sprintf("%s[%d]", c.src, c.index) }
