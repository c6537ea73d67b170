package expr

import "fmt"

// Projection extracts the real or imaginary part of a node. The result is always real.
type Projection struct {
	kind Kind
	src  Node
}

// Real returns the real part of a. On a real node it is the identity.
func Real(a any) (Node, error) { return project(KindReal, a) }

// Imag returns the imaginary part of a. On a real node it is zero.
func Imag(a any) (Node, error) { return project(KindImag, a) }

func project(kind Kind, a any) (Node, error) {
	src, err := Lift(a)
	if err != nil {
		return nil, err
	}
	return &Projection{kind: kind, src: src}, nil
}

func (p *Projection) Kind() Kind       { return p.kind }
func (p *Projection) Shape() Shape     { return p.src.Shape().WithComplex(false) }
func (p *Projection) Children() []Node { return []Node{p.src} }
func (p *Projection) Source() Node     { return p.src }

func (p *Projection) String() string {
	return fmt.Sprintf("%s(%s)", p.kind, p.src)
}
