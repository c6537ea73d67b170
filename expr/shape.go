package expr

import "fmt"

// Shape is the static value descriptor of a node, fixed at construction.
// Dim is 0 for scalars and the component count for vectors.
type Shape struct {
	Dim     int
	Complex bool
}

// Scalar is the shape of a real scalar.
var Scalar = Shape{}

// IsScalar reports whether values are scalars.
func (s Shape) IsScalar() bool { return s.Dim == 0 }

// IsVector reports whether values are vectors.
func (s Shape) IsVector() bool { return s.Dim > 0 }

// Width is the number of components per sample.
func (s Shape) Width() int {
	if s.Dim == 0 {
		return 1
	}
	return s.Dim
}

// WithComplex returns s with its value domain replaced.
func (s Shape) WithComplex(c bool) Shape {
	s.Complex = c
	return s
}

func (s Shape) String() string {
	domain := "real"
	if s.Complex {
		domain = "complex"
	}
	if s.IsScalar() {
		return domain
	}
	return fmt.Sprintf("%s[%d]", domain, s.Dim)
}
