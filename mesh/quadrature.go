package mesh

import (
	"gonum.org/v1/gonum/integrate/quad"
)

// rule is a quadrature rule on the reference d-simplex. Weights sum to 1/d!.
type rule struct {
	points  [][]float64
	weights []float64
}

// gaussLegendre returns n Gauss–Legendre nodes and weights on [0, 1].
func gaussLegendre(n int) ([]float64, []float64) {
	x := make([]float64, n)
	w := make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	return x, w
}

// simplexRule builds a collapsed (Duffy) tensor Gauss–Legendre rule on the reference
// d-simplex, exact for polynomials of degree order.
func simplexRule(d, order int) rule {
	n := (order+d)/2 + 1
	x, w := gaussLegendre(n)

	var r rule
	switch d {
	case 1:
		for i := range n {
			r.points = append(r.points, []float64{x[i]})
			r.weights = append(r.weights, w[i])
		}
	case 2:
		for i := range n {
			for j := range n {
				u, v := x[i], x[j]
				r.points = append(r.points, []float64{u, v * (1 - u)})
				r.weights = append(r.weights, w[i]*w[j]*(1-u))
			}
		}
	case 3:
		for i := range n {
			for j := range n {
				for k := range n {
					u, v, s := x[i], x[j], x[k]
					r.points = append(r.points, []float64{u, v * (1 - u), s * (1 - u) * (1 - v)})
					r.weights = append(r.weights, w[i]*w[j]*w[k]*(1-u)*(1-u)*(1-v))
				}
			}
		}
	}
	return r
}
