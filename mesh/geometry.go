package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// element is one simplex with its affine map x = v0 + J·ξ precomputed.
type element struct {
	verts []int
	tag   int
	// jac has columns v_i - v_0.
	jac *mat.Dense
	// inv is jac⁻¹; its rows are the gradients of barycentric coordinates 1..dim.
	inv  *mat.Dense
	det  float64
	size float64
}

// newElement builds the affine geometry of the simplex spanned by verts.
func newElement(dim int, coords [][3]float64, verts []int) (*element, error) {
	v0 := coords[verts[0]]
	jac := mat.NewDense(dim, dim, nil)
	for c := 1; c <= dim; c++ {
		vc := coords[verts[c]]
		for r := range dim {
			jac.Set(r, c-1, vc[r]-v0[r])
		}
	}
	det := mat.Det(jac)
	if math.Abs(det) < 1e-300 {
		return nil, fmt.Errorf("%w: vertices %v", ErrDegenerate, verts)
	}
	var inv mat.Dense
	if err := inv.Inverse(jac); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDegenerate, err)
	}
	return &element{
		verts: verts,
		jac:   jac,
		inv:   &inv,
		det:   det,
		size:  localSize(dim, math.Abs(det)),
	}, nil
}

// localSize is |det J|^(1/dim).
func localSize(dim int, absDet float64) float64 {
	switch dim {
	case 2:
		return math.Sqrt(absDet)
	case 3:
		return math.Cbrt(absDet)
	}
	return math.Pow(absDet, 1/float64(dim))
}

// measure is the element volume |det J| / dim!.
func (e *element) measure(dim int) float64 {
	return math.Abs(e.det) / factorial(dim)
}

// toPhysical maps reference coordinates ξ to x.
func (e *element) toPhysical(dim int, coords [][3]float64, ref []float64) [3]float64 {
	x := coords[e.verts[0]]
	for r := range dim {
		for c := range dim {
			x[r] += e.jac.At(r, c) * ref[c]
		}
	}
	return x
}

// barycentric returns the barycentric coordinates of x, λ_0 first.
func (e *element) barycentric(dim int, coords [][3]float64, x [3]float64) []float64 {
	v0 := coords[e.verts[0]]
	d := mat.NewVecDense(dim, nil)
	for r := range dim {
		d.SetVec(r, x[r]-v0[r])
	}
	var xi mat.VecDense
	xi.MulVec(e.inv, d)

	lam := make([]float64, dim+1)
	lam[0] = 1
	for c := range dim {
		lam[c+1] = xi.AtVec(c)
		lam[0] -= lam[c+1]
	}
	return lam
}

// gradient returns ∇λ_k.
func (e *element) gradient(dim, k int) [3]float64 {
	var g [3]float64
	if k > 0 {
		for c := range dim {
			g[c] = e.inv.At(k-1, c)
		}
		return g
	}
	for r := range dim {
		for c := range dim {
			g[c] -= e.inv.At(r, c)
		}
	}
	return g
}

// facetNormal returns the unit outward normal of the facet opposite local vertex k
// and the facet measure.
func (e *element) facetNormal(dim, k int) ([3]float64, float64) {
	g := e.gradient(dim, k)
	norm := math.Sqrt(g[0]*g[0] + g[1]*g[1] + g[2]*g[2])
	var n [3]float64
	for c := range dim {
		n[c] = -g[c] / norm
	}
	// |F_k| = dim · |T| · |∇λ_k|
	return n, float64(dim) * e.measure(dim) * norm
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
