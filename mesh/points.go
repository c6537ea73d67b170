package mesh

import (
	"fmt"
	"math"

	"github.com/robbyt/go-fieldexpr/execution/data"
)

// locateTolerance admits points on element boundaries despite rounding.
const locateTolerance = 1e-12

// MapPoint locates the element owning the given coordinates and returns the mapped point
// with the element's sub-domain tag and local size attached. Points on shared facets map
// to the lowest-numbered owning element.
func (m *Mesh) MapPoint(coords ...float64) (data.Point, error) {
	if len(coords) != m.dim {
		return data.Point{}, fmt.Errorf("%w: got %d, mesh is %dD", ErrDimension, len(coords), m.dim)
	}
	var x [3]float64
	copy(x[:], coords)
	for i, e := range m.elements {
		if inside(e.barycentric(m.dim, m.coords, x)) {
			return m.point(i, x), nil
		}
	}
	return data.Point{}, fmt.Errorf("%w: %v", ErrOutside, coords)
}

func inside(lam []float64) bool {
	for _, l := range lam {
		if l < -locateTolerance {
			return false
		}
	}
	return true
}

// MapPoints maps one point per index of the coordinate arrays, one array per axis.
func (m *Mesh) MapPoints(axes ...[]float64) (*data.Batch, error) {
	if len(axes) != m.dim {
		return nil, fmt.Errorf("%w: got %d axes, mesh is %dD", ErrDimension, len(axes), m.dim)
	}
	n := len(axes[0])
	for _, a := range axes[1:] {
		if len(a) != n {
			return nil, ErrCoordinateCount
		}
	}
	pts := make([]data.Point, 0, n)
	coords := make([]float64, m.dim)
	for i := range n {
		for d := range m.dim {
			coords[d] = axes[d][i]
		}
		p, err := m.MapPoint(coords...)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return data.NewBatch(pts...), nil
}

// point builds the sample at x inside element el.
func (m *Mesh) point(el int, x [3]float64) data.Point {
	e := m.elements[el]
	return data.Point{
		Coords:  x,
		Dim:     m.dim,
		Element: el,
		Domain:  e.tag,
		Size:    e.size,
		HasSize: true,
	}
}

// Centroids returns one point per element at its centroid, in element order.
func (m *Mesh) Centroids() *data.Batch {
	pts := make([]data.Point, len(m.elements))
	for i, e := range m.elements {
		pts[i] = m.point(i, m.centroid(e))
	}
	return data.NewBatch(pts...)
}

// IntegrationPoints returns quadrature points on every element, exact for polynomials of
// degree order. Weights include |det J|, so they sum to the mesh volume.
func (m *Mesh) IntegrationPoints(order int) (*data.Batch, error) {
	if order < 0 {
		return nil, fmt.Errorf("%w: %d", ErrOrder, order)
	}
	r := simplexRule(m.dim, order)
	pts := make([]data.Point, 0, len(m.elements)*len(r.weights))
	for i, e := range m.elements {
		for q, ref := range r.points {
			p := m.point(i, e.toPhysical(m.dim, m.coords, ref))
			p.Weight = r.weights[q] * math.Abs(e.det)
			pts = append(pts, p)
		}
	}
	return data.NewBatch(pts...), nil
}

// BoundaryPoints returns quadrature points on the boundary facets with outward unit normals.
// Weights sum to the boundary measure.
func (m *Mesh) BoundaryPoints(order int) (*data.Batch, error) {
	return m.facetPoints(order, m.boundary)
}

// ElementBoundaryPoints returns quadrature points on every facet of every element, each
// carrying the normal pointing out of its own element. Interior facets appear twice.
func (m *Mesh) ElementBoundaryPoints(order int) (*data.Batch, error) {
	facets := make([][2]int, 0, len(m.elements)*(m.dim+1))
	for i, e := range m.elements {
		for k := range e.verts {
			facets = append(facets, [2]int{i, k})
		}
	}
	return m.facetPoints(order, facets)
}

func (m *Mesh) facetPoints(order int, facets [][2]int) (*data.Batch, error) {
	if order < 0 {
		return nil, fmt.Errorf("%w: %d", ErrOrder, order)
	}
	r := simplexRule(m.dim-1, order)
	// scale maps reference facet weights (summing to 1/(dim-1)!) onto the facet measure.
	scale := factorial(m.dim - 1)

	pts := make([]data.Point, 0, len(facets)*len(r.weights))
	for _, f := range facets {
		el, k := f[0], f[1]
		e := m.elements[el]
		normal, area := e.facetNormal(m.dim, k)

		var fv []int
		for i, v := range e.verts {
			if i != k {
				fv = append(fv, v)
			}
		}
		for q, ref := range r.points {
			x := m.coords[fv[0]]
			for c, s := range ref {
				for d := range m.dim {
					x[d] += s * (m.coords[fv[c+1]][d] - m.coords[fv[0]][d])
				}
			}
			p := m.point(el, x)
			p.Normal, p.HasNormal = normal, true
			p.Weight = r.weights[q] * scale * area
			pts = append(pts, p)
		}
	}
	return data.NewBatch(pts...), nil
}

