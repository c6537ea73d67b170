// Package mesh is a small simplicial mesh used to drive field evaluation end to end:
// it maps coordinates to points with element geometry attached, generates quadrature
// points on elements and facets, and integrates fields.
package mesh

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/robbyt/go-fieldexpr/internal/helpers"
)

// Mesh is an immutable conforming simplicial mesh of triangles or tetrahedra.
type Mesh struct {
	dim      int
	coords   [][3]float64
	elements []*element
	domains  int
	// boundary lists (element, local vertex) pairs whose opposite facet lies on the boundary.
	boundary [][2]int
	logger   *slog.Logger
}

// Option configures mesh construction.
type Option func(*config) error

type config struct {
	regions    []Region
	logHandler slog.Handler
}

// WithRegions tags elements by sub-domain: the tag of an element is the index of the
// first region containing its centroid, or len(regions) when none does.
func WithRegions(regions ...Region) Option {
	return func(c *config) error {
		for i, r := range regions {
			if r == nil {
				return fmt.Errorf("%w: region %d is nil", ErrRegion, i)
			}
		}
		c.regions = regions
		return nil
	}
}

// WithLogHandler sets the log handler for mesh construction.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		return nil
	}
}

// UnitSquare meshes [0,1]² with n×n cells of two triangles each.
func UnitSquare(n int, opts ...Option) (*Mesh, error) {
	return Rectangle([2]float64{0, 0}, [2]float64{1, 1}, n, n, opts...)
}

// Rectangle meshes the axis-aligned rectangle lo..hi with nx×ny cells of two triangles each.
func Rectangle(lo, hi [2]float64, nx, ny int, opts ...Option) (*Mesh, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrResolution, nx, ny)
	}
	if hi[0] <= lo[0] || hi[1] <= lo[1] {
		return nil, fmt.Errorf("%w: %v to %v", ErrBounds, lo, hi)
	}
	hx := (hi[0] - lo[0]) / float64(nx)
	hy := (hi[1] - lo[1]) / float64(ny)

	coords := make([][3]float64, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			coords = append(coords, [3]float64{lo[0] + float64(i)*hx, lo[1] + float64(j)*hy, 0})
		}
	}
	id := func(i, j int) int { return j*(nx+1) + i }

	cells := make([][]int, 0, 2*nx*ny)
	for j := range ny {
		for i := range nx {
			a, b, c, d := id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)
			cells = append(cells, []int{a, b, c}, []int{a, c, d})
		}
	}
	return build(2, coords, cells, opts)
}

// kuhn lists the axis orders of the six tetrahedra of a cube cell; every tetrahedron
// runs from the low corner to the high corner along the cell diagonal.
var kuhn = [6][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

// UnitCube meshes [0,1]³ with n³ cells of six Kuhn tetrahedra each.
func UnitCube(n int, opts ...Option) (*Mesh, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrResolution, n)
	}
	h := 1 / float64(n)
	coords := make([][3]float64, 0, (n+1)*(n+1)*(n+1))
	for k := 0; k <= n; k++ {
		for j := 0; j <= n; j++ {
			for i := 0; i <= n; i++ {
				coords = append(coords, [3]float64{float64(i) * h, float64(j) * h, float64(k) * h})
			}
		}
	}
	id := func(c [3]int) int { return (c[2]*(n+1)+c[1])*(n+1) + c[0] }

	cells := make([][]int, 0, 6*n*n*n)
	for k := range n {
		for j := range n {
			for i := range n {
				for _, order := range kuhn {
					c := [3]int{i, j, k}
					tet := []int{id(c)}
					for _, axis := range order {
						c[axis]++
						tet = append(tet, id(c))
					}
					cells = append(cells, tet)
				}
			}
		}
	}
	return build(3, coords, cells, opts)
}

func build(dim int, coords [][3]float64, cells [][]int, opts []Option) (*Mesh, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying mesh option: %w", err)
		}
	}
	_, logger := helpers.SetupLogger(cfg.logHandler, "mesh", "")

	m := &Mesh{
		dim:      dim,
		coords:   coords,
		elements: make([]*element, 0, len(cells)),
		domains:  len(cfg.regions) + 1,
		logger:   logger,
	}
	for _, cell := range cells {
		e, err := newElement(dim, coords, cell)
		if err != nil {
			return nil, err
		}
		e.tag = len(cfg.regions)
		centroid := m.centroid(e)
		for i, r := range cfg.regions {
			if r.Contains(centroid) {
				e.tag = i
				break
			}
		}
		m.elements = append(m.elements, e)
	}
	m.boundary = m.findBoundary()

	logger.Debug("mesh built",
		"dim", dim,
		"vertices", len(coords),
		"elements", len(m.elements),
		"boundary_facets", len(m.boundary),
		"domains", m.domains,
	)
	return m, nil
}

// findBoundary returns the facets that belong to exactly one element.
func (m *Mesh) findBoundary() [][2]int {
	type owner struct{ el, local, count int }
	facets := make(map[string]*owner)
	var order []string
	for ei, e := range m.elements {
		for k := range e.verts {
			key := facetKey(e.verts, k)
			if o, ok := facets[key]; ok {
				o.count++
				continue
			}
			facets[key] = &owner{el: ei, local: k, count: 1}
			order = append(order, key)
		}
	}
	var out [][2]int
	for _, key := range order {
		if o := facets[key]; o.count == 1 {
			out = append(out, [2]int{o.el, o.local})
		}
	}
	return out
}

// facetKey identifies the facet opposite local vertex k independent of orientation.
func facetKey(verts []int, k int) string {
	f := make([]int, 0, len(verts)-1)
	for i, v := range verts {
		if i != k {
			f = append(f, v)
		}
	}
	slices.Sort(f)
	return fmt.Sprint(f)
}

func (m *Mesh) centroid(e *element) [3]float64 {
	var c [3]float64
	for _, v := range e.verts {
		for r := range m.dim {
			c[r] += m.coords[v][r]
		}
	}
	for r := range m.dim {
		c[r] /= float64(len(e.verts))
	}
	return c
}

func (m *Mesh) String() string {
	return fmt.Sprintf("mesh.Mesh{dim: %d, elements: %d, domains: %d}", m.dim, len(m.elements), m.domains)
}

// Dim returns the spatial dimension.
func (m *Mesh) Dim() int { return m.dim }

// Elements returns the number of elements.
func (m *Mesh) Elements() int { return len(m.elements) }

// Domains returns the number of sub-domain tags in use: one per region plus the remainder.
func (m *Mesh) Domains() int { return m.domains }

// Tag returns the sub-domain tag of element i.
func (m *Mesh) Tag(i int) int { return m.elements[i].tag }

// Size returns the local size |det J|^(1/dim) of element i.
func (m *Mesh) Size(i int) float64 { return m.elements[i].size }

// Measure returns the volume of element i.
func (m *Mesh) Measure(i int) float64 { return m.elements[i].measure(m.dim) }

// BoundaryFacets returns the number of facets on the mesh boundary.
func (m *Mesh) BoundaryFacets() int { return len(m.boundary) }
