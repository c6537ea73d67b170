package data

import "fmt"

// MaxDim is the largest spatial dimension a point can carry.
const MaxDim = 3

// Point is a single mapped sample: a location plus the geometric metadata the mesh
// collaborator attaches to it. Points are read-only to the engine.
type Point struct {
	// Coords holds the physical coordinates; unused axes are zero.
	Coords [MaxDim]float64

	// Dim is the spatial dimension of the mesh the point was mapped on.
	Dim int

	// Element is the index of the owning element, or -1 when unknown.
	Element int

	// Domain is the sub-domain tag of the owning element.
	Domain int

	// Size is the local element size (|det J|^(1/dim)); valid when HasSize is set.
	Size    float64
	HasSize bool

	// Normal is the outward unit normal on a facet; valid when HasNormal is set.
	Normal    [MaxDim]float64
	HasNormal bool

	// Weight is the quadrature weight (including the Jacobian), zero outside integration.
	Weight float64
}

// At returns a bare point at the given coordinates, with no element or geometry attached.
func At(coords ...float64) Point {
	p := Point{Dim: len(coords), Element: -1}
	for i := 0; i < len(coords) && i < MaxDim; i++ {
		p.Coords[i] = coords[i]
	}
	if p.Dim > MaxDim {
		p.Dim = MaxDim
	}
	return p
}

func (p Point) String() string {
	return fmt.Sprintf("Point{%v, el=%d, dom=%d}", p.Coords[:max(p.Dim, 1)], p.Element, p.Domain)
}
