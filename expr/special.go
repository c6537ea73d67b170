package expr

import (
	"fmt"
	"slices"
)

// ElementSize is the local mesh size supplied with each sample.
type ElementSize struct{}

// MeshSize returns the mesh-size leaf.
func MeshSize() Node { return &ElementSize{} }

func (*ElementSize) Kind() Kind       { return KindMeshSize }
func (*ElementSize) Shape() Shape     { return Scalar }
func (*ElementSize) Children() []Node { return nil }
func (*ElementSize) String() string   { return "mesh_size" }

// FacetNormal is the outward unit normal supplied with facet samples.
type FacetNormal struct {
	dim int
}

// Normal returns the first dim components of the sample normal, as a vector leaf.
func Normal(dim int) (Node, error) {
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("%w: normal dimension %d", ErrShape, dim)
	}
	return &FacetNormal{dim: dim}, nil
}

func (n *FacetNormal) Kind() Kind       { return KindNormal }
func (n *FacetNormal) Shape() Shape     { return Shape{Dim: n.dim} }
func (n *FacetNormal) Children() []Node { return nil }
func (n *FacetNormal) Dim() int         { return n.dim }
func (n *FacetNormal) String() string   { return fmt.Sprintf("normal(%d)", n.dim) }

// SpecialConstructor builds a special-field leaf for a spatial dimension.
type SpecialConstructor func(dim int) (Node, error)

var specials = map[string]SpecialConstructor{
	"mesh_size": func(int) (Node, error) { return MeshSize(), nil },
	"normal":    Normal,
}

// Special resolves a special field by name.
func Special(name string, dim int) (Node, error) {
	ctor, ok := specials[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecial, name)
	}
	return ctor(dim)
}

// SpecialNames returns the registered special-field names, sorted.
func SpecialNames() []string {
	names := make([]string, 0, len(specials))
	for name := range specials {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
