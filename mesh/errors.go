package mesh

import "errors"

var (
	ErrResolution      = errors.New("mesh resolution must be at least 1")
	ErrBounds          = errors.New("mesh bounds are empty")
	ErrDegenerate      = errors.New("degenerate element")
	ErrOutside         = errors.New("point is outside the mesh")
	ErrDimension       = errors.New("coordinate count does not match mesh dimension")
	ErrOrder           = errors.New("quadrature order must be non-negative")
	ErrNotRealScalar   = errors.New("field is not a real scalar")
	ErrRegion          = errors.New("invalid region")
	ErrCoordinateCount = errors.New("coordinate arrays differ in length")
)
