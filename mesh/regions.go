package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Region is a sub-domain shape used to tag elements.
type Region interface {
	Contains(p [3]float64) bool
}

// shape2 tags elements whose centroid lies inside a planar signed distance field.
type shape2 struct {
	s sdf.SDF2
}

func (r shape2) Contains(p [3]float64) bool {
	return r.s.Evaluate(v2.Vec{X: p[0], Y: p[1]}) <= 0
}

// shape3 tags elements whose centroid lies inside a solid signed distance field.
type shape3 struct {
	s sdf.SDF3
}

func (r shape3) Contains(p [3]float64) bool {
	return r.s.Evaluate(v3.Vec{X: p[0], Y: p[1], Z: p[2]}) <= 0
}

// Shape2 wraps any sdfx 2D shape as a region.
func Shape2(s sdf.SDF2) Region { return shape2{s: s} }

// Shape3 wraps any sdfx 3D shape as a region.
func Shape3(s sdf.SDF3) Region { return shape3{s: s} }

// Disk is the closed disk of radius r around (cx, cy).
func Disk(cx, cy, r float64) (Region, error) {
	c, err := sdf.Circle2D(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegion, err)
	}
	return Shape2(sdf.Transform2D(c, sdf.Translate2d(v2.Vec{X: cx, Y: cy}))), nil
}

// Rect is the axis-aligned rectangle spanning lo to hi.
func Rect(lo, hi [2]float64) (Region, error) {
	size := v2.Vec{X: hi[0] - lo[0], Y: hi[1] - lo[1]}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: rectangle %v to %v", ErrRegion, lo, hi)
	}
	b := sdf.Box2D(size, 0)
	center := v2.Vec{X: (lo[0] + hi[0]) / 2, Y: (lo[1] + hi[1]) / 2}
	return Shape2(sdf.Transform2D(b, sdf.Translate2d(center))), nil
}

// Ball is the closed ball of radius r around c.
func Ball(c [3]float64, r float64) (Region, error) {
	s, err := sdf.Sphere3D(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegion, err)
	}
	return Shape3(sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: c[0], Y: c[1], Z: c[2]}))), nil
}

// Block is the axis-aligned box spanning lo to hi.
func Block(lo, hi [3]float64) (Region, error) {
	size := v3.Vec{X: hi[0] - lo[0], Y: hi[1] - lo[1], Z: hi[2] - lo[2]}
	s, err := sdf.Box3D(size, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegion, err)
	}
	center := v3.Vec{X: (lo[0] + hi[0]) / 2, Y: (lo[1] + hi[1]) / 2, Z: (lo[2] + hi[2]) / 2}
	return Shape3(sdf.Transform3D(s, sdf.Translate3d(center))), nil
}
