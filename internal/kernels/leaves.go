// Package kernels holds the column-wise numeric operations shared by the interpreter and
// compiled plans. Both evaluation paths call the same functions in the same order, which
// keeps their results bit-identical. Kernels never modify their inputs.
package kernels

import (
	"fmt"

	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
)

// Broadcast repeats a constant n times.
func Broadcast(c *expr.Constant, n int) *data.Values {
	s := c.Shape()
	out := data.New(n, s.Width(), s.IsVector(), s.Complex)
	if s.Complex {
		src, dst := c.ComplexData(), out.ComplexData()
		for i := 0; i < n; i++ {
			copy(dst[i*len(src):], src)
		}
		return out
	}
	src, dst := c.RealData(), out.RealData()
	for i := 0; i < n; i++ {
		copy(dst[i*len(src):], src)
	}
	return out
}

// Fill returns a real scalar column holding v.
func Fill(v float64, n int) *data.Values {
	out := data.NewReal(n, 1, false)
	re := out.RealData()
	for i := range re {
		re[i] = v
	}
	return out
}

// Coordinates reads one axis of every point.
func Coordinates(b *data.Batch, axis int) *data.Values {
	out := data.NewReal(b.Len(), 1, false)
	re := out.RealData()
	for i := range re {
		re[i] = b.At(i).Coords[axis]
	}
	return out
}

// MeshSize reads the element size of every point.
func MeshSize(b *data.Batch) (*data.Values, error) {
	out := data.NewReal(b.Len(), 1, false)
	re := out.RealData()
	for i := range re {
		p := b.At(i)
		if !p.HasSize {
			return nil, fmt.Errorf("%w: mesh_size at %s", ErrMissingGeometry, p)
		}
		re[i] = p.Size
	}
	return out, nil
}

// Normal reads the first dim components of the normal of every point.
func Normal(b *data.Batch, dim int) (*data.Values, error) {
	out := data.NewReal(b.Len(), dim, true)
	re := out.RealData()
	for i := 0; i < b.Len(); i++ {
		p := b.At(i)
		if !p.HasNormal {
			return nil, fmt.Errorf("%w: normal at %s", ErrMissingGeometry, p)
		}
		copy(re[i*dim:(i+1)*dim], p.Normal[:dim])
	}
	return out, nil
}
