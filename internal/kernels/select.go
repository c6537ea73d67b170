package kernels

import (
	"fmt"

	"github.com/robbyt/go-fieldexpr/execution/data"
)

// Component extracts component c of a vector column as a scalar column.
func Component(v *data.Values, c int) *data.Values {
	n, w := v.Len(), v.Width()
	if v.IsComplex() {
		src := v.ComplexData()
		out := make([]complex128, n)
		for i := range out {
			out[i] = src[i*w+c]
		}
		return data.FromComplex(1, false, out)
	}
	src := v.RealData()
	out := make([]float64, n)
	for i := range out {
		out[i] = src[i*w+c]
	}
	return data.FromReal(1, false, out)
}

// Stack interleaves scalar columns into one vector column.
func Stack(parts []*data.Values, complexValued bool) (*data.Values, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: nothing to stack", data.ErrLayout)
	}
	n, w := parts[0].Len(), len(parts)
	out := data.New(n, w, true, complexValued)
	for c, p := range parts {
		if p.Len() != n || p.Width() != 1 {
			return nil, fmt.Errorf("%w: component %d", data.ErrLayout, c)
		}
		for i := 0; i < n; i++ {
			setElem(out, i*w+c, p, i)
		}
	}
	return out, nil
}

// IfPos takes each row from pos where cond is positive and from other elsewhere.
func IfPos(cond, pos, other *data.Values) (*data.Values, error) {
	n := cond.Len()
	if pos.Len() != n || other.Len() != n || pos.Width() != other.Width() {
		return nil, fmt.Errorf("%w: ifpos operands", data.ErrLayout)
	}
	out := data.New(n, pos.Width(), pos.IsVector(), pos.IsComplex() || other.IsComplex())
	for i := 0; i < n; i++ {
		src := other
		if cond.Float(i, 0) > 0 {
			src = pos
		}
		copyRow(out, i, src, i)
	}
	return out, nil
}

// Partition groups sample indices by domain tag. It fails on tags outside [0, domains).
func Partition(b *data.Batch, domains int) ([][]int, error) {
	groups := make([][]int, domains)
	for i := 0; i < b.Len(); i++ {
		tag := b.At(i).Domain
		if tag < 0 || tag >= domains {
			return nil, fmt.Errorf("%w: tag %d with %d domains at %s", ErrDomainTag, tag, domains, b.At(i))
		}
		groups[tag] = append(groups[tag], i)
	}
	return groups, nil
}

// Scatter writes row k of src to row idx[k] of dst.
func Scatter(dst, src *data.Values, idx []int) {
	for k, i := range idx {
		copyRow(dst, i, src, k)
	}
}

func copyRow(dst *data.Values, i int, src *data.Values, j int) {
	w := dst.Width()
	for c := 0; c < w; c++ {
		setElem(dst, i*w+c, src, j*w+c)
	}
}

// setElem copies flat element j of src to flat element i of dst, promoting to complex.
func setElem(dst *data.Values, i int, src *data.Values, j int) {
	if dst.IsComplex() {
		if src.IsComplex() {
			dst.ComplexData()[i] = src.ComplexData()[j]
		} else {
			dst.ComplexData()[i] = complex(src.RealData()[j], 0)
		}
		return
	}
	dst.RealData()[i] = src.RealData()[j]
}
