package kernels

import (
	"fmt"

	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
)

// Number is the element type of a value column.
type Number interface {
	float64 | complex128
}

// Arith applies op to two elements. Products are converted explicitly so the compiler
// cannot fuse them into a neighbouring addition.
func Arith[T Number](op expr.Op, a, b T) T {
	switch op {
	case expr.OpAdd:
		return a + b
	case expr.OpSub:
		return a - b
	case expr.OpMul:
		return T(a * b)
	default:
		return a / b
	}
}

// Inner returns the non-conjugated inner product of a and b in component order.
func Inner[T Number](a, b []T) T {
	var s T
	for c := range a {
		s += T(a[c] * b[c])
	}
	return s
}

// Binary combines two columns under the broadcasting rules of expr.Binary.
func Binary(op expr.Op, l, r *data.Values) (*data.Values, error) {
	if l.Len() != r.Len() {
		return nil, fmt.Errorf("%w: %d vs %d samples", data.ErrLayout, l.Len(), r.Len())
	}
	if l.IsComplex() || r.IsComplex() {
		lc, rc := l.ToComplex(), r.ToComplex()
		out, width, vector, err := binaryCols(op, lc.ComplexData(), rc.ComplexData(), l, r)
		if err != nil {
			return nil, err
		}
		return data.FromComplex(width, vector, out), nil
	}
	out, width, vector, err := binaryCols(op, l.RealData(), r.RealData(), l, r)
	if err != nil {
		return nil, err
	}
	return data.FromReal(width, vector, out), nil
}

func binaryCols[T Number](op expr.Op, a, b []T, l, r *data.Values) ([]T, int, bool, error) {
	n := l.Len()
	lw, rw := l.Width(), r.Width()
	switch {
	case !l.IsVector() && !r.IsVector():
		out := make([]T, n)
		for i := range out {
			out[i] = Arith(op, a[i], b[i])
		}
		return out, 1, false, nil

	case !l.IsVector() && r.IsVector() && op == expr.OpMul:
		out := make([]T, n*rw)
		for i := 0; i < n; i++ {
			for c := 0; c < rw; c++ {
				out[i*rw+c] = Arith(op, a[i], b[i*rw+c])
			}
		}
		return out, rw, true, nil

	case l.IsVector() && !r.IsVector() && (op == expr.OpMul || op == expr.OpDiv):
		out := make([]T, n*lw)
		for i := 0; i < n; i++ {
			for c := 0; c < lw; c++ {
				out[i*lw+c] = Arith(op, a[i*lw+c], b[i])
			}
		}
		return out, lw, true, nil

	case l.IsVector() && r.IsVector() && lw == rw && (op == expr.OpAdd || op == expr.OpSub):
		out := make([]T, n*lw)
		for i := range out {
			out[i] = Arith(op, a[i], b[i])
		}
		return out, lw, true, nil

	case l.IsVector() && r.IsVector() && lw == rw && op == expr.OpMul:
		out := make([]T, n)
		for i := range out {
			out[i] = Inner(a[i*lw:(i+1)*lw], b[i*lw:(i+1)*lw])
		}
		return out, 1, false, nil
	}
	return nil, 0, false, fmt.Errorf("%w: %s with widths %d and %d", data.ErrLayout, op, lw, rw)
}
