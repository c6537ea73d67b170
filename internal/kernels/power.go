package kernels

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/robbyt/go-fieldexpr/execution/data"
)

// maxMulExponent bounds the exponents PowInt expands into repeated multiplication.
const maxMulExponent = 64

// PowInt multiplies |p| copies of b left to right, starting from one, and inverts the
// product when p is negative. Exponents beyond maxMulExponent, and negative powers whose
// product is zero, go through the general power, so a zero base gives an infinity.
func PowInt[T Number](b T, p int) T {
	if p > maxMulExponent || p < -maxMulExponent {
		return powGeneral(b, p)
	}
	k := p
	if k < 0 {
		k = -k
	}
	r := T(1)
	for range k {
		r = T(r * b)
	}
	if p < 0 {
		if r == 0 {
			return powGeneral(b, p)
		}
		return 1 / r
	}
	return r
}

func powGeneral[T Number](b T, p int) T {
	if v, ok := any(b).(complex128); ok {
		return any(cmplx.Pow(v, complex(float64(p), 0))).(T)
	}
	return any(math.Pow(any(b).(float64), float64(p))).(T)
}

// PowFloat raises a real base to a real exponent.
func PowFloat(b, e float64) float64 {
	return math.Pow(b, e)
}

// PowComplex raises a complex base to a complex exponent on the principal branch.
func PowComplex(b, e complex128) complex128 {
	return cmplx.Pow(b, e)
}

// PowIntValues applies PowInt to a scalar column.
func PowIntValues(base *data.Values, p int) *data.Values {
	if base.IsComplex() {
		src := base.ComplexData()
		out := make([]complex128, len(src))
		for i, v := range src {
			out[i] = PowInt(v, p)
		}
		return data.FromComplex(1, false, out)
	}
	src := base.RealData()
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = PowInt(v, p)
	}
	return data.FromReal(1, false, out)
}

// PowFloatValues raises a scalar column to a constant real exponent.
func PowFloatValues(base *data.Values, e float64) *data.Values {
	if base.IsComplex() {
		src := base.ComplexData()
		out := make([]complex128, len(src))
		for i, v := range src {
			out[i] = PowComplex(v, complex(e, 0))
		}
		return data.FromComplex(1, false, out)
	}
	src := base.RealData()
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = PowFloat(v, e)
	}
	return data.FromReal(1, false, out)
}

// PowValues raises a scalar column to a per-sample exponent column.
func PowValues(base, exp *data.Values) (*data.Values, error) {
	if base.Len() != exp.Len() {
		return nil, fmt.Errorf("%w: %d vs %d samples", data.ErrLayout, base.Len(), exp.Len())
	}
	if base.IsComplex() || exp.IsComplex() {
		b, e := base.ToComplex().ComplexData(), exp.ToComplex().ComplexData()
		out := make([]complex128, len(b))
		for i := range out {
			out[i] = PowComplex(b[i], e[i])
		}
		return data.FromComplex(1, false, out), nil
	}
	b, e := base.RealData(), exp.RealData()
	out := make([]float64, len(b))
	for i := range out {
		out[i] = PowFloat(b[i], e[i])
	}
	return data.FromReal(1, false, out), nil
}
