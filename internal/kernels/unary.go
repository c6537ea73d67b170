package kernels

import (
	"math"
	"math/cmplx"

	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
)

// UnaryFloat applies fn to a real element.
func UnaryFloat(fn expr.Func, x float64) float64 {
	switch fn {
	case expr.FuncNeg:
		return -x
	case expr.FuncExp:
		return math.Exp(x)
	case expr.FuncLog:
		return math.Log(x)
	case expr.FuncSqrt:
		return math.Sqrt(x)
	case expr.FuncSin:
		return math.Sin(x)
	case expr.FuncCos:
		return math.Cos(x)
	case expr.FuncTan:
		return math.Tan(x)
	case expr.FuncAtan:
		return math.Atan(x)
	case expr.FuncAbs:
		return math.Abs(x)
	}
	return math.NaN()
}

// UnaryComplex applies fn to a complex element. Abs returns its result in the real part.
func UnaryComplex(fn expr.Func, z complex128) complex128 {
	switch fn {
	case expr.FuncNeg:
		return -z
	case expr.FuncExp:
		return cmplx.Exp(z)
	case expr.FuncLog:
		return cmplx.Log(z)
	case expr.FuncSqrt:
		return cmplx.Sqrt(z)
	case expr.FuncSin:
		return cmplx.Sin(z)
	case expr.FuncCos:
		return cmplx.Cos(z)
	case expr.FuncTan:
		return cmplx.Tan(z)
	case expr.FuncAtan:
		return cmplx.Atan(z)
	case expr.FuncAbs:
		return complex(cmplx.Abs(z), 0)
	}
	return cmplx.NaN()
}

// Unary applies fn to every component of v.
func Unary(fn expr.Func, v *data.Values) *data.Values {
	if !v.IsComplex() {
		src := v.RealData()
		out := make([]float64, len(src))
		for i, x := range src {
			out[i] = UnaryFloat(fn, x)
		}
		return data.FromReal(v.Width(), v.IsVector(), out)
	}
	src := v.ComplexData()
	if fn == expr.FuncAbs {
		out := make([]float64, len(src))
		for i, z := range src {
			out[i] = real(UnaryComplex(fn, z))
		}
		return data.FromReal(v.Width(), v.IsVector(), out)
	}
	out := make([]complex128, len(src))
	for i, z := range src {
		out[i] = UnaryComplex(fn, z)
	}
	return data.FromComplex(v.Width(), v.IsVector(), out)
}

// Real projects v onto its real part. Real columns are returned as is.
func Real(v *data.Values) *data.Values {
	if !v.IsComplex() {
		return v
	}
	src := v.ComplexData()
	out := make([]float64, len(src))
	for i, z := range src {
		out[i] = real(z)
	}
	return data.FromReal(v.Width(), v.IsVector(), out)
}

// Imag projects v onto its imaginary part. Real columns give zeros.
func Imag(v *data.Values) *data.Values {
	if !v.IsComplex() {
		return data.NewReal(v.Len(), v.Width(), v.IsVector())
	}
	src := v.ComplexData()
	out := make([]float64, len(src))
	for i, z := range src {
		out[i] = imag(z)
	}
	return data.FromReal(v.Width(), v.IsVector(), out)
}
