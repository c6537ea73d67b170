package data

import (
	"fmt"
	"strconv"
	"strings"
)

// Values is the column-major result of evaluating one node over a batch: Len samples,
// each holding Width components. Exactly one of the real or complex buffers is in use,
// and sample i, component c lives at index i*Width+c.
type Values struct {
	n      int
	width  int
	vector bool
	re     []float64
	cx     []complex128
}

// NewReal allocates a zeroed real column.
func NewReal(n, width int, vector bool) *Values {
	return &Values{n: n, width: width, vector: vector, re: make([]float64, n*width)}
}

// NewComplex allocates a zeroed complex column.
func NewComplex(n, width int, vector bool) *Values {
	return &Values{n: n, width: width, vector: vector, cx: make([]complex128, n*width)}
}

// New allocates a zeroed column of the requested domain.
func New(n, width int, vector, complexValued bool) *Values {
	if complexValued {
		return NewComplex(n, width, vector)
	}
	return NewReal(n, width, vector)
}

// FromReal wraps existing real data; len(re) must equal n*width.
func FromReal(width int, vector bool, re []float64) *Values {
	return &Values{n: len(re) / width, width: width, vector: vector, re: re}
}

// FromComplex wraps existing complex data; len(cx) must equal n*width.
func FromComplex(width int, vector bool, cx []complex128) *Values {
	return &Values{n: len(cx) / width, width: width, vector: vector, cx: cx}
}

// Len returns the number of samples.
func (v *Values) Len() int { return v.n }

// Width returns the number of components per sample (1 for scalars).
func (v *Values) Width() int { return v.width }

// IsVector reports whether samples are vectors rather than scalars.
func (v *Values) IsVector() bool { return v.vector }

// IsComplex reports whether the complex buffer is in use.
func (v *Values) IsComplex() bool { return v.cx != nil }

// Type returns the value domain.
func (v *Values) Type() Types {
	if v.IsComplex() {
		return COMPLEX
	}
	return REAL
}

// RealData returns the real buffer, or nil for complex columns.
func (v *Values) RealData() []float64 { return v.re }

// ComplexData returns the complex buffer, or nil for real columns.
func (v *Values) ComplexData() []complex128 { return v.cx }

// Float returns the real part of component c of sample i.
func (v *Values) Float(i, c int) float64 {
	if v.cx != nil {
		return real(v.cx[i*v.width+c])
	}
	return v.re[i*v.width+c]
}

// Complex returns component c of sample i as a complex number.
func (v *Values) Complex(i, c int) complex128 {
	if v.cx != nil {
		return v.cx[i*v.width+c]
	}
	return complex(v.re[i*v.width+c], 0)
}

// Scalar returns component 0 of sample i.
func (v *Values) Scalar(i int) complex128 {
	return v.Complex(i, 0)
}

// Row returns a copy of every component of sample i.
func (v *Values) Row(i int) []complex128 {
	out := make([]complex128, v.width)
	for c := range out {
		out[c] = v.Complex(i, c)
	}
	return out
}

// FloatRow returns a copy of the real parts of sample i.
func (v *Values) FloatRow(i int) []float64 {
	out := make([]float64, v.width)
	for c := range out {
		out[c] = v.Float(i, c)
	}
	return out
}

// ToComplex returns v itself when already complex, otherwise a promoted copy.
func (v *Values) ToComplex() *Values {
	if v.cx != nil {
		return v
	}
	out := NewComplex(v.n, v.width, v.vector)
	for i, r := range v.re {
		out.cx[i] = complex(r, 0)
	}
	return out
}

// Concat joins columns of identical layout, preserving order.
func Concat(parts ...*Values) (*Values, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", ErrLayout)
	}
	first := parts[0]
	anyComplex := false
	n := 0
	for _, p := range parts {
		if p.width != first.width || p.vector != first.vector {
			return nil, fmt.Errorf("%w: width %d vs %d", ErrLayout, p.width, first.width)
		}
		anyComplex = anyComplex || p.IsComplex()
		n += p.n
	}
	out := New(n, first.width, first.vector, anyComplex)
	off := 0
	for _, p := range parts {
		if anyComplex {
			copy(out.cx[off:], p.ToComplex().cx)
		} else {
			copy(out.re[off:], p.re)
		}
		off += p.n * p.width
	}
	return out, nil
}

// Inspect renders the column for diagnostics, one sample per line.
func (v *Values) Inspect() string {
	var sb strings.Builder
	for i := 0; i < v.n; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(FormatRow(v, i))
	}
	return sb.String()
}

// FormatRow renders sample i as "a" for scalars or "(a, b, ...)" for vectors.
func FormatRow(v *Values, i int) string {
	parts := make([]string, v.width)
	for c := range parts {
		if v.IsComplex() {
			parts[c] = strconv.FormatComplex(v.Complex(i, c), 'g', -1, 128)
		} else {
			parts[c] = strconv.FormatFloat(v.Float(i, c), 'g', -1, 64)
		}
	}
	if !v.vector {
		return parts[0]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
