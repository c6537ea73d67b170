package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjection(t *testing.T) {
	t.Parallel()

	c := Must(Add(1, 2i))
	re := Must(Real(c))
	im := Must(Imag(c))
	assert.Equal(t, KindReal, re.Kind())
	assert.Equal(t, KindImag, im.Kind())
	assert.Equal(t, Scalar, re.Shape())
	assert.Equal(t, "imag((1 + (0+2i)))", im.String())

	v := Must(Real([]complex128{1, 2}))
	assert.Equal(t, Shape{Dim: 2}, v.Shape())
}

func TestVectorAndIndex(t *testing.T) {
	t.Parallel()

	v, err := NewVector(X(), Y(), 1i)
	require.NoError(t, err)
	assert.Equal(t, Shape{Dim: 3, Complex: true}, v.Shape())
	assert.Equal(t, "(x, y, (0+1i))", v.String())

	c, err := Index(v, 1)
	require.NoError(t, err)
	assert.Equal(t, Shape{Complex: true}, c.Shape())
	assert.Equal(t, 1, c.(*Component).Index())

	tests := []struct {
		name string
		src  any
		i    int
	}{
		{"scalar", X(), 0},
		{"negative", v, -1},
		{"past end", v, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Index(tt.src, tt.i)
			require.ErrorIs(t, err, ErrShape)
		})
	}

	t.Run("vector components must be scalar", func(t *testing.T) {
		_, err := NewVector(X(), []float64{1, 2})
		require.ErrorIs(t, err, ErrShape)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewVector()
		require.ErrorIs(t, err, ErrShape)
	})
}

func TestDomainSelect(t *testing.T) {
	t.Parallel()

	t.Run("complex if any branch is complex", func(t *testing.T) {
		d, err := DomainSelect(2, X(), 1i)
		require.NoError(t, err)
		assert.Equal(t, Shape{Complex: true}, d.Shape())
		assert.Equal(t, 2, d.(*DomainSwitch).Domains())
		assert.Equal(t, "domainwise(x, (0+1i))", d.String())
	})

	t.Run("count mismatch", func(t *testing.T) {
		_, err := DomainSelect(3, X(), Y())
		require.ErrorIs(t, err, ErrDomainCount)
	})

	t.Run("zero domains", func(t *testing.T) {
		_, err := DomainSelect(0)
		require.ErrorIs(t, err, ErrDomainCount)
	})

	t.Run("width mismatch", func(t *testing.T) {
		_, err := DomainSelect(2, X(), []float64{1, 2})
		require.ErrorIs(t, err, ErrShape)
	})
}

func TestSpecial(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"mesh_size", "normal"}, SpecialNames())

	h, err := Special("mesh_size", 2)
	require.NoError(t, err)
	assert.Equal(t, KindMeshSize, h.Kind())

	n, err := Special("normal", 3)
	require.NoError(t, err)
	assert.Equal(t, Shape{Dim: 3}, n.Shape())
	assert.Equal(t, "normal(3)", n.String())

	_, err = Special("normal", 4)
	require.ErrorIs(t, err, ErrShape)

	_, err = Special("curvature", 2)
	require.ErrorIs(t, err, ErrUnknownSpecial)
}

func TestParameter(t *testing.T) {
	t.Parallel()

	p := NewParameter("t", 0.5)
	assert.InDelta(t, 0.5, p.Value(), 0)
	p.Set(2)
	assert.InDelta(t, 2.0, p.Value(), 0)
	assert.Equal(t, "t", p.String())
	assert.Equal(t, "parameter(1.5)", NewParameter("", 1.5).String())

	n := Must(Mul(p, X()))
	assert.Same(t, p, n.Children()[0])
}

func TestUnary(t *testing.T) {
	t.Parallel()

	e, err := Exp(X())
	require.NoError(t, err)
	assert.Equal(t, "exp(x)", e.String())

	neg := Must(Neg(X()))
	assert.Equal(t, "-(x)", neg.String())

	abs := Must(Abs(1i))
	assert.Equal(t, Scalar, abs.Shape())

	_, err = Apply(Func("gamma"), X())
	require.ErrorIs(t, err, ErrOperand)
}

func TestIfPos(t *testing.T) {
	t.Parallel()

	n, err := IfPos(X(), 1, 1i)
	require.NoError(t, err)
	assert.Equal(t, Shape{Complex: true}, n.Shape())
	assert.Equal(t, "ifpos(x, 1, (0+1i))", n.String())

	_, err = IfPos(1i, 1, 2)
	require.ErrorIs(t, err, ErrShape)

	_, err = IfPos(X(), 1, []float64{1, 2})
	require.ErrorIs(t, err, ErrShape)
}
