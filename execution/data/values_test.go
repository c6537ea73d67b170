package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValues_Accessors(t *testing.T) {
	t.Parallel()

	t.Run("real vector", func(t *testing.T) {
		v := FromReal(2, true, []float64{1, 2, 3, 4})
		assert.Equal(t, 2, v.Len())
		assert.Equal(t, 2, v.Width())
		assert.True(t, v.IsVector())
		assert.False(t, v.IsComplex())
		assert.Equal(t, REAL, v.Type())
		assert.Equal(t, 3.0, v.Float(1, 0))
		assert.Equal(t, complex(4, 0), v.Complex(1, 1))
		assert.Equal(t, []complex128{1, 2}, v.Row(0))
		assert.Equal(t, []float64{3, 4}, v.FloatRow(1))
		assert.Nil(t, v.ComplexData())
	})

	t.Run("complex scalar", func(t *testing.T) {
		v := FromComplex(1, false, []complex128{1 + 2i, 3 - 1i})
		assert.Equal(t, COMPLEX, v.Type())
		assert.Equal(t, 3.0, v.Float(1, 0))
		assert.Equal(t, 1+2i, v.Scalar(0))
		assert.Same(t, v, v.ToComplex())
	})

	t.Run("promotion keeps values", func(t *testing.T) {
		v := FromReal(1, false, []float64{1.5, -2})
		c := v.ToComplex()
		require.True(t, c.IsComplex())
		assert.Equal(t, []complex128{1.5, -2}, c.ComplexData())
	})
}

func TestConcat(t *testing.T) {
	t.Parallel()

	t.Run("mixed domains promote", func(t *testing.T) {
		a := FromReal(1, false, []float64{1, 2})
		b := FromComplex(1, false, []complex128{3i})
		out, err := Concat(a, b)
		require.NoError(t, err)
		assert.Equal(t, 3, out.Len())
		assert.Equal(t, []complex128{1, 2, 3i}, out.ComplexData())
	})

	t.Run("layout mismatch", func(t *testing.T) {
		a := FromReal(1, false, []float64{1})
		b := FromReal(2, true, []float64{1, 2})
		_, err := Concat(a, b)
		require.ErrorIs(t, err, ErrLayout)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Concat()
		require.ErrorIs(t, err, ErrLayout)
	})
}

func TestFormatRow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(0.5, 2)", FormatRow(FromReal(2, true, []float64{0.5, 2}), 0))
	assert.Equal(t, "0.25", FormatRow(FromReal(1, false, []float64{0.25}), 0))
	assert.Equal(t, "(1+2i)", FormatRow(FromComplex(1, false, []complex128{1 + 2i}), 0))
	assert.Equal(t, "1\n2", FromReal(1, false, []float64{1, 2}).Inspect())
}
