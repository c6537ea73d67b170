package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLift(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		shape Shape
		str   string
	}{
		{"int", 3, Scalar, "3"},
		{"float", 0.5, Scalar, "0.5"},
		{"complex", complex(1, 2), Shape{Complex: true}, "(1+2i)"},
		{"real vector", []float64{1, 3}, Shape{Dim: 2}, "[1, 3]"},
		{"complex vector", []complex128{1, 1i}, Shape{Dim: 2, Complex: true}, "[(1+0i), (0+1i)]"},
		{"node passes through", X(), Scalar, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Lift(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, n.Shape())
			assert.Equal(t, tt.str, n.String())
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, err := Lift("x")
		require.ErrorIs(t, err, ErrOperand)
	})

	t.Run("empty vector", func(t *testing.T) {
		_, err := Lift([]float64{})
		require.ErrorIs(t, err, ErrOperand)
	})
}

func TestCoord(t *testing.T) {
	t.Parallel()

	c, err := Coord(2)
	require.NoError(t, err)
	assert.Equal(t, "z", c.String())
	assert.Equal(t, KindCoordinate, c.Kind())

	_, err = Coord(3)
	require.ErrorIs(t, err, ErrShape)
}

func TestMust(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { Must(Add(X(), 1)) })
	assert.Panics(t, func() { Must(Index(X(), 0)) })
}

func TestConstantIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, Const(0).IsZero())
	assert.False(t, VectorConst(0, 1).IsZero())
	assert.True(t, ComplexConst(0).IsZero())
}
