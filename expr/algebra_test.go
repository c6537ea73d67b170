package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryShapes(t *testing.T) {
	t.Parallel()

	vec2 := []float64{1, 2}
	vec3 := []float64{1, 2, 3}

	tests := []struct {
		name    string
		op      Op
		a, b    any
		want    Shape
		wantErr bool
	}{
		{"scalar plus scalar", OpAdd, X(), 1, Scalar, false},
		{"real times complex", OpMul, X(), 1i, Shape{Complex: true}, false},
		{"scalar times vector", OpMul, 2, vec2, Shape{Dim: 2}, false},
		{"vector times scalar", OpMul, vec2, X(), Shape{Dim: 2}, false},
		{"vector over scalar", OpDiv, vec2, 2, Shape{Dim: 2}, false},
		{"vector plus vector", OpAdd, vec2, vec2, Shape{Dim: 2}, false},
		{"vector minus vector", OpSub, vec3, vec3, Shape{Dim: 3}, false},
		{"inner product", OpMul, vec2, []complex128{1, 1i}, Shape{Complex: true}, false},
		{"scalar plus vector", OpAdd, 1, vec2, Shape{}, true},
		{"scalar over vector", OpDiv, 1, vec2, Shape{}, true},
		{"vector over vector", OpDiv, vec2, vec2, Shape{}, true},
		{"width mismatch", OpAdd, vec2, vec3, Shape{}, true},
		{"inner width mismatch", OpMul, vec2, vec3, Shape{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewBinary(tt.op, tt.a, tt.b)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrShape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Shape())
			assert.Equal(t, KindBinary, n.Kind())
		})
	}
}

func TestBinaryAccessors(t *testing.T) {
	t.Parallel()

	n, err := Sub(X(), Y())
	require.NoError(t, err)
	b := n.(*Binary)
	assert.Equal(t, OpSub, b.Op())
	assert.Equal(t, "x", b.Left().String())
	assert.Equal(t, "y", b.Right().String())
	assert.Equal(t, "(x - y)", b.String())
	assert.False(t, b.IsInner())

	inner := Must(Mul([]float64{1, 0}, Must(Normal(2)))).(*Binary)
	assert.True(t, inner.IsInner())

	_, err = NewBinary(Op("%"), 1, 2)
	require.ErrorIs(t, err, ErrOperand)
}

func TestSharedChildren(t *testing.T) {
	t.Parallel()

	f := Must(Add(X(), 0.1))
	cube := Must(Mul(Must(Mul(f, f)), f))
	assert.Equal(t, 5, Count(cube), "x, 0.1, f, f*f, f*f*f")

	uses := Uses(cube)
	assert.Equal(t, 3, uses[f])
	assert.Equal(t, 0, uses[cube])
}
