package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
)

// cubePlan is x*x*x written by hand: r0 = x, r1 = r0*r0, r2 = r1*r0.
func cubePlan(t *testing.T) *Program {
	t.Helper()
	instrs := []Instruction{
		{Op: OpCoord, Dst: 0, Int: 0, Shape: expr.Scalar},
		{Op: OpBinary, Dst: 1, Args: []int{0, 0}, BinOp: expr.OpMul, Shape: expr.Scalar},
		{Op: OpBinary, Dst: 2, Args: []int{1, 0}, BinOp: expr.OpMul, Shape: expr.Scalar},
	}
	p, err := NewProgram("((x * x) * x)", instrs, 2, expr.Scalar)
	require.NoError(t, err)
	return p
}

func TestNewProgram(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		instrs []Instruction
		result int
		err    error
	}{
		{"empty", nil, 0, ErrEmptyProgram},
		{"wrong destination", []Instruction{{Op: OpCoord, Dst: 1}}, 0, ErrBadInstruction},
		{"forward reference", []Instruction{
			{Op: OpCoord, Dst: 0},
			{Op: OpBinary, Dst: 1, Args: []int{0, 1}, BinOp: expr.OpAdd},
		}, 1, ErrBadInstruction},
		{"result out of range", []Instruction{{Op: OpCoord, Dst: 0}}, 1, ErrBadInstruction},
		{"valid", []Instruction{{Op: OpCoord, Dst: 0}}, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProgram("x", tt.instrs, tt.result, expr.Scalar)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, p.Len())
		})
	}
}

func TestProgramEvaluate(t *testing.T) {
	t.Parallel()
	p := cubePlan(t)

	t.Run("values", func(t *testing.T) {
		v, err := p.Evaluate(context.Background(), data.NewBatch(data.At(2), data.At(-1.5)))
		require.NoError(t, err)
		assert.Equal(t, []float64{8, -3.375}, v.RealData())
	})

	t.Run("empty batch", func(t *testing.T) {
		v, err := p.Evaluate(context.Background(), data.NewBatch())
		require.NoError(t, err)
		assert.Equal(t, 0, v.Len())
		assert.False(t, v.IsComplex())
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Evaluate(ctx, data.NewBatch(data.At(1)))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unknown opcode", func(t *testing.T) {
		bad, err := NewProgram("?", []Instruction{{Op: OpCode(200), Dst: 0}}, 0, expr.Scalar)
		require.NoError(t, err)
		_, err = bad.Evaluate(context.Background(), data.NewBatch(data.At(1)))
		require.ErrorIs(t, err, ErrBadInstruction)
	})
}

func TestProgramDomainBranches(t *testing.T) {
	t.Parallel()
	branch := cubePlan(t)
	other, err := NewProgram("1", []Instruction{
		{Op: OpConst, Dst: 0, Const: expr.Const(1), Shape: expr.Scalar},
	}, 0, expr.Scalar)
	require.NoError(t, err)

	p, err := NewProgram("domainwise(...)", []Instruction{
		{Op: OpDomain, Dst: 0, Branches: []*Program{branch, other}, Shape: expr.Scalar},
	}, 0, expr.Scalar)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Len())

	a, b := data.At(2), data.At(3)
	b.Domain = 1
	v, err := p.Evaluate(context.Background(), data.NewBatch(a, b))
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 1}, v.RealData())

	out := p.String()
	assert.Contains(t, out, "r0 = domain 2 branches : real")
	assert.Contains(t, out, "domain 0:")
	assert.Contains(t, out, "r2 = binary * r1 r0 : real")
	assert.Contains(t, out, "r0 = const 1 : real")
}

func TestOpCodeString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "fused", OpFused.String())
	assert.Equal(t, "powi", OpPowInt.String())
	assert.Equal(t, "op(99)", OpCode(99).String())
}
