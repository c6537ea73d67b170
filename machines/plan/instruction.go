package plan

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
	"github.com/robbyt/go-fieldexpr/internal/kernels"
)

// OpCode identifies the operation an instruction performs.
type OpCode uint8

const (
	OpConst OpCode = iota
	OpCoord
	OpParam
	OpMeshSize
	OpNormal
	OpBinary
	OpPowInt
	OpPowFloat
	OpPow
	OpReal
	OpImag
	OpComponent
	OpStack
	OpUnary
	OpIfPos
	OpDomain
	OpFused
)

var opNames = [...]string{
	OpConst:     "const",
	OpCoord:     "coord",
	OpParam:     "param",
	OpMeshSize:  "mesh_size",
	OpNormal:    "normal",
	OpBinary:    "binary",
	OpPowInt:    "powi",
	OpPowFloat:  "powf",
	OpPow:       "pow",
	OpReal:      "real",
	OpImag:      "imag",
	OpComponent: "component",
	OpStack:     "stack",
	OpUnary:     "unary",
	OpIfPos:     "ifpos",
	OpDomain:    "domain",
	OpFused:     "fused",
}

func (o OpCode) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Kernel computes element i of a fused real scalar chain from its input columns.
type Kernel func(in [][]float64, i int) float64

// Fused is a chain of real scalar operations evaluated in a single pass.
type Fused struct {
	Kernel Kernel
	// Expr renders the chain, with inputs named in0, in1, ...
	Expr string
	// Ops is the number of operations folded into the kernel.
	Ops int
}

// Instruction writes one register from the registers named in Args.
type Instruction struct {
	Op    OpCode
	Dst   int
	Args  []int
	Shape expr.Shape

	Int      int
	Float    float64
	BinOp    expr.Op
	Fn       expr.Func
	Const    *expr.Constant
	Param    *expr.Parameter
	Branches []*Program
	Fused    *Fused
}

func (in *Instruction) exec(ctx context.Context, b *data.Batch, regs []*data.Values) (*data.Values, error) {
	arg := func(k int) *data.Values { return regs[in.Args[k]] }

	switch in.Op {
	case OpConst:
		return kernels.Broadcast(in.Const, b.Len()), nil
	case OpCoord:
		return kernels.Coordinates(b, in.Int), nil
	case OpParam:
		return kernels.Fill(in.Param.Value(), b.Len()), nil
	case OpMeshSize:
		return kernels.MeshSize(b)
	case OpNormal:
		return kernels.Normal(b, in.Int)
	case OpBinary:
		return kernels.Binary(in.BinOp, arg(0), arg(1))
	case OpPowInt:
		return kernels.PowIntValues(arg(0), in.Int), nil
	case OpPowFloat:
		return kernels.PowFloatValues(arg(0), in.Float), nil
	case OpPow:
		return kernels.PowValues(arg(0), arg(1))
	case OpReal:
		return kernels.Real(arg(0)), nil
	case OpImag:
		return kernels.Imag(arg(0)), nil
	case OpComponent:
		return kernels.Component(arg(0), in.Int), nil
	case OpStack:
		parts := make([]*data.Values, len(in.Args))
		for k := range in.Args {
			parts[k] = arg(k)
		}
		return kernels.Stack(parts, in.Shape.Complex)
	case OpUnary:
		return kernels.Unary(in.Fn, arg(0)), nil
	case OpIfPos:
		return kernels.IfPos(arg(0), arg(1), arg(2))
	case OpDomain:
		return in.execDomain(ctx, b)
	case OpFused:
		cols := make([][]float64, len(in.Args))
		for k := range in.Args {
			cols[k] = arg(k).RealData()
		}
		out := make([]float64, b.Len())
		for i := range out {
			out[i] = in.Fused.Kernel(cols, i)
		}
		return data.FromReal(1, false, out), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrBadInstruction, in.Op)
}

func (in *Instruction) execDomain(ctx context.Context, b *data.Batch) (*data.Values, error) {
	groups, err := kernels.Partition(b, len(in.Branches))
	if err != nil {
		return nil, err
	}
	out := data.New(b.Len(), in.Shape.Width(), in.Shape.IsVector(), in.Shape.Complex)
	for tag, branch := range in.Branches {
		idx := groups[tag]
		if len(idx) == 0 {
			continue
		}
		v, err := branch.Evaluate(ctx, b.Subset(idx))
		if err != nil {
			return nil, err
		}
		kernels.Scatter(out, v, idx)
	}
	return out, nil
}

func (in *Instruction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "r%d = %s", in.Dst, in.Op)
	switch in.Op {
	case OpConst:
		fmt.Fprintf(&sb, " %s", in.Const)
	case OpParam:
		fmt.Fprintf(&sb, " %s", in.Param)
	case OpCoord, OpNormal, OpPowInt, OpComponent:
		fmt.Fprintf(&sb, " %d", in.Int)
	case OpPowFloat:
		fmt.Fprintf(&sb, " %s", strconv.FormatFloat(in.Float, 'g', -1, 64))
	case OpBinary:
		fmt.Fprintf(&sb, " %s", in.BinOp)
	case OpUnary:
		fmt.Fprintf(&sb, " %s", in.Fn)
	case OpDomain:
		fmt.Fprintf(&sb, " %d branches", len(in.Branches))
	case OpFused:
		fmt.Fprintf(&sb, " %s", in.Fused.Expr)
	}
	for _, a := range in.Args {
		fmt.Fprintf(&sb, " r%d", a)
	}
	sb.WriteString(" : ")
	sb.WriteString(in.Shape.String())
	return sb.String()
}
