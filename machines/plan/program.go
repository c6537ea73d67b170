// Package plan holds compiled evaluation plans: straight-line register programs produced
// by machines/plan/compiler and executed with the same kernels as the interpreter.
package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
	"github.com/robbyt/go-fieldexpr/internal/helpers"
)

// Program is a register program implementing expr.Plan. Each instruction writes a fresh
// register; the value of the result register is the value of the compiled node.
// A Program is immutable and safe for concurrent use.
type Program struct {
	id     string
	source string
	instrs []Instruction
	result int
	shape  expr.Shape
}

// NewProgram assembles a program. source is the rendering of the node it was compiled from.
func NewProgram(source string, instrs []Instruction, result int, shape expr.Shape) (*Program, error) {
	if len(instrs) == 0 {
		return nil, ErrEmptyProgram
	}
	for k := range instrs {
		in := &instrs[k]
		if in.Dst != k {
			return nil, fmt.Errorf("%w: instruction %d writes r%d", ErrBadInstruction, k, in.Dst)
		}
		for _, a := range in.Args {
			if a < 0 || a >= k {
				return nil, fmt.Errorf("%w: instruction %d reads r%d", ErrBadInstruction, k, a)
			}
		}
	}
	if result < 0 || result >= len(instrs) {
		return nil, fmt.Errorf("%w: result r%d", ErrBadInstruction, result)
	}
	return &Program{
		id:     helpers.ContentID(source),
		source: source,
		instrs: instrs,
		result: result,
		shape:  shape,
	}, nil
}

// ID returns a short content hash of the source node rendering.
func (p *Program) ID() string { return p.id }

// Source returns the rendering of the node the program was compiled from.
func (p *Program) Source() string { return p.source }

// Shape returns the shape of the result.
func (p *Program) Shape() expr.Shape { return p.shape }

// Len returns the number of instructions, counting nested branch programs.
func (p *Program) Len() int {
	n := 0
	for k := range p.instrs {
		n++
		for _, br := range p.instrs[k].Branches {
			n += br.Len()
		}
	}
	return n
}

// Instructions returns the instruction list. Callers must not modify it.
func (p *Program) Instructions() []Instruction { return p.instrs }

// Evaluate runs the program over b.
func (p *Program) Evaluate(ctx context.Context, b *data.Batch) (*data.Values, error) {
	if b.Len() == 0 {
		return data.New(0, p.shape.Width(), p.shape.IsVector(), p.shape.Complex), nil
	}
	regs := make([]*data.Values, len(p.instrs))
	for k := range p.instrs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := p.instrs[k].exec(ctx, b, regs)
		if err != nil {
			return nil, err
		}
		regs[k] = v
	}
	return regs[p.result], nil
}

// String disassembles the program.
func (p *Program) String() string {
	var sb strings.Builder
	p.write(&sb, "")
	return sb.String()
}

func (p *Program) write(sb *strings.Builder, indent string) {
	fmt.Fprintf(sb, "%splan %s -> r%d\n", indent, p.id, p.result)
	for k := range p.instrs {
		in := &p.instrs[k]
		fmt.Fprintf(sb, "%s  %s\n", indent, in)
		for tag, br := range in.Branches {
			fmt.Fprintf(sb, "%s    domain %d:\n", indent, tag)
			br.write(sb, indent+"    ")
		}
	}
}
