package expr

import "fmt"

// Unary applies an element-wise function to every component of its operand.
type Unary struct {
	fn    Func
	src   Node
	shape Shape
}

var funcs = map[Func]bool{
	FuncNeg: true, FuncExp: true, FuncLog: true, FuncSqrt: true,
	FuncSin: true, FuncCos: true, FuncTan: true, FuncAtan: true, FuncAbs: true,
}

// Apply returns fn(a). Abs of a complex node is real.
func Apply(fn Func, a any) (Node, error) {
	if !funcs[fn] {
		return nil, fmt.Errorf("%w: function %q", ErrOperand, fn)
	}
	src, err := Lift(a)
	if err != nil {
		return nil, err
	}
	shape := src.Shape()
	if fn == FuncAbs {
		shape = shape.WithComplex(false)
	}
	return &Unary{fn: fn, src: src, shape: shape}, nil
}

func Neg(a any) (Node, error)  { return Apply(FuncNeg, a) }
func Exp(a any) (Node, error)  { return Apply(FuncExp, a) }
func Log(a any) (Node, error)  { return Apply(FuncLog, a) }
func Sqrt(a any) (Node, error) { return Apply(FuncSqrt, a) }
func Sin(a any) (Node, error)  { return Apply(FuncSin, a) }
func Cos(a any) (Node, error)  { return Apply(FuncCos, a) }
func Tan(a any) (Node, error)  { return Apply(FuncTan, a) }
func Atan(a any) (Node, error) { return Apply(FuncAtan, a) }
func Abs(a any) (Node, error)  { return Apply(FuncAbs, a) }

func (u *Unary) Kind() Kind       { return KindUnary }
func (u *Unary) Shape() Shape     { return u.shape }
func (u *Unary) Children() []Node { return []Node{u.src} }
func (u *Unary) Func() Func       { return u.fn }
func (u *Unary) Source() Node     { return u.src }

func (u *Unary) String() string {
	if u.fn == FuncNeg {
		return fmt.Sprintf("-(%s)", u.src)
	}
	return fmt.Sprintf("%s(%s)", u.fn, u.src)
}
