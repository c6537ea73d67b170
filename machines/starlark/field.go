package starlark

import (
	"fmt"
	"sort"

	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/robbyt/go-fieldexpr/expr"
)

// Field is the Starlark value of an expression node. Arithmetic on fields builds new
// nodes; nothing is evaluated while a script runs.
type Field struct {
	node   expr.Node
	loader *Loader
}

var (
	_ starlarkLib.HasBinary = (*Field)(nil)
	_ starlarkLib.HasUnary  = (*Field)(nil)
	_ starlarkLib.HasAttrs  = (*Field)(nil)
	_ starlarkLib.Indexable = (*Field)(nil)
)

func (l *Loader) field(n expr.Node) *Field {
	return &Field{node: n, loader: l}
}

// Node returns the wrapped expression node.
func (f *Field) Node() expr.Node { return f.node }

func (f *Field) String() string          { return f.node.String() }
func (f *Field) Type() string            { return "field" }
func (f *Field) Freeze()                 {}
func (f *Field) Truth() starlarkLib.Bool { return starlarkLib.True }

func (f *Field) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: field")
}

var binaryOps = map[syntax.Token]expr.Op{
	syntax.PLUS:  expr.OpAdd,
	syntax.MINUS: expr.OpSub,
	syntax.STAR:  expr.OpMul,
	syntax.SLASH: expr.OpDiv,
}

// Binary implements + - * / with numbers, lists and other fields on either side.
func (f *Field) Binary(op syntax.Token, y starlarkLib.Value, side starlarkLib.Side) (starlarkLib.Value, error) {
	bop, ok := binaryOps[op]
	if !ok {
		return nil, nil
	}
	other, err := operand(y)
	if err != nil {
		return nil, nil
	}
	lhs, rhs := any(f.node), other
	if side == starlarkLib.Right {
		lhs, rhs = other, f.node
	}
	n, err := expr.NewBinary(bop, lhs, rhs)
	if err != nil {
		return nil, err
	}
	return f.loader.field(n), nil
}

// Unary implements -f and +f.
func (f *Field) Unary(op syntax.Token) (starlarkLib.Value, error) {
	switch op {
	case syntax.MINUS:
		n, err := expr.Neg(f.node)
		if err != nil {
			return nil, err
		}
		return f.loader.field(n), nil
	case syntax.PLUS:
		return f, nil
	}
	return nil, nil
}

// Len is the vector width, or zero for scalar fields.
func (f *Field) Len() int { return f.node.Shape().Dim }

// Index returns component i of a vector field.
func (f *Field) Index(i int) starlarkLib.Value {
	return f.loader.field(expr.Must(expr.Index(f.node, i)))
}

var fieldAttrs = []string{"compile", "dim", "imag", "is_complex", "real", "shape"}

func (f *Field) Attr(name string) (starlarkLib.Value, error) {
	switch name {
	case "real", "imag":
		project := expr.Real
		if name == "imag" {
			project = expr.Imag
		}
		n, err := project(f.node)
		if err != nil {
			return nil, err
		}
		return f.loader.field(n), nil
	case "shape":
		return starlarkLib.String(f.node.Shape().String()), nil
	case "dim":
		return starlarkLib.MakeInt(f.node.Shape().Dim), nil
	case "is_complex":
		return starlarkLib.Bool(f.node.Shape().Complex), nil
	case "compile":
		return starlarkLib.NewBuiltin("compile", f.compile), nil
	case "value":
		if p, ok := f.node.(*expr.Parameter); ok {
			return starlarkLib.Float(p.Value()), nil
		}
	}
	return nil, nil
}

func (f *Field) AttrNames() []string {
	if _, ok := f.node.(*expr.Parameter); ok {
		names := append([]string{"value"}, fieldAttrs...)
		sort.Strings(names)
		return names
	}
	return fieldAttrs
}

// compile implements f.compile(optimize=False, wait=False).
func (f *Field) compile(thread *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error) {
	var optimize, wait bool
	if err := starlarkLib.UnpackArgs(b.Name(), args, kwargs, "optimize?", &optimize, "wait?", &wait); err != nil {
		return nil, err
	}
	c, err := f.loader.compileField(threadContext(thread), f.node, optimize, wait)
	if err != nil {
		return nil, err
	}
	return f.loader.field(c), nil
}

// operand converts a Starlark value into something expr constructors accept.
func operand(v starlarkLib.Value) (any, error) {
	switch v := v.(type) {
	case *Field:
		return v.node, nil
	case starlarkLib.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", v)
		}
		return i, nil
	case starlarkLib.Float:
		return float64(v), nil
	case starlarkLib.String:
		return nil, fmt.Errorf("cannot use string %s as a field", v)
	case starlarkLib.Indexable:
		parts := make([]any, v.Len())
		for i := range parts {
			p, err := operand(v.Index(i))
			if err != nil {
				return nil, err
			}
			parts[i] = p
		}
		return expr.NewVector(parts...)
	}
	return nil, fmt.Errorf("cannot use %s as a field", v.Type())
}
