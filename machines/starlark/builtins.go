package starlark

import (
	"fmt"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-fieldexpr/expr"
)

type builtinFunc func(thread *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error)

// fieldBuiltins returns the predeclared names scripts build fields from.
func (l *Loader) fieldBuiltins() starlarkLib.StringDict {
	d := starlarkLib.StringDict{
		"x":          l.field(expr.X()),
		"y":          l.field(expr.Y()),
		"z":          l.field(expr.Z()),
		"mesh_size":  l.field(expr.MeshSize()),
		"pow":        starlarkLib.NewBuiltin("pow", l.pow),
		"real":       starlarkLib.NewBuiltin("real", l.unary(expr.Real)),
		"imag":       starlarkLib.NewBuiltin("imag", l.unary(expr.Imag)),
		"vec":        starlarkLib.NewBuiltin("vec", l.vec),
		"domainwise": starlarkLib.NewBuiltin("domainwise", l.domainwise),
		"ifpos":      starlarkLib.NewBuiltin("ifpos", l.ifpos),
		"parameter":  starlarkLib.NewBuiltin("parameter", l.parameter),
		"normal":     starlarkLib.NewBuiltin("normal", l.normal),
		"special":    starlarkLib.NewBuiltin("special", l.special),
		"complex":    starlarkLib.NewBuiltin("complex", l.complex),
	}
	for name, fn := range map[string]func(any) (expr.Node, error){
		"exp":  expr.Exp,
		"log":  expr.Log,
		"sqrt": expr.Sqrt,
		"sin":  expr.Sin,
		"cos":  expr.Cos,
		"tan":  expr.Tan,
		"atan": expr.Atan,
		"abs":  expr.Abs,
	} {
		d[name] = starlarkLib.NewBuiltin(name, l.unary(fn))
	}
	return d
}

// unary adapts a one-argument node constructor.
func (l *Loader) unary(fn func(any) (expr.Node, error)) builtinFunc {
	return func(_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error) {
		var a starlarkLib.Value
		if err := starlarkLib.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &a); err != nil {
			return nil, err
		}
		o, err := operand(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		n, err := fn(o)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		return l.field(n), nil
	}
}

// pow(base, exponent): an int exponent selects repeated multiplication, a float exponent
// the real power, and a field exponent the general power.
func (l *Loader) pow(_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error) {
	var base, exp starlarkLib.Value
	if err := starlarkLib.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &base, &exp); err != nil {
		return nil, err
	}
	bo, err := operand(base)
	if err != nil {
		return nil, fmt.Errorf("pow: %w", err)
	}
	eo, err := operand(exp)
	if err != nil {
		return nil, fmt.Errorf("pow: %w", err)
	}
	n, err := expr.Pow(bo, eo)
	if err != nil {
		return nil, fmt.Errorf("pow: %w", err)
	}
	return l.field(n), nil
}

// vec(c0, c1, ...) stacks scalar fields into a vector field.
func (l *Loader) vec(_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	parts := make([]any, len(args))
	for i, a := range args {
		o, err := operand(a)
		if err != nil {
			return nil, fmt.Errorf("vec: component %d: %w", i, err)
		}
		parts[i] = o
	}
	n, err := expr.NewVector(parts...)
	if err != nil {
		return nil, fmt.Errorf("vec: %w", err)
	}
	return l.field(n), nil
}

// domainwise(branches, domains=len(branches)) selects a branch per sub-domain tag.
func (l *Loader) domainwise(_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error) {
	var branches starlarkLib.Indexable
	domains := -1
	if err := starlarkLib.UnpackArgs(b.Name(), args, kwargs, "branches", &branches, "domains?", &domains); err != nil {
		return nil, err
	}
	parts := make([]any, branches.Len())
	for i := range parts {
		o, err := operand(branches.Index(i))
		if err != nil {
			return nil, fmt.Errorf("domainwise: branch %d: %w", i, err)
		}
		parts[i] = o
	}
	if domains < 0 {
		domains = len(parts)
	}
	n, err := expr.DomainSelect(domains, parts...)
	if err != nil {
		return nil, fmt.Errorf("domainwise: %w", err)
	}
	return l.field(n), nil
}

// ifpos(cond, positive, other)
func (l *Loader) ifpos(_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error) {
	var cond, pos, other starlarkLib.Value
	if err := starlarkLib.UnpackPositionalArgs(b.Name(), args, kwargs, 3, &cond, &pos, &other); err != nil {
		return nil, err
	}
	ops := make([]any, 3)
	for i, v := range []starlarkLib.Value{cond, pos, other} {
		o, err := operand(v)
		if err != nil {
			return nil, fmt.Errorf("ifpos: %w", err)
		}
		ops[i] = o
	}
	n, err := expr.IfPos(ops[0], ops[1], ops[2])
	if err != nil {
		return nil, fmt.Errorf("ifpos: %w", err)
	}
	return l.field(n), nil
}

// parameter(value, name="") declares a mutable scalar the host can update between
// evaluations.
func (l *Loader) parameter(_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error) {
	var value starlarkLib.Value
	var name string
	if err := starlarkLib.UnpackArgs(b.Name(), args, kwargs, "value", &value, "name?", &name); err != nil {
		return nil, err
	}
	v, ok := starlarkLib.AsFloat(value)
	if !ok {
		return nil, fmt.Errorf("parameter: value must be a number, got %s", value.Type())
	}
	return l.field(expr.NewParameter(name, v)), nil
}

// normal(dim) is the outward unit normal on facets.
func (l *Loader) normal(_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error) {
	var dim int
	if err := starlarkLib.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &dim); err != nil {
		return nil, err
	}
	n, err := expr.Special("normal", dim)
	if err != nil {
		return nil, fmt.Errorf("normal: %w", err)
	}
	return l.field(n), nil
}

// special(name, dim=0) resolves a special field by registry name.
func (l *Loader) special(_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error) {
	var name string
	var dim int
	if err := starlarkLib.UnpackArgs(b.Name(), args, kwargs, "name", &name, "dim?", &dim); err != nil {
		return nil, err
	}
	n, err := expr.Special(name, dim)
	if err != nil {
		return nil, fmt.Errorf("special: %w", err)
	}
	return l.field(n), nil
}

// complex(re, im=0) is a complex constant field.
func (l *Loader) complex(_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple) (starlarkLib.Value, error) {
	var re, im starlarkLib.Value = starlarkLib.Float(0), starlarkLib.Float(0)
	if err := starlarkLib.UnpackArgs(b.Name(), args, kwargs, "re", &re, "im?", &im); err != nil {
		return nil, err
	}
	r, ok := starlarkLib.AsFloat(re)
	if !ok {
		return nil, fmt.Errorf("complex: re must be a number, got %s", re.Type())
	}
	i, ok := starlarkLib.AsFloat(im)
	if !ok {
		return nil, fmt.Errorf("complex: im must be a number, got %s", im.Type())
	}
	return l.field(expr.ComplexConst(complex(r, i))), nil
}
