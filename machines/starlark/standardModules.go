package starlark

import (
	"maps"

	starlarkMath "go.starlark.net/lib/math"
	starlarkLib "go.starlark.net/starlark"
)

// namespaceMath exposes numeric constants and scalar functions for literals, e.g. math.pi.
const namespaceMath = "math"

// standardModules returns a copy of the Starlark universe with the math module and the
// field builtins added. Field builtins shadow universe names such as abs.
func (l *Loader) standardModules() starlarkLib.StringDict {
	universe := maps.Clone(starlarkLib.Universe)
	universe[namespaceMath] = starlarkMath.Module
	maps.Copy(universe, l.fieldBuiltins())
	return universe
}
