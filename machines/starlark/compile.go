package starlark

import (
	"fmt"

	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// compile parses and compiles a field script against the predeclared names
func compile(name string, scriptBodyBytes []byte, predeclared starlarkLib.StringDict) (*starlarkLib.Program, error) {
	if len(scriptBodyBytes) == 0 {
		return nil, ErrContentNil
	}

	// Scripts build fields incrementally, so top-level rebinding is allowed
	opts := &syntax.FileOptions{
		GlobalReassign:  true,
		TopLevelControl: true,
	}

	f, err := opts.Parse(name, scriptBodyBytes, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	prog, err := starlarkLib.FileProgram(f, predeclared.Has)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	return prog, nil
}
