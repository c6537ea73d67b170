package plan

import "errors"

var (
	ErrEmptyProgram   = errors.New("program has no instructions")
	ErrBadInstruction = errors.New("malformed instruction")
)
