package starlark

import "errors"

var (
	ErrContentNil    = errors.New("starlark content is nil")
	ErrCompileFailed = errors.New("starlark script compilation error")
	ErrScriptFailed  = errors.New("starlark script execution error")
	ErrFieldNotFound = errors.New("field not defined by script")
)
