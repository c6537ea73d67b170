package compiler

import "errors"

var (
	ErrNodeNil        = errors.New("node is nil")
	ErrLoweringFailed = errors.New("plan lowering failed")
)
