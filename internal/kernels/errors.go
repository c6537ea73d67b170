package kernels

import "errors"

var (
	ErrDomainTag       = errors.New("domain tag out of range")
	ErrMissingGeometry = errors.New("sample has no geometry for special field")
)
