package data

import "errors"

var (
	ErrLayout      = errors.New("value columns have incompatible layouts")
	ErrNoBatch     = errors.New("no batch available")
	ErrEmptyPoints = errors.New("no points supplied")
)
