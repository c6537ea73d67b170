package engine

import (
	"errors"

	"github.com/robbyt/go-fieldexpr/internal/kernels"
)

var (
	// ErrDomainTag is returned when a sample's domain tag has no branch.
	ErrDomainTag = kernels.ErrDomainTag

	// ErrMissingGeometry is returned when a special field is read on a sample without the
	// matching geometry.
	ErrMissingGeometry = kernels.ErrMissingGeometry

	ErrUnsupportedNode = errors.New("unsupported node")
	ErrNilNode         = errors.New("node is nil")
)
