package expr

import (
	"math"
	"strconv"
	"sync/atomic"
)

// Parameter is a named real scalar whose value can change between evaluations.
// Nodes built from it reference it; a Set is seen by the next evaluation.
type Parameter struct {
	name string
	bits atomic.Uint64
}

// NewParameter returns a parameter holding v.
func NewParameter(name string, v float64) *Parameter {
	p := &Parameter{name: name}
	p.bits.Store(math.Float64bits(v))
	return p
}

func (p *Parameter) Kind() Kind       { return KindParameter }
func (p *Parameter) Shape() Shape     { return Scalar }
func (p *Parameter) Children() []Node { return nil }
func (p *Parameter) Name() string     { return p.name }

// Value returns the current value.
func (p *Parameter) Value() float64 {
	return math.Float64frombits(p.bits.Load())
}

// Set replaces the value.
func (p *Parameter) Set(v float64) {
	p.bits.Store(math.Float64bits(v))
}

func (p *Parameter) String() string {
	if p.name != "" {
		return p.name
	}
	return "parameter(" + strconv.FormatFloat(p.Value(), 'g', -1, 64) + ")"
}
