package engine

import (
	"fmt"
	"time"

	"github.com/robbyt/go-fieldexpr/execution/data"
)

// EvaluatorResponse is the timed result of evaluating a field over a provided batch.
type EvaluatorResponse interface {
	// Type of the values.
	Type() data.Types

	// Inspect returns a string representation of the values.
	Inspect() string

	// Interface converts the values to native Go slices.
	Interface() any

	// Values returns the underlying column.
	Values() *data.Values

	// GetExecTime returns the time it took to evaluate
	GetExecTime() string
}

type response struct {
	values   *data.Values
	execTime time.Duration
}

func newResponse(v *data.Values, execTime time.Duration) *response {
	return &response{values: v, execTime: execTime}
}

func (r *response) String() string {
	return fmt.Sprintf("engine.response{Type: %s, Len: %d, ExecTime: %s}", r.Type(), r.values.Len(), r.execTime)
}

func (r *response) Type() data.Types     { return r.values.Type() }
func (r *response) Inspect() string      { return r.values.Inspect() }
func (r *response) Values() *data.Values { return r.values }
func (r *response) GetExecTime() string  { return r.execTime.String() }

// Interface returns []float64 or []complex128 for scalar fields and [][]float64 or
// [][]complex128 for vector fields.
func (r *response) Interface() any {
	v := r.values
	switch {
	case !v.IsVector() && v.IsComplex():
		return append([]complex128(nil), v.ComplexData()...)
	case !v.IsVector():
		return append([]float64(nil), v.RealData()...)
	case v.IsComplex():
		rows := make([][]complex128, v.Len())
		for i := range rows {
			rows[i] = v.Row(i)
		}
		return rows
	default:
		rows := make([][]float64, v.Len())
		for i := range rows {
			rows[i] = v.FloatRow(i)
		}
		return rows
	}
}
