package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
)

// Evaluator is a mock implementation of engine.Evaluator for testing purposes.
type Evaluator struct {
	mock.Mock
}

// Eval is a mock implementation of the Eval method.
func (m *Evaluator) Eval(ctx context.Context, n expr.Node, b *data.Batch) (*data.Values, error) {
	args := m.Called(ctx, n, b)
	v, _ := args.Get(0).(*data.Values)
	return v, args.Error(1)
}

// Plan is a mock implementation of expr.Plan for testing purposes.
type Plan struct {
	mock.Mock
}

// Evaluate is a mock implementation of the Evaluate method.
func (m *Plan) Evaluate(ctx context.Context, b *data.Batch) (*data.Values, error) {
	args := m.Called(ctx, b)
	v, _ := args.Get(0).(*data.Values)
	return v, args.Error(1)
}

// String is a mock implementation of the String method.
func (m *Plan) String() string {
	args := m.Called()
	return args.String(0)
}
