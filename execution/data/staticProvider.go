package data

import (
	"context"
)

// StaticProvider is a simple provider that returns a predefined batch.
// It's useful for testing and for cases where the points are known in advance.
type StaticProvider struct {
	batch *Batch
}

// NewStaticProvider creates a new StaticProvider with the provided points
func NewStaticProvider(points ...Point) *StaticProvider {
	return &StaticProvider{
		batch: NewBatch(points...),
	}
}

// GetBatch implements Provider.GetBatch
// It returns the same batch regardless of the context
func (p *StaticProvider) GetBatch(ctx context.Context) (*Batch, error) {
	if p.batch.Len() == 0 {
		return nil, ErrEmptyPoints
	}
	return p.batch, nil
}
