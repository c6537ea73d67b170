package data

import (
	"context"
)

// Provider supplies the batch of points a field is evaluated on. The mesh collaborator
// and the CLI implement it; the engine only reads the returned batch.
type Provider interface {
	// GetBatch returns the points to evaluate on. The batch must not be modified
	// by the caller.
	GetBatch(ctx context.Context) (*Batch, error)
}
