package ports

import (
	"context"

	"github.com/bft-labs/logship/internal/domain"
)

// FallbackSink persists a batch whose delivery was exhausted.
type FallbackSink interface {
	// Persist writes the entries, one per line, in order.
	// It returns a description of where they went (a file path for the
	// default sink). On error the entries are lost.
	Persist(ctx context.Context, batch *domain.Batch) (string, error)
}
