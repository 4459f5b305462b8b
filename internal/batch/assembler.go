// Package batch drains the queue into size-bounded batches.
package batch

import (
	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/internal/queue"
)

// DefaultMaxBatchBytes is the bulk size accepted by the collection endpoint.
const DefaultMaxBatchBytes = 1 << 20

// EstimateSize returns the approximate number of wire bytes an entry adds to
// a batch body: its payload plus the newline separator.
func EstimateSize(e domain.Entry) int {
	return e.Len() + 1
}

// Assembler pops entries from a queue until the estimated size of the batch
// reaches maxBytes.
type Assembler struct {
	maxBytes int
	estimate func(domain.Entry) int
}

// NewAssembler creates an assembler with the given size cap.
// A non-positive cap falls back to DefaultMaxBatchBytes.
func NewAssembler(maxBytes int) *Assembler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBatchBytes
	}
	return &Assembler{maxBytes: maxBytes, estimate: EstimateSize}
}

// MaxBytes returns the configured cap.
func (a *Assembler) MaxBytes() int {
	return a.maxBytes
}

// Assemble builds the next batch.
// The cap is soft: the entry that crosses it is kept and assembly stops, so
// a single oversized entry still forms a batch on its own. Popped entries
// are never returned to the queue. The batch is empty only if q was.
func (a *Assembler) Assemble(q *queue.Queue) *domain.Batch {
	b := domain.NewBatch()
	for {
		e, ok := q.TryPop()
		if !ok {
			return b
		}
		b.Add(e, a.estimate(e))
		if b.TotalBytes >= a.maxBytes {
			return b
		}
	}
}
