package domain

import "bytes"

// Batch is an ordered group of entries assembled for one delivery.
// TotalBytes is the sum of the estimated sizes of its entries.
type Batch struct {
	Entries    []Entry
	TotalBytes int
}

// NewBatch creates a new empty batch.
func NewBatch() *Batch {
	return &Batch{Entries: make([]Entry, 0)}
}

// Add appends an entry and accounts its estimated size.
func (b *Batch) Add(e Entry, size int) {
	b.Entries = append(b.Entries, e)
	b.TotalBytes += size
}

// Size returns the number of entries in the batch.
func (b *Batch) Size() int {
	return len(b.Entries)
}

// Empty returns true if the batch has no entries.
func (b *Batch) Empty() bool {
	return len(b.Entries) == 0
}

// Body returns the wire body: entries joined by newlines, no trailing delimiter.
func (b *Batch) Body() []byte {
	parts := make([][]byte, len(b.Entries))
	for i, e := range b.Entries {
		parts[i] = e.Bytes()
	}
	return bytes.Join(parts, []byte{'\n'})
}
