package domain

// Entry is a single pre-serialized log record.
// The payload is never modified after the entry has been enqueued.
type Entry struct {
	payload []byte
}

// NewEntry copies p so later mutations by the producer cannot leak into the queue.
func NewEntry(p []byte) Entry {
	cp := make([]byte, len(p))
	copy(cp, p)
	return Entry{payload: cp}
}

// Bytes returns the payload. Callers must not modify it.
func (e Entry) Bytes() []byte {
	return e.payload
}

// Len returns the payload length in bytes.
func (e Entry) Len() int {
	return len(e.payload)
}

// String returns the payload as a string.
func (e Entry) String() string {
	return string(e.payload)
}
