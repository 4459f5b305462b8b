package domain

// Outcome is the terminal state of one batch delivery.
type Outcome int

const (
	// Delivered means the endpoint accepted the batch with status 200.
	Delivered Outcome = iota
	// Rejected means the endpoint answered 400 or 401; the batch is dropped.
	Rejected
	// Exhausted means every attempt failed with a transient failure.
	Exhausted
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "Delivered"
	case Rejected:
		return "Rejected"
	case Exhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}
