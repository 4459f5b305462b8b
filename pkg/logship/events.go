package logship

// State is the drain worker state.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateRunning:
		return "Running"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// StateChangeEvent reports a drain worker transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// BatchEvent reports the end of one batch delivery.
type BatchEvent struct {
	Entries    int
	Bytes      int
	Attempts   int
	StatusCode int
	Err        error
}

// BackupEvent reports a fallback write. Err is set when the entries were lost.
type BackupEvent struct {
	Path    string
	Entries int
	Err     error
}

// DrainCycleEvent reports one drain loop iteration.
type DrainCycleEvent struct {
	Iteration int
	Final     bool
	Err       error
}

// EventHandler receives sender events. Embed BaseEventHandler to implement
// only the callbacks you need.
type EventHandler interface {
	OnStateChange(StateChangeEvent)
	OnBatchDelivered(BatchEvent)
	OnBatchRejected(BatchEvent)
	OnBatchExhausted(BatchEvent)
	OnBackup(BackupEvent)
	OnDrainCycle(DrainCycleEvent)
}

// BaseEventHandler implements EventHandler with no-ops.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent) {}
func (BaseEventHandler) OnBatchDelivered(BatchEvent)    {}
func (BaseEventHandler) OnBatchRejected(BatchEvent)     {}
func (BaseEventHandler) OnBatchExhausted(BatchEvent)    {}
func (BaseEventHandler) OnBackup(BackupEvent)           {}
func (BaseEventHandler) OnDrainCycle(DrainCycleEvent)   {}
