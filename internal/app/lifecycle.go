package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/pkg/log"
)

// ShutdownTimeout is the default time Close waits for the terminal drain.
const ShutdownTimeout = 30 * time.Second

// State is the lifecycle state of the drain worker.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateTerminated
)

// String returns a human-readable representation of the state.
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

// EventEmitter is notified of lifecycle and delivery events.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
	OnBatchDone(batch *domain.Batch, result Result)
	OnBackup(path string, entries int, err error)
	OnDrainCycle(session DrainSession)
}

// Lifecycle is the state machine of the drain worker:
// NotStarted -> Running -> Terminated -> Running -> ...
type Lifecycle struct {
	mu           sync.RWMutex
	state        State
	done         chan struct{}
	cancel       context.CancelFunc
	logger       log.Logger
	eventEmitter EventEmitter
}

// NewLifecycle creates a lifecycle in StateNotStarted.
func NewLifecycle(logger log.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateNotStarted,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
// Entering StateRunning opens a new run; see RunDone.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	_, err := l.transition(newState, reason)
	return err
}

// startRun enters StateRunning and returns the done channel of the new run,
// which the caller closes when the run ends.
func (l *Lifecycle) startRun(reason string) (chan struct{}, error) {
	return l.transition(StateRunning, reason)
}

func (l *Lifecycle) transition(newState State, reason string) (chan struct{}, error) {
	l.mu.Lock()
	oldState := l.state

	switch oldState {
	case StateNotStarted, StateTerminated:
		if newState != StateRunning {
			l.mu.Unlock()
			return nil, domain.ErrNotRunning
		}
		l.done = make(chan struct{})
	case StateRunning:
		if newState != StateTerminated {
			l.mu.Unlock()
			return nil, domain.ErrAlreadyRunning
		}
	}

	l.state = newState
	done := l.done
	l.mu.Unlock()

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	l.logger.Debug("drain worker state transition",
		log.String("from", oldState.String()),
		log.String("to", newState.String()),
		log.String("reason", reason),
	)

	return done, nil
}

// RunDone returns the channel closed when the current run ends, or nil if
// the worker never started.
func (l *Lifecycle) RunDone() <-chan struct{} {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.done
}

// SetCancel stores the function that raises the shutdown signal.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel = cancel
}

// Cancel raises the shutdown signal.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// WaitWithTimeout waits until no run is in progress, following restarts.
// Returns ErrShutdownTimeout if the timeout expires first.
func (l *Lifecycle) WaitWithTimeout(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		done := l.RunDone()
		if done == nil {
			return nil
		}
		select {
		case <-done:
			if l.State() != StateRunning {
				return nil
			}
		case <-timer.C:
			l.logger.Warn("shutdown timeout, giving up on final drain",
				log.Duration("timeout", timeout),
			)
			return domain.ErrShutdownTimeout
		}
	}
}
