package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/logship/internal/queue"
	"github.com/bft-labs/logship/pkg/log"
)

// Worker owns the background goroutine running the drain loop and restarts
// it on demand after it terminated.
type Worker struct {
	lifecycle *Lifecycle
	drainer   *Drainer
	queue     *queue.Queue
	logger    log.Logger
}

// NewWorker creates a worker; it does not start it.
func NewWorker(lifecycle *Lifecycle, drainer *Drainer, q *queue.Queue, logger log.Logger) *Worker {
	return &Worker{
		lifecycle: lifecycle,
		drainer:   drainer,
		queue:     q,
		logger:    logger,
	}
}

// EnsureRunning starts the drain loop unless it is already running.
// ctx is the shutdown signal. Reports whether a new run was started.
func (w *Worker) EnsureRunning(ctx context.Context) bool {
	reason := "worker started"
	if w.lifecycle.State() == StateTerminated {
		reason = "worker restarted"
	}
	done, err := w.lifecycle.startRun(reason)
	if err != nil {
		return false
	}
	go w.run(ctx, done)
	return true
}

func (w *Worker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("drain worker terminated by a fault", log.Any("panic", r))
			_ = w.lifecycle.TransitionTo(StateTerminated, fmt.Sprintf("fault: %v", r))
			return
		}

		_ = w.lifecycle.TransitionTo(StateTerminated, "final drain complete")
		// An append that saw the worker as running just before it
		// terminated left its entry behind; pick it up.
		if !w.queue.IsEmpty() {
			w.EnsureRunning(ctx)
		}
	}()

	w.drainer.Run(ctx)
}
