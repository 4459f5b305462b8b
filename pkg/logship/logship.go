package logship

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bft-labs/logship/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/logship/internal/adapters/http"
	"github.com/bft-labs/logship/internal/app"
	"github.com/bft-labs/logship/internal/config"
	"github.com/bft-labs/logship/internal/delivery"
	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/internal/ports"
	"github.com/bft-labs/logship/internal/queue"
	"github.com/bft-labs/logship/pkg/log"
)

// Config is the sender configuration. Use DefaultConfig or LoadConfig.
type Config = config.Config

// DefaultConfig returns a Config with default values. Token must be set.
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// LoadConfig layers defaults, the TOML file at path (optional) and LOGSHIP_*
// environment variables, then validates the result.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// Errors returned by the sender.
var (
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrDrainPanic      = domain.ErrDrainPanic
)

// Sender ships log entries to the collection endpoint in the background.
// Append never blocks; a single drain worker batches and delivers entries.
type Sender struct {
	queue           *queue.Queue
	lifecycle       *app.Lifecycle
	drainer         *app.Drainer
	worker          *app.Worker
	fallback        ports.FallbackSink
	logger          log.Logger
	shutdownTimeout time.Duration

	// ctx is the shutdown signal: cancelled by the parent context or Close.
	ctx context.Context
}

// New validates cfg and starts the drain worker.
// Cancelling ctx signals shutdown: the worker drains the queue one last time
// and stops. Close does the same and waits for it.
func New(ctx context.Context, cfg Config, opts ...Option) (*Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = log.NewZerologAdapter(cfg.Debug)
	}

	transport := o.transport
	if transport == nil {
		transport = httpAdapter.NewTransport(o.httpClient)
	}

	var fallback ports.FallbackSink
	if cfg.BackupLogs {
		fallback = o.fallback
		if fallback == nil {
			fallback = fs.NewFallbackFile(cfg.BackupDir, cfg.BackupPrefix, logger)
		}
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	deliverer := delivery.NewDeliverer(delivery.Config{
		URL:             cfg.URL,
		Token:           cfg.Token,
		UserAgent:       UserAgent(),
		NetworkTimeout:  cfg.NetworkTimeout,
		NumberOfRetries: cfg.NumberOfRetries,
		RetryTimeout:    cfg.RetryTimeout,
		RetryBackoff:    cfg.RetryBackoff,
		MaxRetryTimeout: cfg.MaxRetryTimeout,
	}, transport, logger)

	q := queue.New()
	lifecycle := app.NewLifecycle(logger, emitter)
	drainer := app.NewDrainer(app.DrainerConfig{
		DrainTimeout:  cfg.DrainTimeout,
		MaxBatchBytes: cfg.MaxBatchBytes,
		BackupLogs:    cfg.BackupLogs,
	}, q, deliverer, fallback, logger, emitter)

	runCtx, cancel := context.WithCancel(ctx)
	lifecycle.SetCancel(cancel)

	s := &Sender{
		queue:           q,
		lifecycle:       lifecycle,
		drainer:         drainer,
		worker:          app.NewWorker(lifecycle, drainer, q, logger),
		fallback:        fallback,
		logger:          logger,
		shutdownTimeout: o.shutdownTimeout,
		ctx:             runCtx,
	}

	logger.Debug("starting sender", log.Any("config", cfg.Redacted()))
	s.worker.EnsureRunning(runCtx)
	return s, nil
}

// Append enqueues a pre-serialized entry and makes sure the drain worker is
// running, restarting it if it terminated. It never blocks on delivery.
func (s *Sender) Append(entry []byte) {
	s.queue.Append(domain.NewEntry(entry))
	if s.lifecycle.State() != app.StateRunning {
		s.worker.EnsureRunning(s.ctx)
	}
}

// AppendJSON serializes v as JSON and appends it.
func (s *Sender) AppendJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode log entry: %w", err)
	}
	s.Append(b)
	return nil
}

// Flush synchronously delivers everything queued, batch by batch.
// Delivery failures are handled (retried, backed up or dropped) and never
// returned; an error means the flush itself faulted. Cancellation of ctx
// is ignored: popped entries are always retried in full and backed up,
// and each request is bounded by Config.NetworkTimeout.
func (s *Sender) Flush(ctx context.Context) error {
	return s.drainer.Flush(context.WithoutCancel(ctx))
}

// Close raises the shutdown signal and waits for the final drain.
// Returns ErrShutdownTimeout if it does not finish within the shutdown timeout.
// Entries appended after Close still get a best-effort drain.
func (s *Sender) Close() error {
	s.lifecycle.Cancel()
	err := s.lifecycle.WaitWithTimeout(s.shutdownTimeout)

	if c, ok := s.fallback.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			s.logger.Error("failed to close backup file", log.Err(cerr))
		}
	}
	return err
}

// Status returns the drain worker state.
// Safe to call concurrently from any goroutine.
func (s *Sender) Status() State {
	return convertState(s.lifecycle.State())
}

// Pending returns the number of queued entries not yet taken by a batch.
func (s *Sender) Pending() int {
	return s.queue.Len()
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interface.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnBatchDone(b *domain.Batch, res app.Result) {
	if e.handler == nil {
		return
	}
	ev := BatchEvent{
		Entries:    b.Size(),
		Bytes:      b.TotalBytes,
		Attempts:   res.Attempts,
		StatusCode: res.StatusCode,
		Err:        res.Err,
	}
	switch res.Outcome {
	case domain.Delivered:
		e.handler.OnBatchDelivered(ev)
	case domain.Rejected:
		e.handler.OnBatchRejected(ev)
	case domain.Exhausted:
		e.handler.OnBatchExhausted(ev)
	}
}

func (e *eventEmitterWrapper) OnBackup(path string, entries int, err error) {
	if e.handler == nil {
		return
	}
	e.handler.OnBackup(BackupEvent{Path: path, Entries: entries, Err: err})
}

func (e *eventEmitterWrapper) OnDrainCycle(session app.DrainSession) {
	if e.handler == nil {
		return
	}
	e.handler.OnDrainCycle(DrainCycleEvent{
		Iteration: session.Iteration,
		Final:     session.Final,
		Err:       session.Err,
	})
}

func convertState(s app.State) State {
	switch s {
	case app.StateRunning:
		return StateRunning
	case app.StateTerminated:
		return StateTerminated
	default:
		return StateNotStarted
	}
}

// defaultHTTPClient is shared by senders built without WithHTTPClient so
// connections are pooled.
var defaultHTTPClient ports.HTTPClient = &http.Client{}
