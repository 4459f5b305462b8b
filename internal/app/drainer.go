package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/logship/internal/batch"
	"github.com/bft-labs/logship/internal/delivery"
	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/internal/ports"
	"github.com/bft-labs/logship/internal/queue"
	"github.com/bft-labs/logship/pkg/log"
)

// Result is the outcome of one batch delivery.
type Result = delivery.Result

// Deliverer delivers one batch; *delivery.Deliverer implements it.
type Deliverer interface {
	Deliver(ctx context.Context, b *domain.Batch) delivery.Result
}

// DrainSession describes one iteration of the drain loop.
type DrainSession struct {
	Iteration int
	// Final is set when the shutdown signal was seen before the flush; the
	// loop exits after this iteration.
	Final bool
	Err   error
}

// DrainerConfig holds the parameters of the drain loop.
type DrainerConfig struct {
	DrainTimeout  time.Duration
	MaxBatchBytes int
	// BackupLogs enables the fallback sink for exhausted batches.
	BackupLogs bool
}

// Drainer empties the queue into the deliverer, periodically from Run or
// on demand from Flush. Flushes are serialized: the queue has a single
// consumer at any time and the transport is never used concurrently.
type Drainer struct {
	config    DrainerConfig
	queue     *queue.Queue
	assembler *batch.Assembler
	deliverer Deliverer
	fallback  ports.FallbackSink
	logger    log.Logger
	emitter   EventEmitter

	flushMu sync.Mutex
	wait    func(ctx context.Context, d time.Duration)
}

// NewDrainer creates a drainer. fallback may be nil when backups are disabled.
func NewDrainer(
	config DrainerConfig,
	q *queue.Queue,
	deliverer Deliverer,
	fallback ports.FallbackSink,
	logger log.Logger,
	emitter EventEmitter,
) *Drainer {
	return &Drainer{
		config:    config,
		queue:     q,
		assembler: batch.NewAssembler(config.MaxBatchBytes),
		deliverer: deliverer,
		fallback:  fallback,
		logger:    logger,
		emitter:   emitter,
		wait:      waitContext,
	}
}

// Run is the drain loop. Each iteration checks the shutdown signal (ctx),
// flushes, then waits DrainTimeout. Once ctx is done it flushes one last
// time and returns. Deliveries themselves are not cancelled by ctx.
func (d *Drainer) Run(ctx context.Context) {
	deliverCtx := context.WithoutCancel(ctx)

	for iteration := 1; ; iteration++ {
		session := DrainSession{Iteration: iteration}
		if ctx.Err() != nil {
			d.logger.Debug("identified shutdown, sending logs one last time")
			session.Final = true
		}

		if err := d.Flush(deliverCtx); err != nil {
			d.logger.Error("unexpected error while draining queue, swallowing", log.Err(err))
			session.Err = err
		}

		if d.emitter != nil {
			d.emitter.OnDrainCycle(session)
		}
		if session.Final {
			return
		}
		d.wait(ctx, d.config.DrainTimeout)
	}
}

// Flush assembles and delivers batches until the queue is empty.
// A panic raised while handling a batch is recovered and returned wrapped
// in domain.ErrDrainPanic; that batch is lost.
func (d *Drainer) Flush(ctx context.Context) (err error) {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrDrainPanic, r)
		}
	}()

	for {
		b := d.assembler.Assemble(d.queue)
		if b.Empty() {
			return nil
		}
		d.logger.Debug("starting to drain logs",
			log.Int("logs", b.Size()),
			log.Int("bytes", b.TotalBytes),
		)

		res := d.deliverer.Deliver(ctx, b)
		d.handle(ctx, b, res)
	}
}

func (d *Drainer) handle(ctx context.Context, b *domain.Batch, res Result) {
	if d.emitter != nil {
		d.emitter.OnBatchDone(b, res)
	}
	if res.Outcome != domain.Exhausted {
		return
	}

	if !d.config.BackupLogs || d.fallback == nil {
		d.logger.Error("could not send logs, dropping them",
			log.Int("tries", res.Attempts),
			log.Int("logs", b.Size()),
		)
		return
	}

	d.logger.Error("could not send logs, backing up to local file system",
		log.Int("tries", res.Attempts),
		log.Int("logs", b.Size()),
	)
	path, err := d.fallback.Persist(ctx, b)
	if err != nil {
		d.logger.Error("failed to back up logs, they are lost",
			log.String("path", path),
			log.Int("logs", b.Size()),
			log.Err(err),
		)
	} else {
		d.logger.Info("backed up logs", log.String("path", path), log.Int("logs", b.Size()))
	}
	if d.emitter != nil {
		d.emitter.OnBackup(path, b.Size(), err)
	}
}

func waitContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
