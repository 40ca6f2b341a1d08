package collector

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type sinkErrorRecorder interface {
	RecordSinkError(sink string)
}

type sinkJob struct {
	sink string
	fn   func(ctx context.Context) error
}

// dispatcher moves sink writes off the streamer's inbound path. Callbacks must
// never block, so a full queue drops the write and counts it as a sink error.
// A single worker keeps writes in arrival order, which the candle upserts rely on.
type dispatcher struct {
	jobs    chan sinkJob
	timeout time.Duration
	logger  *zap.Logger
	errs    sinkErrorRecorder
}

func newDispatcher(size int, timeout time.Duration, logger *zap.Logger, errs sinkErrorRecorder) *dispatcher {
	return &dispatcher{
		jobs:    make(chan sinkJob, size),
		timeout: timeout,
		logger:  logger,
		errs:    errs,
	}
}

func (d *dispatcher) submit(sink string, fn func(ctx context.Context) error) {
	select {
	case d.jobs <- sinkJob{sink: sink, fn: fn}:
	default:
		d.errs.RecordSinkError(sink)
		d.logger.Warn("Sink queue full, dropping write", zap.String("sink", sink))
	}
}

// run executes queued writes until ctx is cancelled, then drains what is left
// with a fresh deadline per write.
func (d *dispatcher) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case job := <-d.jobs:
			d.exec(context.Background(), job)
		}
	}
}

func (d *dispatcher) drain() {
	for {
		select {
		case job := <-d.jobs:
			d.exec(context.Background(), job)
		default:
			return
		}
	}
}

func (d *dispatcher) exec(parent context.Context, job sinkJob) {
	ctx, cancel := context.WithTimeout(parent, d.timeout)
	defer cancel()

	if err := job.fn(ctx); err != nil {
		d.errs.RecordSinkError(job.sink)
		d.logger.Warn("Sink write failed", zap.String("sink", job.sink), zap.Error(err))
	}
}

func (d *dispatcher) queued() int {
	return len(d.jobs)
}
