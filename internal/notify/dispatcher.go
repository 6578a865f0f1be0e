package notify

import (
	"context"
	"sync"
	"time"

	"bizgenie_backend/platform/config"
	"bizgenie_backend/platform/logger"
)

// Job is one notification delivery scheduled through the dispatcher.
type Job struct {
	Tool   string
	Action string
	Target string
	Run    func(ctx context.Context) Result
}

// Dispatcher executes notification jobs either inline (sync mode) or on
// background goroutines bounded by a semaphore (async mode). Either way
// each job gets its own timeout and its outcome is logged.
type Dispatcher struct {
	mode    string
	timeout time.Duration
	sem     chan struct{}
	wg      sync.WaitGroup
	log     *logger.Logger
}

// NewDispatcher creates a dispatcher from config.
func NewDispatcher(cfg config.DispatchConfig, log *logger.Logger) *Dispatcher {
	queueSize := cfg.GetDispatchQueueSize()
	if queueSize <= 0 {
		queueSize = 64
	}
	timeout := cfg.GetDispatchTimeout()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Dispatcher{
		mode:    cfg.GetDispatchMode(),
		timeout: timeout,
		sem:     make(chan struct{}, queueSize),
		log:     log,
	}
}

// Dispatch runs the job. In sync mode it blocks until the job finishes and
// returns its result. In async mode it schedules the job and returns an
// accepted result immediately.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) Result {
	if job.Run == nil {
		return Failed("dispatch: nil job")
	}

	if d.mode != "async" {
		return d.run(ctx, job)
	}

	d.wg.Add(1)
	d.sem <- struct{}{}
	go func() {
		defer d.wg.Done()
		defer func() { <-d.sem }()

		// Detach from the request context so the send outlives the
		// HTTP response.
		d.run(context.WithoutCancel(ctx), job)
	}()

	return Ok("queued").WithDetail("tool", job.Tool).WithDetail("action", job.Action)
}

func (d *Dispatcher) run(ctx context.Context, job Job) Result {
	jobCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result := job.Run(jobCtx)
	if d.log != nil {
		d.log.ToolDispatch(job.Tool, job.Action, job.Target, result.Success, result.Message)
	}
	return result
}

// Wait blocks until all in-flight async jobs have finished.
// Intended for graceful shutdown and tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
