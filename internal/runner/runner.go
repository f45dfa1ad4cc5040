// Package runner drives every job in a batch to a terminal state through the
// media backend, with a bounded worker pool and cooperative cancellation.
package runner

import (
	"context"
	"sync"

	"github.com/mediagrab/mediagrab/internal/backend"
	"github.com/mediagrab/mediagrab/internal/job"
	"github.com/mediagrab/mediagrab/internal/queue"
	"github.com/mediagrab/mediagrab/internal/utils"
)

type Runner struct {
	backend  backend.MediaBackend
	workers  int
	onUpdate func(job.Snapshot)

	mu        sync.Mutex
	cancels   map[string]context.CancelFunc
	destLocks map[string]*sync.Mutex
	batch     *queue.Batch
}

func New(b backend.MediaBackend, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		backend:   b,
		workers:   workers,
		cancels:   make(map[string]context.CancelFunc),
		destLocks: make(map[string]*sync.Mutex),
	}
}

// OnUpdate registers a callback invoked with a snapshot after every job state
// or progress change. The callback must be fast; it runs on worker
// goroutines.
func (r *Runner) OnUpdate(fn func(job.Snapshot)) {
	r.onUpdate = fn
}

// Run processes the batch and returns once every job is terminal. A single
// job's failure never stops its siblings; the only batch-wide short-circuit
// is an unavailable backend, which fails all pending jobs with that reason.
func (r *Runner) Run(ctx context.Context, batch *queue.Batch) error {
	logger := utils.GetLogger("runner")
	r.mu.Lock()
	r.batch = batch
	r.mu.Unlock()

	if err := r.backend.Available(); err != nil {
		logger.Error().Err(err).Msg("Backend unavailable, failing batch")
		for _, j := range batch.Jobs() {
			if j.Fail(err.Error()) {
				r.notify(j)
			}
		}
		return err
	}

	jobCh := make(chan *job.Job, batch.Len())
	for _, j := range batch.Jobs() {
		jobCh <- j
	}
	close(jobCh)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				r.process(ctx, j)
			}
		}()
	}
	wg.Wait()
	return nil
}

// Cancel requests cancellation of one job. Pending jobs become cancelled
// immediately with no backend invocation; running jobs enter the cancelling
// state and their backend process is signalled. Never blocks on the process.
func (r *Runner) Cancel(id string) {
	r.mu.Lock()
	b := r.batch
	r.mu.Unlock()
	if b == nil {
		return
	}
	j := b.Find(id)
	if j == nil {
		return
	}
	r.cancelJob(j)
}

// CancelAll requests cancellation of every non-terminal job in the batch.
func (r *Runner) CancelAll() {
	r.mu.Lock()
	b := r.batch
	r.mu.Unlock()
	if b == nil {
		return
	}
	for _, j := range b.Jobs() {
		r.cancelJob(j)
	}
}

func (r *Runner) cancelJob(j *job.Job) {
	switch j.RequestCancel() {
	case job.StateCancelling:
		r.mu.Lock()
		cancel := r.cancels[j.Desc.ID]
		r.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		r.notify(j)
	case job.StateCancelled:
		r.notify(j)
	}
}

func (r *Runner) process(ctx context.Context, j *job.Job) {
	logger := utils.GetLogger("runner")

	// Serialize jobs that target the same output file.
	lock := r.destLock(j.Desc.DestKey())
	lock.Lock()
	defer lock.Unlock()

	// Register the cancel func before the job turns Running, so a cancel
	// arriving right after the state change always finds it.
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.mu.Lock()
	r.cancels[j.Desc.ID] = cancel
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.cancels, j.Desc.ID)
		r.mu.Unlock()
	}()

	// A cancel may have landed while the job sat in the queue.
	if !j.Start() {
		return
	}
	r.notify(j)
	logger.Debug().Str("id", j.Desc.ID).Str("url", j.Desc.URL).Msg("Job started")

	events := make(chan backend.Event, 64)
	var drainWg sync.WaitGroup
	drainWg.Add(1)
	go func() {
		defer drainWg.Done()
		for ev := range events {
			j.SetProgress(ev.Percent)
			j.SetSpeed(ev.Speed)
			r.notify(j)
		}
	}()

	result, err := r.backend.Fetch(jobCtx, j.Desc, events)
	close(events)
	drainWg.Wait()

	switch {
	case err == nil:
		// A cancel that raced a natural finish still ends as cancelled.
		if !j.Succeed(result.OutputPath) {
			j.FinishCancel()
		}
		logger.Info().Str("url", j.Desc.URL).Str("output", result.OutputPath).Msg("Finished")
	case jobCtx.Err() != nil:
		// The backend has exited; the cancellation is now complete.
		j.FinishCancel()
		logger.Info().Str("url", j.Desc.URL).Msg("Cancelled")
	default:
		if !j.Fail(err.Error()) {
			j.FinishCancel()
		}
		logger.Error().Str("url", j.Desc.URL).Err(err).Msg("Failed")
	}
	r.notify(j)
}

func (r *Runner) destLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.destLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.destLocks[key] = lock
	}
	return lock
}

func (r *Runner) notify(j *job.Job) {
	if r.onUpdate != nil {
		r.onUpdate(j.Snapshot())
	}
}
