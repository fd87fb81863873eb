package hashjob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"dupescan/internal/digest"
	"dupescan/internal/logging"
)

// ErrJobActive is returned by Start while a previous job is still running or
// cancelling. Jobs are never queued.
var ErrJobActive = errors.New("hashing job already active")

// State represents the engine lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateRunning    State = "running"
	StateCancelling State = "cancelling"
)

// Progress reports cumulative completions for a job. Completed only ever
// increases and Total never changes.
type Progress struct {
	Completed int
	Total     int
}

// Result pairs a path with its digest outcome. Results arrive in completion
// order, not submission order; consumers must key on Path.
type Result struct {
	Path    string
	Outcome digest.Outcome
}

// DigestFunc computes the outcome for one path.
type DigestFunc func(ctx context.Context, path string) digest.Outcome

// Engine starts and tracks hashing jobs. At most one job is active at a time.
type Engine struct {
	logger   *slog.Logger
	digestFn DigestFunc

	mu     sync.Mutex
	state  State
	active *Job
}

// NewEngine constructs an idle engine using the MD5 digest function.
func NewEngine(logger *slog.Logger) *Engine {
	return NewEngineWithDigest(logger, digest.File)
}

// NewEngineWithDigest constructs an engine with a custom digest function
// (used in tests).
func NewEngineWithDigest(logger *slog.Logger, fn DigestFunc) *Engine {
	if fn == nil {
		fn = digest.File
	}
	return &Engine{
		logger:   logging.NewComponentLogger(logger, "hashjob"),
		digestFn: fn,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// DefaultWorkers returns twice the CPU count clamped to [2, 32].
func DefaultWorkers() int {
	workers := runtime.NumCPU() * 2
	if workers < 2 {
		workers = 2
	}
	if workers > 32 {
		workers = 32
	}
	return workers
}

// Start launches a job hashing paths with the given concurrency. A
// non-positive workers value selects DefaultWorkers. Start fails with
// ErrJobActive while another job is running or cancelling.
func (e *Engine) Start(ctx context.Context, paths []string, workers int) (*Job, error) {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if len(paths) > 0 && workers > len(paths) {
		workers = len(paths)
	}

	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return nil, ErrJobActive
	}

	jobCtx, cancel := context.WithCancel(ctx)
	total := len(paths)
	job := &Job{
		id:       uuid.NewString(),
		total:    total,
		progress: make(chan Progress, total+1),
		results:  make(chan Result, total),
		done:     make(chan struct{}),
		cancel:   cancel,
		engine:   e,
	}
	e.state = StateRunning
	e.active = job
	e.mu.Unlock()

	e.logger.Info("job started",
		logging.String(logging.FieldJobID, job.id),
		logging.Int(logging.FieldCount, total),
		logging.Int("workers", workers),
	)

	go e.run(jobCtx, job, paths, workers)
	return job, nil
}

func (e *Engine) run(ctx context.Context, job *Job, paths []string, workers int) {
	started := time.Now()
	defer job.cancel()

	job.progress <- Progress{Completed: 0, Total: job.total}

	tasks := make(chan string)
	completions := make(chan Result)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for path := range tasks {
				completions <- e.hashOne(ctx, path)
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, path := range paths {
			select {
			case tasks <- path:
			case <-ctx.Done():
				// Undispatched paths are abandoned; they produce no result.
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(completions)
	}()

	completed := 0
	for result := range completions {
		job.results <- result
		completed++
		job.progress <- Progress{Completed: completed, Total: job.total}

		if result.Outcome.Failed() {
			e.logger.Debug("file failed",
				logging.String(logging.FieldPath, result.Path),
				logging.Error(result.Outcome.Err),
			)
		} else {
			e.logger.Debug("file hashed",
				logging.String(logging.FieldPath, result.Path),
				logging.String(logging.FieldDigest, result.Outcome.Digest),
				logging.Uint64("bytes", result.Outcome.Size),
			)
		}
	}
	close(job.results)
	close(job.progress)

	e.mu.Lock()
	e.state = StateIdle
	e.active = nil
	e.mu.Unlock()

	e.logger.Info("job finished",
		logging.String(logging.FieldJobID, job.id),
		logging.Int("completed", completed),
		logging.Int(logging.FieldCount, job.total),
		logging.Duration("elapsed", time.Since(started)),
	)
	close(job.done)
}

// hashOne digests a single path, converting panics into failure outcomes so a
// bad file cannot take down the pool.
func (e *Engine) hashOne(ctx context.Context, path string) (result Result) {
	result.Path = path
	defer func() {
		if r := recover(); r != nil {
			result.Outcome = digest.Outcome{Err: fmt.Errorf("unexpected failure: %v", r)}
		}
	}()
	result.Outcome = e.digestFn(ctx, path)
	return result
}

// Job is a handle to one hashing run. Its channels are buffered for the whole
// run, so the engine never blocks on a slow consumer; Done is closed exactly
// once, after the final progress and result events, even when cancelled.
type Job struct {
	id        string
	total     int
	progress  chan Progress
	results   chan Result
	done      chan struct{}
	cancel    context.CancelFunc
	cancelled atomic.Bool
	engine    *Engine
}

// ID returns the job identifier.
func (j *Job) ID() string { return j.id }

// Total returns the number of submitted paths.
func (j *Job) Total() int { return j.total }

// Progress returns the progress event stream. The first event is (0, total);
// each subsequent event follows the delivery of one result. The channel is
// closed before Done.
func (j *Job) Progress() <-chan Progress { return j.progress }

// Results returns the per-file result stream, in completion order. The
// channel is closed before Done.
func (j *Job) Results() <-chan Result { return j.results }

// Done is closed once all started work has finished and every event has been
// emitted. It is always the final signal, cancelled or not.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancelled reports whether Cancel has been called.
func (j *Job) Cancelled() bool { return j.cancelled.Load() }

// Cancel requests cooperative cancellation. It is idempotent and safe to call
// after completion. In-flight files fail with digest.ErrCancelled at their
// next chunk boundary; files not yet dispatched never start.
func (j *Job) Cancel() {
	if !j.cancelled.CompareAndSwap(false, true) {
		return
	}
	j.engine.mu.Lock()
	if j.engine.active == j {
		j.engine.state = StateCancelling
	}
	j.engine.mu.Unlock()

	j.engine.logger.Info("job cancel requested", logging.String(logging.FieldJobID, j.id))
	j.cancel()
}
