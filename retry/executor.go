// Package retry drives a caller-supplied task through an exponential backoff
// loop until it succeeds, a retry predicate stops it, or the attempt budget
// is exhausted.
package retry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reboundio/rebound/backoff"
	"github.com/reboundio/rebound/observe"
	"github.com/reboundio/rebound/policy"
)

// Task is a unit of work producing a value of type T. The executor never
// inspects the work itself; it only invokes the task and classifies the
// outcome.
//
// There is no per-invocation timeout: a task that blocks forever blocks the
// executor forever. Callers needing one should derive it from ctx inside the
// task.
type Task[T any] func(ctx context.Context) (T, error)

// Operation is a value-less task.
type Operation func(ctx context.Context) error

// RetryPredicate inspects a successful task value; returning true forces the
// attempt to be treated as a failure and retried.
type RetryPredicate[T any] func(value T) bool

// FailureHandler is invoked with the failure of every unsuccessful attempt,
// including forced retries. It is a side-effect hook; its behavior never
// influences the loop.
type FailureHandler func(err error)

// Executor runs retry loops. The zero value and nil are usable; both behave
// like NewExecutor().
//
// An Executor holds no per-run state, so a single instance may be shared by
// any number of concurrent runs without locking.
type Executor struct {
	observer observe.Observer
	clock    func() time.Time
	sleep    func(context.Context, time.Duration) error
	newRunID func() uuid.UUID
}

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	Observer observe.Observer
	Clock    func() time.Time
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*ExecutorOptions)

// WithObserver sets the observer notified of run lifecycle events.
func WithObserver(o observe.Observer) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.Observer = o
	}
}

// WithClock sets the clock used for timeline timestamps.
func WithClock(f func() time.Time) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.Clock = f
	}
}

// NewExecutor creates an Executor with default options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	var cfg ExecutorOptions
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewExecutorFromOptions(cfg)
}

// NewExecutorFromOptions creates an Executor from a config struct.
func NewExecutorFromOptions(opts ExecutorOptions) *Executor {
	e := &Executor{
		observer: opts.Observer,
		clock:    opts.Clock,
	}

	if e.observer == nil {
		e.observer = observe.NoopObserver{}
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.sleep == nil {
		e.sleep = backoff.Sleep
	}
	if e.newRunID == nil {
		e.newRunID = uuid.New
	}

	return e
}

// ensure returns e with every dependency populated, rebuilding from options
// when e is nil or partially constructed by hand.
func (e *Executor) ensure() *Executor {
	if e == nil {
		return NewExecutor()
	}
	if e.observer == nil || e.clock == nil || e.sleep == nil || e.newRunID == nil {
		ne := NewExecutorFromOptions(ExecutorOptions{
			Observer: e.observer,
			Clock:    e.clock,
		})
		if e.sleep != nil {
			ne.sleep = e.sleep
		}
		if e.newRunID != nil {
			ne.newRunID = e.newRunID
		}
		return ne
	}
	return e
}

// callConfig holds per-call collaborators.
type callConfig[T any] struct {
	retryIf RetryPredicate[T]
	onError FailureHandler
}

// CallOption configures a single run.
type CallOption[T any] func(*callConfig[T])

// RetryIf sets the retry predicate for a run. The default never forces a
// retry.
func RetryIf[T any](p RetryPredicate[T]) CallOption[T] {
	return func(c *callConfig[T]) {
		c.retryIf = p
	}
}

// OnError sets the failure handler for a run. The default is a no-op.
func OnError[T any](h FailureHandler) CallOption[T] {
	return func(c *callConfig[T]) {
		c.onError = h
	}
}

// Do executes op under pol. The Status reports whether op eventually
// succeeded or the attempt budget ran out; err is non-nil only for an invalid
// policy or a cancelled context.
func (e *Executor) Do(ctx context.Context, pol policy.Policy, op Operation, opts ...CallOption[struct{}]) (Status, error) {
	res, err := DoValue(ctx, e, pol, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, opts...)
	return res.Status, err
}

// DoValue executes task under pol until it succeeds, the retry predicate
// accepts its value, or the attempt budget is exhausted.
//
// Task errors never escape: every failure is routed to the OnError handler
// and the observer, and the run ends in either StatusSuccessful or
// StatusExceededMaxAttempts. The returned error is non-nil only when pol is
// invalid or ctx is cancelled; cancellation, including during a wait, aborts
// the whole run.
//
// Each failed attempt waits min(pol.Cap, pol.Base * 2^attempt) — drawn
// uniformly from [0, that) when pol.Jitter is set — before the attempt
// counter advances and the bound is checked, so a bounded run invokes the
// task exactly min(failures+1, pol.MaxAttempts) times.
func DoValue[T any](ctx context.Context, exec *Executor, pol policy.Policy, task Task[T], opts ...CallOption[T]) (Result[T], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	exec = exec.ensure()

	var cfg callConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	var zero Result[T]
	if err := pol.Validate(); err != nil {
		return zero, err
	}

	run := observe.Run{ID: exec.newRunID(), Policy: pol, Start: exec.clock()}
	tl := observe.Timeline{Run: run}
	capture, _ := observe.TimelineCaptureFromContext(ctx)

	finish := func(finalErr error) {
		tl.End = exec.clock()
		tl.FinalErr = finalErr
		if finalErr == nil {
			exec.observer.OnSuccess(ctx, tl)
		} else {
			exec.observer.OnFailure(ctx, tl)
		}
		observe.StoreTimelineCapture(capture, &tl)
	}

	exec.observer.OnStart(ctx, run)

	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			finish(err)
			return zero, err
		}

		attemptStart := exec.clock()
		taskCtx := observe.WithAttemptInfo(
			observe.WithoutTimelineCapture(ctx),
			observe.AttemptInfo{RunID: run.ID, Attempt: attempt},
		)
		val, taskErr := task(taskCtx)

		outcome, failure := evaluateAttempt(val, taskErr, cfg.retryIf)
		if outcome == attemptSucceeded {
			rec := observe.AttemptRecord{
				RunID:   run.ID,
				Attempt: attempt,
				Start:   attemptStart,
				End:     exec.clock(),
			}
			tl.Attempts = append(tl.Attempts, rec)
			exec.observer.OnAttempt(ctx, rec)
			finish(nil)
			return Result[T]{Status: StatusSuccessful, Value: val}, nil
		}

		if cfg.onError != nil {
			cfg.onError(failure)
		}

		// The wait uses the pre-increment counter: the first failure backs
		// off by base*2^0, the second by base*2^1, and so on.
		wait := computeWait(pol, attempt)

		rec := observe.AttemptRecord{
			RunID:   run.ID,
			Attempt: attempt,
			Start:   attemptStart,
			End:     exec.clock(),
			Err:     failure,
			Wait:    wait,
		}
		tl.Attempts = append(tl.Attempts, rec)
		exec.observer.OnAttempt(ctx, rec)

		if wait > 0 {
			if err := exec.sleep(ctx, wait); err != nil {
				finish(err)
				return zero, err
			}
		}

		attempt++
		if !pol.Infinite && attempt >= pol.MaxAttempts {
			finish(failure)
			return Result[T]{Status: StatusExceededMaxAttempts}, nil
		}
	}
}

// attemptOutcome is the explicit classification of one attempt. Forced
// retries are a distinct outcome rather than a synthetic thrown error, so the
// loop never relies on error machinery for non-error control flow.
type attemptOutcome int

const (
	attemptSucceeded attemptOutcome = iota
	attemptRetryRequested
	attemptFailed
)

// evaluateAttempt classifies a task invocation. For unsuccessful outcomes the
// returned error is what the failure handler and timeline receive: the task
// error itself, or a *ForcedRetryError describing the rejected value.
func evaluateAttempt[T any](val T, err error, retryIf RetryPredicate[T]) (attemptOutcome, error) {
	if err != nil {
		return attemptFailed, err
	}
	if retryIf != nil && retryIf(val) {
		return attemptRetryRequested, &ForcedRetryError{Value: val}
	}
	return attemptSucceeded, nil
}

func computeWait(pol policy.Policy, attempt int) time.Duration {
	if pol.Jitter {
		return backoff.WaitTimeJittered(pol.Cap, pol.Base, attempt)
	}
	return backoff.WaitTime(pol.Cap, pol.Base, attempt)
}
