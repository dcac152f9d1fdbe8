package retry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reboundio/rebound/observe"
	"github.com/reboundio/rebound/policy"
)

// sleepRecorder replaces the executor's sleep so tests observe the scheduled
// waits without blocking.
type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
	err   error
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return s.err
}

func (s *sleepRecorder) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.waits))
	copy(out, s.waits)
	return out
}

// newTestExecutor returns an executor whose sleeps are recorded instead of
// performed and whose clock ticks deterministically.
func newTestExecutor(opts ...ExecutorOption) (*Executor, *sleepRecorder) {
	rec := &sleepRecorder{}
	e := NewExecutor(opts...)
	e.sleep = rec.sleep

	var (
		mu  sync.Mutex
		now = time.Unix(0, 0)
	)
	e.clock = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	}
	return e, rec
}

func boundedPolicy(maxAttempts int) policy.Policy {
	return policy.Policy{
		Cap:         60 * time.Second,
		Base:        100 * time.Millisecond,
		MaxAttempts: maxAttempts,
	}
}

// countingObserver records how often each callback fires.
type countingObserver struct {
	mu        sync.Mutex
	starts    int
	attempts  []observe.AttemptRecord
	successes []observe.Timeline
	failures  []observe.Timeline
	runIDs    []uuid.UUID
}

func (c *countingObserver) OnStart(_ context.Context, run observe.Run) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	c.runIDs = append(c.runIDs, run.ID)
}

func (c *countingObserver) OnAttempt(_ context.Context, rec observe.AttemptRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts = append(c.attempts, rec)
}

func (c *countingObserver) OnSuccess(_ context.Context, tl observe.Timeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successes = append(c.successes, tl)
}

func (c *countingObserver) OnFailure(_ context.Context, tl observe.Timeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, tl)
}
