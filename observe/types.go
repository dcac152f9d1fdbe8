// Package observe defines the observer surface of the retry executor:
// per-attempt records, run timelines, and context plumbing for capturing
// them. Observers are purely for visibility; they never influence the retry
// loop.
package observe

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reboundio/rebound/policy"
)

// Run identifies a single execution of the retry loop.
type Run struct {
	ID     uuid.UUID
	Policy policy.Policy
	Start  time.Time
}

// AttemptRecord describes a single failed or successful attempt.
type AttemptRecord struct {
	RunID   uuid.UUID
	Attempt int

	Start time.Time
	End   time.Time

	// Err is nil for the successful attempt; otherwise it is the task error
	// or the synthesized forced-retry error.
	Err error

	// Wait is the backoff scheduled after this attempt. Zero for the
	// successful attempt.
	Wait time.Duration
}

// Timeline is the structured record of one run and all of its attempts.
type Timeline struct {
	Run Run
	End time.Time

	Attempts []AttemptRecord

	// FinalErr is nil on success, the last attempt failure when the attempt
	// budget was exhausted, and the context error when the run was aborted
	// mid-wait.
	FinalErr error
}

// Observer receives lifecycle callbacks for a single run.
type Observer interface {
	OnStart(ctx context.Context, run Run)
	OnAttempt(ctx context.Context, rec AttemptRecord)
	OnSuccess(ctx context.Context, tl Timeline)
	OnFailure(ctx context.Context, tl Timeline)
}
