// Package backoff computes exponentially growing wait times, with optional
// full jitter, for the retry executor.
package backoff

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// maxShift is the largest exponent for which 1<<attempt fits in an int64.
const maxShift = 62

// WaitTime returns min(cap, base * 2^attempt).
//
// The exponential is computed in the integer duration domain. Any attempt
// outside [0, maxShift], and any product that is non-positive or would
// overflow, is treated as an infinite wait and clamps to cap. The result is
// never negative and never exceeds cap, for any attempt value; attempt
// counters are unbounded in infinite mode, so this must hold even for
// adversarial inputs.
func WaitTime(cap, base time.Duration, attempt int) time.Duration {
	if cap < 0 {
		cap = 0
	}

	if attempt < 0 || attempt > maxShift {
		return cap
	}

	multiplier := int64(1) << attempt

	if base <= 0 {
		// A true exponential is always positive; clamp like an overflow.
		return cap
	}
	if int64(base) > math.MaxInt64/multiplier {
		return cap
	}

	raw := base * time.Duration(multiplier)
	if raw > cap {
		return cap
	}
	return raw
}

// WaitTimeJittered returns a uniformly distributed duration in
// [0, WaitTime(cap, base, attempt)), or 0 when the ceiling is 0.
//
// This is the "full jitter" strategy: spreading concurrent retriers over the
// whole interval desynchronizes them better than equal or fixed jitter, at
// the cost of occasional near-zero waits. The generator is the shared
// math/rand/v2 source, which is safe for concurrent use.
func WaitTimeJittered(cap, base time.Duration, attempt int) time.Duration {
	w := WaitTime(cap, base, attempt)
	if w <= 0 {
		return 0
	}
	return rand.N(w)
}

// Sleep blocks for d or until ctx is cancelled, whichever comes first.
// It returns nil after a full wait and ctx.Err() on cancellation. Zero and
// negative durations return immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C: // drain a pending tick
			default:
			}
		}
	}()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
