package retry

import "errors"

// ErrForcedRetry matches any *ForcedRetryError via errors.Is.
var ErrForcedRetry = errors.New("rebound: retry forced by predicate")

// ForcedRetryError is the failure synthesized when the task succeeded but the
// retry predicate rejected its value. It exists so the failure handler and
// the timeline always receive something describing why the attempt failed.
type ForcedRetryError struct {
	// Value is the rejected task value.
	Value any
}

func (e *ForcedRetryError) Error() string {
	return "rebound: retry forced by predicate"
}

func (e *ForcedRetryError) Is(target error) bool {
	return target == ErrForcedRetry
}
