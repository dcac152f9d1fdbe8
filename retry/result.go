package retry

// Status is the terminal disposition of a run.
type Status int

const (
	// StatusUnknown is the zero value; it appears only in results returned
	// alongside a non-nil error (invalid policy, cancelled context).
	StatusUnknown Status = iota

	// StatusSuccessful means the task returned a value the retry predicate
	// accepted.
	StatusSuccessful

	// StatusExceededMaxAttempts means every permitted attempt failed.
	StatusExceededMaxAttempts
)

func (s Status) String() string {
	switch s {
	case StatusSuccessful:
		return "successful"
	case StatusExceededMaxAttempts:
		return "exceeded_max_attempts"
	default:
		return "unknown"
	}
}

// Result is the terminal outcome of a run. Value is meaningful only when
// Status is StatusSuccessful.
type Result[T any] struct {
	Status Status
	Value  T
}

// Successful reports whether the run ended with an accepted value.
func (r Result[T]) Successful() bool {
	return r.Status == StatusSuccessful
}

// Get returns the value and whether it is present.
func (r Result[T]) Get() (T, bool) {
	if r.Status != StatusSuccessful {
		var zero T
		return zero, false
	}
	return r.Value, true
}
