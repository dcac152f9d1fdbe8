// Package policy defines the immutable backoff configuration consumed by the
// retry executor.
package policy

import (
	"time"
)

// Defaults applied by New when the corresponding option is not supplied.
const (
	DefaultCap         = 60 * time.Second
	DefaultBase        = 100 * time.Millisecond
	DefaultMaxAttempts = 10
)

// Policy is an immutable backoff configuration.
//
// A Policy is safe to share between goroutines; it is pure data and is never
// mutated after construction.
type Policy struct {
	// Cap is the maximum wait between attempts.
	Cap time.Duration

	// Base is the unit wait multiplied by the exponential factor.
	Base time.Duration

	// MaxAttempts bounds the number of task invocations. Ignored when
	// Infinite is set.
	MaxAttempts int

	// Infinite retries until success, ignoring MaxAttempts.
	Infinite bool

	// Jitter draws each wait uniformly from [0, computed wait).
	Jitter bool
}

// Option configures a Policy during New.
type Option func(*Policy)

// WithCap sets the maximum wait between attempts.
func WithCap(cap time.Duration) Option {
	return func(p *Policy) {
		p.Cap = cap
	}
}

// WithBase sets the base wait unit.
func WithBase(base time.Duration) Option {
	return func(p *Policy) {
		p.Base = base
	}
}

// WithMaxAttempts sets the attempt bound.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		p.MaxAttempts = n
	}
}

// WithInfiniteAttempts removes the attempt bound; the executor retries until
// the task succeeds or the context is cancelled.
func WithInfiniteAttempts() Option {
	return func(p *Policy) {
		p.Infinite = true
	}
}

// WithJitter randomizes each wait over [0, computed wait).
func WithJitter() Option {
	return func(p *Policy) {
		p.Jitter = true
	}
}

// New builds a validated Policy from the defaults and opts.
//
// Invalid values are reported here, at configuration time, rather than at
// execution time.
func New(opts ...Option) (Policy, error) {
	p := Default()

	for _, opt := range opts {
		opt(&p)
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Default returns the stock policy: cap 60s, base 100ms, 10 attempts, no
// jitter.
func Default() Policy {
	return Policy{
		Cap:         DefaultCap,
		Base:        DefaultBase,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Validate reports the first invalid field, if any. A zero Policy is invalid;
// construct literals with every field in mind or use New.
func (p Policy) Validate() error {
	if p.Cap < 0 {
		return &ConfigError{Field: "cap", Value: p.Cap, Reason: "must be >= 0"}
	}
	if p.Base < 0 {
		return &ConfigError{Field: "base", Value: p.Base, Reason: "must be >= 0"}
	}
	if !p.Infinite && p.MaxAttempts < 1 {
		return &ConfigError{Field: "max_attempts", Value: p.MaxAttempts, Reason: "must be >= 1 when bounded"}
	}
	return nil
}
