// Package rebound is the convenience entry point: package-level retry
// helpers bound to a process-wide default executor.
package rebound

import (
	"context"

	"github.com/reboundio/rebound/policy"
	"github.com/reboundio/rebound/retry"
)

// Policy is the backoff configuration consumed by Do and DoValue.
type Policy = policy.Policy

// NewPolicy builds a validated Policy from the defaults and opts.
func NewPolicy(opts ...policy.Option) (Policy, error) { return policy.New(opts...) }

// Init sets the global default executor.
// It must be called before Do/DoValue are used.
func Init(exec *retry.Executor) {
	retry.SetGlobal(exec)
}

// Do executes op under pol using the default executor.
func Do(ctx context.Context, pol Policy, op retry.Operation, opts ...retry.CallOption[struct{}]) (retry.Status, error) {
	return retry.DefaultExecutor().Do(ctx, pol, op, opts...)
}

// DoValue executes task under pol using the default executor.
func DoValue[T any](ctx context.Context, pol Policy, task retry.Task[T], opts ...retry.CallOption[T]) (retry.Result[T], error) {
	return retry.DoValue(ctx, retry.DefaultExecutor(), pol, task, opts...)
}
