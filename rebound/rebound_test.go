package rebound

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reboundio/rebound/policy"
	"github.com/reboundio/rebound/retry"
)

func fastPolicy(t *testing.T, maxAttempts int) Policy {
	t.Helper()
	pol, err := NewPolicy(
		policy.WithCap(2*time.Millisecond),
		policy.WithBase(time.Millisecond),
		policy.WithMaxAttempts(maxAttempts),
	)
	require.NoError(t, err)
	return pol
}

func TestDo(t *testing.T) {
	calls := 0
	status, err := Do(context.Background(), fastPolicy(t, 3), func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, retry.StatusSuccessful, status)
	assert.Equal(t, 2, calls)
}

func TestDoValue(t *testing.T) {
	res, err := DoValue(context.Background(), fastPolicy(t, 3), func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Value)
}

func TestDoValue_CallOptions(t *testing.T) {
	handled := 0
	res, err := DoValue(context.Background(), fastPolicy(t, 2),
		func(context.Context) (int, error) {
			return 1, nil
		},
		retry.RetryIf[int](func(int) bool { return true }),
		retry.OnError[int](func(error) { handled++ }),
	)
	require.NoError(t, err)
	assert.Equal(t, retry.StatusExceededMaxAttempts, res.Status)
	assert.Equal(t, 2, handled)
}

func TestNewPolicy_Invalid(t *testing.T) {
	_, err := NewPolicy(policy.WithCap(-time.Second))
	require.ErrorIs(t, err, policy.ErrInvalidConfig)
}
