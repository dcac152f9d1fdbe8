// Package http retries HTTP requests through a rebound executor, handling
// request replay and response body hygiene between attempts.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/reboundio/rebound/observe"
	"github.com/reboundio/rebound/policy"
	"github.com/reboundio/rebound/retry"
)

// DoHTTP executes req with retries under pol.
//
// Transport errors and retryable status codes (408, 429, 5xx) are retried;
// any other response, including non-2xx, is returned to the caller exactly as
// client.Do would return it. Failed attempts have their bodies drained and
// closed so connections can be reused.
//
// The request body must be replayable: either absent or carrying a GetBody
// func (http.NewRequest sets one for common body types).
func DoHTTP(ctx context.Context, exec *retry.Executor, pol policy.Policy, client *http.Client, req *http.Request) (*http.Response, observe.Timeline, error) {
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return nil, observe.Timeline{}, errors.New("rebound: request body is not replayable (GetBody is nil)")
	}
	if client == nil {
		client = http.DefaultClient
	}

	op := func(ctx context.Context) (*http.Response, error) {
		outReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			outReq.Body = body
		}

		resp, err := client.Do(outReq)
		if err != nil {
			return nil, &StatusError{Err: err, Method: req.Method}
		}

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		// Drain and close so the connection is reusable; bounded to avoid
		// hanging on large error bodies.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		resp.Body.Close()

		return nil, &StatusError{Code: resp.StatusCode, Method: req.Method}
	}

	// Wrap context to capture the timeline for the caller.
	ctx, capture := observe.RecordTimeline(ctx)

	res, err := retry.DoValue(ctx, exec, pol, op)

	var tl observe.Timeline
	if t := capture.Timeline(); t != nil {
		tl = *t
	}

	if err != nil {
		return nil, tl, err
	}
	if res.Status == retry.StatusExceededMaxAttempts {
		if last := lastAttemptErr(tl); last != nil {
			return nil, tl, last
		}
		return nil, tl, errors.New("rebound: http retries exhausted")
	}
	return res.Value, tl, nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	default:
		return code >= 500
	}
}

func lastAttemptErr(tl observe.Timeline) error {
	for i := len(tl.Attempts) - 1; i >= 0; i-- {
		if err := tl.Attempts[i].Err; err != nil {
			return err
		}
	}
	return nil
}

// StatusError reports a failed HTTP attempt: either a transport error or a
// retryable status code.
type StatusError struct {
	Code   int
	Method string
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "http status " + strconv.Itoa(e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }
