package payflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// defaultRetrySchedule is the escalating backoff used when the upstream
// supplies no retry hint, indexed by attempt number. Deployment-tunable via
// WithRetrySchedule; attempts past the end reuse the last entry.
var defaultRetrySchedule = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	5 * time.Second,
}

// executor turns one logical operation into a network call and owns the
// retry, backoff and timeout policy around it. Only 429 is retried: it is
// the sole condition that is both transient and safe to repeat (request
// bodies are replayed verbatim under the same idempotency key). 401/403
// cannot be fixed by retrying, and arbitrary 5xx are surfaced immediately
// rather than masked from the caller.
type executor struct {
	http          *http.Client
	baseURL       *url.URL
	apiKey        string
	timeout       time.Duration
	maxRetries    int
	retrySchedule []time.Duration
	sleep         func(ctx context.Context, d time.Duration) error
	logger        zerolog.Logger
}

// attempt is the inspectable state of one network try within an operation's
// lifecycle: sequence number and the backoff served before it. Created and
// discarded entirely within one execute call.
type attempt struct {
	seq  int
	wait time.Duration
}

// execute runs op until a terminal classification, decoding a successful
// body into out (out may be nil). Every failure is a *Error.
func (e *executor) execute(ctx context.Context, op Operation, out any) error {
	requestID := uuid.NewString()

	for att := (attempt{}); ; att.seq++ {
		body, hint, err := e.try(ctx, op, att, requestID)
		if err == nil {
			if out == nil || len(body) == 0 {
				return nil
			}
			if uerr := json.Unmarshal(body, out); uerr != nil {
				return &Error{Type: ErrorTypeAPI, Message: "decoding response body", Cause: uerr}
			}
			return nil
		}

		var perr *Error
		if errors.As(err, &perr) && perr.Type == ErrorTypeRateLimited {
			if att.seq < e.maxRetries {
				att.wait = e.backoff(att.seq, hint)
				e.logger.Debug().
					Str("requestID", requestID).
					Int("attempt", att.seq).
					Dur("backoff", att.wait).
					Msg("rate limited, retrying")
				if serr := e.sleep(ctx, att.wait); serr != nil {
					return &Error{Type: ErrorTypeNetwork, Message: "canceled during backoff", Cause: serr}
				}
				continue
			}
			// Budget exhausted: escalate to a terminal API error,
			// keeping the upstream message and body.
			perr.Type = ErrorTypeAPI
			return perr
		}
		return err
	}
}

// try issues exactly one network call under the per-attempt deadline and
// classifies the outcome. The returned duration is the upstream retry hint
// on 429, zero otherwise.
func (e *executor) try(ctx context.Context, op Operation, att attempt, requestID string) ([]byte, time.Duration, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := e.newRequest(callCtx, op)
	if err != nil {
		return nil, 0, &Error{Type: ErrorTypeNetwork, Message: "building request", Cause: err}
	}

	e.logger.Debug().
		Str("requestID", requestID).
		Int("attempt", att.seq).
		Dur("wait", att.wait).
		Str("method", op.Method).
		Str("path", op.Path).
		Msg("issuing request")

	resp, err := e.http.Do(req)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, 0, &Error{
				Type:    ErrorTypeTimeout,
				Message: fmt.Sprintf("request timed out after %s", e.timeout),
				Cause:   err,
			}
		}
		return nil, 0, &Error{Type: ErrorTypeNetwork, Message: "transport failure", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// The deadline can also fire mid-body: the call has not settled
		// until the body is fully transferred.
		if callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, 0, &Error{
				Type:    ErrorTypeTimeout,
				Message: fmt.Sprintf("request timed out after %s", e.timeout),
				Cause:   err,
			}
		}
		return nil, 0, &Error{Type: ErrorTypeNetwork, Message: "reading response body", Cause: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, 0, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		msg, decoded := errorMessage(resp.StatusCode, body)
		return nil, 0, &Error{Type: ErrorTypeAuth, Message: msg, StatusCode: resp.StatusCode, Body: decoded}

	case resp.StatusCode == http.StatusTooManyRequests:
		msg, decoded := errorMessage(resp.StatusCode, body)
		return nil, retryAfter(resp.Header), &Error{Type: ErrorTypeRateLimited, Message: msg, StatusCode: resp.StatusCode, Body: decoded}

	default:
		msg, decoded := errorMessage(resp.StatusCode, body)
		return nil, 0, &Error{Type: ErrorTypeAPI, Message: msg, StatusCode: resp.StatusCode, Body: decoded}
	}
}

func (e *executor) newRequest(ctx context.Context, op Operation) (*http.Request, error) {
	u, err := e.baseURL.Parse(op.Path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if op.Body != nil {
		raw, err := json.Marshal(op.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	// The API expects the raw application key, never a Bearer prefix.
	req.Header.Set("Authorization", e.apiKey)
	req.Header.Set("Accept", "application/json")
	if op.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if op.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", op.IdempotencyKey)
	}
	return req, nil
}

// backoff prefers the upstream retry hint; otherwise it indexes the
// configured schedule, clamped to the last entry.
func (e *executor) backoff(seq int, hint time.Duration) time.Duration {
	if hint > 0 {
		return hint
	}
	if len(e.retrySchedule) == 0 {
		return defaultRetrySchedule[min(seq, len(defaultRetrySchedule)-1)]
	}
	return e.retrySchedule[min(seq, len(e.retrySchedule)-1)]
}

// retryAfter parses the upstream rate-limit hint header, whole seconds.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// sleepContext waits for d. The per-attempt timeout never reaches here: it
// cancels only the network call in progress, not a scheduled backoff.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
