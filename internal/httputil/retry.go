// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff. The delay starts at RetryBaseDelay
// (10 s) and doubles each attempt: 10 s, 20 s, 40 s, 80 s, 160 s.
//
// When maxRetries is 0 the default (5) is used. On each 429 the response
// body is drained and closed before sleeping. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// retries the last 429 response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		attemptReq, err := rewind(ctx, req)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if attempt >= maxRetries {
			return resp, nil
		}

		drain(resp)

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if err := sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}
}

// DoWithLinearBackoff executes req up to attempts times. Transport errors
// and non-2xx responses are retried after delay, 2*delay, 3*delay, and so
// on. Each failed attempt is reported to w as a warning. On success the
// 2xx response is returned with its body open; after the last failed
// attempt the final error is returned.
//
// Requests with a body must set GetBody so they can be replayed.
func DoWithLinearBackoff(ctx context.Context, client *http.Client, req *http.Request, attempts int, delay time.Duration, w io.Writer) (*http.Response, error) {
	if attempts <= 0 {
		attempts = 1
	}
	if w == nil {
		w = io.Discard
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, delay*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}

		attemptReq, err := rewind(ctx, req)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(attemptReq)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		if err == nil {
			drain(resp)
			err = fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Redacted())
		}
		lastErr = err
		fmt.Fprintf(w, "  warning: attempt %d/%d failed: %v\n", attempt+1, attempts, err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}

// rewind clones req for another attempt, reopening its body through
// GetBody when one is set.
func rewind(ctx context.Context, req *http.Request) (*http.Request, error) {
	clone := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewinding request body: %w", err)
		}
		clone.Body = body
	}
	return clone, nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
