package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	retryAttempts  = 4
	retryBaseDelay = 5 * time.Second
)

// Markers the upstream API puts in rate-limit and overload errors. Matched
// against the message as a fallback when no typed status code is available.
var retryableMarkers = []string{
	"429", "503", "RESOURCE_EXHAUSTED", "UNAVAILABLE", "quota", "rate limit", "overloaded",
}

// Retrier re-runs a call on rate-limit or transient-unavailability failures,
// doubling the delay between attempts. Non-retryable errors and exhausted
// retries return the underlying error unchanged.
type Retrier struct {
	attempts int
	base     time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	log      *zap.Logger
}

func NewRetrier() *Retrier {
	return &Retrier{
		attempts: retryAttempts,
		base:     retryBaseDelay,
		sleep:    sleepContext,
		log:      zap.NewNop(),
	}
}

func (r *Retrier) Do(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		out, err := call(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable(err) || attempt == r.attempts-1 {
			return "", err
		}
		delay := r.base * (1 << attempt) // 5s, 10s, 20s
		r.log.Warn("model call failed, backing off",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", r.attempts),
			zap.Duration("delay", delay),
			zap.Error(err))
		if serr := r.sleep(ctx, delay); serr != nil {
			return "", serr
		}
	}
	return "", lastErr
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode == http.StatusServiceUnavailable
	}
	msg := err.Error()
	for _, marker := range retryableMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
