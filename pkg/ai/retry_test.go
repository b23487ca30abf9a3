package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func recordingRetrier(sleeps *[]time.Duration) *Retrier {
	return &Retrier{
		attempts: retryAttempts,
		base:     retryBaseDelay,
		sleep: func(_ context.Context, d time.Duration) error {
			*sleeps = append(*sleeps, d)
			return nil
		},
		log: zap.NewNop(),
	}
}

func TestRetrierRecoversAfterRetryableFailures(t *testing.T) {
	var sleeps []time.Duration
	r := recordingRetrier(&sleeps)

	calls := 0
	out, err := r.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls <= 3 {
			return "", &APIError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}, sleeps)
}

func TestRetrierNonRetryableFailsFirstAttempt(t *testing.T) {
	var sleeps []time.Duration
	r := recordingRetrier(&sleeps)

	boom := errors.New("invalid request payload")
	calls := 0
	_, err := r.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		return "", boom
	})

	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps)
	assert.Equal(t, boom, err, "the original error must come back unchanged")
}

func TestRetrierExhaustsAttempts(t *testing.T) {
	var sleeps []time.Duration
	r := recordingRetrier(&sleeps)

	unavailable := &APIError{StatusCode: 503, Status: "UNAVAILABLE", Message: "overloaded"}
	calls := 0
	_, err := r.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		return "", unavailable
	})

	assert.Equal(t, retryAttempts, calls)
	assert.Len(t, sleeps, retryAttempts-1)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 503, apiErr.StatusCode)
}

func TestRetrierContextCancelledDuringBackoff(t *testing.T) {
	r := &Retrier{attempts: 2, base: time.Millisecond, sleep: sleepContext, log: zap.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Do(ctx, func(context.Context) (string, error) {
		return "", &APIError{StatusCode: 429}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryableClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"api 429", &APIError{StatusCode: 429}, true},
		{"api 503", &APIError{StatusCode: 503}, true},
		{"api 500", &APIError{StatusCode: 500}, false},
		{"api 400", &APIError{StatusCode: 400}, false},
		{"message quota", errors.New("RESOURCE_EXHAUSTED: quota exceeded"), true},
		{"message overloaded", errors.New("the model is overloaded, try again"), true},
		{"plain failure", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, retryable(tc.err))
		})
	}
}
