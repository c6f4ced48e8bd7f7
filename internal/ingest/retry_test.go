package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errFlaky = errors.New("flaky")

func onlyFlaky(err error) bool { return errors.Is(err, errFlaky) }

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		failWith  error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{name: "first try", failures: 0, attempts: 3, wantCalls: 1},
		{name: "recovers", failures: 2, failWith: errFlaky, attempts: 3, wantCalls: 3},
		{name: "exhausted", failures: 5, failWith: errFlaky, attempts: 3, wantCalls: 3, wantErr: errFlaky},
		{name: "permanent error", failures: 5, failWith: errors.New("bad row"), attempts: 3, wantCalls: 1},
		{name: "zero attempts runs once", failures: 5, failWith: errFlaky, attempts: 0, wantCalls: 1, wantErr: errFlaky},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), RetryPolicy{Attempts: tt.attempts, Delay: time.Millisecond, Retryable: onlyFlaky},
				func(ctx context.Context) error {
					calls++
					if calls <= tt.failures {
						return tt.failWith
					}
					return nil
				})

			assert.Equal(t, tt.wantCalls, calls)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.failures >= tt.wantCalls && tt.failWith != nil:
				assert.ErrorIs(t, err, tt.failWith)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetry_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, RetryPolicy{Attempts: 5, Delay: time.Hour, Retryable: onlyFlaky}, func(ctx context.Context) error {
		calls++
		cancel()
		return errFlaky
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
