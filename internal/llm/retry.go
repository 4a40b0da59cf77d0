package llm

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultMaxAttempts  = 4
	DefaultInitialDelay = time.Second
)

// RetryPolicy is exponential backoff: the wait before retry n (1-based)
// is InitialDelay * 2^(n-1).
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, InitialDelay: DefaultInitialDelay}
}

// Delay returns the wait before the given retry (1 for the first retry).
func (p RetryPolicy) Delay(retry int) time.Duration {
	if retry < 1 {
		return 0
	}
	return p.InitialDelay << uint(retry-1)
}

type sleepFunc func(ctx context.Context, d time.Duration) error

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

// RetryingClient retries the wrapped client on any error until the policy
// is exhausted. The last error is returned.
type RetryingClient struct {
	next   Client
	policy RetryPolicy
	sleep  sleepFunc
}

func WithRetry(next Client, policy RetryPolicy) *RetryingClient {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RetryingClient{next: next, policy: policy, sleep: sleepContext}
}

func (r *RetryingClient) Generate(ctx context.Context, systemInstruction, prompt string) (Response, error) {
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := r.sleep(ctx, r.policy.Delay(attempt-1)); err != nil {
				return Response{}, err
			}
		}
		resp, err := r.next.Generate(ctx, systemInstruction, prompt)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
	}
	return Response{}, fmt.Errorf("max retries exceeded after %d attempts: %w", r.policy.MaxAttempts, lastErr)
}
