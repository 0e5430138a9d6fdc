// Package llm - retry.go wraps model calls in a bounded retry-with-backoff policy.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RetryPolicy bounds how hard we lean on a flaky model call. Every call is
// treated as a fallible, non-idempotent external dependency: a response that
// does not parse as the expected JSON shape is a failed attempt, never a
// silent empty result.
type RetryPolicy struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // delay before the second attempt; doubles each retry
	CallTimeout time.Duration // per-attempt timeout, 0 for none
}

// DefaultRetryPolicy returns the pipeline-wide default: 3 attempts with
// exponential backoff (500ms, 1s) and a one-minute per-attempt timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		CallTimeout: time.Minute,
	}
}

// CallJSON generates JSON from the model and unmarshals it into out, retrying
// per the policy. The last error is returned once attempts are exhausted.
func CallJSON(ctx context.Context, client Client, prompt string, tier ModelTier, policy RetryPolicy, out any) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := policy.BaseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = callJSONOnce(ctx, client, prompt, tier, policy.CallTimeout, out)
		if lastErr == nil {
			return nil
		}
		// Context cancellation is not the model's fault; stop retrying.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("model call failed after %d attempts: %w", policy.MaxAttempts, lastErr)
}

func callJSONOnce(ctx context.Context, client Client, prompt string, tier ModelTier, timeout time.Duration, out any) error {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err := client.GenerateJSON(callCtx, prompt, tier)
	if err != nil {
		return err
	}

	text = CleanJSONBlock(text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}
