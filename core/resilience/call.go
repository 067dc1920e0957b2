package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Policy parametrizes retry behavior for a single call. It is passed by
// value: policies are per-call-site configuration, never shared mutable
// state.
type Policy struct {
	// MaxAttempts bounds the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; it doubles on every
	// further attempt.
	BaseDelay time.Duration
	// IsRetryableStatus decides whether a status-coded failure is worth
	// another attempt. Nil falls back to DefaultRetryableStatus.
	IsRetryableStatus func(status int) bool
	// Essential marks calls whose non-retryable failures must surface as a
	// hard ConfigurationError instead of degrading to fallback.
	Essential bool
	// Feature names the dependent feature in hard errors for essential calls.
	Feature string
}

// DefaultRetryableStatus retries rate limiting and server-side failures.
func DefaultRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func (p Policy) retryable(status int) bool {
	if p.IsRetryableStatus != nil {
		return p.IsRetryableStatus(status)
	}
	return DefaultRetryableStatus(status)
}

// SynthesisPolicy is the observed production policy for speech synthesis.
func SynthesisPolicy() Policy {
	return Policy{MaxAttempts: 2, BaseDelay: time.Second}
}

// ContentPolicy is the observed production policy for content fetches.
func ContentPolicy(feature string) Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second, Essential: true, Feature: feature}
}

// Producer performs one attempt of a remote call. Status-coded failures are
// reported as *StatusError; any other error counts as a transport failure.
type Producer[T any] func(ctx context.Context) (T, error)

// sleep is swapped out by tests so backoff behavior stays observable without
// wall-clock waits.
var sleep = sleepContext

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Call runs producer under the policy. It returns a fallback Result for
// every soft failure; the error is non-nil only for essential calls that hit
// a non-retryable failure, and is then a *ConfigurationError or the
// producer's validation error unchanged.
//
// There is no wall-clock ceiling beyond MaxAttempts times the final delay;
// callers that need one pass a context with a deadline, which is observed
// between attempts.
func Call[T any](ctx context.Context, producer Producer[T], policy Policy) (Result[T], error) {
	ctx, span := tracer.Start(ctx, "resilient remote call")
	defer span.End()
	span.SetAttributes(
		attribute.Int("policy.max_attempts", policy.MaxAttempts),
		attribute.Bool("policy.essential", policy.Essential),
	)

	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var lastReason string
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "context done before attempt")
			return Fallback[T](fmt.Sprintf("cancelled: %v", err)), nil
		}

		value, err := producer(ctx)
		if err == nil {
			span.SetAttributes(attribute.Int("call.attempts", attempt+1))
			return Success(value), nil
		}

		var fallbackErr *FallbackError
		if errors.As(err, &fallbackErr) {
			span.AddEvent("service declared fallback")
			return Fallback[T](fallbackErr.Reason), nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !policy.retryable(statusErr.Status) {
			span.RecordError(err)
			if policy.Essential {
				span.SetStatus(codes.Error, "essential call failed hard")
				return Fallback[T](err.Error()), &ConfigurationError{
					Feature: policy.Feature,
					Reason:  statusErr.Error(),
				}
			}
			return Fallback[T](err.Error()), nil
		}

		// Transport failures and retryable statuses are treated alike.
		lastReason = err.Error()
		span.AddEvent("attempt failed")
		if attempt < policy.MaxAttempts-1 {
			sleep(ctx, policy.BaseDelay<<attempt)
		}
	}

	span.SetAttributes(attribute.Int("call.attempts", policy.MaxAttempts))
	return Fallback[T]("attempts exhausted: " + lastReason), nil
}
