// Package retry runs platform calls under a bounded, fixed-delay retry policy
// that only retries failures classified as transient.
package retry

import (
	"context"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/Belphemur/ChannelSubs/internal/apperrors"
	"github.com/Belphemur/ChannelSubs/internal/config"
	"github.com/Belphemur/ChannelSubs/internal/metrics"
)

// Policy bounds how often and how fast an operation is retried.
type Policy struct {
	MaxAttempts int           // Total attempts, including the first one
	Delay       time.Duration // Fixed pause between attempts
}

// PolicyFromConfig builds the play info retry policy from the configuration.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		MaxAttempts: cfg.Retry.Amount,
		Delay:       cfg.RetryDelay(),
	}
}

// Do runs op until it succeeds, returns a non-retryable error, the context is
// cancelled or MaxAttempts is reached. When every attempt failed with a
// retryable error the result is *apperrors.ErrRetriesExhausted.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	logger := config.GetLogger()

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := 0
	policy := retrypolicy.NewBuilder[T]().
		HandleIf(func(_ T, err error) bool {
			return ctx.Err() == nil && apperrors.IsRetryable(err)
		}).
		WithMaxAttempts(maxAttempts).
		WithDelay(p.Delay).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[T]) {
			metrics.RetriesTotal.Inc()
			logger.Debug().
				Err(e.LastError()).
				Int("attempt", e.Attempts()).
				Int("max_attempts", maxAttempts).
				Msg("Retrying after transient failure")
		}).
		Build()

	result, err := failsafe.With(policy).WithContext(ctx).Get(func() (T, error) {
		attempts++
		return op(ctx)
	})
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if apperrors.IsRetryable(err) && attempts >= maxAttempts {
		return result, &apperrors.ErrRetriesExhausted{Attempts: attempts, Last: err}
	}
	return result, err
}
