// Package retrier bounds the invoke/extract/gate pipeline in a retry loop.
package retrier

import (
	"context"
	"time"

	"aldalil-gateway/internal/common/logger"
)

// Policy configures one retry loop. Delay and Backoff shape the pause between
// attempts; the reference behavior is an immediate retry (zero delay), kept
// as the default but made explicit here so a struggling upstream can be
// protected without a code change.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     float64
}

// Result carries an accepted value tagged with the 1-based attempt that
// produced it.
type Result struct {
	Value   string
	Attempt int
}

// AttemptFunc performs one invoke→extract cycle and returns a candidate.
type AttemptFunc func(ctx context.Context) (string, error)

// GateFunc accepts or rejects a candidate; nil means accepted.
type GateFunc func(candidate string) error

// Run drives the loop: invoke, gate, and either return the accepted value or
// retry until the attempt budget is spent. The returned error is the last
// rejection or invocation failure.
func (p Policy) Run(ctx context.Context, log logger.Logger, attempt AttemptFunc, gate GateFunc) (Result, error) {
	delay := p.Delay
	var lastErr error

	for i := 1; i <= p.MaxAttempts; i++ {
		if i > 1 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Result{}, ctx.Err()
			}
			if p.Backoff > 1 {
				delay = time.Duration(float64(delay) * p.Backoff)
			}
		}

		candidate, err := attempt(ctx)
		if err != nil {
			lastErr = err
			log.Warn("attempt failed", map[string]interface{}{
				"attempt":     i,
				"maxAttempts": p.MaxAttempts,
				"error":       err.Error(),
			})
			continue
		}

		if err := gate(candidate); err != nil {
			lastErr = err
			log.Warn("attempt rejected by quality gate", map[string]interface{}{
				"attempt":     i,
				"maxAttempts": p.MaxAttempts,
				"reason":      err.Error(),
			})
			continue
		}

		return Result{Value: candidate, Attempt: i}, nil
	}

	return Result{}, lastErr
}
