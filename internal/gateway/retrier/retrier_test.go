package retrier

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gwerrors "aldalil-gateway/internal/common/errors"
	"aldalil-gateway/internal/common/logger"
)

func TestRun_AcceptsOnThirdAttempt(t *testing.T) {
	policy := Policy{MaxAttempts: 3}

	invocations := 0
	attempt := func(ctx context.Context) (string, error) {
		invocations++
		if invocations < 3 {
			return "؟؟؟", nil
		}
		return "مرحبا", nil
	}
	gate := func(candidate string) error {
		if candidate == "؟؟؟" {
			return gwerrors.NewQualityRejectedError("placeholder glyphs")
		}
		return nil
	}

	result, err := policy.Run(context.Background(), logger.NewTestLogger(t), attempt, gate)
	require.NoError(t, err)
	assert.Equal(t, "مرحبا", result.Value)
	assert.Equal(t, 3, result.Attempt)
	assert.Equal(t, 3, invocations)
}

func TestRun_ExhaustsAttempts(t *testing.T) {
	policy := Policy{MaxAttempts: 3}

	invocations := 0
	attempt := func(ctx context.Context) (string, error) {
		invocations++
		return "bad", nil
	}
	gate := func(string) error {
		return gwerrors.NewQualityRejectedError("always rejected")
	}

	_, err := policy.Run(context.Background(), logger.NewTestLogger(t), attempt, gate)
	require.Error(t, err)
	assert.Equal(t, gwerrors.ErrCodeQualityRejected, gwerrors.CodeOf(err))
	assert.Equal(t, 3, invocations)
}

func TestRun_InvocationErrorsCountAgainstBudget(t *testing.T) {
	policy := Policy{MaxAttempts: 2}

	invocations := 0
	attempt := func(ctx context.Context) (string, error) {
		invocations++
		return "", fmt.Errorf("upstream down")
	}

	_, err := policy.Run(context.Background(), logger.NewTestLogger(t), attempt, func(string) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Equal(t, 2, invocations)
}

func TestRun_FirstAttemptHasNoDelay(t *testing.T) {
	policy := Policy{MaxAttempts: 1, Delay: time.Hour}

	start := time.Now()
	result, err := policy.Run(context.Background(), logger.NewTestLogger(t), func(ctx context.Context) (string, error) {
		return "ok", nil
	}, func(string) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempt)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRun_CancelledContextStopsRetryDelay(t *testing.T) {
	policy := Policy{MaxAttempts: 3, Delay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	attempt := func(ctx context.Context) (string, error) {
		cancel()
		return "bad", nil
	}
	gate := func(string) error { return gwerrors.NewQualityRejectedError("no") }

	_, err := policy.Run(ctx, logger.NewTestLogger(t), attempt, gate)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
