// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package battle submits teams and normalizes match results.
package battle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/splintermate/splintermate/pkg/client"
	"github.com/splintermate/splintermate/pkg/game"
)

// DefaultMaxRetries bounds transient submission retries within one cycle.
const DefaultMaxRetries = 3

// Executor submits one match per call and normalizes whatever result
// shape the game client returns.
type Executor struct {
	client     client.Client
	maxRetries uint64
	// initialInterval overrides the backoff start for tests.
	initialInterval time.Duration
}

// NewExecutor creates an executor with the default retry budget.
func NewExecutor(c client.Client) *Executor {
	return &Executor{client: c, maxRetries: DefaultMaxRetries}
}

// WithMaxRetries overrides the transient retry budget.
func (e *Executor) WithMaxRetries(n uint64) *Executor {
	e.maxRetries = n
	return e
}

// Submit plays one match with the given team. Transient failures are
// retried with exponential backoff up to the configured cap; rejections
// and authentication failures are returned immediately, since
// resubmitting a refused team cannot succeed within the same cycle.
func (e *Executor) Submit(ctx context.Context, account string, team *game.Team) (*game.BattleResult, error) {
	var raw *client.RawBattleResult

	b := backoff.NewExponentialBackOff()
	if e.initialInterval > 0 {
		b.InitialInterval = e.initialInterval
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, e.maxRetries), ctx)

	err := backoff.Retry(func() error {
		result, err := e.client.SubmitTeam(ctx, account, team)
		if err != nil {
			var rejected *game.BattleRejectedError
			if errors.As(err, &rejected) || game.IsAccountFatal(err) || errors.Is(err, game.ErrNotSupported) {
				return backoff.Permanent(err)
			}
			logrus.WithField("account", account).Warnf("battle submission failed: %v, retrying", err)
			return err
		}
		raw = result
		return nil
	}, policy)
	if err != nil {
		if game.IsRetryable(err) {
			// Retry budget exhausted on transient failures.
			return nil, fmt.Errorf("%w: %v", game.ErrResourceUnavailable, err)
		}
		return nil, err
	}

	return normalize(raw), nil
}

// normalize maps a raw client result onto the engine's result record.
// Unknown outcome strings are preserved as unknown rather than guessed.
func normalize(raw *client.RawBattleResult) *game.BattleResult {
	result := &game.BattleResult{
		RewardDEC: raw.RewardDEC,
		Timestamp: time.Now().UTC(),
	}
	if raw.Timestamp > 0 {
		result.Timestamp = time.Unix(raw.Timestamp, 0).UTC()
	}

	switch raw.Outcome {
	case "win", "won", "victory":
		result.Outcome = game.OutcomeWin
	case "loss", "lost", "defeat":
		result.Outcome = game.OutcomeLoss
	case "draw", "tie":
		result.Outcome = game.OutcomeDraw
	default:
		result.Outcome = game.OutcomeUnknown
	}
	return result
}
