package game

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceUnavailable indicates the game client could not serve an
	// energy, quest, card, or ruleset read even after retries.
	ErrResourceUnavailable = errors.New("game resource unavailable")

	// ErrNoEligibleTeam indicates no card subset satisfies the current
	// ruleset's mana cap and the minimum team size.
	ErrNoEligibleTeam = errors.New("no eligible team for current ruleset")

	// ErrTransientNetwork indicates a network-level failure that is safe
	// to retry.
	ErrTransientNetwork = errors.New("transient network failure")

	// ErrAuthentication indicates the account's credentials were rejected.
	// Fatal for that account only.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotSupported indicates the configured game client does not
	// implement an optional operation. Callers treat this as a no-op.
	ErrNotSupported = errors.New("operation not supported by game client")

	// ErrNoQuest indicates no quest is currently assigned, e.g. during the
	// daily reset window.
	ErrNoQuest = errors.New("no active quest")
)

// BattleRejectedError is a non-retryable submission rejection: the game
// refused the team (invalid lineup, ruleset mismatch). Resubmitting the
// same team within the cycle would fail again, so the cycle skips
// battling instead.
type BattleRejectedError struct {
	Reason string
}

func (e *BattleRejectedError) Error() string {
	return fmt.Sprintf("battle submission rejected: %s", e.Reason)
}

// IsRetryable reports whether err may succeed on a later attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientNetwork) || errors.Is(err, ErrResourceUnavailable)
}

// IsAccountFatal reports whether err disables the account for the rest
// of the run.
func IsAccountFatal(err error) bool {
	return errors.Is(err, ErrAuthentication)
}
