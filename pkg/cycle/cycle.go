// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package cycle drives the per-account battle loop: energy gate, quest
// handling, team selection, battle submission and session recording,
// repeated on a fixed interval until the context is cancelled.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/splintermate/splintermate/pkg/battle"
	"github.com/splintermate/splintermate/pkg/client"
	"github.com/splintermate/splintermate/pkg/common"
	"github.com/splintermate/splintermate/pkg/ecr"
	"github.com/splintermate/splintermate/pkg/game"
	"github.com/splintermate/splintermate/pkg/metrics"
	"github.com/splintermate/splintermate/pkg/quest"
	"github.com/splintermate/splintermate/pkg/state"
	"github.com/splintermate/splintermate/pkg/team"
)

const (
	// DefaultBattleInterval is the pacing between battle attempts.
	DefaultBattleInterval = 30 * time.Minute
	// DefaultPausePoll is how often a paused account rechecks energy.
	DefaultPausePoll = 5 * time.Minute
	// DefaultECRRecoverTo is the energy level that resumes battling.
	DefaultECRRecoverTo = 99.0
	// DefaultMaxReadRetries bounds retries of transient read failures
	// within a single cycle.
	DefaultMaxReadRetries = 3
)

// Config carries one account's battling policy.
type Config struct {
	Account           string
	BattleInterval    time.Duration
	PausePoll         time.Duration
	ECRStopLimit      *float64 // nil disables the energy gate
	ECRRecoverTo      float64
	FavouriteDeck     *game.Splinter
	SkipQuests        []string
	DelegatedPriority bool
	ClaimDailyReward  bool
	ClaimSeasonReward bool
	MaxReadRetries    uint64
}

// Cycle runs the battle loop for a single account. It owns its client
// session and energy gate; only Status is safe to call concurrently.
type Cycle struct {
	cfg      Config
	client   client.Client
	store    state.Store
	gate     *ecr.Gate
	executor *battle.Executor

	// retryInterval overrides the backoff seed for reads, used by tests.
	retryInterval time.Duration

	mu     sync.Mutex
	status Status
}

// New creates a cycle with defaults applied for unset pacing fields.
func New(cfg Config, c client.Client, store state.Store) *Cycle {
	if cfg.BattleInterval <= 0 {
		cfg.BattleInterval = DefaultBattleInterval
	}
	if cfg.PausePoll <= 0 {
		cfg.PausePoll = DefaultPausePoll
	}
	if cfg.ECRRecoverTo <= 0 {
		cfg.ECRRecoverTo = DefaultECRRecoverTo
	}
	if cfg.MaxReadRetries == 0 {
		cfg.MaxReadRetries = DefaultMaxReadRetries
	}

	return &Cycle{
		cfg:      cfg,
		client:   c,
		store:    store,
		gate:     ecr.NewGate(cfg.ECRStopLimit, cfg.ECRRecoverTo),
		executor: battle.NewExecutor(c),
		status: Status{
			Account:   cfg.Account,
			State:     StateIdle,
			UpdatedAt: time.Now(),
		},
	}
}

// Account returns the account name this cycle battles for.
func (c *Cycle) Account() string {
	return c.cfg.Account
}

// Status returns a snapshot of the cycle's progress.
func (c *Cycle) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Run executes battle cycles until ctx is cancelled. It returns a
// non-nil error only for account-fatal conditions such as rejected
// credentials; transient failures wait out the battle interval and try
// again.
func (c *Cycle) Run(ctx context.Context) error {
	logger := log.WithField("account", c.cfg.Account)
	logger.Info("account cycle started")

	for {
		err := c.runOnce(ctx)
		switch {
		case ctx.Err() != nil:
			c.setState(StateIdle)
			logger.Info("account cycle stopped")
			return nil
		case err == nil:
			c.completeCycle("")
			metrics.CyclesTotal.WithLabelValues(c.cfg.Account, "ok").Inc()
		case game.IsAccountFatal(err):
			c.disable(err)
			metrics.CyclesTotal.WithLabelValues(c.cfg.Account, "disabled").Inc()
			logger.Errorf("account disabled: %v", err)
			return err
		default:
			c.completeCycle(err.Error())
			metrics.CyclesTotal.WithLabelValues(c.cfg.Account, "errored").Inc()
			logger.Errorf("cycle failed, retrying next interval: %v", err)
		}

		c.setState(StateWaiting)
		if !c.wait(ctx, c.cfg.BattleInterval) {
			c.setState(StateIdle)
			logger.Info("account cycle stopped")
			return nil
		}
	}
}

// runOnce performs a single pass through the cycle phases. A nil return
// covers both a played battle and a deliberately skipped one (paused
// gate resolved, no eligible team, rejected submission).
func (c *Cycle) runOnce(ctx context.Context) error {
	scope := common.ChildScope(ctx, "Cycle.runOnce")
	defer scope.Finish()
	scope.AddBaggage("account", c.cfg.Account)
	logger := scope.Log.WithField("account", c.cfg.Account)

	if err := c.resourcePhase(scope, logger); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	eval := c.questPhase(scope, logger)

	selected, err := c.selectionPhase(scope, logger, eval)
	if err != nil || selected == nil {
		return err
	}

	result, err := c.battlePhase(scope, logger, selected)
	if err != nil || result == nil {
		return err
	}

	c.recordingPhase(scope, logger, result)

	return nil
}

// resourcePhase reads energy and holds the cycle while the gate pauses,
// polling until energy recovers or the context is cancelled.
func (c *Cycle) resourcePhase(parent *common.Scope, logger *log.Entry) error {
	scope := parent.NewChildScope("Cycle.resourcePhase")
	defer scope.Finish()

	for {
		c.setState(StateCheckingResource)

		var energy game.EnergyState
		err := c.readWithRetry(scope.Ctx, "energy state", func() error {
			var readErr error
			energy, readErr = c.client.EnergyState(scope.Ctx, c.cfg.Account)
			return readErr
		})
		if err != nil {
			scope.TraceError(err)
			return err
		}
		metrics.EnergyCurrent.WithLabelValues(c.cfg.Account).Set(energy.Current)

		decision := c.gate.ShouldPause(energy)
		if !decision.Pause {
			logger.Debugf("energy gate open: %s", decision.Reason)
			return nil
		}

		c.setState(StatePaused)
		rate := energy.RegenPerHour
		if rate <= 0 {
			rate = ecr.DefaultRegenPerHour
		}
		recovery := ecr.RecoveryDuration(energy.Current, c.cfg.ECRRecoverTo, rate)
		logger.Infof("battling paused: %s, projected recovery in %s",
			decision.Reason, recovery.Round(time.Minute))
		scope.TraceEvent("paused on low energy")

		if !c.wait(scope.Ctx, c.cfg.PausePoll) {
			return scope.Ctx.Err()
		}
	}
}

// questPhase resolves the quest decision for this cycle, claiming
// completed rewards and replacing skipped quests where the client
// supports it. Quest trouble never fails the cycle.
func (c *Cycle) questPhase(parent *common.Scope, logger *log.Entry) quest.Evaluation {
	scope := parent.NewChildScope("Cycle.questPhase")
	defer scope.Finish()

	c.setState(StateCheckingQuest)

	if c.cfg.ClaimSeasonReward {
		if err := c.client.ClaimSeasonReward(scope.Ctx, c.cfg.Account); err != nil {
			if !errors.Is(err, game.ErrNotSupported) {
				logger.Warnf("season reward claim failed: %v", err)
			}
		} else {
			c.touchSeasonClaim(scope.Ctx, logger)
		}
	}

	q := c.readQuest(scope.Ctx, logger)
	eval := quest.Evaluate(q, c.cfg.SkipQuests, c.cfg.ClaimDailyReward)

	switch eval.Decision {
	case quest.DecisionClaim:
		if err := c.client.ClaimQuestReward(scope.Ctx, c.cfg.Account); err != nil {
			if !errors.Is(err, game.ErrNotSupported) {
				logger.Warnf("quest reward claim failed: %v", err)
			}
		} else {
			logger.Infof("quest reward claimed: %s", q.Name)
			scope.TraceEvent("quest reward claimed")
			c.touchQuestClaim(scope.Ctx, logger)
		}
		// re-read so a freshly assigned quest can still bias this cycle,
		// but never claim twice in one pass
		q = c.readQuest(scope.Ctx, logger)
		eval = quest.Evaluate(q, c.cfg.SkipQuests, false)
		if eval.Decision == quest.DecisionClaim {
			eval = quest.Evaluation{Decision: quest.DecisionNone}
		}

	case quest.DecisionSkip:
		logger.Infof("quest type %q on skip list, requesting replacement", q.Type)
		err := c.client.RequestNewQuest(scope.Ctx, c.cfg.Account)
		if err != nil {
			if !errors.Is(err, game.ErrNotSupported) {
				logger.Warnf("quest replacement failed: %v", err)
			}
			break
		}
		q = c.readQuest(scope.Ctx, logger)
		eval = quest.Evaluate(q, c.cfg.SkipQuests, false)
		if eval.Decision == quest.DecisionClaim {
			eval = quest.Evaluation{Decision: quest.DecisionNone}
		}
	}

	if eval.Decision == quest.DecisionPursue && eval.HasTarget {
		logger.Debugf("pursuing quest, biasing toward %s", eval.Target)
	}

	return eval
}

// selectionPhase reads the card pool and ruleset and picks a team. A
// nil team with nil error means this cycle deliberately sits out.
func (c *Cycle) selectionPhase(parent *common.Scope, logger *log.Entry, eval quest.Evaluation) (*game.Team, error) {
	scope := parent.NewChildScope("Cycle.selectionPhase")
	defer scope.Finish()

	c.setState(StateSelectingTeam)

	var pool []game.Card
	err := c.readWithRetry(scope.Ctx, "card pool", func() error {
		var readErr error
		pool, readErr = c.client.OwnedCards(scope.Ctx, c.cfg.Account)
		return readErr
	})
	if err != nil {
		scope.TraceError(err)
		return nil, err
	}

	var rs game.Ruleset
	err = c.readWithRetry(scope.Ctx, "ruleset", func() error {
		var readErr error
		rs, readErr = c.client.CurrentRuleset(scope.Ctx, c.cfg.Account)
		return readErr
	})
	if err != nil {
		scope.TraceError(err)
		return nil, err
	}

	prefs := team.Preferences{
		FavouriteDeck:     c.cfg.FavouriteDeck,
		DelegatedPriority: c.cfg.DelegatedPriority,
	}
	if eval.Decision == quest.DecisionPursue && eval.HasTarget {
		target := eval.Target
		prefs.QuestSplinter = &target
	}

	selected, err := team.Select(pool, rs, prefs)
	if errors.Is(err, game.ErrNoEligibleTeam) {
		metrics.TeamSelectionFailures.WithLabelValues(c.cfg.Account).Inc()
		logger.Warnf("no eligible team for mana cap %d, sitting this cycle out", rs.ManaCap)
		scope.TraceEvent("no eligible team")
		return nil, nil
	}
	if err != nil {
		scope.TraceError(err)
		return nil, err
	}

	logger.WithFields(log.Fields{
		"splinter": selected.Splinter,
		"monsters": selected.Size(),
		"mana":     selected.ManaCost(),
	}).Info("team selected")

	return selected, nil
}

// battlePhase submits the team. Rejections are logged and skipped; they
// usually mean the match window moved under us.
func (c *Cycle) battlePhase(parent *common.Scope, logger *log.Entry, selected *game.Team) (*game.BattleResult, error) {
	scope := parent.NewChildScope("Cycle.battlePhase")
	defer scope.Finish()

	c.setState(StateBattling)

	result, err := c.executor.Submit(scope.Ctx, c.cfg.Account, selected)
	var rejected *game.BattleRejectedError
	if errors.As(err, &rejected) {
		logger.Warnf("team rejected, sitting this cycle out: %v", rejected)
		scope.TraceError(err)
		return nil, nil
	}
	if err != nil {
		scope.TraceError(err)
		return nil, err
	}

	return result, nil
}

// recordingPhase persists the result. Store trouble is logged, never
// escalated; the battle is already played either way.
func (c *Cycle) recordingPhase(parent *common.Scope, logger *log.Entry, result *game.BattleResult) {
	scope := parent.NewChildScope("Cycle.recordingPhase")
	defer scope.Finish()

	c.setState(StateRecording)

	stats, err := c.store.SessionStats(scope.Ctx, c.cfg.Account)
	if err != nil {
		logger.Warnf("session stats read failed, recording from zero: %v", err)
		stats = &state.SessionStats{}
	}
	stats.Record(result)
	if err := c.store.UpdateSessionStats(scope.Ctx, c.cfg.Account, stats); err != nil {
		logger.Warnf("session stats write failed: %v", err)
	}

	metrics.BattlesTotal.WithLabelValues(c.cfg.Account, string(result.Outcome)).Inc()

	c.mu.Lock()
	c.status.Battles++
	c.status.LastOutcome = result.Outcome
	c.status.UpdatedAt = time.Now()
	c.mu.Unlock()

	logger.WithFields(log.Fields{
		"outcome": result.Outcome,
		"reward":  result.RewardDEC,
	}).Info("battle recorded")
}

// readQuest fetches the active quest, tolerating every failure mode: a
// missing or unreadable quest simply yields no quest bias.
func (c *Cycle) readQuest(ctx context.Context, logger *log.Entry) *game.Quest {
	var q *game.Quest
	err := c.readWithRetry(ctx, "active quest", func() error {
		var readErr error
		q, readErr = c.client.ActiveQuest(ctx, c.cfg.Account)
		return readErr
	})
	if errors.Is(err, game.ErrNoQuest) {
		return nil
	}
	if err != nil {
		logger.Warnf("quest read failed, battling without quest bias: %v", err)
		return nil
	}

	return q
}

// readWithRetry retries transient read failures with exponential
// backoff, bounded by MaxReadRetries. Exhausted transient failures are
// escalated to game.ErrResourceUnavailable so the caller waits out the
// battle interval instead of hammering the API.
func (c *Cycle) readWithRetry(ctx context.Context, what string, read func() error) error {
	seed := backoff.NewExponentialBackOff()
	if c.retryInterval > 0 {
		seed.InitialInterval = c.retryInterval
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(seed, c.cfg.MaxReadRetries), ctx)

	err := backoff.Retry(func() error {
		readErr := read()
		if readErr == nil {
			return nil
		}
		if game.IsAccountFatal(readErr) || errors.Is(readErr, game.ErrNotSupported) ||
			errors.Is(readErr, game.ErrNoQuest) {
			return backoff.Permanent(readErr)
		}
		return readErr
	}, policy)
	if err != nil && game.IsRetryable(err) && !errors.Is(err, game.ErrResourceUnavailable) {
		return fmt.Errorf("%w: reading %s: %v", game.ErrResourceUnavailable, what, err)
	}

	return err
}

// wait sleeps for d or until ctx is cancelled, reporting whether the
// full duration elapsed.
func (c *Cycle) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Cycle) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.State = s
	c.status.UpdatedAt = time.Now()
}

// completeCycle counts a finished pass and records its error, if any.
func (c *Cycle) completeCycle(lastError string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Cycles++
	c.status.LastError = lastError
	if lastError != "" {
		c.status.State = StateErrored
		c.status.Retries++
	} else {
		c.status.Retries = 0
	}
	c.status.UpdatedAt = time.Now()
}

// disable marks the cycle permanently stopped on an account-fatal error.
func (c *Cycle) disable(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Cycles++
	c.status.State = StateErrored
	c.status.LastError = err.Error()
	c.status.Disabled = true
	c.status.UpdatedAt = time.Now()
}

// touchQuestClaim stamps the session stats with the claim time,
// best-effort.
func (c *Cycle) touchQuestClaim(ctx context.Context, logger *log.Entry) {
	stats, err := c.store.SessionStats(ctx, c.cfg.Account)
	if err != nil {
		logger.Debugf("session stats read failed: %v", err)
		return
	}
	stats.LastQuestClaimAt = time.Now()
	if err := c.store.UpdateSessionStats(ctx, c.cfg.Account, stats); err != nil {
		logger.Debugf("session stats write failed: %v", err)
	}
}

func (c *Cycle) touchSeasonClaim(ctx context.Context, logger *log.Entry) {
	stats, err := c.store.SessionStats(ctx, c.cfg.Account)
	if err != nil {
		logger.Debugf("session stats read failed: %v", err)
		return
	}
	stats.LastSeasonClaim = time.Now()
	if err := c.store.UpdateSessionStats(ctx, c.cfg.Account, stats); err != nil {
		logger.Debugf("session stats write failed: %v", err)
	}
}
