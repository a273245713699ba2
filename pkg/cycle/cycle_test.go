// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/splintermate/splintermate/pkg/client"
	"github.com/splintermate/splintermate/pkg/client/mock"
	"github.com/splintermate/splintermate/pkg/game"
	"github.com/splintermate/splintermate/pkg/state"
)

// memStore is an in-memory state.Store for cycle tests.
type memStore struct {
	mu    sync.Mutex
	stats map[string]state.SessionStats
}

func newMemStore() *memStore {
	return &memStore{stats: map[string]state.SessionStats{}}
}

func (s *memStore) SessionStats(_ context.Context, account string) (*state.SessionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats[account]
	return &stats, nil
}

func (s *memStore) UpdateSessionStats(_ context.Context, account string, stats *state.SessionStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[account] = *stats
	return nil
}

func fireDeck() []game.Card {
	return []game.Card{
		{ID: 1, Name: "Malric", Splinter: game.SplinterFire, ManaCost: 3, Summoner: true, Power: 10},
		{ID: 2, Name: "Cerberus", Splinter: game.SplinterFire, ManaCost: 4, Role: game.RoleTank, Power: 14},
		{ID: 3, Name: "Fire Elemental", Splinter: game.SplinterFire, ManaCost: 5, Role: game.RoleRanged, Power: 12},
	}
}

func fireRuleset() game.Ruleset {
	return game.Ruleset{
		ManaCap:          20,
		AllowedSplinters: []game.Splinter{game.SplinterFire},
	}
}

func testConfig() Config {
	return Config{
		Account:        "alice",
		BattleInterval: 10 * time.Millisecond,
		PausePoll:      time.Millisecond,
		MaxReadRetries: 1,
	}
}

func TestRunOnce_PlaysAndRecords(t *testing.T) {
	c := mock.NewClient()
	c.Cards = fireDeck()
	c.Ruleset = fireRuleset()
	c.Result = &client.RawBattleResult{Outcome: "win", RewardDEC: 1.5}
	store := newMemStore()

	cycle := New(testConfig(), c, store)
	cycle.retryInterval = time.Millisecond

	if err := cycle.runOnce(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.SubmitCount != 1 {
		t.Fatalf("expected 1 submission, got %d", c.SubmitCount)
	}

	stats, _ := store.SessionStats(context.Background(), "alice")
	if stats.Wins != 1 {
		t.Errorf("expected 1 recorded win, got %+v", stats)
	}
	if stats.RewardDEC != 1.5 {
		t.Errorf("expected reward 1.5, got %v", stats.RewardDEC)
	}

	status := cycle.Status()
	if status.Battles != 1 {
		t.Errorf("expected 1 battle in status, got %d", status.Battles)
	}
	if status.LastOutcome != game.OutcomeWin {
		t.Errorf("expected last outcome win, got %q", status.LastOutcome)
	}
}

func TestRunOnce_PausesUntilEnergyRecovers(t *testing.T) {
	c := mock.NewClient()
	c.Cards = fireDeck()
	c.Ruleset = fireRuleset()

	readings := []float64{40, 60, 99}
	var reads int
	c.EnergyStateFunc = func(ctx context.Context, account string) (game.EnergyState, error) {
		r := readings[len(readings)-1]
		if reads < len(readings) {
			r = readings[reads]
		}
		reads++
		return game.EnergyState{Current: r, Max: 100, RegenPerHour: 1.04}, nil
	}

	stop := 50.0
	cfg := testConfig()
	cfg.ECRStopLimit = &stop
	cfg.ECRRecoverTo = 99

	cycle := New(cfg, c, newMemStore())
	cycle.retryInterval = time.Millisecond

	if err := cycle.runOnce(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// 40 pauses, 60 stays paused below the recovery target, 99 resumes
	if reads != 3 {
		t.Errorf("expected 3 energy reads, got %d", reads)
	}
	if c.SubmitCount != 1 {
		t.Errorf("expected battle after recovery, got %d submissions", c.SubmitCount)
	}
}

func TestRunOnce_NoEligibleTeamSitsOut(t *testing.T) {
	c := mock.NewClient()
	c.Ruleset = fireRuleset() // empty card pool

	cycle := New(testConfig(), c, newMemStore())
	cycle.retryInterval = time.Millisecond

	if err := cycle.runOnce(context.Background()); err != nil {
		t.Fatalf("expected a skipped cycle, got %v", err)
	}
	if c.SubmitCount != 0 {
		t.Errorf("expected no submission without an eligible team, got %d", c.SubmitCount)
	}
}

func TestRunOnce_TransientReadEscalates(t *testing.T) {
	c := mock.NewClient()
	c.EnergyStateFunc = func(ctx context.Context, account string) (game.EnergyState, error) {
		return game.EnergyState{}, game.ErrTransientNetwork
	}

	cycle := New(testConfig(), c, newMemStore())
	cycle.retryInterval = time.Millisecond

	err := cycle.runOnce(context.Background())
	if !errors.Is(err, game.ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
	if c.SubmitCount != 0 {
		t.Errorf("expected no submission, got %d", c.SubmitCount)
	}
}

func TestRun_AccountFatalDisables(t *testing.T) {
	c := mock.NewClient()
	c.EnergyStateFunc = func(ctx context.Context, account string) (game.EnergyState, error) {
		return game.EnergyState{}, game.ErrAuthentication
	}

	cycle := New(testConfig(), c, newMemStore())
	cycle.retryInterval = time.Millisecond

	err := cycle.Run(context.Background())
	if !errors.Is(err, game.ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}

	status := cycle.Status()
	if !status.Disabled {
		t.Errorf("expected cycle disabled, status %+v", status)
	}
	if status.State != StateErrored {
		t.Errorf("expected errored state, got %q", status.State)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	c := mock.NewClient()
	c.Cards = fireDeck()
	c.Ruleset = fireRuleset()

	cycle := New(testConfig(), c, newMemStore())
	cycle.retryInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cycle.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for cycle.Status().Battles == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the first battle")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cycle did not stop on cancellation")
	}

	if s := cycle.Status(); s.State != StateIdle {
		t.Errorf("expected idle state after stop, got %q", s.State)
	}
}

func TestRunOnce_ClaimsCompletedQuest(t *testing.T) {
	c := mock.NewClient()
	c.Cards = fireDeck()
	c.Ruleset = fireRuleset()
	c.Quest = &game.Quest{Name: "Stir the Volcano", Type: "fire", Completed: 5, Target: 5}

	var claims int
	c.ClaimQuestRewardFunc = func(ctx context.Context, account string) error {
		claims++
		c.Quest = &game.Quest{Name: "Stir the Volcano", Type: "fire", Completed: 0, Target: 5}
		return nil
	}

	cfg := testConfig()
	cfg.ClaimDailyReward = true
	store := newMemStore()

	cycle := New(cfg, c, store)
	cycle.retryInterval = time.Millisecond

	if err := cycle.runOnce(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims != 1 {
		t.Errorf("expected 1 claim, got %d", claims)
	}
	if c.SubmitCount != 1 {
		t.Errorf("expected battle after claim, got %d submissions", c.SubmitCount)
	}

	stats, _ := store.SessionStats(context.Background(), "alice")
	if stats.LastQuestClaimAt.IsZero() {
		t.Errorf("expected quest claim timestamp, got %+v", stats)
	}
}

func TestRunOnce_SkippedQuestRequestsReplacement(t *testing.T) {
	c := mock.NewClient()
	c.Cards = fireDeck()
	c.Ruleset = fireRuleset()
	c.Quest = &game.Quest{Name: "Defend the Borders", Type: "life", Completed: 0, Target: 5}

	var replacements int
	c.RequestNewQuestFunc = func(ctx context.Context, account string) error {
		replacements++
		c.Quest = &game.Quest{Name: "Stir the Volcano", Type: "fire", Completed: 0, Target: 5}
		return nil
	}

	cfg := testConfig()
	cfg.SkipQuests = []string{"life", "snipe", "neutral"}

	cycle := New(cfg, c, newMemStore())
	cycle.retryInterval = time.Millisecond

	if err := cycle.runOnce(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if replacements != 1 {
		t.Errorf("expected 1 replacement request, got %d", replacements)
	}
	if c.SubmitCount != 1 {
		t.Errorf("expected battle after replacement, got %d submissions", c.SubmitCount)
	}
}

func TestRunOnce_UnsupportedClaimsAreNoOps(t *testing.T) {
	c := mock.NewClient()
	c.Cards = fireDeck()
	c.Ruleset = fireRuleset()
	c.ClaimSeasonRewardFunc = func(ctx context.Context, account string) error {
		return game.ErrNotSupported
	}

	cfg := testConfig()
	cfg.ClaimSeasonReward = true

	cycle := New(cfg, c, newMemStore())
	cycle.retryInterval = time.Millisecond

	if err := cycle.runOnce(context.Background()); err != nil {
		t.Fatalf("expected unsupported claim to be a no-op, got %v", err)
	}
	if c.SubmitCount != 1 {
		t.Errorf("expected battle to proceed, got %d submissions", c.SubmitCount)
	}
}
