// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"time"

	"github.com/splintermate/splintermate/pkg/game"
)

// SessionStats is the per-account running tally kept across restarts so
// pacing and claim bookkeeping resume where they left off. Decision
// logic never reads past battle outcomes; the tally exists for pacing
// and reporting only.
type SessionStats struct {
	Wins    int `json:"wins"`
	Losses  int `json:"losses"`
	Draws   int `json:"draws"`
	Unknown int `json:"unknown"`

	RewardDEC float64 `json:"rewardDec"`

	LastBattleAt     time.Time `json:"lastBattleAt"`
	LastQuestClaimAt time.Time `json:"lastQuestClaimAt"`
	LastSeasonClaim  time.Time `json:"lastSeasonClaimAt"`
}

// Record folds one battle result into the tally.
func (s *SessionStats) Record(result *game.BattleResult) {
	switch result.Outcome {
	case game.OutcomeWin:
		s.Wins++
	case game.OutcomeLoss:
		s.Losses++
	case game.OutcomeDraw:
		s.Draws++
	default:
		s.Unknown++
	}
	s.RewardDEC += result.RewardDEC
	s.LastBattleAt = result.Timestamp
}

// Battles is the total number of recorded matches.
func (s *SessionStats) Battles() int {
	return s.Wins + s.Losses + s.Draws + s.Unknown
}
