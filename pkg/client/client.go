// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package client defines the game client boundary: everything the
// decision engine needs from the game, with the browser automation and
// protocol details hidden behind it.
package client

import (
	"context"

	"github.com/splintermate/splintermate/pkg/game"
)

// RawBattleResult is the result shape returned by client
// implementations before normalization by the battle executor.
type RawBattleResult struct {
	Outcome   string  `json:"outcome"`
	RewardDEC float64 `json:"reward_dec"`
	Timestamp int64   `json:"timestamp"` // unix seconds; zero means "now"
}

// Client is the game boundary consumed by the core. One client session
// is exclusively owned per account; implementations must not share
// login state across accounts.
//
// Optional operations (reward claims, quest replacement) return
// game.ErrNotSupported when the implementation cannot perform them;
// callers treat that as a no-op.
type Client interface {
	// EnergyState reads the account's current energy capture rate.
	EnergyState(ctx context.Context, account string) (game.EnergyState, error)

	// ActiveQuest reads the account's daily quest. Returns
	// game.ErrNoQuest when none is assigned.
	ActiveQuest(ctx context.Context, account string) (*game.Quest, error)

	// ClaimQuestReward claims the completed daily quest reward.
	ClaimQuestReward(ctx context.Context, account string) error

	// ClaimSeasonReward claims pending season-end rewards.
	ClaimSeasonReward(ctx context.Context, account string) error

	// RequestNewQuest asks the game to replace the current quest.
	RequestNewQuest(ctx context.Context, account string) error

	// OwnedCards reads the playable card pool, delegated cards included.
	OwnedCards(ctx context.Context, account string) ([]game.Card, error)

	// CurrentRuleset reads the constraints for the upcoming match.
	CurrentRuleset(ctx context.Context, account string) (game.Ruleset, error)

	// SubmitTeam plays exactly one match with the given team on success.
	SubmitTeam(ctx context.Context, account string, team *game.Team) (*RawBattleResult, error)
}

// questTypes maps quest names as published by the game API to objective
// categories. Unlisted quests battle without bias.
var questTypes = map[string]string{
	"defend":                "life",
	"pirate":                "water",
	"lyanna":                "earth",
	"stir":                  "fire",
	"rising":                "death",
	"gloridax":              "dragon",
	"High Priority Targets": "snipe",
	"Stealth Mission":       "sneak",
	"Stubborn Mercenaries":  "neutral",
}

// QuestType resolves a quest name to its objective category.
func QuestType(name string) string {
	if t, ok := questTypes[name]; ok {
		return t
	}
	return "unknown"
}
