package mock

import (
	"context"

	"github.com/splintermate/splintermate/pkg/client"
	"github.com/splintermate/splintermate/pkg/game"
)

// Client is a mock implementation of client.Client for testing.
// Function fields override individual operations; the simple fields
// cover the common fixed-response scenarios.
type Client struct {
	EnergyStateFunc       func(ctx context.Context, account string) (game.EnergyState, error)
	ActiveQuestFunc       func(ctx context.Context, account string) (*game.Quest, error)
	ClaimQuestRewardFunc  func(ctx context.Context, account string) error
	ClaimSeasonRewardFunc func(ctx context.Context, account string) error
	RequestNewQuestFunc   func(ctx context.Context, account string) error
	OwnedCardsFunc        func(ctx context.Context, account string) ([]game.Card, error)
	CurrentRulesetFunc    func(ctx context.Context, account string) (game.Ruleset, error)
	SubmitTeamFunc        func(ctx context.Context, account string, team *game.Team) (*client.RawBattleResult, error)

	Energy  game.EnergyState
	Quest   *game.Quest
	Cards   []game.Card
	Ruleset game.Ruleset
	Result  *client.RawBattleResult
	Err     error

	// SubmitCount tracks how many times SubmitTeam was invoked.
	SubmitCount int
}

var _ client.Client = (*Client)(nil)

// NewClient creates a mock with a healthy default: full energy, no
// quest, an empty pool and a draw result.
func NewClient() *Client {
	return &Client{
		Energy: game.EnergyState{Current: 100, Max: 100, RegenPerHour: 1.04},
		Result: &client.RawBattleResult{Outcome: "win"},
	}
}

func (m *Client) EnergyState(ctx context.Context, account string) (game.EnergyState, error) {
	if m.EnergyStateFunc != nil {
		return m.EnergyStateFunc(ctx, account)
	}
	if m.Err != nil {
		return game.EnergyState{}, m.Err
	}
	return m.Energy, nil
}

func (m *Client) ActiveQuest(ctx context.Context, account string) (*game.Quest, error) {
	if m.ActiveQuestFunc != nil {
		return m.ActiveQuestFunc(ctx, account)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Quest == nil {
		return nil, game.ErrNoQuest
	}
	return m.Quest, nil
}

func (m *Client) ClaimQuestReward(ctx context.Context, account string) error {
	if m.ClaimQuestRewardFunc != nil {
		return m.ClaimQuestRewardFunc(ctx, account)
	}
	return m.Err
}

func (m *Client) ClaimSeasonReward(ctx context.Context, account string) error {
	if m.ClaimSeasonRewardFunc != nil {
		return m.ClaimSeasonRewardFunc(ctx, account)
	}
	return m.Err
}

func (m *Client) RequestNewQuest(ctx context.Context, account string) error {
	if m.RequestNewQuestFunc != nil {
		return m.RequestNewQuestFunc(ctx, account)
	}
	return m.Err
}

func (m *Client) OwnedCards(ctx context.Context, account string) ([]game.Card, error) {
	if m.OwnedCardsFunc != nil {
		return m.OwnedCardsFunc(ctx, account)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Cards, nil
}

func (m *Client) CurrentRuleset(ctx context.Context, account string) (game.Ruleset, error) {
	if m.CurrentRulesetFunc != nil {
		return m.CurrentRulesetFunc(ctx, account)
	}
	if m.Err != nil {
		return game.Ruleset{}, m.Err
	}
	return m.Ruleset, nil
}

func (m *Client) SubmitTeam(ctx context.Context, account string, team *game.Team) (*client.RawBattleResult, error) {
	m.SubmitCount++
	if m.SubmitTeamFunc != nil {
		return m.SubmitTeamFunc(ctx, account, team)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
