// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/splintermate/splintermate/pkg/game"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// HTTPConfig configures the HTTP game client.
type HTTPConfig struct {
	// BaseURL is the primary public game API host.
	BaseURL string
	// FallbackURL is tried when the primary host fails.
	FallbackURL string
	// BridgeURL points at the battle automation sidecar owning the
	// account's logged-in session. When empty, ruleset reads, battle
	// submission, reward claims and quest replacement return
	// game.ErrNotSupported.
	BridgeURL string
	Timeout   time.Duration
}

// HTTP is the reference Client implementation over the game's public
// REST API plus an optional automation sidecar for session-bound
// operations.
type HTTP struct {
	cfg       HTTPConfig
	catalogue *game.Catalogue
	client    *http.Client
}

// NewHTTP creates an HTTP game client backed by the given card
// catalogue.
func NewHTTP(cfg HTTPConfig, catalogue *game.Catalogue) *HTTP {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTP{
		cfg:       cfg,
		catalogue: catalogue,
		client:    &http.Client{Timeout: timeout},
	}
}

var _ Client = (*HTTP)(nil)

// playerDetails is the subset of the player details payload the engine
// reads. capture_rate is published on a 0-10000 scale.
type playerDetails struct {
	CaptureRate float64 `json:"capture_rate"`
}

// EnergyState reads the account's energy capture rate from the public
// API, falling back to the secondary host when the primary fails.
func (h *HTTP) EnergyState(ctx context.Context, account string) (game.EnergyState, error) {
	var details playerDetails
	if err := h.getWithFallback(ctx, "/players/details?name="+account, &details); err != nil {
		return game.EnergyState{}, err
	}

	return game.EnergyState{
		Current:      details.CaptureRate / 100,
		Max:          100,
		RegenPerHour: 1.04,
	}, nil
}

type questEntry struct {
	Name           string `json:"name"`
	TotalItems     int    `json:"total_items"`
	CompletedItems int    `json:"completed_items"`
	ClaimTrxID     string `json:"claim_trx_id"`
}

// ActiveQuest reads the account's daily quest.
func (h *HTTP) ActiveQuest(ctx context.Context, account string) (*game.Quest, error) {
	var quests []questEntry
	if err := h.getWithFallback(ctx, "/players/quests?username="+account, &quests); err != nil {
		return nil, err
	}
	if len(quests) == 0 {
		return nil, game.ErrNoQuest
	}

	q := quests[0]
	return &game.Quest{
		Name:      q.Name,
		Type:      QuestType(q.Name),
		Completed: q.CompletedItems,
		Target:    q.TotalItems,
		Claimed:   q.ClaimTrxID != "",
	}, nil
}

// collectionEntry is one card instance of the account's collection.
type collectionEntry struct {
	CardDetailID        int    `json:"card_detail_id"`
	Player              string `json:"player"`
	DelegatedTo         string `json:"delegated_to"`
	MarketListingStatus *int   `json:"market_listing_status"`
	UnlockDate          string `json:"unlock_date"`
	LastUsedPlayer      string `json:"last_used_player"`
	LastUsedDate        string `json:"last_used_date"`
	Edition             int    `json:"edition"`
}

type collectionResponse struct {
	Cards []collectionEntry `json:"cards"`
}

// OwnedCards reads the playable card pool: the account's collection
// filtered for playability, the basic starter set merged in, and
// delegated cards marked as borrowed.
func (h *HTTP) OwnedCards(ctx context.Context, account string) ([]game.Card, error) {
	var resp collectionResponse
	if err := h.getWithFallback(ctx, "/cards/collection/"+account, &resp); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(resp.Cards)+len(basicCardIDs))
	delegated := make(map[int]bool)
	for _, e := range resp.Cards {
		if !playable(account, e) {
			continue
		}
		ids = append(ids, e.CardDetailID)
		if rented(account, e) {
			delegated[e.CardDetailID] = true
		}
	}
	ids = append(ids, basicCardIDs...)

	cards := h.catalogue.Resolve(ids, delegated)
	logrus.WithFields(logrus.Fields{"account": account, "cards": len(cards)}).
		Debug("resolved playable card pool")
	return cards, nil
}

// playable applies the game's playability rules: not delegated away,
// not listed on the market, not locked, rental lock expired, and not a
// gladiator-edition card (unplayable in ranked).
func playable(account string, e collectionEntry) bool {
	if e.DelegatedTo != "" && e.DelegatedTo != account {
		return false
	}
	if e.MarketListingStatus != nil && e.DelegatedTo != account {
		return false
	}
	if e.UnlockDate != "" {
		return false
	}
	if e.LastUsedPlayer != "" && e.LastUsedPlayer != account && !rentalLockExpired(e.LastUsedDate) {
		return false
	}
	const gladiatorEdition = 6
	return e.Edition != gladiatorEdition
}

// rented reports whether the card is delegated to the account by
// another player.
func rented(account string, e collectionEntry) bool {
	return e.DelegatedTo == account && e.Player != account
}

// rentalLockExpired reports whether more than a day has passed since
// another player fielded the card. Unparseable dates count as expired.
func rentalLockExpired(lastUsed string) bool {
	if lastUsed == "" {
		return true
	}
	used, err := time.Parse(time.RFC3339, lastUsed)
	if err != nil {
		return true
	}
	return time.Since(used) > 24*time.Hour
}

type rulesetResponse struct {
	ManaCap   int      `json:"mana_cap"`
	Splinters []string `json:"splinters"`
	Modifiers []string `json:"modifiers"`
}

// CurrentRuleset reads the upcoming match constraints from the
// automation sidecar.
func (h *HTTP) CurrentRuleset(ctx context.Context, account string) (game.Ruleset, error) {
	if h.cfg.BridgeURL == "" {
		return game.Ruleset{}, fmt.Errorf("ruleset read: %w", game.ErrNotSupported)
	}

	var resp rulesetResponse
	if err := h.getJSON(ctx, h.cfg.BridgeURL, "/accounts/"+account+"/ruleset", &resp); err != nil {
		return game.Ruleset{}, err
	}

	rs := game.Ruleset{ManaCap: resp.ManaCap}
	for _, s := range resp.Splinters {
		rs.AllowedSplinters = append(rs.AllowedSplinters, game.Splinter(s))
	}
	for _, m := range resp.Modifiers {
		rs.Modifiers = append(rs.Modifiers, game.Modifier(m))
	}
	return rs, nil
}

type submitRequest struct {
	Summoner int   `json:"summoner"`
	Monsters []int `json:"monsters"`
}

// SubmitTeam submits the team through the automation sidecar. Exactly
// one match is played per successful call.
func (h *HTTP) SubmitTeam(ctx context.Context, account string, team *game.Team) (*RawBattleResult, error) {
	if h.cfg.BridgeURL == "" {
		return nil, fmt.Errorf("battle submission: %w", game.ErrNotSupported)
	}

	monsters := make([]int, 0, len(team.Monsters))
	for _, m := range team.Monsters {
		monsters = append(monsters, m.ID)
	}
	body, err := json.Marshal(submitRequest{Summoner: team.Summoner.ID, Monsters: monsters})
	if err != nil {
		return nil, err
	}

	var result RawBattleResult
	if err := h.postJSON(ctx, h.cfg.BridgeURL, "/accounts/"+account+"/battle", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ClaimQuestReward claims the completed daily quest through the
// automation sidecar.
func (h *HTTP) ClaimQuestReward(ctx context.Context, account string) error {
	return h.bridgePost(ctx, account, "/claims/daily")
}

// ClaimSeasonReward claims pending season rewards through the
// automation sidecar.
func (h *HTTP) ClaimSeasonReward(ctx context.Context, account string) error {
	return h.bridgePost(ctx, account, "/claims/season")
}

// RequestNewQuest asks the game for a replacement quest through the
// automation sidecar.
func (h *HTTP) RequestNewQuest(ctx context.Context, account string) error {
	return h.bridgePost(ctx, account, "/quests/new")
}

func (h *HTTP) bridgePost(ctx context.Context, account, path string) error {
	if h.cfg.BridgeURL == "" {
		return fmt.Errorf("%s: %w", path, game.ErrNotSupported)
	}
	return h.postJSON(ctx, h.cfg.BridgeURL, "/accounts/"+account+path, nil, nil)
}

// getWithFallback queries the primary API host, retrying once against
// the fallback host on failure.
func (h *HTTP) getWithFallback(ctx context.Context, path string, out interface{}) error {
	err := h.getJSON(ctx, h.cfg.BaseURL, path, out)
	if err == nil || h.cfg.FallbackURL == "" {
		return err
	}

	logrus.WithField("path", path).Warnf("primary API failed: %v, trying fallback host", err)
	if fbErr := h.getJSON(ctx, h.cfg.FallbackURL, path, out); fbErr != nil {
		return fmt.Errorf("both API hosts failed: %v; fallback: %w", err, fbErr)
	}
	return nil
}

func (h *HTTP) getJSON(ctx context.Context, base, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return err
	}
	return h.do(req, out)
}

func (h *HTTP) postJSON(ctx context.Context, base, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return h.do(req, out)
}

func (h *HTTP) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", game.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", game.ErrTransientNetwork, err)
	}

	if err := classifyStatus(req, resp.StatusCode, data); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// classifyStatus maps HTTP status codes onto the engine's error
// taxonomy: auth failures are account-fatal, server-side and
// rate-limit failures are transient, and client-side rejections on
// battle submission are permanent.
func classifyStatus(req *http.Request, status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d from %s", game.ErrAuthentication, status, req.URL.Path)
	case status >= 500 || status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d from %s", game.ErrTransientNetwork, status, req.URL.Path)
	case req.Method == http.MethodPost:
		return &game.BattleRejectedError{
			Reason: fmt.Sprintf("status %d from %s: %s", status, req.URL.Path, truncate(body, 200)),
		}
	default:
		return fmt.Errorf("unexpected status %d from %s", status, req.URL.Path)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
