// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import (
	"encoding/json"
	"fmt"
	"os"
)

// CardDetail is one entry of the card details file published with the
// game's card registry.
type CardDetail struct {
	ID    int       `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Type  string    `json:"type"` // "Summoner" or "Monster"
	Stats CardStats `json:"stats"`
}

// CardStats holds the raw combat stats used to derive a card's role and
// power rating.
type CardStats struct {
	Mana   int `json:"mana"`
	Attack int `json:"attack"` // melee
	Ranged int `json:"ranged"`
	Magic  int `json:"magic"`
	Health int `json:"health"`
	Speed  int `json:"speed"`
	Armor  int `json:"armor"`
}

var colorToSplinter = map[string]Splinter{
	"Red":   SplinterFire,
	"Blue":  SplinterWater,
	"Green": SplinterEarth,
	"White": SplinterLife,
	"Black": SplinterDeath,
	"Gold":  SplinterDragon,
	"Gray":  SplinterNeutral,
}

// Catalogue resolves card identifiers to full Card values. Loaded once
// at startup and shared read-only across all account cycles.
type Catalogue struct {
	byID map[int]Card
}

// NewCatalogue builds a catalogue from raw card details. Entries with an
// unknown color are skipped rather than failing the whole load.
func NewCatalogue(details []CardDetail) *Catalogue {
	byID := make(map[int]Card, len(details))
	for _, d := range details {
		splinter, ok := colorToSplinter[d.Color]
		if !ok {
			continue
		}
		byID[d.ID] = Card{
			ID:       d.ID,
			Name:     d.Name,
			Splinter: splinter,
			ManaCost: d.Stats.Mana,
			Role:     deriveRole(d),
			Summoner: d.Type == "Summoner",
			Power:    derivePower(d.Stats),
		}
	}
	return &Catalogue{byID: byID}
}

// LoadCatalogue reads a card details JSON file from disk.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card details file %s: %w", path, err)
	}

	var details []CardDetail
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("failed to parse card details file %s: %w", path, err)
	}

	return NewCatalogue(details), nil
}

// Lookup returns the card for a given identifier.
func (c *Catalogue) Lookup(id int) (Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Resolve maps a set of owned card identifiers to Card values, marking
// the ones present in delegated as borrowed. Identifiers missing from
// the catalogue are dropped.
func (c *Catalogue) Resolve(ids []int, delegated map[int]bool) []Card {
	cards := make([]Card, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		card, ok := c.byID[id]
		if !ok {
			continue
		}
		card.Delegated = delegated[id]
		cards = append(cards, card)
	}
	return cards
}

// Count returns the number of known cards.
func (c *Catalogue) Count() int {
	return len(c.byID)
}

func deriveRole(d CardDetail) Role {
	if d.Type == "Summoner" {
		return RoleSupport
	}
	s := d.Stats
	switch {
	case s.Magic > 0:
		return RoleMagic
	case s.Ranged > 0:
		return RoleRanged
	case s.Attack > 0 && s.Health >= 6:
		return RoleTank
	case s.Attack > 0:
		return RoleMelee
	default:
		return RoleSupport
	}
}

// derivePower is the scalar ranking heuristic: offense weighted double,
// armor counted half.
func derivePower(s CardStats) float64 {
	offense := s.Attack + s.Ranged + s.Magic
	return float64(2*offense+s.Health+s.Speed) + float64(s.Armor)/2
}
