// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package team builds a legal, budget-respecting lineup from the owned
// card pool. The selector is a deterministic greedy heuristic, not a
// combat simulator: the game's own matchmaking decides win probability,
// so cheap and reproducible beats clever here.
package team

import (
	"sort"

	"github.com/splintermate/splintermate/pkg/game"
)

// Preferences carries the per-cycle selection inputs that are not part
// of the ruleset.
type Preferences struct {
	// QuestSplinter biases splinter choice when the quest tracker decided
	// to pursue a splinter quest.
	QuestSplinter *game.Splinter
	// FavouriteDeck is the account's configured fallback splinter.
	FavouriteDeck *game.Splinter
	// DelegatedPriority ranks borrowed cards above equally rated owned
	// ones, spending time-boxed delegated capacity first.
	DelegatedPriority bool
}

// Select builds a team for the given ruleset, or fails with
// game.ErrNoEligibleTeam when no summoner-led lineup of at least
// game.MinMonsters monsters fits under the mana cap. It never returns a
// partially filled team.
//
// Identical inputs always produce an identical team: every ordering
// ends in a stable card-identifier tie-break.
func Select(pool []game.Card, rs game.Ruleset, prefs Preferences) (*game.Team, error) {
	eligible := make([]game.Card, 0, len(pool))
	for _, c := range pool {
		if rs.CardAllowed(c) {
			eligible = append(eligible, c)
		}
	}

	for _, target := range targetOrder(eligible, rs, prefs) {
		summoner, ok := pickSummoner(eligible, target, prefs)
		if !ok {
			continue
		}

		monsters := fillMonsters(eligible, target, rs, prefs)
		if len(monsters) < game.MinMonsters {
			continue
		}

		return &game.Team{
			Summoner: summoner,
			Monsters: monsters,
			Splinter: target,
		}, nil
	}

	return nil, game.ErrNoEligibleTeam
}

// targetOrder returns candidate splinters in preference order: the
// pursued quest splinter, then the favourite deck, then the remaining
// allowed splinters by total eligible power rating.
func targetOrder(eligible []game.Card, rs game.Ruleset, prefs Preferences) []game.Splinter {
	var order []game.Splinter
	seen := make(map[game.Splinter]bool)

	add := func(s game.Splinter) {
		if !seen[s] && rs.SplinterAllowed(s) {
			seen[s] = true
			order = append(order, s)
		}
	}

	if prefs.QuestSplinter != nil {
		add(*prefs.QuestSplinter)
	}
	if prefs.FavouriteDeck != nil {
		add(*prefs.FavouriteDeck)
	}

	totals := make(map[game.Splinter]float64)
	for _, c := range eligible {
		if c.Splinter != game.SplinterNeutral {
			totals[c.Splinter] += c.Power
		}
	}

	rest := make([]game.Splinter, 0, len(totals))
	for _, s := range game.BattleSplinters() {
		if !seen[s] && rs.SplinterAllowed(s) {
			rest = append(rest, s)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if totals[rest[i]] != totals[rest[j]] {
			return totals[rest[i]] > totals[rest[j]]
		}
		return rest[i] < rest[j]
	})

	return append(order, rest...)
}

// pickSummoner returns the highest-rated eligible summoner of the
// target splinter. Summoners contribute zero mana by game rule, so the
// cap never constrains this choice.
func pickSummoner(eligible []game.Card, target game.Splinter, prefs Preferences) (game.Card, bool) {
	var best game.Card
	found := false
	for _, c := range eligible {
		if !c.Summoner || c.Splinter != target {
			continue
		}
		if !found || rankAbove(c, best, target, prefs.DelegatedPriority) {
			best = c
			found = true
		}
	}
	return best, found
}

// fillMonsters greedily fills support slots in ranked order, skipping
// (not stopping on) any candidate that would push the running mana
// total past the cap. Before the greedy pass it reserves one front-line
// slot (tank, or melee when the pool has no affordable tank) and one
// ranged-or-magic slot so the lineup is not all of one role.
func fillMonsters(eligible []game.Card, target game.Splinter, rs game.Ruleset, prefs Preferences) []game.Card {
	candidates := make([]game.Card, 0, len(eligible))
	for _, c := range eligible {
		if c.Summoner {
			continue
		}
		if c.Splinter == target || c.Splinter == game.SplinterNeutral {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return rankAbove(candidates[i], candidates[j], target, prefs.DelegatedPriority)
	})

	var picked []game.Card
	used := make(map[int]bool)
	mana := 0

	pickFirst := func(match func(game.Card) bool) {
		for _, c := range candidates {
			if used[c.ID] || !match(c) {
				continue
			}
			if mana+c.ManaCost > rs.ManaCap {
				continue
			}
			used[c.ID] = true
			mana += c.ManaCost
			picked = append(picked, c)
			return
		}
	}

	// Role diversity first: one front-line (tank preferred, melee when
	// no tank fits the budget), one ranged or magic.
	before := len(picked)
	pickFirst(func(c game.Card) bool { return c.Role == game.RoleTank })
	if len(picked) == before {
		pickFirst(func(c game.Card) bool { return c.Role == game.RoleMelee })
	}
	pickFirst(func(c game.Card) bool { return c.Role == game.RoleRanged || c.Role == game.RoleMagic })

	for _, c := range candidates {
		if len(picked) == game.MaxMonsters {
			break
		}
		if used[c.ID] || mana+c.ManaCost > rs.ManaCap {
			continue
		}
		used[c.ID] = true
		mana += c.ManaCost
		picked = append(picked, c)
	}

	return picked
}

// rankAbove is the single candidate ordering used everywhere in the
// selector: target-splinter cards ahead of neutrals, then power rating
// descending, then delegated cards when that priority is enabled, then
// card identifier ascending.
func rankAbove(a, b game.Card, target game.Splinter, delegatedPriority bool) bool {
	ga, gb := 0, 0
	if a.Splinter != target {
		ga = 1
	}
	if b.Splinter != target {
		gb = 1
	}
	if ga != gb {
		return ga < gb
	}
	if a.Power != b.Power {
		return a.Power > b.Power
	}
	if delegatedPriority && a.Delegated != b.Delegated {
		return a.Delegated
	}
	return a.ID < b.ID
}
