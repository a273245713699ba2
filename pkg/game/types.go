// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import "time"

// Splinter is one of the game's elemental factions. Neutral cards can
// join a team of any splinter.
type Splinter string

const (
	SplinterFire    Splinter = "fire"
	SplinterWater   Splinter = "water"
	SplinterEarth   Splinter = "earth"
	SplinterLife    Splinter = "life"
	SplinterDeath   Splinter = "death"
	SplinterDragon  Splinter = "dragon"
	SplinterNeutral Splinter = "neutral"
)

// BattleSplinters lists the splinters a team can be led by, in a fixed
// order so that callers iterating over them stay deterministic.
func BattleSplinters() []Splinter {
	return []Splinter{
		SplinterFire,
		SplinterWater,
		SplinterEarth,
		SplinterLife,
		SplinterDeath,
		SplinterDragon,
	}
}

// ValidBattleSplinter reports whether s is a splinter a team can be led by.
func ValidBattleSplinter(s Splinter) bool {
	for _, b := range BattleSplinters() {
		if s == b {
			return true
		}
	}
	return false
}

// Role is the combat role a monster fills on a team.
type Role string

const (
	RoleTank    Role = "tank"
	RoleMelee   Role = "melee"
	RoleRanged  Role = "ranged"
	RoleMagic   Role = "magic"
	RoleSupport Role = "support"
)

// Card is a single card usable in battle. Immutable within a cycle; the
// owned pool is refreshed once per cycle from the game client.
type Card struct {
	ID       int
	Name     string
	Splinter Splinter
	ManaCost int
	Role     Role
	Summoner bool
	Power    float64
	// Delegated marks cards that are borrowed or rented rather than
	// owned outright. Delegated capacity is often time-boxed, so the
	// selector can be configured to prefer spending it first.
	Delegated bool
}

// Team size limits set by game rules: one summoner plus at most six
// monsters, and at least one monster for a viable submission.
const (
	MaxMonsters = 6
	MinMonsters = 1
)

// Team is an ordered battle lineup: a summoner plus supporting monsters.
// Constructed fresh every cycle and never mutated after submission.
type Team struct {
	Summoner Card
	Monsters []Card
	Splinter Splinter
}

// ManaCost is the total mana of the lineup. The summoner contributes
// zero mana by game rule.
func (t *Team) ManaCost() int {
	total := 0
	for _, m := range t.Monsters {
		total += m.ManaCost
	}
	return total
}

// Size is the number of cards fielded, summoner included.
func (t *Team) Size() int {
	return 1 + len(t.Monsters)
}

// CardIDs returns the lineup in submission order, summoner first.
func (t *Team) CardIDs() []int {
	ids := make([]int, 0, t.Size())
	ids = append(ids, t.Summoner.ID)
	for _, m := range t.Monsters {
		ids = append(ids, m.ID)
	}
	return ids
}

// Quest is the account's active daily objective.
type Quest struct {
	Name string
	// Type is the objective category: one of the battle splinters, or a
	// special category ("snipe", "sneak", "neutral") that never biases
	// team selection.
	Type      string
	Completed int
	Target    int
	Claimed   bool
}

// Done reports whether the quest target has been reached.
func (q *Quest) Done() bool {
	return q.Target > 0 && q.Completed >= q.Target
}

// TargetSplinter returns the splinter the quest rewards playing, when
// the quest category is one of the battle splinters.
func (q *Quest) TargetSplinter() (Splinter, bool) {
	s := Splinter(q.Type)
	if ValidBattleSplinter(s) {
		return s, true
	}
	return "", false
}

// EnergyState is a reading of the account's energy capture rate on a
// 0-100 scale. Refreshed each cycle; never persisted by the core.
type EnergyState struct {
	Current      float64
	Max          float64
	RegenPerHour float64
}

// Modifier is a special battle rule the selector must respect as a hard
// constraint, never a scored preference.
type Modifier string

const (
	ModifierNoMelee     Modifier = "no_melee"
	ModifierNoRanged    Modifier = "no_ranged"
	ModifierNoMagic     Modifier = "no_magic"
	ModifierTakingSides Modifier = "taking_sides" // neutral cards banned
)

// Ruleset is the per-match constraint set dictated by the game's
// matchmaker for the upcoming battle.
type Ruleset struct {
	ManaCap          int
	AllowedSplinters []Splinter
	Modifiers        []Modifier
}

// HasModifier reports whether m is active for this match.
func (r Ruleset) HasModifier(m Modifier) bool {
	for _, x := range r.Modifiers {
		if x == m {
			return true
		}
	}
	return false
}

// SplinterAllowed reports whether a team may be led by s in this match.
func (r Ruleset) SplinterAllowed(s Splinter) bool {
	for _, x := range r.AllowedSplinters {
		if x == s {
			return true
		}
	}
	return false
}

// CardAllowed reports whether c may be fielded under this ruleset. The
// card must belong to an allowed splinter (or be neutral, unless
// neutrals are banned) and must not be excluded by a role modifier.
func (r Ruleset) CardAllowed(c Card) bool {
	if c.Splinter == SplinterNeutral {
		if r.HasModifier(ModifierTakingSides) {
			return false
		}
	} else if !r.SplinterAllowed(c.Splinter) {
		return false
	}
	if c.Summoner {
		return true
	}
	switch c.Role {
	case RoleMelee, RoleTank:
		if r.HasModifier(ModifierNoMelee) {
			return false
		}
	case RoleRanged:
		if r.HasModifier(ModifierNoRanged) {
			return false
		}
	case RoleMagic:
		if r.HasModifier(ModifierNoMagic) {
			return false
		}
	}
	return true
}

// Outcome is the normalized result of a single match.
type Outcome string

const (
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
	OutcomeDraw    Outcome = "draw"
	OutcomeUnknown Outcome = "unknown"
)

// BattleResult is the normalized, append-only record of one played
// match, consumed by the cycle for pacing and logging only.
type BattleResult struct {
	Outcome   Outcome
	RewardDEC float64
	Timestamp time.Time
}
