// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package ecr gates battling on the account's energy capture rate.
//
// Energy regenerates slowly, so the gate pauses battling when the
// reading drops below a configured stop limit and resumes only after it
// recovers to a higher ceiling. The hysteresis band between the two
// thresholds prevents oscillating between pause and resume every cycle
// when the reading hovers near the stop limit.
package ecr

import (
	"fmt"
	"time"

	"github.com/splintermate/splintermate/pkg/game"
)

// DefaultRegenPerHour is the game's energy recovery rate in percentage
// points per hour.
const DefaultRegenPerHour = 1.04

// Decision is the outcome of a single gate check.
type Decision struct {
	Pause  bool
	Reason string
}

// Gate holds the pause state for one account. Not safe for concurrent
// use; each account cycle owns its own gate.
type Gate struct {
	stopLimit *float64
	recoverTo float64
	paused    bool
}

// NewGate creates a gate. A nil stopLimit disables pausing entirely.
func NewGate(stopLimit *float64, recoverTo float64) *Gate {
	return &Gate{stopLimit: stopLimit, recoverTo: recoverTo}
}

// Paused reports whether the gate is currently holding battles.
func (g *Gate) Paused() bool {
	return g.paused
}

// ShouldPause evaluates the current energy reading against the
// configured thresholds. Once paused, the gate stays paused until the
// reading reaches the recover-to ceiling, even if it has risen back
// above the stop limit.
func (g *Gate) ShouldPause(e game.EnergyState) Decision {
	if g.stopLimit == nil {
		return Decision{Pause: false, Reason: "energy gate disabled"}
	}

	if g.paused {
		if e.Current >= g.recoverTo {
			g.paused = false
			return Decision{
				Pause:  false,
				Reason: fmt.Sprintf("energy %.1f%% recovered to %.1f%%", e.Current, g.recoverTo),
			}
		}
		return Decision{
			Pause:  true,
			Reason: fmt.Sprintf("energy %.1f%% still below recovery target %.1f%%", e.Current, g.recoverTo),
		}
	}

	if e.Current < *g.stopLimit {
		g.paused = true
		return Decision{
			Pause:  true,
			Reason: fmt.Sprintf("energy %.1f%% below stop limit %.1f%%", e.Current, *g.stopLimit),
		}
	}

	return Decision{Pause: false, Reason: fmt.Sprintf("energy %.1f%% above stop limit", e.Current)}
}

// RecoveryDuration estimates how long the account needs to regenerate
// from current to target at ratePerHour. Zero when already recovered or
// when the rate is not positive.
func RecoveryDuration(current, target, ratePerHour float64) time.Duration {
	if ratePerHour <= 0 || current >= target {
		return 0
	}
	hours := (target - current) / ratePerHour
	return time.Duration(hours * float64(time.Hour))
}
