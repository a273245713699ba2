// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package quest decides what to do about the account's daily objective.
// Quest pursuit is an optimization, not a correctness requirement: a
// missing or unreadable quest never fails the cycle.
package quest

import "github.com/splintermate/splintermate/pkg/game"

// Decision is the tracker's verdict for the current cycle.
type Decision string

const (
	// DecisionNone means no quest is assigned, e.g. during the daily
	// reset window. Battles proceed without bias.
	DecisionNone Decision = "none"
	// DecisionPursue means the team selector should bias toward the
	// quest's splinter when the ruleset allows it.
	DecisionPursue Decision = "pursue"
	// DecisionSkip means the quest type is on the account's skip list.
	// Battles proceed without quest bias.
	DecisionSkip Decision = "skip"
	// DecisionClaim means the quest is complete and its reward should be
	// claimed before battling.
	DecisionClaim Decision = "claim"
)

// Evaluation is the full tracker output: the decision plus the splinter
// to bias toward, when there is one. Special quest categories (snipe,
// sneak, neutral) pursue without a target splinter.
type Evaluation struct {
	Decision Decision
	Target   game.Splinter
	// HasTarget is false for special quest categories and for every
	// decision other than pursue.
	HasTarget bool
}

// Evaluate determines the quest decision for one cycle. A nil quest
// yields none.
func Evaluate(q *game.Quest, skipList []string, claimDaily bool) Evaluation {
	if q == nil {
		return Evaluation{Decision: DecisionNone}
	}

	if q.Done() && !q.Claimed && claimDaily {
		return Evaluation{Decision: DecisionClaim}
	}

	for _, skip := range skipList {
		if q.Type == skip {
			return Evaluation{Decision: DecisionSkip}
		}
	}

	eval := Evaluation{Decision: DecisionPursue}
	if target, ok := q.TargetSplinter(); ok {
		eval.Target = target
		eval.HasTarget = true
	}
	return eval
}
