// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package quest

import (
	"testing"

	"github.com/splintermate/splintermate/pkg/game"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		quest      *game.Quest
		skipList   []string
		claimDaily bool
		want       Decision
		wantTarget game.Splinter
		hasTarget  bool
	}{
		{
			name: "no quest assigned",
			want: DecisionNone,
		},
		{
			name:       "completed unclaimed quest with claiming enabled",
			quest:      &game.Quest{Type: "fire", Completed: 5, Target: 5},
			claimDaily: true,
			want:       DecisionClaim,
		},
		{
			name:       "completed quest already claimed",
			quest:      &game.Quest{Type: "fire", Completed: 5, Target: 5, Claimed: true},
			claimDaily: true,
			want:       DecisionPursue,
			wantTarget: game.SplinterFire,
			hasTarget:  true,
		},
		{
			name:  "completed quest with claiming disabled",
			quest: &game.Quest{Type: "water", Completed: 5, Target: 5},
			want:  DecisionPursue, wantTarget: game.SplinterWater, hasTarget: true,
		},
		{
			name:     "quest type on skip list",
			quest:    &game.Quest{Type: "life", Completed: 1, Target: 5},
			skipList: []string{"life", "snipe", "neutral"},
			want:     DecisionSkip,
		},
		{
			name:     "skip list checked before pursue",
			quest:    &game.Quest{Type: "snipe", Completed: 0, Target: 5},
			skipList: []string{"life", "snipe", "neutral"},
			want:     DecisionSkip,
		},
		{
			name:       "splinter quest pursued with target",
			quest:      &game.Quest{Type: "dragon", Completed: 2, Target: 5},
			want:       DecisionPursue,
			wantTarget: game.SplinterDragon,
			hasTarget:  true,
		},
		{
			name:  "special quest pursued without target",
			quest: &game.Quest{Type: "sneak", Completed: 2, Target: 5},
			want:  DecisionPursue,
		},
		{
			name:  "neutral quest pursued without target",
			quest: &game.Quest{Type: "neutral", Completed: 0, Target: 5},
			want:  DecisionPursue,
		},
		{
			name:       "claim takes precedence over skip list",
			quest:      &game.Quest{Type: "life", Completed: 5, Target: 5},
			skipList:   []string{"life"},
			claimDaily: true,
			want:       DecisionClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := Evaluate(tt.quest, tt.skipList, tt.claimDaily)

			if eval.Decision != tt.want {
				t.Errorf("Evaluate() decision = %s, expected %s", eval.Decision, tt.want)
			}
			if eval.HasTarget != tt.hasTarget {
				t.Errorf("Evaluate() hasTarget = %v, expected %v", eval.HasTarget, tt.hasTarget)
			}
			if tt.hasTarget && eval.Target != tt.wantTarget {
				t.Errorf("Evaluate() target = %s, expected %s", eval.Target, tt.wantTarget)
			}
		})
	}
}
