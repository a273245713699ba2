// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cycle

import (
	"time"

	"github.com/splintermate/splintermate/pkg/game"
)

// State identifies the phase an account cycle is currently in.
type State string

const (
	StateIdle             State = "idle"
	StateCheckingResource State = "checking_resource"
	StatePaused           State = "paused"
	StateCheckingQuest    State = "checking_quest"
	StateSelectingTeam    State = "selecting_team"
	StateBattling         State = "battling"
	StateRecording        State = "recording"
	StateWaiting          State = "waiting"
	StateErrored          State = "errored"
)

// Status is a point-in-time snapshot of a running cycle, safe to
// serve from the status endpoint while the cycle keeps running.
type Status struct {
	Account     string       `json:"account"`
	State       State        `json:"state"`
	Cycles      int          `json:"cycles"`
	Battles     int          `json:"battles"`
	LastOutcome game.Outcome `json:"lastOutcome,omitempty"`
	LastError   string       `json:"lastError,omitempty"`
	// Retries counts consecutive errored cycles; reset on success.
	Retries     int          `json:"retries"`
	Disabled    bool         `json:"disabled"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
