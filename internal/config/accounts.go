// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/splintermate/splintermate/pkg/cycle"
	"github.com/splintermate/splintermate/pkg/game"
)

// Policy holds the battling knobs an account can set. Every field is
// optional; unset fields fall back to the file's defaults block, then
// to the engine defaults.
type Policy struct {
	BattleIntervalMinutes *int `yaml:"battleIntervalMinutes,omitempty"`
	PausePollMinutes      *int `yaml:"pausePollMinutes,omitempty"`
	// ECRStopLimit pauses battling when energy drops below it. Zero
	// disables the energy gate for the account.
	ECRStopLimit      *float64 `yaml:"ecrStopLimit,omitempty"`
	ECRRecoverTo      *float64 `yaml:"ecrRecoverTo,omitempty"`
	FavouriteDeck     *string  `yaml:"favouriteDeck,omitempty"`
	SkipQuests        []string `yaml:"skipQuests,omitempty"`
	DelegatedPriority *bool    `yaml:"delegatedPriority,omitempty"`
	ClaimDailyReward  *bool    `yaml:"claimDailyReward,omitempty"`
	ClaimSeasonReward *bool    `yaml:"claimSeasonReward,omitempty"`
}

// Account is one battling account entry in the accounts file.
type Account struct {
	Name   string `yaml:"name"`
	Policy `yaml:",inline"`
}

// AccountsFile is the full accounts configuration.
type AccountsFile struct {
	// MaxConcurrent caps how many accounts battle at once. Zero means
	// all of them.
	MaxConcurrent int       `yaml:"maxConcurrent"`
	Defaults      Policy    `yaml:"defaults"`
	Accounts      []Account `yaml:"accounts"`
}

// LoadAccounts loads the accounts configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or
// ${VAR_NAME:default}.
func LoadAccounts(path string) (*AccountsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var file AccountsFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("failed to parse accounts YAML: %w", err)
	}

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("invalid accounts configuration: %w", err)
	}

	return &file, nil
}

// Validate checks the accounts file for common errors.
func (f *AccountsFile) Validate() error {
	if len(f.Accounts) == 0 {
		return fmt.Errorf("no accounts configured")
	}

	if f.MaxConcurrent < 0 {
		return fmt.Errorf("maxConcurrent must not be negative")
	}

	names := make(map[string]bool)
	for _, a := range f.Accounts {
		if a.Name == "" {
			return fmt.Errorf("account with empty name found")
		}
		if names[a.Name] {
			return fmt.Errorf("duplicate account name: %s", a.Name)
		}
		names[a.Name] = true

		if err := a.resolved(f.Defaults).validate(a.Name); err != nil {
			return err
		}
	}

	return nil
}

// CycleConfigs resolves every account against the defaults block into
// ready-to-run cycle configurations.
func (f *AccountsFile) CycleConfigs() []cycle.Config {
	configs := make([]cycle.Config, 0, len(f.Accounts))
	for _, a := range f.Accounts {
		configs = append(configs, a.resolved(f.Defaults).cycleConfig(a.Name))
	}
	return configs
}

// resolvedPolicy is a Policy with the defaults folded in.
type resolvedPolicy struct {
	battleInterval    time.Duration
	pausePoll         time.Duration
	ecrStopLimit      float64
	ecrStopSet        bool
	ecrRecoverTo      float64
	favouriteDeck     string
	skipQuests        []string
	delegatedPriority bool
	claimDailyReward  bool
	claimSeasonReward bool
}

func (a Account) resolved(defaults Policy) resolvedPolicy {
	var r resolvedPolicy

	if m := firstInt(a.BattleIntervalMinutes, defaults.BattleIntervalMinutes); m > 0 {
		r.battleInterval = time.Duration(m) * time.Minute
	}
	if m := firstInt(a.PausePollMinutes, defaults.PausePollMinutes); m > 0 {
		r.pausePoll = time.Duration(m) * time.Minute
	}
	if v := firstFloat(a.ECRStopLimit, defaults.ECRStopLimit); v != nil {
		r.ecrStopLimit = *v
		r.ecrStopSet = *v > 0
	}
	if v := firstFloat(a.ECRRecoverTo, defaults.ECRRecoverTo); v != nil {
		r.ecrRecoverTo = *v
	}
	if v := firstString(a.FavouriteDeck, defaults.FavouriteDeck); v != nil {
		r.favouriteDeck = *v
	}
	r.skipQuests = a.SkipQuests
	if r.skipQuests == nil {
		r.skipQuests = defaults.SkipQuests
	}
	r.delegatedPriority = firstBool(a.DelegatedPriority, defaults.DelegatedPriority)
	r.claimDailyReward = firstBool(a.ClaimDailyReward, defaults.ClaimDailyReward)
	r.claimSeasonReward = firstBool(a.ClaimSeasonReward, defaults.ClaimSeasonReward)

	return r
}

func (r resolvedPolicy) validate(account string) error {
	if r.ecrStopSet {
		if r.ecrStopLimit >= 100 {
			return fmt.Errorf("account %s: ecrStopLimit must be below 100", account)
		}
		recoverTo := r.ecrRecoverTo
		if recoverTo == 0 {
			recoverTo = cycle.DefaultECRRecoverTo
		}
		if recoverTo <= r.ecrStopLimit {
			return fmt.Errorf("account %s: ecrRecoverTo (%.1f) must be above ecrStopLimit (%.1f)",
				account, recoverTo, r.ecrStopLimit)
		}
	}
	if r.ecrRecoverTo < 0 || r.ecrRecoverTo > 100 {
		return fmt.Errorf("account %s: ecrRecoverTo must be within 0-100", account)
	}

	if r.favouriteDeck != "" && !game.ValidBattleSplinter(game.Splinter(r.favouriteDeck)) {
		return fmt.Errorf("account %s: unknown favouriteDeck %q", account, r.favouriteDeck)
	}

	for _, q := range r.skipQuests {
		if !validQuestType(q) {
			return fmt.Errorf("account %s: unknown skip quest type %q", account, q)
		}
	}

	return nil
}

func (r resolvedPolicy) cycleConfig(account string) cycle.Config {
	cfg := cycle.Config{
		Account:           account,
		BattleInterval:    r.battleInterval,
		PausePoll:         r.pausePoll,
		ECRRecoverTo:      r.ecrRecoverTo,
		SkipQuests:        r.skipQuests,
		DelegatedPriority: r.delegatedPriority,
		ClaimDailyReward:  r.claimDailyReward,
		ClaimSeasonReward: r.claimSeasonReward,
	}
	if r.ecrStopSet {
		limit := r.ecrStopLimit
		cfg.ECRStopLimit = &limit
	}
	if r.favouriteDeck != "" {
		deck := game.Splinter(r.favouriteDeck)
		cfg.FavouriteDeck = &deck
	}

	return cfg
}

func validQuestType(q string) bool {
	switch q {
	case "snipe", "sneak", "neutral":
		return true
	}
	return game.ValidBattleSplinter(game.Splinter(q))
}

func firstInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstFloat(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstString(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstBool(vals ...*bool) bool {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return false
}

// expandEnvVars expands environment variables in the format ${VAR} or
// ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
