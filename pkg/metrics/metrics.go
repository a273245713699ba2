// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package metrics defines the application's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// CyclesTotal counts completed account cycles by result
	// (ok, errored, disabled).
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splintermate_cycles_total",
			Help: "Total number of completed account cycles",
		},
		[]string{"account", "result"},
	)

	// BattlesTotal counts submitted battles by normalized outcome.
	BattlesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splintermate_battles_total",
			Help: "Total number of battles played",
		},
		[]string{"account", "outcome"},
	)

	// EnergyCurrent is the last energy capture rate reading per account.
	EnergyCurrent = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "splintermate_energy_current",
			Help: "Current energy capture rate reading (0-100)",
		},
		[]string{"account"},
	)

	// TeamSelectionFailures counts cycles skipped because no eligible
	// team could be formed.
	TeamSelectionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splintermate_team_selection_failures_total",
			Help: "Total number of cycles with no eligible team",
		},
		[]string{"account"},
	)
)

// Register adds all application collectors to the given registry.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		CyclesTotal,
		BattlesTotal,
		EnergyCurrent,
		TeamSelectionFailures,
	)
}
