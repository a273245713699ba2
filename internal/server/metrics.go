// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/splintermate/splintermate/pkg/cycle"
	"github.com/splintermate/splintermate/pkg/metrics"
)

// StatusSource reports the live per-account cycle snapshots.
type StatusSource interface {
	Status() []cycle.Status
}

// HealthSource reports whether the stats backend is reachable.
type HealthSource interface {
	IsHealthy(ctx context.Context) bool
}

// MetricsServer serves Prometheus metrics plus the operational status
// and health endpoints on one HTTP port.
type MetricsServer struct {
	server   *http.Server
	port     int
	endpoint string
	statuses StatusSource
	health   HealthSource
}

// NewMetricsServer creates a new metrics server instance. statuses and
// health may be nil; the corresponding endpoints are then omitted.
func NewMetricsServer(port int, endpoint string, statuses StatusSource, health HealthSource) *MetricsServer {
	return &MetricsServer{
		port:     port,
		endpoint: endpoint,
		statuses: statuses,
		health:   health,
	}
}

// Setup configures the HTTP mux and registers all collectors.
func (m *MetricsServer) Setup() error {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.Register(registry)

	mux := http.NewServeMux()
	mux.Handle(m.endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if m.statuses != nil {
		mux.HandleFunc("/status", m.handleStatus)
	}
	if m.health != nil {
		mux.HandleFunc("/healthz", m.handleHealth)
	}

	m.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", m.port),
		Handler: mux,
	}

	return nil
}

// Start begins serving on the configured port.
func (m *MetricsServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("metrics server listening on port %d%s", m.port, m.endpoint)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("metrics server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down metrics server...")
	if err := m.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("metrics server stopped")
	return nil
}

// statusResponse is the JSON payload of the /status endpoint.
type statusResponse struct {
	Time     time.Time      `json:"time"`
	Accounts []cycle.Status `json:"accounts"`
}

func (m *MetricsServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Time:     time.Now(),
		Accounts: m.statuses.Status(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.Errorf("failed to encode status response: %v", err)
	}
}

func (m *MetricsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !m.health.IsHealthy(r.Context()) {
		http.Error(w, "stats backend unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
