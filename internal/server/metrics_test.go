// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/splintermate/splintermate/pkg/cycle"
)

type stubStatuses struct {
	statuses []cycle.Status
}

func (s *stubStatuses) Status() []cycle.Status { return s.statuses }

type stubHealth struct {
	healthy bool
}

func (s *stubHealth) IsHealthy(ctx context.Context) bool { return s.healthy }

func setupServer(t *testing.T, statuses StatusSource, health HealthSource) http.Handler {
	t.Helper()
	m := NewMetricsServer(8080, "/metrics", statuses, health)
	if err := m.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return m.server.Handler
}

func TestStatusEndpoint(t *testing.T) {
	statuses := &stubStatuses{statuses: []cycle.Status{
		{Account: "alice", State: cycle.StateWaiting, Battles: 3},
	}}
	handler := setupServer(t, statuses, &stubHealth{healthy: true})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode status body: %v", err)
	}
	if len(resp.Accounts) != 1 || resp.Accounts[0].Account != "alice" {
		t.Errorf("unexpected status payload: %+v", resp)
	}
	if resp.Accounts[0].Battles != 3 {
		t.Errorf("expected 3 battles, got %d", resp.Accounts[0].Battles)
	}
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		healthy  bool
		wantCode int
	}{
		{name: "healthy", healthy: true, wantCode: http.StatusOK},
		{name: "unhealthy", healthy: false, wantCode: http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := setupServer(t, &stubStatuses{}, &stubHealth{healthy: tc.healthy})

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, rec.Code)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := setupServer(t, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected metrics exposition output")
	}
}
