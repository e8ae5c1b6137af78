package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marops-sim/internal/config"
	"marops-sim/internal/sim"
	"marops-sim/internal/telemetry"
)

func newTestServer(t *testing.T) (*Server, *sim.Simulator) {
	t.Helper()
	cfg := &config.SimulationConfig{
		Zones:  []config.Zone{{Name: "zone-1", CenterX: 0, CenterY: 0, RadiusM: 20000}},
		Fleets: []config.Fleet{{Name: "fleet-1", Class: telemetry.ClassPatrol, Count: 1, Zone: "zone-1", SpeedMS: 8}},
	}
	simulator, err := sim.NewSimulator("test-fleet", cfg, nil, nil, time.Second)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return NewServer(simulator), simulator
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/fleet-health", nil)
	w := httptest.NewRecorder()
	server.handleHealth(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.StatusCode)
	}
	var data []sim.FleetHealth
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(data) != 1 || data[0].Total != 1 {
		t.Errorf("unexpected health data: %+v", data)
	}
}

func TestHandleTelemetry(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/telemetry", nil)
	w := httptest.NewRecorder()
	server.handleTelemetry(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.StatusCode)
	}
	var rows []telemetry.VesselRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 telemetry row, got %d", len(rows))
	}
}

func TestHandleMostDangerous(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/most-dangerous", nil)
	w := httptest.NewRecorder()
	server.handleMostDangerous(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.StatusCode)
	}
	var data map[string]telemetry.EncounterRow
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("decode error: %v", err)
	}
}

func TestHandleSpawnTraffic(t *testing.T) {
	server, simulator := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/spawn-traffic?class=tanker&count=4", nil)
	w := httptest.NewRecorder()
	server.handleSpawnTraffic(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status NoContent, got %v", resp.StatusCode)
	}
	if got := len(simulator.TelemetrySnapshot()); got != 5 {
		t.Errorf("expected 5 vessels after spawn, got %d", got)
	}
}

func TestHandleIndexRenders(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	server.handleIndex(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.StatusCode)
	}
	if got := w.Body.String(); got == "" {
		t.Error("expected rendered HTML body")
	}
}
