package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"iotsec-sim/internal/engine"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	allow := engine.NewAllowList("10.1.1.2")
	eng := engine.New("run-admin", allow, nil, nil, nil, nil)
	if _, err := eng.OnPacketEvent(engine.PacketEvent{Sender: "10.1.1.2", SizeBytes: 1024, At: 2 * time.Second}); err != nil {
		t.Fatalf("OnPacketEvent: %v", err)
	}
	if _, err := eng.OnPacketEvent(engine.PacketEvent{Sender: "10.1.1.3", SizeBytes: 512, At: 2500 * time.Millisecond}); err != nil {
		t.Fatalf("OnPacketEvent: %v", err)
	}
	if err := eng.OnEnergySample(engine.EnergySample{Device: "iot-001", RemainingJ: 0.85, At: 3 * time.Second}); err != nil {
		t.Fatalf("OnEnergySample: %v", err)
	}
	return eng
}

func TestHandleStatus(t *testing.T) {
	server := NewServer(testEngine(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	server.handleStatus(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.StatusCode)
	}
	var data statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if data.RunID != "run-admin" {
		t.Errorf("unexpected run ID %q", data.RunID)
	}
	if data.Counters.Authorized != 1 || data.Counters.Unauthorized != 1 || data.Counters.Received != 2 {
		t.Errorf("unexpected counters: %+v", data.Counters)
	}
	if data.Devices["iot-001"] != 0.85 {
		t.Errorf("unexpected device readings: %v", data.Devices)
	}
}

func TestHandleCounters(t *testing.T) {
	server := NewServer(testEngine(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/counters", nil)
	w := httptest.NewRecorder()
	server.handleCounters(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.StatusCode)
	}
	var counters engine.Counters
	if err := json.NewDecoder(resp.Body).Decode(&counters); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if counters.Received != 2 {
		t.Errorf("unexpected counters: %+v", counters)
	}
}

func TestRoutesIncludeMetricsWhenConfigured(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := NewServer(testEngine(t), metrics)
	mux := server.routes()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected /metrics to be routed, got %d", w.Code)
	}

	bare := NewServer(testEngine(t), nil)
	w = httptest.NewRecorder()
	bare.routes().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected /metrics to be absent without a handler, got %d", w.Code)
	}
}
