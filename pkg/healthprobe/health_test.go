package healthprobe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealth_AlwaysOK(t *testing.T) {
	hc := New()
	handler := hc.Health()

	for _, ready := range []bool{false, true} {
		hc.SetReady(ready)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("health status = %d with ready=%v, want %d", w.Code, ready, http.StatusOK)
		}
	}

	var resp HealthResponse
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Status != "healthy" {
		t.Errorf("status = %s, want healthy", resp.Status)
	}

	if resp.Uptime == "" {
		t.Error("uptime is empty")
	}
}

func TestReady_TracksState(t *testing.T) {
	hc := New()
	handler := hc.Ready()

	// Not ready until the tracker backfill completes.
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("initial ready status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Status != "not_ready" || resp.Message == "" {
		t.Errorf("unexpected not-ready body: %+v", resp)
	}

	hc.SetReady(true)

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	w = httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("ready status = %d, want %d", w.Code, http.StatusOK)
	}

	hc.SetReady(false)

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	w = httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status after reset = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
