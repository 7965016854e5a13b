package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hooch88/justicar/internal/narrative"
	"github.com/hooch88/justicar/internal/storage"
)

func TestHealthHandler_Healthy(t *testing.T) {
	handler := NewHealthHandler(storage.NewMemory(), narrative.NewMock(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", resp.Status)
	}
	if resp.Service != "justicar" {
		t.Errorf("Service = %q", resp.Service)
	}
	if resp.Components["storage"] != "healthy" || resp.Components["narrative"] != "healthy" {
		t.Errorf("Components = %v", resp.Components)
	}
}

func TestHealthHandler_DegradedStorage(t *testing.T) {
	store := storage.NewMemory()
	store.SetPingError(errors.New("connection refused"))
	handler := NewHealthHandler(store, narrative.NewMock(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", resp.Status)
	}
	if resp.Components["storage"] != "unhealthy" {
		t.Errorf("Components = %v", resp.Components)
	}
}

func TestHealthHandler_DegradedNarrative(t *testing.T) {
	mock := narrative.NewMock()
	mock.HealthyFunc = func(_ context.Context) error {
		return errors.New("model offline")
	}
	handler := NewHealthHandler(storage.NewMemory(), mock, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Components["narrative"] != "unhealthy" {
		t.Errorf("Components = %v", resp.Components)
	}
}
