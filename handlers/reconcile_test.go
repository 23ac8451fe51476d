package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReconcileHandlerRejectsBadToken(t *testing.T) {
	t.Setenv("CRON_SECRET", "s3cret")

	tests := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"wrong token", "Bearer wrong"},
		{"no bearer prefix", "s3cret"},
		{"wrong scheme", "Basic s3cret"},
		{"extra whitespace", "Bearer  s3cret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cron/reconcile", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()

			ReconcileHandler(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestReconcileHandlerRejectsWhenSecretUnset(t *testing.T) {
	// An unset secret must never mean an open endpoint, even when the
	// caller sends a matching empty bearer value.
	t.Setenv("CRON_SECRET", "")

	for _, auth := range []string{"", "Bearer ", "Bearer s3cret"} {
		req := httptest.NewRequest(http.MethodGet, "/cron/reconcile", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()

		ReconcileHandler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("auth %q: status = %d, want %d", auth, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestReconcileHandlerSingleDeviceSummary(t *testing.T) {
	t.Setenv("CRON_SECRET", "s3cret")
	InitLiveStore()

	// Narrowing to a device the live store has never seen short-circuits
	// before any storage access and still returns the summary shape.
	req := httptest.NewRequest(http.MethodGet, "/cron/reconcile?device=DEVICE_0404", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()

	ReconcileHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var got ReconcileSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !got.Success || got.Logged != 0 || len(got.Errors) != 0 {
		t.Errorf("summary = %+v", got)
	}
	if got.Message != "processed 0 devices" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestReconcileSummaryShape(t *testing.T) {
	clean, err := json.Marshal(ReconcileSummary{
		Success: true,
		Message: "processed 2 devices",
		Logged:  3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(clean), "errors") {
		t.Errorf("clean run should omit errors key, got %s", clean)
	}

	partial, err := json.Marshal(ReconcileSummary{
		Success: true,
		Message: "processed 2 devices",
		Logged:  1,
		Errors:  []string{"DEVICE_0001: append failed"},
	})
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Logged  int      `json:"logged"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(partial, &got); err != nil {
		t.Fatal(err)
	}
	if !got.Success || got.Logged != 1 || len(got.Errors) != 1 {
		t.Errorf("partial-failure summary = %+v", got)
	}
}
