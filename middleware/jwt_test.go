package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carl0-ilagan/padbuddy-server/models"
)

func authedRequest(t *testing.T, role string) *http.Request {
	t.Helper()
	token, err := GenerateToken("7b0c1d66-0000-0000-0000-000000000000", role, "Juan")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestJWTMiddlewareRoundTrip(t *testing.T) {
	var seen *Claims
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClaims(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleFarmer))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if seen == nil {
		t.Fatal("claims not stashed in context")
	}
	if seen.Name != "Juan" || seen.Role != models.RoleFarmer {
		t.Errorf("claims = %+v", seen)
	}
}

func TestJWTMiddlewareRejects(t *testing.T) {
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	tests := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"no bearer prefix", "garbage"},
		{"malformed token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	var reached bool
	handler := JWTMiddleware(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleFarmer))
	if rec.Code != http.StatusForbidden || reached {
		t.Errorf("farmer: status = %d, reached = %v", rec.Code, reached)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleAdmin))
	if rec.Code != http.StatusOK || !reached {
		t.Errorf("admin: status = %d, reached = %v", rec.Code, reached)
	}
}

func TestRequireAdminWithoutClaims(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
