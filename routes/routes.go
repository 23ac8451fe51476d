package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carl0-ilagan/padbuddy-server/handlers"
	"github.com/carl0-ilagan/padbuddy-server/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	// Scheduled reconciliation, shared-secret bearer auth inside the
	// handler.
	r.HandleFunc("/cron/reconcile", handlers.ReconcileHandler).Methods("GET")

	// =====================================================
	// Device Ingest Routes (device API key)
	// =====================================================
	ingest := r.PathPrefix("/ingest").Subrouter()
	ingest.Use(middleware.DeviceAuthMiddleware)
	ingest.HandleFunc("/devices/{deviceId}", handlers.IngestDeviceState).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/me", handlers.GetCurrentUser).Methods("GET")
	api.HandleFunc("/dashboard", handlers.GetDashboard).Methods("GET")
	api.HandleFunc("/varieties", handlers.ListVarieties).Methods("GET")

	// Fields
	api.HandleFunc("/fields", handlers.ListFields).Methods("GET")
	api.HandleFunc("/fields", handlers.CreateField).Methods("POST")
	api.HandleFunc("/fields/{id}", handlers.GetField).Methods("GET")
	api.HandleFunc("/fields/{id}", handlers.UpdateField).Methods("PUT")
	api.HandleFunc("/fields/{id}/status", handlers.TransitionField).Methods("POST")
	api.HandleFunc("/fields/{id}/export", handlers.ExportFieldReadings).Methods("GET")

	// Paddies
	api.HandleFunc("/fields/{id}/paddies", handlers.ListPaddies).Methods("GET")
	api.HandleFunc("/fields/{id}/paddies", handlers.CreatePaddy).Methods("POST")
	api.HandleFunc("/paddies/{paddyId}", handlers.UpdatePaddy).Methods("PUT")
	api.HandleFunc("/paddies/{paddyId}/device", handlers.ConnectDevice).Methods("POST")
	api.HandleFunc("/paddies/{paddyId}/device", handlers.DisconnectDevice).Methods("DELETE")
	api.HandleFunc("/paddies/{paddyId}/boundary-check", handlers.CheckDeviceInBoundary).Methods("GET")

	// Readings
	api.HandleFunc("/paddies/{paddyId}/readings", handlers.GetPaddyReadings).Methods("GET")
	api.HandleFunc("/paddies/{paddyId}/readings/log-now", handlers.LogNow).Methods("POST")
	api.HandleFunc("/paddies/{paddyId}/readings/observed", handlers.ObserveLiveReading).Methods("POST")

	// Device live state
	api.HandleFunc("/devices/{deviceId}/state", handlers.GetDeviceState).Methods("GET")
	api.HandleFunc("/devices/{deviceId}/status", handlers.GetDeviceStatus).Methods("GET")
	api.HandleFunc("/devices/{deviceId}/stream", handlers.StreamDeviceState).Methods("GET")
	api.HandleFunc("/devices/{deviceId}/weather", handlers.GetDeviceWeather).Methods("GET")
	api.HandleFunc("/devices/{deviceId}/weather", handlers.RecordDeviceWeather).Methods("POST")

	// =====================================================
	// Admin Routes (require admin role)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/users", handlers.AdminListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/active", handlers.AdminSetUserActive).Methods("PUT")

	admin.HandleFunc("/devices", handlers.ListKnownDevices).Methods("GET")
	admin.HandleFunc("/devices", handlers.AdminRegisterDevice).Methods("POST")
	admin.HandleFunc("/devices/{deviceId}", handlers.AdminUpdateDevice).Methods("PUT")
	admin.HandleFunc("/devices/{deviceId}/release", handlers.AdminReleaseDevice).Methods("POST")

	admin.HandleFunc("/varieties", handlers.AdminCreateVariety).Methods("POST")
	admin.HandleFunc("/announcements", handlers.AdminCreateAnnouncement).Methods("POST")
	admin.HandleFunc("/announcements/{id}", handlers.AdminDeleteAnnouncement).Methods("DELETE")

	return r
}
