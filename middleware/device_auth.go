package middleware

import (
	"log"
	"net/http"
	"os"
)

// DeviceAuthMiddleware guards the ingest endpoints the sensor firmware
// calls. Devices carry a shared key in x-api-key, not a JWT.
func DeviceAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := os.Getenv("DEVICE_API_KEY")
		if key == "" || r.Header.Get("x-api-key") != key {
			log.Printf("[SECURITY] Blocked device ingest - bad api key. Path=%s", r.URL.Path)
			http.Error(w, "Invalid or missing API key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
