package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/carl0-ilagan/padbuddy-server/config"
	"github.com/carl0-ilagan/padbuddy-server/middleware"
	"github.com/carl0-ilagan/padbuddy-server/models"
	"github.com/carl0-ilagan/padbuddy-server/pkg/livestore"
	"github.com/carl0-ilagan/padbuddy-server/pkg/readings"
)

// Reconciler copies live readings into the historical log so samples
// are captured even when nobody has the dashboard open. Per-device
// failures are collected and reported, never abort the batch; the
// 5-minute/equal-value check is the only duplicate protection and it is
// a heuristic, not a transaction.
type Reconciler struct {
	db   *gorm.DB
	live *livestore.Store
}

func NewReconciler() *Reconciler {
	return &Reconciler{db: config.DB, live: Live}
}

// ReconcileSummary is the JSON body returned to the scheduler.
type ReconcileSummary struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Logged  int      `json:"logged"`
	Errors  []string `json:"errors,omitempty"`
}

// Run walks every device in the live store once. The returned error is
// fatal (storage unreachable); everything else lands in errs.
func (rc *Reconciler) Run(now time.Time) (processed, logged int, errs []string, err error) {
	// One cheap probe up front so a dead database is a 500, not a
	// per-device error for every device.
	if err := rc.db.Exec("SELECT 1").Error; err != nil {
		return 0, 0, nil, fmt.Errorf("database unreachable: %w", err)
	}

	for deviceID, raw := range rc.live.All() {
		processed++
		n, devErrs := rc.reconcileDevice(deviceID, raw, now)
		logged += n
		errs = append(errs, devErrs...)
	}
	return processed, logged, errs, nil
}

// RunDevice reconciles a single device, for targeted re-runs after a
// partial failure. A device the live store has never seen is a no-op,
// not an error.
func (rc *Reconciler) RunDevice(deviceID string, now time.Time) (processed, logged int, errs []string, err error) {
	raw, ok := rc.live.Raw(deviceID)
	if !ok {
		return 0, 0, nil, nil
	}
	if err := rc.db.Exec("SELECT 1").Error; err != nil {
		return 0, 0, nil, fmt.Errorf("database unreachable: %w", err)
	}
	logged, errs = rc.reconcileDevice(deviceID, raw, now)
	return 1, logged, errs, nil
}

func (rc *Reconciler) reconcileDevice(deviceID string, raw map[string]interface{}, now time.Time) (int, []string) {
	reading, ok := readings.ExtractNPK(raw)
	if !ok {
		return 0, nil // no nutrient values under any known alias
	}
	reading.Source = readings.SourceReconciler
	if reading.Timestamp == 0 {
		reading.Timestamp = now.UnixMilli()
	}

	// Reverse lookup: which paddies, across all users, reference this
	// device right now.
	var paddies []models.Paddy
	if err := rc.db.Where("device_id = ?", deviceID).Find(&paddies).Error; err != nil {
		return 0, []string{fmt.Sprintf("%s: paddy lookup failed: %v", deviceID, err)}
	}
	if len(paddies) == 0 {
		return 0, nil // orphaned or not-yet-claimed device
	}

	var logged int
	var errs []string
	for _, p := range paddies {
		var last models.SensorLog
		lastReading := new(readings.Reading)
		res := rc.db.Where("paddy_id = ?", p.ID).
			Order("captured_at DESC").Limit(1).Find(&last)
		if res.Error != nil {
			errs = append(errs, fmt.Sprintf("%s: last log lookup failed: %v", deviceID, res.Error))
			continue
		}
		if res.RowsAffected == 0 {
			lastReading = nil
		} else {
			*lastReading = last.ToReading()
		}

		if !readings.ShouldAppend(lastReading, reading) {
			continue // device hasn't produced a fresh sample yet
		}

		entry := models.NewSensorLog(p.FieldID, p.ID, deviceID, reading, now)
		if err := rc.db.Create(&entry).Error; err != nil {
			errs = append(errs, fmt.Sprintf("%s: append failed: %v", deviceID, err))
			continue
		}
		logged++
	}
	return logged, errs
}

// ReconcileHandler is the HTTP trigger the external scheduler hits.
// Shared-secret bearer auth; partial per-device failure still returns
// 200 with the errors listed. A device query parameter narrows the run
// to that device.
func ReconcileHandler(w http.ResponseWriter, r *http.Request) {
	secret := os.Getenv("CRON_SECRET")
	auth := r.Header.Get("Authorization")
	if secret == "" || auth != "Bearer "+secret {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	rc := NewReconciler()
	var processed, logged int
	var errs []string
	var err error
	if deviceID := r.URL.Query().Get("device"); deviceID != "" {
		processed, logged, errs, err = rc.RunDevice(deviceID, time.Now())
	} else {
		processed, logged, errs, err = rc.Run(time.Now())
	}
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		// middleware.PermissionHint gives operators a head start on the
		// usual misconfiguration.
		log.Printf("reconcile run failed: %v%s", err, middleware.PermissionHint(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	summary := ReconcileSummary{
		Success: true,
		Message: fmt.Sprintf("processed %d devices", processed),
		Logged:  logged,
		Errors:  errs,
	}
	if len(errs) > 0 {
		log.Printf("reconcile finished with %d device errors: %s",
			len(errs), strings.Join(errs, "; "))
	}
	json.NewEncoder(w).Encode(summary)
}

// StartReconcileLoop runs the reconciler on a fixed interval for
// deployments without an external scheduler. Blocks; callers run it in
// a goroutine.
func StartReconcileLoop(interval time.Duration) {
	log.Println("Starting in-process reconcile loop, interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		processed, logged, errs, err := NewReconciler().Run(time.Now())
		if err != nil {
			log.Printf("reconcile run failed: %v", err)
			continue
		}
		log.Printf("reconcile: %d devices processed, %d entries logged, %d errors",
			processed, logged, len(errs))
	}
}
