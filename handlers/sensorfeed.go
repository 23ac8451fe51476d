package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/carl0-ilagan/padbuddy-server/config"
	"github.com/carl0-ilagan/padbuddy-server/models"
	"github.com/carl0-ilagan/padbuddy-server/pkg/readings"
)

// chartPoints is how many of the newest merged entries feed the trend
// chart.
const chartPoints = 50

type readingsResponse struct {
	Range    readings.Window    `json:"range"`
	Readings []readings.Reading `json:"readings"` // newest first, for the table
	Chart    []readings.Reading `json:"chart"`    // oldest first, for the trend chart
	Labels   []string           `json:"labels"`   // x-axis labels, same order as chart
}

// chartLabels renders the x-axis label for each chart point.
func chartLabels(chart []readings.Reading) []string {
	labels := make([]string, len(chart))
	for i, r := range chart {
		labels[i] = readings.TimestampLabel(r.Timestamp)
	}
	return labels
}

// paddyHistory runs the historical queries for one paddy. A failed
// query is logged and contributes nothing so the other sources still
// render; the caller never sees a hard error from here.
func paddyHistory(p *models.Paddy, win readings.Window, now time.Time) [][]readings.Reading {
	var sources [][]readings.Reading

	q := config.DB.Where("paddy_id = ?", p.ID)
	if cutoff, bounded := win.Cutoff(now); bounded {
		q = q.Where("captured_at >= ?", cutoff)
	}
	var direct []models.SensorLog
	if err := q.Order("captured_at DESC").Find(&direct).Error; err != nil {
		log.Printf("paddy %s: direct log query failed: %v", p.ID, err)
	} else {
		sources = append(sources, models.ToReadings(direct))
	}

	// Fallback rows logged against the device before it was bound to
	// this paddy.
	if p.HasDevice() {
		var fallback []models.SensorLog
		fq := config.DB.Where("device_id = ? AND paddy_id <> ?", *p.DeviceID, p.ID)
		if cutoff, bounded := win.Cutoff(now); bounded {
			fq = fq.Where("captured_at >= ?", cutoff)
		}
		if err := fq.Order("captured_at DESC").Find(&fallback).Error; err != nil {
			log.Printf("paddy %s: fallback log query failed: %v", p.ID, err)
		} else {
			sources = append(sources, models.ToReadings(fallback))
		}
	}
	return sources
}

// GetPaddyReadings returns the merged live + historical view for one
// paddy, scoped by the range parameter.
func GetPaddyReadings(w http.ResponseWriter, r *http.Request) {
	p, _, err := ownedPaddy(r)
	if err != nil {
		http.Error(w, "paddy not found", http.StatusNotFound)
		return
	}
	win, err := readings.ParseWindow(r.URL.Query().Get("range"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	sources := paddyHistory(p, win, now)

	// Live buffer goes last: a persisted row describing the same sample
	// wins the dedupe.
	if p.HasDevice() {
		sources = append(sources, Live.Recent(*p.DeviceID))
	}

	merged := readings.Merge(sources...)
	if cutoff, bounded := win.Cutoff(now); bounded {
		// Live entries can predate the window; re-filter after merging.
		merged = readings.FilterAfter(merged, cutoff.UnixMilli())
	}

	chart := readings.ChartSeries(merged, chartPoints)
	json.NewEncoder(w).Encode(readingsResponse{
		Range:    win,
		Readings: merged,
		Chart:    chart,
		Labels:   chartLabels(chart),
	})
}

// LogNow appends the device's current live reading to the historical
// log, tagged manual.
func LogNow(w http.ResponseWriter, r *http.Request) {
	p, f, err := ownedPaddy(r)
	if err != nil {
		http.Error(w, "paddy not found", http.StatusNotFound)
		return
	}
	if !p.HasDevice() {
		http.Error(w, "no device connected to this paddy", http.StatusConflict)
		return
	}
	state, ok := Live.Get(*p.DeviceID)
	if !ok || state.Reading == nil {
		http.Error(w, "no live reading available", http.StatusConflict)
		return
	}

	reading := *state.Reading
	reading.Source = readings.SourceManual
	entry := models.NewSensorLog(f.ID, p.ID, *p.DeviceID, reading, time.Now())
	if err := config.DB.Create(&entry).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// ObserveLiveReading is the opportunistic write path: a client that
// just saw a live update persists it so the sample survives even if
// the reconciliation job misses it. Tagged live so the dedupe key can
// collide with the buffered feed entry.
func ObserveLiveReading(w http.ResponseWriter, r *http.Request) {
	p, f, err := ownedPaddy(r)
	if err != nil {
		http.Error(w, "paddy not found", http.StatusNotFound)
		return
	}
	if !p.HasDevice() {
		http.Error(w, "no device connected to this paddy", http.StatusConflict)
		return
	}
	var reading readings.Reading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !reading.HasNPK() {
		http.Error(w, "reading has no nutrient values", http.StatusBadRequest)
		return
	}
	if ms, valid := readings.NormalizeTimestamp(reading.Timestamp); valid {
		reading.Timestamp = ms
	} else {
		reading.Timestamp = time.Now().UnixMilli()
	}
	reading.Source = readings.SourceLiveFeed

	entry := models.NewSensorLog(f.ID, p.ID, *p.DeviceID, reading, time.Now())
	if err := config.DB.Create(&entry).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}
