package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/carl0-ilagan/padbuddy-server/config"
	"github.com/carl0-ilagan/padbuddy-server/middleware"
	"github.com/carl0-ilagan/padbuddy-server/models"
	"github.com/carl0-ilagan/padbuddy-server/pkg/readings"
)

type paddySummary struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	DeviceID *string           `json:"deviceId,omitempty"`
	Status   readings.Status   `json:"status"`
	Badge    string            `json:"badge"`
	Latest   *readings.Reading `json:"latest,omitempty"`
}

type fieldSummary struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	Status     string         `json:"status"`
	DayOfCycle int            `json:"dayOfCycle"`
	Paddies    []paddySummary `json:"paddies"`
}

type dashboardResponse struct {
	Fields        []fieldSummary        `json:"fields"`
	Connected     int                   `json:"connected"`
	SensorIssues  int                   `json:"sensorIssues"`
	Offline       int                   `json:"offline"`
	Announcements []models.Announcement `json:"announcements"`
}

func summarizePaddy(p models.Paddy) paddySummary {
	s := paddySummary{ID: p.ID, Name: p.Name, DeviceID: p.DeviceID}
	if !p.HasDevice() {
		s.Status = readings.StatusOffline
		s.Badge = s.Status.Badge()
		return s
	}
	state, ok := Live.Get(*p.DeviceID)
	hasNPK := ok && state.Reading != nil && state.Reading.HasNPK()
	s.Status = readings.Classify(false, ok && state.Connected, hasNPK)
	s.Badge = s.Status.Badge()
	if hasNPK {
		s.Latest = state.Reading
	}
	return s
}

// GetDashboard builds the home summary: every field with per-paddy
// status badges plus fleet-level counts, all through the same
// classifier the device pages use.
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	now := time.Now()

	var fields []models.Field
	if err := config.DB.Preload("Paddies").
		Where("user_id = ? AND status = ?", userID, models.FieldActive).
		Order("created_at DESC").Find(&fields).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := dashboardResponse{Fields: make([]fieldSummary, 0, len(fields))}
	for _, f := range fields {
		fs := fieldSummary{
			ID:         f.ID,
			Name:       f.Name,
			Status:     f.Status,
			DayOfCycle: f.DayOfCycle(now),
			Paddies:    make([]paddySummary, 0, len(f.Paddies)),
		}
		for _, p := range f.Paddies {
			ps := summarizePaddy(p)
			switch ps.Status {
			case readings.StatusOK:
				resp.Connected++
			case readings.StatusSensorIssue:
				resp.SensorIssues++
			default:
				resp.Offline++
			}
			fs.Paddies = append(fs.Paddies, ps)
		}
		resp.Fields = append(resp.Fields, fs)
	}

	// Announcements degrade to an empty list, the dashboard still
	// renders without them.
	if err := config.DB.Where("published_at IS NOT NULL").
		Order("published_at DESC").Limit(5).
		Find(&resp.Announcements).Error; err != nil {
		log.Printf("dashboard: announcement query failed: %v", err)
		resp.Announcements = nil
	}

	json.NewEncoder(w).Encode(resp)
}
