package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/carl0-ilagan/padbuddy-server/pkg/readings"
)

// SensorLog is one immutable row of the historical readings log.
// Append-only: no updated-at, no soft delete. Source records which
// path produced the row (paddy log, device fallback, live feed write,
// manual log, reconciler).
type SensorLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FieldID    uuid.UUID `gorm:"type:uuid;index;not null" json:"fieldId"`
	PaddyID    uuid.UUID `gorm:"type:uuid;index:idx_paddy_captured,priority:1;not null" json:"paddyId"`
	DeviceID   string    `gorm:"size:20;index" json:"deviceId"`
	Source     string    `gorm:"size:20;not null" json:"source"`
	Nitrogen   *float64  `json:"nitrogen,omitempty"`
	Phosphorus *float64  `json:"phosphorus,omitempty"`
	Potassium  *float64  `json:"potassium,omitempty"`
	Temp       *float64  `gorm:"column:temperature" json:"temperature,omitempty"`
	Humidity   *float64  `json:"humidity,omitempty"`
	WaterLevel *float64  `json:"waterLevel,omitempty"`
	CapturedAt time.Time `gorm:"index:idx_paddy_captured,priority:2;not null" json:"capturedAt"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// ToReading converts a log row into the merge core's shape.
func (l *SensorLog) ToReading() readings.Reading {
	return readings.Reading{
		Source:    l.Source,
		DocID:     l.ID.String(),
		Timestamp: l.CapturedAt.UnixMilli(),
		N:         l.Nitrogen,
		P:         l.Phosphorus,
		K:         l.Potassium,
		Temp:      l.Temp,
		Humidity:  l.Humidity,
		WaterLvl:  l.WaterLevel,
	}
}

// NewSensorLog builds a log row from a normalized reading. A zero
// reading timestamp falls back to now (manual logs taken before the
// device reported a sample time).
func NewSensorLog(fieldID, paddyID uuid.UUID, deviceID string, r readings.Reading, now time.Time) SensorLog {
	capturedAt := now
	if r.Timestamp > 0 {
		capturedAt = time.UnixMilli(r.Timestamp)
	}
	return SensorLog{
		FieldID:    fieldID,
		PaddyID:    paddyID,
		DeviceID:   deviceID,
		Source:     r.Source,
		Nitrogen:   r.N,
		Phosphorus: r.P,
		Potassium:  r.K,
		Temp:       r.Temp,
		Humidity:   r.Humidity,
		WaterLevel: r.WaterLvl,
		CapturedAt: capturedAt,
	}
}

// ToReadings converts a query result, keeping input order.
func ToReadings(logs []SensorLog) []readings.Reading {
	out := make([]readings.Reading, len(logs))
	for i := range logs {
		out[i] = logs[i].ToReading()
	}
	return out
}
