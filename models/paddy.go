package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// deviceIDPattern is the fixed format printed on the sensor housing.
var deviceIDPattern = regexp.MustCompile(`^DEVICE_\d{4}$`)

// ValidDeviceID reports whether s looks like a real device identifier.
func ValidDeviceID(s string) bool {
	return deviceIDPattern.MatchString(s)
}

// Paddy is a named attachment point linking one physical sensor to one
// field. DeviceID is nil while no sensor is connected; "disconnect"
// clears it rather than deleting the row.
type Paddy struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FieldID     uuid.UUID `gorm:"type:uuid;index;not null" json:"fieldId"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	DeviceID    *string   `gorm:"size:20;index" json:"deviceId,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Logs []SensorLog `gorm:"foreignKey:PaddyID" json:"-"`
}

// HasDevice reports whether a sensor is currently attached.
func (p *Paddy) HasDevice() bool {
	return p.DeviceID != nil && *p.DeviceID != ""
}
