package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Field lifecycle. A field is one planting season on one plot; it is
// concluded or harvested, never hard-deleted.
const (
	FieldActive    = "active"
	FieldConcluded = "concluded"
	FieldHarvested = "harvested"
)

// Field is a tracked planting season. StartDate is day zero of the
// growth cycle. Boundary, when present, is a GeoJSON polygon drawn by
// the farmer on the map.
type Field struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null" json:"userId"`
	Name        string         `gorm:"size:120;not null" json:"name"`
	VarietyID   *uuid.UUID     `gorm:"type:uuid" json:"varietyId,omitempty"`
	Variety     *RiceVariety   `gorm:"foreignKey:VarietyID" json:"variety,omitempty"`
	StartDate   JSONTime       `gorm:"column:start_date;not null" json:"startDate"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	Status      string         `gorm:"size:20;not null;default:active" json:"status"`
	Photos      pq.StringArray `gorm:"type:text[]" json:"photos,omitempty"`
	Boundary    datatypes.JSON `gorm:"type:jsonb" json:"boundary,omitempty"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
	ConcludedAt *time.Time `json:"concludedAt,omitempty"`

	Paddies []Paddy `gorm:"foreignKey:FieldID" json:"paddies,omitempty"`
}

// DayOfCycle returns how many days into the growth cycle the field is.
func (f *Field) DayOfCycle(now time.Time) int {
	days := int(now.Sub(time.Time(f.StartDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Transition moves the field between lifecycle states. Reopening a
// concluded or harvested field back to active is allowed (the farmer
// ended the season by mistake); everything else follows
// active → concluded → harvested.
func (f *Field) Transition(to string, now time.Time) error {
	switch {
	case to == FieldActive && f.Status != FieldActive:
		f.Status = FieldActive
		f.ConcludedAt = nil
	case to == FieldConcluded && f.Status == FieldActive:
		f.Status = FieldConcluded
		f.ConcludedAt = &now
	case to == FieldHarvested && f.Status != FieldHarvested:
		f.Status = FieldHarvested
		if f.ConcludedAt == nil {
			f.ConcludedAt = &now
		}
	default:
		return fmt.Errorf("cannot transition field from %s to %s", f.Status, to)
	}
	return nil
}
