package models

import "time"

// Device is an inventory row for a physical sensor unit, managed by
// admins. Whether a device is currently attached to a paddy lives on
// the Paddy side; whether it is online lives in the realtime store.
type Device struct {
	ID           string    `gorm:"size:20;primaryKey" json:"id"` // DEVICE_#### format
	Label        string    `gorm:"size:120" json:"label"`
	Notes        *string   `gorm:"type:text" json:"notes,omitempty"`
	Active       bool      `gorm:"default:true" json:"active"`
	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registeredAt"`
}
