package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/carl0-ilagan/padbuddy-server/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20260115_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.RiceVariety{},
					&models.Field{}, &models.Paddy{}, &models.SensorLog{})
			},
		},
		{
			ID: "20260302_add_device_inventory",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Device{})
			},
		},
		{
			ID: "20260414_add_announcements",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Announcement{})
			},
		},
		{
			ID: "20260602_backfill_log_device_ids",
			Migrate: func(tx *gorm.DB) error {
				// Log rows written before the device column existed get
				// their paddy's current device id.
				return tx.Exec(`UPDATE sensor_logs sl
					SET device_id = p.device_id
					FROM paddies p
					WHERE sl.paddy_id = p.id
					  AND (sl.device_id IS NULL OR sl.device_id = '')
					  AND p.device_id IS NOT NULL`).Error
			},
		},
	})
	return m.Migrate()
}
