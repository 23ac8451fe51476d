package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/carl0-ilagan/padbuddy-server/models"
)

// SeedVarieties loads the reference rice varieties. Skips any variety
// that already exists so the seed is safe to run on every boot.
func SeedVarieties() {
	varieties := []models.RiceVariety{
		{Name: "NSIC Rc222", DaysToHarvest: 114},
		{Name: "NSIC Rc160", DaysToHarvest: 112},
		{Name: "PSB Rc82", DaysToHarvest: 110},
		{Name: "NSIC Rc216", DaysToHarvest: 112},
		{Name: "Dinorado", DaysToHarvest: 120},
	}

	for _, v := range varieties {
		var count int64
		DB.Model(&models.RiceVariety{}).Where("name = ?", v.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := DB.Create(&v).Error; err != nil {
			log.Printf("Warning: failed to seed variety %s: %v", v.Name, err)
		}
	}
}

// SeedAdminUser creates the bootstrap admin from ADMIN_EMAIL and
// ADMIN_PASSWORD. No-op when either is unset or the user exists.
func SeedAdminUser() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: failed to hash admin password: %v", err)
		return
	}
	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		Phone:        os.Getenv("ADMIN_PHONE"),
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Warning: failed to seed admin user: %v", err)
		return
	}
	log.Println("Seeded bootstrap admin user", email)
}
