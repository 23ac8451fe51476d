package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/carl0-ilagan/padbuddy-server/config"
	"github.com/carl0-ilagan/padbuddy-server/middleware"
	"github.com/carl0-ilagan/padbuddy-server/models"
)

// ---- user management ----

func AdminListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := config.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(users)
}

// AdminSetUserActive flips the activation flag; deactivated users can
// no longer log in but their fields and logs are kept.
func AdminSetUserActive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if id == middleware.GetUserID(r) && !req.IsActive {
		http.Error(w, "cannot deactivate your own account", http.StatusConflict)
		return
	}
	var u models.User
	if err := config.DB.First(&u, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	u.IsActive = req.IsActive
	if err := config.DB.Save(&u).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(u)
}

// ---- device inventory ----

func AdminRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var d models.Device
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.ValidDeviceID(d.ID) {
		http.Error(w, "device id must match DEVICE_####", http.StatusBadRequest)
		return
	}
	if err := config.DB.Create(&d).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

func AdminUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["deviceId"]
	var d models.Device
	if err := config.DB.First(&d, "id = ?", id).Error; err != nil {
		http.Error(w, "device not found", http.StatusNotFound)
		return
	}
	var patch struct {
		Label  *string `json:"label"`
		Notes  *string `json:"notes"`
		Active *bool   `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if patch.Label != nil {
		d.Label = *patch.Label
	}
	if patch.Notes != nil {
		d.Notes = patch.Notes
	}
	if patch.Active != nil {
		d.Active = *patch.Active
	}
	if err := config.DB.Save(&d).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(d)
}

// AdminReleaseDevice force-clears a device claim and any paddy binding,
// for when a farmer loses access to the account holding the claim.
func AdminReleaseDevice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["deviceId"]
	if err := config.DB.Model(&models.Paddy{}).
		Where("device_id = ?", id).
		Update("device_id", nil).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	Live.Release(id)
	w.WriteHeader(http.StatusNoContent)
}

// ---- content ----

func ListVarieties(w http.ResponseWriter, r *http.Request) {
	var varieties []models.RiceVariety
	if err := config.DB.Order("name").Find(&varieties).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(varieties)
}

func AdminCreateVariety(w http.ResponseWriter, r *http.Request) {
	var v models.RiceVariety
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if v.Name == "" || v.DaysToHarvest <= 0 {
		http.Error(w, "name and daysToHarvest are required", http.StatusBadRequest)
		return
	}
	if err := config.DB.Create(&v).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(v)
}

func AdminCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var a models.Announcement
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if a.Title == "" || a.Body == "" {
		http.Error(w, "title and body are required", http.StatusBadRequest)
		return
	}
	creator, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "invalid user context", http.StatusInternalServerError)
		return
	}
	a.CreatedBy = creator
	if a.PublishedAt == nil {
		now := time.Now()
		a.PublishedAt = &now
	}
	if err := config.DB.Create(&a).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(a)
}

func AdminDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	result := config.DB.Delete(&models.Announcement{}, "id = ?", id)
	if result.Error != nil {
		http.Error(w, "db error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "announcement not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
