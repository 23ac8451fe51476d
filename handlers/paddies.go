package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carl0-ilagan/padbuddy-server/config"
	"github.com/carl0-ilagan/padbuddy-server/middleware"
	"github.com/carl0-ilagan/padbuddy-server/models"
	"github.com/carl0-ilagan/padbuddy-server/pkg/livestore"
)

// ownedPaddy resolves a paddy through its field's owner.
func ownedPaddy(r *http.Request) (*models.Paddy, *models.Field, error) {
	paddyID := mux.Vars(r)["paddyId"]
	userID := middleware.GetUserID(r)

	var p models.Paddy
	if err := config.DB.First(&p, "id = ?", paddyID).Error; err != nil {
		return nil, nil, err
	}
	var f models.Field
	if err := config.DB.Where("id = ? AND user_id = ?", p.FieldID, userID).First(&f).Error; err != nil {
		return nil, nil, err
	}
	return &p, &f, nil
}

func ListPaddies(w http.ResponseWriter, r *http.Request) {
	f, err := ownedField(r)
	if err != nil {
		http.Error(w, "field not found", http.StatusNotFound)
		return
	}
	var paddies []models.Paddy
	if err := config.DB.Where("field_id = ?", f.ID).Order("created_at").Find(&paddies).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(paddies)
}

func CreatePaddy(w http.ResponseWriter, r *http.Request) {
	f, err := ownedField(r)
	if err != nil {
		http.Error(w, "field not found", http.StatusNotFound)
		return
	}
	var p models.Paddy
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if p.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	p.FieldID = f.ID
	p.DeviceID = nil // devices are attached through the connect flow
	if err := config.DB.Create(&p).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// ConnectDevice attaches a sensor to a paddy. The claim in the live
// store is the loose one-paddy-per-device guard; a second paddy row
// referencing a claimed device is rejected here.
func ConnectDevice(w http.ResponseWriter, r *http.Request) {
	p, _, err := ownedPaddy(r)
	if err != nil {
		http.Error(w, "paddy not found", http.StatusNotFound)
		return
	}
	var req struct {
		DeviceID string `json:"deviceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.ValidDeviceID(req.DeviceID) {
		http.Error(w, "device id must match DEVICE_####", http.StatusBadRequest)
		return
	}

	if err := Live.Claim(req.DeviceID, middleware.GetUserID(r)); err != nil {
		if errors.Is(err, livestore.ErrDeviceClaimed) {
			http.Error(w, "device is connected to another account", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if p.HasDevice() && *p.DeviceID != req.DeviceID {
		Live.Release(*p.DeviceID)
	}
	p.DeviceID = &req.DeviceID
	if err := config.DB.Save(p).Error; err != nil {
		Live.Release(req.DeviceID)
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(p)
}

// DisconnectDevice clears the device reference and releases the claim.
// The paddy row and its logs survive.
func DisconnectDevice(w http.ResponseWriter, r *http.Request) {
	p, _, err := ownedPaddy(r)
	if err != nil {
		http.Error(w, "paddy not found", http.StatusNotFound)
		return
	}
	if p.HasDevice() {
		Live.Release(*p.DeviceID)
	}
	p.DeviceID = nil
	if err := config.DB.Save(p).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(p)
}

func UpdatePaddy(w http.ResponseWriter, r *http.Request) {
	p, _, err := ownedPaddy(r)
	if err != nil {
		http.Error(w, "paddy not found", http.StatusNotFound)
		return
	}
	var patch struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if err := config.DB.Save(p).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(p)
}
