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

// ownedField loads a field scoped to the requesting user so farmers can
// only touch their own plots.
func ownedField(r *http.Request) (*models.Field, error) {
	id := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)
	var f models.Field
	if err := config.DB.Preload("Variety").Preload("Paddies").
		Where("id = ? AND user_id = ?", id, userID).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func ListFields(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var fields []models.Field
	if err := config.DB.Preload("Variety").Preload("Paddies").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&fields).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(fields)
}

func CreateField(w http.ResponseWriter, r *http.Request) {
	var f models.Field
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if f.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "invalid user context", http.StatusInternalServerError)
		return
	}
	f.ID = uuid.Nil
	f.UserID = userID
	f.Status = models.FieldActive
	if time.Time(f.StartDate).IsZero() {
		f.StartDate = models.JSONTime(time.Now())
	}
	if err := config.DB.Create(&f).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(f)
}

func GetField(w http.ResponseWriter, r *http.Request) {
	f, err := ownedField(r)
	if err != nil {
		http.Error(w, "field not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(f)
}

func UpdateField(w http.ResponseWriter, r *http.Request) {
	f, err := ownedField(r)
	if err != nil {
		http.Error(w, "field not found", http.StatusNotFound)
		return
	}
	var patch struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		VarietyID   *string `json:"varietyId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.Description != nil {
		f.Description = patch.Description
	}
	if patch.VarietyID != nil {
		vid, err := uuid.Parse(*patch.VarietyID)
		if err != nil {
			http.Error(w, "invalid variety id", http.StatusBadRequest)
			return
		}
		f.VarietyID = &vid
	}
	if err := config.DB.Save(f).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(f)
}

// TransitionField handles conclude/harvest/reopen from the request
// body's target status.
func TransitionField(w http.ResponseWriter, r *http.Request) {
	f, err := ownedField(r)
	if err != nil {
		http.Error(w, "field not found", http.StatusNotFound)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := f.Transition(req.Status, time.Now()); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err := config.DB.Save(f).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(f)
}
