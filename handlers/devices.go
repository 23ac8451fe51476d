package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carl0-ilagan/padbuddy-server/config"
	"github.com/carl0-ilagan/padbuddy-server/models"
	"github.com/carl0-ilagan/padbuddy-server/pkg/readings"
)

// IngestDeviceState is the firmware's write path: a partial state
// record merged into the live store, last write wins per field. Any
// NPK values ride into the recent-readings buffer.
func IngestDeviceState(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]
	if !models.ValidDeviceID(deviceID) {
		http.Error(w, "device id must match DEVICE_####", http.StatusBadRequest)
		return
	}
	var update map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	state := Live.Merge(deviceID, update)
	json.NewEncoder(w).Encode(state)
}

// GetDeviceState is a point read of the live record.
func GetDeviceState(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]
	state, ok := Live.Get(deviceID)
	if !ok {
		http.Error(w, "no live data for device", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(state)
}

type statusResponse struct {
	DeviceID string          `json:"deviceId"`
	Status   readings.Status `json:"status"`
	Badge    string          `json:"badge"`
}

// GetDeviceStatus reduces live state to the status badge. A device the
// store has never seen classifies as offline, not as an error.
func GetDeviceStatus(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]
	state, ok := Live.Get(deviceID)

	hasNPK := ok && state.Reading != nil && state.Reading.HasNPK()
	status := readings.Classify(false, ok && state.Connected, hasNPK)

	json.NewEncoder(w).Encode(statusResponse{
		DeviceID: deviceID,
		Status:   status,
		Badge:    status.Badge(),
	})
}

// StreamDeviceState pushes live-state snapshots over SSE until the
// client goes away. Subscription teardown is tied to the request
// context; snapshots across different devices have no ordering
// guarantee.
func StreamDeviceState(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	sub := Live.Subscribe(deviceID)
	defer sub.Unsubscribe()

	// Send the current snapshot first so the client doesn't render
	// "Loading" until the next device push.
	if state, exists := Live.Get(deviceID); exists {
		payload, _ := json.Marshal(state)
		w.Write([]byte("data: "))
		w.Write(payload)
		w.Write([]byte("\n\n"))
		flusher.Flush()
	}

	for {
		select {
		case state, open := <-sub.C:
			if !open {
				return
			}
			payload, err := json.Marshal(state)
			if err != nil {
				continue
			}
			w.Write([]byte("data: "))
			w.Write(payload)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// ListKnownDevices returns inventory rows joined with each device's
// live status, for the admin inventory page.
func ListKnownDevices(w http.ResponseWriter, r *http.Request) {
	var devices []models.Device
	if err := config.DB.Order("id").Find(&devices).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	type row struct {
		models.Device
		Status readings.Status `json:"status"`
	}
	out := make([]row, 0, len(devices))
	for _, d := range devices {
		state, ok := Live.Get(d.ID)
		hasNPK := ok && state.Reading != nil && state.Reading.HasNPK()
		out = append(out, row{
			Device: d,
			Status: readings.Classify(false, ok && state.Connected, hasNPK),
		})
	}
	json.NewEncoder(w).Encode(out)
}
