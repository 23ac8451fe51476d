package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carl0-ilagan/padbuddy-server/utils"
)

// RecordDeviceWeather writes GPS-derived weather back to the device's
// live record. Same last-write-wins merge as any other live field; the
// client that fetched the forecast most recently wins.
func RecordDeviceWeather(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]
	var weather map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&weather); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	state := Live.Merge(deviceID, map[string]interface{}{"weather": weather})
	json.NewEncoder(w).Encode(state)
}

// GetDeviceWeather is a point read of the cached weather block.
func GetDeviceWeather(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]
	state, ok := Live.Get(deviceID)
	if !ok || state.Weather == nil {
		http.Error(w, "no cached weather for device", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(state.Weather)
}

type boundaryCheckResponse struct {
	DeviceID   string `json:"deviceId"`
	HasGPS     bool   `json:"hasGps"`
	InBoundary bool   `json:"inBoundary"`
}

// CheckDeviceInBoundary compares a paddy's device GPS fix against its
// field boundary, flagging sensors that wandered (or were mislabeled)
// out of the plot.
func CheckDeviceInBoundary(w http.ResponseWriter, r *http.Request) {
	p, f, err := ownedPaddy(r)
	if err != nil {
		http.Error(w, "paddy not found", http.StatusNotFound)
		return
	}
	if !p.HasDevice() {
		http.Error(w, "no device connected to this paddy", http.StatusConflict)
		return
	}
	poly, err := utils.ParseBoundary(f.Boundary)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if poly == nil {
		http.Error(w, "field has no boundary", http.StatusConflict)
		return
	}

	resp := boundaryCheckResponse{DeviceID: *p.DeviceID}
	state, ok := Live.Get(*p.DeviceID)
	if ok && state.Latitude != nil && state.Longitude != nil {
		resp.HasGPS = true
		resp.InBoundary = utils.PointInBoundary(*state.Longitude, *state.Latitude, poly)
	}
	json.NewEncoder(w).Encode(resp)
}
