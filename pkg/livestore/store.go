// Package livestore is the realtime side of the readings pipeline: one
// mutable record per device, overwritten continuously by the hardware
// and read by every open dashboard. Point reads, partial last-write-wins
// merges, and per-device subscriptions with explicit teardown. Nothing
// here is durable; the historical log lives in Postgres.
package livestore

import (
	"errors"
	"sync"

	"github.com/carl0-ilagan/padbuddy-server/pkg/readings"
)

var ErrDeviceClaimed = errors.New("device already claimed by another user")

// State is the parsed view of a device's live record.
type State struct {
	DeviceID  string                 `json:"deviceId"`
	Connected bool                   `json:"connected"`
	ClaimedBy string                 `json:"claimedBy,omitempty"`
	Latitude  *float64               `json:"latitude,omitempty"`
	Longitude *float64               `json:"longitude,omitempty"`
	Weather   map[string]interface{} `json:"weather,omitempty"`
	Reading   *readings.Reading      `json:"reading,omitempty"`
	UpdatedAt int64                  `json:"updatedAt"`
}

type entry struct {
	raw    map[string]interface{}
	state  State
	buffer *readings.LiveBuffer
	subs   map[int]chan State
	nextID int
}

// Store holds live state for all known devices. Safe for concurrent
// use; subscribers receive snapshots, never shared references.
type Store struct {
	mu      sync.RWMutex
	devices map[string]*entry
	bufCap  int
	nowMs   func() int64
}

func New(bufferCap int, nowMs func() int64) *Store {
	return &Store{
		devices: make(map[string]*entry),
		bufCap:  bufferCap,
		nowMs:   nowMs,
	}
}

func (s *Store) ensure(deviceID string) *entry {
	e, ok := s.devices[deviceID]
	if !ok {
		e = &entry{
			raw:    make(map[string]interface{}),
			state:  State{DeviceID: deviceID},
			buffer: readings.NewLiveBuffer(s.bufCap),
			subs:   make(map[int]chan State),
		}
		s.devices[deviceID] = e
	}
	return e
}

// Merge applies a partial update to a device record, field-wise
// last-write-wins. Any NPK values in the update are pushed into the
// device's recent-readings buffer. Subscribers are notified with the
// new snapshot; a slow subscriber misses intermediate states rather
// than blocking the writer.
func (s *Store) Merge(deviceID string, update map[string]interface{}) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.ensure(deviceID)
	for k, v := range update {
		e.raw[k] = v
	}
	s.reparse(e)

	if r, ok := readings.ExtractNPK(update); ok {
		r.Source = readings.SourceLiveFeed
		if r.Timestamp == 0 {
			r.Timestamp = s.nowMs()
		}
		e.buffer.Push(r)
	}

	snap := e.state
	for _, ch := range e.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	return snap
}

func (s *Store) reparse(e *entry) {
	e.state.Connected, _ = e.raw["connected"].(bool)
	e.state.ClaimedBy, _ = e.raw["claimedBy"].(string)
	e.state.Latitude = floatField(e.raw, "latitude")
	e.state.Longitude = floatField(e.raw, "longitude")
	if w, ok := e.raw["weather"].(map[string]interface{}); ok {
		e.state.Weather = w
	}
	if r, ok := readings.ExtractNPK(e.raw); ok {
		r.Source = readings.SourceLiveFeed
		e.state.Reading = &r
	} else {
		e.state.Reading = nil
	}
	e.state.UpdatedAt = s.nowMs()
}

func floatField(m map[string]interface{}, key string) *float64 {
	if v, ok := m[key].(float64); ok {
		f := v
		return &f
	}
	return nil
}

// Get returns the parsed state for a device.
func (s *Store) Get(deviceID string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.devices[deviceID]
	if !ok {
		return State{}, false
	}
	return e.state, true
}

// Raw returns a copy of the device's raw record, the shape the
// reconciliation job walks with its alias-tolerant extractor.
func (s *Store) Raw(deviceID string) (map[string]interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.devices[deviceID]
	if !ok {
		return nil, false
	}
	return copyRaw(e.raw), true
}

// All enumerates raw records for every device currently in the store.
func (s *Store) All() map[string]map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string]interface{}, len(s.devices))
	for id, e := range s.devices {
		out[id] = copyRaw(e.raw)
	}
	return out
}

func copyRaw(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	return out
}

// Recent returns the device's buffered live readings, oldest first.
func (s *Store) Recent(deviceID string) []readings.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.devices[deviceID]
	if !ok {
		return nil
	}
	return e.buffer.Snapshot()
}

// Claim records which user currently owns a device. Loose enforcement:
// a device already claimed by someone else is rejected, re-claiming by
// the same user is a no-op.
func (s *Store) Claim(deviceID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ensure(deviceID)
	if owner, _ := e.raw["claimedBy"].(string); owner != "" && owner != userID {
		return ErrDeviceClaimed
	}
	e.raw["claimedBy"] = userID
	s.reparse(e)
	return nil
}

// Release clears a device's claim, part of the paddy disconnect flow.
func (s *Store) Release(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.devices[deviceID]; ok {
		delete(e.raw, "claimedBy")
		s.reparse(e)
	}
}

// Subscription delivers state snapshots for one device until
// Unsubscribe is called. Callers must unsubscribe on teardown; no
// ordering is guaranteed across subscriptions to different devices.
type Subscription struct {
	C     <-chan State
	once  sync.Once
	close func()
}

func (sub *Subscription) Unsubscribe() { sub.once.Do(sub.close) }

// Subscribe registers for updates to one device. The channel is
// buffered; updates that arrive while the subscriber is busy may be
// dropped in favor of newer ones.
func (s *Store) Subscribe(deviceID string) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.ensure(deviceID)
	id := e.nextID
	e.nextID++
	ch := make(chan State, 4)
	e.subs[id] = ch

	return &Subscription{
		C: ch,
		close: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if cur, ok := s.devices[deviceID]; ok {
				delete(cur.subs, id)
			}
			close(ch)
		},
	}
}
