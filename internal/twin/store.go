package twin

import (
	"sort"
	"sync"
	"time"
)

// CapturedEvent is one tracked event as the twin recorded it.
type CapturedEvent struct {
	ID             string            `json:"id"`
	Event          string            `json:"event"`
	Params         map[string]string `json:"params,omitempty"`
	DeviceID       string            `json:"device_id"`
	AppID          string            `json:"app_id"`
	IdempotencyKey string            `json:"idempotency_key"`
	TimestampMs    int64             `json:"timestamp_ms"`
	ReceivedAt     time.Time         `json:"received_at"`
}

// Device is the twin's view of one SDK device: how often it started a
// session and the latest attribute snapshot it reported.
type Device struct {
	DeviceID    string         `json:"device_id"`
	AppID       string         `json:"app_id"`
	Environment string         `json:"environment"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	Starts      int            `json:"starts"`
	FirstSeen   time.Time      `json:"first_seen"`
	LastSeen    time.Time      `json:"last_seen"`
}

// Store keeps everything the twin captured in memory. Safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	events  []CapturedEvent
	devices map[string]*Device
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{devices: make(map[string]*Device)}
}

// AppendEvent records one captured event.
func (s *Store) AppendEvent(e CapturedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// RecordStart upserts the device and counts the session start. The
// attribute snapshot, when present, replaces the stored one.
func (s *Store) RecordStart(deviceID, appID, environment string, attrs map[string]any, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.upsertLocked(deviceID, appID, now)
	d.Environment = environment
	d.Starts++
	if attrs != nil {
		d.Attributes = attrs
	}
}

// ReplaceAttributes swaps the device's attribute snapshot. Snapshots
// replace; they never merge.
func (s *Store) ReplaceAttributes(deviceID, appID string, attrs map[string]any, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.upsertLocked(deviceID, appID, now)
	d.Attributes = attrs
}

func (s *Store) upsertLocked(deviceID, appID string, now time.Time) *Device {
	d, ok := s.devices[deviceID]
	if !ok {
		d = &Device{DeviceID: deviceID, AppID: appID, FirstSeen: now}
		s.devices[deviceID] = d
	}
	d.LastSeen = now
	return d
}

// Events returns a copy of all captured events in arrival order.
func (s *Store) Events() []CapturedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CapturedEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Devices returns a copy of all known devices, ordered by device ID.
func (s *Store) Devices() []Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out
}

// EventCount returns the number of captured events.
func (s *Store) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Reset drops everything the twin captured.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.devices = make(map[string]*Device)
}
