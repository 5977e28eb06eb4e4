package twin

import (
	"testing"
	"time"
)

func TestStore_AppendEvent_ArrivalOrder(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.AppendEvent(CapturedEvent{ID: "1", Event: "E_Opened_App", ReceivedAt: now})
	s.AppendEvent(CapturedEvent{ID: "2", Event: "E_First_Run", ReceivedAt: now})
	s.AppendEvent(CapturedEvent{ID: "3", Event: "E_Saved_Bookmark", ReceivedAt: now})

	events := s.Events()
	if len(events) != 3 {
		t.Fatalf("len(Events()) = %d, want 3", len(events))
	}
	for i, want := range []string{"1", "2", "3"} {
		if events[i].ID != want {
			t.Errorf("Events()[%d].ID = %q, want %q", i, events[i].ID, want)
		}
	}
	if got := s.EventCount(); got != 3 {
		t.Errorf("EventCount() = %d, want 3", got)
	}
}

func TestStore_Events_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.AppendEvent(CapturedEvent{ID: "1", Event: "E_Opened_App"})

	events := s.Events()
	events[0].ID = "mutated"

	if got := s.Events()[0].ID; got != "1" {
		t.Errorf("stored event ID = %q after mutating returned slice, want %q", got, "1")
	}
}

func TestStore_RecordStart_CountsAndUpserts(t *testing.T) {
	s := NewStore()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	s.RecordStart("device-1", "app-1", "development", map[string]any{"Focus Installed": false}, t0)
	s.RecordStart("device-1", "app-1", "development", map[string]any{"Focus Installed": true}, t1)

	devices := s.Devices()
	if len(devices) != 1 {
		t.Fatalf("len(Devices()) = %d, want 1", len(devices))
	}

	d := devices[0]
	if d.Starts != 2 {
		t.Errorf("Starts = %d, want 2", d.Starts)
	}
	if !d.FirstSeen.Equal(t0) {
		t.Errorf("FirstSeen = %v, want %v", d.FirstSeen, t0)
	}
	if !d.LastSeen.Equal(t1) {
		t.Errorf("LastSeen = %v, want %v", d.LastSeen, t1)
	}
	if got := d.Attributes["Focus Installed"]; got != true {
		t.Errorf("Attributes[Focus Installed] = %v, want true", got)
	}
}

func TestStore_RecordStart_NilAttributesKeepsPrevious(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.RecordStart("device-1", "app-1", "development", map[string]any{"Signed In Sync": true}, now)
	s.RecordStart("device-1", "app-1", "development", nil, now)

	d := s.Devices()[0]
	if got := d.Attributes["Signed In Sync"]; got != true {
		t.Errorf("Attributes[Signed In Sync] = %v, want true after nil-attrs start", got)
	}
}

func TestStore_ReplaceAttributes_ReplacesWholesale(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.ReplaceAttributes("device-1", "app-1", map[string]any{"Focus Installed": true, "Klar Installed": true}, now)
	s.ReplaceAttributes("device-1", "app-1", map[string]any{"Pocket Installed": true}, now)

	d := s.Devices()[0]
	if len(d.Attributes) != 1 {
		t.Fatalf("len(Attributes) = %d, want 1 (snapshots replace, not merge)", len(d.Attributes))
	}
	if got := d.Attributes["Pocket Installed"]; got != true {
		t.Errorf("Attributes[Pocket Installed] = %v, want true", got)
	}
}

func TestStore_Devices_SortedByDeviceID(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.RecordStart("device-c", "app-1", "development", nil, now)
	s.RecordStart("device-a", "app-1", "development", nil, now)
	s.RecordStart("device-b", "app-1", "development", nil, now)

	devices := s.Devices()
	for i, want := range []string{"device-a", "device-b", "device-c"} {
		if devices[i].DeviceID != want {
			t.Errorf("Devices()[%d].DeviceID = %q, want %q", i, devices[i].DeviceID, want)
		}
	}
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.AppendEvent(CapturedEvent{ID: "1", Event: "E_Opened_App"})
	s.RecordStart("device-1", "app-1", "development", nil, now)

	s.Reset()

	if got := s.EventCount(); got != 0 {
		t.Errorf("EventCount() after Reset = %d, want 0", got)
	}
	if got := len(s.Devices()); got != 0 {
		t.Errorf("len(Devices()) after Reset = %d, want 0", got)
	}

	// Store remains usable after reset
	s.RecordStart("device-2", "app-1", "development", nil, now)
	if got := len(s.Devices()); got != 1 {
		t.Errorf("len(Devices()) after post-reset start = %d, want 1", got)
	}
}
