package livestore

import (
	"testing"

	"github.com/carl0-ilagan/padbuddy-server/pkg/readings"
)

func newTestStore() *Store {
	var clock int64
	return New(15, func() int64 { clock += 1000; return clock })
}

func TestMergeIsPartialLastWriteWins(t *testing.T) {
	s := newTestStore()

	s.Merge("DEVICE_0001", map[string]interface{}{"connected": true, "latitude": 14.6})
	s.Merge("DEVICE_0001", map[string]interface{}{"connected": false})

	state, ok := s.Get("DEVICE_0001")
	if !ok {
		t.Fatal("device missing after merge")
	}
	if state.Connected {
		t.Error("later connected=false should win")
	}
	if state.Latitude == nil || *state.Latitude != 14.6 {
		t.Error("untouched latitude field should survive the second merge")
	}
}

func TestMergeBuffersLiveReadings(t *testing.T) {
	s := newTestStore()

	s.Merge("DEVICE_0002", map[string]interface{}{
		"npk": map[string]interface{}{"nitrogen": 10.0, "phosphorus": 5.0, "potassium": 8.0},
	})
	s.Merge("DEVICE_0002", map[string]interface{}{"connected": true}) // no NPK, no buffer push

	recent := s.Recent("DEVICE_0002")
	if len(recent) != 1 {
		t.Fatalf("expected 1 buffered reading, got %d", len(recent))
	}
	if recent[0].Source != readings.SourceLiveFeed {
		t.Errorf("buffered reading source = %q", recent[0].Source)
	}
	if recent[0].N == nil || *recent[0].N != 10 {
		t.Errorf("buffered nitrogen = %v", recent[0].N)
	}
}

func TestSubscribeDeliversAndTearsDown(t *testing.T) {
	s := newTestStore()
	sub := s.Subscribe("DEVICE_0003")

	s.Merge("DEVICE_0003", map[string]interface{}{"connected": true})

	select {
	case state := <-sub.C:
		if !state.Connected {
			t.Error("snapshot should reflect the merge")
		}
	default:
		t.Fatal("no update delivered to subscriber")
	}

	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent

	if _, open := <-sub.C; open {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestSlowSubscriberDoesNotBlockWriter(t *testing.T) {
	s := newTestStore()
	sub := s.Subscribe("DEVICE_0004")
	defer sub.Unsubscribe()

	// More merges than channel capacity; must not deadlock.
	for i := 0; i < 20; i++ {
		s.Merge("DEVICE_0004", map[string]interface{}{"connected": i%2 == 0})
	}
}

func TestClaimAndRelease(t *testing.T) {
	s := newTestStore()

	if err := s.Claim("DEVICE_0005", "user-a"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if err := s.Claim("DEVICE_0005", "user-a"); err != nil {
		t.Errorf("re-claim by owner should be a no-op, got %v", err)
	}
	if err := s.Claim("DEVICE_0005", "user-b"); err != ErrDeviceClaimed {
		t.Errorf("claim by other user = %v, want ErrDeviceClaimed", err)
	}

	s.Release("DEVICE_0005")
	if err := s.Claim("DEVICE_0005", "user-b"); err != nil {
		t.Errorf("claim after release failed: %v", err)
	}
}

func TestRawCopiesAreIsolated(t *testing.T) {
	s := newTestStore()
	s.Merge("DEVICE_0006", map[string]interface{}{"connected": true})

	raw, _ := s.Raw("DEVICE_0006")
	raw["connected"] = false

	state, _ := s.Get("DEVICE_0006")
	if !state.Connected {
		t.Error("mutating a Raw copy must not affect the store")
	}
}
