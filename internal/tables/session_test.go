package tables

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/scene"
)

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages map[string][]map[string]interface{}
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{messages: make(map[string][]map[string]interface{})}
}

func (f *fakeBroadcaster) BroadcastToTable(tableID string, message interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[tableID] = append(f.messages[tableID], message.(map[string]interface{}))
}

func (f *fakeBroadcaster) ofType(tableID, typ string) []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []map[string]interface{}
	for _, m := range f.messages[tableID] {
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

const dt = 1.0 / game.TargetFPS

func TestSessionUsesDriverFrameRate(t *testing.T) {
	s := newSession("t_1", nil, nil, nil)
	if s.Interval() != time.Second/game.TargetFPS {
		t.Errorf("interval = %v, want %v", s.Interval(), time.Second/game.TargetFPS)
	}
	if st := s.State(); !st.Snapshot.Frozen || st.Shots != 0 || !st.Live {
		t.Errorf("fresh table state = %+v", st)
	}
}

func TestSessionShotThroughInputQueue(t *testing.T) {
	fb := newFakeBroadcaster()
	s := newSession("t_1", fb, nil, nil)

	if err := s.Press(0, 0); err != nil {
		t.Fatal(err)
	}
	for n := 0; n < game.TargetFPS/2; n++ {
		s.tick(dt)
	}
	if p := s.State().Snapshot.ChargeProgress; math.Abs(p-0.5) > 1e-9 {
		t.Fatalf("charge after half a second = %v", p)
	}

	if err := s.Release(game.TableWidth/2, 0); err != nil {
		t.Fatal(err)
	}
	s.tick(dt)

	st := s.State()
	if st.Shots != 1 {
		t.Errorf("shots = %d, want 1", st.Shots)
	}
	// One tick of friction has already been applied.
	cue := st.Snapshot.Balls[game.CueBall]
	if math.Abs(cue.VX-game.Impulse*0.5) > 1e-2 || cue.VY != 0 {
		t.Errorf("cue velocity = (%v, %v)", cue.VX, cue.VY)
	}
	if st.Snapshot.Charging || st.Snapshot.ChargeProgress != 0 {
		t.Error("charge not cleared by release")
	}

	var sawShot bool
	for _, m := range fb.ofType("t_1", "frame") {
		for _, e := range m["events"].([]game.Event) {
			if e.Type == game.EventShot {
				sawShot = true
			}
		}
	}
	if !sawShot {
		t.Error("no frame message carried the shot event")
	}
}

func TestSessionBroadcastsOnlyOnChange(t *testing.T) {
	fb := newFakeBroadcaster()
	s := newSession("t_1", fb, nil, nil)

	s.tick(dt)
	first := len(fb.ofType("t_1", "frame"))
	if first != 1 {
		t.Fatalf("frames after first tick = %d, want 1 (rack)", first)
	}
	for n := 0; n < 5; n++ {
		s.tick(dt)
	}
	if got := len(fb.ofType("t_1", "frame")); got != first {
		t.Errorf("idle table broadcast %d extra frames", got-first)
	}

	s.Press(0, 0)
	s.tick(dt)
	msgs := fb.ofType("t_1", "frame")
	if len(msgs) != first+1 {
		t.Fatalf("charging did not broadcast a frame")
	}
	if f := msgs[len(msgs)-1]["frame"].(*scene.Frame); f.Progress <= 0 {
		t.Errorf("frame progress = %v, want > 0", f.Progress)
	}
}

func TestSessionInputQueueFull(t *testing.T) {
	s := newSession("t_1", nil, nil, nil)
	for n := 0; n < inputQueueSize; n++ {
		if err := s.Press(0, 0); err != nil {
			t.Fatalf("press %d: %v", n, err)
		}
	}
	if err := s.Release(1, 1); err != ErrInputQueueFull {
		t.Errorf("err = %v, want ErrInputQueueFull", err)
	}

	s.tick(dt)
	if err := s.Release(1, 1); err != nil {
		t.Errorf("queue not drained by tick: %v", err)
	}
}

func TestSessionIdleTracksInput(t *testing.T) {
	s := newSession("t_1", nil, nil, nil)
	later := time.Now().Add(time.Minute)
	if s.IdleFor(later) < 59*time.Second {
		t.Fatal("fresh session not idle")
	}
	s.mu.Lock()
	s.lastActivity = time.Now().Add(-time.Hour)
	s.mu.Unlock()
	s.Press(0, 0)
	if s.IdleFor(time.Now()) > time.Second {
		t.Error("press did not refresh last activity")
	}
}

func TestSessionClickWithoutChargeIsNotAShot(t *testing.T) {
	s := newSession("t_1", nil, nil, nil)
	defer s.stop()

	s.Press(0, 0)
	s.Release(game.TableWidth/2, 0)
	res := s.advance(dt)

	if len(res.events) != 0 || res.state != nil {
		t.Errorf("uncharged click produced events %+v and state %v", res.events, res.state != nil)
	}
	if st := s.State(); st.Shots != 0 || !st.Snapshot.Frozen {
		t.Errorf("state after uncharged click = shots %d frozen %v", st.Shots, st.Snapshot.Frozen)
	}
}

func TestSessionStopDrainsWrites(t *testing.T) {
	s := newSession("t_1", nil, nil, nil)

	state := s.State()
	for n := 0; n < 3; n++ {
		s.writes <- write{state: &state}
	}
	s.stop()

	if len(s.writes) != 0 {
		t.Errorf("%d writes left after stop", len(s.writes))
	}
	select {
	case <-s.written:
	default:
		t.Error("writer still running after stop")
	}
	s.stop()
}
