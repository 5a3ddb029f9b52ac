package game

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/scythe504/bluffr-backend/internal"
	"github.com/scythe504/bluffr-backend/internal/questions"
)

type sent struct {
	Room  string
	Conn  string
	Event internal.Event
}

// recorder is a Broadcaster that keeps everything it is asked to deliver.
type recorder struct {
	mu     sync.Mutex
	events []sent
	subs   map[string][]string
	closed []string
}

func newRecorder() *recorder {
	return &recorder{subs: make(map[string][]string)}
}

func (r *recorder) Subscribe(roomCode, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[roomCode] = append(r.subs[roomCode], connID)
}

func (r *recorder) BroadcastToRoom(roomCode string, event internal.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sent{Room: roomCode, Event: event})
}

func (r *recorder) SendTo(connID string, event internal.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sent{Conn: connID, Event: event})
}

func (r *recorder) CloseRoom(roomCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, roomCode)
}

func (r *recorder) all(eventType string) []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sent
	for _, e := range r.events {
		if e.Event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) count(eventType string) int {
	return len(r.all(eventType))
}

func (r *recorder) last(t *testing.T, eventType string) sent {
	t.Helper()
	events := r.all(eventType)
	if len(events) == 0 {
		t.Fatalf("no %s event recorded", eventType)
	}
	return events[len(events)-1]
}

func (r *recorder) lastRemaining() int {
	events := r.all(internal.EventTimerUpdate)
	if len(events) == 0 {
		return -1
	}
	return events[len(events)-1].Event.Data.(internal.TimerUpdateData).Remaining
}

func (r *recorder) closedRooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.closed...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func testBank(t *testing.T) *questions.Bank {
	t.Helper()
	b, err := questions.New([]internal.Question{
		{ID: 1, Text: "What do people forget most at hotels?", Truth: "phone charger"},
		{ID: 2, Text: "What is the best pizza topping?", Truth: "pineapple"},
	})
	if err != nil {
		t.Fatalf("questions.New: %v", err)
	}
	return b
}

type harness struct {
	m     *Manager
	clock *clockwork.FakeClock
	rec   *recorder
}

// newHarness builds a manager on a fake clock whose shuffle keeps lies in
// submission order with the truth last.
func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := clockwork.NewFakeClock()
	rec := newRecorder()
	m := NewManager(DefaultConfig(), testBank(t), clock, rec)
	m.shuffle = func([]string) {}
	t.Cleanup(m.Shutdown)
	return &harness{m: m, clock: clock, rec: rec}
}

// lobby creates a room hosted by "host" with the given players joined. Player
// connection ids equal their nicknames.
func (h *harness) lobby(t *testing.T, nicknames ...string) string {
	t.Helper()
	code, err := h.m.CreateRoom("host")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	for _, n := range nicknames {
		if err := h.m.JoinRoom(n, code, n); err != nil {
			t.Fatalf("JoinRoom(%s): %v", n, err)
		}
	}
	return code
}

func (h *harness) started(t *testing.T, nicknames ...string) string {
	t.Helper()
	code := h.lobby(t, nicknames...)
	if err := h.m.StartGame("host", code); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	return code
}

func (r *recorder) expiries() int {
	n := 0
	for _, e := range r.all(internal.EventTimerUpdate) {
		if e.Event.Data.(internal.TimerUpdateData).Remaining == 0 {
			n++
		}
	}
	return n
}

// runDown steps the fake clock until the running countdown, which last
// reported from, reaches zero. The expiry callback may start the next
// countdown straight away, so completion is detected by the zero tick.
func (h *harness) runDown(t *testing.T, from int) {
	t.Helper()
	expired := h.rec.expiries()
	for remaining := from; remaining > 0; remaining-- {
		waitFor(t, "timer tick", func() bool { return h.rec.lastRemaining() == remaining })
		h.clock.Advance(time.Second)
	}
	waitFor(t, "timer expiry", func() bool { return h.rec.expiries() > expired })
}

func (h *harness) phase(t *testing.T, code string) internal.GamePhase {
	t.Helper()
	summary, err := h.m.Room(code)
	if err != nil {
		t.Fatalf("Room(%s): %v", code, err)
	}
	return summary.Phase
}
