package game

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/bluffr-backend/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// GameTimer is the per-room phase countdown. A room has at most one; starting
// a new one replaces the old.
type GameTimer struct {
	Remaining int
	IsActive  bool

	timer clockwork.Timer
}

// startPhaseTimer emits timer_update once per second from seconds down to 0
// and then calls onExpire, all under room.Mu. Must be called with room.Mu
// held.
func (m *Manager) startPhaseTimer(room *Room, seconds int, onExpire func(*Room)) {
	m.cancelPhaseTimer(room)

	t := &GameTimer{Remaining: seconds, IsActive: true}
	room.Timer = t
	log.Debug().Str("room", room.Code).Str("phase", string(room.Phase)).Int("seconds", seconds).
		Msg("[StartPhaseTimer] timer started")

	m.tick(room, t, onExpire)
}

// tick runs with room.Mu held. The next second is armed before the update is
// broadcast, so whoever observes remaining=N can rely on N-1 being scheduled.
func (m *Manager) tick(room *Room, t *GameTimer, onExpire func(*Room)) {
	remaining := t.Remaining
	if remaining > 0 {
		t.Remaining--
		t.timer = m.clock.AfterFunc(time.Second, func() {
			room.Mu.Lock()
			defer room.Mu.Unlock()

			// A cancelled or replaced timer may still fire once.
			if room.closed || room.Timer != t || !t.IsActive {
				return
			}
			m.tick(room, t, onExpire)
		})
	}

	m.out.BroadcastToRoom(room.Code, internal.NewEvent(internal.EventTimerUpdate, internal.TimerUpdateData{
		Remaining: remaining,
	}))

	if remaining <= 0 {
		t.IsActive = false
		room.Timer = nil
		log.Debug().Str("room", room.Code).Str("phase", string(room.Phase)).Msg("[StartPhaseTimer] timer expired")
		onExpire(room)
	}
}

// cancelPhaseTimer stops the current countdown without firing its callback.
// Must be called with room.Mu held.
func (m *Manager) cancelPhaseTimer(room *Room) {
	t := room.Timer
	if t == nil {
		return
	}
	t.IsActive = false
	if t.timer != nil {
		t.timer.Stop()
	}
	room.Timer = nil
	log.Debug().Str("room", room.Code).Int("remaining", t.Remaining).Msg("[CancelPhaseTimer] timer cancelled")
}

func (m *Manager) stopHostGrace(room *Room) {
	if room.HostGrace == nil {
		return
	}
	room.HostGrace.timer.Stop()
	room.HostGrace = nil
}
