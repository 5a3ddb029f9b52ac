package game

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/bluffr-backend/internal"
	"github.com/scythe504/bluffr-backend/internal/questions"
	"github.com/scythe504/bluffr-backend/internal/utils"
)

// Broadcaster delivers events to connected clients. Every method is called
// with a room lock held and must not block on slow connections.
type Broadcaster interface {
	Subscribe(roomCode, connID string)
	BroadcastToRoom(roomCode string, event internal.Event)
	SendTo(connID string, event internal.Event)
	CloseRoom(roomCode string)
}

type Config struct {
	LieSeconds  int
	VoteSeconds int
	HostGrace   time.Duration
	PlayerGrace time.Duration
}

func DefaultConfig() Config {
	return Config{
		LieSeconds:  internal.LieSubmissionSeconds,
		VoteSeconds: internal.VotingSeconds,
		HostGrace:   internal.HostGracePeriod,
		PlayerGrace: internal.PlayerGracePeriod,
	}
}

// Manager owns every room in the process and runs the game state machine
// for each of them. Operations on different rooms never contend beyond the
// short store lookup.
type Manager struct {
	cfg      Config
	bank     *questions.Bank
	clock    clockwork.Clock
	out      Broadcaster
	store    *Store
	registry *Registry
	shuffle  func([]string)
}

func NewManager(cfg Config, bank *questions.Bank, clock clockwork.Clock, out Broadcaster) *Manager {
	return &Manager{
		cfg:      cfg,
		bank:     bank,
		clock:    clock,
		out:      out,
		store:    NewStore(),
		registry: NewRegistry(clock),
		shuffle:  utils.Shuffle,
	}
}

// lockRoom looks up code and returns the room locked. The caller unlocks.
func (m *Manager) lockRoom(code string) (*Room, error) {
	room, ok := m.store.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.Mu.Lock()
	if room.closed {
		room.Mu.Unlock()
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Room returns a read-only summary of a live room.
func (m *Manager) Room(code string) (internal.RoomSummary, error) {
	room, err := m.lockRoom(code)
	if err != nil {
		return internal.RoomSummary{}, err
	}
	defer room.Mu.Unlock()

	return internal.RoomSummary{
		Code:           room.Code,
		Phase:          room.Phase,
		QuestionNumber: m.questionNumber(room),
		TotalQuestions: m.bank.Len(),
		PlayerCount:    len(room.Players),
		CreatedAt:      room.CreatedAt,
	}, nil
}

func (m *Manager) RoomCount() int {
	return m.store.Len()
}

// Shutdown stops every timer the manager armed and forgets all rooms.
func (m *Manager) Shutdown() {
	rooms := m.store.List()
	for _, room := range rooms {
		room.Mu.Lock()
		m.cancelPhaseTimer(room)
		m.stopHostGrace(room)
		room.closed = true
		room.Mu.Unlock()
		m.store.Delete(room.Code)
	}
	m.registry.Stop()
	log.Info().Int("rooms", len(rooms)).Msg("[Shutdown] game manager stopped")
}

func (m *Manager) questionNumber(room *Room) int {
	if room.Phase == internal.PhaseLobby {
		return 0
	}
	return min(room.CurrentQuestionIndex+1, m.bank.Len())
}
