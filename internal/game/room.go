package game

import (
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/scythe504/bluffr-backend/internal"
)

// =============================================================================
// ROOM MODEL
// =============================================================================

// Room is one game session. Every field is guarded by Mu; operations and
// timer callbacks take it for their whole duration.
type Room struct {
	Code string
	// Host is the connection currently acting as host. It keeps pointing at
	// the old connection during the host grace period.
	Host string

	Players     map[string]*internal.Player
	PlayerOrder []string

	Phase                internal.GamePhase
	CurrentQuestionIndex int

	CurrentLies  *Submissions
	CurrentVotes *Submissions
	Round        *Round

	Timer     *GameTimer
	HostGrace *graceTimer

	CreatedAt time.Time
	closed    bool

	Mu sync.Mutex
}

// Round is the canonical answer list for the current voting phase. It is
// fixed once when voting starts so every client, reconnect snapshot and
// the results screen see the same order.
type Round struct {
	Answers []string
	Authors map[string]string
}

func (r *Round) Has(answer string) bool {
	return r != nil && slices.Contains(r.Answers, answer)
}

type graceTimer struct {
	timer clockwork.Timer
}

func newRoom(code, host string, now time.Time) *Room {
	return &Room{
		Code:         code,
		Host:         host,
		Players:      make(map[string]*internal.Player),
		PlayerOrder:  make([]string, 0),
		Phase:        internal.PhaseLobby,
		CurrentLies:  NewSubmissions(),
		CurrentVotes: NewSubmissions(),
		CreatedAt:    now,
	}
}

func (r *Room) addPlayer(id, nickname string, score int) *internal.Player {
	p := &internal.Player{Id: id, Nickname: nickname, Score: score}
	r.Players[id] = p
	r.PlayerOrder = append(r.PlayerOrder, id)
	return p
}

// removePlayer drops id from the roster and from this round's submissions,
// returning what it took out so the caller can hold it for a reconnect.
func (r *Room) removePlayer(id string) (player *internal.Player, lie, vote *string) {
	player, ok := r.Players[id]
	if !ok {
		return nil, nil, nil
	}
	delete(r.Players, id)
	r.PlayerOrder = slices.DeleteFunc(r.PlayerOrder, func(s string) bool { return s == id })

	if v, ok := r.CurrentLies.Delete(id); ok {
		lie = &v
	}
	if v, ok := r.CurrentVotes.Delete(id); ok {
		vote = &v
	}
	return player, lie, vote
}

func (r *Room) playerByNickname(nickname string) *internal.Player {
	for _, id := range r.PlayerOrder {
		if p := r.Players[id]; p.Nickname == nickname {
			return p
		}
	}
	return nil
}

// roster snapshots the active players in join order.
func (r *Room) roster() []internal.Player {
	players := make([]internal.Player, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		players = append(players, r.Players[id].Snapshot())
	}
	return players
}

func (r *Room) isPlayer(id string) bool {
	_, ok := r.Players[id]
	return ok
}

func (r *Room) resetRound() {
	r.CurrentLies.Clear()
	r.CurrentVotes.Clear()
	r.Round = nil
}
