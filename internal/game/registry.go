package game

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// =============================================================================
// RECONNECTION REGISTRY
// =============================================================================

// PendingPlayer is a player that dropped mid-game and may still come back.
// Score, Lie and Vote are what they held at the moment they left.
type PendingPlayer struct {
	RoomCode       string
	Nickname       string
	Score          int
	Lie            *string
	Vote           *string
	DisconnectedAt time.Time

	timer clockwork.Timer
}

type pendingKey struct {
	roomCode string
	nickname string
}

// Registry holds disconnected players per (room, nickname) until they
// reconnect or their grace period runs out. Its lock is always taken after
// the room lock, never before.
type Registry struct {
	clock   clockwork.Clock
	mu      sync.Mutex
	pending map[pendingKey]*PendingPlayer
}

func NewRegistry(clock clockwork.Clock) *Registry {
	return &Registry{
		clock:   clock,
		pending: make(map[pendingKey]*PendingPlayer),
	}
}

// Hold stores p and arms its expiry. onExpire receives the exact entry that
// was armed; it must call Expire to find out whether the entry is still the
// live one. A previous entry for the same key is replaced and its timer
// stopped.
func (r *Registry) Hold(p *PendingPlayer, grace time.Duration, onExpire func(*PendingPlayer)) {
	key := pendingKey{p.RoomCode, p.Nickname}
	p.DisconnectedAt = r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.pending[key]; ok && old.timer != nil {
		old.timer.Stop()
	}
	r.pending[key] = p
	p.timer = r.clock.AfterFunc(grace, func() { onExpire(p) })
}

// Claim removes and returns the entry for (roomCode, nickname), cancelling
// its expiry.
func (r *Registry) Claim(roomCode, nickname string) (*PendingPlayer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pendingKey{roomCode, nickname}
	p, ok := r.pending[key]
	if !ok {
		return nil, false
	}
	delete(r.pending, key)
	if p.timer != nil {
		p.timer.Stop()
	}
	return p, true
}

// Expire removes p only if it is still the registered entry for its key.
// It reports false when p was already claimed or replaced.
func (r *Registry) Expire(p *PendingPlayer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pendingKey{p.RoomCode, p.Nickname}
	if r.pending[key] != p {
		return false
	}
	delete(r.pending, key)
	return true
}

// AddScore credits delta to a pending player's preserved score.
func (r *Registry) AddScore(roomCode, nickname string, delta int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[pendingKey{roomCode, nickname}]
	if !ok {
		return false
	}
	p.Score += delta
	return true
}

// InRoom returns copies of the pending entries for roomCode sorted by
// nickname.
func (r *Registry) InRoom(roomCode string) []PendingPlayer {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []PendingPlayer
	for key, p := range r.pending {
		if key.roomCode == roomCode {
			entry := *p
			entry.timer = nil
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Nickname < entries[j].Nickname })
	return entries
}

// ClearRound forgets the lies and votes pending players carried over from a
// finished question.
func (r *Registry) ClearRound(roomCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, p := range r.pending {
		if key.roomCode == roomCode {
			p.Lie = nil
			p.Vote = nil
		}
	}
}

// DropRoom discards every entry for roomCode and returns how many there were.
func (r *Registry) DropRoom(roomCode string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for key, p := range r.pending {
		if key.roomCode != roomCode {
			continue
		}
		if p.timer != nil {
			p.timer.Stop()
		}
		delete(r.pending, key)
		dropped++
	}
	return dropped
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Stop cancels every pending expiry and empties the registry.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, p := range r.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		delete(r.pending, key)
	}
}
