package game

import (
	"github.com/rs/zerolog/log"
	"github.com/scythe504/bluffr-backend/internal"
)

// =============================================================================
// DISCONNECTS & CLEANUP
// =============================================================================

// Disconnect handles a closed connection. A host gets a short grace period
// before the room is torn down; a player mid-game is parked in the
// reconnection registry, while a player in the lobby simply leaves.
func (m *Manager) Disconnect(connID string) {
	for _, room := range m.store.List() {
		room.Mu.Lock()
		switch {
		case room.closed:
		case room.Host == connID:
			m.holdHost(room)
		case room.isPlayer(connID):
			m.dropPlayer(room, connID)
		}
		room.Mu.Unlock()
	}
}

func (m *Manager) holdHost(room *Room) {
	m.stopHostGrace(room)

	g := &graceTimer{}
	room.HostGrace = g
	g.timer = m.clock.AfterFunc(m.cfg.HostGrace, func() {
		room.Mu.Lock()
		defer room.Mu.Unlock()
		if room.closed || room.HostGrace != g {
			return
		}
		m.closeRoom(room)
	})

	log.Info().Str("room", room.Code).Str("host", room.Host).Dur("grace", m.cfg.HostGrace).
		Msg("[Disconnect] host disconnected, waiting for reconnect")
}

// closeRoom tears the room down for good. Must be called with room.Mu held.
func (m *Manager) closeRoom(room *Room) {
	m.out.BroadcastToRoom(room.Code, internal.NewEvent(internal.EventHostDisconnected, internal.HostDisconnectedData{}))

	m.cancelPhaseTimer(room)
	m.stopHostGrace(room)
	room.closed = true

	m.store.Delete(room.Code)
	dropped := m.registry.DropRoom(room.Code)
	m.out.CloseRoom(room.Code)

	log.Info().Str("room", room.Code).Int("players", len(room.Players)).Int("pending_dropped", dropped).
		Msg("[CloseRoom] room closed")
}

func (m *Manager) dropPlayer(room *Room, connID string) {
	player, lie, vote := room.removePlayer(connID)

	if room.Phase == internal.PhaseLobby {
		log.Info().Str("room", room.Code).Str("nickname", player.Nickname).Msg("[Disconnect] player left lobby")
		m.out.BroadcastToRoom(room.Code, internal.NewEvent(internal.EventPlayerLeft, internal.RosterChangeData{
			Players:  room.roster(),
			Nickname: player.Nickname,
		}))
		return
	}

	m.registry.Hold(&PendingPlayer{
		RoomCode: room.Code,
		Nickname: player.Nickname,
		Score:    player.Score,
		Lie:      lie,
		Vote:     vote,
	}, m.cfg.PlayerGrace, m.expirePending)

	log.Info().Str("room", room.Code).Str("nickname", player.Nickname).Int("score", player.Score).
		Dur("grace", m.cfg.PlayerGrace).Msg("[Disconnect] player disconnected, holding seat")

	m.out.BroadcastToRoom(room.Code, internal.NewEvent(internal.EventPlayerDisconnected, internal.RosterChangeData{
		Players:  room.roster(),
		Nickname: player.Nickname,
	}))
}

// expirePending runs on the clock when a player's grace period ends.
func (m *Manager) expirePending(p *PendingPlayer) {
	room, ok := m.store.Get(p.RoomCode)
	if !ok {
		m.registry.Expire(p)
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if !m.registry.Expire(p) || room.closed {
		return
	}

	log.Info().Str("room", room.Code).Str("nickname", p.Nickname).Msg("[ExpirePending] reconnect window closed")
	m.out.BroadcastToRoom(room.Code, internal.NewEvent(internal.EventPlayerLeft, internal.RosterChangeData{
		Players:  room.roster(),
		Nickname: p.Nickname,
	}))
}
