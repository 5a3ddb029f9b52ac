package game

import (
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/bluffr-backend/internal"
)

// =============================================================================
// GAME FLOW - LOBBY & SESSIONS
// =============================================================================

// CreateRoom opens a lobby hosted by connID and returns its code.
func (m *Manager) CreateRoom(connID string) (string, error) {
	room, err := m.store.Create(connID, m.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("conn", connID).Msg("[CreateRoom] could not allocate room")
		return "", err
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()
	m.out.Subscribe(room.Code, connID)

	log.Info().Str("room", room.Code).Str("host", connID).Msg("[CreateRoom] room created")
	return room.Code, nil
}

// ReconnectHost rebinds the host role to connID and cancels a pending host
// grace timer.
func (m *Manager) ReconnectHost(connID, code string) ([]internal.Player, error) {
	room, err := m.lockRoom(code)
	if err != nil {
		return nil, err
	}
	defer room.Mu.Unlock()

	if room.isPlayer(connID) {
		return nil, ErrUnauthorized
	}

	m.stopHostGrace(room)
	previous := room.Host
	room.Host = connID
	m.out.Subscribe(room.Code, connID)

	log.Info().Str("room", room.Code).Str("host", connID).Str("previous", previous).
		Msg("[ReconnectHost] host reconnected")
	return room.roster(), nil
}

// JoinRoom adds connID to a lobby under nickname.
func (m *Manager) JoinRoom(connID, code, nickname string) error {
	room, err := m.lockRoom(code)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	if room.Phase != internal.PhaseLobby {
		return ErrGameAlreadyStarted
	}
	if room.Host == connID {
		return ErrUnauthorized
	}
	if room.isPlayer(connID) {
		return ErrAlreadyConnected
	}
	if room.playerByNickname(nickname) != nil {
		return ErrNicknameTaken
	}

	m.out.Subscribe(room.Code, connID)
	room.addPlayer(connID, nickname, 0)

	log.Info().Str("room", room.Code).Str("conn", connID).Str("nickname", nickname).
		Int("players", len(room.Players)).Msg("[JoinRoom] player joined")

	m.out.BroadcastToRoom(room.Code, internal.NewEvent(internal.EventPlayerJoined, internal.RosterData{
		Players: room.roster(),
	}))
	return nil
}

// ReconnectPlayer restores a player held in the reconnection registry onto
// connID and returns the state they need to resume.
func (m *Manager) ReconnectPlayer(connID, code, nickname string) (*internal.GameState, error) {
	room, err := m.lockRoom(code)
	if err != nil {
		return nil, err
	}
	defer room.Mu.Unlock()

	if room.Host == connID {
		return nil, ErrUnauthorized
	}
	if room.isPlayer(connID) {
		return nil, ErrAlreadyConnected
	}

	pending, ok := m.registry.Claim(room.Code, nickname)
	if !ok {
		if room.playerByNickname(nickname) != nil {
			return nil, ErrAlreadyConnected
		}
		return nil, ErrSessionExpired
	}

	m.out.Subscribe(room.Code, connID)
	player := room.addPlayer(connID, nickname, pending.Score)
	if pending.Lie != nil {
		room.CurrentLies.Set(connID, *pending.Lie)
	}
	if pending.Vote != nil {
		room.CurrentVotes.Set(connID, *pending.Vote)
	}

	log.Info().Str("room", room.Code).Str("conn", connID).Str("nickname", nickname).
		Dur("away", m.clock.Since(pending.DisconnectedAt)).Msg("[ReconnectPlayer] player rejoined")

	m.out.BroadcastToRoom(room.Code, internal.NewEvent(internal.EventPlayerRejoined, internal.RosterChangeData{
		Players:  room.roster(),
		Nickname: nickname,
	}))

	state := &internal.GameState{
		Phase:           room.Phase,
		QuestionNumber:  m.questionNumber(room),
		TotalQuestions:  m.bank.Len(),
		Score:           player.Score,
		HasSubmittedLie: pending.Lie != nil,
		HasVoted:        pending.Vote != nil,
		Answers:         []string{},
	}
	if q, ok := m.bank.At(room.CurrentQuestionIndex); ok && room.Phase != internal.PhaseFinalPodium {
		state.Question = q.View()
	}
	if room.Phase == internal.PhaseVoting && room.Round != nil {
		state.Answers = slices.Clone(room.Round.Answers)
	}
	return state, nil
}

// StartGame moves a lobby with at least one player into the first question.
func (m *Manager) StartGame(connID, code string) error {
	room, err := m.lockRoom(code)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	if room.Host != connID {
		return ErrUnauthorized
	}
	if room.Phase != internal.PhaseLobby {
		return ErrInvalidPhase
	}
	if len(room.Players) == 0 {
		return ErrNoPlayers
	}

	room.CurrentQuestionIndex = 0
	log.Info().Str("room", room.Code).Int("players", len(room.Players)).
		Int("questions", m.bank.Len()).Msg("[StartGame] game started")

	m.startQuestion(room, internal.EventGameStarted)
	return nil
}
