package game

import (
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/bluffr-backend/internal"
)

// =============================================================================
// GAME FLOW - ROUND MANAGEMENT
// =============================================================================

// startQuestion opens lie submission for the current question index.
// Must be called with room.Mu held.
func (m *Manager) startQuestion(room *Room, eventType string) {
	q, _ := m.bank.At(room.CurrentQuestionIndex)

	room.Phase = internal.PhaseSubmitLies
	room.resetRound()
	m.registry.ClearRound(room.Code)

	log.Info().Str("room", room.Code).Int("question", q.ID).Int("number", room.CurrentQuestionIndex+1).
		Msg("[StartQuestion] lie submission open")

	m.out.BroadcastToRoom(room.Code, internal.NewEvent(eventType, internal.QuestionStartedData{
		Question:       q.View(),
		Phase:          room.Phase,
		QuestionNumber: room.CurrentQuestionIndex + 1,
		TotalQuestions: m.bank.Len(),
	}))
	m.startPhaseTimer(room, m.cfg.LieSeconds, m.advanceToVoting)
}

// SubmitLie records or replaces connID's fake answer for the current question.
func (m *Manager) SubmitLie(connID, code, lie string) error {
	room, err := m.lockRoom(code)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	if room.Phase != internal.PhaseSubmitLies {
		return ErrInvalidPhase
	}
	if !room.isPlayer(connID) {
		return ErrNotAPlayer
	}

	lie = strings.TrimSpace(lie)
	if lie == "" {
		return ErrEmptyLie
	}
	if m.lieTaken(room, connID, lie) {
		return ErrDuplicateLie
	}

	room.CurrentLies.Set(connID, lie)
	submitted, total := room.CurrentLies.Len(), len(room.Players)

	log.Debug().Str("room", room.Code).Str("conn", connID).Int("submitted", submitted).Int("total", total).
		Msg("[SubmitLie] lie recorded")

	m.out.SendTo(room.Host, internal.NewEvent(internal.EventLiesProgress, internal.LiesProgressData{
		Submitted: submitted,
		Total:     total,
	}))

	if room.CurrentLies.Complete(total) {
		m.cancelPhaseTimer(room)
		m.advanceToVoting(room)
	}
	return nil
}

// lieTaken reports whether lie collides with the truth or with a lie another
// player (connected or pending) already wrote. Comparison ignores case.
func (m *Manager) lieTaken(room *Room, connID, lie string) bool {
	if q, ok := m.bank.At(room.CurrentQuestionIndex); ok && strings.EqualFold(q.Truth, lie) {
		return true
	}
	for _, s := range room.CurrentLies.Entries() {
		if s.PlayerID != connID && strings.EqualFold(s.Value, lie) {
			return true
		}
	}
	for _, p := range m.registry.InRoom(room.Code) {
		if p.Lie != nil && strings.EqualFold(*p.Lie, lie) {
			return true
		}
	}
	return false
}

// advanceToVoting fixes the canonical answer list for the round and opens
// voting. Must be called with room.Mu held.
func (m *Manager) advanceToVoting(room *Room) {
	if room.Phase != internal.PhaseSubmitLies {
		return
	}
	q, _ := m.bank.At(room.CurrentQuestionIndex)

	answers := make([]string, 0, room.CurrentLies.Len()+1)
	authors := make(map[string]string)
	for _, s := range room.CurrentLies.Entries() {
		authors[s.Value] = room.Players[s.PlayerID].Nickname
		answers = append(answers, s.Value)
	}
	// Lies from players who dropped after submitting still count.
	for _, p := range m.registry.InRoom(room.Code) {
		if p.Lie == nil {
			continue
		}
		if _, dup := authors[*p.Lie]; dup {
			continue
		}
		authors[*p.Lie] = p.Nickname
		answers = append(answers, *p.Lie)
	}
	answers = append(answers, q.Truth)
	m.shuffle(answers)

	room.Phase = internal.PhaseVoting
	room.Round = &Round{Answers: answers, Authors: authors}

	log.Info().Str("room", room.Code).Int("answers", len(answers)).Msg("[AdvanceToVoting] voting open")

	m.out.BroadcastToRoom(room.Code, internal.NewEvent(internal.EventVotingStarted, internal.VotingStartedData{
		Phase:   room.Phase,
		Answers: slices.Clone(answers),
	}))
	m.startPhaseTimer(room, m.cfg.VoteSeconds, m.computeResults)
}

// SubmitVote records or replaces connID's vote. answer must be one of the
// options sent in voting_started.
func (m *Manager) SubmitVote(connID, code, answer string) error {
	room, err := m.lockRoom(code)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	if room.Phase != internal.PhaseVoting {
		return ErrInvalidPhase
	}
	if !room.isPlayer(connID) {
		return ErrNotAPlayer
	}
	if !room.Round.Has(answer) {
		return ErrUnknownAnswer
	}

	room.CurrentVotes.Set(connID, answer)
	voted, total := room.CurrentVotes.Len(), len(room.Players)

	log.Debug().Str("room", room.Code).Str("conn", connID).Int("voted", voted).Int("total", total).
		Msg("[SubmitVote] vote recorded")

	m.out.SendTo(room.Host, internal.NewEvent(internal.EventVotesProgress, internal.VotesProgressData{
		Voted: voted,
		Total: total,
	}))

	if room.CurrentVotes.Complete(total) {
		m.cancelPhaseTimer(room)
		m.computeResults(room)
	}
	return nil
}

// computeResults scores the round and publishes the outcome. Must be called
// with room.Mu held.
func (m *Manager) computeResults(room *Room) {
	if room.Phase != internal.PhaseVoting {
		return
	}
	q, _ := m.bank.At(room.CurrentQuestionIndex)

	votes := make(map[string]string, room.CurrentVotes.Len())
	for _, s := range room.CurrentVotes.Entries() {
		votes[room.Players[s.PlayerID].Nickname] = s.Value
	}
	for _, p := range m.registry.InRoom(room.Code) {
		if p.Vote != nil && room.Round.Has(*p.Vote) {
			votes[p.Nickname] = *p.Vote
		}
	}

	outcome := ScoreRound(q.Truth, room.Round.Answers, room.Round.Authors, votes)
	for nickname, delta := range outcome.Deltas {
		if p := room.playerByNickname(nickname); p != nil {
			p.Score += delta
			continue
		}
		if !m.registry.AddScore(room.Code, nickname, delta) {
			log.Debug().Str("room", room.Code).Str("nickname", nickname).Int("delta", delta).
				Msg("[ComputeResults] dropping points for departed player")
		}
	}

	room.Phase = internal.PhaseResults
	log.Info().Str("room", room.Code).Int("votes", len(votes)).Msg("[ComputeResults] results ready")

	m.out.BroadcastToRoom(room.Code, internal.NewEvent(internal.EventResultsReady, internal.ResultsReadyData{
		Phase:         room.Phase,
		CorrectAnswer: q.Truth,
		AnswerResults: outcome.Answers,
		CurrentScores: internal.SortByScore(room.roster()),
	}))
}

// NextQuestion advances past the results screen. It reports true once the
// bank is exhausted and the final podium has been shown.
func (m *Manager) NextQuestion(connID, code string) (bool, error) {
	room, err := m.lockRoom(code)
	if err != nil {
		return false, err
	}
	defer room.Mu.Unlock()

	if room.Host != connID {
		return false, ErrUnauthorized
	}
	if room.Phase != internal.PhaseResults {
		return false, ErrInvalidPhase
	}

	room.CurrentQuestionIndex++
	if room.CurrentQuestionIndex >= m.bank.Len() {
		m.finishGame(room)
		return true, nil
	}

	m.startQuestion(room, internal.EventNextQuestionStarted)
	return false, nil
}

// finishGame shows the podium. The room stays open until the host leaves.
func (m *Manager) finishGame(room *Room) {
	m.cancelPhaseTimer(room)
	room.Phase = internal.PhaseFinalPodium
	room.resetRound()
	m.registry.ClearRound(room.Code)

	log.Info().Str("room", room.Code).Int("players", len(room.Players)).Msg("[FinishGame] game over")

	m.out.BroadcastToRoom(room.Code, internal.NewEvent(internal.EventFinalPodium, internal.FinalPodiumData{
		Phase:       room.Phase,
		FinalScores: internal.SortByScore(room.roster()),
	}))
}
