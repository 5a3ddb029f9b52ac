package internal

import "time"

const (
	LieSubmissionSeconds = 45
	VotingSeconds        = 20
	HostGracePeriod      = 5 * time.Second
	PlayerGracePeriod    = 120 * time.Second

	TruthPoints = 1000
	LiePoints   = 500
)

type GamePhase string

const (
	PhaseLobby       GamePhase = "lobby"
	PhaseSubmitLies  GamePhase = "submit_lies"
	PhaseVoting      GamePhase = "voting"
	PhaseResults     GamePhase = "results"
	PhaseFinalPodium GamePhase = "final_podium"
)

// Question is one entry of the question bank. Truth never leaves the server
// until results are shown.
type Question struct {
	ID    int    `json:"id" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Truth string `json:"-" yaml:"truth"`
}

// QuestionView is the public part of a question sent to clients.
type QuestionView struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

func (q Question) View() *QuestionView {
	return &QuestionView{ID: q.ID, Text: q.Text}
}

// AnswerResult describes how one answer fared in a voting round.
type AnswerResult struct {
	Answer    string  `json:"answer"`
	Votes     int     `json:"votes"`
	IsCorrect bool    `json:"isCorrect"`
	Author    *string `json:"author"`
}

// GameState is the snapshot handed to a player that rejoins mid-game.
type GameState struct {
	Phase           GamePhase     `json:"phase"`
	Question        *QuestionView `json:"question"`
	QuestionNumber  int           `json:"questionNumber"`
	TotalQuestions  int           `json:"totalQuestions"`
	Score           int           `json:"score"`
	HasSubmittedLie bool          `json:"hasSubmittedLie"`
	HasVoted        bool          `json:"hasVoted"`
	Answers         []string      `json:"answers"`
}

// RoomSummary is the read-only view served over HTTP.
type RoomSummary struct {
	Code           string    `json:"roomCode"`
	Phase          GamePhase `json:"phase"`
	QuestionNumber int       `json:"questionNumber"`
	TotalQuestions int       `json:"totalQuestions"`
	PlayerCount    int       `json:"playerCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Response is the envelope for plain HTTP endpoints.
type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}
