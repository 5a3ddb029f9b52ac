package internal

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Event is an outbound message whose payload has already been chosen.
type Event = Message[any]

const (
	EventPlayerJoined        = "player_joined"
	EventPlayerRejoined      = "player_rejoined"
	EventPlayerDisconnected  = "player_disconnected"
	EventPlayerLeft          = "player_left"
	EventHostDisconnected    = "host_disconnected"
	EventGameStarted         = "game_started"
	EventLiesProgress        = "lies_progress"
	EventVotingStarted       = "voting_started"
	EventVotesProgress       = "votes_progress"
	EventTimerUpdate         = "timer_update"
	EventResultsReady        = "results_ready"
	EventNextQuestionStarted = "next_question_started"
	EventFinalPodium         = "final_podium"
)

func NewEvent[T any](eventType string, data T) Event {
	return Event{Type: eventType, Data: data}
}

type RosterData struct {
	Players []Player `json:"players"`
}

// RosterChangeData is shared by player_rejoined, player_disconnected and
// player_left.
type RosterChangeData struct {
	Players  []Player `json:"players"`
	Nickname string   `json:"nickname"`
}

type HostDisconnectedData struct{}

// QuestionStartedData is shared by game_started and next_question_started.
type QuestionStartedData struct {
	Question       *QuestionView `json:"question"`
	Phase          GamePhase     `json:"phase"`
	QuestionNumber int           `json:"questionNumber"`
	TotalQuestions int           `json:"totalQuestions"`
}

type LiesProgressData struct {
	Submitted int `json:"submitted"`
	Total     int `json:"total"`
}

type VotesProgressData struct {
	Voted int `json:"voted"`
	Total int `json:"total"`
}

type VotingStartedData struct {
	Phase   GamePhase `json:"phase"`
	Answers []string  `json:"answers"`
}

type TimerUpdateData struct {
	Remaining int `json:"remaining"`
}

type ResultsReadyData struct {
	Phase         GamePhase      `json:"phase"`
	CorrectAnswer string         `json:"correctAnswer"`
	AnswerResults []AnswerResult `json:"answerResults"`
	CurrentScores []Player       `json:"currentScores"`
}

type FinalPodiumData struct {
	Phase       GamePhase `json:"phase"`
	FinalScores []Player  `json:"finalScores"`
}
