package internal

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	ActionCreateRoom      = "create_room"
	ActionReconnectHost   = "reconnect_host"
	ActionJoinRoom        = "join_room"
	ActionReconnectPlayer = "reconnect_player"
	ActionStartGame       = "start_game"
	ActionSubmitLie       = "submit_lie"
	ActionSubmitVote      = "submit_vote"
	ActionNextQuestion    = "next_question"

	TypeAck = "ack"
)

// Request is the inbound envelope. ID is echoed back in the ack; requests
// without an ID get no acknowledgement.
type Request struct {
	Type string          `json:"type"`
	ID   *int64          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type Ack struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
	Data any    `json:"data"`
}

// AckData is the common part of every acknowledgement payload.
type AckData struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

type CreateRoomAck struct {
	AckData
	RoomCode string `json:"roomCode"`
}

type ReconnectHostAck struct {
	AckData
	Players []Player `json:"players"`
}

type ReconnectPlayerAck struct {
	AckData
	GameState *GameState `json:"gameState"`
}

type NextQuestionAck struct {
	AckData
	GameOver bool `json:"gameOver"`
}

func OK() AckData {
	return AckData{Success: true}
}

var (
	errRoomCodeRequired = errors.New("roomCode is required")
	errNicknameRequired = errors.New("nickname is required")
	errLieRequired      = errors.New("lie is required")
	errAnswerRequired   = errors.New("answer is required")
)

type CreateRoomRequest struct{}

func (r *CreateRoomRequest) Validate() error { return nil }

type ReconnectHostRequest struct {
	RoomCode string `json:"roomCode"`
}

func (r *ReconnectHostRequest) Validate() error {
	r.RoomCode = strings.TrimSpace(r.RoomCode)
	if r.RoomCode == "" {
		return errRoomCodeRequired
	}
	return nil
}

type JoinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Nickname string `json:"nickname"`
}

func (r *JoinRoomRequest) Validate() error {
	r.RoomCode = strings.TrimSpace(r.RoomCode)
	r.Nickname = strings.TrimSpace(r.Nickname)
	if r.RoomCode == "" {
		return errRoomCodeRequired
	}
	if r.Nickname == "" {
		return errNicknameRequired
	}
	return nil
}

type ReconnectPlayerRequest struct {
	RoomCode string `json:"roomCode"`
	Nickname string `json:"nickname"`
}

func (r *ReconnectPlayerRequest) Validate() error {
	r.RoomCode = strings.TrimSpace(r.RoomCode)
	r.Nickname = strings.TrimSpace(r.Nickname)
	if r.RoomCode == "" {
		return errRoomCodeRequired
	}
	if r.Nickname == "" {
		return errNicknameRequired
	}
	return nil
}

type StartGameRequest struct {
	RoomCode string `json:"roomCode"`
}

func (r *StartGameRequest) Validate() error {
	r.RoomCode = strings.TrimSpace(r.RoomCode)
	if r.RoomCode == "" {
		return errRoomCodeRequired
	}
	return nil
}

type SubmitLieRequest struct {
	RoomCode string `json:"roomCode"`
	Lie      string `json:"lie"`
}

func (r *SubmitLieRequest) Validate() error {
	r.RoomCode = strings.TrimSpace(r.RoomCode)
	if r.RoomCode == "" {
		return errRoomCodeRequired
	}
	if strings.TrimSpace(r.Lie) == "" {
		return errLieRequired
	}
	return nil
}

type SubmitVoteRequest struct {
	RoomCode string `json:"roomCode"`
	Answer   string `json:"answer"`
}

func (r *SubmitVoteRequest) Validate() error {
	r.RoomCode = strings.TrimSpace(r.RoomCode)
	if r.RoomCode == "" {
		return errRoomCodeRequired
	}
	if r.Answer == "" {
		return errAnswerRequired
	}
	return nil
}

type NextQuestionRequest struct {
	RoomCode string `json:"roomCode"`
}

func (r *NextQuestionRequest) Validate() error {
	r.RoomCode = strings.TrimSpace(r.RoomCode)
	if r.RoomCode == "" {
		return errRoomCodeRequired
	}
	return nil
}
