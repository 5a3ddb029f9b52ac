package websockets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/bluffr-backend/internal"
	"github.com/scythe504/bluffr-backend/internal/game"
)

const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeUnknownAction  = "UNKNOWN_ACTION"
	codeInternal       = "INTERNAL"
)

var errInvalidPayload = errors.New("invalid request payload")

// Game is the set of room operations the gateway drives.
type Game interface {
	CreateRoom(connID string) (string, error)
	ReconnectHost(connID, code string) ([]internal.Player, error)
	JoinRoom(connID, code, nickname string) error
	ReconnectPlayer(connID, code, nickname string) (*internal.GameState, error)
	StartGame(connID, code string) error
	SubmitLie(connID, code, lie string) error
	SubmitVote(connID, code, answer string) error
	NextQuestion(connID, code string) (bool, error)
	Disconnect(connID string)
}

type requestError struct {
	code string
	err  error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

type action func(connID string, data json.RawMessage) (any, error)

// Handler upgrades HTTP requests to websockets and dispatches their frames.
type Handler struct {
	hub      *Hub
	game     Game
	cfg      Config
	upgrader websocket.Upgrader
	actions  map[string]action
}

func NewHandler(hub *Hub, g Game, cfg Config) *Handler {
	h := &Handler{
		hub:  hub,
		game: g,
		cfg:  cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.checkOrigin,
		},
	}
	h.actions = map[string]action{
		internal.ActionCreateRoom:      h.createRoom,
		internal.ActionReconnectHost:   h.reconnectHost,
		internal.ActionJoinRoom:        h.joinRoom,
		internal.ActionReconnectPlayer: h.reconnectPlayer,
		internal.ActionStartGame:       h.startGame,
		internal.ActionSubmitLie:       h.submitLie,
		internal.ActionSubmitVote:      h.submitVote,
		internal.ActionNextQuestion:    h.nextQuestion,
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("remote", r.RemoteAddr).Msg("failed to upgrade websocket connection")
		return
	}

	c := newConnection(conn, h.cfg.SendBuffer)
	h.hub.register(c)
	log.Info().Str("conn", c.ID).Str("remote", r.RemoteAddr).Msg("websocket connection established")

	go c.writePump(h.cfg)
	go func() {
		c.readPump(h.cfg, h.dispatch)
		h.hub.unregister(c)
		h.game.Disconnect(c.ID)
		log.Info().Str("conn", c.ID).Dur("connected_for", time.Since(c.ConnectedAt)).Msg("websocket connection closed")
	}()
}

func (h *Handler) dispatch(c *Connection, raw []byte) {
	var req internal.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Warn().Err(err).Str("conn", c.ID).Msg("malformed request frame")
		return
	}

	var (
		result any
		err    error
	)
	if act, ok := h.actions[req.Type]; ok {
		result, err = act(c.ID, req.Data)
	} else {
		err = &requestError{code: codeUnknownAction, err: fmt.Errorf("unknown action %q", req.Type)}
	}

	if err != nil {
		log.Debug().Err(err).Str("conn", c.ID).Str("action", req.Type).Msg("request rejected")
		result = failure(err)
	}
	if req.ID == nil {
		return
	}

	data, mErr := json.Marshal(internal.Ack{Type: internal.TypeAck, ID: *req.ID, Data: result})
	if mErr != nil {
		log.Error().Err(mErr).Str("conn", c.ID).Msg("failed to marshal ack")
		return
	}
	h.hub.deliver(c.ID, data)
}

func failure(err error) internal.AckData {
	ack := internal.AckData{Error: err.Error(), Code: codeInternal}

	var gameErr *game.Error
	var reqErr *requestError
	switch {
	case errors.As(err, &gameErr):
		ack.Code = string(gameErr.Code)
	case errors.As(err, &reqErr):
		ack.Code = reqErr.code
	default:
		log.Error().Err(err).Msg("unexpected error handling request")
	}
	return ack
}

type validator[T any] interface {
	*T
	Validate() error
}

// decode unmarshals data into a fresh T and validates it.
func decode[T any, P validator[T]](data json.RawMessage) (P, error) {
	var zero P
	req := P(new(T))
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, req); err != nil {
			return zero, &requestError{code: codeInvalidRequest, err: errInvalidPayload}
		}
	}
	if err := req.Validate(); err != nil {
		return zero, &requestError{code: codeInvalidRequest, err: err}
	}
	return req, nil
}

// ===== ACTIONS =====

func (h *Handler) createRoom(connID string, data json.RawMessage) (any, error) {
	if _, err := decode[internal.CreateRoomRequest](data); err != nil {
		return nil, err
	}
	code, err := h.game.CreateRoom(connID)
	if err != nil {
		return nil, err
	}
	return internal.CreateRoomAck{AckData: internal.OK(), RoomCode: code}, nil
}

func (h *Handler) reconnectHost(connID string, data json.RawMessage) (any, error) {
	req, err := decode[internal.ReconnectHostRequest](data)
	if err != nil {
		return nil, err
	}
	players, err := h.game.ReconnectHost(connID, req.RoomCode)
	if err != nil {
		return nil, err
	}
	return internal.ReconnectHostAck{AckData: internal.OK(), Players: players}, nil
}

func (h *Handler) joinRoom(connID string, data json.RawMessage) (any, error) {
	req, err := decode[internal.JoinRoomRequest](data)
	if err != nil {
		return nil, err
	}
	if err := h.game.JoinRoom(connID, req.RoomCode, req.Nickname); err != nil {
		return nil, err
	}
	return internal.OK(), nil
}

func (h *Handler) reconnectPlayer(connID string, data json.RawMessage) (any, error) {
	req, err := decode[internal.ReconnectPlayerRequest](data)
	if err != nil {
		return nil, err
	}
	state, err := h.game.ReconnectPlayer(connID, req.RoomCode, req.Nickname)
	if err != nil {
		return nil, err
	}
	return internal.ReconnectPlayerAck{AckData: internal.OK(), GameState: state}, nil
}

func (h *Handler) startGame(connID string, data json.RawMessage) (any, error) {
	req, err := decode[internal.StartGameRequest](data)
	if err != nil {
		return nil, err
	}
	if err := h.game.StartGame(connID, req.RoomCode); err != nil {
		return nil, err
	}
	return internal.OK(), nil
}

func (h *Handler) submitLie(connID string, data json.RawMessage) (any, error) {
	req, err := decode[internal.SubmitLieRequest](data)
	if err != nil {
		return nil, err
	}
	if err := h.game.SubmitLie(connID, req.RoomCode, req.Lie); err != nil {
		return nil, err
	}
	return internal.OK(), nil
}

func (h *Handler) submitVote(connID string, data json.RawMessage) (any, error) {
	req, err := decode[internal.SubmitVoteRequest](data)
	if err != nil {
		return nil, err
	}
	if err := h.game.SubmitVote(connID, req.RoomCode, req.Answer); err != nil {
		return nil, err
	}
	return internal.OK(), nil
}

func (h *Handler) nextQuestion(connID string, data json.RawMessage) (any, error) {
	req, err := decode[internal.NextQuestionRequest](data)
	if err != nil {
		return nil, err
	}
	gameOver, err := h.game.NextQuestion(connID, req.RoomCode)
	if err != nil {
		return nil, err
	}
	return internal.NextQuestionAck{AckData: internal.OK(), GameOver: gameOver}, nil
}
