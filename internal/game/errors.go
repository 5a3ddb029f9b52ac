package game

// Code is the machine-readable half of a game error, sent to clients next to
// the human-readable message.
type Code string

const (
	CodeRoomNotFound       Code = "ROOM_NOT_FOUND"
	CodeGameAlreadyStarted Code = "GAME_ALREADY_STARTED"
	CodeNicknameTaken      Code = "NICKNAME_TAKEN"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeNoPlayers          Code = "NO_PLAYERS"
	CodeInvalidPhase       Code = "INVALID_PHASE"
	CodeNotAPlayer         Code = "NOT_A_PLAYER"
	CodeAlreadyConnected   Code = "ALREADY_CONNECTED"
	CodeSessionExpired     Code = "SESSION_EXPIRED"
	CodeDuplicateLie       Code = "DUPLICATE_LIE"
	CodeEmptyLie           Code = "EMPTY_LIE"
	CodeUnknownAnswer      Code = "UNKNOWN_ANSWER"
	CodeRoomsExhausted     Code = "ROOMS_EXHAUSTED"
)

// Error is a request-local failure. It never indicates a broken room; the
// caller simply gets it back in its acknowledgement.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrRoomNotFound       = &Error{Code: CodeRoomNotFound, Message: "Room not found"}
	ErrGameAlreadyStarted = &Error{Code: CodeGameAlreadyStarted, Message: "Game already started"}
	ErrNicknameTaken      = &Error{Code: CodeNicknameTaken, Message: "Nickname already taken"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "Unauthorized"}
	ErrNoPlayers          = &Error{Code: CodeNoPlayers, Message: "No players in room"}
	ErrInvalidPhase       = &Error{Code: CodeInvalidPhase, Message: "Action not allowed in the current phase"}
	ErrNotAPlayer         = &Error{Code: CodeNotAPlayer, Message: "Not a player in this room"}
	ErrAlreadyConnected   = &Error{Code: CodeAlreadyConnected, Message: "Already connected"}
	ErrSessionExpired     = &Error{Code: CodeSessionExpired, Message: "Session expired"}
	ErrDuplicateLie       = &Error{Code: CodeDuplicateLie, Message: "Someone already gave that answer"}
	ErrEmptyLie           = &Error{Code: CodeEmptyLie, Message: "Answer cannot be empty"}
	ErrUnknownAnswer      = &Error{Code: CodeUnknownAnswer, Message: "Answer is not an option this round"}
	ErrRoomsExhausted     = &Error{Code: CodeRoomsExhausted, Message: "No room codes available"}
)
