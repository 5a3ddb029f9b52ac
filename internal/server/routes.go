package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/bluffr-backend/internal"
	"github.com/scythe504/bluffr-backend/internal/game"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{code}", s.GetRoom).Methods(http.MethodGet)
	r.Handle("/ws", s.ws)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.frontendURL},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	status := http.StatusOK

	if s.db != nil {
		for k, v := range s.db.Health(r.Context()) {
			resp["database_"+k] = v
		}
		if resp["database_status"] == "down" {
			resp["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}

// GetRoom lets a client check a room code before opening a socket.
func (s *Server) GetRoom(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	code := mux.Vars(r)["code"]

	var resp internal.Response
	summary, err := s.rooms.Room(code)
	switch {
	case err == nil:
		resp = internal.Response{StatusCode: http.StatusOK, RespStartTime: startTime, Data: summary}
	case errors.Is(err, game.ErrRoomNotFound):
		resp = internal.Response{StatusCode: http.StatusNotFound, RespStartTime: startTime, Data: err.Error()}
	default:
		log.Error().Err(err).Str("room", code).Msg("[GetRoom] lookup failed")
		resp = internal.Response{StatusCode: http.StatusInternalServerError, RespStartTime: startTime, Data: "Internal server error"}
	}

	// Calculate response times
	endTime := time.Now().UnixMilli()
	resp.RespEndTime = endTime
	resp.NetRespTime = endTime - startTime

	writeJSON(w, resp.StatusCode, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("error encoding response")
	}
}
