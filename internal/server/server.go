package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/scythe504/bluffr-backend/internal"
)

// RoomLookup answers read-only questions about live rooms.
type RoomLookup interface {
	Room(code string) (internal.RoomSummary, error)
}

// HealthChecker reports the state of a backing store.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	port        int
	frontendURL string

	rooms RoomLookup
	ws    http.Handler
	// db is nil when the server runs without a database.
	db HealthChecker
}

func NewServer(port int, frontendURL string, rooms RoomLookup, ws http.Handler, db HealthChecker) *http.Server {
	s := &Server{
		port:        port,
		frontendURL: frontendURL,
		rooms:       rooms,
		ws:          ws,
		db:          db,
	}

	// Declare Server config
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.RegisterRoutes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return server
}
