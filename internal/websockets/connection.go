package websockets

import (
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Config holds websocket connection settings.
type Config struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
	// AllowedOrigins lists browser origins allowed to open a socket. Empty
	// allows any origin.
	AllowedOrigins []string
}

func DefaultConfig() Config {
	return Config{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 4096,
		SendBuffer:     256,
	}
}

func (c Config) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(c.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(c.AllowedOrigins, origin) || slices.Contains(c.AllowedOrigins, "*")
}

// Connection is one client socket. Its ID is the identity the game layer
// sees as the connection id.
type Connection struct {
	ID          string
	ConnectedAt time.Time

	conn *websocket.Conn
	send chan []byte
}

func newConnection(conn *websocket.Conn, buffer int) *Connection {
	return &Connection{
		ID:          uuid.NewString(),
		ConnectedAt: time.Now(),
		conn:        conn,
		send:        make(chan []byte, buffer),
	}
}

// enqueue must be called with the hub's lock held so send is never closed
// underneath it.
func (c *Connection) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// writePump is the only writer on the socket.
func (c *Connection) writePump(cfg Config) {
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("conn", c.ID).Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("conn", c.ID).Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump feeds every inbound frame to handle until the socket fails.
func (c *Connection) readPump(cfg Config, handle func(*Connection, []byte)) {
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("conn", c.ID).Msg("unexpected websocket close")
			}
			return
		}
		handle(c, message)
		c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	}
}
