package game

import (
	"sync"
	"time"

	"github.com/scythe504/bluffr-backend/internal/utils"
)

// Store is the process-wide table of live rooms. Its lock is never held while
// a room lock is being acquired.
type Store struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	generate func() string
}

func NewStore() *Store {
	return &Store{
		rooms:    make(map[string]*Room),
		generate: utils.GenerateRoomCode,
	}
}

// Create allocates a fresh code and registers a lobby room hosted by host.
// Code generation and insertion happen under one lock, so two concurrent
// calls can never receive the same code.
func (s *Store) Create(host string, now time.Time) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rooms) >= utils.RoomCodeSpace {
		return nil, ErrRoomsExhausted
	}

	code := s.generate()
	for {
		if _, taken := s.rooms[code]; !taken {
			break
		}
		code = s.generate()
	}

	room := newRoom(code, host, now)
	s.rooms[code] = room
	return room, nil
}

func (s *Store) Get(code string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	return room, ok
}

func (s *Store) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

// List returns the live rooms in no particular order.
func (s *Store) List() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
