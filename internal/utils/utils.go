package utils

import (
	"math/rand/v2"
	"strconv"
)

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

const (
	minRoomCode = 1000
	maxRoomCode = 9999

	// RoomCodeSpace is how many distinct room codes exist.
	RoomCodeSpace = maxRoomCode - minRoomCode + 1
)

// GenerateRoomCode returns a random four digit code in [1000, 9999]. Callers
// are responsible for checking it against live rooms.
func GenerateRoomCode() string {
	return strconv.Itoa(minRoomCode + rand.IntN(RoomCodeSpace))
}

// Shuffle permutes answers in place with a Fisher-Yates pass.
func Shuffle(answers []string) {
	for i := len(answers) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		answers[i], answers[j] = answers[j], answers[i]
	}
}
