package game

import "slices"

// =============================================================================
// SUBMISSION TRACKING
// =============================================================================

// Submission is one player's entry for the current round.
type Submission struct {
	PlayerID string
	Value    string
}

// Submissions records at most one value per player, remembering the order in
// which players first submitted. A resubmission replaces the value but keeps
// the original position.
type Submissions struct {
	order  []string
	values map[string]string
}

func NewSubmissions() *Submissions {
	return &Submissions{values: make(map[string]string)}
}

// Set stores value for playerID and reports whether this was the player's
// first submission.
func (s *Submissions) Set(playerID, value string) bool {
	_, exists := s.values[playerID]
	if !exists {
		s.order = append(s.order, playerID)
	}
	s.values[playerID] = value
	return !exists
}

func (s *Submissions) Get(playerID string) (string, bool) {
	v, ok := s.values[playerID]
	return v, ok
}

func (s *Submissions) Delete(playerID string) (string, bool) {
	v, ok := s.values[playerID]
	if !ok {
		return "", false
	}
	delete(s.values, playerID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == playerID })
	return v, true
}

func (s *Submissions) Len() int {
	return len(s.values)
}

// Complete reports whether every one of the active players has submitted.
func (s *Submissions) Complete(active int) bool {
	return active > 0 && len(s.values) >= active
}

// OwnerOf returns the player that submitted value, if any.
func (s *Submissions) OwnerOf(value string) (string, bool) {
	for _, id := range s.order {
		if s.values[id] == value {
			return id, true
		}
	}
	return "", false
}

// Entries returns the submissions in first-submission order.
func (s *Submissions) Entries() []Submission {
	entries := make([]Submission, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, Submission{PlayerID: id, Value: s.values[id]})
	}
	return entries
}

func (s *Submissions) Clear() {
	s.order = nil
	clear(s.values)
}
