// Package questions holds the immutable, ordered question bank a game walks
// through, and the loaders that build it at process start.
package questions

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/scythe504/bluffr-backend/internal"
)

//go:embed default.yaml
var defaultBank []byte

var ErrEmptyBank = errors.New("question bank is empty")

// Bank is safe for concurrent use because it is never mutated after New.
type Bank struct {
	questions []internal.Question
}

// New validates and copies the given questions. IDs must be unique and every
// question needs both a prompt and a truth.
func New(qs []internal.Question) (*Bank, error) {
	if len(qs) == 0 {
		return nil, ErrEmptyBank
	}

	seen := make(map[int]bool, len(qs))
	questions := make([]internal.Question, 0, len(qs))
	for i, q := range qs {
		q.Text = strings.TrimSpace(q.Text)
		q.Truth = strings.TrimSpace(q.Truth)
		if q.Text == "" {
			return nil, fmt.Errorf("question %d (id %d): empty text", i, q.ID)
		}
		if q.Truth == "" {
			return nil, fmt.Errorf("question %d (id %d): empty truth", i, q.ID)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("question %d: duplicate id %d", i, q.ID)
		}
		seen[q.ID] = true
		questions = append(questions, q)
	}

	return &Bank{questions: questions}, nil
}

// Default returns the bank compiled into the binary.
func Default() *Bank {
	b, err := ParseYAML(defaultBank)
	if err != nil {
		panic(fmt.Sprintf("questions: embedded bank is invalid: %v", err))
	}
	return b
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// At returns the question at index i, or false past the end of the bank.
func (b *Bank) At(i int) (internal.Question, bool) {
	if i < 0 || i >= len(b.questions) {
		return internal.Question{}, false
	}
	return b.questions[i], true
}

func (b *Bank) All() []internal.Question {
	return slices.Clone(b.questions)
}
