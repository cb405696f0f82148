// Package game implements the per-connection hangman state machine.
package game

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dcrodman/hangman/internal/protocol"
)

// DefaultAttempts is the number of incorrect guesses a player may make.
const DefaultAttempts = 6

var (
	// ErrInvalidTransition is returned when an event is not legal in the session's state.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrInvalidGuess is returned for a guess that is not a single letter.
	ErrInvalidGuess = errors.New("guess must be a single letter")
)

// State is a position in a session's lifecycle.
type State int

const (
	AwaitingReady State = iota
	InProgress
	Won
	Lost
	Aborted
)

func (s State) String() string {
	switch s {
	case AwaitingReady:
		return "awaiting_ready"
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == Won || s == Lost || s == Aborted
}

// Session is one connection's game. It is not safe for concurrent use; the server
// only mutates a session from its event loop.
type Session struct {
	ID uuid.UUID

	target    []byte
	pattern   []byte
	guessed   []byte
	incorrect []byte
	remaining int
	state     State

	startedAt time.Time
	endedAt   time.Time
}

// NewSession creates a session in AwaitingReady for the target word.
func NewSession(target string, attempts int) *Session {
	word := bytes.ToLower([]byte(target))

	return &Session{
		ID:        uuid.New(),
		target:    word,
		pattern:   bytes.Repeat([]byte{protocol.Placeholder}, len(word)),
		remaining: attempts,
		state:     AwaitingReady,
		startedAt: time.Now(),
	}
}

// Start moves the session into play once the client signals it is ready and returns
// the word length announcement for the client.
func (s *Session) Start() (protocol.WordLength, error) {
	if s.state != AwaitingReady {
		return protocol.WordLength{}, fmt.Errorf("%w: start while %s", ErrInvalidTransition, s.state)
	}
	s.state = InProgress
	return protocol.WordLength{Length: uint32(len(s.target))}, nil
}

// ApplyGuess applies one letter and returns the response for the client: a Terminal
// if the guess ended the game, otherwise a Progress. Guessing a letter a second time
// changes nothing and yields the same Progress as before.
func (s *Session) ApplyGuess(letter byte) (protocol.Message, error) {
	if s.state != InProgress {
		return nil, fmt.Errorf("%w: guess while %s", ErrInvalidTransition, s.state)
	}
	if !protocol.IsLetter(letter) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGuess, letter)
	}
	letter = protocol.ToLower(letter)

	hit := false
	for i, c := range s.target {
		if c == letter {
			s.pattern[i] = letter
			hit = true
		}
	}

	if bytes.IndexByte(s.guessed, letter) < 0 {
		s.guessed = append(s.guessed, letter)
		if !hit {
			s.incorrect = append(s.incorrect, letter)
			s.remaining--
		}
	}

	// A guess that reveals the last letter always wins; it never reaches the decrement.
	switch {
	case bytes.Equal(s.pattern, s.target):
		s.end(Won)
		return protocol.Terminal{Text: s.outcomeText("You win!")}, nil
	case s.remaining <= 0:
		s.remaining = 0
		s.end(Lost)
		return protocol.Terminal{Text: s.outcomeText("You lose!")}, nil
	}
	return s.Progress(), nil
}

// Abort ends a session that has not already finished. It reports whether the
// session changed state.
func (s *Session) Abort() bool {
	if s.state.Terminal() {
		return false
	}
	s.end(Aborted)
	return true
}

// Progress returns the current progress response.
func (s *Session) Progress() protocol.Progress {
	return protocol.Progress{
		Pattern:   s.Pattern(),
		Incorrect: s.Incorrect(),
	}
}

func (s *Session) end(state State) {
	s.state = state
	s.endedAt = time.Now()
}

func (s *Session) outcomeText(outcome string) string {
	return fmt.Sprintf("The word was %s\n%s\nGame Over!", s.target, outcome)
}

func (s *Session) State() State    { return s.state }
func (s *Session) Done() bool      { return s.state.Terminal() }
func (s *Session) Target() string  { return string(s.target) }
func (s *Session) Remaining() int  { return s.remaining }
func (s *Session) Pattern() []byte { return bytes.Clone(s.pattern) }

// Guessed returns every distinct letter guessed so far in guess order.
func (s *Session) Guessed() []byte { return bytes.Clone(s.guessed) }

// Incorrect returns the guessed letters that are not in the target word.
func (s *Session) Incorrect() []byte { return bytes.Clone(s.incorrect) }

// Summary is a snapshot of a session used for reporting once it has ended.
type Summary struct {
	ID        uuid.UUID
	Target    string
	State     State
	Guessed   string
	Incorrect string
	Remaining int
	StartedAt time.Time
	EndedAt   time.Time
}

func (s *Session) Summary() Summary {
	return Summary{
		ID:        s.ID,
		Target:    string(s.target),
		State:     s.state,
		Guessed:   string(s.guessed),
		Incorrect: string(s.incorrect),
		Remaining: s.remaining,
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
	}
}
