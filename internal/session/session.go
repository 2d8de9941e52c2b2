// Package session tracks per-connection typing state: it turns the noisy
// per-frame symbol stream into deliberately committed words.
package session

import (
	"strings"
	"sync"

	"github.com/ayusman/mudra/internal/classify"
)

// LockThreshold is the number of consecutive agreeing frames required before
// a symbol is committed into the word.
const LockThreshold = 50

// Result is returned for every processed symbol.
type Result struct {
	// Symbol is the post-disambiguation symbol for this frame.
	Symbol string
	// Confidence is the stability confidence in [0,100].
	Confidence float64
	// Word is the committed word so far.
	Word string
}

// CommitFunc is invoked after a symbol is committed. word is the full
// committed word including the symbol just appended.
type CommitFunc func(sessionID, symbol, word string)

// Session holds the mutable typing state for one client connection.
// All fields are initialized at construction; methods are safe for
// concurrent use, serializing frames for this session.
type Session struct {
	id       string
	onCommit CommitFunc

	mu     sync.Mutex
	word   string
	last   string
	stable int
	locked bool
}

// New creates a Session in the freshly reset state.
func New(id string, onCommit CommitFunc) *Session {
	return &Session{
		id:       id,
		onCommit: onCommit,
		word:     "",
		last:     classify.Blank,
		stable:   0,
		locked:   false,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Word returns the committed word so far.
func (s *Session) Word() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.word
}

// HandlePrediction consumes one frame's symbol and advances the stability
// state machine.
//
// A symbol matching the previous frame grows the stable run (frozen once
// locked); any change restarts the run at 1 and unlocks. When the run
// reaches LockThreshold while unlocked, the symbol is committed exactly
// once: letters are appended to the word, blank appends a single space only
// when the word is non-empty and not already space-terminated.
func (s *Session) HandlePrediction(symbol string) Result {
	s.mu.Lock()

	if symbol == s.last {
		if !s.locked {
			s.stable++
		}
	} else {
		s.last = symbol
		s.stable = 1
		s.locked = false
	}

	confidence := float64(s.stable) / float64(LockThreshold) * 100.0
	if confidence > 100.0 {
		confidence = 100.0
	}

	committed := false
	if s.stable >= LockThreshold && !s.locked {
		if symbol == classify.Blank {
			if s.word != "" && !strings.HasSuffix(s.word, " ") {
				s.word += " "
				committed = true
			}
		} else {
			s.word += symbol
			committed = true
		}
		s.locked = true
	}

	result := Result{
		Symbol:     symbol,
		Confidence: confidence,
		Word:       s.word,
	}

	onCommit := s.onCommit
	s.mu.Unlock()

	if committed && onCommit != nil {
		onCommit(s.id, symbol, result.Word)
	}

	return result
}

// Reset clears the session back to its initial state. This is the only
// operation that clears the committed word.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.word = ""
	s.last = classify.Blank
	s.stable = 0
	s.locked = false
}
