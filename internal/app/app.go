// Package app wires the frame pipeline for the Mudra fingerspelling system:
// preprocessing, the classifier cascade, and per-session typing state.
package app

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/preprocess"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/spell"
	"github.com/ayusman/mudra/internal/store"
)

// ErrNoImage is returned when a frame submission carries no image payload.
var ErrNoImage = errors.New("no image data")

// Config holds configuration options for the application.
type Config struct {
	// Cascade is the loaded classifier cascade. Required.
	Cascade *classify.Cascade

	// Spell is the optional suggestion capability; nil disables it.
	Spell *spell.Checker

	// Store is the optional persistence layer for transcripts; nil disables
	// transcript recording.
	Store *store.Store
}

// App orchestrates the per-frame pipeline: decode, preprocess, classify,
// update session state. Frames for one session are serialized by the
// session itself; the preprocessor and classifiers are read-only after
// construction and shared across sessions.
type App struct {
	pre      *preprocess.Preprocessor
	cascade  *classify.Cascade
	sessions *session.Manager
	spell    *spell.Checker
	store    *store.Store
}

// New creates a new App. Construction fails when the required classifier
// cascade is missing; optional capabilities are recorded as-is.
func New(cfg Config) (*App, error) {
	if cfg.Cascade == nil {
		return nil, fmt.Errorf("classifier cascade is required")
	}

	a := &App{
		pre:     preprocess.New(),
		cascade: cfg.Cascade,
		spell:   cfg.Spell,
		store:   cfg.Store,
	}
	a.sessions = session.NewManager(a.recordCommit)

	return a, nil
}

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// Spell returns the suggestion capability, or nil when disabled.
func (a *App) Spell() *spell.Checker {
	return a.spell
}

// Store returns the persistence layer, or nil when disabled.
func (a *App) Store() *store.Store {
	return a.store
}

// PredictionResponse is the per-frame response contract.
type PredictionResponse struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Word       string  `json:"word"`
	// Character duplicates Prediction for older clients.
	Character string `json:"character"`
	// Sentence is reserved and currently always empty.
	Sentence string `json:"sentence"`
}

// ProcessFrame runs one encoded frame through the pipeline for the given
// session. The payload may carry a data-URI style prefix, which is stripped
// before decoding. Frames without a decodable image fail without touching
// session state; frames without a detectable hand degrade to the blank
// symbol and proceed through the stability logic normally.
func (a *App) ProcessFrame(encoded string, sess *session.Session) (*PredictionResponse, error) {
	if encoded == "" {
		return nil, ErrNoImage
	}

	raw, err := base64.StdEncoding.DecodeString(stripDataURI(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", preprocess.ErrDecode, err)
	}

	tensor, hand, err := a.pre.Process(raw)
	if err != nil {
		return nil, err
	}

	symbol := classify.Blank
	if hand {
		symbol, err = a.cascade.Classify(tensor)
		if err != nil {
			// Session state is deliberately left untouched.
			log.Printf("classification failed: %v", err)
			return nil, err
		}
	}

	result := sess.HandlePrediction(symbol)

	return &PredictionResponse{
		Prediction: result.Symbol,
		Confidence: result.Confidence,
		Word:       result.Word,
		Character:  result.Symbol,
		Sentence:   "",
	}, nil
}

// Reset clears the session's typing state.
func (a *App) Reset(sess *session.Session) {
	sess.Reset()
}

// recordCommit persists the word a blank commit just completed. A letter
// commit only grows the in-progress word, so it is not recorded.
func (a *App) recordCommit(sessionID, symbol, word string) {
	log.Printf("[LOCK] committed %q, word: %q (session %s)", symbol, word, sessionID)

	if a.store == nil || symbol != classify.Blank {
		return
	}

	fields := strings.Fields(word)
	if len(fields) == 0 {
		return
	}

	completed := fields[len(fields)-1]
	if err := a.store.Transcripts().Append(sessionID, completed); err != nil {
		log.Printf("failed to record transcript %q: %v", completed, err)
	}
}

// stripDataURI drops an optional "data:image/...;base64," style prefix.
func stripDataURI(s string) string {
	if i := strings.Index(s, "base64,"); i >= 0 {
		return s[i+len("base64,"):]
	}
	return s
}
