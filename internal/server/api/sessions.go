package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/session"
)

// SessionsHandler handles HTTP requests for session resources.
type SessionsHandler struct {
	sessions *session.Manager
}

// NewSessionsHandler creates a new SessionsHandler with the given manager.
func NewSessionsHandler(m *session.Manager) *SessionsHandler {
	return &SessionsHandler{sessions: m}
}

type sessionResponse struct {
	ID   string `json:"id"`
	Word string `json:"word"`
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/sessions or /api/sessions/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// create handles POST /api/sessions and registers a new typing session.
func (h *SessionsHandler) create(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	WriteJSON(w, http.StatusCreated, sessionResponse{ID: s.ID(), Word: s.Word()})
}

// get handles GET /api/sessions/{id} and returns the session's current word.
func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.sessions.Get(id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Session not found")
		return
	}

	WriteJSON(w, http.StatusOK, sessionResponse{ID: s.ID(), Word: s.Word()})
}

// delete handles DELETE /api/sessions/{id} and removes a session.
func (h *SessionsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.sessions.Remove(id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
