package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/session"
)

type predictRequest struct {
	Image     string `json:"image"`
	SessionID string `json:"session_id"`
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

// handlePredict handles POST /predict: it runs one frame through the
// pipeline and returns the per-frame prediction record.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "No image data")
		return
	}
	if req.Image == "" {
		api.WriteError(w, http.StatusBadRequest, "No image data")
		return
	}

	sess, err := s.config.App.Sessions().Get(req.SessionID)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "Session not found")
		return
	}

	response, err := s.config.App.ProcessFrame(req.Image, sess)
	if err != nil {
		if errors.Is(err, app.ErrNoImage) {
			api.WriteError(w, http.StatusBadRequest, "No image data")
			return
		}
		// Decode and prediction failures degrade to a generic error; the
		// session state for this frame is untouched.
		api.WriteError(w, http.StatusInternalServerError, "Processing failed")
		return
	}

	s.stream.Publish(sess.ID(), response)

	api.WriteJSON(w, http.StatusOK, response)
}

// handleReset handles POST /reset: it clears a session's typing state.
// The request body is optional; without one the default session is reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req resetRequest
	if r.Body != nil {
		// A missing or malformed body resets the default session.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sess, err := s.config.App.Sessions().Get(req.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "Reset failed")
		return
	}

	s.config.App.Reset(sess)

	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "Reset complete"})
}
