package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

// DefaultTranscriptLimit caps how many transcripts one request returns.
const DefaultTranscriptLimit = 50

// TranscriptsHandler serves the history of completed words.
type TranscriptsHandler struct {
	store *store.Store
}

// NewTranscriptsHandler creates a new TranscriptsHandler with the given store.
func NewTranscriptsHandler(s *store.Store) *TranscriptsHandler {
	return &TranscriptsHandler{store: s}
}

type transcriptsResponse struct {
	Transcripts []store.Transcript `json:"transcripts"`
}

// ServeHTTP handles GET /api/transcripts?session_id=...&limit=...
func (h *TranscriptsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := DefaultTranscriptLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	var (
		transcripts []store.Transcript
		err         error
	)

	if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
		transcripts, err = h.store.Transcripts().ListBySession(sessionID)
	} else {
		transcripts, err = h.store.Transcripts().List(limit)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list transcripts")
		return
	}

	if transcripts == nil {
		transcripts = []store.Transcript{}
	}

	WriteJSON(w, http.StatusOK, transcriptsResponse{Transcripts: transcripts})
}
