package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/spell"
)

// DefaultSuggestionLimit caps how many suggestions one request returns.
const DefaultSuggestionLimit = 5

// SuggestionsHandler serves spelling suggestions for committed words.
// The checker is an optional capability; when absent the handler reports
// the feature as unavailable rather than failing at import time.
type SuggestionsHandler struct {
	checker *spell.Checker
}

// NewSuggestionsHandler creates a new SuggestionsHandler. checker may be nil.
func NewSuggestionsHandler(checker *spell.Checker) *SuggestionsHandler {
	return &SuggestionsHandler{checker: checker}
}

type suggestionsResponse struct {
	Word        string             `json:"word"`
	Known       bool               `json:"known"`
	Suggestions []spell.Suggestion `json:"suggestions"`
}

// ServeHTTP handles GET /api/suggestions?word=...&limit=...
func (h *SuggestionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.checker == nil {
		WriteError(w, http.StatusServiceUnavailable, "Suggestions are not available")
		return
	}

	word := r.URL.Query().Get("word")
	if word == "" {
		WriteError(w, http.StatusBadRequest, "Missing word parameter")
		return
	}

	limit := DefaultSuggestionLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	known, err := h.checker.Known(word)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to check word")
		return
	}

	suggestions, err := h.checker.Suggest(word, limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to build suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []spell.Suggestion{}
	}

	WriteJSON(w, http.StatusOK, suggestionsResponse{
		Word:        word,
		Known:       known,
		Suggestions: suggestions,
	})
}
