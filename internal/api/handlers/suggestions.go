package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vibefinder/internal/core"
)

// SuggestionSource returns the activity names for the current hour.
type SuggestionSource interface {
	Suggestions() []string
}

// SuggestionsHandler serves GET /v1/suggestions.
type SuggestionsHandler struct {
	source SuggestionSource
}

func NewSuggestionsHandler(source SuggestionSource) *SuggestionsHandler {
	return &SuggestionsHandler{source: source}
}

func (h *SuggestionsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/suggestions", h.List)
}

// List returns three activity names for the local time of day.
func (h *SuggestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	core.Respond(w, r, http.StatusOK, h.source.Suggestions())
}
