// Package handlers contains the HTTP handlers for the Vibe Finder API.
//
// Each handler depends on small locally defined interfaces so tests can
// substitute fakes, and mounts itself onto the /v1 router via RegisterRoutes.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vibefinder/internal/core"
	"vibefinder/internal/recommend"
	"vibefinder/internal/types"
)

// RequestValidator validates decoded request DTOs.
type RequestValidator interface {
	ValidateStruct(s any) error
}

// SuggestHandler serves POST /v1/suggest.
type SuggestHandler struct {
	svc       recommend.RecommendationService
	validator RequestValidator
	logger    *slog.Logger
}

// NewSuggestHandler creates a SuggestHandler.
func NewSuggestHandler(svc recommend.RecommendationService, v RequestValidator, l *slog.Logger) *SuggestHandler {
	if l == nil {
		l = slog.Default()
	}
	return &SuggestHandler{svc: svc, validator: v, logger: l}
}

// RegisterRoutes mounts the suggest route.
func (h *SuggestHandler) RegisterRoutes(r chi.Router) {
	r.Post("/suggest", h.Suggest)
}

// Suggest decodes the request, runs the recommendation pipeline and returns
// the recommendation. Weather and places failures never surface here; only
// invalid input and unresolvable locations do.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req types.SuggestRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	rec, err := h.svc.Suggest(r.Context(), req)
	if err != nil {
		if !types.HasCode(err, types.ErrCodeNotFoundLocation) {
			h.logger.ErrorContext(r.Context(), "suggest failed", "error", err)
		}
		core.Error(w, r, err)
		return
	}

	core.Respond(w, r, http.StatusOK, rec)
}
