package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vibefinder/internal/core"
	"vibefinder/internal/types"
)

// FavoriteStore persists favorites. Save reports whether a new favorite was
// stored; a name that already exists is left untouched.
type FavoriteStore interface {
	Save(ctx context.Context, fav types.Favorite) (bool, error)
	List(ctx context.Context) ([]types.Favorite, error)
}

// SaveFavoriteRequest is the body of POST /v1/favorites.
type SaveFavoriteRequest struct {
	Name     string `json:"name" validate:"required,not_blank,max=200"`
	Location string `json:"location" validate:"max=200"`
	Score    int    `json:"score" validate:"gte=0,lte=100"`
}

// SaveFavoriteResponse acknowledges a save.
type SaveFavoriteResponse struct {
	Message string `json:"message"`
}

// FavoritesHandler serves /v1/favorites.
type FavoritesHandler struct {
	store     FavoriteStore
	validator RequestValidator
	logger    *slog.Logger
}

// NewFavoritesHandler creates a FavoritesHandler.
func NewFavoritesHandler(store FavoriteStore, v RequestValidator, l *slog.Logger) *FavoritesHandler {
	if l == nil {
		l = slog.Default()
	}
	return &FavoritesHandler{store: store, validator: v, logger: l}
}

// RegisterRoutes mounts the favorites routes.
func (h *FavoritesHandler) RegisterRoutes(r chi.Router) {
	r.Route("/favorites", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Save)
	})
}

// List returns every favorite, oldest first.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	favs, err := h.store.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list favorites", "error", err)
		core.Error(w, r, err)
		return
	}
	if favs == nil {
		favs = []types.Favorite{}
	}
	core.Respond(w, r, http.StatusOK, favs)
}

// Save stores a favorite. Saving a name twice is not an error; both calls
// answer with the same acknowledgement.
func (h *FavoritesHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveFavoriteRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	created, err := h.store.Save(r.Context(), types.Favorite{
		Name:     strings.TrimSpace(req.Name),
		Location: strings.TrimSpace(req.Location),
		Score:    req.Score,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to save favorite", "error", err)
		core.Error(w, r, err)
		return
	}
	if !created {
		h.logger.DebugContext(r.Context(), "favorite already saved", "name", req.Name)
	}

	core.Respond(w, r, http.StatusOK, SaveFavoriteResponse{Message: "Saved"})
}
