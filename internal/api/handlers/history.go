package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vibefinder/internal/core"
	"vibefinder/internal/types"
)

const (
	defaultHistoryLimit = 8
	maxHistoryLimit     = 100
)

// HistoryStore reads the search history, newest first.
type HistoryStore interface {
	List(ctx context.Context, limit int) ([]types.HistoryEntry, error)
}

// HistoryHandler serves GET /v1/history.
type HistoryHandler struct {
	store  HistoryStore
	logger *slog.Logger
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(store HistoryStore, l *slog.Logger) *HistoryHandler {
	if l == nil {
		l = slog.Default()
	}
	return &HistoryHandler{store: store, logger: l}
}

func (h *HistoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/history", h.List)
}

// List returns the most recent searches. The optional limit query parameter
// must be between 1 and maxHistoryLimit.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	entries, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list history", "error", err)
		core.Error(w, r, err)
		return
	}
	if entries == nil {
		entries = []types.HistoryEntry{}
	}
	core.Respond(w, r, http.StatusOK, entries)
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxHistoryLimit {
		return 0, types.NewAppErrorWithDetails(
			types.ErrCodeValidationFailed,
			"limit must be an integer between 1 and 100",
			err,
			map[string]any{"field": "limit", "value": raw},
		)
	}
	return n, nil
}
