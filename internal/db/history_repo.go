package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vibefinder/internal/types"
)

// HistoryRepository provides data access for the search_history table. The
// table is an append log; rows are never updated.
type HistoryRepository struct {
	db    DBTX
	clock types.Clock
}

// NewHistoryRepository creates a new HistoryRepository backed by the given
// database connection (pool or transaction).
func NewHistoryRepository(db DBTX, clock types.Clock) *HistoryRepository {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &HistoryRepository{db: db, clock: clock}
}

// Append records one resolved search. A missing ID or timestamp is filled in.
func (r *HistoryRepository) Append(ctx context.Context, entry types.HistoryEntry) error {
	entry = stampHistory(entry, r.clock.Now())

	_, err := r.db.Exec(ctx,
		`INSERT INTO search_history (id, location, vibe, budget, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.Location, entry.Vibe, entry.Budget, entry.CreatedAt,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to append search history", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, location, vibe, budget, created_at
		 FROM search_history
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query search history", err)
	}
	defer rows.Close()

	entries := make([]types.HistoryEntry, 0, limit)
	for rows.Next() {
		var e types.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Location, &e.Vibe, &e.Budget, &e.CreatedAt); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan search history row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating search history rows", err)
	}
	return entries, nil
}

func stampHistory(entry types.HistoryEntry, now time.Time) types.HistoryEntry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	return entry
}
