package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vibefinder/internal/types"
)

// FavoriteRepository provides data access for the favorites table. Names are
// unique; saving an existing name is a no-op.
type FavoriteRepository struct {
	db    DBTX
	clock types.Clock
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db DBTX, clock types.Clock) *FavoriteRepository {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &FavoriteRepository{db: db, clock: clock}
}

// Save inserts the favorite unless one with the same name exists. It reports
// whether a row was written.
func (r *FavoriteRepository) Save(ctx context.Context, fav types.Favorite) (bool, error) {
	fav = stampFavorite(fav, r.clock.Now())

	tag, err := r.db.Exec(ctx,
		`INSERT INTO favorites (id, name, location, score, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (name) DO NOTHING`,
		fav.ID, fav.Name, fav.Location, fav.Score, fav.CreatedAt,
	)
	if err != nil {
		return false, types.NewAppError(types.ErrCodeInternalDB, "failed to save favorite", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns every favorite, oldest first.
func (r *FavoriteRepository) List(ctx context.Context) ([]types.Favorite, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, location, score, created_at
		 FROM favorites
		 ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query favorites", err)
	}
	defer rows.Close()

	favorites := []types.Favorite{}
	for rows.Next() {
		var f types.Favorite
		if err := rows.Scan(&f.ID, &f.Name, &f.Location, &f.Score, &f.CreatedAt); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan favorite row", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating favorite rows", err)
	}
	return favorites, nil
}

func stampFavorite(fav types.Favorite, now time.Time) types.Favorite {
	if fav.ID == "" {
		fav.ID = uuid.NewString()
	}
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = now
	}
	return fav
}
