package listsync

import (
	"context"

	"unilist/feature/universities/models"
)

// FavoritesStore is the persistence the view-models write favorites
// through. Implementations key records by university name.
type FavoritesStore interface {
	Add(ctx context.Context, u models.University) error
	Remove(ctx context.Context, u models.University) error
	GetAll(ctx context.Context) ([]models.University, error)
}
