package listsync

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// Favorites drives the dedicated favorites list.
type Favorites struct {
	actor

	store  FavoritesStore
	logger *zap.Logger

	// Loop-confined.
	state FavoritesState

	snapshot atomic.Pointer[FavoritesState]
}

// NewFavorites creates the favorites list view-model.
func NewFavorites(store FavoritesStore, logger *zap.Logger, cfg Config) *Favorites {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Favorites{store: store, logger: logger.Named("favorites")}
	f.init(cfg.eventBuffer())
	f.snapshot.Store(&FavoritesState{})
	return f
}

// Run executes queued operations until ctx is cancelled.
func (f *Favorites) Run(ctx context.Context) error {
	return f.run(ctx)
}

// Snapshot returns the most recent state.
func (f *Favorites) Snapshot() FavoritesState {
	return *f.snapshot.Load()
}

// Load replaces the list with the store contents.
func (f *Favorites) Load() {
	f.post(func() {
		list, err := f.store.GetAll(f.ctx)
		if err != nil {
			f.logger.Error("Failed to load favorites", zap.Error(err))
			f.emit(showError("Your favorites could not be loaded. Please try again."))
			return
		}
		f.apply(LoadFavorites(list))
	})
}

// ToggleUniversity expands or collapses the favorite at row.
func (f *Favorites) ToggleUniversity(row int) {
	f.post(func() {
		f.apply(ToggleFavoriteRow(f.state, row))
	})
}

// RemoveFavorite deletes the favorite at row from the store and the list.
func (f *Favorites) RemoveFavorite(row int) {
	f.post(func() {
		u, ok := f.state.University(row)
		if !ok {
			f.logger.Debug("Favorite removal out of range", zap.Int("row", row))
			return
		}
		if err := f.store.Remove(f.ctx, u.PersistentCopy()); err != nil {
			f.logger.Error("Failed to remove favorite", zap.String("university", u.Name), zap.Error(err))
			f.emit(showError("Your favorites could not be updated. Please try again."))
			return
		}
		next, _, _, events := RemoveFavoriteRow(f.state, row)
		f.apply(next, events)
	})
}

// CollapseAll collapses every expanded favorite.
func (f *Favorites) CollapseAll() {
	f.post(func() {
		f.apply(CollapseFavorites(f.state))
	})
}

func (f *Favorites) apply(next FavoritesState, events []Event) {
	f.state = next
	snap := next
	f.snapshot.Store(&snap)
	f.emit(events...)
}
