package listsync

import (
	"context"
	"sync/atomic"
	"time"

	"unilist/feature/universities/fetcher"
	"unilist/feature/universities/models"

	"go.uber.org/zap"
)

// Home drives the paginated province/university list.
//
// All state lives on the loop started by Run. Public methods only queue
// work and return immediately; use Flush to wait for it and Snapshot to
// read the latest state.
type Home struct {
	actor

	fetcher      fetcher.Fetcher
	store        FavoritesStore
	logger       *zap.Logger
	trigger      *ScrollTrigger
	failureDelay time.Duration

	// Loop-confined.
	state     HomeState
	favorites FavoriteSet

	snapshot atomic.Pointer[HomeState]
}

// NewHome creates the home list view-model.
func NewHome(f fetcher.Fetcher, store FavoritesStore, logger *zap.Logger, cfg Config) *Home {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Home{
		fetcher:      f,
		store:        store,
		logger:       logger.Named("home"),
		trigger:      NewScrollTrigger(cfg.LoadThreshold, cfg.scrollInterval()),
		failureDelay: cfg.failureDelay(),
		state:        NewHomeState(),
		favorites:    FavoriteSet{},
	}
	h.init(cfg.eventBuffer())
	initial := h.state
	h.snapshot.Store(&initial)
	return h
}

// Run executes queued operations until ctx is cancelled.
func (h *Home) Run(ctx context.Context) error {
	return h.run(ctx)
}

// Snapshot returns the most recent state.
func (h *Home) Snapshot() HomeState {
	return *h.snapshot.Load()
}

// Details returns the detail projection of the university at path.
func (h *Home) Details(path models.Path) ([]models.Detail, bool) {
	return DetailsAt(h.Snapshot(), path)
}

// FetchNextPage requests the next page unless one is in flight or the
// last page was reached.
func (h *Home) FetchNextPage() {
	h.post(h.fetchNext)
}

// Retry clears the list and fetches from the first page again.
func (h *Home) Retry() {
	h.post(func() {
		next, ok, events := Reset(h.state)
		if !ok {
			h.logger.Debug("Retry ignored while a fetch is in flight")
			return
		}
		h.logger.Info("Resetting list")
		h.apply(next, events)
		h.fetchNext()
	})
}

// Refresh re-reads the favorites store and restamps every university.
// Call it whenever the list becomes visible again.
func (h *Home) Refresh() {
	h.post(func() {
		h.reloadFavorites()
		h.apply(StampFavorites(h.state, h.favorites), []Event{reloadAll()})
	})
}

// ToggleProvince expands or collapses the province at section.
func (h *Home) ToggleProvince(section int) {
	h.post(func() {
		next, events := ToggleProvince(h.state, section)
		if events == nil {
			h.logger.Debug("Province toggle out of range", zap.Int("section", section))
		}
		h.apply(next, events)
	})
}

// ToggleUniversity expands or collapses the university at path.
func (h *Home) ToggleUniversity(path models.Path) {
	h.post(func() {
		next, events := ToggleUniversity(h.state, path)
		if events == nil {
			h.logger.Debug("University toggle out of range",
				zap.Int("section", path.Section), zap.Int("row", path.Row))
		}
		h.apply(next, events)
	})
}

// ToggleFavorite flips the favorite flag of the university at path and
// writes it through to the store.
func (h *Home) ToggleFavorite(path models.Path) {
	h.post(func() {
		next, u, ok, events := ToggleFavorite(h.state, path)
		if !ok {
			h.logger.Debug("Favorite toggle out of range",
				zap.Int("section", path.Section), zap.Int("row", path.Row))
			return
		}
		h.apply(next, events)

		record := u.PersistentCopy()
		var err error
		if u.Favorite {
			err = h.store.Add(h.ctx, record)
		} else {
			err = h.store.Remove(h.ctx, record)
		}
		if err != nil {
			h.logger.Error("Failed to update favorite",
				zap.String("university", u.Name), zap.Bool("favorite", u.Favorite), zap.Error(err))
			h.emit(showError("Your favorites could not be updated. Please try again."))
			return
		}
		h.reloadFavorites()
	})
}

// CollapseAll collapses every expanded province and university.
func (h *Home) CollapseAll() {
	h.post(func() {
		h.apply(CollapseAll(h.state))
	})
}

// OnScroll reports the current scroll geometry; the next page is requested
// when the trigger fires.
func (h *Home) OnScroll(offset, visibleHeight, contentHeight float64) {
	h.post(func() {
		if h.trigger.Observe(offset, visibleHeight, contentHeight, len(h.state.Provinces) > 0) {
			h.fetchNext()
		}
	})
}

// apply installs next as the current state and emits events. Loop only.
func (h *Home) apply(next HomeState, events []Event) {
	h.state = next
	snap := next
	h.snapshot.Store(&snap)
	h.emit(events...)
}

// fetchNext starts a fetch if the cursor allows it. Loop only.
func (h *Home) fetchNext() {
	next, page, ok, events := BeginFetch(h.state)
	if !ok {
		h.logger.Debug("Fetch skipped",
			zap.Bool("loading", h.state.Cursor.Loading),
			zap.Int("current_page", h.state.Cursor.CurrentPage),
			zap.Int("total_pages", h.state.Cursor.TotalPages))
		return
	}
	h.apply(next, events)
	h.logger.Debug("Fetching page", zap.Int("page", page))

	ctx := h.ctx
	go func() {
		resp, err := h.fetcher.Fetch(ctx, page)
		if err != nil && h.failureDelay > 0 {
			timer := time.NewTimer(h.failureDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}
		h.post(func() { h.completeFetch(page, resp, err) })
	}()
}

// completeFetch merges or fails the in-flight fetch. Loop only.
func (h *Home) completeFetch(page int, resp *models.PageResponse, err error) {
	if err != nil {
		h.logger.Warn("Failed to fetch page", zap.Int("page", page), zap.Error(err))
		h.apply(FailFetch(h.state, fetcher.UserMessage(err)))
		return
	}

	h.reloadFavorites()
	next, events := MergePage(h.state, resp, h.favorites)
	h.logger.Info("Merged page",
		zap.Int("page", next.Cursor.CurrentPage),
		zap.Int("total_pages", next.Cursor.TotalPages),
		zap.Int("provinces", len(next.Provinces)))
	h.apply(next, events)
}

// reloadFavorites refreshes the favorites cache from the store. On failure
// the previous cache is kept. Loop only.
func (h *Home) reloadFavorites() {
	list, err := h.store.GetAll(h.ctx)
	if err != nil {
		h.logger.Error("Failed to read favorites", zap.Error(err))
		return
	}
	h.favorites = NewFavoriteSet(list)
}
