package listsync

import (
	"context"
	"testing"
	"time"

	"unilist/feature/universities/fetcher"
	"unilist/feature/universities/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFirstPage(t *testing.T, h *Home) {
	t.Helper()
	h.FetchNextPage()
	expectKinds(t, h.Events(), EventShowLoading, EventHideLoading, EventReloadAll)
}

func TestHome_FirstPageAndToggle(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*models.PageResponse{1: adanaPage()}}
	h := startHome(t, f, newMemStore(), testConfig())

	loadFirstPage(t, h)

	s := h.Snapshot()
	require.Len(t, s.Provinces, 2)
	assert.Equal(t, "ADANA", s.Provinces[0].Name)
	assert.Equal(t, 1, s.Cursor.CurrentPage)
	assert.Equal(t, 3, s.Cursor.TotalPages)
	assert.False(t, s.Cursor.Loading)

	h.ToggleProvince(0)
	e := nextEvent(t, h.Events())
	assert.Equal(t, EventReloadSection, e.Kind)
	assert.Equal(t, []int{0}, e.Sections)
	assert.True(t, h.Snapshot().Provinces[0].Expanded)
}

func TestHome_EmptyProvinceNotice(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*models.PageResponse{1: adanaPage()}}
	h := startHome(t, f, newMemStore(), testConfig())
	loadFirstPage(t, h)

	h.ToggleProvince(1)
	e := nextEvent(t, h.Events())
	assert.Equal(t, EventShowNotice, e.Kind)
	assert.Equal(t, NoticeNoUniversities, e.Message)
	assert.False(t, h.Snapshot().Provinces[1].Expanded)
}

func TestHome_SingleFetchInFlight(t *testing.T) {
	f := &fakeFetcher{
		pages: map[int]*models.PageResponse{1: adanaPage()},
		gate:  make(chan struct{}),
	}
	h := startHome(t, f, newMemStore(), testConfig())

	h.FetchNextPage()
	h.FetchNextPage()
	h.Retry()
	h.FetchNextPage()
	flush(t, h)

	require.Eventually(t, func() bool { return f.callCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.callCount())
	assert.True(t, h.Snapshot().Cursor.Loading)

	close(f.gate)
	expectKinds(t, h.Events(), EventShowLoading, EventHideLoading, EventReloadAll)
	expectQuiet(t, h.Events(), 30*time.Millisecond)
	assert.Equal(t, 1, f.callCount())
}

func TestHome_NoConnectionFailure(t *testing.T) {
	f := &fakeFetcher{
		pages: map[int]*models.PageResponse{1: adanaPage()},
		errs:  map[int]error{1: &fetcher.Error{Kind: fetcher.KindNoConnection, Page: 1}},
	}
	h := startHome(t, f, newMemStore(), testConfig())

	h.FetchNextPage()
	events := expectKinds(t, h.Events(), EventShowLoading, EventHideLoading, EventShowError)
	assert.Equal(t, fetcher.UserMessage(fetcher.ErrNoConnection), events[2].Message)
	expectQuiet(t, h.Events(), 50*time.Millisecond)

	s := h.Snapshot()
	assert.False(t, s.Cursor.Loading)
	assert.Equal(t, PhaseFailed, s.Phase)
	assert.Equal(t, 0, s.Cursor.CurrentPage)
	assert.Empty(t, s.Provinces)
}

func TestHome_FailureSurfacesAfterDelay(t *testing.T) {
	f := &fakeFetcher{
		errs: map[int]error{1: &fetcher.Error{Kind: fetcher.KindNoConnection, Page: 1}},
	}
	cfg := testConfig()
	cfg.FailureDelayMillis = 200
	delay := time.Duration(cfg.FailureDelayMillis) * time.Millisecond
	h := startHome(t, f, newMemStore(), cfg)

	start := time.Now()
	h.FetchNextPage()
	expectKinds(t, h.Events(), EventShowLoading)

	// The failure is held back while the delay runs.
	expectQuiet(t, h.Events(), delay/2)
	assert.True(t, h.Snapshot().Cursor.Loading)

	events := expectKinds(t, h.Events(), EventHideLoading, EventShowError)
	assert.GreaterOrEqual(t, time.Since(start), delay)
	assert.Equal(t, fetcher.UserMessage(fetcher.ErrNoConnection), events[1].Message)
	expectQuiet(t, h.Events(), 50*time.Millisecond)
	assert.False(t, h.Snapshot().Cursor.Loading)
	assert.Equal(t, 1, f.callCount())
}

func TestHome_RetryAfterFailure(t *testing.T) {
	f := &fakeFetcher{
		pages: map[int]*models.PageResponse{1: adanaPage()},
		errs:  map[int]error{1: &fetcher.Error{Kind: fetcher.KindServer, Page: 1}},
	}
	h := startHome(t, f, newMemStore(), testConfig())

	h.FetchNextPage()
	expectKinds(t, h.Events(), EventShowLoading, EventHideLoading, EventShowError)

	delete(f.errs, 1)
	h.Retry()
	expectKinds(t, h.Events(), EventReloadAll, EventShowLoading, EventHideLoading, EventReloadAll)
	assert.Len(t, h.Snapshot().Provinces, 2)
	assert.Equal(t, 2, f.callCount())
}

func TestHome_StopsAtLastPage(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*models.PageResponse{1: pageN(1, 2), 2: pageN(2, 2)}}
	h := startHome(t, f, newMemStore(), testConfig())

	loadFirstPage(t, h)
	loadFirstPage(t, h)

	h.FetchNextPage()
	flush(t, h)
	expectQuiet(t, h.Events(), 30*time.Millisecond)
	assert.Equal(t, 2, f.callCount())

	s := h.Snapshot()
	assert.Equal(t, Cursor{CurrentPage: 2, TotalPages: 2}, s.Cursor)
	assert.Len(t, s.Provinces, 2)
}

func TestHome_OnScroll(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*models.PageResponse{1: pageN(1, 3), 2: pageN(2, 3)}}
	h := startHome(t, f, newMemStore(), testConfig())

	h.OnScroll(900, 100, 1000)
	flush(t, h)
	assert.Equal(t, 0, f.callCount(), "empty list never triggers")

	loadFirstPage(t, h)

	h.OnScroll(100, 100, 1000)
	flush(t, h)
	assert.Equal(t, 1, f.callCount())

	h.OnScroll(750, 100, 1000)
	expectKinds(t, h.Events(), EventShowLoading, EventHideLoading, EventReloadAll)
	assert.Equal(t, 2, h.Snapshot().Cursor.CurrentPage)
}

func TestHome_ToggleFavoritePersists(t *testing.T) {
	store := newMemStore()
	f := &fakeFetcher{pages: map[int]*models.PageResponse{1: adanaPage()}}
	h := startHome(t, f, store, testConfig())
	loadFirstPage(t, h)

	path := models.Path{Section: 0, Row: 0}
	h.ToggleFavorite(path)
	e := nextEvent(t, h.Events())
	assert.Equal(t, EventReloadRows, e.Kind)
	assert.Equal(t, []models.Path{path}, e.Rows)
	flush(t, h)

	assert.Equal(t, []string{"ATU"}, store.names())
	stored, _ := store.GetAll(context.Background())
	assert.False(t, stored[0].Favorite, "stored copy carries no view flags")
	u, _ := h.Snapshot().University(path)
	assert.True(t, u.Favorite)

	h.ToggleFavorite(path)
	nextEvent(t, h.Events())
	flush(t, h)
	assert.Empty(t, store.names())
	u, _ = h.Snapshot().University(path)
	assert.False(t, u.Favorite)
}

func TestHome_ToggleFavoriteStoreFailure(t *testing.T) {
	store := newMemStore()
	f := &fakeFetcher{pages: map[int]*models.PageResponse{1: adanaPage()}}
	h := startHome(t, f, store, testConfig())
	loadFirstPage(t, h)

	store.setErr(errStore)
	h.ToggleFavorite(models.Path{Section: 0, Row: 1})
	expectKinds(t, h.Events(), EventReloadRows, EventShowError)
}

func TestHome_StampsStoredFavorites(t *testing.T) {
	store := newMemStore(models.University{Name: "CU"})
	f := &fakeFetcher{pages: map[int]*models.PageResponse{1: adanaPage()}}
	h := startHome(t, f, store, testConfig())
	loadFirstPage(t, h)

	unis := h.Snapshot().Provinces[0].Universities
	assert.False(t, unis[0].Favorite)
	assert.True(t, unis[1].Favorite)

	// Removed from another screen.
	require.NoError(t, store.Remove(context.Background(), models.University{Name: "CU"}))
	h.Refresh()
	expectKinds(t, h.Events(), EventReloadAll)
	assert.False(t, h.Snapshot().Provinces[0].Universities[1].Favorite)
}

func TestHome_CollapseAll(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*models.PageResponse{1: adanaPage()}}
	h := startHome(t, f, newMemStore(), testConfig())
	loadFirstPage(t, h)

	h.CollapseAll()
	flush(t, h)
	expectQuiet(t, h.Events(), 20*time.Millisecond)

	h.ToggleProvince(0)
	h.ToggleUniversity(models.Path{Section: 0, Row: 0})
	expectKinds(t, h.Events(), EventReloadSection, EventReloadRows)

	h.CollapseAll()
	e := nextEvent(t, h.Events())
	assert.Equal(t, EventReloadSection, e.Kind)
	assert.Equal(t, []int{0}, e.Sections)
	assert.False(t, h.Snapshot().Provinces[0].Expanded)
}

func TestHome_Details(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*models.PageResponse{1: adanaPage()}}
	h := startHome(t, f, newMemStore(), testConfig())
	loadFirstPage(t, h)

	details, ok := h.Details(models.Path{Section: 0, Row: 0})
	require.True(t, ok)
	assert.Equal(t, models.CategoryPhone, details[0].Category)
}

func TestHome_Stop(t *testing.T) {
	h := NewHome(&fakeFetcher{}, newMemStore(), nil, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.Run(ctx) }()

	flush(t, h)
	assert.ErrorIs(t, h.Run(ctx), ErrAlreadyRunning)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	<-h.Done()

	_, open := <-h.Events()
	assert.False(t, open)
	assert.ErrorIs(t, h.Flush(context.Background()), ErrStopped)
}
