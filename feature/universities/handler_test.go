package universities_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"unilist/core/database"
	"unilist/feature/favorites/store"
	"unilist/feature/universities"
	"unilist/feature/universities/fetcher"
	"unilist/feature/universities/listsync"
	"unilist/feature/universities/models"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func adanaPage() *models.PageResponse {
	return &models.PageResponse{
		CurrentPage: 1, TotalPages: 3,
		Provinces: []models.ProvinceRecord{{
			ID: 1, Name: "ADANA",
			Universities: []models.UniversityRecord{{
				Name:  "ADANA ALPARSLAN TÜRKEŞ BİLİM VE TEKNOLOJİ ÜNİVERSİTESİ",
				Phone: "0 (322) 455 00 00", Fax: "0 (322) 455 00 09",
				Website: "http://www.atu.edu.tr", Email: "info@atu.edu.tr",
				Address: "Balcalı Mah.", Rector: "-",
			}},
		}},
	}
}

type testEnv struct {
	app     *fiber.App
	feature *universities.Feature
	store   store.Store
}

func setup(t *testing.T, maxSessions int) testEnv {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	s := store.NewGormStore(db)
	require.NoError(t, s.Migrate())

	f := fetcher.FetcherFunc(func(ctx context.Context, page int) (*models.PageResponse, error) {
		if page == 1 {
			return adanaPage(), nil
		}
		return nil, &fetcher.Error{Kind: fetcher.KindNoData, Page: page}
	})

	cfg := listsync.DefaultConfig()
	cfg.FailureDelayMillis = 0
	feature := universities.NewFeature(f, s, zap.NewNop(), cfg, maxSessions, 500*time.Millisecond)

	app := fiber.New(fiber.Config{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal})
	require.NoError(t, feature.Load(app))
	t.Cleanup(func() { _ = feature.Close() })

	return testEnv{app: app, feature: feature, store: s}
}

func call(t *testing.T, app *fiber.App, method, target, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, out), string(data))
	}
	return resp.StatusCode
}

func openSession(t *testing.T, env testEnv) string {
	t.Helper()
	var created universities.SessionResponse
	require.Equal(t, http.StatusCreated, call(t, env.app, http.MethodPost, "/sessions", "", &created))
	require.NotEmpty(t, created.ID)

	require.Eventually(t, func() bool {
		var state listsync.HomeState
		call(t, env.app, http.MethodGet, "/sessions/"+created.ID+"/home", "", &state)
		return state.Cursor.CurrentPage == 1
	}, 2*time.Second, 10*time.Millisecond)
	return created.ID
}

func TestSessionLifecycle(t *testing.T) {
	env := setup(t, 10)
	id := openSession(t, env)
	base := "/sessions/" + id

	var homeKinds []listsync.EventKind
	require.Eventually(t, func() bool {
		var drained struct {
			Events []universities.SessionEvent `json:"events"`
		}
		call(t, env.app, http.MethodGet, base+"/events?wait=100", "", &drained)
		for _, e := range drained.Events {
			if e.Source == universities.SourceHome {
				homeKinds = append(homeKinds, e.Kind)
			}
		}
		return len(homeKinds) >= 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []listsync.EventKind{listsync.EventShowLoading, listsync.EventHideLoading, listsync.EventReloadAll}, homeKinds)

	var state listsync.HomeState
	require.Equal(t, http.StatusOK, call(t, env.app, http.MethodPost, base+"/home/provinces/0/toggle", "", &state))
	assert.True(t, state.Provinces[0].Expanded)

	require.Equal(t, http.StatusOK, call(t, env.app, http.MethodPost, base+"/home/collapse", "", &state))
	assert.False(t, state.Provinces[0].Expanded)

	assert.Equal(t, http.StatusNoContent, call(t, env.app, http.MethodDelete, base, "", nil))
	assert.Equal(t, http.StatusNotFound, call(t, env.app, http.MethodGet, base+"/home", "", nil))
	assert.Equal(t, 0, env.feature.Registry().Len())
}

func TestFavoriteFlow(t *testing.T) {
	env := setup(t, 10)
	id := openSession(t, env)
	base := "/sessions/" + id

	var state listsync.HomeState
	require.Equal(t, http.StatusOK, call(t, env.app, http.MethodPost, base+"/home/provinces/0/universities/0/favorite", "", &state))
	assert.True(t, state.Provinces[0].Universities[0].Favorite)

	ok, err := env.store.IsFavorite(context.Background(), models.University{Name: adanaPage().Provinces[0].Universities[0].Name})
	require.NoError(t, err)
	assert.True(t, ok)

	var favs listsync.FavoritesState
	require.Equal(t, http.StatusOK, call(t, env.app, http.MethodPost, base+"/favorites/load", "", &favs))
	require.Len(t, favs.Universities, 1)
	assert.True(t, favs.Universities[0].Favorite)

	require.Equal(t, http.StatusOK, call(t, env.app, http.MethodPost, base+"/favorites/0/toggle", "", &favs))
	assert.True(t, favs.Universities[0].Expanded)

	require.Equal(t, http.StatusOK, call(t, env.app, http.MethodDelete, base+"/favorites/0", "", &favs))
	assert.Empty(t, favs.Universities)

	all, err := env.store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	require.Equal(t, http.StatusOK, call(t, env.app, http.MethodPost, base+"/home/refresh", "", &state))
	assert.False(t, state.Provinces[0].Universities[0].Favorite)
}

func TestDetails(t *testing.T) {
	env := setup(t, 10)
	base := "/sessions/" + openSession(t, env)

	var details []models.Detail
	require.Equal(t, http.StatusOK, call(t, env.app, http.MethodGet, base+"/home/provinces/0/universities/0/details", "", &details))
	assert.Len(t, details, 5)

	assert.Equal(t, http.StatusNotFound, call(t, env.app, http.MethodGet, base+"/home/provinces/0/universities/3/details", "", nil))
	assert.Equal(t, http.StatusBadRequest, call(t, env.app, http.MethodGet, base+"/home/provinces/x/universities/0/details", "", nil))
}

func TestScrollAndNext(t *testing.T) {
	env := setup(t, 10)
	base := "/sessions/" + openSession(t, env)

	assert.Equal(t, http.StatusBadRequest, call(t, env.app, http.MethodPost, base+"/home/scroll", `{"offset":-1}`, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, env.app, http.MethodPost, base+"/home/scroll", `nope`, nil))

	var state listsync.HomeState
	require.Equal(t, http.StatusOK, call(t, env.app, http.MethodPost, base+"/home/scroll",
		`{"offset":900,"visible_height":100,"content_height":1000}`, &state))

	// Page 2 does not exist: the fetch fails and the list stays on page 1.
	require.Eventually(t, func() bool {
		call(t, env.app, http.MethodGet, base+"/home", "", &state)
		return state.Phase == listsync.PhaseFailed
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, state.Cursor.CurrentPage)
	assert.False(t, state.Cursor.Loading)

	require.Equal(t, http.StatusOK, call(t, env.app, http.MethodPost, base+"/home/retry", "", &state))
	require.Eventually(t, func() bool {
		call(t, env.app, http.MethodGet, base+"/home", "", &state)
		return state.Phase == listsync.PhaseMerged && state.Cursor.CurrentPage == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, http.StatusOK, call(t, env.app, http.MethodPost, base+"/home/next", "", nil))
}

func TestErrors(t *testing.T) {
	env := setup(t, 1)

	assert.Equal(t, http.StatusNotFound, call(t, env.app, http.MethodGet, "/sessions/unknown/home", "", nil))
	assert.Equal(t, http.StatusNotFound, call(t, env.app, http.MethodGet, "/sessions/unknown/events", "", nil))
	assert.Equal(t, http.StatusNotFound, call(t, env.app, http.MethodDelete, "/sessions/unknown", "", nil))

	id := openSession(t, env)
	assert.Equal(t, http.StatusServiceUnavailable, call(t, env.app, http.MethodPost, "/sessions", "", nil))
	assert.Equal(t, http.StatusBadRequest, call(t, env.app, http.MethodPost, "/sessions/"+id+"/home/provinces/abc/toggle", "", nil))
	assert.Equal(t, http.StatusBadRequest, call(t, env.app, http.MethodGet, "/sessions/"+id+"/events?wait=-5", "", nil))

	require.NoError(t, env.feature.Close())
	assert.Equal(t, 0, env.feature.Registry().Len())
}
