package listsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"unilist/feature/universities/fetcher"
	"unilist/feature/universities/models"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory FavoritesStore keyed by name.
type memStore struct {
	mu     sync.Mutex
	order  []string
	byName map[string]models.University
	err    error
}

func newMemStore(seed ...models.University) *memStore {
	s := &memStore{byName: map[string]models.University{}}
	for _, u := range seed {
		_ = s.Add(context.Background(), u)
	}
	return s
}

func (s *memStore) Add(ctx context.Context, u models.University) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.byName[u.Name]; !ok {
		s.order = append(s.order, u.Name)
	}
	s.byName[u.Name] = u
	return nil
}

func (s *memStore) Remove(ctx context.Context, u models.University) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.byName[u.Name]; !ok {
		return nil
	}
	delete(s.byName, u.Name)
	for i, n := range s.order {
		if n == u.Name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) GetAll(ctx context.Context) ([]models.University, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.University, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.byName[n])
	}
	return out, nil
}

func (s *memStore) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *memStore) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// fakeFetcher serves canned pages. When gate is set, every fetch blocks
// until a value is sent on it.
type fakeFetcher struct {
	pages map[int]*models.PageResponse
	errs  map[int]error
	gate  chan struct{}
	calls int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, page int) (*models.PageResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.errs[page]; ok {
		return nil, err
	}
	if p, ok := f.pages[page]; ok {
		return p, nil
	}
	return nil, &fetcher.Error{Kind: fetcher.KindNoData, Page: page}
}

func (f *fakeFetcher) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func uni(name string) models.UniversityRecord {
	return models.UniversityRecord{
		Name: name, Phone: "0 (322) 000 00 00", Fax: "-", Website: "https://" + name + ".edu.tr",
		Email: "-", Address: "-", Rector: "-",
	}
}

func bareUni(name string) models.UniversityRecord {
	return models.UniversityRecord{
		Name: name, Phone: "-", Fax: "-", Website: "-", Email: "-", Address: "-", Rector: "-",
	}
}

// adanaPage is page 1 of 3 with ADANA (two universities) and an empty
// ADIYAMAN.
func adanaPage() *models.PageResponse {
	return &models.PageResponse{
		CurrentPage: 1, TotalPages: 3, TotalItems: 3, ItemsPerPage: 2, PageSize: 2,
		Provinces: []models.ProvinceRecord{
			{ID: 1, Name: "ADANA", Universities: []models.UniversityRecord{uni("ATU"), bareUni("CU")}},
			{ID: 2, Name: "ADIYAMAN"},
		},
	}
}

func pageN(n, total int) *models.PageResponse {
	return &models.PageResponse{
		CurrentPage: n, TotalPages: total,
		Provinces: []models.ProvinceRecord{
			{ID: 100 + n, Name: fmt.Sprintf("P%d", n), Universities: []models.UniversityRecord{uni(fmt.Sprintf("U%d", n))}},
		},
	}
}

func testConfig() Config {
	return Config{LoadThreshold: 0.8, ScrollIntervalMillis: 0, FailureDelayMillis: 30, EventBuffer: 64}
}

func startHome(t *testing.T, f fetcher.Fetcher, store FavoritesStore, cfg Config) *Home {
	t.Helper()
	h := NewHome(f, store, nil, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = h.Run(ctx) }()
	t.Cleanup(cancel)
	return h
}

func startFavorites(t *testing.T, store FavoritesStore) *Favorites {
	t.Helper()
	f := NewFavorites(store, nil, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = f.Run(ctx) }()
	t.Cleanup(cancel)
	return f
}

func nextEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func expectKinds(t *testing.T, ch <-chan Event, kinds ...EventKind) []Event {
	t.Helper()
	got := make([]Event, 0, len(kinds))
	for _, want := range kinds {
		e := nextEvent(t, ch)
		require.Equal(t, want, e.Kind, "unexpected event %+v", e)
		got = append(got, e)
	}
	return got
}

func expectQuiet(t *testing.T, ch <-chan Event, wait time.Duration) {
	t.Helper()
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %+v", e)
	case <-time.After(wait):
	}
}

func flush(t *testing.T, fl interface{ Flush(context.Context) error }) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, fl.Flush(ctx))
}

var errStore = errors.New("store unavailable")
