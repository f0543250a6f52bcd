package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"unilist/core/storage/mocks"
	"unilist/feature/universities/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const pageJSON = `{"currentPage":%d,"totalPage":3,"total":3,"itemPerPage":1,"pageSize":1,
"data":[{"id":%d,"province":"P%d","universities":[{"name":"U%d","phone":"1","fax":"-","website":"-","email":"-","adress":"-","rector":"-"}]}]}`

func servePages(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		var page int
		switch r.URL.Path {
		case "/api/page-1.json":
			page = 1
		case "/api/page-2.json":
			page = 2
		case "/api/broken.json", "/api/page-7.json":
			w.WriteHeader(http.StatusInternalServerError)
			return
		case "/api/page-8.json":
			_, _ = w.Write([]byte(`{"currentPage": "x"`))
			return
		case "/api/page-9.json":
			return
		default:
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprintf(w, pageJSON, page, page, page, page)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := servePages(t, nil)
	f, err := NewHTTPFetcher(Config{BaseURL: srv.URL + "/api", PagePattern: "page-%d.json", TimeoutSeconds: 2})
	require.NoError(t, err)

	page, err := f.Fetch(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "P2", page.Provinces[0].Name)
}

func TestHTTPFetcher_Errors(t *testing.T) {
	srv := servePages(t, nil)

	tests := []struct {
		name    string
		baseURL string
		page    int
		want    error
	}{
		{"Not Found", srv.URL + "/api", 4, ErrNoData},
		{"Server Error", srv.URL + "/api", 7, ErrServer},
		{"Malformed", srv.URL + "/api", 8, ErrDecoding},
		{"Empty Body", srv.URL + "/api", 9, ErrNoData},
		{"Relative Base", "api/pages", 1, ErrInvalidURL},
		{"Bad Base", "http://[::1", 1, ErrInvalidURL},
		{"Refused", "http://127.0.0.1:1", 1, ErrNoConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewHTTPFetcher(Config{BaseURL: tt.baseURL, TimeoutSeconds: 2})
			require.NoError(t, err)

			_, err = f.Fetch(context.Background(), tt.page)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var fe *Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.page, fe.Page)
		})
	}
}

func TestHTTPFetcher_Cancelled(t *testing.T) {
	srv := servePages(t, nil)
	f, err := NewHTTPFetcher(Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Fetch(ctx, 1)
	assert.ErrorIs(t, err, ErrNoConnection)
}

func TestHTTPFetcher_PageURL(t *testing.T) {
	f, err := NewHTTPFetcher(Config{BaseURL: "https://example.com/u/", PagePattern: "page-%d.json"})
	require.NoError(t, err)

	u, err := f.PageURL(3)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/u/page-3.json", u)
}

func TestStorageFetcher_Fetch(t *testing.T) {
	m := new(mocks.Client)
	m.On("GetObject", mock.Anything, "unis", "pages/page-1.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte(fmt.Sprintf(pageJSON, 1, 1, 1, 1)))), nil)
	m.On("GetObject", mock.Anything, "unis", "pages/page-2.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})
	m.On("GetObject", mock.Anything, "unis", "pages/page-3.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "InternalError", StatusCode: http.StatusInternalServerError})

	f := NewStorageFetcher(m, "unis", "pages/", "page-%d.json")

	page, err := f.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "P1", page.Provinces[0].Name)

	_, err = f.Fetch(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = f.Fetch(context.Background(), 3)
	assert.ErrorIs(t, err, ErrServer)
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "page-1.json", ObjectName("", "page-%d.json", 1))
	assert.Equal(t, "tr/pages/page-2.json", ObjectName("tr/pages/", "page-%d.json", 2))
}

func TestCachedFetcher(t *testing.T) {
	var hits int32
	srv := servePages(t, &hits)
	base, err := NewHTTPFetcher(Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	c := NewCachedFetcher(base, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// Expired entries are refetched.
	now = now.Add(2 * time.Minute)
	_, err = c.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	// Failures are not cached.
	_, err = c.Fetch(context.Background(), 7)
	assert.ErrorIs(t, err, ErrServer)
	_, err = c.Fetch(context.Background(), 7)
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, int32(4), atomic.LoadInt32(&hits))

	c.Invalidate()
	_, err = c.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}

func TestCachedFetcher_CollapsesConcurrentFetches(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	slow := FetcherFunc(func(ctx context.Context, page int) (*models.PageResponse, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &models.PageResponse{CurrentPage: page, TotalPages: 1}, nil
	})

	c := NewCachedFetcher(slow, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Fetch(context.Background(), 1)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCachedFetcher_CallerCancelDoesNotFailSharedFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var upstreamErr atomic.Value
	var once sync.Once
	gated := FetcherFunc(func(ctx context.Context, page int) (*models.PageResponse, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			upstreamErr.Store(err)
			return nil, classifyTransport(page, err)
		}
		return &models.PageResponse{CurrentPage: page, TotalPages: 1}, nil
	})
	c := NewCachedFetcher(gated, time.Minute)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctxA, 1)
		errA <- err
	}()
	<-started

	type result struct {
		page *models.PageResponse
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		p, err := c.Fetch(context.Background(), 1)
		resB <- result{p, err}
	}()

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, ErrNoConnection)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(release)
	select {
	case r := <-resB:
		require.NoError(t, r.err)
		assert.Equal(t, 1, r.page.CurrentPage)
	case <-time.After(time.Second):
		t.Fatal("second caller never returned")
	}
	assert.Nil(t, upstreamErr.Load())

	// The shared result was cached for later callers.
	p, err := c.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CurrentPage)
}

func TestNew(t *testing.T) {
	f, err := New(Config{Kind: SourceHTTP, BaseURL: "https://example.com", CacheTTLSeconds: 10}, nil, "")
	require.NoError(t, err)
	assert.IsType(t, &CachedFetcher{}, f)

	f, err = New(Config{Kind: SourceStorage}, new(mocks.Client), "unis")
	require.NoError(t, err)
	assert.IsType(t, &StorageFetcher{}, f)

	_, err = New(Config{Kind: SourceStorage}, nil, "unis")
	assert.Error(t, err)

	_, err = New(Config{Kind: "ftp"}, nil, "")
	assert.Error(t, err)
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(newError(KindNoConnection, 1, nil)), "No internet connection")
	assert.Contains(t, UserMessage(errors.New("x")), "Something went wrong")
	assert.NotEqual(t, UserMessage(ErrServer), UserMessage(ErrDecoding))
}
