package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"unilist/feature/universities/models"
)

// HTTPFetcher reads page documents from a static HTTP directory.
type HTTPFetcher struct {
	baseURL    *url.URL
	pattern    string
	httpClient *http.Client
	parseErr   error
}

// NewHTTPFetcher creates a fetcher for cfg.BaseURL. An unparsable base URL
// is not fatal here: every Fetch then fails with KindInvalidURL so the user
// sees the problem through the normal error path.
func NewHTTPFetcher(cfg Config) (*HTTPFetcher, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ResponseHeaderTimeout: timeoutDuration,
	}

	pattern := cfg.PagePattern
	if pattern == "" {
		pattern = "page-%d.json"
	}

	f := &HTTPFetcher{
		pattern: pattern,
		httpClient: &http.Client{
			Timeout:   timeoutDuration,
			Transport: transport,
		},
	}

	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		f.parseErr = err
	} else if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		f.parseErr = fmt.Errorf("base url %q must be absolute http(s)", cfg.BaseURL)
	} else {
		f.baseURL = u
	}
	return f, nil
}

// PageURL returns the absolute URL of page.
func (f *HTTPFetcher) PageURL(page int) (string, error) {
	if f.parseErr != nil {
		return "", f.parseErr
	}
	ref, err := url.Parse(PageName(f.pattern, page))
	if err != nil {
		return "", err
	}
	return f.baseURL.ResolveReference(ref).String(), nil
}

// Fetch downloads and decodes page.
func (f *HTTPFetcher) Fetch(ctx context.Context, page int) (*models.PageResponse, error) {
	pageURL, err := f.PageURL(page)
	if err != nil {
		return nil, newError(KindInvalidURL, page, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, newError(KindInvalidURL, page, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(page, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, newError(KindNoData, page, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, newError(KindServer, page, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(page, err)
	}
	return decode(page, body)
}

func decode(page int, body []byte) (*models.PageResponse, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, newError(KindNoData, page, errors.New("empty body"))
	}
	resp, err := models.DecodePage(body)
	if err != nil {
		return nil, newError(KindDecoding, page, err)
	}
	return resp, nil
}
