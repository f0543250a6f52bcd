package fetcher

import (
	"context"
	"fmt"
	"time"

	"unilist/core/storage"
	"unilist/feature/universities/models"
)

// Fetcher retrieves one page of province/university records.
type Fetcher interface {
	Fetch(ctx context.Context, page int) (*models.PageResponse, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, page int) (*models.PageResponse, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, page int) (*models.PageResponse, error) {
	return f(ctx, page)
}

// New builds the configured source, wrapped in a page cache when a TTL is
// configured. client may be nil for the http source.
func New(cfg Config, client storage.Client, bucket string) (Fetcher, error) {
	var base Fetcher
	switch cfg.Kind {
	case SourceHTTP, "":
		f, err := NewHTTPFetcher(cfg)
		if err != nil {
			return nil, err
		}
		base = f
	case SourceStorage:
		if client == nil {
			return nil, fmt.Errorf("storage source requires a storage client")
		}
		base = NewStorageFetcher(client, bucket, cfg.Prefix, cfg.PagePattern)
	default:
		return nil, fmt.Errorf("unknown page source %q", cfg.Kind)
	}

	if cfg.CacheTTLSeconds > 0 {
		return NewCachedFetcher(base, time.Duration(cfg.CacheTTLSeconds)*time.Second), nil
	}
	return base, nil
}

// PageName renders the document name of page.
func PageName(pattern string, page int) string {
	return fmt.Sprintf(pattern, page)
}
