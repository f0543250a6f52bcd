package fetcher

const (
	SourceHTTP    = "http"
	SourceStorage = "storage"
)

// Config holds configuration for the page source.
type Config struct {
	// Kind selects the source: http or storage.
	Kind string `mapstructure:"kind" default:"http" validate:"oneof=http storage"`
	// BaseURL is the directory URL of the static page documents.
	BaseURL string `mapstructure:"base_url" default:"https://storage.googleapis.com/invio-com/usg-challenge/universities-at-turkey"`
	// PagePattern is the fmt pattern of a page document name.
	PagePattern string `mapstructure:"page_pattern" default:"page-%d.json" validate:"required"`
	// Prefix is the object key prefix when pages are served from storage.
	Prefix string `mapstructure:"prefix" default:"pages/"`
	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// CacheTTLSeconds keeps fetched pages in memory; 0 disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
}
