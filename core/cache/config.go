package cache

// Config holds configuration for the Redis connection.
type Config struct {
	// URL is a redis:// connection URL.
	URL string `mapstructure:"url" default:"redis://localhost:6379/0"`
	// KeyPrefix namespaces every key written by the application.
	KeyPrefix string `mapstructure:"key_prefix" default:"unilist"`
	// TimeoutSeconds bounds the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}
