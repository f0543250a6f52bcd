package server

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// MaxSessions caps concurrently open browsing sessions.
	MaxSessions int `mapstructure:"max_sessions" default:"100"`
	// MaxWaitMillis caps the long-poll duration of the events endpoint.
	MaxWaitMillis int `mapstructure:"max_wait_millis" default:"10000"`
}

// Validate checks that the configured values are usable.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Port)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("server max_sessions must be positive, got %d", c.MaxSessions)
	}
	return nil
}

// AuthEnabled reports whether requests must carry the API key.
func (c Config) AuthEnabled() bool {
	return c.ApiKey != ""
}

// MaxWait returns the long-poll cap as a duration.
func (c Config) MaxWait() time.Duration {
	if c.MaxWaitMillis <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.MaxWaitMillis) * time.Millisecond
}
