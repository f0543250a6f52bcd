package listsync

import "time"

// Config holds the tuning of the list view-models.
type Config struct {
	// LoadThreshold is the scrolled fraction of the content that requests
	// the next page.
	LoadThreshold float64 `mapstructure:"load_threshold" default:"0.85" validate:"gt=0,lte=1"`
	// ScrollIntervalMillis is the minimum time between two scroll-triggered
	// page requests.
	ScrollIntervalMillis int `mapstructure:"scroll_interval_millis" default:"1000" validate:"gte=0"`
	// FailureDelayMillis delays surfacing a failed fetch so fast failures do
	// not flicker the loading indicator.
	FailureDelayMillis int `mapstructure:"failure_delay_millis" default:"500" validate:"gte=0"`
	// EventBuffer is the capacity of the event channel.
	EventBuffer int `mapstructure:"event_buffer" default:"64" validate:"gt=0"`
}

// DefaultConfig returns the values used when no configuration is loaded.
func DefaultConfig() Config {
	return Config{
		LoadThreshold:        0.85,
		ScrollIntervalMillis: 1000,
		FailureDelayMillis:   500,
		EventBuffer:          64,
	}
}

func (c Config) scrollInterval() time.Duration {
	return time.Duration(c.ScrollIntervalMillis) * time.Millisecond
}

func (c Config) failureDelay() time.Duration {
	return time.Duration(c.FailureDelayMillis) * time.Millisecond
}

func (c Config) eventBuffer() int {
	if c.EventBuffer <= 0 {
		return 64
	}
	return c.EventBuffer
}
