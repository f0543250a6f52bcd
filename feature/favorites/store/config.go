package store

const (
	BackendDatabase = "database"
	BackendRedis    = "redis"
)

// Config selects and tunes the favorites backend.
type Config struct {
	// Backend is "database" (gorm) or "redis".
	Backend string `mapstructure:"backend" default:"database" validate:"oneof=database redis"`
	// AutoMigrate creates the favorites table on startup.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"true"`
}
