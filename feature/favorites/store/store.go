package store

import (
	"context"
	"errors"
	"fmt"

	"unilist/core/cache"
	"unilist/feature/universities/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Store persists favorite universities keyed by name. Writes are last
// write wins.
type Store interface {
	Add(ctx context.Context, u models.University) error
	Remove(ctx context.Context, u models.University) error
	GetAll(ctx context.Context) ([]models.University, error)
	IsFavorite(ctx context.Context, u models.University) (bool, error)
}

// ErrInvalidName is returned when a university without a name is stored.
var ErrInvalidName = errors.New("university name is required")

// New builds the store selected by cfg.Backend.
func New(cfg Config, db *gorm.DB, rdb *redis.Client, keys cache.Config) (Store, error) {
	switch cfg.Backend {
	case BackendDatabase, "":
		if db == nil {
			return nil, fmt.Errorf("favorites backend %q requires a database connection", BackendDatabase)
		}
		s := NewGormStore(db)
		if cfg.AutoMigrate {
			if err := s.Migrate(); err != nil {
				return nil, err
			}
		}
		return s, nil
	case BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("favorites backend %q requires a redis connection", BackendRedis)
		}
		return NewRedisStore(rdb, keys), nil
	default:
		return nil, fmt.Errorf("unknown favorites backend: %s", cfg.Backend)
	}
}
