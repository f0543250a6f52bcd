package cmd

import (
	"fmt"

	"unilist/core/cache"
	"unilist/core/config"
	"unilist/core/database"
	"unilist/core/logger"
	"unilist/core/storage"
	"unilist/feature/favorites/store"
	"unilist/feature/universities/fetcher"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles the collaborators shared by the commands.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	redis   *redis.Client
	storage storage.Client
}

// bootstrap loads the configuration and opens the optional connections.
// A failed database or redis connection only disables what depends on it.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg}

	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		rt.db = conn
		logg.Debug("Connected to database", zap.String("driver", cfg.Database.Driver))
	}

	if client, err := cache.Connect(cfg.Redis); err != nil {
		logg.Warn("Optional redis connection failed", zap.Error(err))
	} else {
		rt.redis = client
		logg.Debug("Connected to redis")
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	rt.storage = client

	return rt, nil
}

// fetcher builds the configured page source.
func (r *runtime) fetcher() (fetcher.Fetcher, error) {
	f, err := fetcher.New(r.cfg.Source, r.storage, r.cfg.Storage.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to create page source: %w", err)
	}
	return f, nil
}

// favorites builds the configured favorites store and checks its schema.
func (r *runtime) favorites() (store.Store, error) {
	s, err := store.New(r.cfg.Favorites, r.db, r.redis, r.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create favorites store: %w", err)
	}

	if g, ok := s.(*store.GormStore); ok {
		missing, err := g.Check()
		if err != nil {
			return nil, fmt.Errorf("failed to inspect favorites table: %w", err)
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("favorites table is missing columns %v", missing)
		}
	}
	return s, nil
}

func (r *runtime) close() {
	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			r.logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if r.db != nil {
		if sqlDB, err := r.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = r.logger.Sync()
}
