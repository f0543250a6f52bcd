package integrity

import (
	"context"
	"errors"
	"fmt"

	"unilist/core/storage"
	"unilist/feature/favorites/store"
	"unilist/feature/integrity/checks"
	"unilist/feature/universities/fetcher"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrStorageDisabled is returned by bucket checks without a storage client.
	ErrStorageDisabled = errors.New("object storage is not configured")
	// ErrDatabaseDisabled is returned by schema checks without a database.
	ErrDatabaseDisabled = errors.New("database is not configured")
)

// Deps are the collaborators inspected by the checks. Nil members disable
// the matching checks.
type Deps struct {
	Storage       storage.Client
	StorageConfig storage.Config
	Source        fetcher.Config
	Fetcher       fetcher.Fetcher
	DB            *gorm.DB
	Redis         *redis.Client
}

// Service handles integrity checks.
type Service struct {
	deps   Deps
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(deps Deps, logger *zap.Logger) *Service {
	return &Service{deps: deps, logger: logger}
}

// CheckSource fetches the first page from the configured source.
func (s *Service) CheckSource(ctx context.Context) *checks.SourceReport {
	return checks.CheckSource(ctx, s.deps.Fetcher)
}

// CheckPages compares the mirrored pages with the page count announced by
// the source.
func (s *Service) CheckPages(ctx context.Context) (*checks.PagesReport, error) {
	if s.deps.Storage == nil {
		return nil, ErrStorageDisabled
	}
	src := s.CheckSource(ctx)
	if !src.Reachable {
		return nil, fmt.Errorf("page source unreachable: %s", src.Error)
	}
	return checks.CheckPages(ctx, s.deps.Storage, s.deps.StorageConfig.Bucket,
		s.deps.Source.Prefix, s.deps.Source.PagePattern, src.TotalPages)
}

// FixBucket creates the page bucket.
func (s *Service) FixBucket(ctx context.Context) error {
	if s.deps.Storage == nil {
		return ErrStorageDisabled
	}
	return checks.FixBucket(ctx, s.deps.Storage, s.deps.StorageConfig.Bucket, s.deps.StorageConfig.Region, s.logger)
}

// CheckSchema compares the favorites table with its model.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.deps.DB == nil {
		return nil, ErrDatabaseDisabled
	}
	return checks.CheckSchema(s.deps.DB, store.FavoriteUniversity{})
}

// FixSchema migrates the favorites table.
func (s *Service) FixSchema() error {
	if s.deps.DB == nil {
		return ErrDatabaseDisabled
	}
	return store.NewGormStore(s.deps.DB).Migrate()
}

// CheckCache pings Redis.
func (s *Service) CheckCache(ctx context.Context) *checks.CacheReport {
	return checks.CheckCache(ctx, s.deps.Redis)
}
