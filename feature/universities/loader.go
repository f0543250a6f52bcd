package universities

import (
	"time"

	"unilist/feature/universities/fetcher"
	"unilist/feature/universities/listsync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature and loader.Closer interfaces.
type Feature struct {
	registry *Registry
	service  *Service
	handler  *Handler
}

// NewFeature creates the browsing feature.
func NewFeature(f fetcher.Fetcher, store listsync.FavoritesStore, logger *zap.Logger, cfg listsync.Config, maxSessions int, maxWait time.Duration) *Feature {
	registry := NewRegistry(f, store, logger, cfg, maxSessions)
	svc := NewService(registry, logger, maxWait)
	return &Feature{registry: registry, service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "universities"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Close stops every open session.
func (f *Feature) Close() error {
	f.registry.CloseAll()
	return nil
}

// Registry exposes the session registry.
func (f *Feature) Registry() *Registry {
	return f.registry
}
