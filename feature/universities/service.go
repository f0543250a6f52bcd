package universities

import (
	"context"
	"time"

	"unilist/feature/universities/listsync"

	"go.uber.org/zap"
)

// flushTimeout bounds how long a request waits for its operation to be
// applied by a list loop.
const flushTimeout = 5 * time.Second

// Service maps HTTP operations onto session lists.
type Service struct {
	registry *Registry
	logger   *zap.Logger
	maxWait  time.Duration
}

// NewService creates a new universities service.
func NewService(registry *Registry, logger *zap.Logger, maxWait time.Duration) *Service {
	return &Service{registry: registry, logger: logger, maxWait: maxWait}
}

// Open starts a new session.
func (s *Service) Open() (*Session, error) {
	return s.registry.Open()
}

// Close stops a session.
func (s *Service) Close(id string) error {
	return s.registry.Close(id)
}

// Events drains the pending events of a session, long-polling up to wait
// (capped at the configured maximum).
func (s *Service) Events(ctx context.Context, id string, wait time.Duration) ([]SessionEvent, error) {
	sess, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if wait > s.maxWait {
		wait = s.maxWait
	}
	return sess.Drain(ctx, wait), nil
}

// Home queues op on the home list of session id, waits until it has run
// and returns the resulting snapshot. A nil op only reads.
func (s *Service) Home(ctx context.Context, id string, op func(*listsync.Home)) (listsync.HomeState, error) {
	sess, err := s.registry.Get(id)
	if err != nil {
		return listsync.HomeState{}, err
	}
	if op != nil {
		op(sess.Home)
		ctx, cancel := context.WithTimeout(ctx, flushTimeout)
		defer cancel()
		if err := sess.Home.Flush(ctx); err != nil {
			return listsync.HomeState{}, err
		}
	}
	return sess.Home.Snapshot(), nil
}

// Favorites is Home for the favorites list.
func (s *Service) Favorites(ctx context.Context, id string, op func(*listsync.Favorites)) (listsync.FavoritesState, error) {
	sess, err := s.registry.Get(id)
	if err != nil {
		return listsync.FavoritesState{}, err
	}
	if op != nil {
		op(sess.Favorites)
		ctx, cancel := context.WithTimeout(ctx, flushTimeout)
		defer cancel()
		if err := sess.Favorites.Flush(ctx); err != nil {
			return listsync.FavoritesState{}, err
		}
	}
	return sess.Favorites.Snapshot(), nil
}
