package universities

import (
	"errors"
	"sync"

	"unilist/core/logger"
	"unilist/feature/universities/fetcher"
	"unilist/feature/universities/listsync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for an unknown or closed session ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the session cap is reached.
	ErrTooManySessions = errors.New("too many open sessions")
)

// Registry owns every open browsing session.
type Registry struct {
	fetcher fetcher.Fetcher
	store   listsync.FavoritesStore
	logger  *zap.Logger
	cfg     listsync.Config
	max     int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates a registry allowing at most maxSessions sessions.
func NewRegistry(f fetcher.Fetcher, store listsync.FavoritesStore, logger *zap.Logger, cfg listsync.Config, maxSessions int) *Registry {
	return &Registry{
		fetcher:  f,
		store:    store,
		logger:   logger,
		cfg:      cfg,
		max:      maxSessions,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session, starts its lists, requests the first page and
// loads the favorites list.
func (r *Registry) Open() (*Session, error) {
	r.mu.Lock()
	if r.max > 0 && len(r.sessions) >= r.max {
		r.mu.Unlock()
		return nil, ErrTooManySessions
	}
	id := uuid.NewString()
	l := logger.WithSession(r.logger, id)
	s := newSession(id,
		listsync.NewHome(r.fetcher, r.store, l, r.cfg),
		listsync.NewFavorites(r.store, l, r.cfg),
		l,
	)
	r.sessions[id] = s
	r.mu.Unlock()

	s.start()
	s.Home.FetchNextPage()
	s.Favorites.Load()

	l.Info("Session opened")
	return s, nil
}

// Get returns the session with id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close stops and forgets the session with id.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.stop()
	s.logger.Info("Session closed")
	return nil
}

// CloseAll stops every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.stop()
	}
	if len(sessions) > 0 {
		r.logger.Info("Closed all sessions", zap.Int("count", len(sessions)))
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
