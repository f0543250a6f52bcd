package universities

import (
	"context"
	"sync"
	"time"

	"unilist/feature/universities/listsync"

	"go.uber.org/zap"
)

// Event sources.
const (
	SourceHome      = "home"
	SourceFavorites = "favorites"
)

// maxBufferedEvents bounds the undrained events kept per session; the
// oldest are dropped first.
const maxBufferedEvents = 1024

// SessionEvent is a view event tagged with the list that produced it.
type SessionEvent struct {
	Seq    uint64 `json:"seq"`
	Source string `json:"source"`
	listsync.Event
}

// Session is one browsing client: a home list, a favorites list and the
// events they emitted that the client has not drained yet.
type Session struct {
	ID        string
	CreatedAt time.Time

	Home      *listsync.Home
	Favorites *listsync.Favorites

	logger *zap.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	seq     uint64
	pending []SessionEvent
	dropped int
	notify  chan struct{}
}

func newSession(id string, home *listsync.Home, favs *listsync.Favorites, logger *zap.Logger) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Home:      home,
		Favorites: favs,
		logger:    logger,
		notify:    make(chan struct{}),
	}
}

// start runs both lists and their drainers until stop is called.
func (s *Session) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(4)
	go func() {
		defer s.wg.Done()
		_ = s.Home.Run(ctx)
	}()
	go func() {
		defer s.wg.Done()
		_ = s.Favorites.Run(ctx)
	}()
	go s.drain(SourceHome, s.Home.Events())
	go s.drain(SourceFavorites, s.Favorites.Events())
}

// stop cancels both lists and waits for every goroutine to exit.
func (s *Session) stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Session) drain(source string, events <-chan listsync.Event) {
	defer s.wg.Done()
	for e := range events {
		s.push(source, e)
	}
}

func (s *Session) push(source string, e listsync.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.pending = append(s.pending, SessionEvent{Seq: s.seq, Source: source, Event: e})
	if over := len(s.pending) - maxBufferedEvents; over > 0 {
		s.pending = append([]SessionEvent(nil), s.pending[over:]...)
		s.dropped += over
		s.logger.Warn("Dropped undrained events", zap.Int("count", over))
	}

	close(s.notify)
	s.notify = make(chan struct{})
}

// Drain returns and clears the pending events. When none are pending it
// waits up to wait for the first one.
func (s *Session) Drain(ctx context.Context, wait time.Duration) []SessionEvent {
	s.mu.Lock()
	if len(s.pending) == 0 && wait > 0 {
		notify := s.notify
		s.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-notify:
		case <-timer.C:
		case <-ctx.Done():
		}
		timer.Stop()

		s.mu.Lock()
	}
	out := s.pending
	s.pending = nil
	s.mu.Unlock()

	if out == nil {
		return []SessionEvent{}
	}
	return out
}

// Pending returns the number of undrained events.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
