package universities

import (
	"context"
	"testing"
	"time"

	"unilist/feature/universities/listsync"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSession_DrainWaits(t *testing.T) {
	s := newSession("s1", nil, nil, zap.NewNop())

	start := time.Now()
	assert.Empty(t, s.Drain(context.Background(), 30*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	go func() {
		time.Sleep(10 * time.Millisecond)
		s.push(SourceHome, listsync.Event{Kind: listsync.EventReloadAll})
	}()
	events := s.Drain(context.Background(), time.Second)
	if assert.Len(t, events, 1) {
		assert.Equal(t, uint64(1), events[0].Seq)
		assert.Equal(t, SourceHome, events[0].Source)
		assert.Equal(t, listsync.EventReloadAll, events[0].Kind)
	}
	assert.Equal(t, 0, s.Pending())
}

func TestSession_DropsOldest(t *testing.T) {
	s := newSession("s1", nil, nil, zap.NewNop())
	for i := 0; i < maxBufferedEvents+5; i++ {
		s.push(SourceFavorites, listsync.Event{Kind: listsync.EventReloadRows})
	}
	assert.Equal(t, maxBufferedEvents, s.Pending())

	events := s.Drain(context.Background(), 0)
	assert.Equal(t, uint64(6), events[0].Seq)
	assert.Equal(t, 5, s.dropped)
}

func TestSession_DrainCancelled(t *testing.T) {
	s := newSession("s1", nil, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, s.Drain(ctx, time.Minute))
}
