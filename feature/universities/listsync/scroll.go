package listsync

import "time"

// ScrollTrigger decides when a scroll position should request the next
// page. It is not safe for concurrent use; Home only calls it from its loop.
type ScrollTrigger struct {
	Threshold   float64
	MinInterval time.Duration

	now  func() time.Time
	last time.Time
}

// NewScrollTrigger creates a trigger firing at threshold, at most once per
// interval.
func NewScrollTrigger(threshold float64, interval time.Duration) *ScrollTrigger {
	return &ScrollTrigger{Threshold: threshold, MinInterval: interval, now: time.Now}
}

// Observe reports whether the given scroll position should load more.
func (t *ScrollTrigger) Observe(offset, visibleHeight, contentHeight float64, hasItems bool) bool {
	if !hasItems || contentHeight <= 0 {
		return false
	}
	if (offset+visibleHeight)/contentHeight < t.Threshold {
		return false
	}
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.MinInterval {
		return false
	}
	t.last = now
	return true
}
