package rate

import (
	"sync"
	"time"
)

// WindowLimiter allows up to limit events per key in each fixed window.
type WindowLimiter struct {
	mu              sync.Mutex
	limit           int
	window          time.Duration
	items           map[string]*windowEntry
	lastCleanup     time.Time
	cleanupInterval time.Duration
	now             func() time.Time
}

type windowEntry struct {
	start time.Time
	count int
}

// NewWindowLimiter creates window limiter. A limit of zero or less disables
// limiting.
func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		limit:           limit,
		window:          window,
		items:           make(map[string]*windowEntry),
		lastCleanup:     time.Now(),
		cleanupInterval: window,
		now:             time.Now,
	}
}

// Allow records an event for key and reports whether it is within the limit.
func (l *WindowLimiter) Allow(key string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()

	l.maybeCleanup(now)

	entry, ok := l.items[key]
	if !ok {
		l.items[key] = &windowEntry{start: now, count: 1}
		return true
	}

	if now.Sub(entry.start) >= l.window {
		entry.start = now
		entry.count = 1
		return true
	}

	if entry.count >= l.limit {
		return false
	}

	entry.count++
	return true
}

func (l *WindowLimiter) maybeCleanup(now time.Time) {
	if l.cleanupInterval <= 0 || l.window <= 0 {
		return
	}
	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < l.cleanupInterval {
		return
	}
	for key, entry := range l.items {
		if now.Sub(entry.start) >= l.window {
			delete(l.items, key)
		}
	}
	l.lastCleanup = now
}
