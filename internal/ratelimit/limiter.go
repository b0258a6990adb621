package ratelimit

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FixedWindow caps attempts per key within fixed windows. Windows start at a
// key's first attempt and reset once they have elapsed. At most maxKeys keys
// are tracked; the least recently seen key is forgotten first.
type FixedWindow struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	keys   *lru.Cache[string, *counter]
	now    func() time.Time
}

type counter struct {
	count int
	start time.Time
}

func NewFixedWindow(limit int, window time.Duration, maxKeys int) (*FixedWindow, error) {
	cache, err := lru.New[string, *counter](maxKeys)
	if err != nil {
		return nil, err
	}
	return &FixedWindow{
		max:    limit,
		window: window,
		keys:   cache,
		now:    time.Now,
	}, nil
}

// Allow records one attempt for key and reports whether it fits the window.
func (l *FixedWindow) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.keys.Get(key)
	if !ok || now.Sub(c.start) >= l.window {
		l.keys.Add(key, &counter{count: 1, start: now})
		return l.max >= 1
	}
	if c.count >= l.max {
		return false
	}
	c.count++
	return true
}

// RetryAfter is how long key must wait before its window resets.
func (l *FixedWindow) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.keys.Peek(key)
	if !ok {
		return 0
	}
	d := l.window - l.now().Sub(c.start)
	if d < 0 {
		return 0
	}
	return d
}

// Tracked is the number of keys currently held.
func (l *FixedWindow) Tracked() int {
	return l.keys.Len()
}
