package capture

import "sync"

// ContextCache holds the most recently redacted location. The refresh step
// inside Track is the only writer; the synchronous sanitize hook is the only
// reader. The lock guarantees the hook never observes a half-written value.
type ContextCache struct {
	mu       sync.RWMutex
	location string
	set      bool
}

func NewContextCache() *ContextCache {
	return &ContextCache{}
}

func (c *ContextCache) Set(location string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.location = location
	c.set = true
}

func (c *ContextCache) Get() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.location, c.set
}
