package memory

import (
	"sync"
	"time"

	"ai-assistant-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionCache keeps recently loaded sessions in memory so a chat turn does
// not reload the transcript it just appended to, and tracks which session is
// the active one. It is a cache, never the source of truth; every mutation
// path writes through to the repository first.
type SessionCache struct {
	cache *cache.Cache

	mu      sync.RWMutex
	current string
}

func NewSessionCache() *SessionCache {
	// Default expiration 30 minutes, purge sweep every 10.
	return &SessionCache{
		cache: cache.New(30*time.Minute, 10*time.Minute),
	}
}

func (c *SessionCache) Save(session *entity.Session) {
	if session == nil {
		return
	}
	c.cache.Set(session.SessionID, session, cache.DefaultExpiration)
}

func (c *SessionCache) Get(sessionID string) (*entity.Session, bool) {
	if x, found := c.cache.Get(sessionID); found {
		return x.(*entity.Session), true
	}
	return nil, false
}

// Invalidate drops the cached entry after a write-through mutation. The
// current marker stays; the session still exists, its cached copy is just
// stale.
func (c *SessionCache) Invalidate(sessionID string) {
	c.cache.Delete(sessionID)
}

// Delete removes a session that no longer exists, including the current
// marker when it pointed there.
func (c *SessionCache) Delete(sessionID string) {
	c.cache.Delete(sessionID)
	c.mu.Lock()
	if c.current == sessionID {
		c.current = ""
	}
	c.mu.Unlock()
}

func (c *SessionCache) Flush() {
	c.cache.Flush()
	c.mu.Lock()
	c.current = ""
	c.mu.Unlock()
}

// SetCurrent marks the active session; chat turns without an explicit id
// land here.
func (c *SessionCache) SetCurrent(sessionID string) {
	c.mu.Lock()
	c.current = sessionID
	c.mu.Unlock()
}

func (c *SessionCache) Current() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Rename moves the cached entry and the current marker to the new id.
func (c *SessionCache) Rename(oldID string, newID string) {
	if session, found := c.Get(oldID); found {
		session.SessionID = newID
		c.cache.Delete(oldID)
		c.cache.Set(newID, session, cache.DefaultExpiration)
	} else {
		c.cache.Delete(oldID)
	}
	c.mu.Lock()
	if c.current == oldID {
		c.current = newID
	}
	c.mu.Unlock()
}
