package client

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the client-side view of the current token pair. A nil session
// means logged out.
type Session struct {
	Email        string
	BearerToken  string
	RefreshToken string
}

// SessionCache holds the active session and notifies subscribers whenever it
// changes, so callers can re-render on login, refresh and logout.
type SessionCache struct {
	mu          sync.RWMutex
	current     *Session
	subscribers map[string]chan *Session
	closed      bool
}

func NewSessionCache() *SessionCache {
	return &SessionCache{subscribers: make(map[string]chan *Session)}
}

// Current returns a copy of the active session, or nil when logged out.
func (c *SessionCache) Current() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return nil
	}
	session := *c.current
	return &session
}

// Set replaces the session and publishes the change. Pass nil on logout.
func (c *SessionCache) Set(session *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.current = session
	for _, ch := range c.subscribers {
		// Non-blocking send so a slow subscriber never stalls the caller.
		select {
		case ch <- session:
		default:
		}
	}
}

// Subscribe registers for session-state changes. The returned cancel func
// removes the subscription and closes the channel.
func (c *SessionCache) Subscribe() (<-chan *Session, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan *Session, 8)
	c.subscribers[id] = ch

	unsubscribe := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, exists := c.subscribers[id]; exists {
			close(sub)
			delete(c.subscribers, id)
		}
	}

	return ch, unsubscribe
}

// Close tears the cache down, closing every subscriber channel. Further Set
// calls are ignored.
func (c *SessionCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for id, ch := range c.subscribers {
		close(ch)
		delete(c.subscribers, id)
	}
}
