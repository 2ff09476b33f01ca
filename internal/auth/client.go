package auth

import (
	"context"
	"sync"
)

// Client holds one user's current session and notifies subscribers when it
// changes.
type Client struct {
	mu        sync.Mutex
	session   *Session
	listeners map[int]func(Session, bool)
	nextID    int
}

func NewClient() *Client {
	return &Client{listeners: make(map[int]func(Session, bool))}
}

func (c *Client) CurrentSession() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// OnSessionChange registers fn and returns a function that removes it.
func (c *Client) OnSessionChange(fn func(Session, bool)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// SetSession installs session and notifies subscribers when the user or
// token expiry changed.
func (c *Client) SetSession(session Session) {
	c.mu.Lock()
	if c.session != nil && *c.session == session {
		c.mu.Unlock()
		return
	}
	c.session = &session
	listeners := c.snapshot()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(session, true)
	}
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return nil
	}
	c.session = nil
	listeners := c.snapshot()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(Session{}, false)
	}
	return nil
}

func (c *Client) snapshot() []func(Session, bool) {
	out := make([]func(Session, bool), 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}
