package changefeed

import (
	"context"
	"sync"

	notificationapp "github.com/vivenda/backend/internal/application/notification"
	"github.com/vivenda/backend/internal/domain/notification"
)

var _ notificationapp.ChangefeedPublisher = (*InMemoryChangefeed)(nil)

// InMemoryChangefeed is a single-process changefeed for development and
// tests. Messages only reach subscribers in the same process.
type InMemoryChangefeed struct {
	mu          sync.RWMutex
	subscribers map[int]func(Message)
	nextID      int
}

// NewInMemoryChangefeed creates a new InMemoryChangefeed
func NewInMemoryChangefeed() *InMemoryChangefeed {
	return &InMemoryChangefeed{
		subscribers: make(map[int]func(Message)),
	}
}

// PublishNotificationCreated delivers one notification to all subscribers
// synchronously.
func (c *InMemoryChangefeed) PublishNotificationCreated(ctx context.Context, n *notification.Notification) error {
	msg := messageFromNotification(n)

	c.mu.RLock()
	callbacks := make([]func(Message), 0, len(c.subscribers))
	for _, cb := range c.subscribers {
		callbacks = append(callbacks, cb)
	}
	c.mu.RUnlock()

	for _, cb := range callbacks {
		cb(msg)
	}
	return nil
}

// Subscribe registers a callback and returns an unsubscribe function.
func (c *InMemoryChangefeed) Subscribe(callback func(Message)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = callback
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}
