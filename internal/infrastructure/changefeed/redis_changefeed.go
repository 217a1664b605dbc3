// Package changefeed distributes freshly created notifications to the
// server instances holding live client streams.
package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	notificationapp "github.com/vivenda/backend/internal/application/notification"
	"github.com/vivenda/backend/internal/domain/notification"
)

const (
	defaultChannel      = "notifications:changefeed"
	defaultCloseTimeout = 5 * time.Second
)

// Message is the wire envelope pushed through the changefeed. It carries
// enough to render the notification without a database round trip.
type Message struct {
	NotificationID uuid.UUID  `json:"notification_id"`
	RecipientID    uuid.UUID  `json:"recipient_id"`
	PropertyID     *uuid.UUID `json:"property_id,omitempty"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	Timestamp      int64      `json:"timestamp"`
}

func messageFromNotification(n *notification.Notification) Message {
	return Message{
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
		PropertyID:     n.PropertyID,
		Type:           string(n.Type),
		Title:          n.Title,
		Body:           n.Message,
		Timestamp:      time.Now().UnixNano(),
	}
}

var _ notificationapp.ChangefeedPublisher = (*RedisChangefeed)(nil)

// RedisChangefeed implements the changefeed over Redis Pub/Sub so streams
// work across multiple server instances.
type RedisChangefeed struct {
	client    *redis.Client
	channel   string
	logger    *zap.Logger
	cancelFn  context.CancelFunc
	doneCh    chan struct{}
	doneOnce  sync.Once
	mu        sync.Mutex
	isRunning bool
}

// RedisChangefeedOption is a functional option for configuring RedisChangefeed
type RedisChangefeedOption func(*RedisChangefeed)

// WithChannel sets the Pub/Sub channel name
func WithChannel(channel string) RedisChangefeedOption {
	return func(c *RedisChangefeed) {
		c.channel = channel
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) RedisChangefeedOption {
	return func(c *RedisChangefeed) {
		c.logger = logger
	}
}

// NewRedisChangefeed creates a changefeed with an existing Redis client.
// The caller retains ownership of the client.
func NewRedisChangefeed(client *redis.Client, opts ...RedisChangefeedOption) *RedisChangefeed {
	feed := &RedisChangefeed{
		client:  client,
		channel: defaultChannel,
		logger:  zap.NewNop(),
		doneCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(feed)
	}

	return feed
}

// PublishNotificationCreated pushes one notification to all subscribers.
func (c *RedisChangefeed) PublishNotificationCreated(ctx context.Context, n *notification.Notification) error {
	data, err := json.Marshal(messageFromNotification(n))
	if err != nil {
		return fmt.Errorf("failed to marshal changefeed message: %w", err)
	}

	if err := c.client.Publish(ctx, c.channel, data).Err(); err != nil {
		c.logger.Error("failed to publish changefeed message",
			zap.String("channel", c.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish changefeed message: %w", err)
	}

	c.logger.Debug("published changefeed message",
		zap.String("notification_id", n.ID.String()),
		zap.String("recipient_id", n.RecipientID.String()))

	return nil
}

// Subscribe blocks and invokes callback for every received message.
// Run it in its own goroutine; cancel the context or call Close to stop.
func (c *RedisChangefeed) Subscribe(ctx context.Context, callback func(Message)) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	c.isRunning = true
	c.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancelFn = cancel
	c.mu.Unlock()

	pubsub := c.client.Subscribe(subCtx, c.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		c.mu.Lock()
		c.isRunning = false
		c.mu.Unlock()
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	c.logger.Info("subscribed to notification changefeed",
		zap.String("channel", c.channel))

	ch := pubsub.Channel()

	for {
		select {
		case <-subCtx.Done():
			c.logger.Info("changefeed subscription stopped")
			c.stop()
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				c.logger.Warn("changefeed channel closed")
				c.stop()
				return nil
			}

			var m Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				c.logger.Error("failed to unmarshal changefeed message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}

			// Keep the subscription loop responsive even with slow callbacks
			go func(m Message) {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("panic in changefeed callback", zap.Any("panic", r))
					}
				}()
				callback(m)
			}(m)
		}
	}
}

func (c *RedisChangefeed) stop() {
	c.mu.Lock()
	c.isRunning = false
	c.mu.Unlock()
	c.doneOnce.Do(func() {
		close(c.doneCh)
	})
}

// Close stops the subscription and waits for the loop to drain.
func (c *RedisChangefeed) Close() error {
	c.mu.Lock()
	cancelFn := c.cancelFn
	c.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-c.doneCh:
		case <-time.After(defaultCloseTimeout):
			c.logger.Warn("timeout waiting for changefeed subscription to stop")
		}
	}
	return nil
}
