package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/board-sync/internal/config"
	"github.com/spec-kit/board-sync/internal/events"
	"github.com/spec-kit/board-sync/pkg/util"
)

// roomKeyPrefix scopes pub/sub channels: board:project:{project_id}
const roomKeyPrefix = "board:project:"

// RedisChannel implements Channel over Redis Pub/Sub. Transport and
// decode failures are logged and swallowed: the session degrades to
// non-realtime mode, it never fails hard.
type RedisChannel struct {
	client *redis.Client
	pubsub *redis.PubSub
	logger *zap.Logger
	out    chan events.Envelope

	mu     sync.Mutex
	room   string
	closed bool
}

// NewRedisChannel connects to Redis and starts the receive loop.
func NewRedisChannel(cfg config.RedisConfig, logger *zap.Logger) *RedisChannel {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis, realtime updates degraded",
			zap.Error(util.NewChannelError(err)))
	}
	return newChannel(client, logger)
}

// NewRedisChannelWithClient wraps an existing client. Used by tests and
// by hosts that manage their own connection.
func NewRedisChannelWithClient(client *redis.Client, logger *zap.Logger) *RedisChannel {
	return newChannel(client, logger)
}

func newChannel(client *redis.Client, logger *zap.Logger) *RedisChannel {
	c := &RedisChannel{
		client: client,
		pubsub: client.Subscribe(context.Background()),
		logger: logger.Named("realtime"),
		out:    make(chan events.Envelope, 64),
	}
	go c.receive()
	return c
}

// Join subscribes to a project room, leaving the previous room first.
func (c *RedisChannel) Join(ctx context.Context, projectID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	if c.room == projectID {
		return nil
	}
	if c.room != "" {
		if err := c.pubsub.Unsubscribe(ctx, roomKeyPrefix+c.room); err != nil {
			c.logger.Warn("failed to leave previous room", zap.String("project_id", c.room), zap.Error(err))
		}
		c.room = ""
	}
	if err := c.pubsub.Subscribe(ctx, roomKeyPrefix+projectID); err != nil {
		return err
	}
	c.room = projectID
	c.logger.Info("joined project room", zap.String("project_id", projectID))
	return nil
}

// Leave unsubscribes from a project room.
func (c *RedisChannel) Leave(ctx context.Context, projectID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.room != projectID {
		return nil
	}
	c.room = ""
	if err := c.pubsub.Unsubscribe(ctx, roomKeyPrefix+projectID); err != nil {
		return err
	}
	c.logger.Info("left project room", zap.String("project_id", projectID))
	return nil
}

// Events returns the inbound event stream.
func (c *RedisChannel) Events() <-chan events.Envelope {
	return c.out
}

// Close shuts the subscription down and closes the event stream.
func (c *RedisChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.room = ""
	c.mu.Unlock()
	return c.pubsub.Close()
}

// receive decodes messages off the wire until the subscription closes.
func (c *RedisChannel) receive() {
	defer close(c.out)
	for msg := range c.pubsub.Channel() {
		var envelope events.Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			c.logger.Warn("dropping malformed realtime payload",
				zap.String("channel", msg.Channel), zap.Error(util.NewChannelError(err)))
			continue
		}
		c.out <- envelope
	}
}
