package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/trace"
)

// Client publishes events to Redis Streams through Watermill.
type Client struct {
	publisher   message.Publisher
	redisClient *redis.Client
	metrics     MetricsCollector
	config      Config
}

// NewClient connects to Redis and creates a Redis Streams publisher.
func NewClient(config Config, metrics MetricsCollector) (*Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		newWatermillLogger(config.ServiceName),
	)
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	c := NewClientWithPublisher(config, publisher, metrics)
	c.redisClient = redisClient
	return c, nil
}

// NewClientWithPublisher wraps an existing publisher, e.g. a gochannel
// pub/sub in tests.
func NewClientWithPublisher(config Config, publisher message.Publisher, metrics MetricsCollector) *Client {
	if metrics == nil || !config.EnableMetrics {
		metrics = NoOpMetricsCollector{}
	}
	return &Client{
		publisher: publisher,
		metrics:   metrics,
		config:    config,
	}
}

// Publish sends payload to topic. The trace id of ctx travels in the
// message metadata.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("topic", topic)
	if traceID := trace.TraceIDFromContext(ctx); traceID != "" {
		msg.Metadata.Set("trace_id", traceID)
	}
	if c.config.ServiceName != "" {
		msg.Metadata.Set("service", c.config.ServiceName)
	}

	start := time.Now()
	err := c.publisher.Publish(topic, msg)
	c.metrics.RecordPublish(topic, time.Since(start), err)
	return err
}

// PublishTimeout is the configured bound for one publish.
func (c *Client) PublishTimeout() time.Duration {
	if c.config.PublishTimeout <= 0 {
		return 3 * time.Second
	}
	return c.config.PublishTimeout
}

// Close closes the publisher and the Redis connection.
func (c *Client) Close() error {
	if err := c.publisher.Close(); err != nil {
		return fmt.Errorf("failed to close publisher: %w", err)
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	return nil
}
