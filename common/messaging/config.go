package messaging

import "time"

// Config is the publisher configuration, loaded from the service yaml.
type Config struct {
	// Enabled turns event publishing on. When false the service runs without
	// a Redis Streams connection and events are dropped.
	Enabled bool `json:",default=false"`

	Redis RedisConfig `json:",optional"`

	// ServiceName labels logs and metrics.
	ServiceName string `json:",default=activity-api"`

	EnableMetrics bool `json:",default=true"`

	// PublishTimeout bounds one asynchronous publish.
	PublishTimeout time.Duration `json:",default=3s"`
}

// RedisConfig is the Redis Streams connection.
type RedisConfig struct {
	Addr     string `json:",default=127.0.0.1:6379"`
	Password string `json:",optional"`
	DB       int    `json:",default=0"`
}
