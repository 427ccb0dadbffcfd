package config

import (
	"github.com/Wepsel/Ouderenapp/common/messaging"

	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
)

const (
	GuardLocal = "local" // in-process semaphore, single instance only
	GuardDB    = "db"    // conditional UPDATE on activities.current_participants
	GuardRedis = "redis" // Lua counter per activity

	LockLocal = "local"
	LockRedis = "redis"
)

type Config struct {
	rest.RestConf

	// go-zero jwt middleware
	Auth struct {
		AccessSecret string
		AccessExpire int64 `json:",default=86400"`
	}

	MySQL    MySQLConfig
	BizRedis redis.RedisConf

	Registration        RegistrationConfig
	RegistrationLimit   RegistrationLimit
	RegistrationBreaker RegistrationBreaker

	Messaging messaging.Config `json:",optional"`
}

// MySQLConfig database connection.
type MySQLConfig struct {
	Host            string `json:",default=127.0.0.1"`
	Port            int    `json:",default=3306"`
	Username        string
	Password        string `json:",optional"`
	Database        string
	MaxOpenConns    int  `json:",default=100"`
	MaxIdleConns    int  `json:",default=10"`
	ConnMaxLifetime int  `json:",default=3600"` // seconds
	AutoMigrate     bool `json:",default=false"`
	LogSQL          bool `json:",default=false"`
}

type RegistrationConfig struct {
	AllowCancel    bool   `json:",default=false"`
	Guard          string `json:",default=db,options=local|db|redis"`
	PairLock       string `json:",default=redis,options=local|redis"`
	LockTTLSeconds int    `json:",default=10"`

	// counter repair for the db and redis guards; 0 disables
	ReconcileIntervalSeconds int `json:",default=300"`
	// upcoming activities whose counters are seeded at startup
	WarmupLimit int `json:",default=100"`
}

// ==================== rate limit and breaker ====================

type RegistrationLimit struct {
	Rate  int `json:",default=100"` // requests per second
	Burst int `json:",default=200"`
}

type RegistrationBreaker struct {
	Name string `json:",default=activity-registration"`
}
