package svc

import (
	"context"
	"fmt"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/config"
	"github.com/Wepsel/Ouderenapp/app/activity/internal/cache"
	"github.com/Wepsel/Ouderenapp/app/activity/internal/cron"
	"github.com/Wepsel/Ouderenapp/app/activity/internal/lock"
	"github.com/Wepsel/Ouderenapp/app/activity/internal/metrics"
	"github.com/Wepsel/Ouderenapp/app/activity/internal/mq"
	"github.com/Wepsel/Ouderenapp/app/activity/internal/profile"
	"github.com/Wepsel/Ouderenapp/app/activity/internal/stock"
	"github.com/Wepsel/Ouderenapp/app/activity/model"
	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	usermodel "github.com/Wepsel/Ouderenapp/app/user/model"
	"github.com/Wepsel/Ouderenapp/common/constants"
	"github.com/Wepsel/Ouderenapp/common/messaging"
	"github.com/Wepsel/Ouderenapp/common/middleware"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zeromicro/go-zero/core/breaker"
	"github.com/zeromicro/go-zero/core/limit"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const metricsNamespace = "activity"

// ProfileStore is the profile collaborator seen by the API.
type ProfileStore interface {
	registration.UserDirectory
	SetAnonymous(ctx context.Context, userID int64, anonymous bool) error
}

type ServiceContext struct {
	Config config.Config

	// storage
	DB    *gorm.DB
	Redis *redis.Redis

	// rate limit and breaker on register
	RegistrationLimiter *limit.TokenLimiter
	RegistrationBreaker breaker.Breaker

	Activities    registration.ActivityRepository
	Profiles      ProfileStore
	ActivityCache *cache.ActivityCache // nil without Redis
	Registration  *registration.Service

	// optional background parts
	Messaging  *messaging.Client
	Reconciler *cron.ReconcileCron
	guard      registration.CapacityGuard

	AdminAuth rest.Middleware
}

func NewServiceContext(c config.Config) *ServiceContext {
	// 1. storage
	db := initDB(c.MySQL)
	rds := initRedis(c.BizRedis)

	activityModel := model.NewActivityModel(db)
	registrationModel := model.NewActivityRegistrationModel(db)
	profiles := profile.NewDirectory(usermodel.NewUserModel(db))
	activityCache := cache.NewActivityCache(rds, activityModel)

	// 2. capacity guard and its counter repair
	var (
		guard  registration.CapacityGuard
		repair cron.CounterRepair
	)
	switch c.Registration.Guard {
	case config.GuardLocal:
		guard = registration.NewLocalGuard(registrationModel.CountActive)
	case config.GuardRedis:
		redisGuard := stock.NewRedisGuard(rds, registrationModel.CountActive)
		guard, repair = redisGuard, redisGuard.Shrink
	default:
		guard, repair = activityModel, activityModel.ShrinkParticipantCount
	}

	// 3. per-pair lock
	var locker registration.PairLocker = registration.NewLocalPairLocker()
	if c.Registration.PairLock == config.LockRedis {
		ttl := time.Duration(c.Registration.LockTTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = constants.LockExpireDefault
		}
		locker = lock.NewRedisPairLocker(rds, ttl)
	}

	// 4. events
	opts := []registration.Option{
		registration.WithPairLocker(locker),
		registration.WithMetrics(metrics.NewRegistrationMetrics(metricsNamespace, prometheus.DefaultRegisterer)),
		registration.WithAvailabilityCache(activityCache),
		registration.WithCancellation(c.Registration.AllowCancel),
	}
	msgClient := initMessaging(c.Messaging)
	if msgClient != nil {
		opts = append(opts, registration.WithPublisher(mq.NewProducer(msgClient, msgClient.PublishTimeout())))
	}

	svc := &ServiceContext{
		Config: c,

		DB:    db,
		Redis: rds,

		RegistrationLimiter: limit.NewTokenLimiter(
			c.RegistrationLimit.Rate,
			c.RegistrationLimit.Burst,
			rds,
			constants.LimitRegistrationKey,
		),
		RegistrationBreaker: breaker.NewBreaker(breaker.WithName(c.RegistrationBreaker.Name)),

		Activities:    activityModel,
		Profiles:      profiles,
		ActivityCache: activityCache,
		Registration:  registration.NewService(activityModel, registrationModel, profiles, guard, opts...),

		Messaging: msgClient,
		guard:     guard,

		AdminAuth: middleware.NewAdminRoleMiddleware(profiles).Handle,
	}

	// 5. counter repair
	if repair != nil && c.Registration.ReconcileIntervalSeconds > 0 {
		svc.Reconciler = cron.NewReconcileCron(rds, activityModel.ListIDsFrom, registrationModel, guard, repair, activityCache)
		svc.Reconciler.SetInterval(c.Registration.ReconcileIntervalSeconds)
	}

	return svc
}

// GetActivity reads through the detail cache when one is configured.
func (s *ServiceContext) GetActivity(ctx context.Context, id uint64) (*registration.Activity, error) {
	if s.ActivityCache != nil {
		return s.ActivityCache.GetByID(ctx, id)
	}
	return s.Activities.Get(ctx, id)
}

// InvalidateActivity drops cached entries after an administrative change.
func (s *ServiceContext) InvalidateActivity(ctx context.Context, id uint64) {
	if s.ActivityCache != nil {
		s.ActivityCache.Invalidate(ctx, id)
	}
}

// Start launches background jobs.
func (s *ServiceContext) Start() {
	s.WarmupAsync()
	if s.Reconciler != nil {
		s.Reconciler.Start()
	}
}

// Close stops background jobs and releases connections.
func (s *ServiceContext) Close() {
	if s.Reconciler != nil {
		s.Reconciler.Stop()
	}
	if s.Messaging != nil {
		if err := s.Messaging.Close(); err != nil {
			logx.Errorf("[Svc] close messaging: %v", err)
		}
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// ==================== init ====================

func initDB(c config.MySQLConfig) *gorm.DB {
	logLevel := logger.Warn
	if c.LogSQL {
		logLevel = logger.Info
	}
	db, err := gorm.Open(mysql.Open(buildMySQLDSN(c)), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		logx.Errorf("[Svc] connect mysql: %v", err)
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	maxOpenConns := c.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 100
	}
	maxIdleConns := c.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 10
	}
	connMaxLifetime := c.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 3600
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	if c.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			panic(err)
		}
		if err := db.AutoMigrate(&usermodel.User{}); err != nil {
			panic(err)
		}
	}

	logx.Info("[Svc] mysql connected")
	return db
}

func initRedis(c redis.RedisConf) *redis.Redis {
	rds := redis.MustNewRedis(c)
	logx.Info("[Svc] redis connected")
	return rds
}

// initMessaging returns nil when publishing is disabled or unreachable;
// registration keeps working without events.
func initMessaging(c messaging.Config) *messaging.Client {
	if !c.Enabled {
		return nil
	}
	var collector messaging.MetricsCollector = messaging.NoOpMetricsCollector{}
	if c.EnableMetrics {
		collector = messaging.NewPrometheusCollector(metricsNamespace, prometheus.DefaultRegisterer)
	}
	client, err := messaging.NewClient(c, collector)
	if err != nil {
		logx.Errorf("[Svc] messaging disabled: %v", err)
		return nil
	}
	return client
}

func buildMySQLDSN(c config.MySQLConfig) string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}
