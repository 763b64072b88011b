package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/catalog/internal/infrastructure/config"
	"github.com/xiebiao/catalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/catalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/catalog/pkg/circuitbreaker"
	"github.com/xiebiao/catalog/pkg/jwt"
	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/mq"
)

// App is what main needs to serve.
type App struct {
	Engine *gin.Engine
}

func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { client.Close() }, nil
}

// providePublisher falls back to a no-op publisher when the broker is
// disabled. A broker that is enabled but unreachable fails startup.
func providePublisher(cfg *config.Config) (mq.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		logger.L().Info("message publishing disabled")
		return mq.NopPublisher{}, func() {}, nil
	}
	amqpPublisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	breaker := circuitbreaker.DefaultConfig("mq")
	breaker.FailureThreshold = cfg.MQ.BreakerFailures
	breaker.Timeout = cfg.MQ.BreakerTimeout

	p := mq.NewGuardedPublisher(amqpPublisher, circuitbreaker.New(breaker))
	return p, func() {
		if err := p.Close(); err != nil {
			logger.L().Warn("close publisher", zap.Error(err))
		}
	}, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}
