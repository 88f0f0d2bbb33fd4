// Package database 根据应用配置建立数据库与缓存连接
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"terminal-terrace/blog-service/config"
	"terminal-terrace/blog-service/internal/model"
	pkgdb "terminal-terrace/blog-service/pkg/database"
)

const serviceName = "blog-service"

// Connections 服务持有的外部连接
type Connections struct {
	DB    *gorm.DB
	Redis *redis.Client // 未启用时为 nil
}

// Open 连接 PostgreSQL，Redis 仅在启用时连接
func Open(ctx context.Context, conf *config.AppConfig) (*Connections, error) {
	db, err := OpenPostgres(conf.Database)
	if err != nil {
		return nil, err
	}

	conns := &Connections{DB: db}
	if !conf.Redis.Enabled {
		return conns, nil
	}

	rc, err := pkgdb.InitRedis(ctx, &pkgdb.RedisConfig{
		ServiceName: serviceName,
		Host:        conf.Redis.Host,
		Port:        conf.Redis.Port,
		Password:    conf.Redis.Password,
		DB:          conf.Redis.DB,
		PoolSize:    conf.Redis.PoolSize,
	})
	if err != nil {
		_ = conns.Close()
		return nil, err
	}
	conns.Redis = rc.Client
	return conns, nil
}

// OpenPostgres 仅连接 PostgreSQL
func OpenPostgres(conf config.DatabaseConfig) (*gorm.DB, error) {
	return pkgdb.InitPostgres(&pkgdb.PostgresConfig{
		ServiceName:     serviceName,
		DSN:             conf.DSN,
		Username:        conf.Username,
		Password:        conf.Password,
		Host:            conf.Host,
		Port:            conf.Port,
		Database:        conf.Database,
		SSLMode:         conf.SSLMode,
		LogLevel:        conf.LogLevel,
		MaxIdleConns:    conf.MaxIdleConns,
		MaxOpenConns:    conf.MaxOpenConns,
		ConnMaxLifetime: time.Duration(conf.MaxLifetime) * time.Second,
	})
}

// Migrate 初始化数据库表
func Migrate(db *gorm.DB) error {
	if err := model.InitTable(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping 检查数据库连通性，供健康检查使用
func (c *Connections) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭所有连接
func (c *Connections) Close() error {
	var firstErr error
	if c.Redis != nil {
		firstErr = c.Redis.Close()
	}
	if sqlDB, err := c.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
