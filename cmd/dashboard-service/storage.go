package main

import (
	"fmt"

	"golang-quant-dashboard/internal/dashboard/config"
	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/pkg/common"
	"golang-quant-dashboard/pkg/logger"
	"golang-quant-dashboard/pkg/postgres"
	"golang-quant-dashboard/pkg/redis"

	"github.com/spf13/afero"
)

// openStore builds the key-value store selected by storage.driver. The returned
// func releases its connections.
func openStore(cfg *config.Config, appLogger *logger.Logger) (repository.KeyValueStore, func(), error) {
	switch cfg.Storage.Driver {
	case common.StorageDriverFile:
		store, err := repository.NewFileKVStore(afero.NewOsFs(), cfg.Storage.Directory)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case common.StorageDriverMemory:
		return repository.NewMemoryKVStore(), func() {}, nil

	case common.StorageDriverRedis:
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		return repository.NewRedisKVStore(redisClient.Client), func() {
			if err := redisClient.Close(); err != nil {
				appLogger.Error("Failed to close redis", logger.ErrorField(err))
			}
		}, nil

	case common.StorageDriverPostgres:
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			TimeZone:        cfg.Database.TimeZone,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        cfg.Database.LogLevel,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repository.NewPostgresKVStore(db.DB), func() {
			if sqlDB, err := db.DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
