package main

import (
	"log"

	"voluntr_backend/internal/config"
	"voluntr_backend/internal/platform/cache"
	"voluntr_backend/internal/platform/database"
	"voluntr_backend/internal/platform/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	appLogger, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return appLogger, func() {
		if err := appLogger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}, nil
}

func provideDatabase(cfg *config.Config, appLogger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg, appLogger)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { database.CloseGORMDB(db, appLogger) }, nil
}

func provideRedis(cfg *config.Config, appLogger *zap.Logger) (*redis.Client, func(), error) {
	client, err := cache.NewRedisClient(cfg, appLogger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { cache.CloseRedis(client, appLogger) }, nil
}
