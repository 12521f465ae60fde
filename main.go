// main.go
package main

import (
	"context"
	"log"

	"storefront/cmd"
	"storefront/internal/data/cache"
	"storefront/internal/wire"
	"storefront/pkg/database"
	"storefront/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("db_driver", config.Database.Driver),
	)

	ctx := context.Background()

	// Connect to the document store
	store, err := database.Open(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close(ctx)

	logger.Info("Database connected successfully")

	// Product list cache is optional
	products := cache.NewNoopProductCache()
	rdb, err := cache.InitRedis(config.Redis)
	switch {
	case err != nil:
		logger.Warn("Redis unavailable, product cache disabled", zap.Error(err))
	case rdb != nil:
		defer rdb.Close()
		products = cache.NewRedisProductCache(rdb, config.Redis.TTL, logger)
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	}

	// Wire all dependencies
	app, err := wire.Wiring(store, products, afero.NewOsFs(), config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	cmd.APIServer(app.Router, config.App.Port, logger)
}
