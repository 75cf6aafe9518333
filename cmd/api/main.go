package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/meili-bridge/app/config"
	"github.com/meili-bridge/app/controllers"
	"github.com/meili-bridge/app/services"
	"github.com/meili-bridge/internal/query"
	"github.com/meili-bridge/internal/search"
	"github.com/meili-bridge/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("starting meili-bridge")

	mongoDB, err := initMongoDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			logger.Error("error disconnecting MongoDB", zap.Error(err))
		}
	}()

	searchClient, err := search.NewClient(search.Config{
		Host:    cfg.MeiliHost,
		APIKey:  cfg.MeiliAPIKey,
		Index:   cfg.MeiliIndex,
		Timeout: 30 * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize Meilisearch", zap.Error(err))
	}

	settingsService, err := services.NewSettingsService(mongoDB, logger)
	if err != nil {
		logger.Fatal("failed to initialize settings service", zap.Error(err))
	}

	resultCache, err := services.NewResultCache(cfg.RedisURL, cfg.ResultTTL, logger)
	if err != nil {
		logger.Warn("search result cache disabled", zap.Error(err))
		resultCache = nil
	}

	contentStore := services.NewContentStore(mongoDB, logger)

	indexSettings, err := config.LoadIndexSettings("config/indexes.yaml")
	if err != nil {
		logger.Fatal("failed to load index settings", zap.Error(err))
	}

	indexService := services.NewIndexService(searchClient, contentStore, settingsService, mongoDB, indexSettings, logger)
	searchService := services.NewSearchService(searchClient, settingsService, resultCache, query.Defaults{
		PerPage:    cfg.DefaultPerPage,
		PostType:   cfg.DefaultPostType,
		PostStatus: cfg.DefaultPostStatus,
	}, logger)

	searchController := controllers.NewSearchController(searchService, logger)
	adminController := controllers.NewAdminController(settingsService, indexService, contentStore,
		resultCache, searchClient.IndexStats, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	routes.SetupAllRoutes(router, searchController, adminController)

	logger.Info("meili-bridge listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func initMongoDB(cfg *config.Config, logger *zap.Logger) (*mongo.Database, error) {
	logger.Info("connecting to MongoDB", zap.String("uri", cfg.MongoURI))

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client.Database(cfg.MongoDB), nil
}
