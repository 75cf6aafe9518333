// Command indexer runs one full indexing pass from the content store into
// Meilisearch and exits. Meant for cron jobs and initial seeding.
package main

import (
	"context"
	"flag"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/meili-bridge/app/config"
	"github.com/meili-bridge/app/services"
	"github.com/meili-bridge/internal/search"
)

func main() {
	clear := flag.Bool("clear", false, "empty the index before indexing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())
	mongoDB := client.Database(cfg.MongoDB)

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

	indexSettings, err := config.LoadIndexSettings("config/indexes.yaml")
	if err != nil {
		logger.Fatal("failed to load index settings", zap.Error(err))
	}

	indexService := services.NewIndexService(searchClient,
		services.NewContentStore(mongoDB, logger), settingsService, mongoDB, indexSettings, logger)

	run, err := indexService.Reindex(context.Background(), *clear)
	if err != nil {
		logger.Fatal("indexing failed", zap.Error(err))
	}

	logger.Info("indexing finished",
		zap.Int("docs_indexed", run.DocsIndexed),
		zap.Duration("took", run.FinishedAt.Sub(run.StartedAt)))
}
