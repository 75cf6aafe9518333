package services

import (
	"context"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/meili-bridge/app/config"
	"github.com/meili-bridge/app/models"
	"github.com/meili-bridge/internal/search"
)

const indexBatchSize = 100

// IndexRun is one recorded indexing pass.
type IndexRun struct {
	StartedAt    time.Time `json:"started_at" bson:"started_at"`
	FinishedAt   time.Time `json:"finished_at" bson:"finished_at"`
	DocsIndexed  int       `json:"docs_indexed" bson:"docs_indexed"`
	Cleared      bool      `json:"cleared" bson:"cleared"`
	Status       string    `json:"status" bson:"status"`
	ErrorMessage string    `json:"error_message,omitempty" bson:"error_message,omitempty"`
}

// IndexService pushes stored posts into the search index: applies the index
// settings (filterable metas derived from the registry), streams posts in
// batches and records each run.
type IndexService struct {
	client   *search.Client
	store    *ContentStore
	settings *SettingsService
	runs     *mongo.Collection
	index    *config.IndexSettings
	logger   *zap.Logger
}

func NewIndexService(client *search.Client, store *ContentStore, settings *SettingsService,
	db *mongo.Database, index *config.IndexSettings, logger *zap.Logger) *IndexService {
	return &IndexService{
		client:   client,
		store:    store,
		settings: settings,
		runs:     db.Collection("index_runs"),
		index:    index,
		logger:   logger,
	}
}

// Reindex runs a full indexing pass. With clear set, the index is emptied
// first so deletions on the content side propagate.
func (is *IndexService) Reindex(ctx context.Context, clear bool) (*IndexRun, error) {
	run := &IndexRun{StartedAt: time.Now(), Cleared: clear, Status: "running"}

	indexedKeys, err := is.settings.GetStringList(ctx, SettingIndexedMetaKeys)
	if err != nil {
		return is.finishRun(ctx, run, err)
	}

	if err := is.applyIndexSettings(indexedKeys); err != nil {
		return is.finishRun(ctx, run, err)
	}

	if clear {
		if err := is.client.DeleteAllDocuments(); err != nil {
			return is.finishRun(ctx, run, err)
		}
	}

	err = is.store.ForEachBatch(ctx, indexBatchSize, func(posts []*models.Post) error {
		docs := make([]*models.PostDocument, len(posts))
		for i, post := range posts {
			docs[i] = models.NewPostDocument(post, indexedKeys)
		}

		if err := is.client.AddDocuments(docs, "id"); err != nil {
			return err
		}

		run.DocsIndexed += len(docs)
		is.logger.Info("indexed batch",
			zap.Int("batch", len(docs)),
			zap.Int("total", run.DocsIndexed))
		return nil
	})

	return is.finishRun(ctx, run, err)
}

// applyIndexSettings pushes the engine-side index configuration. The
// filterable list is the static attribute set from config/indexes.yaml plus
// one metas.<key> entry per registered meta key, so exactly the keys the
// meta builder accepts are filterable engine-side.
func (is *IndexService) applyIndexSettings(indexedKeys []string) error {
	filterable := append([]string{}, is.index.FilterableAttributes...)
	for _, key := range indexedKeys {
		filterable = append(filterable, "metas."+key)
	}

	return is.client.UpdateIndexSettings(&meilisearch.Settings{
		SearchableAttributes: is.index.SearchableAttributes,
		FilterableAttributes: filterable,
		SortableAttributes:   is.index.SortableAttributes,
		RankingRules:         is.index.RankingRules,
	})
}

func (is *IndexService) finishRun(ctx context.Context, run *IndexRun, err error) (*IndexRun, error) {
	run.FinishedAt = time.Now()
	if err != nil {
		run.Status = "failed"
		run.ErrorMessage = err.Error()
	} else {
		run.Status = "succeeded"
	}

	if _, insertErr := is.runs.InsertOne(ctx, run); insertErr != nil {
		is.logger.Warn("could not record index run", zap.Error(insertErr))
	}

	if err != nil {
		return run, fmt.Errorf("indexing failed: %w", err)
	}
	return run, nil
}

// LastRun returns the most recent recorded indexing pass, if any.
func (is *IndexService) LastRun(ctx context.Context) (*IndexRun, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})
	var run IndexRun
	err := is.runs.FindOne(ctx, bson.M{}, opts).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last index run: %w", err)
	}
	return &run, nil
}
