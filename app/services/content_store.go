package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/meili-bridge/app/models"
)

// ContentStore reads the synced post content the indexer pushes to the
// engine. The host CMS owns writes to this collection; the bridge only
// reads.
type ContentStore struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewContentStore(db *mongo.Database, logger *zap.Logger) *ContentStore {
	return &ContentStore{
		collection: db.Collection("posts"),
		logger:     logger,
	}
}

// Count returns the number of stored posts.
func (cs *ContentStore) Count(ctx context.Context) (int64, error) {
	count, err := cs.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// ForEachBatch streams every stored post in batches of batchSize, invoking
// fn per batch. Iteration stops on the first error from fn.
func (cs *ContentStore) ForEachBatch(ctx context.Context, batchSize int, fn func(posts []*models.Post) error) error {
	cursor, err := cs.collection.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to open posts cursor: %w", err)
	}
	defer cursor.Close(ctx)

	batch := make([]*models.Post, 0, batchSize)
	for cursor.Next(ctx) {
		var post models.Post
		if err := cursor.Decode(&post); err != nil {
			cs.logger.Warn("skipping undecodable post", zap.Error(err))
			continue
		}

		batch = append(batch, &post)
		if len(batch) == batchSize {
			if err := fn(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("posts cursor failed: %w", err)
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}
