package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Setting keys persisted in the settings collection.
const (
	SettingIndexedMetaKeys      = "indexed_meta_keys"
	SettingNonIndexableMetaKeys = "non_indexable_meta_keys"
)

const settingsCacheTTL = 30 * time.Second

// SettingsService persists bridge settings in MongoDB and backs the
// indexable meta-key registry. Reads go through a small expiring LRU so the
// per-clause registry checks during query translation never hit MongoDB.
//
// Implements query.MetaKeyRegistry.
type SettingsService struct {
	collection *mongo.Collection
	cache      *expirable.LRU[string, []string]
	logger     *zap.Logger
}

type settingDoc struct {
	Key    string   `bson:"key"`
	Values []string `bson:"values"`
}

// NewSettingsService creates the service and ensures the settings index.
func NewSettingsService(db *mongo.Database, logger *zap.Logger) (*SettingsService, error) {
	collection := db.Collection("settings")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Warn("could not create settings index", zap.Error(err))
	}

	return &SettingsService{
		collection: collection,
		cache:      expirable.NewLRU[string, []string](64, nil, settingsCacheTTL),
		logger:     logger,
	}, nil
}

// GetStringList returns the persisted list under key, or an empty list.
func (s *SettingsService) GetStringList(ctx context.Context, key string) ([]string, error) {
	if values, ok := s.cache.Get(key); ok {
		return values, nil
	}

	var doc settingDoc
	err := s.collection.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		s.cache.Add(key, nil)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read setting %s: %w", key, err)
	}

	s.cache.Add(key, doc.Values)
	return doc.Values, nil
}

// SetStringList replaces the persisted list under key.
func (s *SettingsService) SetStringList(ctx context.Context, key string, values []string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"values": values, "updated_at": time.Now()}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}

	s.cache.Remove(key)
	return nil
}

// AddToStringList appends values to the persisted list under key. $addToSet
// keeps the list deduplicated, so repeated recordings collapse.
func (s *SettingsService) AddToStringList(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}

	_, err := s.collection.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{
			"$addToSet": bson.M{"values": bson.M{"$each": values}},
			"$set":      bson.M{"updated_at": time.Now()},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to extend setting %s: %w", key, err)
	}

	s.cache.Remove(key)
	return nil
}

// IndexedMetaKeys returns the meta-key allow-list. Part of the registry
// interface the query translator consults synchronously, hence the internal
// timeout instead of a caller context.
func (s *SettingsService) IndexedMetaKeys() []string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	keys, err := s.GetStringList(ctx, SettingIndexedMetaKeys)
	if err != nil {
		s.logger.Error("failed to load indexed meta keys", zap.Error(err))
		return nil
	}
	return keys
}

// RecordNonIndexable records a meta key that was queried but is not on the
// allow-list, for operator visibility in the admin surface.
func (s *SettingsService) RecordNonIndexable(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.AddToStringList(ctx, SettingNonIndexableMetaKeys, key); err != nil {
		s.logger.Error("failed to record non-indexable meta key",
			zap.String("key", key), zap.Error(err))
	}
}

// NonIndexableKeys returns every meta key ever rejected by the registry.
func (s *SettingsService) NonIndexableKeys(ctx context.Context) ([]string, error) {
	return s.GetStringList(ctx, SettingNonIndexableMetaKeys)
}
