package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration loaded from config/app.yaml plus
// environment overrides.
type Config struct {
	Port string

	MeiliHost   string
	MeiliAPIKey string
	MeiliIndex  string

	MongoURI  string
	MongoDB   string
	RedisURL  string
	ResultTTL time.Duration

	DefaultPerPage    int64
	DefaultPostType   string
	DefaultPostStatus string
}

// Load reads config/app.yaml and the environment.
func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("meilisearch.index", "posts")
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "meili_bridge")
	viper.SetDefault("redis.url", "redis://localhost:6379")
	viper.SetDefault("cache.result_ttl", "10m")
	viper.SetDefault("search.default_per_page", 10)
	viper.SetDefault("search.default_post_type", "post")
	viper.SetDefault("search.default_post_status", "publish")

	viper.AutomaticEnv()
	_ = viper.BindEnv("app.port", "APP_PORT")
	_ = viper.BindEnv("meilisearch.url", "MEILI_URL")
	_ = viper.BindEnv("meilisearch.master_key", "MEILI_MASTER_KEY")
	_ = viper.BindEnv("mongo.uri", "MONGO_URI")
	_ = viper.BindEnv("redis.url", "REDIS_URL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return &Config{
		Port:              viper.GetString("app.port"),
		MeiliHost:         viper.GetString("meilisearch.url"),
		MeiliAPIKey:       viper.GetString("meilisearch.master_key"),
		MeiliIndex:        viper.GetString("meilisearch.index"),
		MongoURI:          viper.GetString("mongo.uri"),
		MongoDB:           viper.GetString("mongo.database"),
		RedisURL:          viper.GetString("redis.url"),
		ResultTTL:         viper.GetDuration("cache.result_ttl"),
		DefaultPerPage:    viper.GetInt64("search.default_per_page"),
		DefaultPostType:   viper.GetString("search.default_post_type"),
		DefaultPostStatus: viper.GetString("search.default_post_status"),
	}, nil
}

// IndexSettings is the engine-side index configuration, loaded from
// config/indexes.yaml. Filterable attributes for metas are appended at
// index time from the meta-key registry.
type IndexSettings struct {
	SearchableAttributes []string `yaml:"searchable_attributes"`
	FilterableAttributes []string `yaml:"filterable_attributes"`
	SortableAttributes   []string `yaml:"sortable_attributes"`
	RankingRules         []string `yaml:"ranking_rules"`
}

// LoadIndexSettings reads the index-settings document from path.
func LoadIndexSettings(path string) (*IndexSettings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index settings: %w", err)
	}

	var settings IndexSettings
	if err := yaml.Unmarshal(b, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse index settings: %w", err)
	}
	return &settings, nil
}
