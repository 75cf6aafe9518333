// Package search wraps the Meilisearch client behind the small surface the
// bridge needs: translated-parameter search, index settings management and
// batch document pushes.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/meili-bridge/internal/query"
)

// Config holds the Meilisearch connection settings.
type Config struct {
	Host    string
	APIKey  string
	Index   string
	Timeout time.Duration
}

// Client is the Meilisearch client wrapper. It executes translated search
// parameters against the content index and returns hits plus the facet
// distribution.
type Client struct {
	cli       meilisearch.ServiceManager
	indexName string
	logger    *zap.Logger
}

// Result is one executed search: raw hits, totals and the facet
// distribution keyed by facetable attribute, value, count.
type Result struct {
	Hits              []map[string]interface{}      `json:"hits"`
	TotalHits         int64                         `json:"total_hits"`
	Limit             int64                         `json:"limit"`
	Offset            int64                         `json:"offset"`
	MaxPages          int64                         `json:"max_pages"`
	ProcessingTimeMs  int64                         `json:"processing_time_ms"`
	FacetDistribution map[string]map[string]float64 `json:"facet_distribution"`
}

// NewClient validates the connection settings, connects and health-checks
// the engine.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if !strings.HasPrefix(cfg.Host, "http://") && !strings.HasPrefix(cfg.Host, "https://") {
		return nil, fmt.Errorf("invalid meilisearch host %q", cfg.Host)
	}

	cli := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))

	health, err := cli.Health()
	if err != nil {
		return nil, fmt.Errorf("meilisearch health check failed: %w", err)
	}
	logger.Info("connected to meilisearch",
		zap.String("host", cfg.Host),
		zap.String("status", health.Status))

	return &Client{
		cli:       cli,
		indexName: cfg.Index,
		logger:    logger,
	}, nil
}

// Search executes translated search parameters against the content index.
func (c *Client) Search(params *query.SearchParams) (*Result, error) {
	req := &meilisearch.SearchRequest{
		Limit:  params.Limit,
		Offset: params.Offset,
		Sort:   params.Sort,
		Facets: params.Facets,
	}
	if params.Filter != "" {
		req.Filter = params.Filter
	}

	resp, err := c.cli.Index(c.indexName).Search(params.Query, req)
	if err != nil {
		return nil, fmt.Errorf("meilisearch search failed: %w", err)
	}

	return buildResult(resp, params.Limit), nil
}

func buildResult(resp *meilisearch.SearchResponse, limit int64) *Result {
	hits := make([]map[string]interface{}, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		hits = append(hits, cast.ToStringMap(hit))
	}

	result := &Result{
		Hits:              hits,
		TotalHits:         resp.EstimatedTotalHits,
		Limit:             resp.Limit,
		Offset:            resp.Offset,
		ProcessingTimeMs:  resp.ProcessingTimeMs,
		FacetDistribution: facetDistribution(resp.FacetDistribution),
	}
	if limit > 0 {
		result.MaxPages = (result.TotalHits + limit - 1) / limit
	}
	return result
}

// facetDistribution normalizes the engine's loosely-typed facet payload into
// attribute → value → count.
func facetDistribution(raw interface{}) map[string]map[string]float64 {
	dist := map[string]map[string]float64{}
	for attr, values := range cast.ToStringMap(raw) {
		counts := map[string]float64{}
		for value, count := range cast.ToStringMap(values) {
			counts[value] = cast.ToFloat64(count)
		}
		dist[attr] = counts
	}
	return dist
}

// UpdateIndexSettings applies the filterable, sortable and searchable
// attribute configuration and waits for the task to settle.
func (c *Client) UpdateIndexSettings(settings *meilisearch.Settings) error {
	index := c.cli.Index(c.indexName)

	task, err := index.UpdateSettings(settings)
	if err != nil {
		return fmt.Errorf("failed to update index settings: %w", err)
	}

	return c.waitForTask(task.TaskUID)
}

// AddDocuments pushes one batch of documents under the given primary key.
func (c *Client) AddDocuments(documents interface{}, primaryKey string) error {
	task, err := c.cli.Index(c.indexName).AddDocuments(documents, primaryKey)
	if err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	return c.waitForTask(task.TaskUID)
}

// DeleteAllDocuments clears the content index before a full reindex.
func (c *Client) DeleteAllDocuments() error {
	task, err := c.cli.Index(c.indexName).DeleteAllDocuments()
	if err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	return c.waitForTask(task.TaskUID)
}

// IndexStats returns the engine-side document count for the content index.
func (c *Client) IndexStats() (int64, error) {
	stats, err := c.cli.Index(c.indexName).GetStats()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch index stats: %w", err)
	}
	return stats.NumberOfDocuments, nil
}

func (c *Client) waitForTask(taskUID int64) error {
	for {
		info, err := c.cli.GetTask(taskUID)
		if err != nil {
			return fmt.Errorf("failed to check task %d: %w", taskUID, err)
		}

		switch info.Status {
		case meilisearch.TaskStatusSucceeded:
			return nil
		case meilisearch.TaskStatusFailed:
			return fmt.Errorf("meilisearch task %d failed: %s", taskUID, info.Error.Message)
		}

		time.Sleep(200 * time.Millisecond)
	}
}
