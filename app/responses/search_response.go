package responses

import (
	"github.com/meili-bridge/app/services"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SearchResponse is the result of one executed query. Fallback set means the
// engine declined the query and the caller must run the canonical path.
type SearchResponse struct {
	Hits              []map[string]interface{}                 `json:"hits"`
	FoundPosts        int64                                    `json:"found_posts"`
	MaxNumPages       int64                                    `json:"max_num_pages"`
	ProcessingTimeMs  int64                                    `json:"processing_time_ms"`
	Fallback          bool                                     `json:"fallback"`
	FacetDistribution map[string]map[string]map[string]float64 `json:"facet_distribution,omitempty"`
}

// FacetsResponse carries the filtered distribution alongside the unfiltered
// one, so facet UIs can grey out empty values without losing them.
type FacetsResponse struct {
	FacetDistribution map[string]map[string]map[string]float64 `json:"facet_distribution"`
	AllFacetValues    map[string]map[string]map[string]float64 `json:"all_facet_values"`
	FoundPosts        int64                                    `json:"found_posts"`
	MaxNumPages       int64                                    `json:"max_num_pages"`
}

// MetaKeysResponse lists the allow-listed keys and the keys queries have
// referenced without being allow-listed.
type MetaKeysResponse struct {
	IndexedKeys      []string `json:"indexed_keys"`
	NonIndexableSeen []string `json:"non_indexable_seen"`
}

// StatsResponse is the admin stats payload.
type StatsResponse struct {
	IndexedDocuments int64               `json:"indexed_documents"`
	StoredPosts      int64               `json:"stored_posts"`
	ResultCache      services.CacheStats `json:"result_cache"`
	LastIndexRun     *services.IndexRun  `json:"last_index_run,omitempty"`
}
