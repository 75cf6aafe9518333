package requests

// FacetFilter is one facet selection coming from the filter UI. Value may
// be a list or a comma-separated string.
type FacetFilter struct {
	Type  string      `json:"type" binding:"required"`
	Value interface{} `json:"value" binding:"required"`
}

// SearchRequest carries a WordPress-style query descriptor plus the facet
// selections to merge into it.
type SearchRequest struct {
	Query   map[string]interface{} `json:"query" binding:"required"`
	Filters map[string]FacetFilter `json:"filters"`
}

// MetaKeysRequest replaces the indexable meta-key allow-list.
type MetaKeysRequest struct {
	Keys []string `json:"keys" binding:"required"`
}

// ReindexRequest triggers an indexing pass.
type ReindexRequest struct {
	Clear bool `json:"clear"`
}
