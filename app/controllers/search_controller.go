package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/meili-bridge/app/requests"
	"github.com/meili-bridge/app/responses"
	"github.com/meili-bridge/app/services"
	"github.com/meili-bridge/internal/query"
)

// SearchController exposes the translated search and facet endpoints.
type SearchController struct {
	searchService *services.SearchService
	logger        *zap.Logger
}

func NewSearchController(searchService *services.SearchService, logger *zap.Logger) *SearchController {
	return &SearchController{
		searchService: searchService,
		logger:        logger,
	}
}

// Search executes one query descriptor, with facet selections merged in.
func (sc *SearchController) Search(c *gin.Context) {
	var req requests.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	descriptor := query.Params(req.Query)
	applyFacetFilters(descriptor, req.Filters)

	result, err := sc.searchService.Execute(c.Request.Context(), descriptor)
	if errors.Is(err, services.ErrFallback) {
		// The caller owns the canonical execution path; translation errors
		// never surface to end users.
		c.JSON(http.StatusOK, responses.SearchResponse{Fallback: true})
		return
	}
	if err != nil {
		sc.logger.Error("search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "SEARCH_ERROR",
			Message: "search execution failed",
		})
		return
	}

	c.JSON(http.StatusOK, responses.SearchResponse{
		Hits:              result.Hits,
		FoundPosts:        result.TotalHits,
		MaxNumPages:       result.MaxPages,
		ProcessingTimeMs:  result.ProcessingTimeMs,
		FacetDistribution: services.FormatFacetDistribution(result.FacetDistribution),
	})
}

// Facets runs the descriptor twice, without and with the facet selections,
// so the UI can show the full value set next to the filtered counts.
func (sc *SearchController) Facets(c *gin.Context) {
	var req requests.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	unfiltered, err := sc.searchService.Execute(c.Request.Context(), query.Params(cloneDescriptor(req.Query)))
	if err != nil && !errors.Is(err, services.ErrFallback) {
		sc.logger.Error("facet query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "SEARCH_ERROR",
			Message: "facet query failed",
		})
		return
	}

	descriptor := query.Params(req.Query)
	applyFacetFilters(descriptor, req.Filters)

	filtered, err := sc.searchService.Execute(c.Request.Context(), descriptor)
	if errors.Is(err, services.ErrFallback) {
		c.JSON(http.StatusOK, responses.FacetsResponse{})
		return
	}
	if err != nil {
		sc.logger.Error("facet query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "SEARCH_ERROR",
			Message: "facet query failed",
		})
		return
	}

	resp := responses.FacetsResponse{
		FacetDistribution: services.FormatFacetDistribution(filtered.FacetDistribution),
		FoundPosts:        filtered.TotalHits,
		MaxNumPages:       filtered.MaxPages,
	}
	if unfiltered != nil {
		resp.AllFacetValues = services.FormatFacetDistribution(unfiltered.FacetDistribution)
	}

	c.JSON(http.StatusOK, resp)
}

// applyFacetFilters merges facet selections into the descriptor's
// tax_query/meta_query. Comma-separated string values are split; taxonomy
// selections match by term name.
func applyFacetFilters(descriptor query.Params, filters map[string]requests.FacetFilter) {
	var taxClauses, metaClauses []interface{}

	for key, filter := range filters {
		value := filterValues(filter.Value)
		if len(value) == 0 {
			continue
		}

		switch filter.Type {
		case "taxonomy":
			taxClauses = append(taxClauses, map[string]interface{}{
				"taxonomy": key,
				"field":    "name",
				"terms":    value,
				"operator": "IN",
			})
		case "meta":
			metaClauses = append(metaClauses, map[string]interface{}{
				"key":     key,
				"value":   value,
				"compare": "IN",
			})
		}
	}

	appendClauses(descriptor, "tax_query", taxClauses)
	appendClauses(descriptor, "meta_query", metaClauses)
}

func appendClauses(descriptor query.Params, key string, clauses []interface{}) {
	if len(clauses) == 0 {
		return
	}
	existing, _ := descriptor.Get(key, []interface{}{}).([]interface{})
	descriptor.Set(key, append(existing, clauses...))
}

// filterValues normalizes a facet selection into a list of non-empty values.
func filterValues(raw interface{}) []interface{} {
	if s, ok := raw.(string); ok {
		var values []interface{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		return values
	}

	if list, ok := raw.([]interface{}); ok {
		return list
	}

	if s := cast.ToString(raw); s != "" {
		return []interface{}{s}
	}
	return nil
}

func cloneDescriptor(m map[string]interface{}) map[string]interface{} {
	clone := make(map[string]interface{}, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// HealthCheck reports service liveness.
func (sc *SearchController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
