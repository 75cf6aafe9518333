package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/meili-bridge/internal/query"
	"github.com/meili-bridge/internal/search"
)

// ErrFallback signals that the whole query must be executed by the
// canonical (non-engine) path. A meta clause referenced a key outside the
// indexable registry; applying the remaining filters anyway would silently
// return over-broad results.
var ErrFallback = errors.New("query not executable by search engine")

// defaultFacets is requested on every engine query so facet UIs always
// receive term distributions.
var defaultFacets = []string{
	"terms.term_id",
	"terms.term_taxonomy_id",
	"terms.taxonomy",
	"terms.name",
	"terms.slug",
}

// Searcher is the engine surface the service needs; satisfied by
// *search.Client and by fakes in tests.
type Searcher interface {
	Search(params *query.SearchParams) (*search.Result, error)
}

// SearchService translates query descriptors and executes them against the
// engine, with a Redis result cache in front.
type SearchService struct {
	searcher Searcher
	registry query.MetaKeyRegistry
	cache    *ResultCache
	defaults query.Defaults
	logger   *zap.Logger
}

func NewSearchService(searcher Searcher, registry query.MetaKeyRegistry, cache *ResultCache,
	defaults query.Defaults, logger *zap.Logger) *SearchService {
	return &SearchService{
		searcher: searcher,
		registry: registry,
		cache:    cache,
		defaults: defaults,
		logger:   logger,
	}
}

// Translate builds the engine parameters for a descriptor without executing
// anything. Returns ErrFallback when the build flagged non-indexable meta
// keys.
func (ss *SearchService) Translate(descriptor query.Query) (*query.SearchParams, error) {
	builder := query.NewBuilder(ss.registry, ss.defaults, ss.logger)
	params := builder.Build(descriptor)

	if builder.HasNonIndexableMetaKeys() {
		ss.logger.Warn("falling back to canonical query execution",
			zap.Strings("non_indexable_keys", builder.NonIndexableMetaKeys()))
		return params, ErrFallback
	}

	return params, nil
}

// Execute translates and runs one descriptor. Facets are always requested;
// results are served from the cache when an identical translated query was
// executed recently.
func (ss *SearchService) Execute(ctx context.Context, descriptor query.Query) (*search.Result, error) {
	params, err := ss.Translate(descriptor)
	if err != nil {
		return nil, err
	}
	params.Facets = defaultFacets

	var cacheKey string
	if ss.cache != nil {
		cacheKey = ss.cache.Key(params)
		if cached, found, err := ss.cache.Get(ctx, cacheKey); err == nil && found {
			return cached, nil
		}
	}

	result, err := ss.searcher.Search(params)
	if err != nil {
		return nil, err
	}

	if ss.cache != nil {
		if err := ss.cache.Set(ctx, cacheKey, result); err != nil {
			ss.logger.Warn("could not cache search result", zap.Error(err))
		}
	}

	return result, nil
}

// FormatFacetDistribution regroups the flat attribute → value → count
// distribution by attribute prefix: "terms.name" lands under
// ["terms"]["name"]. Facet UIs consume the nested form.
func FormatFacetDistribution(dist map[string]map[string]float64) map[string]map[string]map[string]float64 {
	formatted := map[string]map[string]map[string]float64{}
	for attr, counts := range dist {
		prefix, field, found := strings.Cut(attr, ".")
		if !found {
			continue
		}
		if formatted[prefix] == nil {
			formatted[prefix] = map[string]map[string]float64{}
		}
		formatted[prefix][field] = counts
	}
	return formatted
}
