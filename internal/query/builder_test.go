package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeRegistry is the in-memory registry used across the query tests.
type fakeRegistry struct {
	keys     []string
	recorded []string
}

func (r *fakeRegistry) IndexedMetaKeys() []string { return r.keys }

func (r *fakeRegistry) RecordNonIndexable(key string) {
	for _, k := range r.recorded {
		if k == key {
			return
		}
	}
	r.recorded = append(r.recorded, key)
}

func testRegistry(keys ...string) *fakeRegistry {
	return &fakeRegistry{keys: keys}
}

func newTestBuilder(registry MetaKeyRegistry) *Builder {
	return NewBuilder(registry, Defaults{PerPage: 10}, zap.NewNop())
}

func TestBuild_Defaults(t *testing.T) {
	builder := newTestBuilder(testRegistry())
	params := builder.Build(Params{})

	assert.Equal(t, int64(10), params.Limit)
	assert.Zero(t, params.Offset)
	assert.Equal(t, "post_type = 'post' AND post_status = 'publish'", params.Filter)
	assert.Equal(t, []string{"post_date:desc"}, params.Sort)
	assert.Empty(t, params.Query)
	assert.False(t, builder.HasNonIndexableMetaKeys())
}

func TestBuild_Pagination(t *testing.T) {
	builder := newTestBuilder(testRegistry())
	params := builder.Build(Params{"posts_per_page": 20, "paged": 3})

	assert.Equal(t, int64(20), params.Limit)
	assert.Equal(t, int64(40), params.Offset)
}

func TestBuild_PaginationFirstPageHasNoOffset(t *testing.T) {
	builder := newTestBuilder(testRegistry())
	params := builder.Build(Params{"posts_per_page": 20, "paged": 1})

	assert.Equal(t, int64(20), params.Limit)
	assert.Zero(t, params.Offset)
}

func TestBuild_UnlimitedPerPageUsesCap(t *testing.T) {
	builder := newTestBuilder(testRegistry())
	params := builder.Build(Params{"posts_per_page": -1, "paged": 5})

	assert.Equal(t, int64(UnlimitedLimit), params.Limit)
	assert.Zero(t, params.Offset)
}

func TestBuild_PagedBelowOneIsFloored(t *testing.T) {
	builder := newTestBuilder(testRegistry())
	params := builder.Build(Params{"posts_per_page": 10, "paged": 0})

	assert.Zero(t, params.Offset)
}

func TestBuild_ConfiguredTypeStatusDefaults(t *testing.T) {
	builder := NewBuilder(testRegistry(), Defaults{
		PerPage:    10,
		PostType:   "product",
		PostStatus: "draft",
	}, zap.NewNop())

	params := builder.Build(Params{})
	assert.Equal(t, "post_type = 'product' AND post_status = 'draft'", params.Filter)

	// Descriptor values still win over the configured defaults.
	params = builder.Build(Params{"post_type": "page"})
	assert.Equal(t, "post_type = 'page' AND post_status = 'draft'", params.Filter)
}

func TestBuild_PostTypeAndStatusLists(t *testing.T) {
	builder := newTestBuilder(testRegistry())
	params := builder.Build(Params{
		"post_type":   []interface{}{"post", "page"},
		"post_status": []interface{}{"publish", "draft"},
	})

	assert.Equal(t, "post_type IN ['post', 'page'] AND post_status IN ['publish', 'draft']", params.Filter)
}

func TestBuild_SearchTerm(t *testing.T) {
	builder := newTestBuilder(testRegistry())

	params := builder.Build(Params{"s": "coffee grinder"})
	assert.Equal(t, "coffee grinder", params.Query)

	params = builder.Build(Params{"s": ""})
	assert.Empty(t, params.Query)
}

func TestBuild_OrderDefaultsAndAliases(t *testing.T) {
	builder := newTestBuilder(testRegistry())

	params := builder.Build(Params{"orderby": "date", "order": "ASC"})
	assert.Equal(t, []string{"post_date:asc"}, params.Sort)

	params = builder.Build(Params{"orderby": "post_title"})
	assert.Equal(t, []string{"post_title:desc"}, params.Sort)
}

func TestBuild_OrderByMetaValue(t *testing.T) {
	builder := newTestBuilder(testRegistry("price"))

	params := builder.Build(Params{
		"orderby":  "meta_value_num",
		"order":    "asc",
		"meta_key": "price",
	})
	assert.Equal(t, []string{"metas.price:asc"}, params.Sort)

	// Without the companion meta_key there is nothing to sort on.
	params = builder.Build(Params{"orderby": "meta_value"})
	assert.Empty(t, params.Sort)
}

func TestBuild_OrderByMultipleFields(t *testing.T) {
	builder := newTestBuilder(testRegistry())
	params := builder.Build(Params{
		"orderby": map[string]interface{}{
			"date":       "asc",
			"post_title": "desc",
		},
	})

	assert.Equal(t, []string{"post_date:asc", "post_title:desc"}, params.Sort)
}

func TestBuild_MetaKeyShorthand(t *testing.T) {
	builder := newTestBuilder(testRegistry("price"))
	descriptor := Params{
		"meta_key":     "price",
		"meta_value":   "10",
		"meta_compare": ">",
		"meta_type":    "NUMERIC",
	}

	params := builder.Build(descriptor)

	assert.Equal(t, "post_type = 'post' AND post_status = 'publish' AND (metas.price > 10)", params.Filter)

	// The synthesized meta_query is written back into the descriptor.
	_, ok := descriptor["meta_query"]
	assert.True(t, ok)
}

func TestBuild_Idempotent(t *testing.T) {
	registry := testRegistry("price", "color")
	descriptor := Params{
		"posts_per_page": 5,
		"s":              "mug",
		"tax_query": []interface{}{
			map[string]interface{}{"taxonomy": "category", "field": "slug", "terms": []interface{}{"news"}},
		},
		"meta_query": []interface{}{
			map[string]interface{}{"key": "price", "value": "10", "compare": ">", "type": "NUMERIC"},
		},
	}

	first := newTestBuilder(registry).Build(descriptor)
	second := newTestBuilder(registry).Build(descriptor)

	assert.Equal(t, first.Filter, second.Filter)
	assert.Equal(t, first.Sort, second.Sort)
	assert.Equal(t, first.Query, second.Query)
	assert.Equal(t, first.Limit, second.Limit)
}

func TestBuild_CombinedFiltersJoinWithAnd(t *testing.T) {
	builder := newTestBuilder(testRegistry("price"))
	params := builder.Build(Params{
		"post_type": "product",
		"tax_query": []interface{}{
			map[string]interface{}{"taxonomy": "category", "field": "slug", "terms": []interface{}{"tools"}},
		},
		"meta_query": []interface{}{
			map[string]interface{}{"key": "price", "value": "100", "compare": "<=", "type": "NUMERIC"},
		},
		"date_query": []interface{}{
			map[string]interface{}{"column": "year", "value": 2024},
		},
	})

	assert.Equal(t,
		"post_type = 'product' AND post_status = 'publish'"+
			" AND ((terms.taxonomy = 'category' AND terms.slug IN ['tools']))"+
			" AND (metas.price <= 100)"+
			" AND (date.year = 2024)",
		params.Filter)
}

func TestBuild_FallbackFlagResetsBetweenBuilds(t *testing.T) {
	registry := testRegistry("price")
	builder := newTestBuilder(registry)

	params := builder.Build(Params{
		"meta_query": []interface{}{
			map[string]interface{}{"key": "secret", "value": "x"},
		},
	})
	assert.True(t, builder.HasNonIndexableMetaKeys())
	assert.Equal(t, []string{"secret"}, builder.NonIndexableMetaKeys())
	// The rejected clause contributes nothing to the filter.
	assert.Equal(t, "post_type = 'post' AND post_status = 'publish'", params.Filter)

	builder.Build(Params{
		"meta_query": []interface{}{
			map[string]interface{}{"key": "price", "value": "10"},
		},
	})
	assert.False(t, builder.HasNonIndexableMetaKeys())
}
