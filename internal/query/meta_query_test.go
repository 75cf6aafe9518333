package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildMeta(t *testing.T, registry MetaKeyRegistry, descriptor Params) (string, *MetaQueryBuilder) {
	t.Helper()
	builder := NewMetaQueryBuilder(registry)
	params := &SearchParams{}
	builder.Build(descriptor, params)
	params.Finalize()
	return params.Filter, builder
}

func metaClause(kv map[string]interface{}) Params {
	return Params{"meta_query": []interface{}{kv}}
}

func TestMetaQuery_NumericComparison(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("price"), metaClause(map[string]interface{}{
		"key": "price", "value": "10", "compare": ">", "type": "NUMERIC",
	}))

	assert.Equal(t, "(metas.price > 10)", filter)
}

func TestMetaQuery_DefaultTypeQuotes(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("price"), metaClause(map[string]interface{}{
		"key": "price", "value": "10", "compare": ">",
	}))

	assert.Equal(t, "(metas.price > '10')", filter)
}

func TestMetaQuery_DefaultTypeQuotesBetweenBounds(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("sku"), metaClause(map[string]interface{}{
		"key": "sku", "value": []interface{}{"100", "200"}, "compare": "BETWEEN",
	}))

	assert.Equal(t, "((metas.sku >= '100' AND metas.sku <= '200'))", filter)
}

func TestMetaQuery_DefaultCompareIsEquals(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("color"), metaClause(map[string]interface{}{
		"key": "color", "value": "red",
	}))

	assert.Equal(t, "(metas.color = 'red')", filter)
}

func TestMetaQuery_ClauseShorthand(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("price"), metaClause(map[string]interface{}{
		"meta_key": "price", "meta_value": "10", "meta_compare": ">",
	}))

	assert.Equal(t, "(metas.price > '10')", filter)
}

func TestMetaQuery_Exists(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("rating"), metaClause(map[string]interface{}{
		"key": "rating", "compare": "EXISTS",
	}))
	assert.Equal(t, "(metas.rating EXISTS)", filter)

	filter, _ = buildMeta(t, testRegistry("rating"), metaClause(map[string]interface{}{
		"key": "rating", "compare": "NOT EXISTS",
	}))
	assert.Equal(t, "(metas.rating NOT EXISTS)", filter)
}

func TestMetaQuery_In(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("color"), metaClause(map[string]interface{}{
		"key": "color", "value": []interface{}{"red", "blue"}, "compare": "IN",
	}))
	assert.Equal(t, "(metas.color IN ['red', 'blue'])", filter)

	// IN requires an array value.
	filter, _ = buildMeta(t, testRegistry("color"), metaClause(map[string]interface{}{
		"key": "color", "value": "red", "compare": "IN",
	}))
	assert.Empty(t, filter)
}

func TestMetaQuery_Between(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("price"), metaClause(map[string]interface{}{
		"key": "price", "value": []interface{}{"10", "20"}, "compare": "BETWEEN", "type": "NUMERIC",
	}))
	assert.Equal(t, "((metas.price >= 10 AND metas.price <= 20))", filter)

	filter, _ = buildMeta(t, testRegistry("price"), metaClause(map[string]interface{}{
		"key": "price", "value": []interface{}{"10", "20"}, "compare": "NOT BETWEEN", "type": "NUMERIC",
	}))
	assert.Equal(t, "((metas.price < 10 OR metas.price > 20))", filter)

	// BETWEEN needs exactly two bounds.
	filter, _ = buildMeta(t, testRegistry("price"), metaClause(map[string]interface{}{
		"key": "price", "value": []interface{}{"10"}, "compare": "BETWEEN", "type": "NUMERIC",
	}))
	assert.Empty(t, filter)
}

func TestMetaQuery_DateType(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("event_date"), metaClause(map[string]interface{}{
		"key": "event_date", "value": "2024-06-01", "compare": ">=", "type": "DATE",
	}))

	assert.Equal(t, "(metas.event_date >= '2024-06-01')", filter)
}

func TestMetaQuery_MissingValueDropsClause(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("price"), metaClause(map[string]interface{}{
		"key": "price", "compare": ">",
	}))
	assert.Empty(t, filter)
}

func TestMetaQuery_DisallowedOperatorDropsClause(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("price"), metaClause(map[string]interface{}{
		"key": "price", "value": "10", "compare": "AND",
	}))
	assert.Empty(t, filter)
}

func TestMetaQuery_NonIndexableKeyDropsClauseAndFlags(t *testing.T) {
	registry := testRegistry("price")

	filter, builder := buildMeta(t, registry, metaClause(map[string]interface{}{
		"key": "secret_field", "value": "x",
	}))

	assert.Empty(t, filter)
	assert.True(t, builder.HasNonIndexableKeys())
	assert.Equal(t, []string{"secret_field"}, builder.NonIndexableKeys())
	assert.Equal(t, []string{"secret_field"}, registry.recorded)
}

func TestMetaQuery_RelationOr(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("price", "color"), Params{
		"meta_query": map[string]interface{}{
			"relation": "OR",
			"clauses": []interface{}{
				map[string]interface{}{"key": "price", "value": "10", "compare": ">", "type": "NUMERIC"},
				map[string]interface{}{"key": "color", "value": "red"},
			},
		},
	})

	assert.Equal(t, "(metas.price > 10 OR metas.color = 'red')", filter)
}

func TestMetaQuery_NestedTreeMirrorsDepth(t *testing.T) {
	filter, _ := buildMeta(t, testRegistry("price", "color", "size"), Params{
		"meta_query": map[string]interface{}{
			"relation": "OR",
			"clauses": []interface{}{
				map[string]interface{}{"key": "price", "value": []interface{}{"10", "20"}, "compare": "BETWEEN", "type": "NUMERIC"},
				map[string]interface{}{
					"relation": "AND",
					"clauses": []interface{}{
						map[string]interface{}{"key": "color", "value": []interface{}{"red", "blue"}, "compare": "IN"},
						map[string]interface{}{"key": "size", "value": "M"},
					},
				},
			},
		},
	})

	assert.Equal(t,
		"((metas.price >= 10 AND metas.price <= 20) OR (metas.color IN ['red', 'blue'] AND metas.size = 'M'))",
		filter)
}
