package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meili-bridge/app/requests"
	"github.com/meili-bridge/internal/query"
)

func TestApplyFacetFilters_Taxonomy(t *testing.T) {
	descriptor := query.Params{}

	applyFacetFilters(descriptor, map[string]requests.FacetFilter{
		"category": {Type: "taxonomy", Value: "News, Tech"},
	})

	clauses, ok := descriptor["tax_query"].([]interface{})
	require.True(t, ok)
	require.Len(t, clauses, 1)

	clause := clauses[0].(map[string]interface{})
	assert.Equal(t, "category", clause["taxonomy"])
	assert.Equal(t, "name", clause["field"])
	assert.Equal(t, "IN", clause["operator"])
	assert.Equal(t, []interface{}{"News", "Tech"}, clause["terms"])
}

func TestApplyFacetFilters_MetaAppendsToExisting(t *testing.T) {
	existing := map[string]interface{}{"key": "price", "value": "10", "compare": ">"}
	descriptor := query.Params{"meta_query": []interface{}{existing}}

	applyFacetFilters(descriptor, map[string]requests.FacetFilter{
		"color": {Type: "meta", Value: []interface{}{"red"}},
	})

	clauses := descriptor["meta_query"].([]interface{})
	require.Len(t, clauses, 2)
	assert.Equal(t, existing, clauses[0])
}

func TestApplyFacetFilters_EmptySelectionsIgnored(t *testing.T) {
	descriptor := query.Params{}

	applyFacetFilters(descriptor, map[string]requests.FacetFilter{
		"category": {Type: "taxonomy", Value: " , "},
		"mystery":  {Type: "unknown", Value: "x"},
	})

	assert.NotContains(t, descriptor, "tax_query")
	assert.NotContains(t, descriptor, "meta_query")
}

func TestFilterValues(t *testing.T) {
	assert.Equal(t, []interface{}{"a", "b"}, filterValues("a, b"))
	assert.Equal(t, []interface{}{"a"}, filterValues([]interface{}{"a"}))
	assert.Equal(t, []interface{}{"7"}, filterValues(7))
	assert.Nil(t, filterValues(""))
}
