// Package query translates WordPress-style query descriptors (post_type,
// tax_query, meta_query, date_query, pagination, ordering) into Meilisearch
// search parameters and a single filter-expression string.
package query

import "strings"

// Query is the adapter any host query representation must implement to be
// translatable. Get returns def when the key is absent or nil.
type Query interface {
	Get(key string, def interface{}) interface{}
	Set(key string, value interface{})
}

// Params is a plain map implementation of Query, used by REST controllers
// and tests.
type Params map[string]interface{}

func (p Params) Get(key string, def interface{}) interface{} {
	if v, ok := p[key]; ok && v != nil {
		return v
	}
	return def
}

func (p Params) Set(key string, value interface{}) {
	p[key] = value
}

// SearchParams accumulates the Meilisearch parameters produced by the
// builders. Filters holds the top-level filter fragments while building;
// Finalize joins them into Filter.
type SearchParams struct {
	Query   string   `json:"q,omitempty"`
	Filters []string `json:"-"`
	Filter  string   `json:"filter,omitempty"`
	Limit   int64    `json:"limit"`
	Offset  int64    `json:"offset,omitempty"`
	Sort    []string `json:"sort,omitempty"`
	Facets  []string `json:"facets,omitempty"`
}

// AddFilter appends one top-level filter fragment. Empty fragments are
// dropped clauses and are ignored.
func (p *SearchParams) AddFilter(fragment string) {
	if fragment != "" {
		p.Filters = append(p.Filters, fragment)
	}
}

// Finalize joins the accumulated fragments into the final filter string.
func (p *SearchParams) Finalize() {
	p.Filter = strings.Join(p.Filters, " AND ")
}

// ParamBuilder is one translation step. Builders run in a fixed order and
// each mutates the shared SearchParams.
type ParamBuilder interface {
	Build(q Query, params *SearchParams)
}
