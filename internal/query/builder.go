package query

import (
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Builder owns the ordered list of parameter builders and runs one full
// translation per Build call. The order fixes the layout of the output, not
// its meaning: every builder writes disjoint parameters except the
// append-only filter list.
//
// Not safe for concurrent use; create one Builder per translation.
type Builder struct {
	builders []ParamBuilder
	meta     *MetaQueryBuilder
	logger   *zap.Logger
}

// Defaults carries the host-level fallbacks applied when a descriptor
// omits the corresponding parameters.
type Defaults struct {
	PerPage    int64
	PostType   string
	PostStatus string
}

// NewBuilder wires the builder chain. defaults mirrors the host's
// posts_per_page and type/status options and registry is the indexable
// meta-key allow-list.
func NewBuilder(registry MetaKeyRegistry, defaults Defaults, logger *zap.Logger) *Builder {
	meta := NewMetaQueryBuilder(registry)

	return &Builder{
		builders: []ParamBuilder{
			&PaginationBuilder{DefaultPerPage: defaults.PerPage},
			&SearchTermBuilder{},
			&OrderBuilder{},
			&TypeStatusBuilder{DefaultType: defaults.PostType, DefaultStatus: defaults.PostStatus},
			NewTaxQueryBuilder(),
			meta,
			NewDateQueryBuilder(),
		},
		meta:   meta,
		logger: logger,
	}
}

// Build translates a query descriptor into Meilisearch search parameters.
// Shorthand meta parameters are first normalized into a one-element
// meta_query and written back through the adapter so the meta builder only
// ever sees the canonical shape.
func (b *Builder) Build(q Query) *SearchParams {
	b.meta.Reset()

	if metaKey := cast.ToString(q.Get("meta_key", "")); metaKey != "" {
		q.Set("meta_query", []interface{}{
			map[string]interface{}{
				"key":     metaKey,
				"value":   q.Get("meta_value", q.Get("meta_value_num", nil)),
				"compare": q.Get("meta_compare", string(DefaultOperator)),
				"type":    q.Get("meta_type", string(DefaultMetaType)),
			},
		})
	}

	params := &SearchParams{}
	for _, builder := range b.builders {
		builder.Build(q, params)
	}
	params.Finalize()

	if b.meta.HasNonIndexableKeys() {
		b.logger.Debug("query references non-indexable meta keys",
			zap.Strings("keys", b.meta.NonIndexableKeys()))
	}

	return params
}

// HasNonIndexableMetaKeys reports whether the last Build dropped a meta
// clause for referencing a key outside the registry. Callers must treat this
// as a hard signal to abandon engine execution for the whole query: a
// partially applied filter would silently return over-broad results.
func (b *Builder) HasNonIndexableMetaKeys() bool {
	return b.meta.HasNonIndexableKeys()
}

// NonIndexableMetaKeys returns the meta keys rejected during the last Build.
func (b *Builder) NonIndexableMetaKeys() []string {
	return b.meta.NonIndexableKeys()
}
