package query

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// MetaKeyRegistry is the allow-list of meta keys the engine may filter on.
// Keys consulted but absent are recorded as an operational signal; the
// implementation must deduplicate.
type MetaKeyRegistry interface {
	IndexedMetaKeys() []string
	RecordNonIndexable(key string)
}

// MetaQueryBuilder converts meta_query relation trees into filter fragments
// over the metas.* document attributes. Clauses referencing keys outside the
// registry are dropped and flagged so the caller can fall back to the
// canonical execution path for the whole query.
//
// Not safe for concurrent use; the orchestrator creates one per translation.
type MetaQueryBuilder struct {
	filterBuilder
	registry     MetaKeyRegistry
	nonIndexable []string
}

func NewMetaQueryBuilder(registry MetaKeyRegistry) *MetaQueryBuilder {
	b := &MetaQueryBuilder{registry: registry}
	b.filterBuilder = filterBuilder{queryKey: "meta_query", buildClause: b.buildClause}
	return b
}

// Reset clears the rejected-key state from a previous build.
func (b *MetaQueryBuilder) Reset() {
	b.nonIndexable = nil
}

// HasNonIndexableKeys reports whether the last build dropped a clause for
// referencing a key outside the registry.
func (b *MetaQueryBuilder) HasNonIndexableKeys() bool {
	return len(b.nonIndexable) > 0
}

// NonIndexableKeys returns the keys rejected during the last build.
func (b *MetaQueryBuilder) NonIndexableKeys() []string {
	return b.nonIndexable
}

func (b *MetaQueryBuilder) buildClause(clause map[string]interface{}) string {
	// Shorthand clauses use the meta_* key names.
	if rawKey, ok := clause["meta_key"]; ok {
		clause["key"] = rawKey
		if v, ok := clause["meta_value"]; ok {
			clause["value"] = v
		} else if v, ok := clause["meta_value_num"]; ok {
			clause["value"] = v
		}
		if v, ok := clause["meta_compare"]; ok {
			clause["compare"] = v
		} else {
			clause["compare"] = string(DefaultOperator)
		}
	}

	key := cast.ToString(clause["key"])
	if key == "" {
		return ""
	}

	if !b.indexable(key) {
		return ""
	}

	attr := "metas." + key

	op := DefaultOperator
	if raw, ok := clause["compare"]; ok {
		op = ResolveOperator(cast.ToString(raw), DefaultOperator)
	}
	if !op.ValidForMeta() {
		return ""
	}

	if op.TakesNoValue() {
		return fmt.Sprintf("%s %s", attr, op)
	}

	value, ok := clause["value"]
	if !ok || value == nil {
		return ""
	}

	metaType := ResolveMetaType(cast.ToString(clause["type"]))

	switch op {
	case OpEquals, OpNotEquals,
		OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual,
		OpLike, OpNotLike, OpRegexp, OpNotRegexp, OpRlike:
		return fmt.Sprintf("%s %s %s", attr, op, formatMetaValue(value, metaType))

	case OpIn, OpNotIn:
		list, isList := valueList(value)
		if !isList {
			return ""
		}
		return fmt.Sprintf("%s %s [%s]", attr, op, FormatValues(list))

	case OpBetween:
		list, isList := valueList(value)
		if !isList || len(list) != 2 {
			return ""
		}
		return fmt.Sprintf("(%s >= %s AND %s <= %s)",
			attr, formatMetaValue(list[0], metaType),
			attr, formatMetaValue(list[1], metaType))

	case OpNotBetween:
		list, isList := valueList(value)
		if !isList || len(list) != 2 {
			return ""
		}
		return fmt.Sprintf("(%s < %s OR %s > %s)",
			attr, formatMetaValue(list[0], metaType),
			attr, formatMetaValue(list[1], metaType))
	}

	return ""
}

// indexable consults the registry and records rejected keys for operator
// visibility and the whole-query fallback signal.
func (b *MetaQueryBuilder) indexable(key string) bool {
	for _, k := range b.registry.IndexedMetaKeys() {
		if k == key {
			return true
		}
	}

	b.nonIndexable = append(b.nonIndexable, key)
	b.registry.RecordNonIndexable(key)
	return false
}

// formatMetaValue renders a meta value according to its declared type:
// numeric types stay bare, date/time types go through the standard literal
// formatter and the default CHAR type is always quoted. Numeric lists are
// joined without brackets since the callers that accept lists add their own
// delimiters.
func formatMetaValue(value interface{}, metaType MetaType) string {
	if metaType.Numeric() {
		if list, ok := valueList(value); ok {
			parts := make([]string, len(list))
			for i, v := range list {
				parts[i] = cast.ToString(v)
			}
			return strings.Join(parts, ", ")
		}
		return cast.ToString(value)
	}

	if metaType.Temporal() {
		if list, ok := valueList(value); ok {
			return FormatValues(list)
		}
		return FormatValue(value)
	}

	// CHAR and BINARY are string comparisons: quote unconditionally, even
	// for numeric-looking values. Bare numerals here would silently compare
	// against the wrong literal type.
	if list, ok := valueList(value); ok {
		parts := make([]string, len(list))
		for i, v := range list {
			parts[i] = quoteString(cast.ToString(v))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return quoteString(cast.ToString(value))
}
