package query

import (
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// OrderBuilder translates orderby/order into the engine's "field:direction"
// sort list.
type OrderBuilder struct{}

func (b *OrderBuilder) Build(q Query, params *SearchParams) {
	orderby := q.Get("orderby", "post_date")
	direction := strings.ToLower(cast.ToString(q.Get("order", "desc")))
	if direction != "asc" {
		direction = "desc"
	}

	// Multi-key form: orderby is a field → direction map. Fields are sorted
	// so repeated builds emit an identical sort list.
	if fields, ok := clauseMap(orderby); ok {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		sorts := make([]string, 0, len(names))
		for _, name := range names {
			dir := strings.ToLower(cast.ToString(fields[name]))
			if dir != "asc" {
				dir = "desc"
			}
			sorts = append(sorts, normalizeOrderField(name)+":"+dir)
		}
		if len(sorts) > 0 {
			params.Sort = sorts
		}
		return
	}

	field := cast.ToString(orderby)

	// meta_value sorting needs the companion meta_key; without it there is
	// nothing to sort on.
	if field == "meta_value" || field == "meta_value_num" {
		metaKey := cast.ToString(q.Get("meta_key", ""))
		if metaKey != "" {
			params.Sort = []string{"metas." + metaKey + ":" + direction}
		}
		return
	}

	params.Sort = []string{normalizeOrderField(field) + ":" + direction}
}

func normalizeOrderField(field string) string {
	if field == "date" {
		return "post_date"
	}
	return field
}
