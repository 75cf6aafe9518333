package query

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// TypeStatusBuilder emits the post_type and post_status filter fragments.
// Both are unconditional: every query is scoped by type and status even when
// the caller specified neither.
type TypeStatusBuilder struct {
	// DefaultType and DefaultStatus come from the host configuration;
	// unset they fall back to post/publish.
	DefaultType   string
	DefaultStatus string
}

func (b *TypeStatusBuilder) Build(q Query, params *SearchParams) {
	defType, defStatus := b.DefaultType, b.DefaultStatus
	if defType == "" {
		defType = "post"
	}
	if defStatus == "" {
		defStatus = "publish"
	}

	b.addFilter(params, "post_type", q.Get("post_type", defType))
	b.addFilter(params, "post_status", q.Get("post_status", defStatus))
}

// addFilter renders "key = 'value'" or "key IN ['a', 'b']". Types and
// statuses are always slugs, so they are quoted unconditionally.
func (b *TypeStatusBuilder) addFilter(params *SearchParams, key string, value interface{}) {
	if list, ok := valueList(value); ok {
		quoted := make([]string, len(list))
		for i, v := range list {
			quoted[i] = quoteString(cast.ToString(v))
		}
		params.AddFilter(fmt.Sprintf("%s IN [%s]", key, strings.Join(quoted, ", ")))
		return
	}
	params.AddFilter(fmt.Sprintf("%s = %s", key, quoteString(cast.ToString(value))))
}
