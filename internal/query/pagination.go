package query

import "github.com/spf13/cast"

// UnlimitedLimit replaces the WordPress "-1 = no limit" sentinel. The engine
// requires an explicit cap on every request.
const UnlimitedLimit = 1000

// PaginationBuilder translates posts_per_page and paged into limit/offset.
type PaginationBuilder struct {
	// DefaultPerPage mirrors the host's posts_per_page option.
	DefaultPerPage int64
}

func (b *PaginationBuilder) Build(q Query, params *SearchParams) {
	perPage := cast.ToInt64(q.Get("posts_per_page", b.DefaultPerPage))

	if perPage == -1 {
		params.Limit = UnlimitedLimit
		return
	}

	params.Limit = perPage

	paged := cast.ToInt64(q.Get("paged", 1))
	if paged < 1 {
		paged = 1
	}

	if offset := (paged - 1) * perPage; offset > 0 {
		params.Offset = offset
	}
}
