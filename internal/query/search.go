package query

import "github.com/spf13/cast"

// SearchTermBuilder forwards the free-text "s" parameter. An absent q and an
// empty q have different relevance semantics in the engine, so nothing is
// emitted when no term is given.
type SearchTermBuilder struct{}

func (b *SearchTermBuilder) Build(q Query, params *SearchParams) {
	if term := cast.ToString(q.Get("s", "")); term != "" {
		params.Query = term
	}
}
