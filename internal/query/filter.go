package query

import (
	"strings"

	"github.com/spf13/cast"
)

const (
	relationAnd = "AND"
	relationOr  = "OR"
)

// filterBuilder is the shared recursive walker behind the tax_query,
// meta_query and date_query builders. It reads the relation tree stored
// under queryKey and renders it into one parenthesized top-level fragment,
// delegating leaf clauses to buildClause.
//
// Tree shape: the value under queryKey is a list of clause maps; a map
// carrying a "relation" key is a nested group whose children live under
// "clauses". The top-level value may itself be such a group map. A list
// without an explicit relation combines with AND.
type filterBuilder struct {
	queryKey    string
	buildClause func(clause map[string]interface{}) string
}

func (b filterBuilder) Build(q Query, params *SearchParams) {
	relation, nodes, ok := relationGroup(q.Get(b.queryKey, nil))
	if !ok {
		return
	}

	if joined := b.buildGroup(nodes, relation); joined != "" {
		params.AddFilter("(" + joined + ")")
	}
}

// buildGroup renders the children of one relation group. Dropped clauses
// yield empty fragments and are filtered out so they never leave a dangling
// relation keyword; an all-empty group renders as "".
func (b filterBuilder) buildGroup(nodes []interface{}, relation string) string {
	fragments := make([]string, 0, len(nodes))

	for _, node := range nodes {
		clause, ok := clauseMap(node)
		if !ok {
			continue
		}

		var fragment string
		if rel, children, isGroup := subGroup(clause); isGroup {
			if inner := b.buildGroup(children, rel); inner != "" {
				fragment = "(" + inner + ")"
			}
		} else {
			fragment = b.buildClause(clause)
		}

		if fragment != "" {
			fragments = append(fragments, fragment)
		}
	}

	return strings.Join(fragments, " "+relation+" ")
}

// relationGroup interprets the raw descriptor value as a relation group.
// Returns ok=false when the value is absent or not a list/group.
func relationGroup(raw interface{}) (relation string, nodes []interface{}, ok bool) {
	if raw == nil {
		return "", nil, false
	}

	if clause, isMap := clauseMap(raw); isMap {
		if rel, children, isGroup := subGroup(clause); isGroup {
			return rel, children, true
		}
		return "", nil, false
	}

	if list, isList := valueList(raw); isList {
		return relationAnd, list, true
	}

	return "", nil, false
}

// subGroup reports whether a clause map is a nested relation group, and if
// so returns its normalized relation and children. A node is a group iff it
// carries a relation key.
func subGroup(clause map[string]interface{}) (relation string, children []interface{}, ok bool) {
	raw, has := clause["relation"]
	if !has {
		return "", nil, false
	}

	relation = strings.ToUpper(cast.ToString(raw))
	if relation != relationOr {
		relation = relationAnd
	}

	children, _ = valueList(clause["clauses"])
	return relation, children, true
}

func clauseMap(node interface{}) (map[string]interface{}, bool) {
	switch m := node.(type) {
	case map[string]interface{}:
		return m, true
	case Params:
		return m, true
	case map[interface{}]interface{}:
		return cast.ToStringMap(m), true
	}
	return nil, false
}
