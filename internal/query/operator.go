package query

// Operator is a WordPress comparison operator as it appears in tax_query,
// meta_query and date_query clauses.
type Operator string

const (
	OpEquals         Operator = "="
	OpNotEquals      Operator = "!="
	OpGreaterThan    Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLessThan       Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpIn             Operator = "IN"
	OpNotIn          Operator = "NOT IN"
	OpBetween        Operator = "BETWEEN"
	OpNotBetween     Operator = "NOT BETWEEN"
	OpExists         Operator = "EXISTS"
	OpNotExists      Operator = "NOT EXISTS"
	OpLike           Operator = "LIKE"
	OpNotLike        Operator = "NOT LIKE"
	OpRegexp         Operator = "REGEXP"
	OpNotRegexp      Operator = "NOT REGEXP"
	OpRlike          Operator = "RLIKE"
	OpAnd            Operator = "AND"
)

// DefaultOperator is the fallback when a clause carries no compare key.
const DefaultOperator = OpEquals

// DefaultTaxonomyOperator is the fallback for tax_query clauses.
const DefaultTaxonomyOperator = OpIn

var knownOperators = map[Operator]bool{
	OpEquals: true, OpNotEquals: true,
	OpGreaterThan: true, OpGreaterOrEqual: true,
	OpLessThan: true, OpLessOrEqual: true,
	OpIn: true, OpNotIn: true,
	OpBetween: true, OpNotBetween: true,
	OpExists: true, OpNotExists: true,
	OpLike: true, OpNotLike: true,
	OpRegexp: true, OpNotRegexp: true,
	OpRlike: true, OpAnd: true,
}

var metaOperators = map[Operator]bool{
	OpEquals: true, OpNotEquals: true,
	OpGreaterThan: true, OpGreaterOrEqual: true,
	OpLessThan: true, OpLessOrEqual: true,
	OpLike: true, OpNotLike: true,
	OpIn: true, OpNotIn: true,
	OpBetween: true, OpNotBetween: true,
	OpExists: true, OpNotExists: true,
	OpRegexp: true, OpNotRegexp: true,
	OpRlike: true,
}

var taxonomyOperators = map[Operator]bool{
	OpIn: true, OpNotIn: true, OpAnd: true,
	OpExists: true, OpNotExists: true,
}

var dateOperators = map[Operator]bool{
	OpEquals: true, OpNotEquals: true,
	OpGreaterThan: true, OpGreaterOrEqual: true,
	OpLessThan: true, OpLessOrEqual: true,
	OpIn: true, OpNotIn: true,
	OpBetween: true, OpNotBetween: true,
}

// ResolveOperator returns raw as an Operator when it matches a known value,
// and def otherwise. Unrecognized operator strings are an expected caller
// error (stale UI state, URL parameters) and never abort the query.
func ResolveOperator(raw string, def Operator) Operator {
	if op := Operator(raw); knownOperators[op] {
		return op
	}
	return def
}

// ValidForMeta reports whether the operator is allowed in meta_query clauses.
func (o Operator) ValidForMeta() bool { return metaOperators[o] }

// ValidForTaxonomy reports whether the operator is allowed in tax_query
// clauses.
func (o Operator) ValidForTaxonomy() bool { return taxonomyOperators[o] }

// ValidForDate reports whether the operator is allowed in date_query clauses.
func (o Operator) ValidForDate() bool { return dateOperators[o] }

// TakesNoValue reports whether the operator is value-less (EXISTS family).
func (o Operator) TakesNoValue() bool { return o == OpExists || o == OpNotExists }

func (o Operator) String() string { return string(o) }
