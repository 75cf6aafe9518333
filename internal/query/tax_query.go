package query

import (
	"fmt"

	"github.com/spf13/cast"
)

// taxonomyAttr is the document attribute holding the taxonomy name of an
// indexed term.
const taxonomyAttr = "terms.taxonomy"

// TaxQueryBuilder converts tax_query relation trees into filter fragments
// over the terms.* document attributes.
type TaxQueryBuilder struct {
	filterBuilder
}

func NewTaxQueryBuilder() *TaxQueryBuilder {
	b := &TaxQueryBuilder{}
	b.filterBuilder = filterBuilder{queryKey: "tax_query", buildClause: b.buildClause}
	return b
}

// buildClause renders one taxonomy leaf clause. Missing taxonomy name,
// disallowed operator or missing terms drop the clause.
func (b *TaxQueryBuilder) buildClause(clause map[string]interface{}) string {
	taxonomy := cast.ToString(clause["taxonomy"])
	if taxonomy == "" {
		return ""
	}

	field := ResolveTaxonomyField(cast.ToString(clause["field"]))
	fieldKey := "terms." + string(field)

	op := DefaultTaxonomyOperator
	if raw, ok := clause["operator"]; ok {
		op = ResolveOperator(cast.ToString(raw), DefaultTaxonomyOperator)
	}
	if !op.ValidForTaxonomy() {
		return ""
	}

	if op.TakesNoValue() {
		return fmt.Sprintf("%s %s '%s'", taxonomyAttr, op, taxonomy)
	}

	rawTerms, ok := clause["terms"]
	if !ok || rawTerms == nil {
		return ""
	}

	var terms string
	if list, isList := valueList(rawTerms); isList {
		terms = FormatValues(list)
	} else {
		terms = FormatValue(rawTerms)
	}
	if terms == "" {
		return ""
	}

	// NOT IN negates the whole conjunction. A per-element NOT on the term
	// field alone would also match documents carrying the term under a
	// different taxonomy, or no term at all.
	if op == OpNotIn || op == OpNotEquals {
		return fmt.Sprintf("NOT (%s = '%s' AND %s IN [%s])", taxonomyAttr, taxonomy, fieldKey, terms)
	}

	// WP_Query's AND operator means "has every term"; on a flattened term
	// list that is equality against the full set.
	if op == OpAnd {
		op = OpEquals
	}

	return fmt.Sprintf("(%s = '%s' AND %s %s [%s])", taxonomyAttr, taxonomy, fieldKey, op, terms)
}
