package query

import (
	"fmt"

	"github.com/spf13/cast"
)

// DateQueryBuilder converts date_query relation trees into filter fragments
// over the date.* document attributes (date.post_date, date.post_modified,
// plus the decomposed columns the indexer emits).
type DateQueryBuilder struct {
	filterBuilder
}

func NewDateQueryBuilder() *DateQueryBuilder {
	b := &DateQueryBuilder{}
	b.filterBuilder = filterBuilder{queryKey: "date_query", buildClause: b.buildClause}
	return b
}

func (b *DateQueryBuilder) buildClause(clause map[string]interface{}) string {
	column := cast.ToString(clause["column"])
	value, hasValue := clause["value"]
	if column == "" || !hasValue || value == nil {
		return ""
	}

	attr := "date." + column

	op := DefaultOperator
	if raw, ok := clause["compare"]; ok {
		op = ResolveOperator(cast.ToString(raw), DefaultOperator)
	}
	if !op.ValidForDate() {
		return ""
	}

	list, isList := valueList(value)

	switch op {
	case OpEquals, OpNotEquals,
		OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual:
		if isList {
			return fmt.Sprintf("%s %s %s", attr, op, FormatValues(list))
		}
		return fmt.Sprintf("%s %s %s", attr, op, FormatValue(value))

	case OpIn, OpNotIn:
		if !isList {
			return ""
		}
		return fmt.Sprintf("%s %s [%s]", attr, op, FormatValues(list))

	case OpBetween:
		if !isList || len(list) != 2 {
			return ""
		}
		return fmt.Sprintf("(%s >= %s AND %s <= %s)",
			attr, FormatValue(list[0]), attr, FormatValue(list[1]))

	case OpNotBetween:
		if !isList || len(list) != 2 {
			return ""
		}
		return fmt.Sprintf("(%s < %s OR %s > %s)",
			attr, FormatValue(list[0]), attr, FormatValue(list[1]))
	}

	return ""
}
