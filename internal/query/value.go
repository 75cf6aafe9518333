package query

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// Matches plain decimal literals, optionally signed, optionally with an
// exponent. Anything else is quoted.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// FormatValue renders a value as a Meilisearch filter literal. Lists become
// bracketed comma-joined literals, numerics stay bare, everything else is
// single-quoted with single quotes backslash-escaped. No other characters
// are escaped: the engine's filter grammar is not SQL and generic escaping
// would diverge from its parser.
func FormatValue(value interface{}) string {
	if list, ok := valueList(value); ok {
		return "[" + FormatValues(list) + "]"
	}

	s := cast.ToString(value)
	if numericPattern.MatchString(s) {
		return s
	}

	return quoteString(s)
}

// quoteString renders a single-quoted string literal, escaping only the
// quote character itself.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// FormatValues renders each element with FormatValue and joins them with
// ", ". Used both for bracketed array literals and for the unbracketed
// lists some clause forms need.
func FormatValues(values []interface{}) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, ", ")
}

// valueList returns value as a []interface{} when it is any slice or array
// type. Strings and byte slices are scalars, not lists.
func valueList(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []byte:
		return nil, false
	case []interface{}:
		return v, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	list := make([]interface{}, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}
