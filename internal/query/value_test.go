package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue_Numerics(t *testing.T) {
	assert.Equal(t, "10", FormatValue("10"))
	assert.Equal(t, "10.5", FormatValue("10.5"))
	assert.Equal(t, "-3", FormatValue("-3"))
	assert.Equal(t, "42", FormatValue(42))
	assert.Equal(t, "1e3", FormatValue("1e3"))
}

func TestFormatValue_Strings(t *testing.T) {
	assert.Equal(t, "'red'", FormatValue("red"))
	assert.Equal(t, "''", FormatValue(""))
	// Mixed alphanumerics are not numerals.
	assert.Equal(t, "'10px'", FormatValue("10px"))
	assert.Equal(t, "'2024-01-01'", FormatValue("2024-01-01"))
}

func TestFormatValue_EscapesOnlySingleQuotes(t *testing.T) {
	assert.Equal(t, `'O\'Reilly'`, FormatValue("O'Reilly"))
	// No generic SQL-style escaping: backslashes and double quotes pass through.
	assert.Equal(t, `'a\b'`, FormatValue(`a\b`))
	assert.Equal(t, `'say "hi"'`, FormatValue(`say "hi"`))
}

func TestFormatValue_Arrays(t *testing.T) {
	assert.Equal(t, "['red', 'blue']", FormatValue([]interface{}{"red", "blue"}))
	assert.Equal(t, "[1, 2, 3]", FormatValue([]int{1, 2, 3}))
	assert.Equal(t, "['red', [1, 2]]", FormatValue([]interface{}{"red", []interface{}{1, 2}}))
	assert.Equal(t, "[]", FormatValue([]interface{}{}))
}

func TestFormatValues_JoinsWithoutBrackets(t *testing.T) {
	assert.Equal(t, "'a', 'b'", FormatValues([]interface{}{"a", "b"}))
	assert.Equal(t, "", FormatValues(nil))
}

func TestValueList(t *testing.T) {
	list, ok := valueList([]string{"a", "b"})
	assert.True(t, ok)
	assert.Len(t, list, 2)

	_, ok = valueList("scalar")
	assert.False(t, ok)

	_, ok = valueList(nil)
	assert.False(t, ok)

	// Byte slices are scalar payloads, not lists.
	_, ok = valueList([]byte("x"))
	assert.False(t, ok)
}
