package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONFromFencedBlock(t *testing.T) {
	text := "Here is the result:\n```json\n{\"calories\": 156, \"protein\": 12.6}\n```\nHope that helps!"

	obj := ExtractJSON(text)
	require.NotNil(t, obj)
	assert.Equal(t, 156.0, obj["calories"])
	assert.Equal(t, 12.6, obj["protein"])
}

func TestExtractJSONFromUntaggedFence(t *testing.T) {
	obj := ExtractJSON("```\n{\"kind\": \"branded\"}\n```")
	require.NotNil(t, obj)
	assert.Equal(t, "branded", obj["kind"])
}

func TestExtractJSONFromBareObjectInProse(t *testing.T) {
	text := `The analysis is {"kind": "mixed_meal", "normalized_name": "pad thai"} as requested.`

	obj := ExtractJSON(text)
	require.NotNil(t, obj)
	assert.Equal(t, "mixed_meal", obj["kind"])
}

func TestExtractJSONIgnoresBracesInsideStrings(t *testing.T) {
	text := `{"summary": "a dish {with} braces", "calories": 100}`

	obj := ExtractJSON(text)
	require.NotNil(t, obj)
	assert.Equal(t, "a dish {with} braces", obj["summary"])
}

func TestExtractJSONRepairsLiteralNewlines(t *testing.T) {
	// Models sometimes emit raw newlines inside string values
	text := "{\"summary\": \"line one\nline two\"}"

	obj := ExtractJSON(text)
	require.NotNil(t, obj)
	assert.Equal(t, "line one\nline two", obj["summary"])
}

func TestExtractJSONReturnsNilOnGarbage(t *testing.T) {
	assert.Nil(t, ExtractJSON(""))
	assert.Nil(t, ExtractJSON("no json here at all"))
	assert.Nil(t, ExtractJSON("{truncated"))
	assert.Nil(t, ExtractJSON("[1, 2, 3]")) // arrays are not objects
}

func TestExtractJSONIsIdempotent(t *testing.T) {
	// Re-extracting from the serialized result must yield the same object
	text := "Sure! Here you go:\n```json\n{\"calories\": 520, \"summary\": \"Pad thai.\", \"foods\": [{\"name\": \"pad thai\"}]}\n```"

	first := ExtractJSON(text)
	require.NotNil(t, first)

	serialized, err := json.Marshal(first)
	require.NoError(t, err)

	second := ExtractJSON(string(serialized))
	assert.Equal(t, first, second)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, "plain text", StripCodeFences("plain text"))
}
