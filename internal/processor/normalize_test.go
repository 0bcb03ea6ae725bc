package processor

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeNumIsTotal(t *testing.T) {
	// No input may panic or produce a non-finite number
	inputs := []interface{}{
		nil, true, false, "abc", "", map[string]interface{}{"a": 1},
		[]interface{}{1, 2}, math.NaN(), math.Inf(1), math.Inf(-1),
	}
	for _, in := range inputs {
		assert.Equal(t, 0.0, SafeNum(in), "input %v", in)
	}
}

func TestSafeNumRoundsToInteger(t *testing.T) {
	assert.Equal(t, 13.0, SafeNum("12.7"))
	assert.Equal(t, 12.0, SafeNum(12.4))
	assert.Equal(t, 156.0, SafeNum(156))
}

func TestToNumberCoercions(t *testing.T) {
	assert.Equal(t, 1.5, ToNumber("1,5", 0))
	assert.Equal(t, 250.0, ToNumber("~250", 0))
	assert.Equal(t, 120.0, ToNumber("120 g", 0))
	assert.Equal(t, 2.0, ToNumber("2 eggs", 0))
	assert.Equal(t, 3.5, ToNumber(json.Number("3.5"), 0))
	assert.Equal(t, 4.0, ToNumber(4, 0))
	assert.Equal(t, 42.0, ToNumber(int64(42), 0))
	assert.Equal(t, 7.0, ToNumber("no number", 7))
	assert.Equal(t, 7.0, ToNumber(nil, 7))
	assert.Equal(t, -12.5, ToNumber("-12.5", 0))
}

func TestExtractQuantityFromText(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"a 330 ml can of soda", "330 ml"},
		{"2 slices of pizza", "2 slices"},
		{"about 1.5 cups rice", "1.5 cups"},
		{"1,5 l sparkling water", "1.5 l"},
		{"500 g chicken breast", "500 g"},
		{"2 eggs with toast", "2 eggs"},
		{"3 scoops whey", "3 scoops"},
		{"just a salad", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExtractQuantityFromText(c.text), "text %q", c.text)
	}
}

func TestExtractQuantityPrefersFirstMatch(t *testing.T) {
	// Volume before mass: "330 ml" must win over the later "250 g"
	assert.Equal(t, "330 ml", ExtractQuantityFromText("330 ml smoothie with 250 g fruit"))
}
