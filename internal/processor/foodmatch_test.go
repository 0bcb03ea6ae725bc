package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFoodName(t *testing.T) {
	assert.Equal(t, "fried rice", NormalizeFoodName("  Fried Rice  "))
	assert.Equal(t, "fried rice", NormalizeFoodName("fried rice, large portion"))
	assert.Equal(t, "apple", NormalizeFoodName("a piece of Apple"))
	assert.Equal(t, "tom yum soup", NormalizeFoodName("bowl of Tom-Yum soup!"))
	assert.Equal(t, "", NormalizeFoodName("   "))
}

func TestSameFood(t *testing.T) {
	assert.True(t, SameFood("Fried Rice", "fried rice, large portion"))
	assert.True(t, SameFood("grilled chicken", "griled chicken")) // one-letter typo
	assert.False(t, SameFood("apple", "orange"))
	assert.False(t, SameFood("chicken", ""))
	assert.False(t, SameFood("", ""))
}

func TestFoodNameSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, FoodNameSimilarity("rice", "rice"))
	assert.InDelta(t, 93.3, FoodNameSimilarity("grilled chicken", "griled chicken"), 0.1)
	assert.Less(t, FoodNameSimilarity("apple", "orange"), 50.0)
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("same", "same"))
	assert.Equal(t, 1, levenshteinDistance("rice", "ricee"))
	assert.Equal(t, 4, levenshteinDistance("", "rice"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}
