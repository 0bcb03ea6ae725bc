// foodmatch.go - Fuzzy matching for food names

package processor

import (
	"math"
	"regexp"
	"strings"
)

// similarityThreshold is the minimum similarity (percent) for two food names
// to be considered the same food.
const similarityThreshold = 85.0

var (
	nonAlphanumPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	multiSpacePattern  = regexp.MustCompile(`\s+`)
)

// NormalizeFoodName lowercases a food name and strips portion words,
// punctuation and duplicate whitespace so variants of the same food compare
// equal ("Fried Rice " vs "fried rice, large portion").
func NormalizeFoodName(name string) string {
	name = strings.ToLower(name)

	fillers := []string{
		"large portion", "small portion", "portion of", "a piece of",
		"serving of", "plate of", "bowl of", "some ",
	}
	for _, filler := range fillers {
		name = strings.Replace(name, filler, "", -1)
	}

	name = nonAlphanumPattern.ReplaceAllString(name, " ")
	name = multiSpacePattern.ReplaceAllString(name, " ")

	return strings.TrimSpace(name)
}

// SameFood reports whether two food names refer to the same food, via
// normalized exact match or Levenshtein similarity above the threshold.
func SameFood(name1, name2 string) bool {
	n1 := NormalizeFoodName(name1)
	n2 := NormalizeFoodName(name2)
	if n1 == "" || n2 == "" {
		return false
	}
	return FoodNameSimilarity(n1, n2) >= similarityThreshold
}

// FoodNameSimilarity returns the similarity of two normalized names as a
// percentage in [0, 100].
func FoodNameSimilarity(name1, name2 string) float64 {
	if name1 == name2 {
		return 100.0
	}

	distance := levenshteinDistance(name1, name2)
	maxLen := float64(maxInt(len(name1), len(name2)))
	if maxLen == 0 {
		return 0.0
	}

	return math.Max(0, (1.0-(float64(distance)/maxLen))*100.0)
}

func levenshteinDistance(s1, s2 string) int {
	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len1][len2]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
