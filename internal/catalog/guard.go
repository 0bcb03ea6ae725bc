// guard.go - Edibility guard for catalog products

package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// Verdict is the edibility decision for one product.
type Verdict struct {
	IsEdible bool   `json:"is_edible"`
	Reason   string `json:"reason"`
}

// Signals are the text signals the guard scores. All fields are optional;
// the guard never panics on empty input.
type Signals struct {
	Name            string
	Brand           string
	Categories      string
	CategoryTags    []string
	ServingSize     string
	IngredientsText string
	Labels          string
	PlausibleMacros bool
}

// SignalsFromProduct builds guard input from a catalog product.
func SignalsFromProduct(p *Product) Signals {
	if p == nil {
		return Signals{}
	}
	return Signals{
		Name:            p.Name,
		Brand:           p.Brand,
		Categories:      p.Categories,
		CategoryTags:    p.CategoryTags,
		ServingSize:     p.ServingSize,
		IngredientsText: p.IngredientsText,
		Labels:          p.Labels,
		PlausibleMacros: p.HasPlausibleMacros(),
	}
}

var (
	nutritionBarPattern = regexp.MustCompile(`(?i)\b(protein|energy|nutrition|granola|cereal)[\s-]*bars?\b`)
	spfPattern          = regexp.MustCompile(`(?i)\bspf[\s-]*\d+\b`)
)

var foodKeywords = []string{
	"food", "snack", "beverage", "drink", "juice", "milk", "yogurt", "yoghurt",
	"cheese", "chocolate", "bread", "cereal", "pasta", "rice", "sauce", "soup",
	"meat", "chicken", "fish", "fruit", "vegetable", "nut", "candy", "cookie",
	"biscuit", "tea", "coffee", "water", "soda", "supplement", "vitamin",
	"protein", "shake", "smoothie", "meal",
}

var cosmeticKeywords = []string{
	"shampoo", "conditioner", "soap", "detergent", "sunscreen", "lotion",
	"deodorant", "toothpaste", "mouthwash", "bleach", "cleaner", "polish",
	"cosmetic", "makeup", "mascara", "lipstick", "perfume", "fragrance",
	"moisturizer", "serum", "repellent", "disinfectant", "laundry",
}

var foodCategoryPrefixes = []string{
	"en:food", "en:beverages", "en:snacks", "en:dairies", "en:meals",
	"en:breakfasts", "en:desserts", "en:plant-based", "en:meats",
	"en:dietary-supplements", "en:protein-bars", "en:energy-bars",
	"en:cereals", "en:fruits", "en:vegetables",
}

var cosmeticCategoryPrefixes = []string{
	"en:cosmetics", "en:hygiene", "en:cleaning", "en:pet",
}

// rule is one scoring rule: a predicate over the combined signal text, a
// score delta, and a label used to build the reason string.
type rule struct {
	label string
	delta int
	match func(s Signals, text string) bool
}

// guardRules is the ordered rule table. Scores accumulate; the product is
// edible when the final score is positive. Override rules short-circuit.
var guardRules = []rule{
	{
		label: "food keyword",
		delta: 2,
		match: func(s Signals, text string) bool { return containsAny(text, foodKeywords) },
	},
	{
		label: "food category tag",
		delta: 3,
		match: func(s Signals, _ string) bool { return hasTagPrefix(s.CategoryTags, foodCategoryPrefixes) },
	},
	{
		label: "plausible macros",
		delta: 2,
		match: func(s Signals, _ string) bool { return s.PlausibleMacros },
	},
	{
		label: "serving size present",
		delta: 1,
		match: func(s Signals, _ string) bool { return strings.TrimSpace(s.ServingSize) != "" },
	},
	{
		label: "ingredients listed",
		delta: 1,
		match: func(s Signals, _ string) bool { return strings.TrimSpace(s.IngredientsText) != "" },
	},
	{
		label: "cosmetic/chemical/household keyword",
		delta: -4,
		match: func(s Signals, text string) bool { return containsAny(text, cosmeticKeywords) },
	},
	{
		label: "cosmetic/chemical/household keyword (SPF rating)",
		delta: -4,
		match: func(s Signals, text string) bool { return spfPattern.MatchString(text) },
	},
	{
		label: "non-food category tag",
		delta: -3,
		match: func(s Signals, _ string) bool { return hasTagPrefix(s.CategoryTags, cosmeticCategoryPrefixes) },
	},
}

// GuardEdible classifies a product as edible or not from its text signals.
// Returns a decision plus a human-readable reason; never panics.
func GuardEdible(s Signals) Verdict {
	text := combinedText(s)

	// Override: an explicit nutrition-bar phrase bypasses the cosmetic and
	// household rejection entirely
	if nutritionBarPattern.MatchString(text) {
		return Verdict{IsEdible: true, Reason: "recognized nutrition/protein/energy bar"}
	}

	score := 0
	var fired []string
	for _, r := range guardRules {
		if r.match(s, text) {
			score += r.delta
			fired = append(fired, r.label)
		}
	}

	if len(fired) == 0 {
		return Verdict{IsEdible: false, Reason: "no food signals detected"}
	}

	verdict := Verdict{IsEdible: score > 0}
	verdict.Reason = fmt.Sprintf("score %d from: %s", score, strings.Join(fired, ", "))
	return verdict
}

func combinedText(s Signals) string {
	parts := []string{s.Name, s.Brand, s.Categories, s.IngredientsText, s.Labels}
	parts = append(parts, s.CategoryTags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func hasTagPrefix(tags, prefixes []string) bool {
	for _, tag := range tags {
		t := strings.ToLower(tag)
		for _, p := range prefixes {
			if strings.HasPrefix(t, p) {
				return true
			}
		}
	}
	return false
}
