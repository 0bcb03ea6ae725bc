// aggregate.go - Stage 2 aggregate nutrition estimation

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutrilens/nutrilens-api/internal/ai"
	"github.com/nutrilens/nutrilens-api/internal/common"
)

// yieldFactors maps a cooking method to the cooked-to-raw mass ratio used to
// back-convert cooked weights before aggregate estimation. Methods not listed
// keep the reported weight.
var yieldFactors = map[string]float64{
	"grilled": 0.75,
	"boiled":  0.80,
	"baked":   0.78,
	"fried":   0.70,
	"steamed": 0.85,
	"roasted": 0.77,
}

// rawEquivalentGrams returns the raw-equivalent weight of a gram-based food.
// Count-based foods have no weight and return 0.
func rawEquivalentGrams(item FoodItem) float64 {
	if item.Unit == "piece" || item.WeightG == nil {
		return 0
	}

	weight := *item.WeightG
	if item.CookState == "cooked" {
		if factor, ok := yieldFactors[item.CookMethod]; ok {
			weight *= factor
		}
	}
	return weight
}

// buildFoodList renders the identified foods as a line-per-food block with
// raw-equivalent weights, plus the summed total weight.
func buildFoodList(req Request, foods []FoodItem) (string, float64) {
	var b strings.Builder
	var total float64

	for _, f := range foods {
		if f.Unit == "piece" {
			quantity := 1.0
			if f.Quantity != nil {
				quantity = *f.Quantity
			}
			fmt.Fprintf(&b, "- %.0f x %s\n", quantity, f.Name)
			continue
		}

		raw := rawEquivalentGrams(f)
		total += raw
		fmt.Fprintf(&b, "- %.0f g %s\n", raw, f.Name)
	}

	// Nothing identified: fall back to the description so Stage 2 still has
	// something to estimate from
	if b.Len() == 0 && req.Description != "" {
		fmt.Fprintf(&b, "- meal: %s\n", req.Description)
	}

	return b.String(), total
}

// aggregateNutrition runs Stage 2: one combined NutritionRecord for the whole
// food list. Policy: fail closed. There is no further fallback once
// aggregation fails, so an unparsable response is terminal for this path.
func (p *Pipeline) aggregateNutrition(ctx context.Context, req Request, foods []FoodItem, reqCtx *common.RequestContext) (Outcome[NutritionRecord], *common.TokenUsage) {
	foodList, totalWeight := buildFoodList(req, foods)
	if foodList == "" {
		return Fatal[NutritionRecord](fmt.Errorf("nothing to aggregate: no foods identified and no description")), nil
	}

	text, tokens, err := p.complete(ctx, ai.ChatRequest{
		System: ai.AggregateSystemPrompt,
		Messages: []ai.ChatMessage{
			{Role: "user", Text: ai.AggregatePrompt(foodList, totalWeight)},
		},
		Temperature: 0.1,
	}, reqCtx)
	if err != nil {
		return Fatal[NutritionRecord](fmt.Errorf("aggregate call failed: %w", err)), tokens
	}

	obj := ai.ExtractJSON(text)
	if obj == nil {
		return Fatal[NutritionRecord](fmt.Errorf("aggregate response was unparsable")), tokens
	}

	nutrition := NutritionFromMap(obj)
	nutrition.Sanitize()

	return Success(nutrition), tokens
}
