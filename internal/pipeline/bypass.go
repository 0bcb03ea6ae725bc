// bypass.go - Direct nutrition path for branded and single foods

package pipeline

import (
	"context"
	"fmt"

	"github.com/nutrilens/nutrilens-api/internal/ai"
	"github.com/nutrilens/nutrilens-api/internal/common"
	"github.com/nutrilens/nutrilens-api/internal/processor"
)

// bypassNutrition handles branded/single_food classifications with one
// "exact nutrition" call. Policy: fail closed. This call is the only source
// of the answer, so an unparsable response surfaces as an error instead of
// degrading - a deliberate asymmetry versus the mixed-meal path.
func (p *Pipeline) bypassNutrition(ctx context.Context, req Request, cls ClassificationResult, reqCtx *common.RequestContext) (Outcome[*Result], *common.TokenUsage) {
	text, tokens, err := p.complete(ctx, ai.ChatRequest{
		System: ai.NutritionSystemPrompt,
		Messages: []ai.ChatMessage{
			{Role: "user", Text: ai.ExactNutritionPrompt(cls.NormalizedName, cls.QuantityDescription)},
		},
		Temperature: 0.1,
	}, reqCtx)
	if err != nil {
		return Fatal[*Result](fmt.Errorf("bypass nutrition call failed: %w", err)), tokens
	}

	obj := ai.ExtractJSON(text)
	if obj == nil {
		return Fatal[*Result](fmt.Errorf("bypass nutrition response was unparsable")), tokens
	}

	nutrition := NutritionFromMap(obj)
	nutrition.Sanitize()

	summary := asString(obj["summary"])
	if summary == "" {
		summary = fmt.Sprintf("%s (%s)", cls.NormalizedName, cls.QuantityDescription)
	}

	result := &Result{
		Nutrition:      nutrition,
		Summary:        summary,
		Foods:          []FoodItem{bypassFoodItem(req, cls)},
		Classification: cls,
	}

	return Success(result), tokens
}

// bypassFoodItem builds the single normalized food item for the bypass path.
// Name candidates are tried in priority order, defaulting to "Food".
func bypassFoodItem(req Request, cls ClassificationResult) FoodItem {
	name := firstNonEmpty(cls.QuantityDescription, cls.NormalizedName, req.Description, "Food")

	quantity := 1.0
	if q := processor.ToNumber(cls.QuantityDescription, 0); q > 0 {
		quantity = q
	}

	return FoodItem{
		Name:       name,
		Unit:       "piece",
		Quantity:   &quantity,
		WeightG:    nil,
		Confidence: 0.9,
		CookState:  "unknown",
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
