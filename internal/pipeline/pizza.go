// pizza.go - Dedicated per-slice pizza estimation path

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutrilens/nutrilens-api/internal/ai"
	"github.com/nutrilens/nutrilens-api/internal/common"
	"github.com/nutrilens/nutrilens-api/internal/processor"
)

// pizzaDetected reports whether the combined request text mentions pizza.
// Checks description, Stage 1 summary and every identified food name,
// case-insensitively.
func pizzaDetected(req Request, ident identification) bool {
	var b strings.Builder
	b.WriteString(req.Description)
	b.WriteString(" ")
	b.WriteString(ident.Summary)
	for _, f := range ident.Foods {
		b.WriteString(" ")
		b.WriteString(f.Name)
	}
	return strings.Contains(strings.ToLower(b.String()), "pizza")
}

// pizzaOverride runs the dedicated per-slice estimation. Best-effort: on any
// failure execution falls through to the ordinary Stage 2 path, so this
// override is never a single point of failure.
func (p *Pipeline) pizzaOverride(ctx context.Context, req Request, ident identification, cls ClassificationResult, reqCtx *common.RequestContext) (Outcome[*Result], *common.TokenUsage) {
	text, tokens, err := p.complete(ctx, ai.ChatRequest{
		System: ai.PizzaSystemPrompt,
		Messages: []ai.ChatMessage{
			{Role: "user", Text: ai.PizzaPrompt(req.Description, ident.Summary)},
		},
		Temperature: 0.2,
	}, reqCtx)
	if err != nil {
		return Degraded[*Result](nil, fmt.Errorf("pizza call failed: %w", err)), tokens
	}

	obj := ai.ExtractJSON(text)
	if obj == nil {
		return Degraded[*Result](nil, fmt.Errorf("pizza response was unparsable")), tokens
	}

	nutrition := NutritionFromMap(obj)
	nutrition.Sanitize()
	if nutrition.Calories <= 0 {
		return Degraded[*Result](nil, fmt.Errorf("pizza response had no calories")), tokens
	}

	sliceCount := processor.ToNumber(obj["slice_count"], 1)
	if sliceCount < 1 {
		sliceCount = 1
	}

	name := "pizza"
	if crust := asString(obj["crust_type"]); crust != "" {
		name = crust + " crust pizza"
	}

	summary := asString(obj["summary"])
	if summary == "" {
		summary = ident.Summary
	}

	result := &Result{
		Nutrition: nutrition,
		Summary:   summary,
		Foods: []FoodItem{{
			Name:       name,
			Unit:       "piece",
			Quantity:   &sliceCount,
			WeightG:    nil,
			Confidence: 0.8,
			CookState:  "cooked",
			CookMethod: "baked",
		}},
		Classification: cls,
	}

	return Success(result), tokens
}
