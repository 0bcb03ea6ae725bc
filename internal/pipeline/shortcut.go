// shortcut.go - Stage 1.5 single-item image shortcut

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutrilens/nutrilens-api/internal/ai"
	"github.com/nutrilens/nutrilens-api/internal/common"
	"github.com/nutrilens/nutrilens-api/internal/processor"
)

// shortcutEligible reports whether the single-item shortcut applies: no text
// description was supplied and exactly one food was identified. Whitespace-only
// descriptions count as absent, matching the classifier.
func shortcutEligible(req Request, ident identification) bool {
	return strings.TrimSpace(req.Description) == "" && len(ident.Foods) == 1
}

// singleItemShortcut runs the Stage 1.5 precise single-item call, mirroring
// the bypass path's "exact nutrition" policy. Strictly an optimization: any
// failure falls through to Stage 2, never an error.
func (p *Pipeline) singleItemShortcut(ctx context.Context, req Request, ident identification, cls ClassificationResult, reqCtx *common.RequestContext) (Outcome[*Result], *common.TokenUsage) {
	food := ident.Foods[0]
	label := shortcutQuantityLabel(req, ident, food)

	text, tokens, err := p.complete(ctx, ai.ChatRequest{
		System: ai.NutritionSystemPrompt,
		Messages: []ai.ChatMessage{
			{Role: "user", Text: ai.ExactNutritionPrompt(food.Name, label)},
		},
		Temperature: 0.1,
	}, reqCtx)
	if err != nil {
		return Degraded[*Result](nil, fmt.Errorf("shortcut call failed: %w", err)), tokens
	}

	obj := ai.ExtractJSON(text)
	if obj == nil {
		return Degraded[*Result](nil, fmt.Errorf("shortcut response was unparsable")), tokens
	}

	nutrition := NutritionFromMap(obj)
	nutrition.Sanitize()

	summary := asString(obj["summary"])
	if summary == "" {
		summary = ident.Summary
	}

	result := &Result{
		Nutrition:      nutrition,
		Summary:        summary,
		Foods:          normalizeFoods(ident.Foods),
		Classification: cls,
	}

	return Success(result), tokens
}

// shortcutQuantityLabel re-derives the quantity label for the precise call.
// An explicit quantity in the summary, food name or description always beats
// the visually estimated weight.
func shortcutQuantityLabel(req Request, ident identification, food FoodItem) string {
	if q := processor.ExtractQuantityFromText(ident.Summary); q != "" {
		return q
	}
	if q := processor.ExtractQuantityFromText(food.Name); q != "" {
		return q
	}
	if q := processor.ExtractQuantityFromText(req.Description); q != "" {
		return q
	}

	if food.Unit == "piece" && food.Quantity != nil {
		return fmt.Sprintf("%.0f piece", *food.Quantity)
	}
	if food.WeightG != nil {
		return fmt.Sprintf("%.0f g", *food.WeightG)
	}
	return ""
}
