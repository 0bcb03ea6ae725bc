// classify.go - Stage 0 meal classification

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutrilens/nutrilens-api/internal/ai"
	"github.com/nutrilens/nutrilens-api/internal/common"
)

// classify runs the Stage 0 three-way classification. Policy: fail open.
// Any provider or parse failure degrades to mixed_meal with the original
// text, so the pipeline stays available when the classifier is not.
func (p *Pipeline) classify(ctx context.Context, req Request, reqCtx *common.RequestContext) (Outcome[ClassificationResult], *common.TokenUsage) {
	fallback := ClassificationResult{
		Kind:                KindMixedMeal,
		NormalizedName:      req.Description,
		QuantityDescription: req.Description,
	}

	// Photo-only requests have no text to classify
	if strings.TrimSpace(req.Description) == "" {
		return Success(ClassificationResult{Kind: KindMixedMeal}), nil
	}

	text, tokens, err := p.complete(ctx, ai.ChatRequest{
		System: ai.ClassifySystemPrompt,
		Messages: []ai.ChatMessage{
			{Role: "user", Text: ai.ClassifyMealPrompt(req.Description)},
		},
		Temperature: 0.1,
	}, reqCtx)
	if err != nil {
		return Degraded(fallback, fmt.Errorf("classifier call failed: %w", err)), tokens
	}

	obj := ai.ExtractJSON(text)
	if obj == nil {
		return Degraded(fallback, fmt.Errorf("classifier returned unparsable output")), tokens
	}

	result := ClassificationResult{
		Kind:                asString(obj["kind"]),
		NormalizedName:      asString(obj["normalized_name"]),
		QuantityDescription: asString(obj["quantity_description"]),
	}

	switch result.Kind {
	case KindBranded, KindSingleFood, KindMixedMeal:
	default:
		return Degraded(fallback, fmt.Errorf("classifier returned unknown kind %q", result.Kind)), tokens
	}

	if result.NormalizedName == "" {
		result.NormalizedName = req.Description
	}

	return Success(result), tokens
}

// asString extracts a string field from a decoded JSON object, treating
// null and non-strings as empty.
func asString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
