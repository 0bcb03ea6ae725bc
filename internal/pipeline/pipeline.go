// pipeline.go - Multi-stage meal analysis orchestration

package pipeline

import (
	"context"
	"strings"

	"github.com/nutrilens/nutrilens-api/internal/ai"
	"github.com/nutrilens/nutrilens-api/internal/common"
)

// Pipeline runs the staged meal analysis against a chat provider. Stateless
// across requests; safe for concurrent use.
type Pipeline struct {
	provider ai.ChatProvider
	fallback ai.ChatProvider
}

// New creates a pipeline over the given provider.
func New(provider ai.ChatProvider) *Pipeline {
	return &Pipeline{provider: provider}
}

// NewWithFallback creates a pipeline that retries each call on a secondary
// provider when the primary fails.
func NewWithFallback(provider, fallback ai.ChatProvider) *Pipeline {
	return &Pipeline{provider: provider, fallback: fallback}
}

// complete sends one chat request, falling back to the secondary provider on
// primary failure.
func (p *Pipeline) complete(ctx context.Context, req ai.ChatRequest, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	text, tokens, err := p.provider.Complete(ctx, req, reqCtx)
	if err != nil && p.fallback != nil {
		reqCtx.LogWarning("provider %s failed (%v), trying %s", p.provider.GetProviderName(), err, p.fallback.GetProviderName())
		text, tokens, err = p.fallback.Complete(ctx, req, reqCtx)
	}
	return text, tokens, err
}

// Analyze runs the full pipeline for one request:
//
//	Stage 0 classify -> bypass (branded/single_food)
//	                 -> Stage 1 identify -> Stage 1.5 shortcut
//	                                     -> pizza override
//	                                     -> Stage 2 aggregate -> Stage 3 rewrite
//
// Branded and single-food requests never reach Stages 1-3.
func (p *Pipeline) Analyze(ctx context.Context, req Request, reqCtx *common.RequestContext) (*Result, error) {
	reqCtx.StartStep("classify_meal")
	clsOut, tokens := p.classify(ctx, req, reqCtx)
	reqCtx.EndStep(clsOut.statusLabel(), tokens, clsOut.Err)
	cls := clsOut.Value

	if cls.Kind == KindBranded || cls.Kind == KindSingleFood {
		reqCtx.StartStep("bypass_nutrition")
		out, tokens := p.bypassNutrition(ctx, req, cls, reqCtx)
		reqCtx.EndStep(out.statusLabel(), tokens, out.Err)
		if out.Failed() {
			return nil, out.Err
		}
		return out.Value, nil
	}

	return p.analyzeMixedMeal(ctx, req, cls, reqCtx)
}

// analyzeMixedMeal runs Stages 1 through 3 for mixed meals.
func (p *Pipeline) analyzeMixedMeal(ctx context.Context, req Request, cls ClassificationResult, reqCtx *common.RequestContext) (*Result, error) {
	reqCtx.StartStep("identify_foods")
	identOut, tokens := p.identifyFoods(ctx, req, reqCtx)
	reqCtx.EndStep(identOut.statusLabel(), tokens, identOut.Err)
	ident := identOut.Value

	if shortcutEligible(req, ident) {
		reqCtx.StartStep("single_item_shortcut")
		out, tokens := p.singleItemShortcut(ctx, req, ident, cls, reqCtx)
		reqCtx.EndStep(out.statusLabel(), tokens, out.Err)
		if out.Status == StatusSuccess && out.Value != nil {
			return out.Value, nil
		}
		// shortcut is an optimization only; fall through to Stage 2
	}

	if pizzaDetected(req, ident) {
		reqCtx.StartStep("pizza_override")
		out, tokens := p.pizzaOverride(ctx, req, ident, cls, reqCtx)
		reqCtx.EndStep(out.statusLabel(), tokens, out.Err)
		if out.Status == StatusSuccess && out.Value != nil {
			return out.Value, nil
		}
		// override is best-effort; fall through to Stage 2
	}

	reqCtx.StartStep("aggregate_nutrition")
	aggOut, tokens := p.aggregateNutrition(ctx, req, ident.Foods, reqCtx)
	reqCtx.EndStep(aggOut.statusLabel(), tokens, aggOut.Err)
	if aggOut.Failed() {
		return nil, aggOut.Err
	}

	reqCtx.StartStep("rewrite_summary")
	sumOut, tokens := p.rewriteSummary(ctx, ident.Summary, req.Language, reqCtx)
	reqCtx.EndStep(sumOut.statusLabel(), tokens, sumOut.Err)

	return &Result{
		Nutrition:      aggOut.Value,
		Summary:        sumOut.Value,
		Foods:          normalizeFoods(ident.Foods),
		Classification: cls,
	}, nil
}

// boneInMarkers are name fragments that indicate a bone-in or skin-on cut.
var boneInMarkers = []string{"wing", "drumstick", "thigh", "leg", "bone", "skin"}

// normalizeFoods applies the deterministic renaming rule: a food named
// "chicken" without "breast" and not described as bone-in/skin-on becomes
// "chicken breast" with a confidence boost (the fitness-app default cut).
func normalizeFoods(foods []FoodItem) []FoodItem {
	normalized := make([]FoodItem, len(foods))
	copy(normalized, foods)

	for i := range normalized {
		name := strings.ToLower(normalized[i].Name)
		if !strings.Contains(name, "chicken") || strings.Contains(name, "breast") {
			continue
		}

		boneIn := false
		for _, marker := range boneInMarkers {
			if strings.Contains(name, marker) {
				boneIn = true
				break
			}
		}
		if boneIn {
			continue
		}

		normalized[i].Name = "chicken breast"
		normalized[i].Confidence = clamp01(normalized[i].Confidence + 0.1)
	}

	return normalized
}
