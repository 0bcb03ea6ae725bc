// identify.go - Stage 1 food identification

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutrilens/nutrilens-api/internal/ai"
	"github.com/nutrilens/nutrilens-api/internal/common"
	"github.com/nutrilens/nutrilens-api/internal/processor"
)

// identification is the Stage 1 output.
type identification struct {
	Foods   []FoodItem
	Summary string
}

// identifyFoods runs Stage 1: identify every distinct food from the text
// and/or photo. Policy: degrade to an empty identification so the pipeline
// continues instead of erroring.
func (p *Pipeline) identifyFoods(ctx context.Context, req Request, reqCtx *common.RequestContext) (Outcome[identification], *common.TokenUsage) {
	empty := identification{Foods: []FoodItem{}, Summary: ""}

	text, tokens, err := p.complete(ctx, ai.ChatRequest{
		System: ai.IdentifySystemPrompt,
		Messages: []ai.ChatMessage{
			{
				Role:     "user",
				Text:     ai.IdentifyFoodsPrompt(req.Description, req.Language),
				ImageURL: req.PhotoURL,
			},
		},
		Temperature: 0.2,
	}, reqCtx)
	if err != nil {
		return Degraded(empty, fmt.Errorf("identification call failed: %w", err)), tokens
	}

	obj := ai.ExtractJSON(text)
	if obj == nil {
		return Degraded(empty, fmt.Errorf("identification response was unparsable")), tokens
	}

	ident := identification{
		Foods:   mergeDuplicateFoods(parseFoodList(obj["foods"])),
		Summary: asString(obj["summary"]),
	}

	return Success(ident), tokens
}

// mergeDuplicateFoods collapses entries the model listed twice under slightly
// different names ("fried rice" / "Fried rice, large portion"). Piece items
// merge by summing quantities, gram items by summing weights; the merged item
// keeps the higher confidence. Items with mismatched units stay separate.
func mergeDuplicateFoods(foods []FoodItem) []FoodItem {
	merged := make([]FoodItem, 0, len(foods))

	for _, item := range foods {
		item = cloneFoodItem(item)
		matched := false
		for i := range merged {
			if merged[i].Unit != item.Unit || !processor.SameFood(merged[i].Name, item.Name) {
				continue
			}
			if item.Unit == "piece" && merged[i].Quantity != nil && item.Quantity != nil {
				*merged[i].Quantity += *item.Quantity
			} else if merged[i].WeightG != nil && item.WeightG != nil {
				*merged[i].WeightG += *item.WeightG
			}
			if item.Confidence > merged[i].Confidence {
				merged[i].Confidence = item.Confidence
			}
			if merged[i].CookState == "unknown" && item.CookState != "unknown" {
				merged[i].CookState = item.CookState
				merged[i].CookMethod = item.CookMethod
			}
			matched = true
			break
		}
		if !matched {
			merged = append(merged, item)
		}
	}

	return merged
}

// cloneFoodItem copies an item with fresh Quantity/WeightG pointers, so
// merging never writes through into the caller's slice.
func cloneFoodItem(item FoodItem) FoodItem {
	if item.Quantity != nil {
		q := *item.Quantity
		item.Quantity = &q
	}
	if item.WeightG != nil {
		w := *item.WeightG
		item.WeightG = &w
	}
	return item
}

// parseFoodList decodes and normalizes the model's food array, dropping
// entries without a name.
func parseFoodList(v interface{}) []FoodItem {
	raw, ok := v.([]interface{})
	if !ok {
		return []FoodItem{}
	}

	foods := make([]FoodItem, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		item, ok := parseFoodItem(m)
		if !ok {
			continue
		}
		foods = append(foods, item)
	}
	return foods
}

// parseFoodItem normalizes one decoded food object, enforcing the unit
// invariant: weight_g is nil exactly when unit is "piece".
func parseFoodItem(m map[string]interface{}) (FoodItem, bool) {
	name := strings.TrimSpace(asString(m["name"]))
	if name == "" {
		return FoodItem{}, false
	}

	item := FoodItem{
		Name:       name,
		Unit:       normalizeUnit(asString(m["unit"])),
		Confidence: clamp01(processor.ToNumber(m["confidence"], 0.5)),
		CookState:  normalizeCookState(asString(m["cook_state"])),
		CookMethod: strings.ToLower(asString(m["cook_method"])),
	}

	if item.Unit == "piece" {
		quantity := processor.ToNumber(m["quantity"], 1)
		if quantity <= 0 {
			quantity = 1
		}
		item.Quantity = &quantity
		item.WeightG = nil
	} else {
		weight := processor.ToNumber(m["weight_g"], 0)
		if weight <= 0 {
			weight = 100 // plausible default portion when the model omits a weight
		}
		item.WeightG = &weight
		item.Quantity = nil
	}

	return item, true
}

func normalizeUnit(unit string) string {
	switch strings.ToLower(unit) {
	case "piece", "pieces", "pcs", "count":
		return "piece"
	default:
		return "gram"
	}
}

func normalizeCookState(state string) string {
	switch strings.ToLower(state) {
	case "raw":
		return "raw"
	case "cooked":
		return "cooked"
	default:
		return "unknown"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
