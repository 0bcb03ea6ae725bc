package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilens/nutrilens-api/internal/ai"
	"github.com/nutrilens/nutrilens-api/internal/common"
)

// fakeProvider scripts responses per system prompt and records every call.
type fakeProvider struct {
	responses map[string]string // system prompt -> response text
	errors    map[string]error  // system prompt -> forced error
	calls     []string
}

func (f *fakeProvider) Complete(_ context.Context, req ai.ChatRequest, _ *common.RequestContext) (string, *common.TokenUsage, error) {
	f.calls = append(f.calls, req.System)

	if err, ok := f.errors[req.System]; ok {
		return "", nil, err
	}
	if text, ok := f.responses[req.System]; ok {
		return text, &common.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, nil
	}
	return "", nil, fmt.Errorf("unexpected call with system prompt %q", req.System)
}

func (f *fakeProvider) GetProviderName() string { return "fake" }

func (f *fakeProvider) callCount(system string) int {
	n := 0
	for _, s := range f.calls {
		if s == system {
			n++
		}
	}
	return n
}

func newTestContext() *common.RequestContext {
	return common.NewRequestContext("test-user")
}

func ptr(v float64) *float64 { return &v }

func TestBypassForSingleFood(t *testing.T) {
	fake := &fakeProvider{
		responses: map[string]string{
			ai.ClassifySystemPrompt:  `{"kind": "single_food", "normalized_name": "eggs", "quantity_description": "2 eggs"}`,
			ai.NutritionSystemPrompt: `{"calories": 156, "protein": 12.6, "carbs": 1.1, "fat": 10.6, "summary": "Two large eggs."}`,
		},
	}

	result, err := New(fake).Analyze(context.Background(), Request{Description: "2 eggs"}, newTestContext())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 156.0, result.Nutrition.Calories)
	assert.Equal(t, 13.0, result.Nutrition.Protein) // rounded
	assert.Equal(t, "Two large eggs.", result.Summary)
	assert.Equal(t, KindSingleFood, result.Classification.Kind)

	require.Len(t, result.Foods, 1)
	assert.Equal(t, "2 eggs", result.Foods[0].Name)
	assert.Equal(t, "piece", result.Foods[0].Unit)
	require.NotNil(t, result.Foods[0].Quantity)
	assert.Equal(t, 2.0, *result.Foods[0].Quantity)
	assert.Nil(t, result.Foods[0].WeightG)

	// The mixed-meal stages must never run on the bypass path
	assert.Zero(t, fake.callCount(ai.IdentifySystemPrompt))
	assert.Zero(t, fake.callCount(ai.AggregateSystemPrompt))
	assert.Zero(t, fake.callCount(ai.RewriteSystemPrompt))
}

func TestBypassFailsClosed(t *testing.T) {
	fake := &fakeProvider{
		responses: map[string]string{
			ai.ClassifySystemPrompt:  `{"kind": "branded", "normalized_name": "Premier Protein Shake"}`,
			ai.NutritionSystemPrompt: "sorry, I cannot help with that",
		},
	}

	result, err := New(fake).Analyze(context.Background(), Request{Description: "premier protein shake"}, newTestContext())
	assert.Error(t, err)
	assert.Nil(t, result)
	// No silent fall-through into the mixed-meal path
	assert.Zero(t, fake.callCount(ai.IdentifySystemPrompt))
}

func TestClassifierFailsOpenToMixedMeal(t *testing.T) {
	fake := &fakeProvider{
		responses: map[string]string{
			ai.ClassifySystemPrompt:  "not json at all",
			ai.IdentifySystemPrompt:  `{"foods": [{"name": "pad thai", "unit": "gram", "weight_g": 350, "confidence": 0.8, "cook_state": "cooked", "cook_method": "fried"}], "summary": "Pad thai."}`,
			ai.AggregateSystemPrompt: `{"calories": 520, "protein": 20, "carbs": 60, "fat": 22}`,
			ai.RewriteSystemPrompt:   "A hearty plate of pad thai!",
		},
	}

	result, err := New(fake).Analyze(context.Background(), Request{Description: "pad thai from the market"}, newTestContext())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, KindMixedMeal, result.Classification.Kind)
	assert.Equal(t, 520.0, result.Nutrition.Calories)
	assert.Equal(t, 1, fake.callCount(ai.IdentifySystemPrompt))
}

func TestPizzaOverrideFailureFallsThroughToAggregate(t *testing.T) {
	fake := &fakeProvider{
		responses: map[string]string{
			ai.ClassifySystemPrompt:  `{"kind": "mixed_meal", "normalized_name": "pepperoni pizza"}`,
			ai.IdentifySystemPrompt:  `{"foods": [{"name": "pepperoni pizza", "unit": "piece", "quantity": 3, "confidence": 0.9, "cook_state": "cooked", "cook_method": "baked"}], "summary": "Three slices of pepperoni pizza."}`,
			ai.AggregateSystemPrompt: `{"calories": 840, "protein": 36, "carbs": 99, "fat": 33}`,
			ai.RewriteSystemPrompt:   "Three cheesy slices, enjoy!",
		},
		errors: map[string]error{
			ai.PizzaSystemPrompt: fmt.Errorf("model overloaded"),
		},
	}

	result, err := New(fake).Analyze(context.Background(), Request{Description: "3 slices of pepperoni pizza"}, newTestContext())
	require.NoError(t, err)
	require.NotNil(t, result)

	// The override was attempted, failed, and Stage 2 still produced a record
	assert.Equal(t, 1, fake.callCount(ai.PizzaSystemPrompt))
	assert.Equal(t, 1, fake.callCount(ai.AggregateSystemPrompt))
	assert.Equal(t, 840.0, result.Nutrition.Calories)
}

func TestPizzaOverrideSuccessSkipsAggregate(t *testing.T) {
	fake := &fakeProvider{
		responses: map[string]string{
			ai.ClassifySystemPrompt: `{"kind": "mixed_meal", "normalized_name": "pizza"}`,
			ai.IdentifySystemPrompt: `{"foods": [{"name": "pizza", "unit": "piece", "quantity": 2, "confidence": 0.9, "cook_state": "cooked", "cook_method": "baked"}], "summary": "Two slices of pizza."}`,
			ai.PizzaSystemPrompt:    `{"slice_count": 2, "crust_type": "thin", "calories": 440, "protein": 18, "carbs": 50, "fat": 18, "summary": "Two thin-crust slices."}`,
		},
	}

	result, err := New(fake).Analyze(context.Background(), Request{Description: "2 slices of pizza"}, newTestContext())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Zero(t, fake.callCount(ai.AggregateSystemPrompt))
	assert.Equal(t, 440.0, result.Nutrition.Calories)
	require.Len(t, result.Foods, 1)
	assert.Equal(t, "thin crust pizza", result.Foods[0].Name)
	require.NotNil(t, result.Foods[0].Quantity)
	assert.Equal(t, 2.0, *result.Foods[0].Quantity)
	assert.Nil(t, result.Foods[0].WeightG)
}

func TestRewriteFailureKeepsOriginalSummary(t *testing.T) {
	fake := &fakeProvider{
		responses: map[string]string{
			ai.ClassifySystemPrompt:  `{"kind": "mixed_meal", "normalized_name": "rice and curry"}`,
			ai.IdentifySystemPrompt:  `{"foods": [{"name": "rice", "unit": "gram", "weight_g": 200, "confidence": 0.9, "cook_state": "cooked", "cook_method": "boiled"}], "summary": "Rice with curry."}`,
			ai.AggregateSystemPrompt: `{"calories": 300, "protein": 6, "carbs": 65, "fat": 1}`,
		},
		errors: map[string]error{
			ai.RewriteSystemPrompt: fmt.Errorf("model overloaded"),
		},
	}

	result, err := New(fake).Analyze(context.Background(), Request{Description: "rice and curry"}, newTestContext())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Rice with curry.", result.Summary)
}

func TestAggregateFailureIsFatal(t *testing.T) {
	fake := &fakeProvider{
		responses: map[string]string{
			ai.ClassifySystemPrompt: `{"kind": "mixed_meal", "normalized_name": "mystery meal"}`,
			ai.IdentifySystemPrompt: `{"foods": [{"name": "stew", "unit": "gram", "weight_g": 300, "confidence": 0.5, "cook_state": "cooked", "cook_method": "boiled"}], "summary": "A stew."}`,
		},
		errors: map[string]error{
			ai.AggregateSystemPrompt: fmt.Errorf("model overloaded"),
		},
	}

	result, err := New(fake).Analyze(context.Background(), Request{Description: "mystery meal"}, newTestContext())
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestPhotoOnlySingleItemShortcut(t *testing.T) {
	fake := &fakeProvider{
		responses: map[string]string{
			ai.IdentifySystemPrompt:  `{"foods": [{"name": "banana", "unit": "piece", "quantity": 1, "confidence": 0.9, "cook_state": "raw"}], "summary": "One banana."}`,
			ai.NutritionSystemPrompt: `{"calories": 105, "protein": 1.3, "carbs": 27, "fat": 0.4, "summary": "One medium banana."}`,
		},
	}

	result, err := New(fake).Analyze(context.Background(), Request{PhotoURL: "https://example.com/banana.jpg"}, newTestContext())
	require.NoError(t, err)
	require.NotNil(t, result)

	// Photo-only requests skip the classifier call entirely
	assert.Zero(t, fake.callCount(ai.ClassifySystemPrompt))
	assert.Equal(t, 105.0, result.Nutrition.Calories)
	assert.Zero(t, fake.callCount(ai.AggregateSystemPrompt))
}

func TestShortcutFailureFallsThroughToAggregate(t *testing.T) {
	fake := &fakeProvider{
		responses: map[string]string{
			ai.IdentifySystemPrompt:  `{"foods": [{"name": "banana", "unit": "piece", "quantity": 1, "confidence": 0.9, "cook_state": "raw"}], "summary": "One banana."}`,
			ai.NutritionSystemPrompt: "unparsable",
			ai.AggregateSystemPrompt: `{"calories": 110, "protein": 1, "carbs": 28, "fat": 0}`,
			ai.RewriteSystemPrompt:   "One lovely banana.",
		},
	}

	result, err := New(fake).Analyze(context.Background(), Request{PhotoURL: "https://example.com/banana.jpg"}, newTestContext())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 110.0, result.Nutrition.Calories)
	assert.Equal(t, 1, fake.callCount(ai.AggregateSystemPrompt))
}

func TestFallbackProviderUsedOnPrimaryFailure(t *testing.T) {
	primary := &fakeProvider{
		errors: map[string]error{
			ai.ClassifySystemPrompt:  fmt.Errorf("primary down"),
			ai.NutritionSystemPrompt: fmt.Errorf("primary down"),
		},
	}
	secondary := &fakeProvider{
		responses: map[string]string{
			ai.ClassifySystemPrompt:  `{"kind": "single_food", "normalized_name": "apple", "quantity_description": "1 apple"}`,
			ai.NutritionSystemPrompt: `{"calories": 95, "protein": 0.5, "carbs": 25, "fat": 0.3}`,
		},
	}

	result, err := NewWithFallback(primary, secondary).Analyze(context.Background(), Request{Description: "an apple"}, newTestContext())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 95.0, result.Nutrition.Calories)
	assert.Equal(t, 2, len(secondary.calls))
}

func TestNormalizeFoodsChickenRename(t *testing.T) {
	foods := normalizeFoods([]FoodItem{
		{Name: "grilled chicken", Unit: "gram", WeightG: ptr(150), Confidence: 0.8},
		{Name: "chicken wings", Unit: "piece", Quantity: ptr(6), Confidence: 0.9},
		{Name: "chicken breast", Unit: "gram", WeightG: ptr(200), Confidence: 0.7},
		{Name: "rice", Unit: "gram", WeightG: ptr(180), Confidence: 0.9},
	})

	assert.Equal(t, "chicken breast", foods[0].Name)
	assert.InDelta(t, 0.9, foods[0].Confidence, 1e-9)
	assert.Equal(t, "chicken wings", foods[1].Name) // bone-in stays
	assert.Equal(t, "chicken breast", foods[2].Name)
	assert.InDelta(t, 0.7, foods[2].Confidence, 1e-9) // already breast, no boost
	assert.Equal(t, "rice", foods[3].Name)
}

func TestRawEquivalentGrams(t *testing.T) {
	cases := []struct {
		item FoodItem
		want float64
	}{
		{FoodItem{Unit: "gram", WeightG: ptr(200), CookState: "cooked", CookMethod: "grilled"}, 150},
		{FoodItem{Unit: "gram", WeightG: ptr(100), CookState: "cooked", CookMethod: "boiled"}, 80},
		{FoodItem{Unit: "gram", WeightG: ptr(100), CookState: "cooked", CookMethod: "baked"}, 78},
		{FoodItem{Unit: "gram", WeightG: ptr(100), CookState: "cooked", CookMethod: "fried"}, 70},
		{FoodItem{Unit: "gram", WeightG: ptr(100), CookState: "raw", CookMethod: "grilled"}, 100},
		{FoodItem{Unit: "gram", WeightG: ptr(100), CookState: "cooked", CookMethod: "sous-vide"}, 100},
		{FoodItem{Unit: "piece", Quantity: ptr(2)}, 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, rawEquivalentGrams(c.item), 1e-9, "method %q", c.item.CookMethod)
	}
}

func TestBuildFoodList(t *testing.T) {
	list, total := buildFoodList(Request{}, []FoodItem{
		{Name: "chicken breast", Unit: "gram", WeightG: ptr(200), CookState: "cooked", CookMethod: "grilled"},
		{Name: "egg", Unit: "piece", Quantity: ptr(2)},
	})

	assert.Contains(t, list, "- 150 g chicken breast")
	assert.Contains(t, list, "- 2 x egg")
	assert.InDelta(t, 150.0, total, 1e-9)
}

func TestBuildFoodListFallsBackToDescription(t *testing.T) {
	list, total := buildFoodList(Request{Description: "some lunch"}, nil)
	assert.Equal(t, "- meal: some lunch\n", list)
	assert.Zero(t, total)
}

func TestMergeDuplicateFoods(t *testing.T) {
	merged := mergeDuplicateFoods([]FoodItem{
		{Name: "fried rice", Unit: "gram", WeightG: ptr(100), Confidence: 0.6},
		{Name: "Fried rice, large portion", Unit: "gram", WeightG: ptr(150), Confidence: 0.8},
		{Name: "scrambled eggs", Unit: "piece", Quantity: ptr(1), Confidence: 0.9},
		{Name: "scrambled egg", Unit: "piece", Quantity: ptr(2), Confidence: 0.7},
		{Name: "salad", Unit: "gram", WeightG: ptr(80), Confidence: 0.5},
	})

	require.Len(t, merged, 3)
	assert.InDelta(t, 250.0, *merged[0].WeightG, 1e-9)
	assert.InDelta(t, 0.8, merged[0].Confidence, 1e-9)
	assert.InDelta(t, 3.0, *merged[1].Quantity, 1e-9)
	assert.InDelta(t, 0.9, merged[1].Confidence, 1e-9)
	assert.Equal(t, "salad", merged[2].Name)
}

func TestWhitespaceDescriptionGetsShortcut(t *testing.T) {
	fake := &fakeProvider{
		responses: map[string]string{
			ai.IdentifySystemPrompt:  `{"foods": [{"name": "banana", "unit": "piece", "quantity": 1, "confidence": 0.9, "cook_state": "raw"}], "summary": "One banana."}`,
			ai.NutritionSystemPrompt: `{"calories": 105, "protein": 1.3, "carbs": 27, "fat": 0.4}`,
		},
	}

	// A whitespace-only description is absent everywhere: no classifier call
	// and the single-item shortcut still applies
	result, err := New(fake).Analyze(context.Background(), Request{Description: "  ", PhotoURL: "https://example.com/banana.jpg"}, newTestContext())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Zero(t, fake.callCount(ai.ClassifySystemPrompt))
	assert.Equal(t, 1, fake.callCount(ai.NutritionSystemPrompt))
	assert.Zero(t, fake.callCount(ai.AggregateSystemPrompt))
	assert.Equal(t, 105.0, result.Nutrition.Calories)
}

func TestMergeDuplicateFoodsLeavesInputUntouched(t *testing.T) {
	input := []FoodItem{
		{Name: "fried rice", Unit: "gram", WeightG: ptr(100), Confidence: 0.6},
		{Name: "fried rice, large portion", Unit: "gram", WeightG: ptr(150), Confidence: 0.8},
		{Name: "scrambled eggs", Unit: "piece", Quantity: ptr(1), Confidence: 0.9},
		{Name: "scrambled egg", Unit: "piece", Quantity: ptr(2), Confidence: 0.7},
	}

	merged := mergeDuplicateFoods(input)

	require.Len(t, merged, 2)
	assert.InDelta(t, 250.0, *merged[0].WeightG, 1e-9)
	assert.InDelta(t, 3.0, *merged[1].Quantity, 1e-9)

	// The caller's items keep their original values
	assert.InDelta(t, 100.0, *input[0].WeightG, 1e-9)
	assert.InDelta(t, 150.0, *input[1].WeightG, 1e-9)
	assert.InDelta(t, 1.0, *input[2].Quantity, 1e-9)
	assert.InDelta(t, 2.0, *input[3].Quantity, 1e-9)
}

func TestNutritionRecordSanitize(t *testing.T) {
	r := NutritionFromMap(map[string]interface{}{
		"calories": "520 kcal",
		"protein":  22.4,
		"carbs":    nil,
		"fat":      "~18",
	})

	assert.Equal(t, 520.0, r.Calories)
	assert.Equal(t, 22.0, r.Protein)
	assert.Equal(t, 0.0, r.Carbs)
	assert.Equal(t, 18.0, r.Fat)
}
