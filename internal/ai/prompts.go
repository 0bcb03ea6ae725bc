// prompts.go - Centralized prompt templates for nutrition analysis

package ai

import (
	"fmt"
	"strings"
)

// nutritionFieldList is the exact set of numeric fields every nutrition
// response must carry. Shared by every template that requests a full record.
const nutritionFieldList = `calories, protein, carbs, fat, fiber, water, sodium, potassium, chloride, calcium, iron, magnesium, zinc, vitamin_a, vitamin_c, vitamin_d, vitamin_b12, folate, omega3`

// strictJSONInstruction is appended to every prompt that expects JSON back.
const strictJSONInstruction = `Respond with ONLY a valid JSON object. No markdown, no explanations, no text before or after the JSON.`

// ClassifySystemPrompt primes the model for the three-way meal taxonomy.
const ClassifySystemPrompt = `You are a food classification assistant. You classify meal descriptions into exactly one of three kinds: "branded" (a named commercial product, e.g. "Snickers bar", "Coca-Cola 330ml"), "single_food" (one plain food or ingredient, e.g. "2 eggs", "an apple", "200g chicken breast"), or "mixed_meal" (multiple foods or a composed dish, e.g. "chicken with rice and salad").`

// ClassifyMealPrompt builds the Stage 0 classification prompt.
func ClassifyMealPrompt(description string) string {
	return fmt.Sprintf(`Classify this meal description: "%s"

Return JSON with exactly these fields:
{
  "kind": "branded" | "single_food" | "mixed_meal",
  "normalized_name": "<cleaned-up food or product name>",
  "quantity_description": "<explicit quantity from the text, e.g. '2 pieces' or '330 ml', or null if none>"
}

%s`, description, strictJSONInstruction)
}

// NutritionSystemPrompt primes the model for exact nutrition lookups.
const NutritionSystemPrompt = `You are a nutrition database assistant. You return exact, known nutrition values for foods and branded products. You do not estimate portions visually; you use standard reference values and multiply by the stated quantity.`

// ExactNutritionPrompt builds the bypass / single-item nutrition prompt.
// quantity may be empty, in which case a single standard serving is assumed.
func ExactNutritionPrompt(name, quantity string) string {
	qty := quantity
	if qty == "" {
		qty = "1 standard serving"
	}

	return fmt.Sprintf(`Give the exact nutrition for: %s
Quantity: %s

Use known reference values for this exact food or product. Do NOT estimate from appearance. Multiply all values by the stated quantity.

Return JSON with exactly these numeric fields (use 0 if a value is unknown):
{%s}
plus:
  "summary": "<one natural sentence describing this food and its key macros>"

Units: calories in kcal, protein/carbs/fat/fiber/omega3 in grams, water in ml, sodium/potassium/chloride/calcium/magnesium/vitamin_c in mg, iron/zinc in mg, vitamin_a/vitamin_d/vitamin_b12/folate in mcg.

%s`, name, qty, nutritionFieldList, strictJSONInstruction)
}

// IdentifySystemPrompt primes the model for Stage 1 food identification.
const IdentifySystemPrompt = `You are a food identification assistant. You identify every distinct food in a meal from a photo and/or text description, with realistic portion estimates. Typical single portions: protein 100-250g, cooked rice/pasta 150-300g, vegetables 50-200g, bread slice 25-40g. Never estimate a weight for count-based foods (eggs, slices, pieces); report a quantity instead.`

// IdentifyFoodsPrompt builds the Stage 1 identification prompt.
func IdentifyFoodsPrompt(description, language string) string {
	var b strings.Builder

	b.WriteString("Identify every distinct food in this meal.\n")
	if description != "" {
		fmt.Fprintf(&b, "Description: \"%s\"\n", description)
	} else {
		b.WriteString("No text description was provided; rely on the photo.\n")
	}
	if language != "" {
		fmt.Fprintf(&b, "Write the summary in language: %s\n", language)
	}

	fmt.Fprintf(&b, `
Return JSON with exactly these fields:
{
  "foods": [
    {
      "name": "<food name>",
      "unit": "gram" | "piece",
      "weight_g": <number, REQUIRED when unit is "gram", null when unit is "piece">,
      "quantity": <number of pieces, REQUIRED when unit is "piece", null otherwise>,
      "confidence": <number in [0,1]>,
      "cook_state": "raw" | "cooked" | "unknown",
      "cook_method": "grilled" | "boiled" | "baked" | "fried" | "steamed" | null
    }
  ],
  "summary": "<1-2 sentences describing the meal>"
}

%s`, strictJSONInstruction)

	return b.String()
}

// PizzaSystemPrompt primes the model for the per-slice pizza path.
const PizzaSystemPrompt = `You are a pizza nutrition specialist. You estimate nutrition per slice from slice count, crust type and toppings, then multiply by the slice count.`

// PizzaPrompt builds the dedicated pizza estimation prompt.
func PizzaPrompt(description, summary string) string {
	var b strings.Builder

	b.WriteString("Estimate the nutrition of this pizza meal.\n")
	if description != "" {
		fmt.Fprintf(&b, "Description: \"%s\"\n", description)
	}
	if summary != "" {
		fmt.Fprintf(&b, "What was identified: \"%s\"\n", summary)
	}

	fmt.Fprintf(&b, `
First determine: slice count (default 1 if unclear), crust type (thin/regular/thick/stuffed), and main toppings. Estimate per-slice macros for that crust and topping profile, then multiply every value by the slice count.

Return JSON with exactly these fields:
{
  "slice_count": <number>,
  "crust_type": "<thin|regular|thick|stuffed>",
  "toppings": ["<topping>", ...],
  %s,
  "summary": "<one sentence describing the pizza>"
}
All nutrition values are TOTALS for all slices combined, not per slice.

%s`, nutritionFieldList, strictJSONInstruction)

	return b.String()
}

// AggregateSystemPrompt primes the model for Stage 2 aggregate estimation.
const AggregateSystemPrompt = `You are a nutrition computation assistant. Given a list of foods with raw-equivalent weights or counts, you compute one combined nutrition total using standard per-100g reference values for the RAW food.`

// AggregatePrompt builds the Stage 2 aggregate nutrition prompt. foodList is a
// preformatted line-per-food block with raw-equivalent weights.
func AggregatePrompt(foodList string, totalWeightG float64) string {
	return fmt.Sprintf(`Compute the combined nutrition for this meal:

%s
Total weight: %.0f g (raw equivalent)

Weights are raw-equivalent: cooked weights have already been converted back toward raw mass, so use raw-food reference values per 100g.

Return JSON with exactly these numeric fields (use 0 if a value is unknown):
{%s}

Units: calories in kcal, protein/carbs/fat/fiber/omega3 in grams, water in ml, sodium/potassium/chloride/calcium/magnesium/vitamin_c in mg, iron/zinc in mg, vitamin_a/vitamin_d/vitamin_b12/folate in mcg.

%s`, foodList, totalWeightG, nutritionFieldList, strictJSONInstruction)
}

// RewriteSystemPrompt primes the model for the Stage 3 tone rewrite.
const RewriteSystemPrompt = `You rewrite meal descriptions to sound natural and friendly, like a knowledgeable friend, never robotic. Keep it to 1-2 sentences. Do not add facts that are not in the original.`

// RewriteSummaryPrompt builds the Stage 3 tone-rewrite prompt.
func RewriteSummaryPrompt(summary, language string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Rewrite this meal description in a natural, non-robotic tone (1-2 sentences): \"%s\"\n", summary)
	if language != "" {
		fmt.Fprintf(&b, "Write in language: %s\n", language)
	}
	b.WriteString("\nRespond with ONLY the rewritten text. No JSON, no quotes, no explanations.")

	return b.String()
}

// FaceAnalysisSystemPrompt primes the model for facial fitness scoring.
const FaceAnalysisSystemPrompt = `You are a facial fitness assessment assistant. You score facial features from a photo on 0-100 scales for fitness-coaching purposes. You are encouraging but honest.`

// FaceAnalysisPrompt builds the vision face-analysis prompt. contextJSON is
// the serialized health context for today, possibly empty.
func FaceAnalysisPrompt(contextJSON string) string {
	var b strings.Builder

	b.WriteString("Analyze the face in the attached photo for fitness coaching.\n")
	if contextJSON != "" {
		fmt.Fprintf(&b, "Health context for today: %s\n", contextJSON)
	}

	fmt.Fprintf(&b, `
Return JSON with exactly these fields (scores 0-100):
{
  "jawline_index": <number>,
  "skin_clarity_index": <number>,
  "symmetry_score": <number>,
  "eye_area_score": <number>,
  "cheekbone_score": <number>,
  "face_fat_estimate": "low" | "medium" | "high",
  "overall_score": <number>,
  "potential": <number>,
  "plan": "<a short 4-week improvement plan>"
}

%s`, strictJSONInstruction)

	return b.String()
}

// BodyAnalysisSystemPrompt primes the model for body composition scoring.
const BodyAnalysisSystemPrompt = `You are a body composition assessment assistant. You estimate body composition from a photo on 0-100 scales for fitness-coaching purposes. You are encouraging but honest.`

// BodyAnalysisPrompt builds the vision body-analysis prompt.
func BodyAnalysisPrompt(contextJSON string) string {
	var b strings.Builder

	b.WriteString("Analyze the body in the attached photo for fitness coaching.\n")
	if contextJSON != "" {
		fmt.Fprintf(&b, "Health context for today: %s\n", contextJSON)
	}

	fmt.Fprintf(&b, `
Return JSON with exactly these fields:
{
  "body_fat_percent": <number>,
  "body_fat_estimate": "low" | "medium" | "high",
  "muscle_tone_score": <number 0-100>,
  "posture_score": <number 0-100>,
  "symmetry_score": <number 0-100>,
  "overall_score": <number 0-100>,
  "potential": <number 0-100>,
  "plan": "<a short 4-week improvement plan>"
}

%s`, strictJSONInstruction)

	return b.String()
}
