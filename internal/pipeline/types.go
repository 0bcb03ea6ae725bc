// types.go - Core data model for meal analysis

package pipeline

import (
	"github.com/nutrilens/nutrilens-api/internal/processor"
)

// Classification kinds from Stage 0.
const (
	KindBranded    = "branded"
	KindSingleFood = "single_food"
	KindMixedMeal  = "mixed_meal"
)

// Request is one meal-analysis request. At least one of Description or
// PhotoURL must be set (validated at the HTTP boundary).
type Request struct {
	Description string
	PhotoURL    string
	Language    string
}

// ClassificationResult is the Stage 0 output. Created once per request and
// never mutated afterwards.
type ClassificationResult struct {
	Kind                string `json:"kind"`
	NormalizedName      string `json:"normalized_name"`
	QuantityDescription string `json:"quantity_description"`
}

// FoodItem is one identified food. WeightG is nil exactly when Unit is
// "piece": count-based foods are never weight-estimated.
type FoodItem struct {
	Name       string   `json:"name"`
	WeightG    *float64 `json:"weight_g"`
	Quantity   *float64 `json:"quantity"`
	Unit       string   `json:"unit"` // "gram" or "piece"
	Confidence float64  `json:"confidence"`
	CookState  string   `json:"cook_state"` // "raw", "cooked", "unknown"
	CookMethod string   `json:"cook_method,omitempty"`
}

// NutritionRecord is the fixed numeric contract of every analysis response.
// Every field is a finite number; missing or non-numeric upstream values
// become 0 via Sanitize.
type NutritionRecord struct {
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Fiber      float64 `json:"fiber"`
	Water      float64 `json:"water"`
	Sodium     float64 `json:"sodium"`
	Potassium  float64 `json:"potassium"`
	Chloride   float64 `json:"chloride"`
	Calcium    float64 `json:"calcium"`
	Iron       float64 `json:"iron"`
	Magnesium  float64 `json:"magnesium"`
	Zinc       float64 `json:"zinc"`
	VitaminA   float64 `json:"vitamin_a"`
	VitaminC   float64 `json:"vitamin_c"`
	VitaminD   float64 `json:"vitamin_d"`
	VitaminB12 float64 `json:"vitamin_b12"`
	Folate     float64 `json:"folate"`
	Omega3     float64 `json:"omega3"`
}

// fields returns pointers to every numeric field, for uniform coercion.
func (r *NutritionRecord) fields() []*float64 {
	return []*float64{
		&r.Calories, &r.Protein, &r.Carbs, &r.Fat, &r.Fiber, &r.Water,
		&r.Sodium, &r.Potassium, &r.Chloride, &r.Calcium, &r.Iron,
		&r.Magnesium, &r.Zinc, &r.VitaminA, &r.VitaminC, &r.VitaminD,
		&r.VitaminB12, &r.Folate, &r.Omega3,
	}
}

// Sanitize coerces every field to a finite rounded number. All code paths
// must apply this before returning or persisting a record.
func (r *NutritionRecord) Sanitize() {
	for _, f := range r.fields() {
		*f = processor.SafeNum(*f)
	}
}

// NutritionFromMap builds a sanitized record from a decoded JSON object.
func NutritionFromMap(obj map[string]interface{}) NutritionRecord {
	r := NutritionRecord{
		Calories:   processor.SafeNum(obj["calories"]),
		Protein:    processor.SafeNum(obj["protein"]),
		Carbs:      processor.SafeNum(obj["carbs"]),
		Fat:        processor.SafeNum(obj["fat"]),
		Fiber:      processor.SafeNum(obj["fiber"]),
		Water:      processor.SafeNum(obj["water"]),
		Sodium:     processor.SafeNum(obj["sodium"]),
		Potassium:  processor.SafeNum(obj["potassium"]),
		Chloride:   processor.SafeNum(obj["chloride"]),
		Calcium:    processor.SafeNum(obj["calcium"]),
		Iron:       processor.SafeNum(obj["iron"]),
		Magnesium:  processor.SafeNum(obj["magnesium"]),
		Zinc:       processor.SafeNum(obj["zinc"]),
		VitaminA:   processor.SafeNum(obj["vitamin_a"]),
		VitaminC:   processor.SafeNum(obj["vitamin_c"]),
		VitaminD:   processor.SafeNum(obj["vitamin_d"]),
		VitaminB12: processor.SafeNum(obj["vitamin_b12"]),
		Folate:     processor.SafeNum(obj["folate"]),
		Omega3:     processor.SafeNum(obj["omega3"]),
	}
	return r
}

// Result is the merged pipeline output returned to the handler.
type Result struct {
	Nutrition      NutritionRecord      `json:"nutrition"`
	Summary        string               `json:"ai_summary"`
	Foods          []FoodItem           `json:"ai_foods"`
	Classification ClassificationResult `json:"classification"`
}
