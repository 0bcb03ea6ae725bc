package placeholder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFaceAnalysisIsDeterministic(t *testing.T) {
	history := map[string]interface{}{"streak": 4, "last_score": 71.5}
	record := map[string]interface{}{"meal": map[string]interface{}{"calories": 520.0}}

	a := BuildFaceAnalysis("user-1", "https://example.com/face.jpg", "2026-08-28", history, record, 75)
	b := BuildFaceAnalysis("user-1", "https://example.com/face.jpg", "2026-08-28", history, record, 75)

	assert.Equal(t, a, b)
}

func TestBuildFaceAnalysisVariesWithInputs(t *testing.T) {
	a := BuildFaceAnalysis("user-1", "https://example.com/face.jpg", "2026-08-28", nil, nil, 75)
	b := BuildFaceAnalysis("user-2", "https://example.com/face.jpg", "2026-08-28", nil, nil, 75)
	c := BuildFaceAnalysis("user-1", "https://example.com/face.jpg", "2026-08-29", nil, nil, 75)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFaceAndBodySeedsDiffer(t *testing.T) {
	face := BuildSeed("user-1", "https://example.com/p.jpg", "2026-08-28", nil, nil, "face")
	body := BuildSeed("user-1", "https://example.com/p.jpg", "2026-08-28", nil, nil, "body")
	assert.NotEqual(t, face, body)
}

func TestBuildFaceAnalysisScoreRanges(t *testing.T) {
	a := BuildFaceAnalysis("user-1", "https://example.com/face.jpg", "2026-08-28", nil, nil, 70)

	assert.GreaterOrEqual(t, a.JawlineIndex, 40.0)
	assert.LessOrEqual(t, a.JawlineIndex, 95.0)
	assert.GreaterOrEqual(t, a.SkinClarityIndex, 40.0)
	assert.LessOrEqual(t, a.SkinClarityIndex, 95.0)
	assert.GreaterOrEqual(t, a.SymmetryScore, 55.0)
	assert.LessOrEqual(t, a.SymmetryScore, 95.0)
	assert.LessOrEqual(t, a.Potential, 99.0)

	composite := (a.JawlineIndex + a.SkinClarityIndex) / 2
	assert.Equal(t, FaceFatEstimate(composite), a.FaceFatEstimate)
	assert.NotEmpty(t, a.Plan)
}

func TestFaceFatEstimateBands(t *testing.T) {
	assert.Equal(t, "low", FaceFatEstimate(90))
	assert.Equal(t, "low", FaceFatEstimate(72))
	assert.Equal(t, "medium", FaceFatEstimate(71))
	assert.Equal(t, "medium", FaceFatEstimate(52))
	assert.Equal(t, "high", FaceFatEstimate(51))
	assert.Equal(t, "high", FaceFatEstimate(30))
}

func TestBuildBodyAnalysisIsDeterministic(t *testing.T) {
	a := BuildBodyAnalysis("user-1", "https://example.com/body.jpg", "2026-08-28", nil, nil, 70)
	b := BuildBodyAnalysis("user-1", "https://example.com/body.jpg", "2026-08-28", nil, nil, 70)

	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a.BodyFatPercent, 12.0)
	assert.LessOrEqual(t, a.BodyFatPercent, 32.0)
	assert.Contains(t, []string{"low", "medium", "high"}, a.BodyFatEstimate)
}

func TestStableSerializeSortsKeys(t *testing.T) {
	out := StableSerialize(map[string]interface{}{"zeta": 1, "alpha": 2})
	assert.Equal(t, `{"alpha":2,"zeta":1}`, out)
}

func TestStableSerializeStructMatchesMap(t *testing.T) {
	type record struct {
		Zeta  int `json:"zeta"`
		Alpha int `json:"alpha"`
	}
	fromStruct := StableSerialize(record{Zeta: 1, Alpha: 2})
	fromMap := StableSerialize(map[string]interface{}{"zeta": 1, "alpha": 2})
	assert.Equal(t, fromMap, fromStruct)
}

func TestStableSerializeNil(t *testing.T) {
	assert.Equal(t, "null", StableSerialize(nil))
}

func TestScoreInRangeStaysInBounds(t *testing.T) {
	seeds := []string{"a", "b", "c", "user-1|url|2026-08-28|null|null|face"}
	for _, seed := range seeds {
		v := scoreInRange(seed, "metric", 40, 95)
		assert.GreaterOrEqual(t, v, 40.0, "seed %q", seed)
		assert.LessOrEqual(t, v, 95.0, "seed %q", seed)
	}
}

func TestBuildFacePlanBranches(t *testing.T) {
	low := BuildFacePlan("low", 80, 80)
	assert.Contains(t, low, "definition maintenance")
	assert.NotContains(t, low, "Extra:")

	high := BuildFacePlan("high", 50, 50)
	assert.Contains(t, high, "deficit")
	assert.Contains(t, high, "resistance jaw training")
	assert.Contains(t, high, "SPF during the day")

	// Identical inputs, identical text
	assert.Equal(t, BuildFacePlan("medium", 65, 70), BuildFacePlan("medium", 65, 70))
}

func TestBuildBodyPlanBranches(t *testing.T) {
	medium := BuildBodyPlan("medium", 50)
	assert.Contains(t, medium, "recomposition")
	assert.Contains(t, medium, "bodyweight progressions")

	lean := BuildBodyPlan("low", 80)
	assert.Contains(t, lean, "lean muscle gain")
	assert.False(t, strings.Contains(lean, "bodyweight progressions"))
}
