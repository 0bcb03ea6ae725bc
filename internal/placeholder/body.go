// body.go - Deterministic placeholder body analysis

package placeholder

import "math"

// BodyAnalysis is the placeholder body-scoring response. Pure function of
// its inputs, same determinism guarantee as FaceAnalysis.
type BodyAnalysis struct {
	BodyFatPercent  float64 `json:"body_fat_percent"`
	BodyFatEstimate string  `json:"body_fat_estimate"` // "low", "medium", "high"
	MuscleToneScore float64 `json:"muscle_tone_score"`
	PostureScore    float64 `json:"posture_score"`
	SymmetryScore   float64 `json:"symmetry_score"`
	OverallScore    float64 `json:"overall_score"`
	Potential       float64 `json:"potential"`
	Plan            string  `json:"plan"`
}

// BuildBodyAnalysis generates deterministic placeholder body scores from the
// same seed construction as the face path, discriminated by "body".
func BuildBodyAnalysis(uid, imageURL, today string, history, healthRecord map[string]interface{}, healthScore float64) BodyAnalysis {
	seed := BuildSeed(uid, imageURL, today, history, healthRecord, "body")

	bodyFat := scoreInRange(seed, "body_fat", 12, 32)
	muscleTone := scoreInRange(seed, "muscle_tone", 40, 95)
	posture := scoreInRange(seed, "posture", 50, 95)
	symmetry := scoreInRange(seed, "symmetry", 55, 95)

	overall := round1(muscleTone*0.35 + posture*0.25 + symmetry*0.20 + healthScore*0.20)
	potential := round1(math.Min(99, overall+scoreInRange(seed, "potential_headroom", 5, 15)))

	return BodyAnalysis{
		BodyFatPercent:  bodyFat,
		BodyFatEstimate: bodyFatEstimate(bodyFat),
		MuscleToneScore: muscleTone,
		PostureScore:    posture,
		SymmetryScore:   symmetry,
		OverallScore:    overall,
		Potential:       potential,
		Plan:            BuildBodyPlan(bodyFatEstimate(bodyFat), muscleTone),
	}
}

// bodyFatEstimate bands the estimated body-fat percentage.
func bodyFatEstimate(percent float64) string {
	switch {
	case percent < 18:
		return "low"
	case percent < 26:
		return "medium"
	default:
		return "high"
	}
}
