// face.go - Deterministic placeholder face analysis

package placeholder

import "math"

// FaceAnalysis is the placeholder face-scoring response, returned when no
// vision call succeeds. Pure function of its inputs.
type FaceAnalysis struct {
	JawlineIndex     float64 `json:"jawline_index"`
	SkinClarityIndex float64 `json:"skin_clarity_index"`
	SymmetryScore    float64 `json:"symmetry_score"`
	EyeAreaScore     float64 `json:"eye_area_score"`
	CheekboneScore   float64 `json:"cheekbone_score"`
	FaceFatEstimate  string  `json:"face_fat_estimate"` // "low", "medium", "high"
	OverallScore     float64 `json:"overall_score"`
	Potential        float64 `json:"potential"`
	Plan             string  `json:"plan"`
}

// BuildFaceAnalysis generates deterministic placeholder face scores. Calling
// twice with identical arguments yields byte-identical output; history and
// healthRecord contribute through sorted-key stable serialization, so key
// insertion order never matters.
func BuildFaceAnalysis(uid, imageURL, today string, history, healthRecord map[string]interface{}, healthScore float64) FaceAnalysis {
	seed := BuildSeed(uid, imageURL, today, history, healthRecord, "face")

	jawline := scoreInRange(seed, "jawline", 40, 95)
	skinClarity := scoreInRange(seed, "skin_clarity", 40, 95)
	symmetry := scoreInRange(seed, "symmetry", 55, 95)
	eyeArea := scoreInRange(seed, "eye_area", 50, 95)
	cheekbone := scoreInRange(seed, "cheekbone", 45, 95)

	composite := (jawline + skinClarity) / 2
	fatEstimate := FaceFatEstimate(composite)

	overall := round1(jawline*0.35 + skinClarity*0.25 + symmetry*0.20 + healthScore*0.20)
	potential := round1(math.Min(99, overall+scoreInRange(seed, "potential_headroom", 5, 15)))

	return FaceAnalysis{
		JawlineIndex:     jawline,
		SkinClarityIndex: skinClarity,
		SymmetryScore:    symmetry,
		EyeAreaScore:     eyeArea,
		CheekboneScore:   cheekbone,
		FaceFatEstimate:  fatEstimate,
		OverallScore:     overall,
		Potential:        potential,
		Plan:             BuildFacePlan(fatEstimate, jawline, skinClarity),
	}
}

// FaceFatEstimate bands the jawline/skin composite: "low" at >= 72,
// "medium" in [52, 72), "high" below 52.
func FaceFatEstimate(composite float64) string {
	switch {
	case composite >= 72:
		return "low"
	case composite >= 52:
		return "medium"
	default:
		return "high"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
