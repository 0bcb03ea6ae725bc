// plan.go - Derived exercise-plan text for placeholder analyses

package placeholder

import (
	"fmt"
	"strings"
)

// BuildFacePlan derives a 7-day/4-week plan text block from the face scores.
// Content varies only through discrete branches on the fat estimate and the
// jawline/skin thresholds; same inputs always produce the same text.
func BuildFacePlan(faceFatEstimate string, jawlineIndex, skinClarityIndex float64) string {
	var b strings.Builder

	b.WriteString("Your 4-week facial fitness plan\n\n")

	switch faceFatEstimate {
	case "low":
		b.WriteString("Week 1-4 focus: definition maintenance.\n")
		b.WriteString("Daily (7 days): 5 min jawline holds, 5 min facial massage, hydrate 2L+.\n")
	case "medium":
		b.WriteString("Week 1-2 focus: reduce facial puffiness. Week 3-4: build definition.\n")
		b.WriteString("Daily (7 days): 10 min chin tucks and jaw exercises, reduce evening sodium, hydrate 2.5L.\n")
	default:
		b.WriteString("Week 1-2 focus: overall deficit and sodium control. Week 3-4: add targeted jaw work.\n")
		b.WriteString("Daily (7 days): 30 min brisk cardio, 10 min facial exercises, cut late-night snacks.\n")
	}

	if jawlineIndex < 60 {
		b.WriteString("Extra: add resistance jaw training 3x per week (weeks 2-4).\n")
	}
	if skinClarityIndex < 60 {
		b.WriteString("Extra: morning and evening cleanse plus SPF during the day.\n")
	}

	b.WriteString(fmt.Sprintf("\nBaseline: jawline %.1f, skin clarity %.1f, face fat %s.\n", jawlineIndex, skinClarityIndex, faceFatEstimate))

	return b.String()
}

// BuildBodyPlan derives the body-plan text block, branching on the fat
// estimate and muscle tone.
func BuildBodyPlan(bodyFatEstimate string, muscleToneScore float64) string {
	var b strings.Builder

	b.WriteString("Your 4-week body plan\n\n")

	switch bodyFatEstimate {
	case "low":
		b.WriteString("Week 1-4 focus: lean muscle gain.\n")
		b.WriteString("Weekly (7 days): 4 strength sessions, 1 mobility day, 2 rest days, protein 1.8g/kg.\n")
	case "medium":
		b.WriteString("Week 1-2 focus: recomposition. Week 3-4: progressive overload.\n")
		b.WriteString("Weekly (7 days): 3 strength sessions, 2 cardio sessions (30 min), 2 rest days.\n")
	default:
		b.WriteString("Week 1-2 focus: sustainable deficit and daily movement. Week 3-4: add strength base.\n")
		b.WriteString("Weekly (7 days): 4 cardio sessions (40 min), 2 full-body strength sessions, 1 rest day.\n")
	}

	if muscleToneScore < 55 {
		b.WriteString("Extra: start with bodyweight progressions before loading (weeks 1-2).\n")
	}

	b.WriteString(fmt.Sprintf("\nBaseline: muscle tone %.1f, body fat %s.\n", muscleToneScore, bodyFatEstimate))

	return b.String()
}
