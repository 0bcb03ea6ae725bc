package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardRejectsSunscreen(t *testing.T) {
	v := GuardEdible(Signals{
		Name:  "SPF 50 Sunscreen",
		Brand: "SunCo",
	})

	assert.False(t, v.IsEdible)
	assert.Contains(t, v.Reason, "cosmetic/chemical/household")
}

func TestGuardAcceptsProteinBarDespiteBarWord(t *testing.T) {
	v := GuardEdible(Signals{
		Name:         "Premier Protein Bar",
		CategoryTags: []string{"en:protein-bars"},
	})

	assert.True(t, v.IsEdible)
	assert.Equal(t, "recognized nutrition/protein/energy bar", v.Reason)
}

func TestGuardAcceptsYogurtWithMacros(t *testing.T) {
	v := GuardEdible(Signals{
		Name:            "Greek Yogurt",
		ServingSize:     "170 g",
		PlausibleMacros: true,
	})

	assert.True(t, v.IsEdible)
	assert.Contains(t, v.Reason, "food keyword")
	assert.Contains(t, v.Reason, "plausible macros")
}

func TestGuardAcceptsFoodCategoryTag(t *testing.T) {
	v := GuardEdible(Signals{
		Name:         "Sparkling Lemonade",
		CategoryTags: []string{"en:beverages", "en:sodas"},
	})

	assert.True(t, v.IsEdible)
}

func TestGuardRejectsCosmeticCategoryTag(t *testing.T) {
	v := GuardEdible(Signals{
		Name:         "Hand Cream",
		CategoryTags: []string{"en:cosmetics"},
	})

	assert.False(t, v.IsEdible)
}

func TestGuardRejectsEmptySignals(t *testing.T) {
	v := GuardEdible(Signals{})

	assert.False(t, v.IsEdible)
	assert.Equal(t, "no food signals detected", v.Reason)
}

func TestGuardHandlesNilProduct(t *testing.T) {
	s := SignalsFromProduct(nil)
	v := GuardEdible(s)
	assert.False(t, v.IsEdible)
}
