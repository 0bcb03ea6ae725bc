package catalog

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupBarcodeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/product/5060337500401.json", r.URL.Path)
		w.Write([]byte(`{
			"status": 1,
			"code": "5060337500401",
			"product": {
				"product_name": "Huel Powder",
				"brands": "Huel",
				"serving_size": "100 g",
				"categories": "Meal replacement",
				"categories_tags": ["en:food", "en:meal-replacements"],
				"nutriments": {"energy-kcal_100g": 400, "proteins_100g": "29.6"}
			}
		}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL, 5*time.Second).LookupBarcode(context.Background(), "5060337500401")
	require.NoError(t, err)

	assert.Equal(t, "Huel Powder", p.Name)
	assert.Equal(t, "Huel", p.Brand)
	assert.Equal(t, 400.0, p.Kcal100g())
	assert.Equal(t, 29.6, p.Protein100g()) // string nutriment coerced
	assert.True(t, p.HasPlausibleMacros())
}

func TestLookupBarcodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0, "code": "000"}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL, 5*time.Second).LookupBarcode(context.Background(), "000")
	assert.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "not found")
}

func TestLookupBarcodeHTTP404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 5*time.Second).LookupBarcode(context.Background(), "123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLookupBarcodeFallsBackToGenericName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 1, "product": {"generic_name": "Orange Juice"}}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL, 5*time.Second).LookupBarcode(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "Orange Juice", p.Name)
}

func TestNutrientRangesRejectImplausibleValues(t *testing.T) {
	p := &Product{Nutriments: map[string]interface{}{
		"energy-kcal_100g": 4000.0, // per-100g over 900 kcal is junk data
		"proteins_100g":    -3.0,
		"fat_100g":         "not a number",
	}}

	assert.True(t, math.IsNaN(p.Kcal100g()))
	assert.True(t, math.IsNaN(p.Protein100g()))
	assert.True(t, math.IsNaN(p.Fat100g()))
	assert.True(t, math.IsNaN(p.Carbs100g())) // absent key
	assert.False(t, p.HasPlausibleMacros())
}
