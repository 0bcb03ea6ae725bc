// off.go - OpenFoodFacts barcode lookup client

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Product is the subset of an OpenFoodFacts product record the service
// consumes.
type Product struct {
	Barcode         string                 `json:"barcode"`
	Name            string                 `json:"name"`
	Brand           string                 `json:"brand"`
	ServingSize     string                 `json:"serving_size"`
	Categories      string                 `json:"categories"`
	CategoryTags    []string               `json:"category_tags"`
	IngredientsText string                 `json:"ingredients_text"`
	Labels          string                 `json:"labels"`
	Nutriments      map[string]interface{} `json:"nutriments"`
}

// Client queries the OpenFoodFacts product API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a catalog client against the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type offResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Product struct {
		ProductName     string                 `json:"product_name"`
		Brands          string                 `json:"brands"`
		ServingSize     string                 `json:"serving_size"`
		Categories      string                 `json:"categories"`
		CategoriesTags  []string               `json:"categories_tags"`
		IngredientsText string                 `json:"ingredients_text"`
		Labels          string                 `json:"labels"`
		Nutriments      map[string]interface{} `json:"nutriments"`
		GenericName     string                 `json:"generic_name"`
	} `json:"product"`
}

// LookupBarcode fetches one product by barcode. Returns an error when the
// barcode is unknown to the catalog.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*Product, error) {
	url := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, barcode)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("User-Agent", "nutrilens-api/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("product %s not found", barcode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	var off offResponse
	if err := json.Unmarshal(body, &off); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}
	if off.Status != 1 {
		return nil, fmt.Errorf("product %s not found", barcode)
	}

	name := off.Product.ProductName
	if name == "" {
		name = off.Product.GenericName
	}

	return &Product{
		Barcode:         barcode,
		Name:            name,
		Brand:           off.Product.Brands,
		ServingSize:     off.Product.ServingSize,
		Categories:      off.Product.Categories,
		CategoryTags:    off.Product.CategoriesTags,
		IngredientsText: off.Product.IngredientsText,
		Labels:          off.Product.Labels,
		Nutriments:      off.Product.Nutriments,
	}, nil
}

// Nutrient plausibility ranges per 100g. Values outside the range are
// treated as absent rather than trusted.
func (p *Product) Kcal100g() float64    { return p.nutrientInRange("energy-kcal_100g", 0, 900) }
func (p *Product) Protein100g() float64 { return p.nutrientInRange("proteins_100g", 0, 100) }
func (p *Product) Carbs100g() float64   { return p.nutrientInRange("carbohydrates_100g", 0, 100) }
func (p *Product) Fat100g() float64     { return p.nutrientInRange("fat_100g", 0, 100) }

func (p *Product) nutrientInRange(key string, lo, hi float64) float64 {
	v, ok := p.Nutriments[key]
	if !ok {
		return math.NaN()
	}

	f := extractFloat(v)
	if math.IsNaN(f) || f < lo || f > hi {
		return math.NaN()
	}
	return f
}

// extractFloat coerces an OFF nutriment value (number or string) to float64.
func extractFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return math.NaN()
}

// HasPlausibleMacros reports whether the product carries at least one
// in-range macro value, a strong edibility signal.
func (p *Product) HasPlausibleMacros() bool {
	if p == nil || p.Nutriments == nil {
		return false
	}
	return !math.IsNaN(p.Kcal100g()) || !math.IsNaN(p.Protein100g()) ||
		!math.IsNaN(p.Carbs100g()) || !math.IsNaN(p.Fat100g())
}
