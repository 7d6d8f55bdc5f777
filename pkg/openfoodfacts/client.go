// Package openfoodfacts is a small read-only client for the OpenFoodFacts
// public API, used to resolve barcodes and product-name searches into
// ingredient and nutrition data.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://world.openfoodfacts.org/api/v0"

// ErrNotFound is returned when a barcode resolves to no product.
var ErrNotFound = errors.New("product not found")

// Product is the normalized subset of OpenFoodFacts data the app exposes.
type Product struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Ingredients    []string       `json:"ingredients"`
	Allergens      []string       `json:"allergens"`
	NutritionFacts NutritionFacts `json:"nutritionFacts"`
	Barcode        string         `json:"barcode"`
}

// NutritionFacts per 100g as reported by OpenFoodFacts.
type NutritionFacts struct {
	Energy  float64 `json:"energy"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
	Protein float64 `json:"protein"`
}

// Client queries OpenFoodFacts over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client with a bounded request timeout. baseURL is
// overridable for tests; empty selects the public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type offProduct struct {
	ProductName     string   `json:"product_name"`
	IngredientsText string   `json:"ingredients_text"`
	AllergensTags   []string `json:"allergens_tags"`
	Nutriments      struct {
		EnergyKcal float64 `json:"energy-kcal"`
		Fat        float64 `json:"fat"`
		Carbs      float64 `json:"carbohydrates"`
		Protein    float64 `json:"proteins"`
	} `json:"nutriments"`
	Code string `json:"code"`
}

func (p *offProduct) normalize(barcode string) Product {
	name := p.ProductName
	if name == "" {
		name = "Unknown Product"
	}
	allergens := p.AllergensTags
	if allergens == nil {
		allergens = []string{}
	}
	if barcode == "" {
		barcode = p.Code
	}
	return Product{
		ID:          barcode,
		Name:        name,
		Ingredients: parseIngredients(p.IngredientsText),
		Allergens:   allergens,
		NutritionFacts: NutritionFacts{
			Energy:  p.Nutriments.EnergyKcal,
			Fat:     p.Nutriments.Fat,
			Carbs:   p.Nutriments.Carbs,
			Protein: p.Nutriments.Protein,
		},
		Barcode: barcode,
	}
}

// ByBarcode resolves a single product. Returns ErrNotFound when the barcode
// is unknown to OpenFoodFacts.
func (c *Client) ByBarcode(ctx context.Context, barcode string) (*Product, error) {
	var body struct {
		Product *offProduct `json:"product"`
	}
	endpoint := fmt.Sprintf("%s/product/%s.json", c.baseURL, url.PathEscape(barcode))
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	if body.Product == nil {
		return nil, ErrNotFound
	}
	p := body.Product.normalize(barcode)
	return &p, nil
}

// SearchByName returns up to five products matching the query. country
// biases result ranking, defaulting to RO.
func (c *Client) SearchByName(ctx context.Context, name, country string) ([]Product, error) {
	if country == "" {
		country = "RO"
	}
	params := url.Values{
		"search_terms":  {name},
		"search_simple": {"1"},
		"action":        {"process"},
		"fields":        {"code,product_name,ingredients_text,allergens_tags,nutriments"},
		"json":          {"1"},
		"country":       {country},
	}
	var body struct {
		Products []offProduct `json:"products"`
	}
	endpoint := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	out := make([]Product, 0, 5)
	for i := range body.Products {
		if i == 5 {
			break
		}
		out = append(out, body.Products[i].normalize(""))
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openfoodfacts status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// parseIngredients splits a free-form ingredients_text into names.
func parseIngredients(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, ".")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
