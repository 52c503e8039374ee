// internal/models/request.go
package models

// GenerationRequest is the immutable input for one label generation.
type GenerationRequest struct {
	ProductName      string                   `json:"productName"`
	Ingredients      []string                 `json:"ingredients"`
	Allergens        []string                 `json:"allergens,omitempty"`
	NutritionFacts   map[string]NutrientValue `json:"nutritionFacts,omitempty"`
	Market           string                   `json:"market"`
	LanguageOverride string                   `json:"languageOverride,omitempty"`
}

// NutrientValue is one nutrition-table entry at the fixed reference
// quantity (per 100g / 100ml).
type NutrientValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}
