// internal/models/label.go
package models

import "time"

// LegalLabel is the regulatory section of a generated label.
type LegalLabel struct {
	IngredientsText string                   `json:"ingredientsText"`
	AllergensText   string                   `json:"allergensText"`
	NutritionTable  map[string]NutrientValue `json:"nutritionTable"`
}

// GenerationResult is the validated, possibly-translated content produced
// by one generation call. Every top-level field must be present.
type GenerationResult struct {
	LegalLabel      LegalLabel `json:"legalLabel"`
	Marketing       string     `json:"marketing"`
	Warnings        []string   `json:"warnings"`
	ComplianceNotes []string   `json:"complianceNotes"`
}

// TranslatedSections holds the translated copy of a label. Only the field
// groups whose translation succeeded are populated.
type TranslatedSections struct {
	IngredientsText string   `json:"ingredientsText,omitempty"`
	AllergensText   string   `json:"allergensText,omitempty"`
	Marketing       string   `json:"marketing,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	ComplianceNotes []string `json:"complianceNotes,omitempty"`
}

// Label is an append-only record: created once per successful generation,
// never mutated afterwards.
type Label struct {
	ID          string              `json:"id"`
	Market      string              `json:"market"`
	Language    string              `json:"language"`
	ProductName string              `json:"productName"`
	Content     GenerationResult    `json:"content"`
	Translated  *TranslatedSections `json:"translated,omitempty"`
	GeneratedBy string              `json:"generatedBy"`
	CreatedAt   time.Time           `json:"createdAt"`
}
