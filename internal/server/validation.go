// internal/server/validation.go
package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/markets"
	"labelforge/internal/models"
)

var generationRequestSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"productName", "ingredients", "market"},
	"properties": map[string]interface{}{
		"productName": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
			"maxLength": 200,
		},
		"ingredients": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]interface{}{"type": "string", "minLength": 1},
		},
		"allergens": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"nutritionFacts": map[string]interface{}{
			"type": "object",
			"additionalProperties": map[string]interface{}{
				"type":     "object",
				"required": []string{"value", "unit"},
				"properties": map[string]interface{}{
					"value": map[string]interface{}{"type": "number"},
					"unit":  map[string]interface{}{"type": "string"},
				},
			},
		},
		"market":           map[string]interface{}{"type": "string", "minLength": 2},
		"languageOverride": map[string]interface{}{"type": "string"},
	},
}

var crisisScenarioSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"crisisType", "severity", "affectedProducts", "affectedMarkets", "description"},
	"properties": map[string]interface{}{
		"crisisType": map[string]interface{}{
			"type": "string",
			"enum": models.CrisisTypes,
		},
		"severity": map[string]interface{}{
			"type": "string",
			"enum": []string{models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical},
		},
		"affectedProducts": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]interface{}{"type": "string", "minLength": 1},
		},
		"affectedMarkets": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]interface{}{"type": "string", "minLength": 2},
		},
		"description": map[string]interface{}{
			"type":      "string",
			"minLength": 10,
		},
		"timeline":         map[string]interface{}{"type": "string"},
		"immediateActions": map[string]interface{}{"type": "string"},
	},
}

// validateAgainstSchema runs the document check and folds the first few
// violations into one message.
func validateAgainstSchema(doc interface{}, schema map[string]interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return commonerrors.NewRequestValidationError(err.Error())
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return commonerrors.NewRequestValidationError(err.Error())
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for i, desc := range result.Errors() {
		if i == 3 {
			violations = append(violations, "...")
			break
		}
		violations = append(violations, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return commonerrors.NewRequestValidationError(strings.Join(violations, "; "))
}

// validateMarketParam rejects unknown market codes on the read side with
// the same error the write side uses.
func validateMarketParam(code string) error {
	if !markets.IsSupported(code) {
		return commonerrors.NewUnsupportedMarketError(code)
	}
	return nil
}

// ValidateGenerationRequest checks the standard-path input: document shape
// first, then the market against the closed registry.
func ValidateGenerationRequest(req *models.GenerationRequest) error {
	if err := validateAgainstSchema(req, generationRequestSchema); err != nil {
		return err
	}
	if !markets.IsSupported(req.Market) {
		return commonerrors.NewUnsupportedMarketError(req.Market)
	}
	return nil
}

// ValidateCrisisScenario checks the crisis-path input. Every affected
// market must belong to the registry; one unknown code rejects the whole
// scenario.
func ValidateCrisisScenario(scenario *models.CrisisScenario) error {
	if err := validateAgainstSchema(scenario, crisisScenarioSchema); err != nil {
		return err
	}
	for _, code := range scenario.AffectedMarkets {
		if !markets.IsSupported(code) {
			return commonerrors.NewUnsupportedMarketError(code)
		}
	}
	return nil
}
