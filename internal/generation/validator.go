// internal/generation/validator.go
package generation

import (
	"encoding/json"
	"fmt"

	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/markets"
	"labelforge/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema is the content schema every generation result must satisfy.
// No silent coercion: a response missing marketing or warnings is rejected,
// not defaulted.
var resultSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"legalLabel", "marketing", "warnings", "complianceNotes"},
	"properties": map[string]interface{}{
		"legalLabel": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"ingredientsText", "allergensText", "nutritionTable"},
			"properties": map[string]interface{}{
				"ingredientsText": map[string]interface{}{"type": "string", "minLength": 1},
				"allergensText":   map[string]interface{}{"type": "string"},
				"nutritionTable": map[string]interface{}{
					"type": "object",
					"additionalProperties": map[string]interface{}{
						"type":     "object",
						"required": []interface{}{"value", "unit"},
						"properties": map[string]interface{}{
							"value": map[string]interface{}{"type": "number"},
							"unit":  map[string]interface{}{"type": "string"},
						},
					},
				},
			},
		},
		"marketing": map[string]interface{}{"type": "string"},
		"warnings": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"complianceNotes": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	},
}

// ResponseValidator parses raw model output and validates it against the
// GenerationResult shape.
type ResponseValidator struct {
	// RequireNutrition enforces the mandatory nutrient set. Disabled on the
	// crisis path, where revised labels intentionally omit full nutrition
	// detail.
	RequireNutrition bool
}

// Validate parses raw text presumed to be JSON and checks it against the
// content schema. Parsing failures and schema violations are distinct error
// classes; both stay within the caller's retry budget.
func (v *ResponseValidator) Validate(raw string) (*models.GenerationResult, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, commonerrors.NewOutputMalformedError(err)
	}

	schemaLoader := gojsonschema.NewGoLoader(resultSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, commonerrors.NewOutputMalformedError(err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return nil, commonerrors.NewOutputSchemaViolationError(first.Field(), first.Description())
	}

	var parsed models.GenerationResult
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, commonerrors.NewOutputMalformedError(err)
	}

	if v.RequireNutrition {
		if err := checkMandatoryNutrients(parsed.LegalLabel.NutritionTable); err != nil {
			return nil, err
		}
	}

	return &parsed, nil
}

func checkMandatoryNutrients(table map[string]models.NutrientValue) error {
	for _, nutrient := range markets.MandatoryNutrients {
		if _, ok := table[nutrient]; !ok {
			return commonerrors.NewOutputSchemaViolationError(
				fmt.Sprintf("legalLabel.nutritionTable.%s", nutrient),
				"mandatory nutrient missing",
			)
		}
	}
	return nil
}
