// internal/generation/validator_test.go
package generation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/models"
)

func validRawResult() string {
	doc := map[string]interface{}{
		"legalLabel": map[string]interface{}{
			"ingredientsText": "Water, Sugar, Apple Juice Concentrate",
			"allergensText":   "Contains: none",
			"nutritionTable": map[string]interface{}{
				"energy":        map[string]interface{}{"value": 180, "unit": "kJ"},
				"fat":           map[string]interface{}{"value": 0, "unit": "g"},
				"saturatedFat":  map[string]interface{}{"value": 0, "unit": "g"},
				"carbohydrates": map[string]interface{}{"value": 10.5, "unit": "g"},
				"sugars":        map[string]interface{}{"value": 10.1, "unit": "g"},
				"protein":       map[string]interface{}{"value": 0.1, "unit": "g"},
				"salt":          map[string]interface{}{"value": 0.01, "unit": "g"},
			},
		},
		"marketing":       "Refreshing apple taste.",
		"warnings":        []string{},
		"complianceNotes": []string{"Nutrition per 100ml."},
	}
	raw, _ := json.Marshal(doc)
	return string(raw)
}

func TestValidateAcceptsWellFormedResult(t *testing.T) {
	v := &ResponseValidator{RequireNutrition: true}

	result, err := v.Validate(validRawResult())
	require.NoError(t, err)
	assert.Equal(t, "Refreshing apple taste.", result.Marketing)
	assert.Equal(t, 10.5, result.LegalLabel.NutritionTable["carbohydrates"].Value)
}

func TestValidateRejectsNonJSON(t *testing.T) {
	v := &ResponseValidator{}

	_, err := v.Validate("I'm sorry, I can't produce a label right now.")
	require.Error(t, err)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeOutputMalformed))
	assert.True(t, commonerrors.IsRetryable(err))
}

func TestValidateRejectsMissingTopLevelField(t *testing.T) {
	v := &ResponseValidator{}

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(validRawResult()), &doc))
	delete(doc, "marketing")
	raw, _ := json.Marshal(doc)

	_, err := v.Validate(string(raw))
	require.Error(t, err)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeOutputSchemaViolation))
	assert.Contains(t, commonerrors.AsStandard(err).Details, "marketing")
}

func TestValidateRejectsMissingMandatoryNutrient(t *testing.T) {
	v := &ResponseValidator{RequireNutrition: true}

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(validRawResult()), &doc))
	table := doc["legalLabel"].(map[string]interface{})["nutritionTable"].(map[string]interface{})
	delete(table, "salt")
	raw, _ := json.Marshal(doc)

	_, err := v.Validate(string(raw))
	require.Error(t, err)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeOutputSchemaViolation))
	assert.Contains(t, commonerrors.AsStandard(err).Details, "salt")
}

func TestValidateCrisisPathSkipsNutritionCheck(t *testing.T) {
	v := &ResponseValidator{RequireNutrition: false}

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(validRawResult()), &doc))
	doc["legalLabel"].(map[string]interface{})["nutritionTable"] = map[string]interface{}{}
	raw, _ := json.Marshal(doc)

	result, err := v.Validate(string(raw))
	require.NoError(t, err)
	assert.Empty(t, result.LegalLabel.NutritionTable)
}

func TestValidateRejectsWrongNutrientShape(t *testing.T) {
	v := &ResponseValidator{}

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(validRawResult()), &doc))
	table := doc["legalLabel"].(map[string]interface{})["nutritionTable"].(map[string]interface{})
	table["energy"] = map[string]interface{}{"value": "one hundred eighty"}
	raw, _ := json.Marshal(doc)

	_, err := v.Validate(string(raw))
	require.Error(t, err)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeOutputSchemaViolation))
}

func TestValidateParsesIntoModel(t *testing.T) {
	v := &ResponseValidator{RequireNutrition: true}

	result, err := v.Validate(validRawResult())
	require.NoError(t, err)
	assert.IsType(t, &models.GenerationResult{}, result)
	assert.NotEmpty(t, result.ComplianceNotes)
}
