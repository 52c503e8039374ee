// internal/translation/translator_test.go
package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/common/logger"
	"labelforge/internal/markets"
	"labelforge/internal/models"
)

func sampleResult() *models.GenerationResult {
	return &models.GenerationResult{
		LegalLabel: models.LegalLabel{
			IngredientsText: "Water, Sugar, Wheat Flour, Cocoa, Salt",
			AllergensText:   "Contains: Wheat, Milk, Soy",
			NutritionTable: map[string]models.NutrientValue{
				"energy": {Value: 1850, Unit: "kJ"},
			},
		},
		Marketing:       "A rich chocolate treat made with real cocoa.",
		Warnings:        []string{"May contain tree nuts."},
		ComplianceNotes: []string{"Allergens declared per local regulation."},
	}
}

func TestTranslateEnglishMarketNoOp(t *testing.T) {
	tr := NewTranslator(logger.NewNoOpLogger())
	market, ok := markets.Resolve("US")
	require.True(t, ok)

	sections, err := tr.Translate(sampleResult(), market)
	assert.NoError(t, err)
	assert.Nil(t, sections)
}

func TestTranslatePortuguese(t *testing.T) {
	tr := NewTranslator(logger.NewNoOpLogger())
	market, ok := markets.Resolve("BR")
	require.True(t, ok)

	src := sampleResult()
	sections, err := tr.Translate(src, market)
	require.NoError(t, err)
	require.NotNil(t, sections)

	assert.Contains(t, sections.IngredientsText, "Açúcar")
	assert.Contains(t, sections.IngredientsText, "Farinha de trigo")
	assert.NotEqual(t, src.LegalLabel.IngredientsText, sections.IngredientsText)

	assert.True(t, len(sections.AllergensText) > 0)
	assert.Contains(t, sections.AllergensText, "Contém:")
	assert.Contains(t, sections.AllergensText, "Leite")
	assert.Contains(t, sections.AllergensText, "Soja")

	require.Len(t, sections.Warnings, 1)
	assert.Contains(t, sections.Warnings[0], "Pode conter")
}

func TestTranslateChineseAndJapaneseMarkers(t *testing.T) {
	tr := NewTranslator(logger.NewNoOpLogger())

	for _, code := range []string{"CN", "JP"} {
		market, ok := markets.Resolve(code)
		require.True(t, ok, code)

		sections, err := tr.Translate(sampleResult(), market)
		require.NoError(t, err, code)
		require.NotNil(t, sections, code)

		assert.True(t, containsMarker(sections.AllergensText, market.MarkerTokens),
			"allergens for %s should carry a marker token: %q", code, sections.AllergensText)
	}
}

func TestTranslateDegradedWhenNothingChanges(t *testing.T) {
	tr := NewTranslator(logger.NewNoOpLogger())
	market, ok := markets.Resolve("BR")
	require.True(t, ok)

	src := sampleResult()
	src.LegalLabel.IngredientsText = "Quinoa, Spirulina"
	src.LegalLabel.AllergensText = ""

	sections, err := tr.Translate(src, market)
	require.Error(t, err)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeTranslationDegraded))
	require.NotNil(t, sections)
	assert.Empty(t, sections.IngredientsText)
	// Non-regulatory groups survive a degraded pass.
	assert.NotEmpty(t, sections.Marketing)
}

func TestTranslateLongestTermWins(t *testing.T) {
	tr := NewTranslator(logger.NewNoOpLogger())
	market, ok := markets.Resolve("BR")
	require.True(t, ok)

	src := sampleResult()
	src.LegalLabel.IngredientsText = "Saturated fat free blend"

	sections, err := tr.Translate(src, market)
	require.NoError(t, err)
	assert.Contains(t, sections.IngredientsText, "Gorduras saturadas")
	assert.NotContains(t, sections.IngredientsText, "saturated Gorduras totais")
}
