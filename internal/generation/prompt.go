// internal/generation/prompt.go
package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"labelforge/internal/markets"
	"labelforge/internal/models"
)

const resultShapeInstruction = `Return ONLY a JSON object with this exact shape:
{
  "legalLabel": {
    "ingredientsText": string,
    "allergensText": string,
    "nutritionTable": { "<nutrient>": { "value": number, "unit": string } }
  },
  "marketing": string,
  "warnings": [string],
  "complianceNotes": [string]
}`

// BuildLabelPrompt renders the standard-path prompt for one product and
// market.
func BuildLabelPrompt(req *models.GenerationRequest, market markets.Market) string {
	var parts []string

	parts = append(parts, "You are a food labeling compliance specialist. Produce a market-compliant product label.")
	parts = append(parts, fmt.Sprintf("\nProduct: %s", req.ProductName))
	parts = append(parts, fmt.Sprintf("Target market: %s (%s)", market.Code, market.LanguageName))

	parts = append(parts, fmt.Sprintf("\nIngredients (in order): %s", strings.Join(req.Ingredients, ", ")))
	if len(req.Allergens) > 0 {
		parts = append(parts, fmt.Sprintf("Declared allergens: %s", strings.Join(req.Allergens, ", ")))
	}
	if len(req.NutritionFacts) > 0 {
		nutritionJSON, _ := json.MarshalIndent(req.NutritionFacts, "", "  ")
		parts = append(parts, "\nKnown nutrition facts per 100g:")
		parts = append(parts, string(nutritionJSON))
	}

	parts = append(parts, "\nApplicable regulations:")
	for _, note := range market.RegulationNotes {
		parts = append(parts, fmt.Sprintf("- %s", note))
	}

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Write all text in English")
	parts = append(parts, fmt.Sprintf("- The nutrition table must include: %s", strings.Join(markets.MandatoryNutrients, ", ")))
	parts = append(parts, "- List warnings required by the market's regulations")
	parts = append(parts, "- Keep marketing copy factual, no health claims")
	parts = append(parts, "\n"+resultShapeInstruction)

	return strings.Join(parts, "\n")
}

// BuildCrisisLabelPrompt renders the constrained crisis-revision prompt for
// one affected product and market. Crisis labels emphasize the hazard and
// intentionally omit full nutrition detail.
func BuildCrisisLabelPrompt(scenario *models.CrisisScenario, product string, market markets.Market) string {
	var parts []string

	parts = append(parts, "You are a food safety officer. Produce an urgent revised label for a product under an active incident.")
	parts = append(parts, fmt.Sprintf("\nProduct: %s", product))
	parts = append(parts, fmt.Sprintf("Target market: %s (%s)", market.Code, market.LanguageName))
	parts = append(parts, fmt.Sprintf("Incident type: %s, severity: %s", scenario.CrisisType, scenario.Severity))
	parts = append(parts, fmt.Sprintf("Incident description: %s", scenario.Description))
	if scenario.ImmediateActions != "" {
		parts = append(parts, fmt.Sprintf("Immediate actions already taken: %s", scenario.ImmediateActions))
	}

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Write all text in English")
	parts = append(parts, "- The warnings list MUST lead with an UPPERCASE alert naming the hazard")
	parts = append(parts, "- Keep the nutrition table minimal, it is not the focus")
	parts = append(parts, "- Marketing copy must be replaced by factual safety guidance")
	parts = append(parts, "\n"+resultShapeInstruction)

	return strings.Join(parts, "\n")
}

// BuildMaterialPrompt renders the prompt for one crisis communication
// material of the given type for one market.
func BuildMaterialPrompt(scenario *models.CrisisScenario, market markets.Market, materialType string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("You are a crisis communications writer. Draft a %s for the market %s.", materialType, market.Code))
	parts = append(parts, fmt.Sprintf("\nIncident type: %s, severity: %s", scenario.CrisisType, scenario.Severity))
	parts = append(parts, fmt.Sprintf("Affected products: %s", strings.Join(scenario.AffectedProducts, ", ")))
	parts = append(parts, fmt.Sprintf("Incident description: %s", scenario.Description))
	if scenario.Timeline != "" {
		parts = append(parts, fmt.Sprintf("Timeline: %s", scenario.Timeline))
	}

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Write in English, plain text, ready for review")
	parts = append(parts, "- State the facts, the risk, and the action consumers should take")
	parts = append(parts, "- Do not speculate about causes not given above")
	parts = append(parts, `- Return ONLY a JSON object: {"text": string}`)

	return strings.Join(parts, "\n")
}
