// internal/orchestrator/templates.go
package orchestrator

import (
	"fmt"
	"strings"

	"labelforge/internal/markets"
	"labelforge/internal/models"
)

// Static fallbacks for crisis sub-tasks. When generation fails hard, the
// response still ships a reviewable placeholder instead of an absent entry.

func fallbackLabelResult(scenario *models.CrisisScenario, product string) *models.GenerationResult {
	hazard := strings.ToUpper(scenario.CrisisType)
	return &models.GenerationResult{
		LegalLabel: models.LegalLabel{
			IngredientsText: fmt.Sprintf("Refer to the current approved label for %s.", product),
			AllergensText:   "Contains: see current approved label.",
			NutritionTable:  map[string]models.NutrientValue{},
		},
		Marketing: fmt.Sprintf("SAFETY NOTICE: %s is subject to an active %s incident. Do not consume until cleared.",
			product, scenario.CrisisType),
		Warnings: []string{
			fmt.Sprintf("%s ALERT: %s", hazard, scenario.Description),
			"This is a placeholder revision. A specialist must finalize it before release.",
		},
		ComplianceNotes: []string{
			"Automatically generated fallback, pending regulatory review.",
		},
	}
}

func fallbackMaterial(scenario *models.CrisisScenario, market markets.Market, materialType string) string {
	products := strings.Join(scenario.AffectedProducts, ", ")
	var b strings.Builder
	switch materialType {
	case models.MaterialPressRelease:
		fmt.Fprintf(&b, "FOR IMMEDIATE RELEASE — %s\n\n", market.Code)
		fmt.Fprintf(&b, "We are addressing a %s incident affecting %s. ", scenario.CrisisType, products)
		b.WriteString("Consumer safety is our first priority. Further details will follow as the investigation proceeds.")
	case models.MaterialRegulatoryNotice:
		fmt.Fprintf(&b, "REGULATORY NOTIFICATION — %s\n\n", market.Code)
		fmt.Fprintf(&b, "Incident type: %s. Severity: %s. Affected products: %s.\n", scenario.CrisisType, scenario.Severity, products)
		fmt.Fprintf(&b, "Description: %s\n", scenario.Description)
		b.WriteString("A full incident report will be submitted through the standard channel.")
	case models.MaterialCustomerEmail:
		b.WriteString("Dear customer,\n\n")
		fmt.Fprintf(&b, "We are writing about %s. A %s issue has been identified and we are acting on it. ", products, scenario.CrisisType)
		b.WriteString("Please stop using the product and contact our support line for a refund or replacement.")
	case models.MaterialSocialMedia:
		fmt.Fprintf(&b, "Important safety notice for %s regarding %s. ", market.Code, products)
		b.WriteString("Please check our website for affected lot numbers and instructions.")
	case models.MaterialInternalMemo:
		fmt.Fprintf(&b, "INTERNAL — %s incident, severity %s\n\n", scenario.CrisisType, scenario.Severity)
		fmt.Fprintf(&b, "Affected: %s in %s. ", products, market.Code)
		b.WriteString("All external statements route through crisis communications until further notice.")
	default:
		fmt.Fprintf(&b, "Notice regarding a %s incident affecting %s in %s.", scenario.CrisisType, products, market.Code)
	}
	return b.String()
}
