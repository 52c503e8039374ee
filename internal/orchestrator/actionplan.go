// internal/orchestrator/actionplan.go
package orchestrator

import (
	"fmt"
	"strings"

	"labelforge/internal/models"
)

// The action plan and impact estimate are deterministic: same scenario,
// same plan. No generation budget is spent on them.

func buildActionPlan(scenario *models.CrisisScenario) []models.ActionItem {
	priority := planPriority(scenario.Severity)
	timeframe := planTimeframe(scenario.Severity)

	plan := []models.ActionItem{
		{Action: "Convene the crisis response team", Priority: priority, Timeframe: "immediate", Responsible: "Quality Assurance"},
		{Action: "Quarantine affected inventory and halt shipments", Priority: priority, Timeframe: "immediate", Responsible: "Operations"},
		{Action: "Notify regulatory authorities in affected markets", Priority: priority, Timeframe: timeframe, Responsible: "Regulatory Affairs"},
		{Action: "Publish approved communications to each market", Priority: priority, Timeframe: timeframe, Responsible: "Communications"},
	}

	switch scenario.CrisisType {
	case models.CrisisContamination:
		plan = append(plan,
			models.ActionItem{Action: "Trace contamination source across affected lots", Priority: priority, Timeframe: "24h", Responsible: "Quality Assurance"},
			models.ActionItem{Action: "Commission independent laboratory testing", Priority: priority, Timeframe: "48h", Responsible: "Quality Assurance"},
		)
	case models.CrisisAllergen:
		plan = append(plan,
			models.ActionItem{Action: "Verify allergen declarations on every affected label revision", Priority: priority, Timeframe: "24h", Responsible: "Regulatory Affairs"},
			models.ActionItem{Action: "Audit shared-line cleaning records", Priority: priority, Timeframe: "48h", Responsible: "Operations"},
		)
	case models.CrisisPackaging:
		plan = append(plan,
			models.ActionItem{Action: "Inspect packaging line for the defect window", Priority: priority, Timeframe: "24h", Responsible: "Operations"},
		)
	case models.CrisisRegulatory:
		plan = append(plan,
			models.ActionItem{Action: "Prepare the corrective action file for the authority", Priority: priority, Timeframe: "48h", Responsible: "Regulatory Affairs"},
		)
	case models.CrisisSupplyChain:
		plan = append(plan,
			models.ActionItem{Action: "Qualify alternate suppliers for affected inputs", Priority: priority, Timeframe: "72h", Responsible: "Procurement"},
		)
	}

	plan = append(plan, models.ActionItem{
		Action:      "Schedule the post-incident review",
		Priority:    "medium",
		Timeframe:   "1 week",
		Responsible: "Quality Assurance",
	})
	return plan
}

func buildImpactEstimate(scenario *models.CrisisScenario) string {
	scope := "contained"
	switch scenario.Severity {
	case models.SeverityCritical:
		scope = "severe"
	case models.SeverityHigh:
		scope = "significant"
	case models.SeverityMedium:
		scope = "moderate"
	}
	affected := uniqueMarkets(scenario.AffectedMarkets)
	return fmt.Sprintf(
		"Estimated impact is %s: a %s incident affecting %d product(s) across %d market(s) (%s). Expect recall handling, regulatory engagement, and customer support load in each affected market.",
		scope, scenario.CrisisType, len(scenario.AffectedProducts), len(affected),
		strings.Join(affected, ", "))
}

// uniqueMarkets keeps the first occurrence of each code, preserving order.
func uniqueMarkets(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func planPriority(severity string) string {
	if models.SeverityRank[severity] >= models.SeverityRank[models.SeverityHigh] {
		return "critical"
	}
	return "high"
}

func planTimeframe(severity string) string {
	if models.SeverityRank[severity] >= models.SeverityRank[models.SeverityHigh] {
		return "4h"
	}
	return "24h"
}
