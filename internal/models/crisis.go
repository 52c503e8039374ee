// internal/models/crisis.go
package models

import "time"

// Crisis categories (closed set).
const (
	CrisisContamination = "contamination"
	CrisisAllergen      = "allergen"
	CrisisPackaging     = "packaging"
	CrisisRegulatory    = "regulatory"
	CrisisSupplyChain   = "supply-chain"
)

// Severity levels, totally ordered low < medium < high < critical.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Communication material types (closed set).
const (
	MaterialPressRelease     = "press-release"
	MaterialRegulatoryNotice = "regulatory-notice"
	MaterialCustomerEmail    = "customer-email"
	MaterialSocialMedia      = "social-media"
	MaterialInternalMemo     = "internal-memo"
)

// CrisisTypes lists every supported crisis category.
var CrisisTypes = []string{
	CrisisContamination,
	CrisisAllergen,
	CrisisPackaging,
	CrisisRegulatory,
	CrisisSupplyChain,
}

// MaterialTypes lists every communication material type, in the order
// materials are assembled into a CrisisResponse.
var MaterialTypes = []string{
	MaterialPressRelease,
	MaterialRegulatoryNotice,
	MaterialCustomerEmail,
	MaterialSocialMedia,
	MaterialInternalMemo,
}

// SeverityRank maps a severity to its position in the total order.
var SeverityRank = map[string]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// CrisisScenario is the immutable input for one crisis response.
type CrisisScenario struct {
	CrisisType       string   `json:"crisisType"`
	Severity         string   `json:"severity"`
	AffectedProducts []string `json:"affectedProducts"`
	AffectedMarkets  []string `json:"affectedMarkets"`
	Description      string   `json:"description"`
	Timeline         string   `json:"timeline,omitempty"`
	ImmediateActions string   `json:"immediateActions,omitempty"`
}

// CommunicationMaterial is one crisis communication, keyed by (market, type).
type CommunicationMaterial struct {
	Type           string `json:"type"`
	Market         string `json:"market"`
	Language       string `json:"language"`
	Body           string `json:"body"`
	Urgency        string `json:"urgency"`
	RequiresReview bool   `json:"requiresReview"`
}

// ActionItem is one entry of the crisis action plan. Completed is always
// false at creation; a downstream tracking system owns it afterwards.
type ActionItem struct {
	Action      string `json:"action"`
	Priority    string `json:"priority"`
	Timeframe   string `json:"timeframe"`
	Responsible string `json:"responsible"`
	Completed   bool   `json:"completed"`
}

// CrisisResponse is the assembled, immutable result of one crisis request.
type CrisisResponse struct {
	ID             string                  `json:"id"`
	Scenario       CrisisScenario          `json:"scenario"`
	RevisedLabels  map[string]Label        `json:"revisedLabels"`
	Communications []CommunicationMaterial `json:"communications"`
	ActionPlan     []ActionItem            `json:"actionPlan"`
	ImpactEstimate string                  `json:"impactEstimate"`
	GeneratedAt    time.Time               `json:"generatedAt"`
}
