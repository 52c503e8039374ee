// internal/orchestrator/crisis.go
package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"labelforge/internal/common/config"
	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/common/logger"
	"labelforge/internal/common/metrics"
	"labelforge/internal/generation"
	"labelforge/internal/markets"
	"labelforge/internal/models"
	"labelforge/internal/retry"
)

const (
	auditTimeout      = 10 * time.Second
	auditRetries      = 3 // first try plus two retries
	criticalMaxTokens = 600
)

// crisisNotifier dispatches post-assembly alerts.
type crisisNotifier interface {
	NotifyCrisis(ctx context.Context, resp *models.CrisisResponse)
}

// CrisisOrchestrator runs the multi-artifact fan-out: revised labels per
// affected market, communication materials per (market, type) pair, and a
// deterministic action plan and impact estimate. Sub-task failures degrade
// to static fallbacks, so assembly always completes within the budget.
type CrisisOrchestrator struct {
	generator  generator
	translator translator
	store      artifactStore
	notifier   crisisNotifier
	cfg        *config.Config
	logger     logger.Logger
}

func NewCrisisOrchestrator(gen generator, tr translator, store artifactStore, notifier crisisNotifier, cfg *config.Config, log logger.Logger) *CrisisOrchestrator {
	return &CrisisOrchestrator{
		generator:  gen,
		translator: tr,
		store:      store,
		notifier:   notifier,
		cfg:        cfg,
		logger:     log.WithFields(map[string]interface{}{"component": "crisis-orchestrator"}),
	}
}

// Respond assembles the full crisis bundle for a scenario.
func (o *CrisisOrchestrator) Respond(ctx context.Context, scenario *models.CrisisScenario) (*models.CrisisResponse, error) {
	guard := NewDeadlineGuard(o.cfg.Deadlines.CrisisBudget())
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Deadlines.CrisisBudget())
	defer cancel()

	// Each affected market owns exactly one label slot and one material slot
	// per type, so repeated codes collapse to a single membership.
	affected := make([]markets.Market, 0, len(scenario.AffectedMarkets))
	seen := make(map[string]struct{}, len(scenario.AffectedMarkets))
	for _, code := range scenario.AffectedMarkets {
		market, ok := markets.Resolve(code)
		if !ok {
			return nil, commonerrors.NewUnsupportedMarketError(code)
		}
		if _, dup := seen[market.Code]; dup {
			continue
		}
		seen[market.Code] = struct{}{}
		affected = append(affected, market)
	}

	opts := o.subtaskOptions(scenario.Severity)
	product := strings.Join(scenario.AffectedProducts, ", ")

	// Pre-keyed slots: every goroutine owns exactly one index, so assembly
	// needs no locking and keeps a deterministic order.
	labels := make([]models.Label, len(affected))
	materials := make([]models.CommunicationMaterial, len(affected)*len(models.MaterialTypes))

	var wg sync.WaitGroup
	for i, market := range affected {
		wg.Add(1)
		go func(slot int, market markets.Market) {
			defer wg.Done()
			labels[slot] = o.reviseLabel(ctx, scenario, product, market, opts)
		}(i, market)

		for j, materialType := range models.MaterialTypes {
			wg.Add(1)
			go func(slot int, market markets.Market, materialType string) {
				defer wg.Done()
				materials[slot] = o.draftMaterial(ctx, scenario, market, materialType, opts)
			}(i*len(models.MaterialTypes)+j, market, materialType)
		}
	}
	wg.Wait()

	resp := &models.CrisisResponse{
		ID:             uuid.New().String(),
		Scenario:       *scenario,
		RevisedLabels:  make(map[string]models.Label, len(labels)),
		Communications: materials,
		ActionPlan:     buildActionPlan(scenario),
		ImpactEstimate: buildImpactEstimate(scenario),
		GeneratedAt:    time.Now().UTC(),
	}
	for _, label := range labels {
		resp.RevisedLabels[label.Market] = label
	}

	// The bundle is already in the caller's hands; the audit record and the
	// alerts must not hold the response hostage.
	go o.auditWrite(resp)
	if o.notifier != nil {
		go o.notifier.NotifyCrisis(context.Background(), resp)
	}

	o.logger.Info("crisis response assembled", map[string]interface{}{
		"crisisId":  resp.ID,
		"severity":  scenario.Severity,
		"labels":    len(resp.RevisedLabels),
		"materials": len(resp.Communications),
		"elapsedMs": guard.Elapsed().Milliseconds(),
	})
	return resp, nil
}

// subtaskOptions caps the per-subtask budget by severity: the worse the
// incident, the less time any one artifact is allowed to burn.
func (o *CrisisOrchestrator) subtaskOptions(severity string) generation.Options {
	opts := generation.Options{
		MaxAttempts:      o.cfg.Retry.MaxAttempts,
		BackoffBase:      o.cfg.Retry.BackoffBaseDelay(),
		AttemptTimeout:   time.Duration(o.cfg.GenAI.AttemptTimeout) * time.Millisecond,
		MaxTokens:        o.cfg.GenAI.MaxTokens,
		Temperature:      o.cfg.GenAI.Temperature,
		Model:            o.cfg.GenAI.Model,
		RequireNutrition: false,
		Path:             "crisis",
	}
	switch severity {
	case models.SeverityCritical:
		opts.MaxAttempts = 1
		opts.MaxTokens = criticalMaxTokens
	case models.SeverityHigh:
		if opts.MaxAttempts > 2 {
			opts.MaxAttempts = 2
		}
	}
	return opts
}

func (o *CrisisOrchestrator) reviseLabel(ctx context.Context, scenario *models.CrisisScenario, product string, market markets.Market, opts generation.Options) models.Label {
	prompt := generation.BuildCrisisLabelPrompt(scenario, product, market)
	result, err := o.generator.Generate(ctx, prompt, opts)
	if err != nil {
		metrics.CrisisFallbacks.WithLabelValues("label").Inc()
		o.logger.WithError(err).Warn("crisis label degraded to template", map[string]interface{}{
			"market": market.Code,
		})
		result = fallbackLabelResult(scenario, product)
	}

	var translated *models.TranslatedSections
	if sections, terr := o.translator.Translate(result, market); terr == nil {
		translated = sections
	} else {
		metrics.TranslationsDegraded.WithLabelValues(market.Code).Inc()
	}

	return models.Label{
		ID:          uuid.New().String(),
		Market:      market.Code,
		Language:    market.Language,
		ProductName: product,
		Content:     *result,
		Translated:  translated,
		GeneratedBy: "crisis",
		CreatedAt:   time.Now().UTC(),
	}
}

func (o *CrisisOrchestrator) draftMaterial(ctx context.Context, scenario *models.CrisisScenario, market markets.Market, materialType string, opts generation.Options) models.CommunicationMaterial {
	prompt := generation.BuildMaterialPrompt(scenario, market, materialType)
	body, err := o.generator.GenerateText(ctx, prompt, opts)
	if err != nil {
		metrics.CrisisFallbacks.WithLabelValues("material").Inc()
		o.logger.WithError(err).Warn("crisis material degraded to template", map[string]interface{}{
			"market":       market.Code,
			"materialType": materialType,
		})
		body = fallbackMaterial(scenario, market, materialType)
	}

	return models.CommunicationMaterial{
		Type:           materialType,
		Market:         market.Code,
		Language:       markets.SourceLanguage,
		Body:           body,
		Urgency:        scenario.Severity,
		RequiresReview: requiresReview(materialType, scenario.Severity),
	}
}

// Press releases and regulatory notices always get human review; lower
// stakes materials only when the incident is high or critical.
func requiresReview(materialType, severity string) bool {
	if materialType == models.MaterialPressRelease || materialType == models.MaterialRegulatoryNotice {
		return true
	}
	return models.SeverityRank[severity] >= models.SeverityRank[models.SeverityHigh]
}

// auditWrite persists the bundle off the request path. It retries a small
// fixed number of times; final failure is observed, never surfaced.
func (o *CrisisOrchestrator) auditWrite(resp *models.CrisisResponse) {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	policy := retry.Policy{
		MaxAttempts: auditRetries,
		BackoffBase: o.cfg.Retry.BackoffBaseDelay(),
		Retryable: func(err error) bool {
			return !commonerrors.IsCode(err, commonerrors.ErrCodeDuplicateArtifact)
		},
	}

	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		return o.store.PutCrisisResponse(ctx, resp)
	}, nil)
	if err != nil {
		metrics.AuditWriteFailures.Inc()
		o.logger.WithError(err).Error("crisis audit write failed", map[string]interface{}{
			"crisisId": resp.ID,
		})
	}
}
