// internal/orchestrator/single.go
// Package orchestrator coordinates the generation pipelines: the standard
// single-label path and the crisis fan-out.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"labelforge/internal/common/config"
	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/common/logger"
	"labelforge/internal/common/metrics"
	"labelforge/internal/generation"
	"labelforge/internal/markets"
	"labelforge/internal/models"
)

// generator is the retrying generation dependency, stubbed in tests.
type generator interface {
	Generate(ctx context.Context, prompt string, opts generation.Options) (*models.GenerationResult, error)
	GenerateText(ctx context.Context, prompt string, opts generation.Options) (string, error)
}

// translator produces the deterministic translated sections.
type translator interface {
	Translate(result *models.GenerationResult, market markets.Market) (*models.TranslatedSections, error)
}

// artifactStore is the create-only persistence dependency.
type artifactStore interface {
	PutLabel(ctx context.Context, label *models.Label) error
	PutCrisisResponse(ctx context.Context, resp *models.CrisisResponse) error
}

// SingleOrchestrator runs the standard label path: validate, generate with
// bounded retry, translate when the market requires it, persist. The
// request either yields a durable label or a classified error; a fired
// deadline wins over both.
type SingleOrchestrator struct {
	generator  generator
	translator translator
	store      artifactStore
	cfg        *config.Config
	logger     logger.Logger
}

func NewSingleOrchestrator(gen generator, tr translator, store artifactStore, cfg *config.Config, log logger.Logger) *SingleOrchestrator {
	return &SingleOrchestrator{
		generator:  gen,
		translator: tr,
		store:      store,
		cfg:        cfg,
		logger:     log.WithFields(map[string]interface{}{"component": "single-orchestrator"}),
	}
}

// Generate produces and persists one label for one market.
func (o *SingleOrchestrator) Generate(ctx context.Context, req *models.GenerationRequest) (*models.Label, error) {
	guard := NewDeadlineGuard(o.cfg.Deadlines.StandardBudget())
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Deadlines.StandardBudget())
	defer cancel()

	market, ok := markets.Resolve(req.Market)
	if !ok {
		return nil, commonerrors.NewUnsupportedMarketError(req.Market)
	}

	result, err := o.generate(ctx, req, market)
	if err != nil {
		return nil, o.timeoutWins(guard, err)
	}

	translated := o.translate(result, market)

	if err := guard.Check(); err != nil {
		// Too late to hand the artifact back; nothing is persisted.
		return nil, err
	}

	label := &models.Label{
		ID:          uuid.New().String(),
		Market:      market.Code,
		Language:    market.Language,
		ProductName: req.ProductName,
		Content:     *result,
		Translated:  translated,
		GeneratedBy: "standard",
		CreatedAt:   time.Now().UTC(),
	}

	persistStart := time.Now()
	if err := o.store.PutLabel(ctx, label); err != nil {
		return nil, o.timeoutWins(guard, err)
	}
	metrics.StageDuration.WithLabelValues("persist").Observe(time.Since(persistStart).Seconds())

	o.logger.Info("label generated", map[string]interface{}{
		"labelId":    label.ID,
		"market":     label.Market,
		"translated": translated != nil,
		"elapsedMs":  guard.Elapsed().Milliseconds(),
	})
	return label, nil
}

func (o *SingleOrchestrator) generate(ctx context.Context, req *models.GenerationRequest, market markets.Market) (*models.GenerationResult, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	}()

	prompt := generation.BuildLabelPrompt(req, market)
	return o.generator.Generate(ctx, prompt, generation.Options{
		MaxAttempts:      o.cfg.Retry.MaxAttempts,
		BackoffBase:      o.cfg.Retry.BackoffBaseDelay(),
		AttemptTimeout:   time.Duration(o.cfg.GenAI.AttemptTimeout) * time.Millisecond,
		MaxTokens:        o.cfg.GenAI.MaxTokens,
		Temperature:      o.cfg.GenAI.Temperature,
		Model:            o.cfg.GenAI.Model,
		RequireNutrition: true,
		Path:             "standard",
	})
}

// translate runs the deterministic pass. A degraded translation keeps the
// source-language label usable, so failures only log and count.
func (o *SingleOrchestrator) translate(result *models.GenerationResult, market markets.Market) *models.TranslatedSections {
	start := time.Now()
	sections, err := o.translator.Translate(result, market)
	metrics.StageDuration.WithLabelValues("translate").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TranslationsDegraded.WithLabelValues(market.Code).Inc()
		o.logger.WithError(err).Warn("translation degraded, keeping source language sections", map[string]interface{}{
			"market": market.Code,
		})
	}
	if sections != nil && sections.IngredientsText == "" && sections.AllergensText == "" &&
		sections.Marketing == "" && len(sections.Warnings) == 0 && len(sections.ComplianceNotes) == 0 {
		return nil
	}
	return sections
}

// timeoutWins replaces any in-flight error once the guard has fired.
func (o *SingleOrchestrator) timeoutWins(guard *DeadlineGuard, err error) error {
	if guardErr := guard.Check(); guardErr != nil {
		return guardErr
	}
	return err
}
