// internal/generation/generator.go
// Package generation drives the external generative service: prompt
// rendering, the bounded retry loop, and output validation.
package generation

import (
	"context"
	"encoding/json"
	"time"

	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/common/genai"
	"labelforge/internal/common/logger"
	"labelforge/internal/common/metrics"
	"labelforge/internal/models"
	"labelforge/internal/retry"
)

// Options bounds one generation transaction. The crisis path caps attempts
// and tokens by severity to trade completeness for speed.
type Options struct {
	MaxAttempts      int
	BackoffBase      time.Duration
	AttemptTimeout   time.Duration
	MaxTokens        int
	Temperature      float64
	Model            string
	RequireNutrition bool
	Path             string // "standard" or "crisis", for observability
}

// Generator is the unit of idempotence for a single generation call: it
// wraps the generative client with bounded retry and per-attempt output
// validation. Safe for concurrent use.
type Generator struct {
	client genai.Client
	logger logger.Logger
}

func NewGenerator(client genai.Client, log logger.Logger) *Generator {
	return &Generator{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "generator"}),
	}
}

// Generate runs the prompt through the service until a validated result is
// produced or the attempt budget is exhausted. Service faults and output
// validation failures share the same budget. Exhaustion surfaces the
// output-validation error directly when that was the last failure, and an
// aggregated generation-failed error otherwise.
func (g *Generator) Generate(ctx context.Context, prompt string, opts Options) (*models.GenerationResult, error) {
	validator := &ResponseValidator{RequireNutrition: opts.RequireNutrition}

	var result *models.GenerationResult
	err := g.attemptLoop(ctx, prompt, opts, func(raw string) error {
		parsed, err := validator.Validate(raw)
		if err != nil {
			return err
		}
		result = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GenerateText runs the prompt expecting the {"text": string} envelope used
// by crisis communication materials.
func (g *Generator) GenerateText(ctx context.Context, prompt string, opts Options) (string, error) {
	var text string
	err := g.attemptLoop(ctx, prompt, opts, func(raw string) error {
		var envelope struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			return commonerrors.NewOutputMalformedError(err)
		}
		if envelope.Text == "" {
			return commonerrors.NewOutputSchemaViolationError("text", "required field missing or empty")
		}
		text = envelope.Text
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (g *Generator) attemptLoop(ctx context.Context, prompt string, opts Options, accept func(raw string) error) error {
	req := genai.Request{
		Prompt:      prompt,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Model:       opts.Model,
	}

	policy := retry.Policy{
		MaxAttempts: opts.MaxAttempts,
		BackoffBase: opts.BackoffBase,
		Retryable:   commonerrors.IsRetryable,
	}

	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		attemptCtx := ctx
		if opts.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, opts.AttemptTimeout)
			defer cancel()
		}

		metrics.GenerationAttempts.WithLabelValues(opts.Path).Inc()

		raw, err := g.client.Generate(attemptCtx, req)
		if err != nil {
			return err
		}
		return accept(raw)
	}, func(attempt int, elapsed time.Duration, err error) {
		fields := map[string]interface{}{
			"attempt":   attempt,
			"elapsedMs": elapsed.Milliseconds(),
			"path":      opts.Path,
		}
		if err != nil {
			stdErr := commonerrors.AsStandard(err)
			fields["errorCode"] = string(stdErr.Code)
			metrics.GenerationFailures.WithLabelValues(opts.Path, string(stdErr.Code)).Inc()
			g.logger.Warn("generation attempt failed", fields)
			return
		}
		g.logger.Info("generation attempt succeeded", fields)
	})
	if err == nil {
		return nil
	}

	// A schema violation that survives the whole budget surfaces with its
	// field-level message; upstream faults aggregate.
	if commonerrors.IsOutputValidation(err) {
		return err
	}
	return commonerrors.NewGenerationFailedError(opts.MaxAttempts, err)
}
