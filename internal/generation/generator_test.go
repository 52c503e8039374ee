// internal/generation/generator_test.go
package generation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/common/genai"
	"labelforge/internal/common/logger"
)

// scriptedClient returns responses in order, one per call.
type scriptedClient struct {
	mu        sync.Mutex
	calls     int
	responses []func() (string, error)
}

func (s *scriptedClient) Generate(_ context.Context, _ genai.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	s.calls++
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx]()
}

func fail(err error) func() (string, error) {
	return func() (string, error) { return "", err }
}

func succeed(raw string) func() (string, error) {
	return func() (string, error) { return raw, nil }
}

func defaultOpts() Options {
	return Options{
		MaxAttempts: 3,
		BackoffBase: time.Millisecond,
		MaxTokens:   1500,
		Temperature: 0.2,
		Model:       "label-gen-1",
		Path:        "standard",
	}
}

func TestGenerateSucceedsAfterTransientFailures(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		fail(commonerrors.NewGenerationUnavailableError(nil)),
		fail(commonerrors.NewGenerationNoContentError()),
		succeed(validRawResult()),
	}}
	g := NewGenerator(client, logger.NewTestLogger(t))

	opts := defaultOpts()
	opts.RequireNutrition = true
	start := time.Now()
	result, err := g.Generate(context.Background(), "prompt", opts)
	require.NoError(t, err)
	assert.Equal(t, 3, client.calls)
	// Backoff before attempts 2 and 3: base + 2*base.
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
	assert.NotEmpty(t, result.LegalLabel.IngredientsText)
}

func TestGenerateExhaustionWrapsLastFault(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		fail(commonerrors.NewGenerationUnavailableError(nil)),
	}}
	g := NewGenerator(client, logger.NewNoOpLogger())

	_, err := g.Generate(context.Background(), "prompt", defaultOpts())
	require.Error(t, err)
	assert.Equal(t, 3, client.calls)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeGenerationFailed))
	// The last upstream fault stays reachable for classification.
	std := commonerrors.AsStandard(err)
	assert.True(t, commonerrors.IsCode(std.Unwrap(), commonerrors.ErrCodeGenerationUnavailable))
}

func TestGenerateSchemaViolationBurnsBudgetAndSurfaces(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		succeed(`{"marketing": "missing everything else"}`),
	}}
	g := NewGenerator(client, logger.NewNoOpLogger())

	_, err := g.Generate(context.Background(), "prompt", defaultOpts())
	require.Error(t, err)
	// Validation failures consume attempts like any other fault.
	assert.Equal(t, 3, client.calls)
	// But exhaustion surfaces the field-level violation, not the aggregate.
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeOutputSchemaViolation))
}

func TestGenerateSingleAttemptNoRetry(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		fail(commonerrors.NewGenerationUnavailableError(nil)),
	}}
	g := NewGenerator(client, logger.NewNoOpLogger())

	opts := defaultOpts()
	opts.MaxAttempts = 1
	_, err := g.Generate(context.Background(), "prompt", opts)
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestGenerateTextEnvelope(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		succeed(`{"text": "Press release body."}`),
	}}
	g := NewGenerator(client, logger.NewNoOpLogger())

	text, err := g.GenerateText(context.Background(), "prompt", defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, "Press release body.", text)
}

func TestGenerateTextRejectsEmptyEnvelope(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		succeed(`{"text": ""}`),
	}}
	g := NewGenerator(client, logger.NewNoOpLogger())

	_, err := g.GenerateText(context.Background(), "prompt", defaultOpts())
	require.Error(t, err)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeOutputSchemaViolation))
}

func TestGenerateContextCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &scriptedClient{responses: []func() (string, error){
		func() (string, error) {
			cancel()
			return "", commonerrors.NewGenerationUnavailableError(ctx.Err())
		},
	}}
	g := NewGenerator(client, logger.NewNoOpLogger())

	_, err := g.Generate(ctx, "prompt", defaultOpts())
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}
