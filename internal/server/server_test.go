// internal/server/server_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelforge/internal/common/config"
	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/common/logger"
	"labelforge/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSingle struct {
	label *models.Label
	err   error
}

func (s *stubSingle) Generate(_ context.Context, req *models.GenerationRequest) (*models.Label, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.label != nil {
		return s.label, nil
	}
	return &models.Label{
		ID:          "lbl-test",
		Market:      req.Market,
		Language:    "en",
		ProductName: req.ProductName,
		GeneratedBy: "standard",
		CreatedAt:   time.Now().UTC(),
	}, nil
}

type stubCrisis struct {
	resp *models.CrisisResponse
	err  error
}

func (s *stubCrisis) Respond(_ context.Context, scenario *models.CrisisScenario) (*models.CrisisResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.resp != nil {
		return s.resp, nil
	}
	return &models.CrisisResponse{
		ID:          "cr-test",
		Scenario:    *scenario,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

type stubReader struct {
	label  *models.Label
	labels []models.Label
	crisis *models.CrisisResponse
	err    error
}

func (s *stubReader) GetLabel(_ context.Context, id string) (*models.Label, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.label, nil
}

func (s *stubReader) ListLabels(_ context.Context, market string, limit int) ([]models.Label, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.labels, nil
}

func (s *stubReader) GetCrisisResponse(_ context.Context, id string) (*models.CrisisResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.crisis, nil
}

func newTestServer(single labelGenerator, crisis crisisResponder, reader artifactReader) *Server {
	cfg := &config.Config{}
	return New(single, crisis, reader, cfg, logger.NewNoOpLogger())
}

func doRequest(s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func validGenerationBody() map[string]interface{} {
	return map[string]interface{}{
		"productName": "Test Juice",
		"ingredients": []string{"Water", "Sugar", "Apple Juice"},
		"allergens":   []string{},
		"nutritionFacts": map[string]interface{}{
			"energy": map[string]interface{}{"value": 180, "unit": "kJ"},
		},
		"market": "EU",
	}
}

func validCrisisBody() map[string]interface{} {
	return map[string]interface{}{
		"crisisType":       "allergen",
		"severity":         "high",
		"affectedProducts": []string{"Granola Mix"},
		"affectedMarkets":  []string{"US", "BR"},
		"description":      "Undeclared peanuts detected in a production sample.",
	}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGenerateLabelSuccess(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	w := doRequest(s, http.MethodPost, "/api/v1/labels/generate", validGenerationBody())
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "lbl-test", data["id"])
	assert.Equal(t, "EU", data["market"])
}

func TestGenerateLabelMalformedBody(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/labels/generate", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, string(commonerrors.ErrCodeMalformedRequest), body["error"])
}

func TestGenerateLabelValidationFailure(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	payload := validGenerationBody()
	payload["ingredients"] = []string{}

	w := doRequest(s, http.MethodPost, "/api/v1/labels/generate", payload)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, string(commonerrors.ErrCodeRequestValidationFailed), body["error"])
}

func TestGenerateLabelUnknownMarket(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	payload := validGenerationBody()
	payload["market"] = "XX"

	w := doRequest(s, http.MethodPost, "/api/v1/labels/generate", payload)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, string(commonerrors.ErrCodeUnsupportedMarket), body["error"])
}

func TestGenerateLabelUpstreamFailure(t *testing.T) {
	s := newTestServer(&stubSingle{
		err: commonerrors.NewGenerationFailedError(3, commonerrors.NewGenerationUnavailableError(nil)),
	}, &stubCrisis{}, &stubReader{})

	w := doRequest(s, http.MethodPost, "/api/v1/labels/generate", validGenerationBody())
	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, string(commonerrors.ErrCodeGenerationFailed), body["error"])
}

func TestGenerateLabelDeadline(t *testing.T) {
	s := newTestServer(&stubSingle{
		err: commonerrors.NewDeadlineExceededError(14 * time.Second),
	}, &stubCrisis{}, &stubReader{})

	w := doRequest(s, http.MethodPost, "/api/v1/labels/generate", validGenerationBody())
	require.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestCrisisRespondSuccess(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	w := doRequest(s, http.MethodPost, "/api/v1/crisis/respond", validCrisisBody())
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "cr-test", data["id"])
}

func TestCrisisRespondBadEnum(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	payload := validCrisisBody()
	payload["crisisType"] = "weather"

	w := doRequest(s, http.MethodPost, "/api/v1/crisis/respond", payload)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCrisisRespondUnknownMarket(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	payload := validCrisisBody()
	payload["affectedMarkets"] = []string{"US", "ZZ"}

	w := doRequest(s, http.MethodPost, "/api/v1/crisis/respond", payload)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, string(commonerrors.ErrCodeUnsupportedMarket), body["error"])
}

func TestGetLabelNotFound(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{
		err: commonerrors.NewArtifactNotFoundError("missing"),
	})

	w := doRequest(s, http.MethodGet, "/api/v1/labels/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLabelSuccess(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{
		label: &models.Label{ID: "lbl-9", Market: "US"},
	})

	w := doRequest(s, http.MethodGet, "/api/v1/labels/lbl-9", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "lbl-9", data["id"])
}

func TestListLabelsRejectsBadLimit(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	w := doRequest(s, http.MethodGet, "/api/v1/labels?limit=0", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListLabelsRejectsUnknownMarketFilter(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	w := doRequest(s, http.MethodGet, "/api/v1/labels?market=XX", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListLabelsSuccess(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{
		labels: []models.Label{{ID: "a", Market: "US"}, {ID: "b", Market: "US"}},
	})

	w := doRequest(s, http.MethodGet, "/api/v1/labels?market=US&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	w := doRequest(s, http.MethodDelete, "/api/v1/labels/generate", nil)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, string(commonerrors.ErrCodeMethodNotAllowed), body["error"])
}

func TestOptionsPreflight(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	w := doRequest(s, http.MethodOptions, "/api/v1/labels/generate", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&stubSingle{}, &stubCrisis{}, &stubReader{})

	w := doRequest(s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthzDegraded(t *testing.T) {
	s := New(&stubSingle{}, &stubCrisis{}, &stubReader{}, &config.Config{}, logger.NewNoOpLogger(),
		WithHealthCheck(func(context.Context) map[string]string {
			return map[string]string{"postgres": "ok", "redis": "unreachable"}
		}))

	w := doRequest(s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "degraded", body["status"])
}

type recordingTelemetry struct {
	outcomes  []string
	paths     []string
	durations int
}

func (r *recordingTelemetry) RecordOutcome(_ context.Context, path, outcome string) {
	r.paths = append(r.paths, path)
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingTelemetry) RecordDuration(_ context.Context, _ string, _ time.Duration, _ string) {
	r.durations++
}

func TestTelemetryRecordsOutcomePerRoute(t *testing.T) {
	tel := &recordingTelemetry{}
	s := New(&stubSingle{}, &stubCrisis{}, &stubReader{err: commonerrors.NewArtifactNotFoundError("missing")},
		&config.Config{}, logger.NewNoOpLogger(), WithTelemetry(tel))

	doRequest(s, http.MethodPost, "/api/v1/labels/generate", validGenerationBody())
	doRequest(s, http.MethodGet, "/api/v1/labels/missing", nil)

	require.Len(t, tel.outcomes, 2)
	assert.Equal(t, []string{"success", "failure"}, tel.outcomes)
	assert.Equal(t, []string{"/api/v1/labels/generate", "/api/v1/labels/:id"}, tel.paths)
	assert.Equal(t, 2, tel.durations)
}
