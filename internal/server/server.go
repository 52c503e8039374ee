// internal/server/server.go
// Package server exposes the HTTP surface: generation endpoints, the read
// side, health, and metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"labelforge/internal/common/config"
	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/common/logger"
	"labelforge/internal/models"
)

// labelGenerator is the standard-path orchestrator dependency.
type labelGenerator interface {
	Generate(ctx context.Context, req *models.GenerationRequest) (*models.Label, error)
}

// crisisResponder is the crisis-path orchestrator dependency.
type crisisResponder interface {
	Respond(ctx context.Context, scenario *models.CrisisScenario) (*models.CrisisResponse, error)
}

// artifactReader serves the read side.
type artifactReader interface {
	GetLabel(ctx context.Context, id string) (*models.Label, error)
	ListLabels(ctx context.Context, market string, limit int) ([]models.Label, error)
	GetCrisisResponse(ctx context.Context, id string) (*models.CrisisResponse, error)
}

// telemetry records per-request outcomes and latency.
type telemetry interface {
	RecordOutcome(ctx context.Context, path, outcome string)
	RecordDuration(ctx context.Context, path string, duration time.Duration, outcome string)
}

type Server struct {
	router  *gin.Engine
	single  labelGenerator
	crisis  crisisResponder
	reader  artifactReader
	cfg     *config.Config
	logger  logger.Logger
	healthy func(ctx context.Context) map[string]string
	tel     telemetry
}

// Option tweaks optional server wiring.
type Option func(*Server)

// WithHealthCheck installs per-dependency health probes surfaced by /healthz.
func WithHealthCheck(fn func(ctx context.Context) map[string]string) Option {
	return func(s *Server) { s.healthy = fn }
}

// WithTelemetry records request outcomes and latency per route.
func WithTelemetry(tel telemetry) Option {
	return func(s *Server) { s.tel = tel }
}

func New(single labelGenerator, crisis crisisResponder, reader artifactReader, cfg *config.Config, log logger.Logger, opts ...Option) *Server {
	s := &Server{
		single: single,
		crisis: crisis,
		reader: reader,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "http"}),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.corsMiddleware())
	if s.tel != nil {
		router.Use(s.telemetryMiddleware())
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/labels/generate", s.handleGenerateLabel)
		v1.GET("/labels", s.handleListLabels)
		v1.GET("/labels/:id", s.handleGetLabel)
		v1.POST("/crisis/respond", s.handleCrisisRespond)
		v1.GET("/crisis/:id", s.handleGetCrisis)
	}

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		respondError(c, commonerrors.NewMethodNotAllowedError(c.Request.Method))
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   string(commonerrors.ErrCodeArtifactNotFound),
			"message": "No such route",
		})
	})

	s.router = router
	return s
}

// Handler returns the http.Handler for the service.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	origin := s.cfg.Server.CORSAllowOrigin
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) telemetryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		outcome := "success"
		if c.Writer.Status() >= http.StatusBadRequest {
			outcome = "failure"
		}
		s.tel.RecordOutcome(c.Request.Context(), path, outcome)
		s.tel.RecordDuration(c.Request.Context(), path, time.Since(start), outcome)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	payload := gin.H{"status": "ok"}
	if s.healthy != nil {
		deps := s.healthy(c.Request.Context())
		payload["dependencies"] = deps
		for _, state := range deps {
			if state != "ok" {
				payload["status"] = "degraded"
			}
		}
	}
	c.JSON(http.StatusOK, payload)
}

// ==========================
// Response envelope
// ==========================

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, err error) {
	std := commonerrors.AsStandard(err)
	body := gin.H{
		"success": false,
		"error":   string(std.Code),
		"message": std.Message,
	}
	if std.Details != "" {
		body["details"] = std.Details
	}
	c.JSON(commonerrors.StatusFor(err), body)
}
