// internal/server/handlers.go
package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/models"
)

func (s *Server) handleGenerateLabel(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, commonerrors.NewMalformedRequestError(err))
		return
	}
	if err := ValidateGenerationRequest(&req); err != nil {
		respondError(c, err)
		return
	}

	label, err := s.single.Generate(c.Request.Context(), &req)
	if err != nil {
		s.logger.WithError(err).Warn("label generation failed", map[string]interface{}{
			"market":  req.Market,
			"product": req.ProductName,
		})
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, label)
}

func (s *Server) handleCrisisRespond(c *gin.Context) {
	var scenario models.CrisisScenario
	if err := c.ShouldBindJSON(&scenario); err != nil {
		respondError(c, commonerrors.NewMalformedRequestError(err))
		return
	}
	if err := ValidateCrisisScenario(&scenario); err != nil {
		respondError(c, err)
		return
	}

	resp, err := s.crisis.Respond(c.Request.Context(), &scenario)
	if err != nil {
		s.logger.WithError(err).Warn("crisis response failed", map[string]interface{}{
			"crisisType": scenario.CrisisType,
			"severity":   scenario.Severity,
		})
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (s *Server) handleGetLabel(c *gin.Context) {
	label, err := s.reader.GetLabel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, label)
}

func (s *Server) handleListLabels(c *gin.Context) {
	market := c.Query("market")
	if market != "" {
		if err := validateMarketParam(market); err != nil {
			respondError(c, err)
			return
		}
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(c, commonerrors.NewRequestValidationError("limit must be an integer between 1 and 100"))
			return
		}
		limit = parsed
	}

	labels, err := s.reader.ListLabels(c.Request.Context(), market, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"labels": labels,
		"count":  len(labels),
	})
}

func (s *Server) handleGetCrisis(c *gin.Context) {
	resp, err := s.reader.GetCrisisResponse(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}
