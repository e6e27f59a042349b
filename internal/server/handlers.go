package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/picklr-io/planrisk/internal/logging"
	"github.com/picklr-io/planrisk/internal/metrics"
	"github.com/picklr-io/planrisk/internal/planfile"
	"github.com/picklr-io/planrisk/internal/pricing"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze handles POST /v1/analyze. The body is a Terraform JSON plan.
func (s *Server) handleAnalyze(c *gin.Context) {
	requestID := getOrCreateRequestID(c)

	if s.limiter != nil && !s.limiter.Allow() {
		metrics.ObserveRejected("rate_limited")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.ObserveRejected("too_large")
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "plan exceeds size limit"})
			return
		}
		metrics.ObserveRejected("read_error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	plan, err := planfile.Parse(body)
	if err != nil {
		if errors.Is(err, planfile.ErrMalformedInput) {
			metrics.ObserveRejected("malformed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logging.Error("plan parse failed", "request_id", requestID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	start := time.Now()
	analysis := s.engine.Analyze(plan)
	metrics.ObserveAnalysis(analysis, time.Since(start))

	logging.Info("plan analyzed",
		"request_id", requestID,
		"resources", analysis.TotalResources,
		"overall_risk", analysis.OverallRiskLevel,
	)
	c.JSON(http.StatusOK, analysis)
}

// handlePricing handles GET /v1/pricing: the effective price table by type.
func (s *Server) handlePricing(c *gin.Context) {
	prices := s.engine.Prices()
	out := make(map[string][]pricing.Entry)
	for _, typ := range prices.Types() {
		out[typ] = prices.Entries(typ)
	}
	c.JSON(http.StatusOK, out)
}

// getOrCreateRequestID gets or creates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
