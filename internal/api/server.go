// Package api exposes the HTTP surface: collection trigger, insight
// queries, ad-hoc verification, health, and metrics.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/marketbeacon/marketbeacon/internal/collector"
	"github.com/marketbeacon/marketbeacon/internal/insights"
	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/verify"
)

// Server is the HTTP API over the collector, the insights engine, and
// the verifier.
type Server struct {
	collector *collector.Collector
	engine    *insights.Engine
	verifier  *verify.Verifier
	logger    *zap.Logger
	metrics   *metrics
	router    *gin.Engine
}

// New builds the server and its routes. The Prometheus registry is
// injected so tests get an isolated one.
func New(c *collector.Collector, e *insights.Engine, v *verify.Verifier, reg *prometheus.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		collector: c,
		engine:    e,
		verifier:  v,
		logger:    logger,
		metrics:   newMetrics(reg),
		router:    router,
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/collect", s.handleCollect)
		v1.GET("/insights", s.handleInsights)
		v1.POST("/verify", s.handleVerify)
	}

	return s
}

// Handler returns the http.Handler for mounting
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleCollect runs one collection cycle synchronously and returns
// its summary. Unreachable sources surface in the warning field, not
// as an HTTP error.
func (s *Server) handleCollect(c *gin.Context) {
	result, err := s.collector.Collect(c.Request.Context())
	if err != nil {
		s.logger.Error("collection cycle failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "collection failed"})
		return
	}

	s.metrics.cyclesTotal.Inc()
	s.metrics.articlesAdded.Add(float64(result.ArticlesAdded))
	s.metrics.cycleDuration.Observe(result.Duration.Seconds())

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleInsights(c *gin.Context) {
	view, err := s.engine.Build(c.Request.Context())
	if err != nil {
		s.logger.Error("insight build failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "insight build failed"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// verifyResponse scales the internal 0-1 confidence onto the 0-100
// scale used everywhere clients see confidence.
type verifyResponse struct {
	IsValid    bool     `json:"is_valid"`
	Confidence int      `json:"confidence"`
	Issues     []string `json:"issues"`
}

func (s *Server) handleVerify(c *gin.Context) {
	var cand model.CandidateArticle
	if err := c.ShouldBindJSON(&cand); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate payload: " + err.Error()})
		return
	}

	v := s.verifier.Verify(cand)

	outcome := "rejected"
	if v.IsValid {
		outcome = "admitted"
	}
	s.metrics.verifyRequests.WithLabelValues(outcome).Inc()

	c.JSON(http.StatusOK, verifyResponse{
		IsValid:    v.IsValid,
		Confidence: int(v.Confidence * 100),
		Issues:     v.Issues,
	})
}
