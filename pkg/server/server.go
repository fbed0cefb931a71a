package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smsguard/spam-detector/pkg/config"
	"github.com/smsguard/spam-detector/pkg/detector"
)

// Server exposes the spam detection model over HTTP. It is a thin
// collaborator: it maps transport requests onto the engine and the
// engine's domain errors onto status codes.
type Server struct {
	model  *detector.SpamDetectionModel
	engine *gin.Engine
	http   *http.Server
}

// AnalyzeRequest is the /analyze request body
type AnalyzeRequest struct {
	Text  string `json:"text"`
	Phone string `json:"phone"`
}

// New creates an HTTP server bound to a model
func New(cfg config.ServerConfig, logLevel string, model *detector.SpamDetectionModel) *Server {
	if logLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		model:  model,
		engine: gin.Default(),
	}

	s.engine.POST("/analyze", s.analyze)
	s.engine.POST("/train", s.train)
	s.engine.GET("/health", s.health)
	s.engine.GET("/stats", s.stats)

	s.http = &http.Server{
		Addr:    cfg.Address,
		Handler: s.engine,
	}

	return s
}

// Handler returns the underlying HTTP handler (used by tests)
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails or Shutdown is called
func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %v", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.model.Predict(req.Text, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, detector.ErrMissingInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, detector.ErrNotTrained):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) train(c *gin.Context) {
	var records []detector.TrainingRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be an array of training records"})
		return
	}

	if err := s.model.Train(records); err != nil {
		if errors.Is(err, detector.ErrInvalidDataset) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("model trained on %d samples", len(records)),
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"trained": s.model.Trained(),
	})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.model.Info())
}
