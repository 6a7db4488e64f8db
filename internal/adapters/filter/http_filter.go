package filter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/taxonomy"
	"go.uber.org/zap"
)

// HTTPFilter exposes the triage service as a JSON API
type HTTPFilter struct {
	service    Classifier
	tree       *taxonomy.Tree
	logger     *zap.Logger
	listenAddr string
	maxBatch   int
	engine     *gin.Engine
	server     *http.Server
}

type batchRequest struct {
	Emails []*core.Email `json:"emails"`
}

type batchResponse struct {
	Count   int                          `json:"count"`
	Results []*core.ClassificationResult `json:"results"`
}

type labelMatch struct {
	Label string   `json:"label"`
	Path  []string `json:"path"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPFilter creates a new HTTP API filter
func NewHTTPFilter(service Classifier, tree *taxonomy.Tree, logger *zap.Logger, listenAddr string, maxBatch int) *HTTPFilter {
	f := &HTTPFilter{
		service:    service,
		tree:       tree,
		logger:     logger,
		listenAddr: listenAddr,
		maxBatch:   maxBatch,
	}
	f.engine = f.routes()
	return f
}

// Handler returns the router, mostly for tests
func (f *HTTPFilter) Handler() http.Handler {
	return f.engine
}

func (f *HTTPFilter) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), f.requestLogger())

	api := r.Group("/api")
	api.POST("/classify", f.classify)
	api.POST("/classify/batch", f.classifyBatch)
	api.POST("/debug", f.debug)
	api.GET("/labels", f.labels)
	api.GET("/stats", f.stats)
	api.POST("/stats/reset", f.resetStats)
	api.GET("/health", f.health)
	return r
}

func (f *HTTPFilter) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		f.logger.Debug("Handled request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Start starts the HTTP server in the background
func (f *HTTPFilter) Start() error {
	f.server = &http.Server{
		Addr:              f.listenAddr,
		Handler:           f.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	f.logger.Info("HTTP filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts the server down
func (f *HTTPFilter) Stop() error {
	if f.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return f.server.Shutdown(ctx)
}

// ProcessEmail classifies a single email
func (f *HTTPFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error) {
	return f.service.Classify(ctx, email), nil
}

func (f *HTTPFilter) bindEmail(c *gin.Context) (*core.Email, bool) {
	var email core.Email
	if err := c.ShouldBindJSON(&email); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return nil, false
	}
	if email.Subject == "" && email.Body == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "subject or body is required"})
		return nil, false
	}
	return &email, true
}

func (f *HTTPFilter) classify(c *gin.Context) {
	email, ok := f.bindEmail(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, f.service.Classify(c.Request.Context(), email))
}

func (f *HTTPFilter) classifyBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if len(req.Emails) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "emails must not be empty"})
		return
	}
	if f.maxBatch > 0 && len(req.Emails) > f.maxBatch {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{
			Error: fmt.Sprintf("batch of %d exceeds the limit of %d", len(req.Emails), f.maxBatch),
		})
		return
	}
	for i, e := range req.Emails {
		if e == nil {
			req.Emails[i] = &core.Email{}
		}
	}

	results := f.service.ClassifyBatch(c.Request.Context(), req.Emails)
	c.JSON(http.StatusOK, batchResponse{Count: len(results), Results: results})
}

func (f *HTTPFilter) debug(c *gin.Context) {
	email, ok := f.bindEmail(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, f.service.Debug(c.Request.Context(), email))
}

func (f *HTTPFilter) labels(c *gin.Context) {
	if term := c.Query("search"); term != "" {
		matches := []labelMatch{}
		for _, name := range f.tree.Search(term) {
			matches = append(matches, labelMatch{Label: name, Path: f.tree.Path(name)})
		}
		c.JSON(http.StatusOK, gin.H{"query": term, "matches": matches})
		return
	}
	c.JSON(http.StatusOK, gin.H{"info": f.tree.Info(), "hierarchy": f.tree.Export()})
}

func (f *HTTPFilter) stats(c *gin.Context) {
	c.JSON(http.StatusOK, f.service.Stats())
}

func (f *HTTPFilter) resetStats(c *gin.Context) {
	f.service.ResetStats()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (f *HTTPFilter) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "labels": f.tree.Info().TotalLabels})
}
