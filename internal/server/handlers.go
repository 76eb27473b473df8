package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/trendscout/internal/app"
	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/scraper"
)

// Pipeline is the query surface served over HTTP.
type Pipeline interface {
	Trending(ctx context.Context, q app.TrendingQuery) ([]domain.Repository, error)
	Analyze(ctx context.Context, q app.AnalyzeQuery) (domain.PageMetadata, error)
	ClearCache(ctx context.Context) error
}

// Handler serves the API routes.
type Handler struct {
	pipeline Pipeline
}

// NewHandler creates a Handler.
func NewHandler(p Pipeline) *Handler {
	return &Handler{pipeline: p}
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	v1.GET("/trending", h.Trending)
	v1.GET("/metadata", h.Metadata)
	v1.DELETE("/cache", h.ClearCache)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Trending serves GET /api/v1/trending.
func (h *Handler) Trending(c *gin.Context) {
	q, err := trendingQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	repos, err := h.pipeline.Trending(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, repos)
}

// Metadata serves GET /api/v1/metadata.
func (h *Handler) Metadata(c *gin.Context) {
	q, err := analyzeQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	meta, err := h.pipeline.Analyze(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// ClearCache serves DELETE /api/v1/cache.
func (h *Handler) ClearCache(c *gin.Context) {
	if err := h.pipeline.ClearCache(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case app.IsEnrichmentUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, scraper.ErrTrendingFetch), errors.Is(err, scraper.ErrContentFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func trendingQuery(c *gin.Context) (app.TrendingQuery, error) {
	period, err := domain.ParsePeriod(c.Query("period"))
	if err != nil {
		return app.TrendingQuery{}, err
	}
	limit := domain.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return app.TrendingQuery{}, fmt.Errorf("%w: limit %q is not a number", domain.ErrInvalidInput, raw)
		}
	}
	enrich, length, err := enrichParams(c)
	if err != nil {
		return app.TrendingQuery{}, err
	}

	return app.TrendingQuery{
		Language:      c.Query("language"),
		Period:        period,
		Limit:         limit,
		Topics:        splitList(c.Query("topics")),
		Enrich:        enrich,
		SummaryLength: length,
	}, nil
}

func analyzeQuery(c *gin.Context) (app.AnalyzeQuery, error) {
	pageURL := c.Query("url")
	if pageURL == "" {
		return app.AnalyzeQuery{}, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	depth, err := domain.ParseDepth(c.Query("depth"))
	if err != nil {
		return app.AnalyzeQuery{}, err
	}
	images, err := boolParam(c, "images")
	if err != nil {
		return app.AnalyzeQuery{}, err
	}
	var timeout time.Duration
	if raw := c.Query("timeout"); raw != "" {
		ms, convErr := strconv.Atoi(raw)
		if convErr != nil || ms <= 0 {
			return app.AnalyzeQuery{}, fmt.Errorf("%w: timeout %q must be a positive number of milliseconds", domain.ErrInvalidInput, raw)
		}
		timeout = time.Duration(ms) * time.Millisecond
	}
	enrich, length, err := enrichParams(c)
	if err != nil {
		return app.AnalyzeQuery{}, err
	}

	return app.AnalyzeQuery{
		URL:           pageURL,
		Depth:         depth,
		IncludeImages: images,
		Timeout:       timeout,
		Enrich:        enrich,
		SummaryLength: length,
	}, nil
}

// enrichParams reads ai and summary_length. An empty summary_length keeps
// the configured default.
func enrichParams(c *gin.Context) (bool, domain.SummaryLength, error) {
	enrich, err := boolParam(c, "ai")
	if err != nil {
		return false, "", err
	}
	raw := c.Query("summary_length")
	if raw == "" {
		return enrich, "", nil
	}
	length, err := domain.ParseSummaryLength(raw)
	return enrich, length, err
}

func boolParam(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s %q is not a boolean", domain.ErrInvalidInput, name, raw)
	}
	return v, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
