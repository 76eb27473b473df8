// Package scraper orchestrates cache lookups, network fetches and HTML
// extraction for trending listings and page metadata.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonesrussell/trendscout/internal/cache"
	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/extract"
	"github.com/jonesrussell/trendscout/internal/fetcher"
	"github.com/jonesrussell/trendscout/internal/logger"
	"github.com/jonesrussell/trendscout/internal/metrics"
)

// Defaults used when Config leaves a field unset.
const (
	DefaultTrendingURL     = "https://github.com/trending"
	DefaultTTL             = time.Hour
	DefaultMetadataTimeout = 30 * time.Second
)

const allLanguages = "all"

var (
	// ErrTrendingFetch wraps every failure to download the trending page.
	ErrTrendingFetch = errors.New("failed to retrieve trending repositories")
	// ErrContentFetch wraps every failure to download a page for analysis.
	ErrContentFetch = errors.New("failed to retrieve content")
)

// Config holds orchestrator settings.
type Config struct {
	TrendingURL     string
	TrendingTTL     time.Duration
	MetadataTTL     time.Duration
	MetadataTimeout time.Duration
}

// Params are the collaborators of a Service.
type Params struct {
	Fetcher  fetcher.Fetcher
	Trending cache.Store[[]domain.Repository]
	Metadata cache.Store[domain.PageMetadata]
	Logger   logger.Interface
	Metrics  *metrics.Metrics
	Config   Config
}

// TrendingRequest selects one trending listing.
type TrendingRequest struct {
	// Language is an optional language path segment; empty means all languages.
	Language string
	Period   domain.Period
}

// MetadataRequest selects one page analysis.
type MetadataRequest struct {
	URL           string
	Depth         domain.Depth
	IncludeImages bool
	// Timeout bounds the page download; zero uses the configured default.
	Timeout time.Duration
}

// Service fetches, extracts and caches records.
type Service struct {
	fetcher  fetcher.Fetcher
	trending cache.Store[[]domain.Repository]
	metadata cache.Store[domain.PageMetadata]
	log      logger.Interface
	metrics  *metrics.Metrics
	cfg      Config
	group    singleflight.Group
}

// NewService creates a Service. Nil caches are replaced by unbounded in-memory ones.
func NewService(p Params) *Service {
	cfg := p.Config
	if cfg.TrendingURL == "" {
		cfg.TrendingURL = DefaultTrendingURL
	}
	cfg.TrendingURL = strings.TrimRight(cfg.TrendingURL, "/")
	if cfg.TrendingTTL <= 0 {
		cfg.TrendingTTL = DefaultTTL
	}
	if cfg.MetadataTTL <= 0 {
		cfg.MetadataTTL = DefaultTTL
	}
	if cfg.MetadataTimeout <= 0 {
		cfg.MetadataTimeout = DefaultMetadataTimeout
	}

	s := &Service{
		fetcher:  p.Fetcher,
		trending: p.Trending,
		metadata: p.Metadata,
		log:      p.Logger,
		metrics:  p.Metrics,
		cfg:      cfg,
	}
	if s.trending == nil {
		s.trending = cache.NewTTLCache[[]domain.Repository]()
	}
	if s.metadata == nil {
		s.metadata = cache.NewTTLCache[domain.PageMetadata]()
	}
	if s.log == nil {
		s.log = logger.NewNoOp()
	}
	s.log = s.log.WithComponent("scraper")
	return s
}

// TrendingKey returns the cache key of a trending listing.
func TrendingKey(language string, period domain.Period) string {
	if language == "" {
		language = allLanguages
	}
	return "trending:" + language + ":" + string(period)
}

// MetadataKey returns the cache key of a page analysis.
func MetadataKey(pageURL string, depth domain.Depth) string {
	return "metadata:" + pageURL + ":" + string(depth)
}

// TrendingURL builds the trending page URL for a language and period.
func (s *Service) TrendingURL(language string, period domain.Period) string {
	u := s.cfg.TrendingURL
	if language != "" {
		u += "/" + url.PathEscape(language)
	}
	return u + "?since=" + url.QueryEscape(string(period))
}

// FetchTrending returns the trending listing, from cache when fresh.
// The returned slice is owned by the caller.
func (s *Service) FetchTrending(ctx context.Context, req TrendingRequest) ([]domain.Repository, error) {
	language := strings.TrimSpace(req.Language)
	period := req.Period
	if period == "" {
		period = domain.PeriodDaily
	}
	key := TrendingKey(language, period)

	if repos, ok := s.trending.Get(ctx, key); ok {
		s.metrics.CacheLookup(metrics.KindTrending, true)
		s.log.Debug("Trending cache hit", "key", key, "count", len(repos))
		return slices.Clone(repos), nil
	}
	s.metrics.CacheLookup(metrics.KindTrending, false)

	v, err := s.do(ctx, key, func(ctx context.Context) (any, error) {
		pageURL := s.TrendingURL(language, period)
		start := time.Now()
		body, err := s.fetcher.Fetch(ctx, fetcher.Request{URL: pageURL})
		s.metrics.Fetch(metrics.KindTrending, err, time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTrendingFetch, err)
		}

		repos := extract.Trending(bytes.NewReader(body))
		s.trending.Set(ctx, key, repos, s.cfg.TrendingTTL)
		s.log.Info("Fetched trending repositories",
			"key", key,
			"url", pageURL,
			"count", len(repos),
			"duration", time.Since(start),
		)
		return repos, nil
	})
	if err != nil {
		return nil, err
	}
	repos, _ := v.([]domain.Repository)
	return slices.Clone(repos), nil
}

// FetchMetadata returns the metadata of a page, from cache when fresh.
// Image and icon are only present when req.IncludeImages is set.
func (s *Service) FetchMetadata(ctx context.Context, req MetadataRequest) (domain.PageMetadata, error) {
	if err := ValidateURL(req.URL); err != nil {
		return domain.PageMetadata{}, err
	}
	depth := req.Depth
	if depth == "" {
		depth = domain.DepthNormal
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.cfg.MetadataTimeout
	}
	key := MetadataKey(req.URL, depth)

	if meta, ok := s.metadata.Get(ctx, key); ok {
		s.metrics.CacheLookup(metrics.KindMetadata, true)
		s.log.Debug("Metadata cache hit", "key", key)
		return present(meta, req.IncludeImages), nil
	}
	s.metrics.CacheLookup(metrics.KindMetadata, false)

	v, err := s.do(ctx, key, func(ctx context.Context) (any, error) {
		start := time.Now()
		body, err := s.fetcher.Fetch(ctx, fetcher.Request{URL: req.URL, Timeout: timeout})
		s.metrics.Fetch(metrics.KindMetadata, err, time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrContentFetch, err)
		}

		meta := extract.Metadata(bytes.NewReader(body), req.URL, extract.MetadataOptions{
			Depth:         depth,
			IncludeImages: true,
		})
		s.metadata.Set(ctx, key, meta, s.cfg.MetadataTTL)
		s.log.Info("Fetched page metadata",
			"key", key,
			"bytes", len(body),
			"duration", time.Since(start),
		)
		return meta, nil
	})
	if err != nil {
		return domain.PageMetadata{}, err
	}
	meta, _ := v.(domain.PageMetadata)
	return present(meta, req.IncludeImages), nil
}

// ClearCache empties both record caches.
func (s *Service) ClearCache(ctx context.Context) error {
	return errors.Join(s.trending.Clear(ctx), s.metadata.Clear(ctx))
}

// do runs fn once per key across concurrent callers. The shared call is
// detached from any single caller's cancellation; each caller still stops
// waiting when its own context is done.
func (s *Service) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(shared)
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.log.Debug("Shared in-flight fetch", "key", key)
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// present strips the always-extracted image fields when they were not requested.
func present(meta domain.PageMetadata, includeImages bool) domain.PageMetadata {
	if !includeImages {
		meta.Image = ""
		meta.Icon = ""
	}
	meta.Keywords = slices.Clone(meta.Keywords)
	meta.Tags = slices.Clone(meta.Tags)
	return meta
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: invalid url %q: %w", domain.ErrInvalidInput, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url must be an absolute http(s) url, got %q", domain.ErrInvalidInput, raw)
	}
	return nil
}
