// Package app wires the scrape pipeline from configuration and runs the
// fetch, filter and enrich steps shared by the CLI, HTTP API and scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/trendscout/internal/ai"
	"github.com/jonesrussell/trendscout/internal/cache"
	"github.com/jonesrussell/trendscout/internal/config"
	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/fetcher"
	"github.com/jonesrussell/trendscout/internal/filter"
	"github.com/jonesrussell/trendscout/internal/logger"
	"github.com/jonesrussell/trendscout/internal/metrics"
	"github.com/jonesrussell/trendscout/internal/scraper"
)

// Scraper is the orchestrator surface used by App.
type Scraper interface {
	FetchTrending(ctx context.Context, req scraper.TrendingRequest) ([]domain.Repository, error)
	FetchMetadata(ctx context.Context, req scraper.MetadataRequest) (domain.PageMetadata, error)
	ClearCache(ctx context.Context) error
}

// Enricher is the AI surface used by App.
type Enricher interface {
	EnrichRepositories(ctx context.Context, repos []domain.Repository, length domain.SummaryLength) []domain.Repository
	EnrichMetadata(ctx context.Context, meta domain.PageMetadata, length domain.SummaryLength) domain.PageMetadata
}

// TrendingQuery is one trending request as accepted at the boundary.
type TrendingQuery struct {
	Language      string
	Period        domain.Period
	Limit         int
	Topics        []string
	Enrich        bool
	SummaryLength domain.SummaryLength
}

// AnalyzeQuery is one page analysis request as accepted at the boundary.
type AnalyzeQuery struct {
	URL           string
	Depth         domain.Depth
	IncludeImages bool
	Timeout       time.Duration
	Enrich        bool
	SummaryLength domain.SummaryLength
}

// Params are the collaborators of an App.
type Params struct {
	Scraper  Scraper
	Enricher Enricher
	// EnrichErr explains why Enricher is nil, and is returned to callers
	// that request enrichment.
	EnrichErr     error
	Strategy      filter.Strategy
	SummaryLength domain.SummaryLength
	Logger        logger.Interface
	Closer        io.Closer
}

// App runs queries against the pipeline.
type App struct {
	scraper       Scraper
	enricher      Enricher
	enrichErr     error
	strategy      filter.Strategy
	summaryLength domain.SummaryLength
	log           logger.Interface
	closer        io.Closer
}

// NewWithParams creates an App from explicit collaborators.
func NewWithParams(p Params) *App {
	a := &App{
		scraper:       p.Scraper,
		enricher:      p.Enricher,
		enrichErr:     p.EnrichErr,
		strategy:      p.Strategy,
		summaryLength: p.SummaryLength,
		log:           p.Logger,
		closer:        p.Closer,
	}
	if a.enricher == nil && a.enrichErr == nil {
		a.enrichErr = ai.ErrDisabled
	}
	if a.summaryLength == "" {
		a.summaryLength = domain.SummaryMedium
	}
	if a.log == nil {
		a.log = logger.NewNoOp()
	}
	return a
}

// New builds the full pipeline from cfg: caches (memory or Redis), fetcher,
// orchestrator and, when configured, the AI enricher.
func New(cfg *config.Config, log logger.Interface, m *metrics.Metrics) (*App, error) {
	if log == nil {
		log = logger.NewNoOp()
	}

	strategy, err := filter.ParseStrategy(cfg.Filter.Strategy)
	if err != nil {
		return nil, err
	}
	if strategy == filter.StrategyTopics {
		log.Warn("Topics filter strategy only matches records that carry topics; "+
			"trending listings carry none, so any topic filter will return no repositories",
			"strategy", strategy)
	}
	length, err := domain.ParseSummaryLength(cfg.AI.SummaryLength)
	if err != nil {
		return nil, err
	}

	trending, metadata, closer, err := newStores(cfg.Cache, log)
	if err != nil {
		return nil, err
	}

	svc := scraper.NewService(scraper.Params{
		Fetcher:  fetcher.New(cfg.Fetcher.Config, log),
		Trending: trending,
		Metadata: metadata,
		Logger:   log,
		Metrics:  m,
		Config: scraper.Config{
			TrendingURL:     cfg.Fetcher.TrendingURL,
			TrendingTTL:     cfg.Cache.TrendingTTL,
			MetadataTTL:     cfg.Cache.MetadataTTL,
			MetadataTimeout: cfg.Fetcher.Timeout,
		},
	})

	p := Params{
		Scraper:       svc,
		Strategy:      strategy,
		SummaryLength: length,
		Logger:        log,
		Closer:        closer,
	}
	gen, err := ai.NewGenerator(cfg.AI, log)
	if err != nil {
		p.EnrichErr = err
		log.Debug("AI enrichment unavailable", "reason", err)
	} else {
		p.Enricher = ai.NewEnricher(gen, ai.Options{
			MaxTokens:      cfg.AI.MaxTokens,
			MaxConcurrency: cfg.AI.MaxConcurrency,
			Timeout:        cfg.AI.Timeout,
			Logger:         log,
			Metrics:        m,
		})
	}

	return NewWithParams(p), nil
}

// Redis key sub-prefixes, one per record kind.
const (
	TrendingCacheName = "trending"
	MetadataCacheName = "metadata"
)

func newStores(cfg config.CacheConfig, log logger.Interface) (
	cache.Store[[]domain.Repository], cache.Store[domain.PageMetadata], io.Closer, error,
) {
	opts := []cache.Option{cache.WithEnabled(cfg.Enabled), cache.WithMaxSize(cfg.MaxSize)}

	if cfg.Backend != cache.BackendRedis {
		return cache.NewTTLCache[[]domain.Repository](opts...),
			cache.NewTTLCache[domain.PageMetadata](opts...),
			nil, nil
	}

	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to redis cache: %w", err)
	}
	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = cache.DefaultRedisPrefix
	}
	log.Info("Using redis cache", "address", cfg.Redis.Address, "prefix", prefix)
	return cache.NewRedisStore[[]domain.Repository](client, prefix+":"+TrendingCacheName, log, opts...),
		cache.NewRedisStore[domain.PageMetadata](client, prefix+":"+MetadataCacheName, log, opts...),
		redisCloser{client},
		nil
}

type redisCloser struct {
	client *redis.Client
}

func (c redisCloser) Close() error {
	return c.client.Close()
}

// DefaultSummaryLength is used when a query leaves SummaryLength empty.
func (a *App) DefaultSummaryLength() domain.SummaryLength {
	return a.summaryLength
}

// EnrichmentError reports why enrichment is unavailable, or nil.
func (a *App) EnrichmentError() error {
	if a.enricher != nil {
		return nil
	}
	return a.enrichErr
}

// Trending fetches, filters and optionally enriches a trending listing.
// Enrichment misconfiguration is reported before anything is fetched.
func (a *App) Trending(ctx context.Context, q TrendingQuery) ([]domain.Repository, error) {
	if err := domain.ValidateLimit(q.Limit); err != nil {
		return nil, err
	}
	if q.Enrich {
		if err := a.EnrichmentError(); err != nil {
			return nil, err
		}
	}

	repos, err := a.scraper.FetchTrending(ctx, scraper.TrendingRequest{Language: q.Language, Period: q.Period})
	if err != nil {
		return nil, err
	}

	repos = filter.Apply(repos, filter.Options{Limit: q.Limit, Topics: q.Topics, Strategy: a.strategy})

	if q.Enrich && len(repos) > 0 {
		repos = a.enricher.EnrichRepositories(ctx, repos, a.length(q.SummaryLength))
	}
	return repos, nil
}

// Analyze fetches and optionally enriches the metadata of one page.
func (a *App) Analyze(ctx context.Context, q AnalyzeQuery) (domain.PageMetadata, error) {
	if q.Enrich {
		if err := a.EnrichmentError(); err != nil {
			return domain.PageMetadata{}, err
		}
	}

	meta, err := a.scraper.FetchMetadata(ctx, scraper.MetadataRequest{
		URL:           q.URL,
		Depth:         q.Depth,
		IncludeImages: q.IncludeImages,
		Timeout:       q.Timeout,
	})
	if err != nil {
		return domain.PageMetadata{}, err
	}

	if q.Enrich {
		meta = a.enricher.EnrichMetadata(ctx, meta, a.length(q.SummaryLength))
	}
	return meta, nil
}

// ClearCache empties the record caches.
func (a *App) ClearCache(ctx context.Context) error {
	return a.scraper.ClearCache(ctx)
}

// Close releases the cache backend connection, if any.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *App) length(l domain.SummaryLength) domain.SummaryLength {
	if l == "" {
		return a.summaryLength
	}
	return l
}

// IsEnrichmentUnavailable reports whether err comes from AI misconfiguration.
func IsEnrichmentUnavailable(err error) bool {
	return errors.Is(err, ai.ErrDisabled) ||
		errors.Is(err, ai.ErrMissingAPIKey) ||
		errors.Is(err, ai.ErrUnknownProvider)
}
