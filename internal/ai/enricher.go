package ai

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/logger"
	"github.com/jonesrussell/trendscout/internal/metrics"
)

// Options configures an Enricher.
type Options struct {
	MaxTokens int
	// MaxConcurrency bounds in-flight batch calls; zero or less is unbounded.
	MaxConcurrency int
	// Timeout bounds each generation call; zero disables the bound.
	Timeout time.Duration
	Logger  logger.Interface
	Metrics *metrics.Metrics
}

// Enricher merges model analysis into records.
type Enricher struct {
	gen  Generator
	opts Options
	log  logger.Interface
}

type repositoryAnalysis struct {
	Summary     string   `mapstructure:"summary"`
	KeyFeatures []string `mapstructure:"keyFeatures"`
	UseCases    []string `mapstructure:"useCases"`
}

type metadataAnalysis struct {
	Summary     string   `mapstructure:"summary"`
	KeyPoints   []string `mapstructure:"keyPoints"`
	Category    []string `mapstructure:"category"`
	ReadingTime int      `mapstructure:"readingTime"`
}

// NewEnricher creates an Enricher around gen.
func NewEnricher(gen Generator, opts Options) *Enricher {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Enricher{gen: gen, opts: opts, log: log.WithComponent("enricher")}
}

// EnrichRepository returns repo with summary, key features and use cases
// merged in. On any failure repo is returned unchanged.
func (e *Enricher) EnrichRepository(ctx context.Context, repo domain.Repository, length domain.SummaryLength) domain.Repository {
	var analysis repositoryAnalysis
	if !e.analyze(ctx, RepositoryPrompt(repo, length), &analysis, "repository", repo.FullName()) {
		e.opts.Metrics.Enrichment(metrics.KindTrending, false)
		return repo
	}

	if analysis.Summary != "" {
		repo.Summary = analysis.Summary
	}
	if len(analysis.KeyFeatures) > 0 {
		repo.KeyFeatures = analysis.KeyFeatures
	}
	if len(analysis.UseCases) > 0 {
		repo.UseCases = analysis.UseCases
	}
	e.opts.Metrics.Enrichment(metrics.KindTrending, repo.Enriched())
	return repo
}

// EnrichRepositories enriches every record concurrently. The result has the
// same length and order as repos; records that fail are returned unchanged.
func (e *Enricher) EnrichRepositories(ctx context.Context, repos []domain.Repository, length domain.SummaryLength) []domain.Repository {
	out := make([]domain.Repository, len(repos))

	var g errgroup.Group
	if e.opts.MaxConcurrency > 0 {
		g.SetLimit(e.opts.MaxConcurrency)
	}
	for i := range repos {
		g.Go(func() error {
			out[i] = e.EnrichRepository(ctx, repos[i], length)
			return nil
		})
	}
	_ = g.Wait()

	enriched := 0
	for i := range out {
		if out[i].Enriched() {
			enriched++
		}
	}
	e.log.Info("Enriched repositories", "total", len(out), "enriched", enriched)
	return out
}

// EnrichMetadata returns meta with summary, key points, category and reading
// time merged in. On any failure meta is returned unchanged.
func (e *Enricher) EnrichMetadata(ctx context.Context, meta domain.PageMetadata, length domain.SummaryLength) domain.PageMetadata {
	var analysis metadataAnalysis
	if !e.analyze(ctx, MetadataPrompt(meta, length), &analysis, "url", meta.URL) {
		e.opts.Metrics.Enrichment(metrics.KindMetadata, false)
		return meta
	}

	if analysis.Summary != "" {
		meta.Summary = analysis.Summary
	}
	if len(analysis.KeyPoints) > 0 {
		meta.KeyPoints = analysis.KeyPoints
	}
	if len(analysis.Category) > 0 {
		meta.Category = analysis.Category
	}
	if analysis.ReadingTime > 0 {
		meta.ReadingTime = analysis.ReadingTime
	}
	e.opts.Metrics.Enrichment(metrics.KindMetadata, true)
	return meta
}

// analyze runs one generation and decodes its JSON into out.
func (e *Enricher) analyze(ctx context.Context, prompt string, out any, subjectKey, subject string) bool {
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	text, err := e.gen.Generate(ctx, Request{
		System:    SystemPrompt,
		Prompt:    prompt,
		MaxTokens: e.opts.MaxTokens,
	})
	if err != nil {
		e.log.Warn("AI generation failed", subjectKey, subject, "error", err)
		return false
	}

	parsed := ParseResponse(text)
	if !parsed.OK {
		e.log.Warn("AI response was not valid JSON", subjectKey, subject, "response_length", len(text))
		return false
	}
	decoded, err := decodeWeak(parsed.Data, out)
	if decoded == 0 {
		e.log.Warn("AI response had no usable fields", subjectKey, subject, "error", err)
		return false
	}
	if err != nil {
		e.log.Debug("AI response fields skipped", subjectKey, subject, "error", err)
	}
	e.log.Debug("AI analysis parsed", subjectKey, subject, "source", parsed.Source, "fields", decoded)
	return true
}
