package ai_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendscout/internal/ai"
	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/logger"
)

func staticGenerator(text string, err error) ai.Generator {
	return ai.GeneratorFunc(func(context.Context, ai.Request) (string, error) {
		return text, err
	})
}

func sampleRepo(name string) domain.Repository {
	return domain.Repository{
		Rank:        1,
		Owner:       "owner",
		Name:        name,
		URL:         domain.GitHubBaseURL + "/owner/" + name,
		Description: "A sample project",
		Language:    "Go",
		Stars:       1200,
	}
}

func TestEnrichRepository_MergesAnalysis(t *testing.T) {
	t.Parallel()

	var captured ai.Request
	gen := ai.GeneratorFunc(func(_ context.Context, req ai.Request) (string, error) {
		captured = req
		return "```json\n{\"summary\": \"A fast tool.\", \"key_features\": [\"fast\", \"small\"], \"useCases\": \"scripting\"}\n```", nil
	})

	e := ai.NewEnricher(gen, ai.Options{MaxTokens: 300, Logger: logger.NewNoOp()})
	got := e.EnrichRepository(context.Background(), sampleRepo("tool"), domain.SummaryShort)

	assert.Equal(t, "A fast tool.", got.Summary)
	assert.Equal(t, []string{"fast", "small"}, got.KeyFeatures)
	assert.Equal(t, []string{"scripting"}, got.UseCases)
	assert.Equal(t, "tool", got.Name)

	assert.Equal(t, ai.SystemPrompt, captured.System)
	assert.Equal(t, 300, captured.MaxTokens)
	assert.Contains(t, captured.Prompt, "owner/tool")
	assert.Contains(t, captured.Prompt, "about 50 words")
}

func TestEnrichRepository_FailuresLeaveRecordUnchanged(t *testing.T) {
	t.Parallel()

	tests := map[string]ai.Generator{
		"provider error":   staticGenerator("", errors.New("401 unauthorized")),
		"unparsable text":  staticGenerator("no json here", nil),
		"wrong field type": staticGenerator(`{"summary": {"nested": true}}`, nil),
	}

	for name, gen := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			repo := sampleRepo("tool")
			got := ai.NewEnricher(gen, ai.Options{}).EnrichRepository(context.Background(), repo, domain.SummaryMedium)
			assert.Equal(t, repo, got)
		})
	}
}

func TestEnrichRepositories_PreservesOrderAndIsolatesFailures(t *testing.T) {
	t.Parallel()

	gen := ai.GeneratorFunc(func(_ context.Context, req ai.Request) (string, error) {
		switch {
		case strings.Contains(req.Prompt, "owner/first"):
			time.Sleep(30 * time.Millisecond)
			return `{"summary": "first summary"}`, nil
		case strings.Contains(req.Prompt, "owner/broken"):
			return "", errors.New("boom")
		case strings.Contains(req.Prompt, "owner/garbled"):
			return "<<<>>>", nil
		default:
			return `{"summary": "last summary"}`, nil
		}
	})

	in := []domain.Repository{sampleRepo("first"), sampleRepo("broken"), sampleRepo("garbled"), sampleRepo("last")}
	out := ai.NewEnricher(gen, ai.Options{}).EnrichRepositories(context.Background(), in, domain.SummaryMedium)

	require.Len(t, out, 4)
	assert.Equal(t, "first summary", out[0].Summary)
	assert.Equal(t, in[1], out[1])
	assert.Equal(t, in[2], out[2])
	assert.Equal(t, "last summary", out[3].Summary)
	for i := range in {
		assert.Equal(t, in[i].Name, out[i].Name)
	}
	assert.Empty(t, in[0].Summary, "input is not mutated")
}

func TestEnrichRepositories_RespectsMaxConcurrency(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	gen := ai.GeneratorFunc(func(context.Context, ai.Request) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return `{"summary": "ok"}`, nil
	})

	in := make([]domain.Repository, 10)
	for i := range in {
		in[i] = sampleRepo("repo")
	}
	out := ai.NewEnricher(gen, ai.Options{MaxConcurrency: 2}).EnrichRepositories(context.Background(), in, domain.SummaryShort)

	require.Len(t, out, 10)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestEnrichRepositories_Empty(t *testing.T) {
	t.Parallel()

	out := ai.NewEnricher(staticGenerator("", nil), ai.Options{}).EnrichRepositories(context.Background(), nil, domain.SummaryShort)
	assert.Empty(t, out)
}

func TestEnrichMetadata_NormalizesCategoryAndReadingTime(t *testing.T) {
	t.Parallel()

	gen := staticGenerator(`Analysis: {"summary": "Page summary", "keyPoints": ["one", "two"], "category": "technology", "readingTime": "4"}`, nil)
	meta := domain.PageMetadata{URL: "https://example.com", Title: "Title"}

	got := ai.NewEnricher(gen, ai.Options{}).EnrichMetadata(context.Background(), meta, domain.SummaryLong)

	assert.Equal(t, "Page summary", got.Summary)
	assert.Equal(t, []string{"one", "two"}, got.KeyPoints)
	assert.Equal(t, []string{"technology"}, got.Category)
	assert.Equal(t, 4, got.ReadingTime)
	assert.Equal(t, "Title", got.Title)
}

func TestEnrichMetadata_MistypedFieldKeepsTheRest(t *testing.T) {
	t.Parallel()

	gen := staticGenerator(`{"summary": "good page", "keyPoints": ["a"], "category": "Tech", "readingTime": "5 minutes"}`, nil)
	meta := domain.PageMetadata{URL: "https://example.com", Title: "Title"}

	got := ai.NewEnricher(gen, ai.Options{}).EnrichMetadata(context.Background(), meta, domain.SummaryShort)

	assert.Equal(t, "good page", got.Summary)
	assert.Equal(t, []string{"a"}, got.KeyPoints)
	assert.Equal(t, []string{"Tech"}, got.Category)
	assert.Zero(t, got.ReadingTime)
}

func TestEnrichRepository_MistypedFieldKeepsTheRest(t *testing.T) {
	t.Parallel()

	gen := staticGenerator(`{"summary": "A tool.", "keyFeatures": [{"name": "fast"}], "useCases": ["ci"]}`, nil)
	repo := sampleRepo("tool")

	got := ai.NewEnricher(gen, ai.Options{}).EnrichRepository(context.Background(), repo, domain.SummaryShort)

	assert.Equal(t, "A tool.", got.Summary)
	assert.Equal(t, []string{"ci"}, got.UseCases)
	assert.Equal(t, repo.KeyFeatures, got.KeyFeatures)
}

func TestEnrichMetadata_FailureLeavesRecordUnchanged(t *testing.T) {
	t.Parallel()

	meta := domain.PageMetadata{URL: "https://example.com", Title: "Title"}
	got := ai.NewEnricher(staticGenerator("", context.DeadlineExceeded), ai.Options{}).
		EnrichMetadata(context.Background(), meta, domain.SummaryMedium)

	assert.Equal(t, meta, got)
}

func TestEnricher_TimeoutBoundsEachCall(t *testing.T) {
	t.Parallel()

	gen := ai.GeneratorFunc(func(ctx context.Context, _ ai.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	repo := sampleRepo("slow")

	got := ai.NewEnricher(gen, ai.Options{Timeout: 20 * time.Millisecond}).
		EnrichRepository(context.Background(), repo, domain.SummaryShort)
	assert.Equal(t, repo, got)
}

func TestPrompts(t *testing.T) {
	t.Parallel()

	repo := sampleRepo("tool")
	repo.Topics = []string{"cli", "devtools"}
	prompt := ai.RepositoryPrompt(repo, domain.SummaryLong)
	assert.Contains(t, prompt, "about 200 words")
	assert.Contains(t, prompt, "cli, devtools")
	assert.Contains(t, prompt, "Stars: 1200")

	meta := domain.PageMetadata{URL: "https://example.com", ContentPreview: strings.Repeat("x", 4000)}
	prompt = ai.MetadataPrompt(meta, domain.SummaryMedium)
	assert.Contains(t, prompt, "about 100 words")
	assert.Contains(t, prompt, "Title: (none)")
	assert.NotContains(t, prompt, strings.Repeat("x", 2001))
}
