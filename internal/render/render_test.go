package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/render"
)

func sampleRepos() []domain.Repository {
	return []domain.Repository{
		{
			Rank: 1, Owner: "golang", Name: "go", URL: "https://github.com/golang/go",
			Description: "The Go programming language", Language: "Go",
			Stars: 120345, Forks: 17000, StarsGained: 250,
		},
		{
			Rank: 3, Owner: "rust-lang", Name: "rust", URL: "https://github.com/rust-lang/rust",
			Language: "Rust", Stars: 98000, Forks: 12000, StarsGained: 80,
			Summary: "A systems language", KeyFeatures: []string{"ownership", "zero-cost abstractions"},
		},
	}
}

func sampleMetadata() domain.PageMetadata {
	published := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	return domain.PageMetadata{
		URL:            "https://example.com/post",
		Title:          "Test Article",
		Description:    "A description",
		Author:         "Jane Doe",
		Keywords:       []string{"go", "html"},
		PublishedAt:    &published,
		ContentPreview: "Body text.",
		Category:       []string{"technology"},
		ReadingTime:    4,
	}
}

func TestRepositories_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Repositories(&buf, sampleRepos(), domain.FormatJSON))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "golang", decoded[0]["owner"])
	assert.InDelta(t, 250, decoded[0]["starsToday"], 0)
	assert.NotContains(t, decoded[0], "summary")
	assert.Equal(t, "A systems language", decoded[1]["summary"])
}

func TestRepositories_EmptyJSONIsAnArray(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Repositories(&buf, nil, domain.FormatJSON))
	assert.JSONEq(t, "[]", buf.String())
}

func TestRepositories_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Repositories(&buf, sampleRepos(), domain.FormatYAML))

	var decoded []domain.Repository
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleRepos(), decoded)
}

func TestRepositories_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Repositories(&buf, sampleRepos(), domain.FormatTable))

	out := buf.String()
	assert.Contains(t, out, "golang/go")
	assert.Contains(t, out, "120,345")
	assert.Contains(t, out, "+250")
	assert.Contains(t, out, "SUMMARY")
	assert.Contains(t, strings.ToLower(out), "2 repositories")
}

func TestRepositories_TableWithoutEnrichment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Repositories(&buf, sampleRepos()[:1], domain.FormatTable))
	assert.NotContains(t, buf.String(), "SUMMARY")
}

func TestRepositories_Markdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Repositories(&buf, sampleRepos(), domain.FormatMarkdown))

	out := buf.String()
	assert.Contains(t, out, "# Trending Repositories")
	assert.Contains(t, out, "[golang/go](https://github.com/golang/go)")
	assert.Contains(t, out, "## 3. rust-lang/rust")
	assert.Contains(t, out, "**Summary:** A systems language")
	assert.Contains(t, out, "- zero-cost abstractions")
}

func TestRepositories_MarkdownEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Repositories(&buf, []domain.Repository{}, domain.FormatMarkdown))
	assert.Contains(t, buf.String(), "No repositories found.")
}

func TestRepositories_XLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Repositories(&buf, sampleRepos(), domain.FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(render.RepositoriesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, "golang", rows[1][1])
	assert.Equal(t, "120345", rows[1][6])
	assert.Equal(t, "rust", rows[2][2])
}

func TestRepositories_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := render.Repositories(&bytes.Buffer{}, sampleRepos(), domain.Format("csv"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMetadata_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Metadata(&buf, sampleMetadata(), domain.FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Test Article", decoded["title"])
	assert.Equal(t, "2026-03-01T10:30:00Z", decoded["publishedAt"])
	assert.NotContains(t, decoded, "modifiedAt")
	assert.NotContains(t, decoded, "tags")
}

func TestMetadata_EmptyTitleAndDescriptionStillPresent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Metadata(&buf, domain.PageMetadata{URL: "https://example.com"}, domain.FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "title")
	assert.Contains(t, decoded, "description")
}

func TestMetadata_TableAndMarkdown(t *testing.T) {
	t.Parallel()

	var table bytes.Buffer
	require.NoError(t, render.Metadata(&table, sampleMetadata(), domain.FormatTable))
	assert.Contains(t, table.String(), "Jane Doe")
	assert.Contains(t, table.String(), "4 min")
	assert.Contains(t, table.String(), "2026-03-01T10:30:00Z")

	var md bytes.Buffer
	require.NoError(t, render.Metadata(&md, sampleMetadata(), domain.FormatMarkdown))
	assert.Contains(t, md.String(), "# Test Article")
	assert.Contains(t, md.String(), "> A description")
	assert.Contains(t, md.String(), "## Content preview")
	assert.Contains(t, md.String(), "| Author | Jane Doe |")
}

func TestMetadata_XLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Metadata(&buf, sampleMetadata(), domain.FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(render.MetadataSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Field", "Value"}, rows[0])
	assert.Equal(t, []string{"URL", "https://example.com/post"}, rows[1])
}
