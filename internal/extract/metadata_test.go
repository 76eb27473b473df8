package extract_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPageURL = "https://example.com/blog/post"

// fullArticleHTML carries every metadata tag the extractor understands.
const fullArticleHTML = `<!DOCTYPE html>
<html lang="en-US">
<head>
  <title>  Breaking News: Test Article  </title>
  <meta name="description" content="A test article description.">
  <meta property="og:description" content="OG description that should lose.">
  <meta name="author" content="Jane Doe">
  <meta property="og:site_name" content="Example Times">
  <meta property="og:type" content="article">
  <meta property="og:image" content="/images/cover.png">
  <meta name="keywords" content="go, scraping , , html">
  <meta property="article:published_time" content="2026-03-01T10:30:00Z">
  <meta property="article:modified_time" content="not a date">
  <link rel="icon" href="/favicon.ico">
</head>
<body>
  <nav><p>Navigation paragraph that is long enough to pass the noise filter.</p></nav>
  <article>
    <h1>Breaking News</h1>
    <p>First paragraph of the article body.</p>
    <h2>Details</h2>
    <p>Second paragraph.</p>
  </article>
  <div class="tags"><a href="/t/go">go</a><a href="/t/html">html</a><a href="/t/go">go</a></div>
  <a rel="tag" href="/t/web">web</a>
</body>
</html>`

// fallbackHTML has og-only tags and no content container.
const fallbackHTML = `<html>
<head>
  <meta property="og:description" content="OG description fallback.">
  <meta property="article:author" content="John Smith">
  <meta name="twitter:image" content="https://cdn.example.com/card.jpg">
  <link rel="shortcut icon" href="https://cdn.example.com/icon.png">
</head>
<body>
  <div><p>short</p></div>
  <div><p>This paragraph is comfortably longer than forty characters of text.</p></div>
  <div><p>Another paragraph that should also survive the length heuristic.</p></div>
</body>
</html>`

func TestMetadata_FullArticleNormalDepth(t *testing.T) {
	t.Parallel()

	meta := extract.Metadata(strings.NewReader(fullArticleHTML), testPageURL, extract.MetadataOptions{
		Depth: domain.DepthNormal,
	})

	assert.Equal(t, testPageURL, meta.URL)
	assert.Equal(t, "Breaking News: Test Article", meta.Title)
	assert.Equal(t, "A test article description.", meta.Description)
	assert.Equal(t, "Jane Doe", meta.Author)
	assert.Equal(t, "Example Times", meta.Publisher)
	assert.Equal(t, "article", meta.Type)
	assert.Equal(t, "en-US", meta.Language)
	assert.Equal(t, []string{"go", "scraping", "html"}, meta.Keywords)

	require.NotNil(t, meta.PublishedAt)
	assert.True(t, meta.PublishedAt.Equal(time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)))
	assert.Nil(t, meta.ModifiedAt, "unparsable timestamps are left absent")

	assert.Empty(t, meta.Image, "images are only extracted on request")
	assert.Empty(t, meta.Icon)
	assert.Empty(t, meta.ContentPreview, "preview is deep-only")
	assert.Nil(t, meta.Tags, "tags are deep-only")
}

func TestMetadata_ImagesResolvedAgainstPageURL(t *testing.T) {
	t.Parallel()

	meta := extract.Metadata(strings.NewReader(fullArticleHTML), testPageURL, extract.MetadataOptions{
		IncludeImages: true,
	})

	assert.Equal(t, "https://example.com/images/cover.png", meta.Image)
	assert.Equal(t, "https://example.com/favicon.ico", meta.Icon)
}

func TestMetadata_Fallbacks(t *testing.T) {
	t.Parallel()

	meta := extract.Metadata(strings.NewReader(fallbackHTML), testPageURL, extract.MetadataOptions{
		Depth:         domain.DepthDeep,
		IncludeImages: true,
	})

	assert.Empty(t, meta.Title)
	assert.Equal(t, "OG description fallback.", meta.Description)
	assert.Equal(t, "John Smith", meta.Author)
	assert.Equal(t, "https://cdn.example.com/card.jpg", meta.Image)
	assert.Equal(t, "https://cdn.example.com/icon.png", meta.Icon)
	assert.Nil(t, meta.Keywords)
	assert.Nil(t, meta.PublishedAt)

	assert.Equal(t,
		"This paragraph is comfortably longer than forty characters of text. "+
			"Another paragraph that should also survive the length heuristic.",
		meta.ContentPreview)
	assert.Nil(t, meta.Tags, "no tag links means no tags field")
}

func TestMetadata_DeepUsesContentContainer(t *testing.T) {
	t.Parallel()

	meta := extract.Metadata(strings.NewReader(fullArticleHTML), testPageURL, extract.MetadataOptions{
		Depth: domain.DepthDeep,
	})

	assert.Equal(t, "Breaking News First paragraph of the article body. Details Second paragraph.", meta.ContentPreview)
	assert.NotContains(t, meta.ContentPreview, "Navigation")
	assert.Equal(t, []string{"go", "html", "web"}, meta.Tags)
}

func TestMetadata_DeepPreviewIsTruncated(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<html><body><main>")
	for range 200 {
		b.WriteString("<p>")
		b.WriteString(strings.Repeat("ünïcode ", 10))
		b.WriteString("</p>")
	}
	b.WriteString("</main></body></html>")

	meta := extract.Metadata(strings.NewReader(b.String()), testPageURL, extract.MetadataOptions{
		Depth: domain.DepthDeep,
	})

	assert.Equal(t, extract.MaxPreviewLength, utf8.RuneCountInString(meta.ContentPreview))
	assert.True(t, utf8.ValidString(meta.ContentPreview))
}

func TestMetadata_BasicDepthOmitsDeepFields(t *testing.T) {
	t.Parallel()

	meta := extract.Metadata(strings.NewReader(fullArticleHTML), testPageURL, extract.MetadataOptions{
		Depth: domain.DepthBasic,
	})

	assert.Empty(t, meta.ContentPreview)
	assert.Nil(t, meta.Tags)
	assert.Equal(t, "Breaking News: Test Article", meta.Title)
}

func TestMetadata_EmptyDocument(t *testing.T) {
	t.Parallel()

	meta := extract.Metadata(strings.NewReader(""), testPageURL, extract.MetadataOptions{Depth: domain.DepthDeep})

	assert.Equal(t, testPageURL, meta.URL)
	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Description)
	assert.Empty(t, meta.ContentPreview)
	assert.Nil(t, meta.Tags)
}
