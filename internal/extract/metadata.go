package extract

import (
	"io"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/trendscout/internal/domain"
)

// MaxPreviewLength is the character bound of ContentPreview.
const MaxPreviewLength = 5000

// minFallbackParagraphLength filters navigation and caption noise when no
// content container is found.
const minFallbackParagraphLength = 40

// contentContainerSelectors are tried in order to locate the primary content.
var contentContainerSelectors = []string{
	"article",
	"main",
	`[role="main"]`,
	`[class*="content"]`,
	`[id*="content"]`,
}

const (
	contentFragmentSelector = "p, h1, h2, h3, h4, h5, h6"
	tagLinkSelector         = `a[rel="tag"], .tags a, .tag a, .categories a, .category a, .topics a, .topic a`
	iconSelector            = `link[rel="icon"], link[rel="shortcut icon"]`
)

// timestampLayouts are accepted for article published/modified times.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// MetadataOptions controls page-mode extraction.
type MetadataOptions struct {
	Depth         domain.Depth
	IncludeImages bool
}

// Metadata extracts page metadata. Relative image and icon URLs are resolved
// against pageURL. ContentPreview and Tags are only populated at deep depth.
func Metadata(r io.Reader, pageURL string, opts MetadataOptions) domain.PageMetadata {
	meta := domain.PageMetadata{URL: pageURL}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return meta
	}

	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	meta.Description = firstMeta(doc, "meta[name='description']", "meta[property='og:description']")
	meta.Author = firstMeta(doc, "meta[name='author']", "meta[property='article:author']")
	meta.Publisher = firstMeta(doc, "meta[property='og:site_name']")
	meta.Type = firstMeta(doc, "meta[property='og:type']")
	meta.Keywords = splitKeywords(firstMeta(doc, "meta[name='keywords']"))
	meta.PublishedAt = parseTimestamp(firstMeta(doc, "meta[property='article:published_time']"))
	meta.ModifiedAt = parseTimestamp(firstMeta(doc, "meta[property='article:modified_time']"))

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		meta.Language = strings.TrimSpace(lang)
	}

	if opts.IncludeImages {
		image := firstMeta(doc, "meta[property='og:image']", "meta[name='twitter:image']", "meta[property='twitter:image']")
		meta.Image = resolveURL(pageURL, image)
		if href, ok := doc.Find(iconSelector).First().Attr("href"); ok {
			meta.Icon = resolveURL(pageURL, strings.TrimSpace(href))
		}
	}

	if opts.Depth == domain.DepthDeep {
		meta.ContentPreview = contentPreview(doc)
		meta.Tags = collectTags(doc)
	}

	return meta
}

// firstMeta returns the trimmed content of the first selector that has one.
func firstMeta(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if content = strings.TrimSpace(content); content != "" {
				return content
			}
		}
	}
	return ""
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}

	var keywords []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// parseTimestamp returns nil for missing or unparsable input.
func parseTimestamp(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if refURL.IsAbs() {
		return ref
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

func contentPreview(doc *goquery.Document) string {
	var fragments []string

	if container := findContentContainer(doc); container != nil {
		container.Find(contentFragmentSelector).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				fragments = append(fragments, text)
			}
		})
	} else {
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); utf8.RuneCountInString(text) > minFallbackParagraphLength {
				fragments = append(fragments, text)
			}
		})
	}

	return truncate(strings.Join(fragments, " "), MaxPreviewLength)
}

func findContentContainer(doc *goquery.Document) *goquery.Selection {
	for _, sel := range contentContainerSelectors {
		if container := doc.Find(sel).First(); container.Length() > 0 {
			return container
		}
	}
	return nil
}

func collectTags(doc *goquery.Document) []string {
	var tags []string
	seen := make(map[string]struct{})

	doc.Find(tagLinkSelector).Each(func(_ int, s *goquery.Selection) {
		tag := strings.TrimSpace(s.Text())
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	})
	return tags
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
