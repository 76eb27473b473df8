// Package extract turns raw HTML into domain records. Extraction never fails:
// every field has a default for missing or malformed markup.
package extract

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/normalize"
)

// Selectors for the GitHub trending listing.
const (
	repoEntrySelector     = "article.Box-row"
	titleLinkSelector     = "h2 a"
	legacyTitleSelector   = "h1 a"
	descriptionSelector   = "p"
	languageSelector      = `[itemprop="programmingLanguage"]`
	languageColorSelector = ".repo-language-color"
	starsSelector         = `a[href$="/stargazers"]`
	forksSelector         = `a[href$="/forks"]`
	legacyForksSelector   = `a[href$="/network/members"]`
	starsGainedSelector   = "span.float-sm-right"
	avatarSelector        = "img.avatar"
)

// colorStylePrefixes are stripped from the language swatch style attribute.
var colorStylePrefixes = []string{"background-color:", "color:"}

// Trending extracts repositories from a trending listing in document order.
// Rank is the 1-based position among all entries, so entries dropped for a
// missing owner or name leave gaps.
func Trending(r io.Reader) []domain.Repository {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return []domain.Repository{}
	}

	repos := []domain.Repository{}
	doc.Find(repoEntrySelector).Each(func(i int, s *goquery.Selection) {
		if repo, ok := extractRepository(s, i+1); ok {
			repos = append(repos, repo)
		}
	})
	return repos
}

func extractRepository(s *goquery.Selection, rank int) (domain.Repository, bool) {
	link := s.Find(titleLinkSelector).First()
	if link.Length() == 0 {
		link = s.Find(legacyTitleSelector).First()
	}
	href, exists := link.Attr("href")
	if !exists {
		return domain.Repository{}, false
	}

	owner, name := splitRepoPath(href)
	if owner == "" || name == "" {
		return domain.Repository{}, false
	}

	forks := s.Find(forksSelector).First()
	if forks.Length() == 0 {
		forks = s.Find(legacyForksSelector).First()
	}

	repo := domain.Repository{
		Rank:          rank,
		Owner:         owner,
		Name:          name,
		URL:           domain.GitHubBaseURL + "/" + owner + "/" + name,
		Description:   strings.TrimSpace(s.Find(descriptionSelector).First().Text()),
		Language:      strings.TrimSpace(s.Find(languageSelector).First().Text()),
		LanguageColor: languageColor(s),
		Stars:         normalize.ParseCount(s.Find(starsSelector).First().Text()),
		Forks:         normalize.ParseCount(forks.Text()),
		StarsGained: normalize.ParseCount(
			normalize.StripPeriodSuffix(s.Find(starsGainedSelector).First().Text()),
		),
	}
	if src, ok := s.Find(avatarSelector).First().Attr("src"); ok {
		repo.AvatarURL = strings.TrimSpace(src)
	}

	return repo, true
}

// splitRepoPath turns "/owner/name" into its two segments.
func splitRepoPath(href string) (owner, name string) {
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(href), "/"), "/")
	if len(parts) < 2 {
		return "", ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

func languageColor(s *goquery.Selection) string {
	style, ok := s.Find(languageColorSelector).First().Attr("style")
	if !ok {
		return ""
	}

	style = strings.TrimSpace(style)
	for _, prefix := range colorStylePrefixes {
		style = strings.TrimSpace(strings.TrimPrefix(style, prefix))
	}
	return strings.TrimSpace(strings.TrimSuffix(style, ";"))
}
