// Package filter narrows a trending listing by topic keywords and a result limit.
package filter

import (
	"fmt"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"

	"github.com/jonesrussell/trendscout/internal/domain"
)

// Strategy selects how topic keywords are matched against a repository.
type Strategy string

const (
	// StrategyText matches keywords as substrings of name, description and language.
	StrategyText Strategy = "text"
	// StrategyTopics matches keywords against the repository's own topic list.
	// Trending listings do not carry topics, so it only matches records
	// whose Topics were filled from another source.
	StrategyTopics Strategy = "topics"
)

// DefaultStrategy is used when Options.Strategy is empty.
const DefaultStrategy = StrategyText

// ParseStrategy validates a strategy name. An empty name selects the default.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultStrategy, nil
	case StrategyText:
		return StrategyText, nil
	case StrategyTopics:
		return StrategyTopics, nil
	default:
		return DefaultStrategy, fmt.Errorf("%w: unknown filter strategy %q (valid: %s, %s)",
			domain.ErrInvalidInput, s, StrategyText, StrategyTopics)
	}
}

// Options configures Apply.
type Options struct {
	Limit    int
	Topics   []string
	Strategy Strategy
}

// Apply returns the records matching opts.Topics, truncated to opts.Limit.
// The input slice is never modified and relative order is preserved.
func Apply(records []domain.Repository, opts Options) []domain.Repository {
	out := make([]domain.Repository, 0, min(len(records), max(opts.Limit, 0)))
	if opts.Limit <= 0 || len(records) == 0 {
		return out
	}

	match := newMatcher(opts.Topics, opts.Strategy)
	for i := range records {
		if len(out) == opts.Limit {
			break
		}
		if match == nil || match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// newMatcher returns nil when no keyword is usable, meaning everything matches.
func newMatcher(topics []string, strategy Strategy) func(*domain.Repository) bool {
	keywords := foldKeywords(topics)
	if len(keywords) == 0 {
		return nil
	}

	if strategy == StrategyTopics {
		wanted := make(map[string]struct{}, len(keywords))
		for _, kw := range keywords {
			wanted[kw] = struct{}{}
		}
		return func(r *domain.Repository) bool {
			for _, topic := range r.Topics {
				if _, ok := wanted[fold(strings.TrimSpace(topic))]; ok {
					return true
				}
			}
			return false
		}
	}

	// Matcher keeps per-scan state, so it is built per call.
	matcher := ahocorasick.NewStringMatcher(keywords)
	return func(r *domain.Repository) bool {
		text := fold(r.Name + " " + r.Description + " " + r.Language)
		return len(matcher.Match([]byte(text))) > 0
	}
}

func foldKeywords(topics []string) []string {
	keywords := make([]string, 0, len(topics))
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			keywords = append(keywords, fold(t))
		}
	}
	return keywords
}

func fold(s string) string {
	return cases.Fold().String(s)
}
