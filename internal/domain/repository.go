// Package domain defines the records produced by the scrape pipeline and the
// validated option values accepted at its boundary.
package domain

import "time"

// GitHubBaseURL is the origin repository URLs are built against.
const GitHubBaseURL = "https://github.com"

// Repository is one entry of a trending listing.
type Repository struct {
	Rank          int      `json:"rank"                    yaml:"rank"`
	Owner         string   `json:"owner"                   yaml:"owner"`
	Name          string   `json:"name"                    yaml:"name"`
	URL           string   `json:"url"                     yaml:"url"`
	Description   string   `json:"description"             yaml:"description"`
	Language      string   `json:"language"                yaml:"language"`
	LanguageColor string   `json:"languageColor,omitempty" yaml:"languageColor,omitempty"`
	Stars         int      `json:"stars"                   yaml:"stars"`
	Forks         int      `json:"forks"                   yaml:"forks"`
	StarsGained   int      `json:"starsToday"              yaml:"starsToday"`
	AvatarURL     string   `json:"avatar,omitempty"        yaml:"avatar,omitempty"`
	Topics        []string `json:"topics,omitempty"        yaml:"topics,omitempty"`

	Summary     string   `json:"summary,omitempty"     yaml:"summary,omitempty"`
	KeyFeatures []string `json:"keyFeatures,omitempty" yaml:"keyFeatures,omitempty"`
	UseCases    []string `json:"useCases,omitempty"    yaml:"useCases,omitempty"`
}

// FullName returns the owner/name pair.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Enriched reports whether an AI summary has been merged into the record.
func (r Repository) Enriched() bool {
	return r.Summary != "" || len(r.KeyFeatures) > 0 || len(r.UseCases) > 0
}

// PageMetadata is the analysis result for a single URL.
type PageMetadata struct {
	URL            string     `json:"url"                      yaml:"url"`
	Title          string     `json:"title"                    yaml:"title"`
	Description    string     `json:"description"              yaml:"description"`
	Image          string     `json:"image,omitempty"          yaml:"image,omitempty"`
	Icon           string     `json:"icon,omitempty"           yaml:"icon,omitempty"`
	Author         string     `json:"author,omitempty"         yaml:"author,omitempty"`
	Publisher      string     `json:"publisher,omitempty"      yaml:"publisher,omitempty"`
	Type           string     `json:"type,omitempty"           yaml:"type,omitempty"`
	Language       string     `json:"language,omitempty"       yaml:"language,omitempty"`
	Keywords       []string   `json:"keywords,omitempty"       yaml:"keywords,omitempty"`
	Tags           []string   `json:"tags,omitempty"           yaml:"tags,omitempty"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"    yaml:"publishedAt,omitempty"`
	ModifiedAt     *time.Time `json:"modifiedAt,omitempty"     yaml:"modifiedAt,omitempty"`
	ContentPreview string     `json:"contentPreview,omitempty" yaml:"contentPreview,omitempty"`

	Summary     string   `json:"summary,omitempty"     yaml:"summary,omitempty"`
	KeyPoints   []string `json:"keyPoints,omitempty"   yaml:"keyPoints,omitempty"`
	Category    []string `json:"category,omitempty"    yaml:"category,omitempty"`
	ReadingTime int      `json:"readingTime,omitempty" yaml:"readingTime,omitempty"`
}
