package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/trendscout/internal/domain"
)

// SystemPrompt is sent with every enrichment request.
const SystemPrompt = "You are a technical analyst. Provide concise, structured analysis. " +
	"Respond with a single valid JSON object and no other text."

// maxPromptPreview bounds the page content embedded in a metadata prompt.
const maxPromptPreview = 2000

const repositoryPrompt = `Analyze this GitHub repository.

Repository: %s
URL: %s
Description: %s
Language: %s
Stars: %d
Topics: %s

Respond with a JSON object with these fields:
- "summary": a summary of about %d words
- "keyFeatures": an array of up to 5 short key features
- "useCases": an array of up to 3 short use cases`

const metadataPrompt = `Analyze this web page.

URL: %s
Title: %s
Description: %s
Keywords: %s
Content: %s

Respond with a JSON object with these fields:
- "summary": a summary of about %d words
- "keyPoints": an array of up to 5 key points
- "category": an array of 1 to 3 topical categories
- "readingTime": the estimated reading time in whole minutes`

// RepositoryPrompt builds the user prompt for a repository.
func RepositoryPrompt(repo domain.Repository, length domain.SummaryLength) string {
	return fmt.Sprintf(repositoryPrompt,
		repo.FullName(),
		repo.URL,
		orNone(repo.Description),
		orNone(repo.Language),
		repo.Stars,
		orNone(strings.Join(repo.Topics, ", ")),
		length.Words(),
	)
}

// MetadataPrompt builds the user prompt for a page.
func MetadataPrompt(meta domain.PageMetadata, length domain.SummaryLength) string {
	content := meta.ContentPreview
	if utf8.RuneCountInString(content) > maxPromptPreview {
		content = string([]rune(content)[:maxPromptPreview])
	}
	return fmt.Sprintf(metadataPrompt,
		meta.URL,
		orNone(meta.Title),
		orNone(meta.Description),
		orNone(strings.Join(meta.Keywords, ", ")),
		orNone(content),
		length.Words(),
	)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
