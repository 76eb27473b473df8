// Package render formats records for terminals and files.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/trendscout/internal/domain"
)

const yamlIndent = 2

// Repositories writes repos to w in the given format.
func Repositories(w io.Writer, repos []domain.Repository, format domain.Format) error {
	if repos == nil {
		repos = []domain.Repository{}
	}
	switch format {
	case domain.FormatJSON:
		return writeJSON(w, repos)
	case domain.FormatYAML:
		return writeYAML(w, repos)
	case domain.FormatMarkdown:
		return repositoriesMarkdown(w, repos)
	case domain.FormatXLSX:
		return repositoriesXLSX(w, repos)
	case domain.FormatTable, "":
		return repositoriesTable(w, repos)
	default:
		return fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidInput, format)
	}
}

// Metadata writes meta to w in the given format.
func Metadata(w io.Writer, meta domain.PageMetadata, format domain.Format) error {
	switch format {
	case domain.FormatJSON:
		return writeJSON(w, meta)
	case domain.FormatYAML:
		return writeYAML(w, meta)
	case domain.FormatMarkdown:
		return metadataMarkdown(w, meta)
	case domain.FormatXLSX:
		return metadataXLSX(w, meta)
	case domain.FormatTable, "":
		return metadataTable(w, meta)
	default:
		return fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidInput, format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

func anyEnriched(repos []domain.Repository) bool {
	for i := range repos {
		if repos[i].Enriched() {
			return true
		}
	}
	return false
}
