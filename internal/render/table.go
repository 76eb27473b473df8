package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jonesrussell/trendscout/internal/domain"
)

// Column widths for terminal tables.
const (
	descriptionWidth = 50
	summaryWidth     = 60
	valueWidth       = 80
)

func repositoriesTable(w io.Writer, repos []domain.Repository) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	enriched := anyEnriched(repos)
	header := table.Row{"#", "Repository", "Language", "Stars", "Forks", "Today", "Description"}
	if enriched {
		header = append(header, "Summary")
	}
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Stars", Align: text.AlignRight},
		{Name: "Forks", Align: text.AlignRight},
		{Name: "Today", Align: text.AlignRight},
		{Name: "Description", WidthMax: descriptionWidth, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Summary", WidthMax: summaryWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	for i := range repos {
		r := &repos[i]
		row := table.Row{
			r.Rank,
			r.FullName(),
			orDash(r.Language),
			humanize.Comma(int64(r.Stars)),
			humanize.Comma(int64(r.Forks)),
			"+" + humanize.Comma(int64(r.StarsGained)),
			orDash(r.Description),
		}
		if enriched {
			row = append(row, orDash(r.Summary))
		}
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d repositories", len(repos))})
	t.Render()
	return nil
}

func metadataTable(w io.Writer, meta domain.PageMetadata) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: valueWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, f := range metadataFields(meta) {
		t.AppendRow(table.Row{f.name, f.value})
	}
	t.Render()
	return nil
}

type field struct {
	name  string
	value string
}

// metadataFields lists the populated fields of meta in display order.
func metadataFields(meta domain.PageMetadata) []field {
	fields := []field{
		{"URL", meta.URL},
		{"Title", orDash(meta.Title)},
		{"Description", orDash(meta.Description)},
	}
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, field{name, value})
		}
	}

	add("Author", meta.Author)
	add("Publisher", meta.Publisher)
	add("Type", meta.Type)
	add("Language", meta.Language)
	add("Image", meta.Image)
	add("Icon", meta.Icon)
	add("Keywords", strings.Join(meta.Keywords, ", "))
	add("Tags", strings.Join(meta.Tags, ", "))
	add("Published", formatTime(meta.PublishedAt))
	add("Modified", formatTime(meta.ModifiedAt))
	add("Summary", meta.Summary)
	add("Key points", strings.Join(meta.KeyPoints, "; "))
	add("Category", strings.Join(meta.Category, ", "))
	if meta.ReadingTime > 0 {
		add("Reading time", fmt.Sprintf("%d min", meta.ReadingTime))
	}
	add("Content preview", meta.ContentPreview)
	return fields
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
