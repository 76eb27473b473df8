package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/trendscout/internal/domain"
)

func repositoriesMarkdown(w io.Writer, repos []domain.Repository) error {
	var b strings.Builder
	b.WriteString("# Trending Repositories\n\n")

	if len(repos) == 0 {
		b.WriteString("No repositories found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Repository", "Language", "Stars", "Forks", "Today"})
	for i := range repos {
		r := &repos[i]
		t.AppendRow(table.Row{
			r.Rank,
			fmt.Sprintf("[%s](%s)", r.FullName(), r.URL),
			orDash(r.Language),
			humanize.Comma(int64(r.Stars)),
			humanize.Comma(int64(r.Forks)),
			humanize.Comma(int64(r.StarsGained)),
		})
	}
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")

	for i := range repos {
		r := &repos[i]
		fmt.Fprintf(&b, "\n## %d. %s\n\n", r.Rank, r.FullName())
		if r.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", r.Description)
		}
		if len(r.Topics) > 0 {
			fmt.Fprintf(&b, "**Topics:** %s\n\n", strings.Join(r.Topics, ", "))
		}
		if r.Summary != "" {
			fmt.Fprintf(&b, "**Summary:** %s\n\n", r.Summary)
		}
		writeList(&b, "Key features", r.KeyFeatures)
		writeList(&b, "Use cases", r.UseCases)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func metadataMarkdown(w io.Writer, meta domain.PageMetadata) error {
	var b strings.Builder

	title := meta.Title
	if title == "" {
		title = meta.URL
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "<%s>\n\n", meta.URL)
	if meta.Description != "" {
		fmt.Fprintf(&b, "> %s\n\n", meta.Description)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, f := range metadataFields(meta) {
		switch f.name {
		case "URL", "Title", "Description", "Summary", "Key points", "Content preview":
			continue
		}
		t.AppendRow(table.Row{f.name, f.value})
	}
	if t.Length() > 0 {
		b.WriteString(t.RenderMarkdown())
		b.WriteString("\n\n")
	}

	if meta.Summary != "" {
		fmt.Fprintf(&b, "## Summary\n\n%s\n\n", meta.Summary)
	}
	writeList(&b, "Key points", meta.KeyPoints)
	if meta.ContentPreview != "" {
		fmt.Fprintf(&b, "## Content preview\n\n%s\n", meta.ContentPreview)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
