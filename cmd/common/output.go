package common

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/output"
)

// OutputFlags are the rendering flags shared by trending and analyze.
type OutputFlags struct {
	Format        string
	Path          string
	AI            bool
	SummaryLength string
}

// Register adds the flags to cmd.
func (f *OutputFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Format, "format", "f", "", "output format: json, yaml, table, markdown, xlsx (default from config)")
	cmd.Flags().StringVarP(&f.Path, "output", "o", "", "write output to this file instead of stdout")
	cmd.Flags().BoolVar(&f.AI, "ai", false, "enrich records with an AI summary")
	cmd.Flags().StringVar(&f.SummaryLength, "summary-length", "", "summary length: short, medium, long (default from config)")
}

// Resolve validates the flags, falling back to fallbackFormat when no
// format was given. An empty summary length is returned as is.
func (f *OutputFlags) Resolve(fallbackFormat string) (domain.Format, domain.SummaryLength, error) {
	name := f.Format
	if name == "" {
		name = fallbackFormat
	}
	format, err := domain.ParseFormat(name)
	if err != nil {
		return "", "", err
	}
	if f.SummaryLength == "" {
		return format, "", nil
	}
	length, err := domain.ParseSummaryLength(f.SummaryLength)
	if err != nil {
		return "", "", err
	}
	return format, length, nil
}

// Write sends rendered output to the output file or stdout.
func (f *OutputFlags) Write(e *Env, format domain.Format, render output.RenderFunc) error {
	if err := output.Write(e.Streams.Out, f.Path, format.Binary(), render); err != nil {
		return err
	}
	if f.Path != "" {
		e.Logger.Info("Output written", "path", f.Path, "format", format)
	}
	return nil
}

// RenderTo adapts a renderer that takes an explicit format.
func RenderTo[T any](v T, format domain.Format, fn func(io.Writer, T, domain.Format) error) output.RenderFunc {
	return func(w io.Writer) error {
		return fn(w, v, format)
	}
}
