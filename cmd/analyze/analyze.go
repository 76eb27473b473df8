// Package analyze implements the analyze command.
package analyze

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendscout/cmd/common"
	"github.com/jonesrussell/trendscout/internal/app"
	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/render"
)

type options struct {
	depth     string
	images    bool
	timeoutMS int
	out       common.OutputFlags
}

// Command returns the analyze command.
func Command(env *common.Env) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "analyze URL",
		Short: "Extract metadata from a web page",
		Long: `Fetch a page and extract its title, description, authorship, dates
and a content preview.

Examples:
  trendscout analyze https://go.dev/blog/
  trendscout analyze https://example.com/post --depth deep --images --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.depth, "depth", "d", string(domain.DepthNormal), "extraction depth: basic, normal, deep")
	cmd.Flags().BoolVar(&opts.images, "images", false, "include image and icon URLs")
	cmd.Flags().IntVar(&opts.timeoutMS, "timeout", 0, "request timeout in milliseconds (default from config)")
	opts.out.Register(cmd)

	return cmd
}

func run(cmd *cobra.Command, env *common.Env, pageURL string, opts options) error {
	if err := env.Validate(); err != nil {
		return err
	}
	depth, err := domain.ParseDepth(opts.depth)
	if err != nil {
		return err
	}
	if opts.timeoutMS < 0 {
		return fmt.Errorf("%w: timeout must not be negative", domain.ErrInvalidInput)
	}
	format, length, err := opts.out.Resolve(env.Config.Output.Format)
	if err != nil {
		return err
	}
	if opts.out.AI {
		env.Config.AI.Enabled = true
	}

	a, err := env.NewApp(nil)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	meta, err := a.Analyze(cmd.Context(), app.AnalyzeQuery{
		URL:           pageURL,
		Depth:         depth,
		IncludeImages: opts.images,
		Timeout:       time.Duration(opts.timeoutMS) * time.Millisecond,
		Enrich:        opts.out.AI,
		SummaryLength: length,
	})
	if err != nil {
		return err
	}

	return opts.out.Write(env, format, common.RenderTo(meta, format, render.Metadata))
}
