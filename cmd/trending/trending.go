// Package trending implements the trending command.
package trending

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendscout/cmd/common"
	"github.com/jonesrussell/trendscout/internal/app"
	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/render"
)

type options struct {
	language string
	period   string
	limit    int
	topics   []string
	out      common.OutputFlags
}

// Command returns the trending command.
func Command(env *common.Env) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List trending GitHub repositories",
		Long: `List repositories from the GitHub trending page.

Examples:
  # Top 10 Go repositories this week
  trendscout trending --language go --period weekly --limit 10

  # Repositories about machine learning, summarised by AI, as markdown
  trendscout trending --topics "machine learning" --ai --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "programming language to filter by")
	cmd.Flags().StringVarP(&opts.period, "period", "p", string(domain.PeriodDaily), "time period: daily, weekly, monthly")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", domain.DefaultLimit, "maximum number of repositories (1-100)")
	cmd.Flags().StringSliceVarP(&opts.topics, "topics", "t", nil, "keep repositories matching any of these keywords")
	opts.out.Register(cmd)

	return cmd
}

func run(cmd *cobra.Command, env *common.Env, opts options) error {
	if err := env.Validate(); err != nil {
		return err
	}
	period, err := domain.ParsePeriod(opts.period)
	if err != nil {
		return err
	}
	if err = domain.ValidateLimit(opts.limit); err != nil {
		return err
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

	repos, err := a.Trending(cmd.Context(), app.TrendingQuery{
		Language:      opts.language,
		Period:        period,
		Limit:         opts.limit,
		Topics:        opts.topics,
		Enrich:        opts.out.AI,
		SummaryLength: length,
	})
	if err != nil {
		return err
	}

	return opts.out.Write(env, format, common.RenderTo(repos, format, render.Repositories))
}
