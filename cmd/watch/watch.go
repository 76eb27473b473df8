// Package watch implements the watch command.
package watch

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendscout/cmd/common"
	appconfig "github.com/jonesrussell/trendscout/internal/config"
	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/watch"
)

type options struct {
	schedule  string
	languages []string
	period    string
	dir       string
	format    string
	once      bool
}

// Command returns the watch command.
func Command(env *common.Env) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Write trending snapshots on a schedule",
		Long: `Fetch the trending listing for each language on a schedule and write
one timestamped file per language into the snapshot directory.

The schedule is a 5-field cron expression or a descriptor such as
"@every 1h", "@hourly" or "@daily".

Examples:
  trendscout watch --languages go,rust --schedule "@every 6h"
  trendscout watch --once --format markdown --dir ./reports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.Validate(); err != nil {
				return err
			}
			cfg := watchConfig(env, cmd, opts)

			period, err := domain.ParsePeriod(cfg.Period)
			if err != nil {
				return err
			}
			format, err := domain.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}

			a, err := env.NewApp(nil)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			w, err := watch.New(watch.Config{
				Schedule:  cfg.Schedule,
				Languages: cfg.Languages,
				Period:    period,
				Dir:       cfg.Dir,
				Format:    format,
			}, a, nil, env.Logger)
			if err != nil {
				return err
			}

			if !opts.once {
				return w.Run(cmd.Context())
			}
			paths, err := w.RunOnce(cmd.Context())
			for _, p := range paths {
				_, _ = fmt.Fprintln(env.Streams.Out, p)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.schedule, "schedule", "s", "", "cron schedule (default from config)")
	cmd.Flags().StringSliceVarP(&opts.languages, "languages", "l", nil, "languages to snapshot (default from config, empty means all)")
	cmd.Flags().StringVarP(&opts.period, "period", "p", "", "time period: daily, weekly, monthly (default from config)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "snapshot directory (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "snapshot format (default from config)")
	cmd.Flags().BoolVar(&opts.once, "once", false, "write one round of snapshots and exit")

	return cmd
}

// watchConfig overlays explicitly set flags on the configured values.
func watchConfig(env *common.Env, cmd *cobra.Command, opts options) appconfig.WatchConfig {
	c := env.Config.Watch
	if cmd.Flags().Changed("schedule") {
		c.Schedule = opts.schedule
	}
	if cmd.Flags().Changed("languages") {
		c.Languages = opts.languages
	}
	if cmd.Flags().Changed("period") {
		c.Period = opts.period
	}
	if cmd.Flags().Changed("dir") {
		c.Dir = opts.dir
	}
	if cmd.Flags().Changed("format") {
		c.Format = opts.format
	}
	return c
}
